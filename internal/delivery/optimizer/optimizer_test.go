package optimizer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fulfillment/internal/apperr"
)

func TestValidatePermutation(t *testing.T) {
	tests := []struct {
		name  string
		order []int
		n     int
		ok    bool
	}{
		{"identity", []int{0, 1, 2}, 3, true},
		{"reversed", []int{2, 1, 0}, 3, true},
		{"single", []int{0}, 1, true},
		{"too short", []int{0, 1}, 3, false},
		{"too long", []int{0, 1, 2, 3}, 3, false},
		{"duplicate", []int{0, 1, 1}, 3, false},
		{"out of range high", []int{0, 1, 3}, 3, false},
		{"negative", []int{0, -1, 2}, 3, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePermutation(tt.order, tt.n)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.True(t, apperr.IsKind(err, apperr.KindValidation))
			}
		})
	}
}

func TestClientOptimize(t *testing.T) {
	t.Run("returns validated permutation", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/optimize", r.URL.Path)
			w.Write([]byte(`{"order":[1,2,0]}`))
		}))
		defer srv.Close()

		order, err := NewClient(srv.URL, time.Second).Optimize(context.Background(),
			[]string{"a", "b", "c"})

		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 0}, order)
	})

	t.Run("rejects malformed permutation", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"order":[0,0,1]}`))
		}))
		defer srv.Close()

		_, err := NewClient(srv.URL, time.Second).Optimize(context.Background(),
			[]string{"a", "b", "c"})

		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	})

	t.Run("maps server errors to remote service", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		_, err := NewClient(srv.URL, time.Second).Optimize(context.Background(), []string{"a"})

		assert.True(t, apperr.IsKind(err, apperr.KindRemoteService))
	})
}
