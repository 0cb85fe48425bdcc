package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindSurvivesWrapping(t *testing.T) {
	cause := errors.New("connection reset")
	err := RemoteService(cause, "inventory call failed")
	wrapped := fmt.Errorf("creating order: %w", err)

	assert.True(t, IsKind(wrapped, KindRemoteService))
	assert.False(t, IsKind(wrapped, KindValidation))
	assert.ErrorIs(t, wrapped, cause)
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{Validation("bad input"), http.StatusBadRequest},
		{StockInsufficient("short"), http.StatusBadRequest},
		{NotFound("missing"), http.StatusNotFound},
		{RemoteService(nil, "down"), http.StatusBadGateway},
		{Transaction(nil, "db"), http.StatusInternalServerError},
		{NotificationDelivery(nil, "smtp"), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.status, HTTPStatus(tt.err))
	}
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "bad input", Validation("bad input").Error())
	assert.Equal(t, "db: timeout", Transaction(errors.New("timeout"), "db").Error())
}
