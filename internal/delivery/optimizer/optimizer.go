// Package optimizer defines the route-optimization contract. The solver
// itself is an external capability; the one hard requirement on any
// implementation is that its output is a true permutation of the input
// indices.
package optimizer

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"fulfillment/internal/apperr"
)

// RouteOptimizer returns a visiting order for N addresses as a
// permutation of 0..N-1.
type RouteOptimizer interface {
	Optimize(ctx context.Context, addresses []string) ([]int, error)
}

// ValidatePermutation rejects any response with duplicate or missing
// indices.
func ValidatePermutation(order []int, n int) error {
	if len(order) != n {
		return apperr.Validation("optimizer returned %d indices for %d stops", len(order), n)
	}
	seen := make([]bool, n)
	for _, idx := range order {
		if idx < 0 || idx >= n {
			return apperr.Validation("optimizer returned out-of-range index %d", idx)
		}
		if seen[idx] {
			return apperr.Validation("optimizer returned duplicate index %d", idx)
		}
		seen[idx] = true
	}
	return nil
}

// Client calls an external optimization endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ RouteOptimizer = (*Client)(nil)

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) Optimize(ctx context.Context, addresses []string) ([]int, error) {
	body, err := json.Marshal(map[string]any{"addresses": addresses})
	if err != nil {
		return nil, apperr.RemoteService(err, "optimizer request failed")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/optimize", bytes.NewReader(body))
	if err != nil {
		return nil, apperr.RemoteService(err, "optimizer request failed")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperr.RemoteService(err, "optimizer unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperr.RemoteService(nil, "optimizer returned status %d", resp.StatusCode)
	}

	var out struct {
		Order []int `json:"order"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, apperr.RemoteService(err, "invalid optimizer response")
	}
	if err := ValidatePermutation(out.Order, len(addresses)); err != nil {
		return nil, err
	}
	return out.Order, nil
}
