// Package inventory exposes the client other services use to talk to the
// inventory service. Lookup is read-only; adjustment is the only remote
// mutation in the system and is idempotent via caller-supplied keys.
package inventory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"fulfillment/internal/apperr"
)

type ProductInfo struct {
	ID    uint64          `json:"id"`
	SKU   string          `json:"sku"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Stock int64           `json:"stock"`
}

type StockMovementInfo struct {
	ProductID     uint64 `json:"productId"`
	QuantityDelta int64  `json:"quantityDelta"`
	StockAfter    int64  `json:"stockAfter"`
}

type Gateway interface {
	GetProduct(ctx context.Context, id uint64) (*ProductInfo, error)
	AdjustStock(ctx context.Context, id uint64, quantityDelta int64, idempotencyKey string) (*StockMovementInfo, error)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ Gateway = (*Client)(nil)

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) GetProduct(ctx context.Context, id uint64) (*ProductInfo, error) {
	url := fmt.Sprintf("%s/products/%d", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, apperr.RemoteService(err, "inventory request failed")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperr.RemoteService(err, "inventory service unreachable")
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, apperr.NotFound("product %d not found", id)
	default:
		return nil, apperr.RemoteService(nil, "inventory service returned status %d", resp.StatusCode)
	}

	var p ProductInfo
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, apperr.RemoteService(err, "invalid inventory response")
	}
	return &p, nil
}

func (c *Client) AdjustStock(ctx context.Context, id uint64, quantityDelta int64, idempotencyKey string) (*StockMovementInfo, error) {
	body, err := json.Marshal(map[string]any{
		"quantityDelta":  quantityDelta,
		"idempotencyKey": idempotencyKey,
	})
	if err != nil {
		return nil, apperr.RemoteService(err, "inventory request failed")
	}

	url := fmt.Sprintf("%s/products/stock/%d", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, bytes.NewReader(body))
	if err != nil {
		return nil, apperr.RemoteService(err, "inventory request failed")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperr.RemoteService(err, "inventory service unreachable")
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, apperr.NotFound("product %d not found", id)
	case http.StatusBadRequest:
		// The stock endpoint's only business rejection is a short stock.
		return nil, apperr.StockInsufficient("insufficient stock for product %d", id)
	default:
		return nil, apperr.RemoteService(nil, "inventory service returned status %d", resp.StatusCode)
	}

	var movement StockMovementInfo
	if err := json.NewDecoder(resp.Body).Decode(&movement); err != nil {
		return nil, apperr.RemoteService(err, "invalid inventory response")
	}
	return &movement, nil
}
