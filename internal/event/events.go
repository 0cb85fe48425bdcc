package event

import (
	"encoding/json"
	"time"
)

// Routing keys published on the topic exchange.
const (
	OrderCreated       = "order.created"
	OrderConfirmed     = "order.confirmed"
	OrderCancelled     = "order.cancelled"
	OrderStatusChanged = "order.status_changed"
)

// Envelope is the wire format for every published event.
type Envelope struct {
	Event      string    `json:"event"`
	OccurredAt time.Time `json:"occurredAt"`
	Data       any       `json:"data"`
}

// DecodeData unmarshals the envelope payload into v. Consumers see Data
// as generic JSON, so it round-trips through encoding.
func (e Envelope) DecodeData(v any) error {
	b, err := json.Marshal(e.Data)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

// OrderEvent is the payload carried by order lifecycle events.
type OrderEvent struct {
	OrderID       uint64           `json:"orderId"`
	OrderNumber   string           `json:"orderNumber"`
	CustomerID    string           `json:"customerId"`
	CustomerEmail string           `json:"customerEmail,omitempty"`
	Status        string           `json:"status"`
	OldStatus     string           `json:"oldStatus,omitempty"`
	Total         string           `json:"total,omitempty"`
	Reason        string           `json:"reason,omitempty"`
	Items         []OrderEventItem `json:"items,omitempty"`
}

// OrderEventItem lets downstream consumers (picklist creation) act
// without calling back into the order service.
type OrderEventItem struct {
	ProductID   uint64 `json:"productId"`
	ProductName string `json:"productName,omitempty"`
	Quantity    int64  `json:"quantity"`
}
