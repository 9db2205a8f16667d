package order

import (
	"context"
	"time"
)

const EventOrderCreated = "OrderCreated"

// CreatedEvent is published after an order has been durably created.
// Delivery is best effort; consumers must not assume exactly-once.
type CreatedEvent struct {
	OrderID    string    `json:"order_id"`
	CustomerID string    `json:"customer_id"`
	Total      int64     `json:"total"`
	CreatedAt  time.Time `json:"created_at"`
}

// Publisher is the outbound notification sink. Publish failures are
// logged by the engine and never fail the originating operation.
type Publisher interface {
	PublishOrderCreated(ctx context.Context, event CreatedEvent) error
}
