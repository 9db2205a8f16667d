package order

import (
	"errors"
	"time"
)

var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrInvalidTotal   = errors.New("order total must be positive")
)

// LineItem is one product entry within an order. UnitPrice is the
// catalog price captured when the line was built; later catalog price
// changes never touch it.
type LineItem struct {
	ID        string `json:"id"`
	OrderID   string `json:"order_id"`
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
	Total     int64  `json:"total"`
}

// Order is the aggregate root. Total always equals the sum of line
// totals, in minor currency units.
type Order struct {
	ID         string     `json:"id"`
	CustomerID string     `json:"customer_id"`
	Status     Status     `json:"status"`
	Total      int64      `json:"total"`
	Items      []LineItem `json:"items"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// ItemRequest is a (product, quantity) pair supplied by the caller.
type ItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}
