package order

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/example/order-catalog/internal/domain/product"
	"github.com/google/uuid"
)

// ProductStore is the slice of the catalog the engine depends on.
// Get returns (nil, nil) when the product does not exist.
// TryDecrementStock must check availability and decrement in one
// indivisible step; the engine never reads and writes stock in two
// separate calls.
type ProductStore interface {
	Get(ctx context.Context, id string) (*product.Product, error)
	TryDecrementStock(ctx context.Context, id string, quantity int) error
	AddStock(ctx context.Context, id string, quantity int) error
}

// Store persists orders and their line items.
// Get returns (nil, nil) when the order does not exist.
type Store interface {
	Get(ctx context.Context, id string) (*Order, error)
	GetAll(ctx context.Context) ([]*Order, error)
	GetByCustomer(ctx context.Context, customerID string) ([]*Order, error)
	Create(ctx context.Context, o *Order) error
	Update(ctx context.Context, o *Order) error
	ReplaceLineItems(ctx context.Context, orderID string, items []LineItem, total int64) error
}

// Engine orchestrates order creation and revision: validation, price
// snapshotting, stock reservation, persistence and post-commit
// notification. It holds no per-call state and is safe for concurrent
// use; the serialization point for competing orders is the store's
// conditional decrement.
type Engine struct {
	products  ProductStore
	orders    Store
	publisher Publisher
}

// NewEngine creates an engine. publisher may be nil to disable
// notifications.
func NewEngine(products ProductStore, orders Store, publisher Publisher) *Engine {
	return &Engine{products: products, orders: orders, publisher: publisher}
}

// stockDelta records a stock mutation already applied within the
// current call. Positive quantity means stock was decremented.
type stockDelta struct {
	productID string
	quantity  int
}

// CreateOrder validates the request, builds priced line items, reserves
// stock per item through the conditional decrement, persists the order
// and emits a best-effort OrderCreated notification. On any per-item or
// persistence failure, decrements already applied in this call are
// reversed before the error is returned.
func (e *Engine) CreateOrder(ctx context.Context, customerID string, items []ItemRequest) (string, error) {
	if err := validateRequest(customerID, items); err != nil {
		return "", err
	}

	now := time.Now().UTC()
	o := &Order{
		ID:         uuid.New().String(),
		CustomerID: customerID,
		Status:     StatusCreated,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	var applied []stockDelta
	for _, it := range items {
		p, err := e.products.Get(ctx, it.ProductID)
		if err != nil {
			e.revert(ctx, applied)
			return "", err
		}
		if p == nil {
			e.revert(ctx, applied)
			return "", fmt.Errorf("%w: %s", product.ErrProductNotFound, it.ProductID)
		}

		line := LineItem{
			ID:        uuid.New().String(),
			OrderID:   o.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: p.Price,
			Total:     p.Price * int64(it.Quantity),
		}

		if err := e.products.TryDecrementStock(ctx, it.ProductID, it.Quantity); err != nil {
			e.revert(ctx, applied)
			return "", err
		}
		applied = append(applied, stockDelta{productID: it.ProductID, quantity: it.Quantity})

		o.Items = append(o.Items, line)
		o.Total += line.Total
	}

	// Unreachable with positive quantities and prices, but enforced.
	if o.Total <= 0 {
		e.revert(ctx, applied)
		return "", ErrInvalidTotal
	}

	if err := e.orders.Create(ctx, o); err != nil {
		e.revert(ctx, applied)
		return "", err
	}

	log.Printf("[Order] Created order %s for customer %s, total %d", o.ID, o.CustomerID, o.Total)
	e.notifyCreated(ctx, o)
	return o.ID, nil
}

// ReviseOrder updates an order's status and, when a non-empty
// replacement item list is supplied, replaces its line items. New lines
// are priced at the current catalog price and the net per-product stock
// difference between old and new lines is applied through the same
// conditional decrement, so a revision can neither oversell nor leak
// stock. Returns (nil, nil) when the order does not exist; the caller
// decides whether absence is an error.
func (e *Engine) ReviseOrder(ctx context.Context, orderID, status string, items []ItemRequest) (*Order, error) {
	o, err := e.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, nil
	}

	st, err := ParseStatus(status)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRequest, status)
	}

	if len(items) > 0 {
		for _, it := range items {
			if it.ProductID == "" {
				return nil, fmt.Errorf("%w: product id is required", ErrInvalidRequest)
			}
			if it.Quantity <= 0 {
				return nil, fmt.Errorf("%w: quantity must be positive for product %s", ErrInvalidRequest, it.ProductID)
			}
		}

		lines, total, err := e.priceLines(ctx, o.ID, items)
		if err != nil {
			return nil, err
		}
		if total <= 0 {
			return nil, ErrInvalidTotal
		}

		applied, err := e.applyStockDeltas(ctx, o.Items, items)
		if err != nil {
			return nil, err
		}

		if err := e.orders.ReplaceLineItems(ctx, o.ID, lines, total); err != nil {
			e.revert(ctx, applied)
			return nil, err
		}
		o.Items = lines
		o.Total = total
	}

	o.Status = st
	o.UpdatedAt = time.Now().UTC()
	if err := e.orders.Update(ctx, o); err != nil {
		return nil, err
	}

	log.Printf("[Order] Revised order %s: status %s, %d items", o.ID, o.Status, len(o.Items))
	return o, nil
}

// GetOrder returns (nil, nil) when the order does not exist.
func (e *Engine) GetOrder(ctx context.Context, id string) (*Order, error) {
	return e.orders.Get(ctx, id)
}

func (e *Engine) GetAllOrders(ctx context.Context) ([]*Order, error) {
	return e.orders.GetAll(ctx)
}

// GetOrdersByCustomer returns an empty slice, not an error, when the
// customer has no orders.
func (e *Engine) GetOrdersByCustomer(ctx context.Context, customerID string) ([]*Order, error) {
	return e.orders.GetByCustomer(ctx, customerID)
}

func validateRequest(customerID string, items []ItemRequest) error {
	if customerID == "" {
		return fmt.Errorf("%w: customer id is required", ErrInvalidRequest)
	}
	if len(items) == 0 {
		return fmt.Errorf("%w: order must have at least one item", ErrInvalidRequest)
	}
	for _, it := range items {
		if it.ProductID == "" {
			return fmt.Errorf("%w: product id is required", ErrInvalidRequest)
		}
		if it.Quantity <= 0 {
			return fmt.Errorf("%w: quantity must be positive for product %s", ErrInvalidRequest, it.ProductID)
		}
	}
	return nil
}

// priceLines builds replacement line items priced at the current
// catalog price. No stock is touched here.
func (e *Engine) priceLines(ctx context.Context, orderID string, items []ItemRequest) ([]LineItem, int64, error) {
	lines := make([]LineItem, 0, len(items))
	var total int64
	for _, it := range items {
		p, err := e.products.Get(ctx, it.ProductID)
		if err != nil {
			return nil, 0, err
		}
		if p == nil {
			return nil, 0, fmt.Errorf("%w: %s", product.ErrProductNotFound, it.ProductID)
		}
		line := LineItem{
			ID:        uuid.New().String(),
			OrderID:   orderID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: p.Price,
			Total:     p.Price * int64(it.Quantity),
		}
		lines = append(lines, line)
		total += line.Total
	}
	return lines, total, nil
}

// applyStockDeltas applies the per-product quantity difference between
// the current and replacement lines: increases go through the
// conditional decrement, decreases return stock. On failure, deltas
// already applied are reversed before the error is returned.
func (e *Engine) applyStockDeltas(ctx context.Context, current []LineItem, replacement []ItemRequest) ([]stockDelta, error) {
	deltas := make(map[string]int)
	for _, li := range current {
		deltas[li.ProductID] -= li.Quantity
	}
	for _, it := range replacement {
		deltas[it.ProductID] += it.Quantity
	}

	ids := make([]string, 0, len(deltas))
	for id, d := range deltas {
		if d != 0 {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	var applied []stockDelta
	for _, id := range ids {
		d := deltas[id]
		var err error
		if d > 0 {
			err = e.products.TryDecrementStock(ctx, id, d)
		} else {
			err = e.products.AddStock(ctx, id, -d)
		}
		if err != nil {
			e.revert(ctx, applied)
			return nil, err
		}
		applied = append(applied, stockDelta{productID: id, quantity: d})
	}
	return applied, nil
}

// revert reverses stock mutations applied earlier in the same call,
// newest first. Failures here are logged; there is nothing further the
// engine can do in-band.
func (e *Engine) revert(ctx context.Context, applied []stockDelta) {
	for i := len(applied) - 1; i >= 0; i-- {
		d := applied[i]
		var err error
		if d.quantity > 0 {
			err = e.products.AddStock(ctx, d.productID, d.quantity)
		} else {
			err = e.products.TryDecrementStock(ctx, d.productID, -d.quantity)
		}
		if err != nil {
			log.Printf("[Order] Failed to restore stock for product %s (%+d): %v", d.productID, d.quantity, err)
		}
	}
}

// notifyCreated emits the post-commit notification. Failures are logged
// and never surfaced to the caller.
func (e *Engine) notifyCreated(ctx context.Context, o *Order) {
	if e.publisher == nil {
		return
	}
	event := CreatedEvent{
		OrderID:    o.ID,
		CustomerID: o.CustomerID,
		Total:      o.Total,
		CreatedAt:  o.CreatedAt,
	}
	if err := e.publisher.PublishOrderCreated(ctx, event); err != nil {
		log.Printf("[Order] Failed to publish OrderCreated for order %s: %v", o.ID, err)
	}
}
