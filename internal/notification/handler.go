package notification

import (
	"context"
	"encoding/json"
	"log"

	"github.com/example/order-catalog/internal/domain/customer"
	"github.com/example/order-catalog/internal/domain/order"
	"github.com/example/order-catalog/internal/email"
)

// Sender sends the confirmation email. Satisfied by *email.Service.
type Sender interface {
	SendOrderConfirmation(to, orderID string, total int64, items []email.OrderItem) error
}

// Handler processes order events from Kafka and sends confirmation
// email. It reads the order, its products and the customer back from
// the stores because the event carries only ids and the total.
type Handler struct {
	sender    Sender
	orders    order.Store
	products  order.ProductStore
	customers customer.Store
}

// NewHandler creates a new notification handler
func NewHandler(sender Sender, orders order.Store, products order.ProductStore, customers customer.Store) *Handler {
	return &Handler{
		sender:    sender,
		orders:    orders,
		products:  products,
		customers: customers,
	}
}

// HandleEvent processes an event from Kafka
func (h *Handler) HandleEvent(ctx context.Context, key, value []byte) error {
	var env Envelope
	if err := json.Unmarshal(value, &env); err != nil {
		log.Printf("[Notifier] Failed to unmarshal envelope: %v", err)
		return err
	}

	if env.EventType == order.EventOrderCreated {
		return h.handleOrderCreated(ctx, env.Data)
	}

	return nil
}

func (h *Handler) handleOrderCreated(ctx context.Context, data []byte) error {
	var e order.CreatedEvent
	if err := json.Unmarshal(data, &e); err != nil {
		log.Printf("[Notifier] Failed to unmarshal OrderCreated event: %v", err)
		return err
	}

	log.Printf("[Notifier] Processing OrderCreated event for order %s, customer %s", e.OrderID, e.CustomerID)

	c, err := h.customers.Get(ctx, e.CustomerID)
	if err != nil {
		log.Printf("[Notifier] Error getting customer %s: %v", e.CustomerID, err)
		return nil
	}
	if c == nil {
		log.Printf("[Notifier] Customer not found: %s", e.CustomerID)
		return nil
	}

	o, err := h.orders.Get(ctx, e.OrderID)
	if err != nil {
		log.Printf("[Notifier] Error getting order %s: %v", e.OrderID, err)
		return nil
	}
	if o == nil {
		log.Printf("[Notifier] Order not found: %s", e.OrderID)
		return nil
	}

	emailItems := make([]email.OrderItem, len(o.Items))
	for i, li := range o.Items {
		// Best-effort product name lookup; fall back to the id.
		name := li.ProductID
		if p, err := h.products.Get(ctx, li.ProductID); err == nil && p != nil {
			name = p.Name
		}

		emailItems[i] = email.OrderItem{
			ProductID: li.ProductID,
			Name:      name,
			Quantity:  li.Quantity,
			UnitPrice: li.UnitPrice,
		}
	}

	if err := h.sender.SendOrderConfirmation(c.Email, o.ID, o.Total, emailItems); err != nil {
		log.Printf("[Notifier] Failed to send email to %s: %v", c.Email, err)
		return err
	}

	log.Printf("[Notifier] Order confirmation email sent to %s for order %s", c.Email, o.ID)
	return nil
}
