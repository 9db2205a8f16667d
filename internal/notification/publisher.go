// Package notification carries order events out of the service. The
// publisher side is a fire-and-forget sink invoked by the order engine
// after commit; the handler side consumes the topic and sends
// confirmation email.
package notification

import (
	"context"
	"encoding/json"
	"log"

	"github.com/example/order-catalog/internal/domain/order"
	"github.com/example/order-catalog/internal/infrastructure/kafka"
)

// Envelope wraps an event payload with its type so one topic can carry
// multiple event kinds.
type Envelope struct {
	EventType string          `json:"event_type"`
	Data      json.RawMessage `json:"data"`
}

// KafkaPublisher implements order.Publisher on top of a Kafka topic,
// keyed by order id.
type KafkaPublisher struct {
	producer *kafka.Producer
}

func NewKafkaPublisher(producer *kafka.Producer) *KafkaPublisher {
	return &KafkaPublisher{producer: producer}
}

func (p *KafkaPublisher) PublishOrderCreated(ctx context.Context, event order.CreatedEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.producer.Publish(ctx, event.OrderID, Envelope{
		EventType: order.EventOrderCreated,
		Data:      data,
	})
}

// LogPublisher implements order.Publisher by logging the event. Used
// when no broker is configured.
type LogPublisher struct{}

func (LogPublisher) PublishOrderCreated(ctx context.Context, event order.CreatedEvent) error {
	log.Printf("[Notification] OrderCreated | order: %s | customer: %s | total: %d | created: %s",
		event.OrderID, event.CustomerID, event.Total, event.CreatedAt.Format("2006-01-02T15:04:05Z07:00"))
	return nil
}
