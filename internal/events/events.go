// Package events publishes domain events after successful writes.
package events

import (
	"context"
	"time"

	"foodgram/internal/domain"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	amqp "github.com/streadway/amqp"
)

// Publisher delivers events to interested consumers.
type Publisher interface {
	Publish(ctx context.Context, event domain.Event) error
}

// Broker is the subset of the RabbitMQ client used for publishing.
type Broker interface {
	Publish(payload any) error
}

// AMQPPublisher publishes events as JSON to a RabbitMQ queue.
type AMQPPublisher struct {
	broker Broker
}

// NewAMQPPublisher creates a new AMQPPublisher.
func NewAMQPPublisher(broker Broker) *AMQPPublisher {
	return &AMQPPublisher{broker: broker}
}

// Publish stamps the event and hands it to the broker.
func (p *AMQPPublisher) Publish(_ context.Context, event domain.Event) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	return p.broker.Publish(event)
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

// Publish implements Publisher.
func (NopPublisher) Publish(_ context.Context, event domain.Event) error {
	log.Debug().Str("event", event.Type).Msg("event dropped, no broker configured")
	return nil
}

// Handler reacts to one consumed event.
type Handler interface {
	Handle(ctx context.Context, event domain.Event) error
}

// Decode turns a delivery into an Event and passes it to h. Malformed bodies
// are logged and acknowledged so they are not redelivered.
func Decode(ctx context.Context, h Handler) func(msg amqp.Delivery) error {
	return func(msg amqp.Delivery) error {
		var event domain.Event
		if err := json.Unmarshal(msg.Body, &event); err != nil {
			log.Warn().Err(err).Uint64("delivery_tag", msg.DeliveryTag).Msg("discarding malformed event")
			return nil
		}
		return h.Handle(ctx, event)
	}
}
