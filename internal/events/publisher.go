package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/optivue/cart-service-go/internal/cart"
	"github.com/optivue/cart-service-go/internal/contracts"
)

// PublishMetadata carries tracing identity from the HTTP boundary into the
// event envelope.
type PublishMetadata struct {
	CorrelationID string
	CausationID   string
}

// RabbitCartEventsPublisher publishes enveloped cart events to the topic
// exchange. Each owner's events carry a strictly increasing sequence so
// consumers can detect gaps and reorderings per cart.
type RabbitCartEventsPublisher struct {
	ch        *amqp.Channel
	sequences SequenceRepository
}

func NewRabbitCartEventsPublisher(conn *amqp.Connection, sequences SequenceRepository) (*RabbitCartEventsPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := declareEventsExchange(ch); err != nil {
		return nil, fmt.Errorf("declare exchange %s: %w", EventsExchange, err)
	}

	return &RabbitCartEventsPublisher{ch: ch, sequences: sequences}, nil
}

func (p *RabbitCartEventsPublisher) Close() error {
	return p.ch.Close()
}

func (p *RabbitCartEventsPublisher) PublishCartCheckedOut(ctx context.Context, ownerID string, items []cart.Item, metadata PublishMetadata) error {
	seq, err := p.sequences.NextSequence(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("next sequence for %s: %w", ownerID, err)
	}

	env := contracts.BuildCartCheckedOutEvent(ownerID, items, contracts.EnvelopeOptions{
		PartitionKey:  ownerID,
		Sequence:      seq,
		CorrelationID: metadata.CorrelationID,
		CausationID:   metadata.CausationID,
	})

	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal CartCheckedOut: %w", err)
	}

	return p.publishJSON(ctx, CartCheckedOutRoutingKey, body)
}

func (p *RabbitCartEventsPublisher) publishJSON(ctx context.Context, routingKey string, body []byte) error {
	pubCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return p.ch.PublishWithContext(
		pubCtx,
		EventsExchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}
