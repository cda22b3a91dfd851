package events

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/optivue/cart-service-go/internal/notify"
)

// RabbitNotifier pushes cart notifications onto the topic exchange so the
// storefront can surface them as toasts. Notifications are fire-and-forget:
// a publish failure is logged, never propagated, so it cannot turn a
// successful cart mutation into a failed request.
type RabbitNotifier struct {
	ch     *amqp.Channel
	logger *log.Logger
}

func NewRabbitNotifier(conn *amqp.Connection, logger *log.Logger) (*RabbitNotifier, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}
	if err := declareEventsExchange(ch); err != nil {
		return nil, err
	}
	return &RabbitNotifier{ch: ch, logger: logger}, nil
}

func (n *RabbitNotifier) Close() error {
	return n.ch.Close()
}

func (n *RabbitNotifier) Notify(ctx context.Context, notification notify.Notification) {
	body, err := json.Marshal(notification)
	if err != nil {
		n.logger.Printf("encode notification: %v", err)
		return
	}

	pubCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	err = n.ch.PublishWithContext(
		pubCtx,
		EventsExchange,
		CartNotificationRoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
	if err != nil {
		n.logger.Printf("publish notification: %v", err)
	}
}
