package notify

import (
	"context"
	"log"
)

// Notification is the short-lived user-facing message emitted after every
// cart mutation. Destructive marks the error variant; success and failure
// are mutually exclusive per operation.
type Notification struct {
	Recipient   string `json:"recipient"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Destructive bool   `json:"destructive,omitempty"`
}

type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// LogNotifier writes notifications to the service log. Used standalone in
// development and alongside the AMQP publisher in production.
type LogNotifier struct {
	logger *log.Logger
}

func NewLogNotifier(logger *log.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (l *LogNotifier) Notify(_ context.Context, n Notification) {
	level := "info"
	if n.Destructive {
		level = "error"
	}
	l.logger.Printf("notify %s recipient=%s title=%q description=%q", level, n.Recipient, n.Title, n.Description)
}

// Multi fans a notification out to several sinks.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, n Notification) {
	for _, sink := range m {
		sink.Notify(ctx, n)
	}
}
