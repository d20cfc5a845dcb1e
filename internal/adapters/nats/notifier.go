package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/nats-io/nats.go"
)

// Notification is the payload sent to a recipient subject.
type Notification struct {
	Recipient string    `json:"recipient"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	SentAt    time.Time `json:"sent_at"`
}

// Notifier implements ports.NotificationService over core NATS. Dashboards
// receive notifications through the WebSocket relay.
type Notifier struct {
	conn  *nats.Conn
	clock clockwork.Clock
}

// NewNotifier connects to NATS.
func NewNotifier(url string) (*Notifier, error) {
	conn, err := connect(url, "kamertour-notifier")
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return &Notifier{conn: conn, clock: clockwork.NewRealClock()}, nil
}

// Notify publishes and flushes so a broken connection surfaces as an error.
func (n *Notifier) Notify(ctx context.Context, recipient, title, body string) error {
	data, err := json.Marshal(Notification{
		Recipient: recipient,
		Title:     title,
		Body:      body,
		SentAt:    n.clock.Now().UTC(),
	})
	if err != nil {
		return err
	}
	if err := n.conn.Publish(NotifySubject(recipient), data); err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}
	return n.conn.FlushWithContext(ctx)
}

// Close drains and closes the connection.
func (n *Notifier) Close() {
	_ = n.conn.Drain()
}
