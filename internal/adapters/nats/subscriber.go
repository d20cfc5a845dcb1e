package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/kamertour/kamertour/internal/core/domain"
)

// Subscriber implements ports.EventSubscriber using NATS JetStream.
type Subscriber struct {
	conn *nats.Conn
	js   nats.JetStreamContext
	subs []*nats.Subscription
}

// NewSubscriber creates a subscriber with its own NATS connection.
func NewSubscriber(url string) (*Subscriber, error) {
	conn, err := connect(url, "kamertour-subscriber")
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}
	return &Subscriber{conn: conn, js: js}, nil
}

// SubscribePOISubmitted delivers each submitted POI to handler. Messages are
// redelivered up to three times when handler fails; undecodable messages are
// terminated.
func (s *Subscriber) SubscribePOISubmitted(ctx context.Context, handler func(ctx context.Context, poi *domain.POI) error) error {
	sub, err := s.js.Subscribe(SubjectPOISubmitted, func(msg *nats.Msg) {
		var poi domain.POI
		if err := json.Unmarshal(msg.Data, &poi); err != nil {
			slog.WarnContext(ctx, "drop malformed submission", "error", err)
			_ = msg.Term()
			return
		}
		if err := handler(ctx, &poi); err != nil {
			slog.ErrorContext(ctx, "handle submission", "poi_id", poi.ID, "error", err)
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	},
		nats.Durable("submission-reviewer"),
		nats.ManualAck(),
		nats.MaxDeliver(3),
	)
	if err != nil {
		return err
	}
	s.subs = append(s.subs, sub)
	return nil
}

// Close unsubscribes and drains.
func (s *Subscriber) Close() {
	for _, sub := range s.subs {
		_ = sub.Unsubscribe()
	}
	_ = s.conn.Drain()
}
