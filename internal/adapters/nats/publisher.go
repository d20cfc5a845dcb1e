package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/kamertour/kamertour/internal/core/domain"
	"github.com/kamertour/kamertour/internal/pkg/metrics"
)

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS and enables JetStream.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := connect(url, "kamertour-publisher")
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	for _, cfg := range Streams() {
		if _, err := js.AddStream(&cfg); err != nil {
			// Stream may already exist; try update
			if _, err := js.UpdateStream(&cfg); err != nil {
				conn.Close()
				return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
			}
		}
	}

	return &Publisher{conn: conn, js: js}, nil
}

// publish records the event under label so per-POI subjects do not become
// metric labels.
func (p *Publisher) publish(ctx context.Context, subject, label string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(subject, data, nats.Context(ctx))
	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.EventsPublished.WithLabelValues(label, result).Inc()
	return err
}

func (p *Publisher) PublishPOISubmitted(ctx context.Context, poi *domain.POI) error {
	return p.publish(ctx, SubjectPOISubmitted, SubjectPOISubmitted, poi)
}

func (p *Publisher) PublishPOIStatusChanged(ctx context.Context, poi *domain.POI) error {
	return p.publish(ctx, StatusSubject(poi.ID), SubjectPOIStatusPrefix+"*", poi)
}

func (p *Publisher) PublishCommentReported(ctx context.Context, c *domain.Comment) error {
	return p.publish(ctx, SubjectCommentReported, SubjectCommentReported, c)
}

func (p *Publisher) PublishRouteEstimated(ctx context.Context, route *domain.RouteEstimate) error {
	return p.publish(ctx, SubjectRouteEstimated, SubjectRouteEstimated, route)
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}
