package ports

import (
	"context"

	"github.com/kamertour/kamertour/internal/core/domain"
)

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishPOISubmitted(ctx context.Context, poi *domain.POI) error
	PublishPOIStatusChanged(ctx context.Context, poi *domain.POI) error
	PublishCommentReported(ctx context.Context, comment *domain.Comment) error
	PublishRouteEstimated(ctx context.Context, route *domain.RouteEstimate) error
}

// EventSubscriber subscribes to domain events from a message broker.
type EventSubscriber interface {
	SubscribePOISubmitted(ctx context.Context, handler func(ctx context.Context, poi *domain.POI) error) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

// NotificationService sends notifications to contributors and moderators.
type NotificationService interface {
	Notify(ctx context.Context, recipient, title, body string) error
}
