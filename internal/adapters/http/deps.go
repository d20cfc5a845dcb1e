package http

import (
	"context"

	"github.com/nats-io/nats.go"

	"github.com/kamertour/kamertour/internal/core/usecases"
)

// Pinger is a backing service the readiness check can ping.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies holds all services needed by HTTP handlers. Optional
// infrastructure fields are nil when the backing service is unavailable.
type Dependencies struct {
	POIs       *usecases.POIService
	Routes     *usecases.RouteService
	Comments   *usecases.CommentService
	Moderation *usecases.ModerationService
	Stats      *usecases.StatsService
	Favorites  *usecases.FavoriteService

	NATS    *nats.Conn
	DB      Pinger
	Cache   Pinger
	Version string
	// RateLimit is requests per minute per IP; zero means 120.
	RateLimit int
}
