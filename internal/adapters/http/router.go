package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/kamertour/kamertour/internal/pkg/metrics"
)

const requestTimeout = 15 * time.Second

// deprecatedRoutes lists endpoints kept for older clients.
var deprecatedRoutes = []DeprecatedRoute{
	{
		Path:        "/v1/route",
		SunsetDate:  time.Date(2027, 6, 30, 0, 0, 0, 0, time.UTC),
		Alternative: "/v1/routes",
	},
}

func withTimeout(h fiber.Handler) fiber.Handler {
	return timeout.NewWithContext(h, requestTimeout)
}

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	app.Use(requestid.New())
	app.Use(RequestIDLogMiddleware())
	app.Use(AccessLogMiddleware())

	rate := deps.RateLimit
	if rate <= 0 {
		rate = 120
	}
	app.Use(limiter.New(limiter.Config{
		Max:        rate,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return newError(c, fiber.StatusTooManyRequests, "rate_limited", "too many requests, please try again later")
		},
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	app.Use(ETagMiddleware())
	app.Use(CachingMiddleware())
	app.Use(DeprecationMiddleware(deprecatedRoutes))

	// Health & readiness (no timeout; fast internal checks)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	v1 := app.Group("/v1")

	// Static paths before /pois/:id
	v1.Get("/pois", withTimeout(ListPOIsHandler(deps)))
	v1.Post("/pois", withTimeout(CreatePOIHandler(deps)))
	v1.Get("/pois/nearby", withTimeout(AroundPointHandler(deps)))
	v1.Get("/pois/:id", withTimeout(GetPOIHandler(deps)))
	v1.Put("/pois/:id", withTimeout(UpdatePOIHandler(deps)))
	v1.Delete("/pois/:id", withTimeout(DeletePOIHandler(deps)))
	v1.Get("/pois/:id/nearby", withTimeout(NearbyPOIsHandler(deps)))
	v1.Get("/pois/:id/nearest", withTimeout(NearestPOIsHandler(deps)))
	v1.Get("/pois/:id/route", withTimeout(EstimateRouteHandler(deps)))
	v1.Get("/pois/:id/comments", withTimeout(ListPOICommentsHandler(deps)))
	v1.Post("/pois/:id/comments", withTimeout(CreateCommentHandler(deps)))

	v1.Post("/routes", withTimeout(CreateRouteHandler(deps)))
	v1.Get("/route", withTimeout(LegacyRouteHandler(deps)))

	v1.Get("/comments", withTimeout(ListCommentsHandler(deps)))
	v1.Put("/comments/:id", withTimeout(UpdateCommentHandler(deps)))
	v1.Delete("/comments/:id", withTimeout(DeleteCommentHandler(deps)))
	v1.Post("/comments/:id/approve", withTimeout(ApproveCommentHandler(deps)))
	v1.Post("/comments/:id/report", withTimeout(ReportCommentHandler(deps)))

	// Moderation
	v1.Get("/moderation/pois", withTimeout(PendingPOIsHandler(deps)))
	v1.Get("/pois/:id/duplicates", withTimeout(DuplicatesHandler(deps)))
	v1.Post("/pois/:id/publish", withTimeout(PublishPOIHandler(deps)))
	v1.Post("/pois/:id/reject", withTimeout(RejectPOIHandler(deps)))

	// Favorites
	v1.Get("/users/:user/favorites", withTimeout(ListFavoritesHandler(deps)))
	v1.Post("/users/:user/favorites", withTimeout(AddFavoriteHandler(deps)))
	v1.Put("/users/:user/favorites/:id", withTimeout(UpdateFavoriteHandler(deps)))
	v1.Delete("/users/:user/favorites/:id", withTimeout(RemoveFavoriteHandler(deps)))

	v1.Get("/categories", ListCategoriesHandler())
	v1.Get("/stats", withTimeout(StatsHandler(deps)))

	app.Post("/graphql", GraphQLHandler(deps))

	SetupDocs(app)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(WebSocketHandler(deps.NATS)))
}
