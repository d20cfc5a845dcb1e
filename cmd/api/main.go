package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jonboulle/clockwork"

	"github.com/kamertour/kamertour/internal/adapters/http"
	natsadapter "github.com/kamertour/kamertour/internal/adapters/nats"
	"github.com/kamertour/kamertour/internal/adapters/postgres"
	"github.com/kamertour/kamertour/internal/adapters/valkey"
	"github.com/kamertour/kamertour/internal/core/ports"
	"github.com/kamertour/kamertour/internal/core/usecases"
	"github.com/kamertour/kamertour/internal/pkg/config"
	"github.com/kamertour/kamertour/internal/pkg/geospatial"
	"github.com/kamertour/kamertour/internal/pkg/logging"
	"github.com/kamertour/kamertour/internal/pkg/metrics"
	"github.com/kamertour/kamertour/internal/pkg/telemetry"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.Load("kamertour-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPEndpoint)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Database
	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	deps := &http.Dependencies{
		DB:        db,
		Version:   version,
		RateLimit: cfg.Server.RateLimit,
	}

	// Optional backends stay nil interfaces when unavailable.
	var cache ports.CacheService
	if c, err := valkey.New(cfg.Valkey.Addr, "kamertour"); err != nil {
		slog.Warn("valkey unavailable", "error", err)
	} else {
		defer c.Close()
		cache = c
		deps.Cache = c
	}

	var publisher ports.EventPublisher
	if p, err := natsadapter.NewPublisher(cfg.NATS.URL); err != nil {
		slog.Warn("nats unavailable", "error", err)
	} else {
		defer p.Close()
		publisher = p
	}

	var notifier ports.NotificationService
	if n, err := natsadapter.NewNotifier(cfg.NATS.URL); err != nil {
		slog.Warn("notifier unavailable", "error", err)
	} else {
		defer n.Close()
		notifier = n
	}

	// Raw NATS connection for WebSocket relay
	if nc, err := natsadapter.RawConn(cfg.NATS.URL); err != nil {
		slog.Warn("nats ws conn unavailable", "error", err)
	} else {
		defer nc.Close()
		deps.NATS = nc
	}

	// Repos
	poiRepo := postgres.NewPOIRepo(db)
	commentRepo := postgres.NewCommentRepo(db)
	clock := clockwork.NewRealClock()

	// Use cases
	estimator := geospatial.NewEstimator(
		geospatial.LinearModel{MinutesPerKm: cfg.Routing.MinutesPerKm, PricePerKm: cfg.Routing.PricePerKm},
		geospatial.WithCurrency(cfg.Routing.Currency),
		geospatial.WithDisclaimer(cfg.Routing.Disclaimer),
	)
	poiOpts := []usecases.POIOption{
		usecases.WithPOIClock(clock),
		usecases.WithProximity(usecases.ProximityConfig{
			DefaultRadiusKm: cfg.Proximity.DefaultRadiusKm,
			MaxRadiusKm:     cfg.Proximity.MaxRadiusKm,
			MaxResults:      cfg.Proximity.MaxResults,
		}),
	}
	if cache != nil {
		poiOpts = append(poiOpts, usecases.WithPOICache(cache))
	}
	if publisher != nil {
		poiOpts = append(poiOpts, usecases.WithPOIPublisher(publisher))
	}

	moderation := usecases.NewModerationService(poiRepo, publisher, notifier, cache)
	moderation.SetDuplicateRadius(cfg.Proximity.DuplicateRadiusKm)

	deps.POIs = usecases.NewPOIService(poiRepo, poiOpts...)
	deps.Routes = usecases.NewRouteService(poiRepo, estimator, publisher)
	deps.Comments = usecases.NewCommentService(commentRepo, poiRepo, publisher, clock)
	deps.Moderation = moderation
	deps.Stats = usecases.NewStatsService(poiRepo, commentRepo)
	deps.Favorites = usecases.NewFavoriteService(postgres.NewFavoriteRepo(db), poiRepo, clock)

	// DB pool gauges
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				metrics.UpdateDBPoolMetrics(db.Stat())
			case <-ctx.Done():
				return
			}
		}
	}()

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "KamerTour API",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, If-None-Match",
		ExposeHeaders:    "ETag, Link, Location, Deprecation, Sunset",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr, "version", version)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
