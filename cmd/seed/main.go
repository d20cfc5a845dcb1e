package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/kamertour/kamertour/internal/adapters/postgres"
	"github.com/kamertour/kamertour/internal/pkg/config"
	"github.com/kamertour/kamertour/internal/pkg/logging"
)

const batchSize = 500

func main() {
	cfg, err := config.Load("kamertour-seed")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	src := "seeds/pois.json"
	if len(os.Args) > 1 {
		src = os.Args[1]
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	client := &http.Client{Timeout: 60 * time.Second}
	rc, err := openCatalog(ctx, client, src)
	if err != nil {
		log.Fatalf("open %s: %v", src, err)
	}
	pois, err := parseCatalog(rc, time.Now().UTC())
	rc.Close()
	if err != nil {
		log.Fatalf("parse %s: %v", src, err)
	}

	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	repo := postgres.NewPOIRepo(db)
	for start := 0; start < len(pois); start += batchSize {
		end := start + batchSize
		if end > len(pois) {
			end = len(pois)
		}
		if err := repo.UpsertBatch(ctx, pois[start:end]); err != nil {
			log.Fatalf("upsert batch %d-%d: %v", start, end, err)
		}
		slog.Info("batch upserted", "from", start, "to", end)
	}

	slog.Info("seed complete", "source", src, "pois", len(pois))
}
