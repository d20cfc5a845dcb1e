package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/kamertour/kamertour/internal/adapters/postgres"
	"github.com/kamertour/kamertour/internal/pkg/config"
	"github.com/kamertour/kamertour/migrations"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: migrate <up|status>")
	}

	cfg, err := config.Load("kamertour-migrate")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	switch os.Args[1] {
	case "up":
		db, err := postgres.New(ctx, cfg.Database.DSN())
		if err != nil {
			log.Fatalf("db: %v", err)
		}
		defer db.Close()

		if err := db.Migrate(ctx); err != nil {
			log.Fatalf("migrate: %v", err)
		}
		log.Println("all migrations applied")
	case "status":
		all, err := migrations.All()
		if err != nil {
			log.Fatalf("list migrations: %v", err)
		}
		for _, m := range all {
			log.Printf("%s", m.Name)
		}
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}
}
