package main

import (
	"context"
	"errors"
	"log"
	"log/slog"

	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	tlog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"

	natsadapter "github.com/kamertour/kamertour/internal/adapters/nats"
	"github.com/kamertour/kamertour/internal/adapters/postgres"
	"github.com/kamertour/kamertour/internal/adapters/valkey"
	"github.com/kamertour/kamertour/internal/core/domain"
	"github.com/kamertour/kamertour/internal/core/ports"
	"github.com/kamertour/kamertour/internal/core/usecases"
	"github.com/kamertour/kamertour/internal/pkg/config"
	"github.com/kamertour/kamertour/internal/pkg/logging"
	"github.com/kamertour/kamertour/internal/workflows"
)

func main() {
	cfg, err := config.Load("kamertour-moderator")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	var publisher ports.EventPublisher
	if p, err := natsadapter.NewPublisher(cfg.NATS.URL); err != nil {
		slog.Warn("nats publisher unavailable", "error", err)
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

	var cache ports.CacheService
	if c, err := valkey.New(cfg.Valkey.Addr, "kamertour"); err != nil {
		slog.Warn("valkey unavailable", "error", err)
	} else {
		defer c.Close()
		cache = c
	}

	moderation := usecases.NewModerationService(postgres.NewPOIRepo(db), publisher, notifier, cache)
	moderation.SetDuplicateRadius(cfg.Proximity.DuplicateRadiusKm)

	// Connect to Temporal
	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
		Logger:    tlog.NewStructuredLogger(slog.Default()),
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{})
	w.RegisterWorkflow(workflows.SubmissionReviewWorkflow)
	w.RegisterActivity(&workflows.ModerationActivities{Moderation: moderation})

	// One review per submission; the workflow ID makes redeliveries idempotent.
	sub, err := natsadapter.NewSubscriber(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats subscriber: %v", err)
	}
	defer sub.Close()

	err = sub.SubscribePOISubmitted(ctx, func(ctx context.Context, poi *domain.POI) error {
		run, err := c.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
			ID:                    workflows.WorkflowID(poi.ID),
			TaskQueue:             cfg.Temporal.TaskQueue,
			WorkflowIDReusePolicy: enumspb.WORKFLOW_ID_REUSE_POLICY_REJECT_DUPLICATE,
		}, workflows.SubmissionReviewWorkflow, workflows.ReviewInput{
			POIID:       poi.ID,
			AutoPublish: cfg.Temporal.AutoPublish,
		})
		var started *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &started) {
			slog.InfoContext(ctx, "review already exists", "poi_id", poi.ID)
			return nil
		}
		if err != nil {
			return err
		}
		slog.InfoContext(ctx, "review started", "poi_id", poi.ID, "workflow_id", run.GetID(), "run_id", run.GetRunID())
		return nil
	})
	if err != nil {
		log.Fatalf("subscribe: %v", err)
	}

	slog.Info("moderator worker started", "task_queue", cfg.Temporal.TaskQueue)
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker: %v", err)
	}
}
