package workflows

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.temporal.io/sdk/temporal"

	"github.com/kamertour/kamertour/internal/core/domain"
	"github.com/kamertour/kamertour/internal/core/usecases"
)

// ModerationActivities holds the activity implementations for the
// submission review workflow.
type ModerationActivities struct {
	Moderation *usecases.ModerationService
}

// FindDuplicates returns published POIs lying within the duplicate radius of
// the submission.
func (a *ModerationActivities) FindDuplicates(ctx context.Context, poiID string) ([]domain.NearbyPOI, error) {
	dups, err := a.Moderation.FindDuplicates(ctx, poiID)
	if err != nil {
		return nil, activityError("find duplicates", err)
	}
	return dups, nil
}

// PublishPOI makes the submission visible.
func (a *ModerationActivities) PublishPOI(ctx context.Context, poiID string) (*domain.POI, error) {
	poi, err := a.Moderation.Publish(ctx, poiID)
	if err != nil {
		return nil, activityError("publish poi", err)
	}
	return poi, nil
}

// RejectPOI refuses the submission.
func (a *ModerationActivities) RejectPOI(ctx context.Context, poiID, reason string) (*domain.POI, error) {
	poi, err := a.Moderation.Reject(ctx, poiID, reason)
	if err != nil {
		return nil, activityError("reject poi", err)
	}
	return poi, nil
}

// NotifyContributor sends the review outcome.
func (a *ModerationActivities) NotifyContributor(ctx context.Context, poi domain.POI, reason string) error {
	if err := a.Moderation.NotifyDecision(ctx, &poi, reason); err != nil {
		return fmt.Errorf("notify %s: %w", poi.ID, err)
	}
	return nil
}

// RevertPOI puts a published submission back into the queue (saga
// compensation).
func (a *ModerationActivities) RevertPOI(ctx context.Context, poiID string) error {
	if err := a.Moderation.Revert(ctx, poiID); err != nil {
		return activityError("revert poi", err)
	}
	slog.InfoContext(ctx, "poi reverted to pending", "poi_id", poiID)
	return nil
}

// activityError stops retries for outcomes a retry cannot change.
func activityError(op string, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return temporal.NewNonRetryableApplicationError(op+": "+err.Error(), "NotFound", err)
	case errors.Is(err, domain.ErrConflict):
		return temporal.NewNonRetryableApplicationError(op+": "+err.Error(), "Conflict", err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
