package workflows

import (
	"fmt"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/kamertour/kamertour/internal/core/domain"
)

// ReviewInput is the input for the submission review workflow.
type ReviewInput struct {
	POIID string
	// AutoPublish publishes submissions with no duplicate. When false they
	// stay pending for a moderator.
	AutoPublish bool
}

// ReviewResult reports what the workflow decided.
type ReviewResult struct {
	POIID      string
	Status     domain.POIStatus
	Reason     string
	Duplicates []string
}

// WorkflowID is the deterministic workflow ID for a submission, so a
// redelivered event does not start a second review.
func WorkflowID(poiID string) string {
	return "poi-review-" + poiID
}

// SubmissionReviewWorkflow checks a submission for duplicates, publishes or
// rejects it and notifies the contributor. If the notification fails after
// publishing, the POI is reverted to pending (saga compensation).
func SubmissionReviewWorkflow(ctx workflow.Context, input ReviewInput) (*ReviewResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting submission review", "poiID", input.POIID)

	actOpts := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, actOpts)

	result := &ReviewResult{POIID: input.POIID, Status: domain.POIStatusPending}

	// Step 1: Look for published POIs at the same place
	var dups []domain.NearbyPOI
	if err := workflow.ExecuteActivity(ctx, "FindDuplicates", input.POIID).Get(ctx, &dups); err != nil {
		return nil, err
	}
	for _, d := range dups {
		result.Duplicates = append(result.Duplicates, d.ID)
	}

	// Step 2: Decide
	var poi domain.POI
	switch {
	case len(dups) > 0:
		result.Reason = duplicateReason(dups[0])
		if err := workflow.ExecuteActivity(ctx, "RejectPOI", input.POIID, result.Reason).Get(ctx, &poi); err != nil {
			return nil, err
		}
	case input.AutoPublish:
		if err := workflow.ExecuteActivity(ctx, "PublishPOI", input.POIID).Get(ctx, &poi); err != nil {
			return nil, err
		}
	default:
		logger.Info("No duplicate found, left for manual review", "poiID", input.POIID)
		return result, nil
	}
	result.Status = poi.Status

	// Step 3: Notify the contributor
	err := workflow.ExecuteActivity(ctx, "NotifyContributor", poi, result.Reason).Get(ctx, nil)
	if err != nil {
		if poi.Status != domain.POIStatusPublished {
			logger.Warn("rejection notice failed", "poiID", input.POIID, "error", err)
			return result, nil
		}
		logger.Warn("notification failed, compensating", "poiID", input.POIID, "error", err)
		if revertErr := workflow.ExecuteActivity(ctx, "RevertPOI", input.POIID).Get(ctx, nil); revertErr != nil {
			logger.Error("compensation failed, POI left published", "poiID", input.POIID, "error", revertErr)
		}
		return nil, err
	}

	logger.Info("Submission reviewed", "poiID", input.POIID, "status", result.Status)
	return result, nil
}

func duplicateReason(d domain.NearbyPOI) string {
	return fmt.Sprintf("Doublon probable de « %s » (%.1f km)", d.Name, d.DistanceKm)
}
