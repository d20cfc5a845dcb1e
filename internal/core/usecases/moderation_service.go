package usecases

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kamertour/kamertour/internal/core/domain"
	"github.com/kamertour/kamertour/internal/core/ports"
	"github.com/kamertour/kamertour/internal/pkg/geospatial"
	"github.com/kamertour/kamertour/internal/pkg/metrics"
	"github.com/kamertour/kamertour/internal/pkg/telemetry"
)

// DefaultDuplicateRadiusKm is how close two POIs must be to be flagged as
// possible duplicates.
const DefaultDuplicateRadiusKm = 0.1

// ModerationService reviews submitted points of interest.
type ModerationService struct {
	pois            ports.POIRepository
	publisher       ports.EventPublisher
	notifier        ports.NotificationService
	cache           ports.CacheService
	duplicateRadius float64
}

// NewModerationService creates a new ModerationService. publisher, notifier
// and cache may be nil.
func NewModerationService(
	pois ports.POIRepository,
	publisher ports.EventPublisher,
	notifier ports.NotificationService,
	cache ports.CacheService,
) *ModerationService {
	return &ModerationService{
		pois:            pois,
		publisher:       publisher,
		notifier:        notifier,
		cache:           cache,
		duplicateRadius: DefaultDuplicateRadiusKm,
	}
}

// SetDuplicateRadius overrides DefaultDuplicateRadiusKm.
func (s *ModerationService) SetDuplicateRadius(km float64) {
	s.duplicateRadius = km
}

// Pending returns every POI awaiting review.
func (s *ModerationService) Pending(ctx context.Context) ([]domain.POI, error) {
	return s.pois.ListByStatus(ctx, domain.POIStatusPending)
}

// FindDuplicates returns published POIs lying within the duplicate radius of
// the POI id, whatever their category.
func (s *ModerationService) FindDuplicates(ctx context.Context, id string) ([]domain.NearbyPOI, error) {
	ctx, span := tracer.Start(ctx, "ModerationService.FindDuplicates")
	defer span.End()
	span.SetAttributes(telemetry.AttrPOIID.String(id))

	poi, err := s.pois.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	box := geospatial.BoundingBox(poi.Location.Geo(), s.duplicateRadius)
	candidates, err := s.pois.ListInBounds(ctx, domain.BoundsFrom(box), domain.POIStatusPublished)
	if err != nil {
		return nil, fmt.Errorf("list pois in bounds: %w", err)
	}

	within := geospatial.WithinRadius(*poi, candidates, s.duplicateRadius)
	return toNearby(geospatial.Annotate(*poi, within)), nil
}

// Publish makes a pending POI visible in the directory.
func (s *ModerationService) Publish(ctx context.Context, id string) (*domain.POI, error) {
	return s.decide(ctx, id, domain.POIStatusPublished, "")
}

// Reject refuses a pending POI. reason is forwarded to the contributor.
func (s *ModerationService) Reject(ctx context.Context, id, reason string) (*domain.POI, error) {
	return s.decide(ctx, id, domain.POIStatusRejected, reason)
}

// Revert puts a POI back into the review queue without notifying anyone.
func (s *ModerationService) Revert(ctx context.Context, id string) error {
	if err := s.pois.SetStatus(ctx, id, domain.POIStatusPending); err != nil {
		return fmt.Errorf("revert poi %s: %w", id, err)
	}
	s.invalidate(ctx, id)
	return nil
}

// NotifyDecision tells the contributor how their submission was reviewed.
func (s *ModerationService) NotifyDecision(ctx context.Context, poi *domain.POI, reason string) error {
	if s.notifier == nil {
		return nil
	}
	title, body := decisionMessage(poi, reason)
	return s.notifier.Notify(ctx, poi.ID, title, body)
}

func (s *ModerationService) decide(ctx context.Context, id string, status domain.POIStatus, reason string) (*domain.POI, error) {
	poi, err := s.pois.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if poi.Status != domain.POIStatusPending {
		return nil, fmt.Errorf("poi %s is %s, only pending pois can be reviewed: %w", id, poi.Status, domain.ErrConflict)
	}

	if err := s.pois.SetStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("set poi %s status: %w", id, err)
	}
	poi.Status = status
	s.invalidate(ctx, id)
	metrics.ModerationDecisions.WithLabelValues(string(status)).Inc()

	if s.publisher != nil {
		if err := s.publisher.PublishPOIStatusChanged(ctx, poi); err != nil {
			slog.WarnContext(ctx, "publish poi status changed", "poi_id", id, "error", err)
		}
	}
	return poi, nil
}

func (s *ModerationService) invalidate(ctx context.Context, id string) {
	if s.cache != nil {
		_ = s.cache.Delete(ctx, "pois:id:"+id)
	}
}

func decisionMessage(poi *domain.POI, reason string) (string, string) {
	if poi.Status == domain.POIStatusPublished {
		return "Lieu publié", fmt.Sprintf("%s est maintenant visible dans l'annuaire.", poi.Name)
	}
	body := fmt.Sprintf("%s n'a pas été retenu.", poi.Name)
	if reason != "" {
		body += " Motif : " + reason
	}
	return "Lieu refusé", body
}
