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

// RouteService produces straight-line route estimates between POIs.
type RouteService struct {
	pois      ports.POIRepository
	estimator *geospatial.Estimator
	publisher ports.EventPublisher
}

// NewRouteService creates a new RouteService. publisher may be nil.
func NewRouteService(pois ports.POIRepository, estimator *geospatial.Estimator, publisher ports.EventPublisher) *RouteService {
	if estimator == nil {
		estimator = geospatial.NewEstimator(geospatial.DefaultModel)
	}
	return &RouteService{pois: pois, estimator: estimator, publisher: publisher}
}

// Estimate returns the route from originID to destinationID. Origin and
// destination may be the same POI, which yields a zero-length route.
func (s *RouteService) Estimate(ctx context.Context, originID, destinationID, note string) (*domain.RouteEstimate, error) {
	ctx, span := tracer.Start(ctx, "RouteService.Estimate")
	defer span.End()
	span.SetAttributes(telemetry.AttrOriginID.String(originID), telemetry.AttrDestinationID.String(destinationID))

	if originID == "" {
		return nil, &domain.ValidationError{Field: "origin_id", Message: "is required"}
	}
	if destinationID == "" {
		return nil, &domain.ValidationError{Field: "destination_id", Message: "is required"}
	}

	origin, err := s.pois.GetByID(ctx, originID)
	if err != nil {
		return nil, fmt.Errorf("origin: %w", err)
	}
	destination := origin
	if destinationID != originID {
		destination, err = s.pois.GetByID(ctx, destinationID)
		if err != nil {
			return nil, fmt.Errorf("destination: %w", err)
		}
	}

	est := s.estimator.Estimate(*origin, *destination, note)
	metrics.RouteEstimates.Inc()
	metrics.RouteDistance.Observe(est.DistanceKm)

	route := &domain.RouteEstimate{
		Origin:          origin,
		Destination:     destination,
		DistanceKm:      est.DistanceKm,
		DurationMinutes: est.DurationMinutes,
		EstimatedPrice:  est.EstimatedPrice,
		Currency:        est.Currency,
		Disclaimer:      est.Disclaimer,
		AdditionalInfo:  est.AdditionalInfo,
		Path:            make([]domain.GeoPoint, len(est.Path)),
	}
	for i, p := range est.Path {
		route.Path[i] = domain.GeoPointFrom(p)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishRouteEstimated(ctx, route); err != nil {
			slog.WarnContext(ctx, "publish route estimated", "origin", originID, "destination", destinationID, "error", err)
		}
	}

	return route, nil
}
