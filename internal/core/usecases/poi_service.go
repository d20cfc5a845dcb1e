package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/kamertour/kamertour/internal/core/domain"
	"github.com/kamertour/kamertour/internal/core/ports"
	"github.com/kamertour/kamertour/internal/pkg/geospatial"
	"github.com/kamertour/kamertour/internal/pkg/metrics"
	"github.com/kamertour/kamertour/internal/pkg/telemetry"
)

// ProximityConfig bounds proximity queries.
type ProximityConfig struct {
	DefaultRadiusKm float64
	MaxRadiusKm     float64
	MaxResults      int
}

// DefaultProximity matches the directory's "nearby" panel: 50 km around a POI.
var DefaultProximity = ProximityConfig{DefaultRadiusKm: 50, MaxRadiusKm: 1000, MaxResults: 50}

// POIService handles point-of-interest business logic.
type POIService struct {
	pois      ports.POIRepository
	cache     ports.CacheService
	publisher ports.EventPublisher
	clock     clockwork.Clock
	proximity ProximityConfig
}

// POIOption customises a POIService.
type POIOption func(*POIService)

// WithPOICache enables read-through caching.
func WithPOICache(cache ports.CacheService) POIOption {
	return func(s *POIService) { s.cache = cache }
}

// WithPOIPublisher publishes submission events.
func WithPOIPublisher(p ports.EventPublisher) POIOption {
	return func(s *POIService) { s.publisher = p }
}

// WithPOIClock sets the time source.
func WithPOIClock(c clockwork.Clock) POIOption {
	return func(s *POIService) { s.clock = c }
}

// WithProximity overrides DefaultProximity.
func WithProximity(cfg ProximityConfig) POIOption {
	return func(s *POIService) { s.proximity = cfg }
}

// NewPOIService creates a new POIService.
func NewPOIService(pois ports.POIRepository, opts ...POIOption) *POIService {
	s := &POIService{
		pois:      pois,
		clock:     clockwork.NewRealClock(),
		proximity: DefaultProximity,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Proximity returns the configured proximity bounds.
func (s *POIService) Proximity() ProximityConfig {
	return s.proximity
}

// List returns a page of POIs. Only published POIs are listed unless the
// filter asks for another status.
func (s *POIService) List(ctx context.Context, filter domain.POIFilter) ([]domain.POI, int, error) {
	if filter.Status == "" {
		filter.Status = domain.POIStatusPublished
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	filter.Query = strings.TrimSpace(filter.Query)

	type page struct {
		Items []domain.POI `json:"items"`
		Total int          `json:"total"`
	}

	cats := make([]string, len(filter.Categories))
	for i, c := range filter.Categories {
		cats[i] = string(c)
	}
	cacheKey := fmt.Sprintf("pois:list:%s:%s:%s:%d:%d",
		filter.Status, strings.ToLower(filter.Query), strings.Join(cats, ","), filter.Offset, filter.Limit)

	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var p page
			if err := json.Unmarshal(data, &p); err == nil {
				metrics.CacheHits.WithLabelValues("poi_list").Inc()
				return p.Items, p.Total, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("poi_list").Inc()
	}

	items, total, err := s.pois.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	// Short TTL: listings are not invalidated on write.
	if s.cache != nil {
		if data, err := json.Marshal(page{Items: items, Total: total}); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 60)
		}
	}

	return items, total, nil
}

// GetByID returns a single POI.
func (s *POIService) GetByID(ctx context.Context, id string) (*domain.POI, error) {
	cacheKey := "pois:id:" + id
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var poi domain.POI
			if err := json.Unmarshal(data, &poi); err == nil {
				metrics.CacheHits.WithLabelValues("poi_by_id").Inc()
				return &poi, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("poi_by_id").Inc()
	}

	poi, err := s.pois.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(poi); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 600)
		}
	}

	return poi, nil
}

// Submit validates and stores a new POI awaiting moderation.
func (s *POIService) Submit(ctx context.Context, poi *domain.POI) (*domain.POI, error) {
	if err := poi.Validate(); err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	poi.ID = uuid.NewString()
	poi.Name = strings.TrimSpace(poi.Name)
	poi.Status = domain.POIStatusPending
	poi.CreatedAt = now
	poi.UpdatedAt = now
	if poi.Images == nil {
		poi.Images = []string{}
	}

	if err := s.pois.Create(ctx, poi); err != nil {
		return nil, fmt.Errorf("create poi: %w", err)
	}
	metrics.POISubmissions.WithLabelValues(string(poi.Category)).Inc()

	if s.publisher != nil {
		if err := s.publisher.PublishPOISubmitted(ctx, poi); err != nil {
			slog.WarnContext(ctx, "publish poi submitted", "poi_id", poi.ID, "error", err)
		}
	}

	return poi, nil
}

// Update replaces the editable fields of an existing POI.
func (s *POIService) Update(ctx context.Context, id string, changes *domain.POI) (*domain.POI, error) {
	poi, err := s.pois.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	poi.Name = strings.TrimSpace(changes.Name)
	poi.Description = changes.Description
	poi.Category = changes.Category
	poi.Location = changes.Location
	poi.Details = changes.Details
	if changes.Images != nil {
		poi.Images = changes.Images
	}
	if err := poi.Validate(); err != nil {
		return nil, err
	}
	poi.UpdatedAt = s.clock.Now().UTC()

	if err := s.pois.Update(ctx, poi); err != nil {
		return nil, fmt.Errorf("update poi %s: %w", id, err)
	}
	s.invalidate(ctx, id)
	return poi, nil
}

// Delete removes a POI.
func (s *POIService) Delete(ctx context.Context, id string) error {
	if err := s.pois.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

// Nearby returns published POIs within radiusKm of the POI id, in catalogue
// order. limit <= 0 means the configured maximum.
func (s *POIService) Nearby(ctx context.Context, id string, radiusKm float64, limit int) ([]domain.NearbyPOI, error) {
	ctx, span := tracer.Start(ctx, "POIService.Nearby")
	defer span.End()
	span.SetAttributes(telemetry.AttrPOIID.String(id), telemetry.AttrRadiusKm.Float64(radiusKm))
	metrics.ProximityQueries.WithLabelValues("radius").Inc()

	ref, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	radiusKm = s.EffectiveRadius(radiusKm)
	if radiusKm <= 0 {
		return []domain.NearbyPOI{}, nil
	}

	candidates, err := s.candidatesAround(ctx, ref.Location, radiusKm)
	if err != nil {
		return nil, err
	}

	within := geospatial.WithinRadius(*ref, candidates, radiusKm)
	if lim := s.clampLimit(limit); len(within) > lim {
		within = within[:lim]
	}
	return toNearby(geospatial.Annotate(*ref, within)), nil
}

// Nearest returns the n published POIs closest to the POI id, nearest first.
func (s *POIService) Nearest(ctx context.Context, id string, n int) ([]domain.NearbyPOI, error) {
	ctx, span := tracer.Start(ctx, "POIService.Nearest")
	defer span.End()
	span.SetAttributes(telemetry.AttrPOIID.String(id), telemetry.AttrLimit.Int(n))
	metrics.ProximityQueries.WithLabelValues("nearest").Inc()

	ref, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		return []domain.NearbyPOI{}, nil
	}
	if n > s.proximity.MaxResults {
		n = s.proximity.MaxResults
	}

	candidates, err := s.pois.ListByStatus(ctx, domain.POIStatusPublished)
	if err != nil {
		return nil, fmt.Errorf("list published pois: %w", err)
	}
	metrics.ProximityCandidates.Observe(float64(len(candidates)))

	return toNearby(geospatial.NearestN(*ref, candidates, n)), nil
}

// Around returns published POIs within radiusKm of an arbitrary point,
// nearest first.
func (s *POIService) Around(ctx context.Context, point domain.GeoPoint, radiusKm float64, limit int) ([]domain.NearbyPOI, error) {
	ctx, span := tracer.Start(ctx, "POIService.Around")
	defer span.End()
	span.SetAttributes(
		telemetry.AttrLat.Float64(point.Lat),
		telemetry.AttrLon.Float64(point.Lon),
		telemetry.AttrRadiusKm.Float64(radiusKm),
	)
	metrics.ProximityQueries.WithLabelValues("around").Inc()

	if err := point.Validate(); err != nil {
		return nil, err
	}

	radiusKm = s.EffectiveRadius(radiusKm)
	if radiusKm <= 0 {
		return []domain.NearbyPOI{}, nil
	}

	candidates, err := s.candidatesAround(ctx, point, radiusKm)
	if err != nil {
		return nil, err
	}

	// An empty ID never collides with a stored POI, so nothing is excluded.
	ref := domain.POI{Location: point}
	within := geospatial.WithinRadius(ref, candidates, radiusKm)
	return toNearby(geospatial.NearestN(ref, within, s.clampLimit(limit))), nil
}

func (s *POIService) candidatesAround(ctx context.Context, center domain.GeoPoint, radiusKm float64) ([]domain.POI, error) {
	box := geospatial.BoundingBox(center.Geo(), radiusKm)
	candidates, err := s.pois.ListInBounds(ctx, domain.BoundsFrom(box), domain.POIStatusPublished)
	if err != nil {
		return nil, fmt.Errorf("list pois in bounds: %w", err)
	}
	metrics.ProximityCandidates.Observe(float64(len(candidates)))
	return candidates, nil
}

// EffectiveRadius is the radius a proximity query actually filters with:
// negative values become 0 and values above MaxRadiusKm are capped.
func (s *POIService) EffectiveRadius(r float64) float64 {
	if r < 0 {
		return 0
	}
	if r > s.proximity.MaxRadiusKm {
		return s.proximity.MaxRadiusKm
	}
	return r
}

func (s *POIService) clampLimit(limit int) int {
	if limit <= 0 || limit > s.proximity.MaxResults {
		return s.proximity.MaxResults
	}
	return limit
}

func (s *POIService) invalidate(ctx context.Context, id string) {
	if s.cache != nil {
		_ = s.cache.Delete(ctx, "pois:id:"+id)
	}
}

func toNearby(ns []geospatial.Neighbor[domain.POI]) []domain.NearbyPOI {
	out := make([]domain.NearbyPOI, len(ns))
	for i, n := range ns {
		out[i] = domain.NearbyPOI{POI: n.Entity, DistanceKm: n.DistanceKm}
	}
	return out
}
