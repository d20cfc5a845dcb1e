package usecases_test

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/kamertour/kamertour/internal/core/domain"
	"github.com/kamertour/kamertour/internal/core/usecases"
)

func nearbyIDs(ns []domain.NearbyPOI) []string {
	out := make([]string, len(ns))
	for i, n := range ns {
		out[i] = n.ID
	}
	return out
}

func TestPOIService_Nearby(t *testing.T) {
	svc := usecases.NewPOIService(newMockPOIRepo(cameroon()...))

	got, err := svc.Nearby(context.Background(), "1", 70, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(nearbyIDs(got), []string{"9"}) {
		t.Fatalf("expected [9], got %v", nearbyIDs(got))
	}
	if got[0].DistanceKm != 68.7 {
		t.Errorf("expected 68.7 km, got %v", got[0].DistanceKm)
	}

	got, err = svc.Nearby(context.Background(), "1", 50, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected nothing within 50 km, got %v", nearbyIDs(got))
	}
}

func TestPOIService_Nearby_KeepsCatalogueOrderAndLimit(t *testing.T) {
	svc := usecases.NewPOIService(newMockPOIRepo(cameroon()...))

	got, err := svc.Nearby(context.Background(), "5", 300, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []string{"1", "2", "3"}; !reflect.DeepEqual(nearbyIDs(got), want) {
		t.Errorf("expected %v, got %v", want, nearbyIDs(got))
	}
}

func TestPOIService_Nearby_NonPositiveRadius(t *testing.T) {
	svc := usecases.NewPOIService(newMockPOIRepo(cameroon()...))

	for _, r := range []float64{0, -5} {
		got, err := svc.Nearby(context.Background(), "5", r, 10)
		if err != nil {
			t.Fatalf("radius %v: unexpected error: %v", r, err)
		}
		if got == nil || len(got) != 0 {
			t.Errorf("radius %v: expected empty slice, got %v", r, got)
		}
	}
}

func TestPOIService_Nearby_ClampsRadius(t *testing.T) {
	svc := usecases.NewPOIService(newMockPOIRepo(cameroon()...),
		usecases.WithProximity(usecases.ProximityConfig{DefaultRadiusKm: 10, MaxRadiusKm: 60, MaxResults: 5}))

	got, err := svc.Nearby(context.Background(), "1", 70, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected radius clamped to 60 km, got %v", nearbyIDs(got))
	}
}

func TestPOIService_EffectiveRadius(t *testing.T) {
	svc := usecases.NewPOIService(newMockPOIRepo(),
		usecases.WithProximity(usecases.ProximityConfig{DefaultRadiusKm: 10, MaxRadiusKm: 60, MaxResults: 5}))

	tests := []struct {
		in, want float64
	}{
		{25, 25},
		{60, 60},
		{5000, 60},
		{0, 0},
		{-3, 0},
	}
	for _, tt := range tests {
		if got := svc.EffectiveRadius(tt.in); got != tt.want {
			t.Errorf("EffectiveRadius(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestPOIService_Nearby_SkipsUnpublished(t *testing.T) {
	pois := cameroon()
	pending := published("11", "Doublon", domain.CategoryNatural, 4.2156, 9.1712)
	pending.Status = domain.POIStatusPending
	svc := usecases.NewPOIService(newMockPOIRepo(append(pois, pending)...))

	got, err := svc.Nearby(context.Background(), "1", 1, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected pending POI to be skipped, got %v", nearbyIDs(got))
	}
}

func TestPOIService_Nearby_NotFound(t *testing.T) {
	svc := usecases.NewPOIService(newMockPOIRepo(cameroon()...))

	_, err := svc.Nearby(context.Background(), "missing", 10, 0)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestPOIService_Nearest(t *testing.T) {
	svc := usecases.NewPOIService(newMockPOIRepo(cameroon()...))

	got, err := svc.Nearest(context.Background(), "1", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []string{"9", "7", "2"}; !reflect.DeepEqual(nearbyIDs(got), want) {
		t.Errorf("expected %v, got %v", want, nearbyIDs(got))
	}

	got, err = svc.Nearest(context.Background(), "1", 0)
	if err != nil || len(got) != 0 {
		t.Errorf("expected empty result for n=0, got %v (%v)", got, err)
	}
}

func TestPOIService_Around(t *testing.T) {
	svc := usecases.NewPOIService(newMockPOIRepo(cameroon()...))

	got, err := svc.Around(context.Background(), domain.GeoPoint{Lat: 3.8667, Lon: 11.5167}, 1, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []string{"5", "6", "10"}; !reflect.DeepEqual(nearbyIDs(got), want) {
		t.Fatalf("expected %v, got %v", want, nearbyIDs(got))
	}
	if got[0].DistanceKm != 0 || got[1].DistanceKm != 0.5 {
		t.Errorf("unexpected distances %v, %v", got[0].DistanceKm, got[1].DistanceKm)
	}

	_, err = svc.Around(context.Background(), domain.GeoPoint{Lat: 120, Lon: 0}, 1, 0)
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("expected ValidationError, got %v", err)
	}
}

func TestPOIService_Submit(t *testing.T) {
	repo := newMockPOIRepo()
	pub := &mockPublisher{}
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	svc := usecases.NewPOIService(repo,
		usecases.WithPOIPublisher(pub),
		usecases.WithPOIClock(clockwork.NewFakeClockAt(now)))

	poi, err := svc.Submit(context.Background(), &domain.POI{
		Name:        "  Plage de Limbé ",
		Description: "Sable noir volcanique",
		Category:    domain.CategoryNatural,
		Location:    domain.GeoPoint{Lat: 4.0, Lon: 9.2},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if poi.ID == "" {
		t.Error("expected an id to be assigned")
	}
	if poi.Status != domain.POIStatusPending {
		t.Errorf("expected pending, got %s", poi.Status)
	}
	if poi.Name != "Plage de Limbé" {
		t.Errorf("expected trimmed name, got %q", poi.Name)
	}
	if !poi.CreatedAt.Equal(now) {
		t.Errorf("expected created at %v, got %v", now, poi.CreatedAt)
	}
	if poi.Images == nil {
		t.Error("expected images to be an empty slice")
	}
	if len(repo.created) != 1 || len(pub.submitted) != 1 || pub.submitted[0] != poi.ID {
		t.Errorf("expected one stored and published POI, got %d / %v", len(repo.created), pub.submitted)
	}
}

func TestPOIService_Submit_PublishFailureIsNotFatal(t *testing.T) {
	pub := &mockPublisher{err: errors.New("broker down")}
	svc := usecases.NewPOIService(newMockPOIRepo(), usecases.WithPOIPublisher(pub))

	_, err := svc.Submit(context.Background(), &domain.POI{
		Name:        "Lac Nyos",
		Description: "Lac de cratère",
		Category:    domain.CategoryNatural,
		Location:    domain.GeoPoint{Lat: 6.43, Lon: 10.3},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPOIService_Submit_Invalid(t *testing.T) {
	repo := newMockPOIRepo()
	svc := usecases.NewPOIService(repo)

	_, err := svc.Submit(context.Background(), &domain.POI{Name: "Sans catégorie", Description: "x"})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) || verr.Field != "category" {
		t.Fatalf("expected category ValidationError, got %v", err)
	}
	if len(repo.created) != 0 {
		t.Error("invalid POI should not be stored")
	}
}

func TestPOIService_GetByID_Cached(t *testing.T) {
	repo := newMockPOIRepo(cameroon()...)
	cache := newMockCache()
	svc := usecases.NewPOIService(repo, usecases.WithPOICache(cache))

	for i := 0; i < 3; i++ {
		poi, err := svc.GetByID(context.Background(), "3")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if poi.Name != "Palais des Rois Bamoun" {
			t.Errorf("unexpected poi %s", poi.Name)
		}
	}
	if repo.getByIDCalls != 1 {
		t.Errorf("expected 1 repository call, got %d", repo.getByIDCalls)
	}
}

func TestPOIService_Update_InvalidatesCache(t *testing.T) {
	repo := newMockPOIRepo(cameroon()...)
	cache := newMockCache()
	svc := usecases.NewPOIService(repo, usecases.WithPOICache(cache))

	if _, err := svc.GetByID(context.Background(), "7"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	changes := cameroon()[6]
	changes.Description = "Plages de sable fin et chutes qui se jettent dans la mer"
	updated, err := svc.Update(context.Background(), "7", &changes)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Description != changes.Description {
		t.Errorf("description not updated")
	}
	if !reflect.DeepEqual(cache.deleted, []string{"pois:id:7"}) {
		t.Errorf("expected cache invalidation, got %v", cache.deleted)
	}

	poi, _ := svc.GetByID(context.Background(), "7")
	if poi.Description != changes.Description {
		t.Errorf("expected fresh read after invalidation, got %q", poi.Description)
	}
}

func TestPOIService_List_Defaults(t *testing.T) {
	var seen domain.POIFilter
	repo := newMockPOIRepo()
	repo.listFn = func(ctx context.Context, filter domain.POIFilter) ([]domain.POI, int, error) {
		seen = filter
		return nil, 0, nil
	}
	svc := usecases.NewPOIService(repo)

	if _, _, err := svc.List(context.Background(), domain.POIFilter{Limit: 500, Offset: -3, Query: " kribi "}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seen.Status != domain.POIStatusPublished {
		t.Errorf("expected published by default, got %s", seen.Status)
	}
	if seen.Limit != 20 || seen.Offset != 0 || seen.Query != "kribi" {
		t.Errorf("unexpected normalised filter %+v", seen)
	}
}
