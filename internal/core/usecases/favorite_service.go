package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/kamertour/kamertour/internal/core/domain"
	"github.com/kamertour/kamertour/internal/core/ports"
)

// FavoriteService keeps each visitor's saved POIs and personal notes.
type FavoriteService struct {
	favorites ports.FavoriteRepository
	pois      ports.POIRepository
	clock     clockwork.Clock
}

// NewFavoriteService creates a new FavoriteService. clock defaults to the
// real clock.
func NewFavoriteService(favorites ports.FavoriteRepository, pois ports.POIRepository, clock clockwork.Clock) *FavoriteService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &FavoriteService{favorites: favorites, pois: pois, clock: clock}
}

// Add saves a POI for a user. Saving the same POI twice is a conflict.
func (s *FavoriteService) Add(ctx context.Context, fav *domain.Favorite) (*domain.FavoriteEntry, error) {
	fav.UserID = strings.TrimSpace(fav.UserID)
	fav.Notes = strings.TrimSpace(fav.Notes)
	if err := fav.Validate(); err != nil {
		return nil, err
	}
	poi, err := s.pois.GetByID(ctx, fav.POIID)
	if err != nil {
		return nil, fmt.Errorf("poi %s: %w", fav.POIID, err)
	}

	now := s.clock.Now().UTC()
	fav.ID = uuid.NewString()
	fav.CreatedAt = now
	fav.UpdatedAt = now
	if err := s.favorites.Create(ctx, fav); err != nil {
		return nil, fmt.Errorf("create favorite: %w", err)
	}
	return &domain.FavoriteEntry{Favorite: *fav, POI: *poi}, nil
}

// List returns the user's favorites with their POIs, most recent first.
// Favorites whose POI has been deleted are skipped.
func (s *FavoriteService) List(ctx context.Context, filter domain.FavoriteFilter) ([]domain.FavoriteEntry, error) {
	if strings.TrimSpace(filter.UserID) == "" {
		return nil, &domain.ValidationError{Field: "user_id", Message: "is required"}
	}
	favs, err := s.favorites.ListByUser(ctx, filter.UserID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}

	out := []domain.FavoriteEntry{}
	for _, f := range favs {
		poi, err := s.pois.GetByID(ctx, f.POIID)
		if errors.Is(err, domain.ErrNotFound) {
			slog.DebugContext(ctx, "favorite points to a missing poi", "favorite_id", f.ID, "poi_id", f.POIID)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("poi %s: %w", f.POIID, err)
		}
		entry := domain.FavoriteEntry{Favorite: f, POI: *poi}
		if len(filter.Categories) > 0 && !slices.Contains(filter.Categories, poi.Category) {
			continue
		}
		if !entry.Matches(filter.Query) {
			continue
		}
		out = append(out, entry)
	}
	return out, nil
}

// Update replaces the notes, rating and visit date of a user's favorite.
func (s *FavoriteService) Update(ctx context.Context, userID, id string, changes domain.Favorite) (*domain.Favorite, error) {
	fav, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	fav.Notes = strings.TrimSpace(changes.Notes)
	fav.Rating = changes.Rating
	fav.VisitDate = changes.VisitDate
	if err := fav.Validate(); err != nil {
		return nil, err
	}
	fav.UpdatedAt = s.clock.Now().UTC()
	if err := s.favorites.Update(ctx, fav); err != nil {
		return nil, fmt.Errorf("update favorite %s: %w", id, err)
	}
	return fav, nil
}

// Remove deletes a user's favorite.
func (s *FavoriteService) Remove(ctx context.Context, userID, id string) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	return s.favorites.Delete(ctx, id)
}

// owned loads a favorite and hides those of other users.
func (s *FavoriteService) owned(ctx context.Context, userID, id string) (*domain.Favorite, error) {
	fav, err := s.favorites.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if fav.UserID != strings.TrimSpace(userID) {
		return nil, fmt.Errorf("favorite %s: %w", id, domain.ErrNotFound)
	}
	return fav, nil
}
