package ports

import (
	"context"

	"github.com/kamertour/kamertour/internal/core/domain"
)

// POIRepository persists points of interest.
type POIRepository interface {
	Create(ctx context.Context, poi *domain.POI) error
	Update(ctx context.Context, poi *domain.POI) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.POI, error)
	// List returns one page matching filter plus the total match count.
	List(ctx context.Context, filter domain.POIFilter) ([]domain.POI, int, error)
	// ListInBounds returns POIs with the given status inside bounds.
	ListInBounds(ctx context.Context, bounds domain.Bounds, status domain.POIStatus) ([]domain.POI, error)
	ListByStatus(ctx context.Context, status domain.POIStatus) ([]domain.POI, error)
	SetStatus(ctx context.Context, id string, status domain.POIStatus) error
	CountByCategory(ctx context.Context) (map[domain.Category]int, error)
	CountByStatus(ctx context.Context) (map[domain.POIStatus]int, error)
}

// CommentRepository persists visitor comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	GetByID(ctx context.Context, id string) (*domain.Comment, error)
	Update(ctx context.Context, comment *domain.Comment) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter domain.CommentFilter) ([]domain.Comment, int, error)
	SetStatus(ctx context.Context, id string, status domain.CommentStatus) error
	CountByStatus(ctx context.Context) (map[domain.CommentStatus]int, error)
}

// FavoriteRepository persists visitors' saved POIs. A user can save a POI
// once; a second Create returns domain.ErrConflict.
type FavoriteRepository interface {
	Create(ctx context.Context, fav *domain.Favorite) error
	GetByID(ctx context.Context, id string) (*domain.Favorite, error)
	Update(ctx context.Context, fav *domain.Favorite) error
	Delete(ctx context.Context, id string) error
	// ListByUser returns the user's favorites, most recent first.
	ListByUser(ctx context.Context, userID string) ([]domain.Favorite, error)
}
