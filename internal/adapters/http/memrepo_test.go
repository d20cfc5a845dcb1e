package http_test

import (
	"context"
	"sync"

	"github.com/kamertour/kamertour/internal/core/domain"
)

// memPOIRepo keeps POIs in catalogue order.
type memPOIRepo struct {
	mu   sync.Mutex
	pois []domain.POI
}

func (m *memPOIRepo) Create(ctx context.Context, poi *domain.POI) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pois = append(m.pois, *poi)
	return nil
}

func (m *memPOIRepo) Update(ctx context.Context, poi *domain.POI) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.pois {
		if m.pois[i].ID == poi.ID {
			m.pois[i] = *poi
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memPOIRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.pois {
		if m.pois[i].ID == id {
			m.pois = append(m.pois[:i], m.pois[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memPOIRepo) GetByID(ctx context.Context, id string) (*domain.POI, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.pois {
		if p.ID == id {
			cp := p
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memPOIRepo) List(ctx context.Context, f domain.POIFilter) ([]domain.POI, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []domain.POI
	for _, p := range m.pois {
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		if len(f.Categories) > 0 && !hasCategory(f.Categories, p.Category) {
			continue
		}
		if !p.Matches(f.Query) {
			continue
		}
		matched = append(matched, p)
	}
	total := len(matched)
	if f.Offset >= total {
		return []domain.POI{}, total, nil
	}
	end := f.Offset + f.Limit
	if end > total {
		end = total
	}
	return matched[f.Offset:end], total, nil
}

func hasCategory(cats []domain.Category, c domain.Category) bool {
	for _, x := range cats {
		if x == c {
			return true
		}
	}
	return false
}

func (m *memPOIRepo) ListInBounds(ctx context.Context, b domain.Bounds, status domain.POIStatus) ([]domain.POI, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.POI
	for _, p := range m.pois {
		if p.Status != status {
			continue
		}
		if p.Location.Lat < b.MinLat || p.Location.Lat > b.MaxLat || p.Location.Lon < b.MinLon || p.Location.Lon > b.MaxLon {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (m *memPOIRepo) ListByStatus(ctx context.Context, status domain.POIStatus) ([]domain.POI, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.POI
	for _, p := range m.pois {
		if p.Status == status {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memPOIRepo) SetStatus(ctx context.Context, id string, status domain.POIStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.pois {
		if m.pois[i].ID == id {
			m.pois[i].Status = status
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memPOIRepo) CountByCategory(ctx context.Context) (map[domain.Category]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[domain.Category]int{}
	for _, p := range m.pois {
		if p.Status == domain.POIStatusPublished {
			out[p.Category]++
		}
	}
	return out, nil
}

func (m *memPOIRepo) CountByStatus(ctx context.Context) (map[domain.POIStatus]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[domain.POIStatus]int{}
	for _, p := range m.pois {
		out[p.Status]++
	}
	return out, nil
}

// memCommentRepo keeps comments in insertion order.
type memCommentRepo struct {
	mu       sync.Mutex
	comments []domain.Comment
}

func (m *memCommentRepo) Create(ctx context.Context, c *domain.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.comments = append(m.comments, *c)
	return nil
}

func (m *memCommentRepo) GetByID(ctx context.Context, id string) (*domain.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.comments {
		if c.ID == id {
			cp := c
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memCommentRepo) Update(ctx context.Context, c *domain.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.comments {
		if m.comments[i].ID == c.ID {
			m.comments[i] = *c
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memCommentRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.comments {
		if m.comments[i].ID == id {
			m.comments = append(m.comments[:i], m.comments[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memCommentRepo) List(ctx context.Context, f domain.CommentFilter) ([]domain.Comment, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []domain.Comment
	for _, c := range m.comments {
		if f.POIID != "" && c.POIID != f.POIID {
			continue
		}
		if f.Status != "" && c.Status != f.Status {
			continue
		}
		matched = append(matched, c)
	}
	total := len(matched)
	if f.Offset >= total {
		return []domain.Comment{}, total, nil
	}
	end := f.Offset + f.Limit
	if end > total {
		end = total
	}
	return matched[f.Offset:end], total, nil
}

func (m *memCommentRepo) SetStatus(ctx context.Context, id string, status domain.CommentStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.comments {
		if m.comments[i].ID == id {
			m.comments[i].Status = status
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memCommentRepo) CountByStatus(ctx context.Context) (map[domain.CommentStatus]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[domain.CommentStatus]int{}
	for _, c := range m.comments {
		out[c.Status]++
	}
	return out, nil
}

func cameroonPOIs() []domain.POI {
	mk := func(id, name string, cat domain.Category, lat, lon float64) domain.POI {
		return domain.POI{
			ID:          id,
			Name:        name,
			Description: name,
			Category:    cat,
			Location:    domain.GeoPoint{Lat: lat, Lon: lon},
			Status:      domain.POIStatusPublished,
		}
	}
	return []domain.POI{
		mk("1", "Mont Cameroun", domain.CategoryNatural, 4.2156, 9.1712),
		mk("2", "Chutes de la Lobé", domain.CategoryNatural, 2.8794, 9.8880),
		mk("3", "Palais des Rois Bamoun", domain.CategoryHistorical, 5.7290, 10.9027),
		mk("4", "Parc National de Waza", domain.CategoryNatural, 11.0, 14.75),
		mk("5", "Cathédrale Notre-Dame-des-Victoires", domain.CategoryReligious, 3.8667, 11.5167),
		mk("6", "Musée National du Cameroun", domain.CategoryCultural, 3.8683, 11.5211),
		mk("7", "Plage de Kribi", domain.CategoryEntertainment, 2.94, 9.91),
		mk("8", "Réserve du Dja", domain.CategoryNatural, 3.1667, 13.0),
		mk("9", "Marché de Douala", domain.CategoryCultural, 4.0510, 9.7678),
		mk("10", "Hôtel Hilton Yaoundé", domain.CategoryHotel, 3.8750, 11.5174),
	}
}

// memFavoriteRepo keeps favorites in insertion order.
type memFavoriteRepo struct {
	mu   sync.Mutex
	favs []domain.Favorite
}

func (m *memFavoriteRepo) Create(ctx context.Context, fav *domain.Favorite) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range m.favs {
		if f.UserID == fav.UserID && f.POIID == fav.POIID {
			return domain.ErrConflict
		}
	}
	m.favs = append(m.favs, *fav)
	return nil
}

func (m *memFavoriteRepo) GetByID(ctx context.Context, id string) (*domain.Favorite, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range m.favs {
		if f.ID == id {
			return &f, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memFavoriteRepo) Update(ctx context.Context, fav *domain.Favorite) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.favs {
		if m.favs[i].ID == fav.ID {
			m.favs[i] = *fav
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memFavoriteRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.favs {
		if m.favs[i].ID == id {
			m.favs = append(m.favs[:i], m.favs[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memFavoriteRepo) ListByUser(ctx context.Context, userID string) ([]domain.Favorite, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Favorite
	for i := len(m.favs) - 1; i >= 0; i-- {
		if m.favs[i].UserID == userID {
			out = append(out, m.favs[i])
		}
	}
	return out, nil
}
