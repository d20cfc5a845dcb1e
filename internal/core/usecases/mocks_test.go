package usecases_test

import (
	"context"
	"errors"
	"sync"

	"github.com/kamertour/kamertour/internal/core/domain"
)

// --- Mock POIRepository ---

type mockPOIRepo struct {
	mu       sync.Mutex
	pois     []domain.POI
	created  []domain.POI
	statuses map[string]domain.POIStatus

	listFn         func(ctx context.Context, filter domain.POIFilter) ([]domain.POI, int, error)
	listInBoundsFn func(ctx context.Context, bounds domain.Bounds, status domain.POIStatus) ([]domain.POI, error)
	setStatusFn    func(ctx context.Context, id string, status domain.POIStatus) error
	getByIDCalls   int
}

func newMockPOIRepo(pois ...domain.POI) *mockPOIRepo {
	return &mockPOIRepo{pois: pois, statuses: map[string]domain.POIStatus{}}
}

func (m *mockPOIRepo) Create(ctx context.Context, poi *domain.POI) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created = append(m.created, *poi)
	m.pois = append(m.pois, *poi)
	return nil
}

func (m *mockPOIRepo) Update(ctx context.Context, poi *domain.POI) error {
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

func (m *mockPOIRepo) Delete(ctx context.Context, id string) error {
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

func (m *mockPOIRepo) GetByID(ctx context.Context, id string) (*domain.POI, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getByIDCalls++
	for _, p := range m.pois {
		if p.ID == id {
			cp := p
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockPOIRepo) List(ctx context.Context, filter domain.POIFilter) ([]domain.POI, int, error) {
	if m.listFn != nil {
		return m.listFn(ctx, filter)
	}
	return m.pois, len(m.pois), nil
}

func (m *mockPOIRepo) ListInBounds(ctx context.Context, bounds domain.Bounds, status domain.POIStatus) ([]domain.POI, error) {
	if m.listInBoundsFn != nil {
		return m.listInBoundsFn(ctx, bounds, status)
	}
	return m.ListByStatus(ctx, status)
}

func (m *mockPOIRepo) ListByStatus(ctx context.Context, status domain.POIStatus) ([]domain.POI, error) {
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

func (m *mockPOIRepo) SetStatus(ctx context.Context, id string, status domain.POIStatus) error {
	if m.setStatusFn != nil {
		return m.setStatusFn(ctx, id, status)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.pois {
		if m.pois[i].ID == id {
			m.pois[i].Status = status
			m.statuses[id] = status
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *mockPOIRepo) CountByCategory(ctx context.Context) (map[domain.Category]int, error) {
	out := map[domain.Category]int{}
	for _, p := range m.pois {
		if p.Status == domain.POIStatusPublished {
			out[p.Category]++
		}
	}
	return out, nil
}

func (m *mockPOIRepo) CountByStatus(ctx context.Context) (map[domain.POIStatus]int, error) {
	out := map[domain.POIStatus]int{}
	for _, p := range m.pois {
		out[p.Status]++
	}
	return out, nil
}

// --- Mock CommentRepository ---

type mockCommentRepo struct {
	comments map[string]*domain.Comment
	lastList domain.CommentFilter
}

func newMockCommentRepo(cs ...domain.Comment) *mockCommentRepo {
	m := &mockCommentRepo{comments: map[string]*domain.Comment{}}
	for i := range cs {
		c := cs[i]
		m.comments[c.ID] = &c
	}
	return m
}

func (m *mockCommentRepo) Create(ctx context.Context, c *domain.Comment) error {
	cp := *c
	m.comments[c.ID] = &cp
	return nil
}

func (m *mockCommentRepo) GetByID(ctx context.Context, id string) (*domain.Comment, error) {
	c, ok := m.comments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *mockCommentRepo) Update(ctx context.Context, c *domain.Comment) error {
	if _, ok := m.comments[c.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *c
	m.comments[c.ID] = &cp
	return nil
}

func (m *mockCommentRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.comments[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.comments, id)
	return nil
}

func (m *mockCommentRepo) List(ctx context.Context, filter domain.CommentFilter) ([]domain.Comment, int, error) {
	m.lastList = filter
	var out []domain.Comment
	for _, c := range m.comments {
		if filter.POIID != "" && c.POIID != filter.POIID {
			continue
		}
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		out = append(out, *c)
	}
	return out, len(out), nil
}

func (m *mockCommentRepo) SetStatus(ctx context.Context, id string, status domain.CommentStatus) error {
	c, ok := m.comments[id]
	if !ok {
		return domain.ErrNotFound
	}
	c.Status = status
	return nil
}

func (m *mockCommentRepo) CountByStatus(ctx context.Context) (map[domain.CommentStatus]int, error) {
	out := map[domain.CommentStatus]int{}
	for _, c := range m.comments {
		out[c.Status]++
	}
	return out, nil
}

// --- Mock EventPublisher ---

type mockPublisher struct {
	mu        sync.Mutex
	submitted []string
	changed   []string
	reported  []string
	routes    int
	err       error
}

func (m *mockPublisher) PublishPOISubmitted(ctx context.Context, poi *domain.POI) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.submitted = append(m.submitted, poi.ID)
	return m.err
}

func (m *mockPublisher) PublishPOIStatusChanged(ctx context.Context, poi *domain.POI) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.changed = append(m.changed, poi.ID+":"+string(poi.Status))
	return m.err
}

func (m *mockPublisher) PublishCommentReported(ctx context.Context, c *domain.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reported = append(m.reported, c.ID)
	return m.err
}

func (m *mockPublisher) PublishRouteEstimated(ctx context.Context, r *domain.RouteEstimate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routes++
	return m.err
}

// --- Mock CacheService ---

var errCacheMiss = errors.New("cache miss")

type mockCache struct {
	data    map[string][]byte
	deleted []string
}

func newMockCache() *mockCache { return &mockCache{data: map[string][]byte{}} }

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, errCacheMiss
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttl int) error {
	m.data[key] = value
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	m.deleted = append(m.deleted, key)
	return nil
}

// --- Mock NotificationService ---

type mockNotifier struct {
	recipients []string
	bodies     []string
	err        error
}

func (m *mockNotifier) Notify(ctx context.Context, recipient, title, body string) error {
	m.recipients = append(m.recipients, recipient)
	m.bodies = append(m.bodies, body)
	return m.err
}

// --- Fixtures ---

func published(id, name string, cat domain.Category, lat, lon float64) domain.POI {
	return domain.POI{
		ID:          id,
		Name:        name,
		Description: name,
		Category:    cat,
		Location:    domain.GeoPoint{Lat: lat, Lon: lon},
		Status:      domain.POIStatusPublished,
	}
}

// cameroon mirrors the directory's seed catalogue.
func cameroon() []domain.POI {
	return []domain.POI{
		published("1", "Mont Cameroun", domain.CategoryNatural, 4.2156, 9.1712),
		published("2", "Chutes de la Lobé", domain.CategoryNatural, 2.8794, 9.8880),
		published("3", "Palais des Rois Bamoun", domain.CategoryHistorical, 5.7290, 10.9027),
		published("4", "Parc National de Waza", domain.CategoryNatural, 11.0000, 14.7500),
		published("5", "Cathédrale Notre-Dame-des-Victoires", domain.CategoryReligious, 3.8667, 11.5167),
		published("6", "Musée National", domain.CategoryCultural, 3.8683, 11.5211),
		published("7", "Plage de Kribi", domain.CategoryEntertainment, 2.9400, 9.9100),
		published("8", "Réserve du Dja", domain.CategoryNatural, 3.1667, 13.0000),
		published("9", "Marché de Douala", domain.CategoryCultural, 4.0510, 9.7678),
		published("10", "Hôtel Hilton Yaoundé", domain.CategoryHotel, 3.8750, 11.5174),
	}
}

// --- Mock FavoriteRepository ---

type mockFavoriteRepo struct {
	order []string
	favs  map[string]*domain.Favorite
}

func newMockFavoriteRepo() *mockFavoriteRepo {
	return &mockFavoriteRepo{favs: map[string]*domain.Favorite{}}
}

func (m *mockFavoriteRepo) Create(ctx context.Context, f *domain.Favorite) error {
	for _, existing := range m.favs {
		if existing.UserID == f.UserID && existing.POIID == f.POIID {
			return domain.ErrConflict
		}
	}
	cp := *f
	m.favs[f.ID] = &cp
	m.order = append(m.order, f.ID)
	return nil
}

func (m *mockFavoriteRepo) GetByID(ctx context.Context, id string) (*domain.Favorite, error) {
	f, ok := m.favs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *f
	return &cp, nil
}

func (m *mockFavoriteRepo) Update(ctx context.Context, f *domain.Favorite) error {
	if _, ok := m.favs[f.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *f
	m.favs[f.ID] = &cp
	return nil
}

func (m *mockFavoriteRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.favs[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.favs, id)
	return nil
}

func (m *mockFavoriteRepo) ListByUser(ctx context.Context, userID string) ([]domain.Favorite, error) {
	out := []domain.Favorite{}
	for i := len(m.order) - 1; i >= 0; i-- {
		if f, ok := m.favs[m.order[i]]; ok && f.UserID == userID {
			out = append(out, *f)
		}
	}
	return out, nil
}
