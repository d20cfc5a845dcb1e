package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/kamertour/kamertour/internal/core/domain"
)

const poiColumns = `id, name, description, category, lat, lon, images,
	COALESCE(details, ''), status, created_at, updated_at`

// POIRepo implements ports.POIRepository with pgx and PostGIS.
type POIRepo struct {
	db *DB
}

// NewPOIRepo creates a new POIRepo.
func NewPOIRepo(db *DB) *POIRepo {
	return &POIRepo{db: db}
}

func scanPOI(row pgx.Row) (domain.POI, error) {
	var p domain.POI
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Category,
		&p.Location.Lat, &p.Location.Lon, &p.Images,
		&p.Details, &p.Status, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

func collectPOIs(rows pgx.Rows) ([]domain.POI, error) {
	defer rows.Close()
	pois := []domain.POI{}
	for rows.Next() {
		p, err := scanPOI(rows)
		if err != nil {
			return nil, err
		}
		pois = append(pois, p)
	}
	return pois, rows.Err()
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Create inserts a new POI.
func (r *POIRepo) Create(ctx context.Context, p *domain.POI) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO pois (id, name, description, category, lat, lon, images, details, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, p.ID, p.Name, p.Description, p.Category, p.Location.Lat, p.Location.Lon,
		p.Images, nullable(p.Details), p.Status, p.CreatedAt, p.UpdatedAt)
	return mapErr(err)
}

// Update overwrites the editable fields of a POI.
func (r *POIRepo) Update(ctx context.Context, p *domain.POI) error {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE pois
		SET name = $2, description = $3, category = $4, lat = $5, lon = $6,
		    images = $7, details = $8, updated_at = $9
		WHERE id = $1
	`, p.ID, p.Name, p.Description, p.Category, p.Location.Lat, p.Location.Lon,
		p.Images, nullable(p.Details), p.UpdatedAt)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpsertBatch inserts or refreshes many POIs using pgx.Batch. Existing rows
// keep their catalogue position.
func (r *POIRepo) UpsertBatch(ctx context.Context, pois []domain.POI) error {
	batch := &pgx.Batch{}
	for _, p := range pois {
		batch.Queue(`
			INSERT INTO pois (id, name, description, category, lat, lon, images, details, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
			ON CONFLICT (id) DO UPDATE
			SET name = EXCLUDED.name, description = EXCLUDED.description,
			    category = EXCLUDED.category, lat = EXCLUDED.lat, lon = EXCLUDED.lon,
			    images = EXCLUDED.images, details = EXCLUDED.details,
			    status = EXCLUDED.status, updated_at = EXCLUDED.updated_at
		`, p.ID, p.Name, p.Description, p.Category, p.Location.Lat, p.Location.Lon,
			p.Images, nullable(p.Details), p.Status, p.CreatedAt)
	}
	br := r.db.Pool.SendBatch(ctx, batch)
	defer br.Close()
	for range pois {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("batch exec: %w", mapErr(err))
		}
	}
	return nil
}

// Delete removes a POI and, by cascade, its comments.
func (r *POIRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM pois WHERE id = $1`, id)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByID returns a POI by id.
func (r *POIRepo) GetByID(ctx context.Context, id string) (*domain.POI, error) {
	p, err := scanPOI(r.db.Pool.QueryRow(ctx, `SELECT `+poiColumns+` FROM pois WHERE id = $1`, id))
	if err != nil {
		return nil, mapErr(err)
	}
	return &p, nil
}

// List returns one page of POIs in catalogue order plus the total count.
func (r *POIRepo) List(ctx context.Context, f domain.POIFilter) ([]domain.POI, int, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Status != "" {
		where = append(where, "status = "+arg(f.Status))
	}
	if len(f.Categories) > 0 {
		cats := make([]string, len(f.Categories))
		for i, c := range f.Categories {
			cats[i] = string(c)
		}
		where = append(where, "category = ANY("+arg(cats)+")")
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		p := arg("%" + escapeLike(q) + "%")
		where = append(where, fmt.Sprintf("(name ILIKE %[1]s OR description ILIKE %[1]s OR details ILIKE %[1]s)", p))
	}

	sql := `SELECT ` + poiColumns + `, count(*) OVER () FROM pois`
	if len(where) > 0 {
		sql += " WHERE " + strings.Join(where, " AND ")
	}
	sql += " ORDER BY seq OFFSET " + arg(f.Offset) + " LIMIT " + arg(f.Limit)

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	pois := []domain.POI{}
	total := 0
	for rows.Next() {
		var p domain.POI
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Description, &p.Category,
			&p.Location.Lat, &p.Location.Lon, &p.Images,
			&p.Details, &p.Status, &p.CreatedAt, &p.UpdatedAt,
			&total,
		); err != nil {
			return nil, 0, err
		}
		pois = append(pois, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if len(pois) == 0 && f.Offset > 0 {
		// Past the end the window count is lost; recount.
		if err := r.db.Pool.QueryRow(ctx, countSQL(sql), args[:len(args)-2]...).Scan(&total); err != nil {
			return nil, 0, err
		}
	}
	return pois, total, nil
}

func countSQL(listSQL string) string {
	from := strings.Index(listSQL, " FROM pois")
	order := strings.Index(listSQL, " ORDER BY")
	return "SELECT count(*)" + listSQL[from:order]
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// ListInBounds returns POIs with status whose coordinates fall inside b, in
// catalogue order. The GiST index on location serves the envelope test.
func (r *POIRepo) ListInBounds(ctx context.Context, b domain.Bounds, status domain.POIStatus) ([]domain.POI, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+poiColumns+`
		FROM pois
		WHERE status = $1
		  AND location::geometry && ST_MakeEnvelope($2, $3, $4, $5, 4326)
		ORDER BY seq
	`, status, b.MinLon, b.MinLat, b.MaxLon, b.MaxLat)
	if err != nil {
		return nil, err
	}
	return collectPOIs(rows)
}

// ListByStatus returns every POI with status in catalogue order.
func (r *POIRepo) ListByStatus(ctx context.Context, status domain.POIStatus) ([]domain.POI, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT `+poiColumns+` FROM pois WHERE status = $1 ORDER BY seq`, status)
	if err != nil {
		return nil, err
	}
	return collectPOIs(rows)
}

// SetStatus changes the moderation state of a POI.
func (r *POIRepo) SetStatus(ctx context.Context, id string, status domain.POIStatus) error {
	tag, err := r.db.Pool.Exec(ctx, `UPDATE pois SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CountByCategory counts published POIs per category.
func (r *POIRepo) CountByCategory(ctx context.Context) (map[domain.Category]int, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT category, count(*) FROM pois WHERE status = 'published' GROUP BY category
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[domain.Category]int{}
	for rows.Next() {
		var c domain.Category
		var n int
		if err := rows.Scan(&c, &n); err != nil {
			return nil, err
		}
		out[c] = n
	}
	return out, rows.Err()
}

// CountByStatus counts POIs per moderation state.
func (r *POIRepo) CountByStatus(ctx context.Context) (map[domain.POIStatus]int, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT status, count(*) FROM pois GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[domain.POIStatus]int{}
	for rows.Next() {
		var s domain.POIStatus
		var n int
		if err := rows.Scan(&s, &n); err != nil {
			return nil, err
		}
		out[s] = n
	}
	return out, rows.Err()
}
