package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/kamertour/kamertour/internal/core/domain"
)

// FavoriteRepo implements ports.FavoriteRepository.
type FavoriteRepo struct {
	db *DB
}

func NewFavoriteRepo(db *DB) *FavoriteRepo {
	return &FavoriteRepo{db: db}
}

const favoriteColumns = `id, user_id, poi_id, notes, rating, visit_date, created_at, updated_at`

func scanFavorite(row pgx.Row) (*domain.Favorite, error) {
	var f domain.Favorite
	if err := row.Scan(&f.ID, &f.UserID, &f.POIID, &f.Notes, &f.Rating, &f.VisitDate, &f.CreatedAt, &f.UpdatedAt); err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *FavoriteRepo) Create(ctx context.Context, f *domain.Favorite) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO favorites (`+favoriteColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, f.ID, f.UserID, f.POIID, f.Notes, f.Rating, f.VisitDate, f.CreatedAt, f.UpdatedAt)
	return mapErr(err)
}

func (r *FavoriteRepo) GetByID(ctx context.Context, id string) (*domain.Favorite, error) {
	f, err := scanFavorite(r.db.Pool.QueryRow(ctx, `SELECT `+favoriteColumns+` FROM favorites WHERE id = $1`, id))
	if err != nil {
		return nil, mapErr(err)
	}
	return f, nil
}

func (r *FavoriteRepo) Update(ctx context.Context, f *domain.Favorite) error {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE favorites SET notes = $2, rating = $3, visit_date = $4, updated_at = $5 WHERE id = $1
	`, f.ID, f.Notes, f.Rating, f.VisitDate, f.UpdatedAt)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *FavoriteRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM favorites WHERE id = $1`, id)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *FavoriteRepo) ListByUser(ctx context.Context, userID string) ([]domain.Favorite, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+favoriteColumns+` FROM favorites WHERE user_id = $1 ORDER BY seq DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Favorite{}
	for rows.Next() {
		f, err := scanFavorite(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *f)
	}
	return out, rows.Err()
}
