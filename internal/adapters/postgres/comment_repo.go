package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/kamertour/kamertour/internal/core/domain"
)

// CommentRepo implements ports.CommentRepository.
type CommentRepo struct {
	db *DB
}

func NewCommentRepo(db *DB) *CommentRepo {
	return &CommentRepo{db: db}
}

func (r *CommentRepo) Create(ctx context.Context, c *domain.Comment) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO comments (id, poi_id, user_name, content, rating, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, c.ID, c.POIID, c.UserName, c.Content, c.Rating, c.Status, c.CreatedAt, c.UpdatedAt)
	return mapErr(err)
}

func (r *CommentRepo) GetByID(ctx context.Context, id string) (*domain.Comment, error) {
	var c domain.Comment
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, poi_id, user_name, content, rating, status, created_at, updated_at
		FROM comments WHERE id = $1
	`, id).Scan(&c.ID, &c.POIID, &c.UserName, &c.Content, &c.Rating, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &c, nil
}

func (r *CommentRepo) Update(ctx context.Context, c *domain.Comment) error {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE comments SET content = $2, rating = $3, updated_at = $4 WHERE id = $1
	`, c.ID, c.Content, c.Rating, c.UpdatedAt)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CommentRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List returns comments newest first with the total match count.
func (r *CommentRepo) List(ctx context.Context, f domain.CommentFilter) ([]domain.Comment, int, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if f.POIID != "" {
		where = append(where, "poi_id = "+arg(f.POIID))
	}
	if f.Status != "" {
		where = append(where, "status = "+arg(f.Status))
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		p := arg("%" + escapeLike(q) + "%")
		where = append(where, fmt.Sprintf("(content ILIKE %[1]s OR user_name ILIKE %[1]s)", p))
	}

	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.db.Pool.QueryRow(ctx, `SELECT count(*) FROM comments`+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, poi_id, user_name, content, rating, status, created_at, updated_at
		FROM comments`+cond+`
		ORDER BY seq DESC
		OFFSET `+arg(f.Offset)+` LIMIT `+arg(f.Limit), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	comments := []domain.Comment{}
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.ID, &c.POIID, &c.UserName, &c.Content, &c.Rating, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, err
		}
		comments = append(comments, c)
	}
	return comments, total, rows.Err()
}

func (r *CommentRepo) SetStatus(ctx context.Context, id string, status domain.CommentStatus) error {
	tag, err := r.db.Pool.Exec(ctx, `UPDATE comments SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CommentRepo) CountByStatus(ctx context.Context) (map[domain.CommentStatus]int, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT status, count(*) FROM comments GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[domain.CommentStatus]int{}
	for rows.Next() {
		var s domain.CommentStatus
		var n int
		if err := rows.Scan(&s, &n); err != nil {
			return nil, err
		}
		out[s] = n
	}
	return out, rows.Err()
}
