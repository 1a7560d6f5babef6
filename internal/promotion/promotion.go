package promotion

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/api"
	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/db"
)

type Promotion struct {
	ID        int        `db:"id" json:"id"`
	Title     string     `db:"title" json:"title"`
	Body      string     `db:"body" json:"body"`
	ImageURL  string     `db:"image_url" json:"image_url"`
	Active    bool       `db:"active" json:"active"`
	StartsAt  *time.Time `db:"starts_at" json:"starts_at,omitempty"`
	EndsAt    *time.Time `db:"ends_at" json:"ends_at,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}

type UpsertRequest struct {
	Title    string     `json:"title" binding:"required"`
	Body     string     `json:"body"`
	ImageURL string     `json:"image_url"`
	Active   bool       `json:"active"`
	StartsAt *time.Time `json:"starts_at"`
	EndsAt   *time.Time `json:"ends_at"`
}

const promotionColumns = `id, title, body, image_url, active, starts_at, ends_at, created_at`

type Repository struct {
	db *sqlx.DB
}

func NewRepository(database *sqlx.DB) *Repository {
	return &Repository{db: database}
}

// ListActive returns promotions that are switched on and inside their
// display window, if one is set.
func (r *Repository) ListActive(ctx context.Context) ([]Promotion, error) {
	var promotions []Promotion
	err := r.db.SelectContext(ctx, &promotions, `
		SELECT `+promotionColumns+`
		FROM promotions
		WHERE active = TRUE
		  AND (starts_at IS NULL OR starts_at <= NOW())
		  AND (ends_at IS NULL OR ends_at >= NOW())
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, db.StoreError(err, "Failed to fetch promotions")
	}
	return promotions, nil
}

func (r *Repository) ListAll(ctx context.Context) ([]Promotion, error) {
	var promotions []Promotion
	err := r.db.SelectContext(ctx, &promotions, `
		SELECT `+promotionColumns+` FROM promotions ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, db.StoreError(err, "Failed to fetch promotions")
	}
	return promotions, nil
}

func (r *Repository) Create(ctx context.Context, req UpsertRequest) (*Promotion, error) {
	var p Promotion
	err := r.db.GetContext(ctx, &p, `
		INSERT INTO promotions (title, body, image_url, active, starts_at, ends_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+promotionColumns,
		req.Title, req.Body, req.ImageURL, req.Active, req.StartsAt, req.EndsAt)
	if err != nil {
		return nil, db.StoreError(err, "Failed to create promotion")
	}
	return &p, nil
}

func (r *Repository) Update(ctx context.Context, id int, req UpsertRequest) (*Promotion, error) {
	var p Promotion
	err := r.db.GetContext(ctx, &p, `
		UPDATE promotions
		SET title = $1, body = $2, image_url = $3, active = $4, starts_at = $5, ends_at = $6
		WHERE id = $7
		RETURNING `+promotionColumns,
		req.Title, req.Body, req.ImageURL, req.Active, req.StartsAt, req.EndsAt, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, api.NotFound("Promotion not found")
	}
	if err != nil {
		return nil, db.StoreError(err, "Failed to update promotion")
	}
	return &p, nil
}

func (r *Repository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM promotions WHERE id = $1`, id)
	if err != nil {
		return db.StoreError(err, "Failed to delete promotion")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return db.StoreError(err, "Failed to delete promotion")
	}
	if rowsAffected == 0 {
		return api.NotFound("Promotion not found")
	}

	return nil
}
