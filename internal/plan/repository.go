package plan

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrPlanNotFound = errors.New("membership plan not found")

const planColumns = `id, name, description, price_cents, currency, duration_months, active, created_at`

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, req CreatePlanRequest) (*Plan, error) {
	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}

	var p Plan
	err := r.db.GetContext(ctx, &p, `
		INSERT INTO membership_plans (name, description, price_cents, currency, duration_months)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+planColumns, req.Name, req.Description, req.PriceCents, currency, req.DurationMonths)
	if err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *Repository) Update(ctx context.Context, id int, req UpdatePlanRequest) (*Plan, error) {
	var p Plan
	err := r.db.GetContext(ctx, &p, `
		UPDATE membership_plans
		SET name = $1, description = $2, price_cents = $3, duration_months = $4, active = $5
		WHERE id = $6
		RETURNING `+planColumns, req.Name, req.Description, req.PriceCents, req.DurationMonths, *req.Active, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *Repository) GetByID(ctx context.Context, id int) (*Plan, error) {
	var p Plan
	err := r.db.GetContext(ctx, &p, `SELECT `+planColumns+` FROM membership_plans WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *Repository) ListActive(ctx context.Context) ([]Plan, error) {
	var plans []Plan
	err := r.db.SelectContext(ctx, &plans, `
		SELECT `+planColumns+`
		FROM membership_plans
		WHERE active = TRUE
		ORDER BY price_cents ASC
	`)
	return plans, err
}

func (r *Repository) ListAll(ctx context.Context) ([]Plan, error) {
	var plans []Plan
	err := r.db.SelectContext(ctx, &plans, `
		SELECT `+planColumns+`
		FROM membership_plans
		ORDER BY created_at DESC
	`)
	return plans, err
}
