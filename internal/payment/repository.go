package payment

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var (
	ErrPaymentNotFound      = errors.New("payment not found")
	ErrPaymentNotRefundable = errors.New("payment is not in a refundable state")
)

const paymentColumns = `id, user_id, plan_id, amount_cents, currency, gateway_ref, status, created_at`

type Repository interface {
	Create(ctx context.Context, userID int, planID *int, amountCents int, currency string) (*Payment, error)
	GetByID(ctx context.Context, id int) (*Payment, error)
	MarkCompleted(ctx context.Context, id int, gatewayRef string) error
	MarkFailed(ctx context.Context, id int, gatewayRef *string) error
	MarkRefunded(ctx context.Context, id int) error
	GetUserPayments(ctx context.Context, userID int) ([]Payment, error)
	ListAll(ctx context.Context, limit int) ([]PaymentWithDetails, error)
	RevenueThisMonth(ctx context.Context) (int, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, userID int, planID *int, amountCents int, currency string) (*Payment, error) {
	var p Payment
	err := r.db.GetContext(ctx, &p, `
		INSERT INTO payments (user_id, plan_id, amount_cents, currency, status)
		VALUES ($1, $2, $3, $4, 'pending')
		RETURNING `+paymentColumns, userID, planID, amountCents, currency)
	if err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Payment, error) {
	var p Payment
	err := r.db.GetContext(ctx, &p, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *repository) MarkCompleted(ctx context.Context, id int, gatewayRef string) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE payments
		SET status = 'completed', gateway_ref = $1
		WHERE id = $2 AND status = 'pending'
	`, gatewayRef, id)
	if err != nil {
		return err
	}
	return oneRowOr(result, ErrPaymentNotFound)
}

func (r *repository) MarkFailed(ctx context.Context, id int, gatewayRef *string) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE payments
		SET status = 'failed', gateway_ref = $1
		WHERE id = $2 AND status = 'pending'
	`, gatewayRef, id)
	if err != nil {
		return err
	}
	return oneRowOr(result, ErrPaymentNotFound)
}

func (r *repository) MarkRefunded(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE payments
		SET status = 'refunded'
		WHERE id = $1 AND status = 'completed'
	`, id)
	if err != nil {
		return err
	}
	return oneRowOr(result, ErrPaymentNotRefundable)
}

func (r *repository) GetUserPayments(ctx context.Context, userID int) ([]Payment, error) {
	var payments []Payment
	err := r.db.SelectContext(ctx, &payments, `
		SELECT `+paymentColumns+`
		FROM payments
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	return payments, err
}

func (r *repository) ListAll(ctx context.Context, limit int) ([]PaymentWithDetails, error) {
	var payments []PaymentWithDetails
	err := r.db.SelectContext(ctx, &payments, `
		SELECT
			p.id, p.user_id, p.plan_id, p.amount_cents, p.currency, p.gateway_ref, p.status, p.created_at,
			u.name AS user_name,
			u.email AS user_email,
			mp.name AS plan_name
		FROM payments p
		JOIN users u ON p.user_id = u.id
		LEFT JOIN membership_plans mp ON p.plan_id = mp.id
		ORDER BY p.created_at DESC
		LIMIT $1
	`, limit)
	return payments, err
}

func (r *repository) RevenueThisMonth(ctx context.Context) (int, error) {
	var total int
	err := r.db.GetContext(ctx, &total, `
		SELECT COALESCE(SUM(amount_cents), 0)
		FROM payments
		WHERE status = 'completed' AND created_at >= date_trunc('month', NOW())
	`)
	return total, err
}

func oneRowOr(result sql.Result, sentinel error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return sentinel
	}
	return nil
}
