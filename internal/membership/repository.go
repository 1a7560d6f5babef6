package membership

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/db"
)

var (
	ErrMembershipNotFound         = errors.New("membership not found")
	ErrMembershipAlreadyCancelled = errors.New("membership not found or already cancelled")
)

const membershipColumns = `id, user_id, plan_id, start_date, end_date, status, auto_renew, created_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Assign(ctx context.Context, userID, planID int, startDate, endDate time.Time, autoRenew bool) (*Membership, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Replace, don't stack: any prior active membership is cancelled first.
	_, err = tx.ExecContext(ctx, `
		UPDATE memberships
		SET status = 'cancelled'
		WHERE user_id = $1 AND status = 'active'
	`, userID)
	if err != nil {
		return nil, err
	}

	var m Membership
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO memberships (user_id, plan_id, start_date, end_date, status, auto_renew)
		VALUES ($1, $2, $3, $4, 'active', $5)
		RETURNING `+membershipColumns, userID, planID, startDate, endDate, autoRenew).StructScan(&m)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &m, nil
}

func (r *repository) GetActiveForUser(ctx context.Context, userID int) (*Membership, error) {
	var m Membership
	err := r.db.GetContext(ctx, &m, `
		SELECT `+membershipColumns+`
		FROM memberships
		WHERE user_id = $1
		  AND status = 'active'
		  AND end_date >= NOW()
		ORDER BY end_date DESC
		LIMIT 1
	`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMembershipNotFound
	}
	if err != nil {
		return nil, err
	}

	return &m, nil
}

func (r *repository) GetLatestForUser(ctx context.Context, userID int) (*Membership, error) {
	var m Membership
	err := r.db.GetContext(ctx, &m, `
		SELECT `+membershipColumns+`
		FROM memberships
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMembershipNotFound
	}
	if err != nil {
		return nil, err
	}

	return &m, nil
}

func (r *repository) HasActive(ctx context.Context, userID int) (bool, error) {
	return db.Exists(ctx, r.db, `
		SELECT EXISTS(
			SELECT 1 FROM memberships
			WHERE user_id = $1 AND status = 'active' AND end_date >= NOW()
		)
	`, userID)
}

func (r *repository) Cancel(ctx context.Context, membershipID int) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE memberships
		SET status = 'cancelled'
		WHERE id = $1 AND status = 'active'
	`, membershipID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrMembershipAlreadyCancelled
	}

	return nil
}

func (r *repository) ListExpiringSoon(ctx context.Context, within time.Duration) ([]MembershipWithDetails, error) {
	cutoff := time.Now().Add(within)

	var rows []MembershipWithDetails
	err := r.db.SelectContext(ctx, &rows, `
		SELECT
			m.id, m.user_id, m.plan_id, m.start_date, m.end_date, m.status, m.auto_renew, m.created_at,
			p.name AS plan_name,
			u.name AS user_name,
			u.email AS user_email
		FROM memberships m
		JOIN membership_plans p ON m.plan_id = p.id
		JOIN users u ON m.user_id = u.id
		WHERE m.status = 'active'
		  AND m.end_date >= NOW()
		  AND m.end_date <= $1
		ORDER BY m.end_date ASC
	`, cutoff)
	return rows, err
}
