package checkin

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

var (
	ErrQRNotFound        = errors.New("qr code not found")
	ErrQRAlreadyUsed     = errors.New("qr code already used")
	ErrNoActiveCheckIn   = errors.New("no active check-in for user")
	ErrAlreadyCheckedOut = errors.New("check-in not found or already completed")
)

const qrColumns = `id, user_id, code, status, expires_at, used_at, created_at`
const checkInColumns = `id, user_id, qr_code, locker_number, status, check_in_time, check_out_time`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateQR(ctx context.Context, userID int, code string, expiresAt time.Time) (*OneTimeQR, error) {
	var qr OneTimeQR
	err := r.db.GetContext(ctx, &qr, `
		INSERT INTO one_time_qr_codes (user_id, code, status, expires_at)
		VALUES ($1, $2, 'valid', $3)
		RETURNING `+qrColumns, userID, code, expiresAt)
	if err != nil {
		return nil, err
	}

	return &qr, nil
}

func (r *repository) GetQRByCode(ctx context.Context, code string) (*OneTimeQR, error) {
	var qr OneTimeQR
	err := r.db.GetContext(ctx, &qr, `SELECT `+qrColumns+` FROM one_time_qr_codes WHERE code = $1`, code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrQRNotFound
	}
	if err != nil {
		return nil, err
	}

	return &qr, nil
}

// MarkUsed is the one contended write in the system: the WHERE clause
// lets exactly one of any number of concurrent redeemers win.
func (r *repository) MarkUsed(ctx context.Context, code string) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE one_time_qr_codes
		SET status = 'used', used_at = NOW()
		WHERE code = $1 AND status = 'valid'
	`, code)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrQRAlreadyUsed
	}

	return nil
}

func (r *repository) MarkExpired(ctx context.Context, code string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE one_time_qr_codes
		SET status = 'expired'
		WHERE code = $1 AND status = 'valid'
	`, code)
	return err
}

func (r *repository) CreateCheckIn(ctx context.Context, userID int, qrCode string, lockerNumber *string) (*CheckIn, error) {
	var ci CheckIn
	err := r.db.GetContext(ctx, &ci, `
		INSERT INTO check_ins (user_id, qr_code, locker_number, status)
		VALUES ($1, $2, $3, 'active')
		RETURNING `+checkInColumns, userID, qrCode, lockerNumber)
	if err != nil {
		return nil, err
	}

	return &ci, nil
}

func (r *repository) GetActiveForUser(ctx context.Context, userID int) (*CheckIn, error) {
	var ci CheckIn
	err := r.db.GetContext(ctx, &ci, `
		SELECT `+checkInColumns+`
		FROM check_ins
		WHERE user_id = $1 AND status = 'active'
		ORDER BY check_in_time DESC
		LIMIT 1
	`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoActiveCheckIn
	}
	if err != nil {
		return nil, err
	}

	return &ci, nil
}

func (r *repository) Complete(ctx context.Context, checkInID int) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE check_ins
		SET status = 'completed', check_out_time = NOW()
		WHERE id = $1 AND status = 'active'
	`, checkInID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrAlreadyCheckedOut
	}

	return nil
}

func (r *repository) CompleteStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)

	result, err := r.db.ExecContext(ctx, `
		UPDATE check_ins
		SET status = 'completed', check_out_time = NOW()
		WHERE status = 'active' AND check_in_time < $1
	`, cutoff)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

func (r *repository) ListRecent(ctx context.Context, limit int) ([]CheckInWithUser, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var rows []CheckInWithUser
	err := r.db.SelectContext(ctx, &rows, `
		SELECT
			c.id, c.user_id, c.qr_code, c.locker_number, c.status, c.check_in_time, c.check_out_time,
			u.name AS user_name,
			u.email AS user_email
		FROM check_ins c
		JOIN users u ON c.user_id = u.id
		ORDER BY c.check_in_time DESC
		LIMIT $1
	`, limit)
	return rows, err
}

func (r *repository) CountToday(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*)
		FROM check_ins
		WHERE check_in_time >= CURRENT_DATE
	`)
	return count, err
}

func (r *repository) ListInactiveMembers(ctx context.Context, inactiveFor time.Duration) ([]InactiveMember, error) {
	cutoff := time.Now().Add(-inactiveFor)

	var rows []InactiveMember
	err := r.db.SelectContext(ctx, &rows, `
		SELECT
			u.id AS user_id,
			u.name,
			u.email,
			MAX(c.check_in_time) AS last_visit
		FROM users u
		LEFT JOIN check_ins c ON c.user_id = u.id
		WHERE u.role = 'member' AND u.active = TRUE
		GROUP BY u.id, u.name, u.email
		HAVING MAX(c.check_in_time) IS NULL OR MAX(c.check_in_time) < $1
	`, cutoff)
	return rows, err
}
