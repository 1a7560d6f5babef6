package class

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/db"
)

var (
	ErrClassNotFound                     = errors.New("class not found")
	ErrBookingNotFound                   = errors.New("booking not found")
	ErrBookingNotFoundOrAlreadyCancelled = errors.New("booking not found or already cancelled")
	ErrBookingNotMarkable                = errors.New("booking not found or not in booked state")
)

const classColumns = `id, name, description, trainer_name, starts_at, duration_minutes, max_capacity, created_at`
const bookingColumns = `id, user_id, class_id, status, created_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateClass(ctx context.Context, name, description, trainerName string, startsAt time.Time, durationMinutes, maxCapacity int) (*GymClass, error) {
	var gc GymClass
	err := r.db.GetContext(ctx, &gc, `
		INSERT INTO gym_classes (name, description, trainer_name, starts_at, duration_minutes, max_capacity)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+classColumns, name, description, trainerName, startsAt, durationMinutes, maxCapacity)
	if err != nil {
		return nil, err
	}

	return &gc, nil
}

func (r *repository) GetClassByID(ctx context.Context, id int) (*GymClass, error) {
	var gc GymClass
	err := r.db.GetContext(ctx, &gc, `SELECT `+classColumns+` FROM gym_classes WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrClassNotFound
	}
	if err != nil {
		return nil, err
	}

	return &gc, nil
}

// UpdateClass applies only the provided fields. startsAt is pre-parsed
// by the service so the repository never touches RFC3339 strings.
func (r *repository) UpdateClass(ctx context.Context, id int, req UpdateClassRequest, startsAt *time.Time) (*GymClass, error) {
	sets := []string{}
	args := []interface{}{}
	i := 1

	add := func(col string, val interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", col, i))
		args = append(args, val)
		i++
	}

	if req.Name != nil {
		add("name", *req.Name)
	}
	if req.Description != nil {
		add("description", *req.Description)
	}
	if req.TrainerName != nil {
		add("trainer_name", *req.TrainerName)
	}
	if startsAt != nil {
		add("starts_at", *startsAt)
	}
	if req.DurationMinutes != nil {
		add("duration_minutes", *req.DurationMinutes)
	}
	if req.MaxCapacity != nil {
		add("max_capacity", *req.MaxCapacity)
	}

	if len(sets) == 0 {
		return r.GetClassByID(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE gym_classes SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), i, classColumns)

	var gc GymClass
	err := r.db.GetContext(ctx, &gc, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrClassNotFound
	}
	if err != nil {
		return nil, err
	}

	return &gc, nil
}

func (r *repository) ListClasses(ctx context.Context, onlyUpcoming bool) ([]GymClass, error) {
	query := `SELECT ` + classColumns + ` FROM gym_classes`
	if onlyUpcoming {
		query += ` WHERE starts_at > NOW()`
	}
	query += ` ORDER BY starts_at ASC`

	var classes []GymClass
	err := r.db.SelectContext(ctx, &classes, query)
	return classes, err
}

// Enrollment is always a count over live rows, never a stored counter.
func (r *repository) CountActiveBookings(ctx context.Context, classID int) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*)
		FROM class_bookings
		WHERE class_id = $1 AND status = 'booked'
	`, classID)
	return count, err
}

func (r *repository) CreateBooking(ctx context.Context, userID, classID int) (*Booking, error) {
	var b Booking
	err := r.db.GetContext(ctx, &b, `
		INSERT INTO class_bookings (user_id, class_id, status)
		VALUES ($1, $2, 'booked')
		RETURNING `+bookingColumns, userID, classID)
	if err != nil {
		return nil, err
	}

	return &b, nil
}

func (r *repository) GetBookingByID(ctx context.Context, id int) (*Booking, error) {
	var b Booking
	err := r.db.GetContext(ctx, &b, `SELECT `+bookingColumns+` FROM class_bookings WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}

	return &b, nil
}

func (r *repository) UserHasBooking(ctx context.Context, userID, classID int) (bool, error) {
	return db.Exists(ctx, r.db, `
		SELECT EXISTS(
			SELECT 1 FROM class_bookings
			WHERE user_id = $1 AND class_id = $2 AND status = 'booked'
		)
	`, userID, classID)
}

func (r *repository) CancelBooking(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE class_bookings
		SET status = 'cancelled'
		WHERE id = $1 AND status = 'booked'
	`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrBookingNotFoundOrAlreadyCancelled
	}

	return nil
}

func (r *repository) MarkAttended(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE class_bookings
		SET status = 'attended'
		WHERE id = $1 AND status = 'booked'
	`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrBookingNotMarkable
	}

	return nil
}

func (r *repository) GetUserBookings(ctx context.Context, userID int) ([]BookingWithDetails, error) {
	var bookings []BookingWithDetails
	err := r.db.SelectContext(ctx, &bookings, `
		SELECT
			b.id, b.user_id, b.class_id, b.status, b.created_at,
			g.name AS class_name,
			g.starts_at AS class_starts_at,
			u.name AS user_name,
			u.email AS user_email
		FROM class_bookings b
		JOIN gym_classes g ON b.class_id = g.id
		JOIN users u ON b.user_id = u.id
		WHERE b.user_id = $1
		ORDER BY b.created_at DESC
	`, userID)
	return bookings, err
}

func (r *repository) GetBookingsByClass(ctx context.Context, classID int) ([]BookingWithDetails, error) {
	var bookings []BookingWithDetails
	err := r.db.SelectContext(ctx, &bookings, `
		SELECT
			b.id, b.user_id, b.class_id, b.status, b.created_at,
			g.name AS class_name,
			g.starts_at AS class_starts_at,
			u.name AS user_name,
			u.email AS user_email
		FROM class_bookings b
		JOIN gym_classes g ON b.class_id = g.id
		JOIN users u ON b.user_id = u.id
		WHERE b.class_id = $1
		ORDER BY b.created_at DESC
	`, classID)
	return bookings, err
}
