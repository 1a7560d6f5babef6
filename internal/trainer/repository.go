package trainer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

var (
	ErrTrainerNotFound      = errors.New("trainer not found")
	ErrPtBookingNotFound    = errors.New("pt booking not found")
	ErrInvalidTransition    = errors.New("booking is not in the expected state")
	ErrPackageNotFound      = errors.New("session package not found")
	ErrAttendanceNotFound   = errors.New("attendance record not found")
	ErrAttendanceNotPending = errors.New("attendance record is not pending")
	ErrNoSessionsRemaining  = errors.New("no sessions remaining on package")
)

const trainerColumns = `id, name, bio, specialty, photo_url, rate_cents, active, created_at`
const ptBookingColumns = `id, user_id, trainer_id, starts_at, status, note, created_at`
const packageColumns = `id, user_id, trainer_id, total_sessions, remaining_sessions, status, created_at`
const attendanceColumns = `id, package_id, status, note, created_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateTrainer(ctx context.Context, req CreateTrainerRequest) (*PersonalTrainer, error) {
	var t PersonalTrainer
	err := r.db.GetContext(ctx, &t, `
		INSERT INTO personal_trainers (name, bio, specialty, photo_url, rate_cents, active)
		VALUES ($1, $2, $3, $4, $5, TRUE)
		RETURNING `+trainerColumns, req.Name, req.Bio, req.Specialty, req.PhotoURL, req.RateCents)
	if err != nil {
		return nil, err
	}

	return &t, nil
}

func (r *repository) GetTrainerByID(ctx context.Context, id int) (*PersonalTrainer, error) {
	var t PersonalTrainer
	err := r.db.GetContext(ctx, &t, `SELECT `+trainerColumns+` FROM personal_trainers WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTrainerNotFound
	}
	if err != nil {
		return nil, err
	}

	return &t, nil
}

func (r *repository) ListTrainers(ctx context.Context, onlyActive bool) ([]PersonalTrainer, error) {
	query := `SELECT ` + trainerColumns + ` FROM personal_trainers`
	if onlyActive {
		query += ` WHERE active = TRUE`
	}
	query += ` ORDER BY name ASC`

	var trainers []PersonalTrainer
	err := r.db.SelectContext(ctx, &trainers, query)
	return trainers, err
}

func (r *repository) UpdateTrainer(ctx context.Context, id int, req UpdateTrainerRequest) (*PersonalTrainer, error) {
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
	if req.Bio != nil {
		add("bio", *req.Bio)
	}
	if req.Specialty != nil {
		add("specialty", *req.Specialty)
	}
	if req.PhotoURL != nil {
		add("photo_url", *req.PhotoURL)
	}
	if req.RateCents != nil {
		add("rate_cents", *req.RateCents)
	}
	if req.Active != nil {
		add("active", *req.Active)
	}

	if len(sets) == 0 {
		return r.GetTrainerByID(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE personal_trainers SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), i, trainerColumns)

	var t PersonalTrainer
	err := r.db.GetContext(ctx, &t, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTrainerNotFound
	}
	if err != nil {
		return nil, err
	}

	return &t, nil
}

func (r *repository) CreateBooking(ctx context.Context, userID, trainerID int, startsAt time.Time, note string) (*PtBooking, error) {
	var b PtBooking
	err := r.db.GetContext(ctx, &b, `
		INSERT INTO pt_bookings (user_id, trainer_id, starts_at, status, note)
		VALUES ($1, $2, $3, 'pending', $4)
		RETURNING `+ptBookingColumns, userID, trainerID, startsAt, note)
	if err != nil {
		return nil, err
	}

	return &b, nil
}

func (r *repository) GetBookingByID(ctx context.Context, id int) (*PtBooking, error) {
	var b PtBooking
	err := r.db.GetContext(ctx, &b, `SELECT `+ptBookingColumns+` FROM pt_bookings WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPtBookingNotFound
	}
	if err != nil {
		return nil, err
	}

	return &b, nil
}

// SetBookingStatus only moves a booking out of the expected state, so
// two admins racing on the same row cannot both win.
func (r *repository) SetBookingStatus(ctx context.Context, id int, from, to string) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE pt_bookings
		SET status = $1
		WHERE id = $2 AND status = $3
	`, to, id, from)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrInvalidTransition
	}

	return nil
}

func (r *repository) GetUserBookings(ctx context.Context, userID int) ([]PtBookingWithDetails, error) {
	var bookings []PtBookingWithDetails
	err := r.db.SelectContext(ctx, &bookings, `
		SELECT
			b.id, b.user_id, b.trainer_id, b.starts_at, b.status, b.note, b.created_at,
			t.name AS trainer_name,
			u.name AS user_name,
			u.email AS user_email
		FROM pt_bookings b
		JOIN personal_trainers t ON b.trainer_id = t.id
		JOIN users u ON b.user_id = u.id
		WHERE b.user_id = $1
		ORDER BY b.starts_at DESC
	`, userID)
	return bookings, err
}

func (r *repository) ListBookings(ctx context.Context, status string) ([]PtBookingWithDetails, error) {
	query := `
		SELECT
			b.id, b.user_id, b.trainer_id, b.starts_at, b.status, b.note, b.created_at,
			t.name AS trainer_name,
			u.name AS user_name,
			u.email AS user_email
		FROM pt_bookings b
		JOIN personal_trainers t ON b.trainer_id = t.id
		JOIN users u ON b.user_id = u.id`

	var bookings []PtBookingWithDetails
	var err error
	if status != "" {
		query += ` WHERE b.status = $1 ORDER BY b.starts_at DESC`
		err = r.db.SelectContext(ctx, &bookings, query, status)
	} else {
		query += ` ORDER BY b.starts_at DESC`
		err = r.db.SelectContext(ctx, &bookings, query)
	}
	return bookings, err
}

func (r *repository) CountPendingBookings(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM pt_bookings WHERE status = 'pending'`)
	return count, err
}

func (r *repository) CreatePackage(ctx context.Context, userID, trainerID, totalSessions int) (*SessionPackage, error) {
	var p SessionPackage
	err := r.db.GetContext(ctx, &p, `
		INSERT INTO pt_session_packages (user_id, trainer_id, total_sessions, remaining_sessions, status)
		VALUES ($1, $2, $3, $3, 'active')
		RETURNING `+packageColumns, userID, trainerID, totalSessions)
	if err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *repository) GetPackageByID(ctx context.Context, id int) (*SessionPackage, error) {
	var p SessionPackage
	err := r.db.GetContext(ctx, &p, `SELECT `+packageColumns+` FROM pt_session_packages WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPackageNotFound
	}
	if err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *repository) GetUserPackages(ctx context.Context, userID int) ([]SessionPackage, error) {
	var packages []SessionPackage
	err := r.db.SelectContext(ctx, &packages, `
		SELECT `+packageColumns+`
		FROM pt_session_packages
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	return packages, err
}

func (r *repository) CreateAttendance(ctx context.Context, packageID int, note string) (*SessionAttendance, error) {
	var a SessionAttendance
	err := r.db.GetContext(ctx, &a, `
		INSERT INTO pt_session_attendance (package_id, status, note)
		VALUES ($1, 'pending', $2)
		RETURNING `+attendanceColumns, packageID, note)
	if err != nil {
		return nil, err
	}

	return &a, nil
}

func (r *repository) GetAttendanceByID(ctx context.Context, id int) (*SessionAttendance, error) {
	var a SessionAttendance
	err := r.db.GetContext(ctx, &a, `SELECT `+attendanceColumns+` FROM pt_session_attendance WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAttendanceNotFound
	}
	if err != nil {
		return nil, err
	}

	return &a, nil
}

// ConfirmAttendance marks the record confirmed and decrements the
// package counter in one transaction. The decrement is conditional on
// remaining_sessions > 0, so a double confirmation cannot drive the
// counter negative; the package flips to completed exactly when the
// counter reaches zero.
func (r *repository) ConfirmAttendance(ctx context.Context, attendanceID int) (*SessionPackage, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE pt_session_attendance
		SET status = 'confirmed'
		WHERE id = $1 AND status = 'pending'
	`, attendanceID)
	if err != nil {
		return nil, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rowsAffected == 0 {
		return nil, ErrAttendanceNotPending
	}

	var p SessionPackage
	err = tx.GetContext(ctx, &p, `
		UPDATE pt_session_packages
		SET remaining_sessions = remaining_sessions - 1,
		    status = CASE WHEN remaining_sessions - 1 <= 0 THEN 'completed' ELSE status END
		WHERE id = (SELECT package_id FROM pt_session_attendance WHERE id = $1)
		  AND remaining_sessions > 0
		RETURNING `+packageColumns, attendanceID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSessionsRemaining
	}
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *repository) RejectAttendance(ctx context.Context, attendanceID int) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE pt_session_attendance
		SET status = 'rejected'
		WHERE id = $1 AND status = 'pending'
	`, attendanceID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrAttendanceNotPending
	}

	return nil
}

func (r *repository) ListPendingAttendance(ctx context.Context) ([]SessionAttendance, error) {
	var records []SessionAttendance
	err := r.db.SelectContext(ctx, &records, `
		SELECT `+attendanceColumns+`
		FROM pt_session_attendance
		WHERE status = 'pending'
		ORDER BY created_at ASC
	`)
	return records, err
}
