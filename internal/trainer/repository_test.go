package trainer

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func setupMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	closer := func() {
		sqlxDB.Close()
	}

	return repo, mock, closer
}

func TestSetBookingStatusTransitions(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE pt_bookings SET status = $1 WHERE id = $2 AND status = $3")).
		WithArgs("confirmed", 4, "pending").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SetBookingStatus(context.Background(), 4, PtBookingStatusPending, PtBookingStatusConfirmed)
	require.NoError(t, err)

	// already moved out of pending
	mock.ExpectExec(regexp.QuoteMeta("UPDATE pt_bookings SET status = $1 WHERE id = $2 AND status = $3")).
		WithArgs("confirmed", 4, "pending").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.SetBookingStatus(context.Background(), 4, PtBookingStatusPending, PtBookingStatusConfirmed)
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestConfirmAttendanceDecrementsPackage(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE pt_session_attendance SET status = 'confirmed' WHERE id = $1 AND status = 'pending'")).
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE pt_session_packages SET remaining_sessions = remaining_sessions - 1, status = CASE WHEN remaining_sessions - 1 <= 0 THEN 'completed' ELSE status END WHERE id = (SELECT package_id FROM pt_session_attendance WHERE id = $1) AND remaining_sessions > 0 RETURNING id, user_id, trainer_id, total_sessions, remaining_sessions, status, created_at")).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "trainer_id", "total_sessions", "remaining_sessions", "status", "created_at"}).
			AddRow(8, 1, 2, 10, 0, "completed", now))
	mock.ExpectCommit()

	p, err := repo.ConfirmAttendance(context.Background(), 3)
	require.NoError(t, err)
	require.Equal(t, 0, p.RemainingSessions)
	require.Equal(t, PackageStatusCompleted, p.Status)
}

func TestConfirmAttendanceNotPending(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE pt_session_attendance SET status = 'confirmed' WHERE id = $1 AND status = 'pending'")).
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.ConfirmAttendance(context.Background(), 3)
	require.ErrorIs(t, err, ErrAttendanceNotPending)
}

func TestConfirmAttendanceNoSessionsLeft(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE pt_session_attendance SET status = 'confirmed' WHERE id = $1 AND status = 'pending'")).
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE pt_session_packages SET remaining_sessions = remaining_sessions - 1, status = CASE WHEN remaining_sessions - 1 <= 0 THEN 'completed' ELSE status END WHERE id = (SELECT package_id FROM pt_session_attendance WHERE id = $1) AND remaining_sessions > 0 RETURNING id, user_id, trainer_id, total_sessions, remaining_sessions, status, created_at")).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := repo.ConfirmAttendance(context.Background(), 3)
	require.ErrorIs(t, err, ErrNoSessionsRemaining)
}
