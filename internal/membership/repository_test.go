package membership

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

func TestAssignReplacesActiveMembership(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	start := time.Now()
	end := start.AddDate(0, 1, 0)

	mock.ExpectBegin()
	// the old active membership is cancelled inside the same transaction
	mock.ExpectExec(regexp.QuoteMeta("UPDATE memberships SET status = 'cancelled' WHERE user_id = $1 AND status = 'active'")).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO memberships (user_id, plan_id, start_date, end_date, status, auto_renew) VALUES ($1, $2, $3, $4, 'active', $5) RETURNING id, user_id, plan_id, start_date, end_date, status, auto_renew, created_at")).
		WithArgs(7, 2, start, end, false).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "plan_id", "start_date", "end_date", "status", "auto_renew", "created_at"}).
			AddRow(5, 7, 2, start, end, "active", false, start))
	mock.ExpectCommit()

	m, err := repo.Assign(context.Background(), 7, 2, start, end, false)
	require.NoError(t, err)
	require.Equal(t, 5, m.ID)
	require.Equal(t, StatusActive, m.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignRollsBackOnInsertFailure(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	start := time.Now()
	end := start.AddDate(0, 1, 0)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE memberships SET status = 'cancelled' WHERE user_id = $1 AND status = 'active'")).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO memberships")).
		WillReturnError(context.DeadlineExceeded)
	mock.ExpectRollback()

	_, err := repo.Assign(context.Background(), 7, 2, start, end, false)
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelAlreadyCancelled(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE memberships SET status = 'cancelled' WHERE id = $1 AND status = 'active'")).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Cancel(context.Background(), 5)
	require.ErrorIs(t, err, ErrMembershipAlreadyCancelled)
}

func TestHasActive(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS( SELECT 1 FROM memberships WHERE user_id = $1 AND status = 'active' AND end_date >= NOW() )")).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.HasActive(context.Background(), 7)
	require.NoError(t, err)
	require.True(t, ok)
}
