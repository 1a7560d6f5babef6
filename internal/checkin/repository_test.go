package checkin

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

func TestCreateAndGetQR(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	now := time.Now()
	expires := now.Add(QRValidity)
	qrRows := []string{"id", "user_id", "code", "status", "expires_at", "used_at", "created_at"}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO one_time_qr_codes (user_id, code, status, expires_at) VALUES ($1, $2, 'valid', $3) RETURNING id, user_id, code, status, expires_at, used_at, created_at")).
		WithArgs(1, "abc", expires).
		WillReturnRows(sqlmock.NewRows(qrRows).AddRow(10, 1, "abc", "valid", expires, nil, now))

	qr, err := repo.CreateQR(context.Background(), 1, "abc", expires)
	require.NoError(t, err)
	require.Equal(t, 10, qr.ID)
	require.Equal(t, QRStatusValid, qr.Status)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, code, status, expires_at, used_at, created_at FROM one_time_qr_codes WHERE code = $1")).
		WithArgs("abc").
		WillReturnRows(sqlmock.NewRows(qrRows).AddRow(10, 1, "abc", "valid", expires, nil, now))

	got, err := repo.GetQRByCode(context.Background(), "abc")
	require.NoError(t, err)
	require.Equal(t, 10, got.ID)
}

func TestGetQRByCodeNotFound(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, code, status, expires_at, used_at, created_at FROM one_time_qr_codes WHERE code = $1")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetQRByCode(context.Background(), "missing")
	require.ErrorIs(t, err, ErrQRNotFound)
}

func TestMarkUsed(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	// first redeemer wins
	mock.ExpectExec(regexp.QuoteMeta("UPDATE one_time_qr_codes SET status = 'used', used_at = NOW() WHERE code = $1 AND status = 'valid'")).
		WithArgs("abc").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.MarkUsed(context.Background(), "abc")
	require.NoError(t, err)

	// second redeemer matches zero rows
	mock.ExpectExec(regexp.QuoteMeta("UPDATE one_time_qr_codes SET status = 'used', used_at = NOW() WHERE code = $1 AND status = 'valid'")).
		WithArgs("abc").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.MarkUsed(context.Background(), "abc")
	require.ErrorIs(t, err, ErrQRAlreadyUsed)
}

func TestCompleteAlreadyCheckedOut(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE check_ins SET status = 'completed', check_out_time = NOW() WHERE id = $1 AND status = 'active'")).
		WithArgs(4).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Complete(context.Background(), 4)
	require.ErrorIs(t, err, ErrAlreadyCheckedOut)
}

func TestCompleteStale(t *testing.T) {
	repo, mock, close := setupMock(t)
	defer close()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE check_ins SET status = 'completed', check_out_time = NOW() WHERE status = 'active' AND check_in_time < $1")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.CompleteStale(context.Background(), 12*time.Hour)
	require.NoError(t, err)
	require.Equal(t, int64(3), n)
}
