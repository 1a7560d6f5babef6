package db

import (
	"context"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/api"
)

func setupMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	db := sqlx.NewDb(raw, "sqlmock")
	t.Cleanup(func() { db.Close() })
	return db, mock
}

const emailExistsQuery = `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`

func TestExists(t *testing.T) {
	db, mock := setupMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(emailExistsQuery)).
		WithArgs("jo@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := Exists(context.Background(), db, emailExistsQuery, "jo@example.com")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExistsNoRowsMeansFalse(t *testing.T) {
	db, mock := setupMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(emailExistsQuery)).
		WithArgs("jo@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}))

	ok, err := Exists(context.Background(), db, emailExistsQuery, "jo@example.com")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIsUnavailable(t *testing.T) {
	assert.True(t, IsUnavailable(driver.ErrBadConn))
	assert.True(t, IsUnavailable(&pq.Error{Code: "08006"}))
	assert.False(t, IsUnavailable(&pq.Error{Code: "23505"}))
	assert.False(t, IsUnavailable(errors.New("syntax error")))
	assert.False(t, IsUnavailable(nil))
}

func TestStoreErrorClassifies(t *testing.T) {
	var appErr *api.Error

	require.ErrorAs(t, StoreError(driver.ErrBadConn, "boom"), &appErr)
	assert.Equal(t, api.KindUnavailable, appErr.Kind)

	require.ErrorAs(t, StoreError(errors.New("syntax error"), "boom"), &appErr)
	assert.Equal(t, api.KindInternal, appErr.Kind)
}
