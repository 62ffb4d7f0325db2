package db

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExists(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()
	sqlxDB := sqlx.NewDb(mockDB, "sqlmock")

	query := "SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)"

	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(regexp.QuoteMeta(query)).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}))

	ok, err := Exists(context.Background(), sqlxDB, query, int64(1))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Exists(context.Background(), sqlxDB, query, int64(2))
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, mock.ExpectationsWereMet())
}
