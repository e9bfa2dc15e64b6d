package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYearEnsureCurrentFirstBoot(t *testing.T) {
	db, mock := newMock(t)
	repo := NewYearRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT year FROM years WHERE is_current=1").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec("INSERT INTO years").
		WithArgs(2026).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.EnsureCurrent(context.Background(), 2026))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestYearEnsureCurrentAlreadyCurrent(t *testing.T) {
	db, mock := newMock(t)
	repo := NewYearRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT year FROM years WHERE is_current=1").
		WillReturnRows(sqlmock.NewRows([]string{"year"}).AddRow(2026))
	mock.ExpectCommit()

	require.NoError(t, repo.EnsureCurrent(context.Background(), 2026))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestYearEnsureCurrentRotatesStaleYear(t *testing.T) {
	db, mock := newMock(t)
	repo := NewYearRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT year FROM years WHERE is_current=1").
		WillReturnRows(sqlmock.NewRows([]string{"year"}).AddRow(2025))
	mock.ExpectExec("UPDATE years SET is_current=0 WHERE is_current=1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO years").
		WithArgs(2026).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.EnsureCurrent(context.Background(), 2026))
	assert.NoError(t, mock.ExpectationsWereMet())
}
