package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusforge/ttcore/internal/domain"
)

var nowFixture = time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "postgres")
	cleanup := func() {
		_ = sqlxDB.Close()
		db.Close()
	}
	return sqlxDB, mock, cleanup
}

func TestFacultyRepositoryListFaculty(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewFacultyRepository(db)

	rows := sqlmock.NewRows([]string{"id", "code", "name", "email", "created_at", "updated_at"}).
		AddRow("f1", "F001", "Dr. Smith", "smith@univ.edu", nowFixture, nowFixture)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, code, name, email, created_at, updated_at FROM faculty ORDER BY code ASC")).
		WillReturnRows(rows)

	faculty, err := repo.ListFaculty(context.Background())
	require.NoError(t, err)
	require.Len(t, faculty, 1)
	assert.Equal(t, "F001", faculty[0].Code)
}

func TestFacultyRepositoryBulkCreateWithTx(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewFacultyRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO faculty")).
		WithArgs(sqlmock.AnyArg(), "F001", "Dr. Smith", "smith@univ.edu", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.BulkCreate(context.Background(), []domain.Faculty{
		{Code: "F001", Name: "Dr. Smith", Email: "smith@univ.edu"},
	})
	require.NoError(t, err)
}
