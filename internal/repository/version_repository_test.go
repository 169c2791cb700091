package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusforge/ttcore/internal/domain"
)

func TestVersionRepositoryNextVersionNumber(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewVersionRepository(db)

	rows := sqlmock.NewRows([]string{"coalesce"}).AddRow(4)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(MAX(version_number), 0) + 1 FROM timetable_versions")).
		WillReturnRows(rows)

	next, err := repo.NextVersionNumber(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, next)
}

func TestVersionRepositoryCreateDefaultsStatusToDraft(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewVersionRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO timetable_versions")).
		WithArgs(sqlmock.AnyArg(), 4, domain.TimetableVersionStatusDraft, []byte("{}"), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	tx, err := db.BeginTxx(context.Background(), nil)
	require.NoError(t, err)

	version := &domain.TimetableVersion{VersionNumber: 4, Snapshot: []byte("{}")}
	require.NoError(t, repo.Create(context.Background(), tx, version))
	assert.Equal(t, domain.TimetableVersionStatusDraft, version.Status)
	require.NoError(t, tx.Commit())
}
