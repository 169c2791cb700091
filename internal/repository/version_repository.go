package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campusforge/ttcore/internal/domain"
)

// VersionRepository provides persistence for the append-only
// TimetableVersion snapshot history.
type VersionRepository struct {
	db *sqlx.DB
}

// NewVersionRepository creates a new version repository.
func NewVersionRepository(db *sqlx.DB) *VersionRepository {
	return &VersionRepository{db: db}
}

// NextVersionNumber returns one past the highest version number
// recorded so far, starting at 1 when the table is empty.
func (r *VersionRepository) NextVersionNumber(ctx context.Context) (int, error) {
	const query = `SELECT COALESCE(MAX(version_number), 0) + 1 FROM timetable_versions`
	var next int
	if err := r.db.GetContext(ctx, &next, query); err != nil {
		return 0, fmt.Errorf("next version number: %w", err)
	}
	return next, nil
}

// Create inserts a new version snapshot using the caller's transaction
// so it commits atomically with the assignment rows it describes.
func (r *VersionRepository) Create(ctx context.Context, exec sqlx.ExtContext, version *domain.TimetableVersion) error {
	if version.ID == "" {
		version.ID = uuid.NewString()
	}
	if version.CreatedAt.IsZero() {
		version.CreatedAt = time.Now().UTC()
	}
	if version.Status == "" {
		version.Status = domain.TimetableVersionStatusDraft
	}

	const query = `INSERT INTO timetable_versions (id, version_number, status, snapshot, created_at) VALUES (:id, :version_number, :status, :snapshot, :created_at)`
	if _, err := sqlx.NamedExecContext(ctx, exec, query, version); err != nil {
		return fmt.Errorf("create timetable version: %w", err)
	}
	return nil
}

// FindLatest returns the version with the highest version number,
// whatever its status.
func (r *VersionRepository) FindLatest(ctx context.Context) (*domain.TimetableVersion, error) {
	const query = `SELECT id, version_number, status, snapshot, created_at FROM timetable_versions ORDER BY version_number DESC LIMIT 1`
	var version domain.TimetableVersion
	if err := r.db.GetContext(ctx, &version, query); err != nil {
		return nil, err
	}
	return &version, nil
}

// FindByVersionNumber loads a specific historical snapshot.
func (r *VersionRepository) FindByVersionNumber(ctx context.Context, versionNumber int) (*domain.TimetableVersion, error) {
	const query = `SELECT id, version_number, status, snapshot, created_at FROM timetable_versions WHERE version_number = $1`
	var version domain.TimetableVersion
	if err := r.db.GetContext(ctx, &version, query, versionNumber); err != nil {
		return nil, err
	}
	return &version, nil
}

// Publish marks a version as the published one, matching the teacher's
// status-transition update style.
func (r *VersionRepository) Publish(ctx context.Context, id string) error {
	const query = `UPDATE timetable_versions SET status = $1 WHERE id = $2`
	if _, err := r.db.ExecContext(ctx, query, domain.TimetableVersionStatusPublished, id); err != nil {
		return fmt.Errorf("publish timetable version: %w", err)
	}
	return nil
}
