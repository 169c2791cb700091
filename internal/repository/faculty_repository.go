package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campusforge/ttcore/internal/domain"
)

// FacultyRepository provides persistence for faculty records.
type FacultyRepository struct {
	db *sqlx.DB
}

// NewFacultyRepository creates a new faculty repository.
func NewFacultyRepository(db *sqlx.DB) *FacultyRepository {
	return &FacultyRepository{db: db}
}

// ListFaculty returns every faculty record.
func (r *FacultyRepository) ListFaculty(ctx context.Context) ([]domain.Faculty, error) {
	const query = `SELECT id, code, name, email, created_at, updated_at FROM faculty ORDER BY code ASC`
	var faculty []domain.Faculty
	if err := r.db.SelectContext(ctx, &faculty, query); err != nil {
		return nil, fmt.Errorf("list faculty: %w", err)
	}
	return faculty, nil
}

// FindByID loads a faculty record by id.
func (r *FacultyRepository) FindByID(ctx context.Context, id string) (*domain.Faculty, error) {
	const query = `SELECT id, code, name, email, created_at, updated_at FROM faculty WHERE id = $1`
	var faculty domain.Faculty
	if err := r.db.GetContext(ctx, &faculty, query, id); err != nil {
		return nil, err
	}
	return &faculty, nil
}

// Create stores a new faculty record.
func (r *FacultyRepository) Create(ctx context.Context, faculty *domain.Faculty) error {
	if faculty.ID == "" {
		faculty.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if faculty.CreatedAt.IsZero() {
		faculty.CreatedAt = now
	}
	faculty.UpdatedAt = now

	const query = `INSERT INTO faculty (id, code, name, email, created_at, updated_at) VALUES (:id, :code, :name, :email, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, faculty); err != nil {
		return fmt.Errorf("create faculty: %w", err)
	}
	return nil
}

// BulkCreate inserts many faculty records within a transaction.
func (r *FacultyRepository) BulkCreate(ctx context.Context, faculty []domain.Faculty) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin bulk create faculty: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = r.BulkCreateWithTx(ctx, tx, faculty); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit bulk create faculty: %w", err)
	}
	return nil
}

// BulkCreateWithTx inserts faculty records using an existing transaction.
func (r *FacultyRepository) BulkCreateWithTx(ctx context.Context, exec sqlx.ExtContext, faculty []domain.Faculty) error {
	now := time.Now().UTC()
	for i := range faculty {
		payload := faculty[i]
		if payload.ID == "" {
			payload.ID = uuid.NewString()
		}
		if payload.CreatedAt.IsZero() {
			payload.CreatedAt = now
		}
		payload.UpdatedAt = now

		if _, err := sqlx.NamedExecContext(ctx, exec, `INSERT INTO faculty (id, code, name, email, created_at, updated_at) VALUES (:id, :code, :name, :email, :created_at, :updated_at)`, &payload); err != nil {
			return fmt.Errorf("bulk insert faculty: %w", err)
		}
		faculty[i] = payload
	}
	return nil
}

// Update modifies a faculty record.
func (r *FacultyRepository) Update(ctx context.Context, faculty *domain.Faculty) error {
	faculty.UpdatedAt = time.Now().UTC()
	const query = `UPDATE faculty SET code = :code, name = :name, email = :email, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, faculty); err != nil {
		return fmt.Errorf("update faculty: %w", err)
	}
	return nil
}

// Delete removes a faculty record by id.
func (r *FacultyRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM faculty WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete faculty: %w", err)
	}
	return nil
}
