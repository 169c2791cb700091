package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campusforge/ttcore/internal/domain"
)

// RequirementRepository provides persistence for requirement records —
// the faculty/course/section contracts the solver expands into
// placements.
type RequirementRepository struct {
	db *sqlx.DB
}

// NewRequirementRepository creates a new requirement repository.
func NewRequirementRepository(db *sqlx.DB) *RequirementRepository {
	return &RequirementRepository{db: db}
}

// ListRequirements returns every requirement record.
func (r *RequirementRepository) ListRequirements(ctx context.Context) ([]domain.Requirement, error) {
	const query = `SELECT id, section_id, course_id, faculty_id, created_at FROM requirements ORDER BY id ASC`
	var requirements []domain.Requirement
	if err := r.db.SelectContext(ctx, &requirements, query); err != nil {
		return nil, fmt.Errorf("list requirements: %w", err)
	}
	return requirements, nil
}

// FindByID loads a requirement record by id.
func (r *RequirementRepository) FindByID(ctx context.Context, id string) (*domain.Requirement, error) {
	const query = `SELECT id, section_id, course_id, faculty_id, created_at FROM requirements WHERE id = $1`
	var requirement domain.Requirement
	if err := r.db.GetContext(ctx, &requirement, query, id); err != nil {
		return nil, err
	}
	return &requirement, nil
}

// Create stores a new requirement record.
func (r *RequirementRepository) Create(ctx context.Context, requirement *domain.Requirement) error {
	if requirement.ID == "" {
		requirement.ID = uuid.NewString()
	}
	if requirement.CreatedAt.IsZero() {
		requirement.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO requirements (id, section_id, course_id, faculty_id, created_at) VALUES (:id, :section_id, :course_id, :faculty_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, requirement); err != nil {
		return fmt.Errorf("create requirement: %w", err)
	}
	return nil
}

// BulkCreate inserts many requirement records within a transaction.
func (r *RequirementRepository) BulkCreate(ctx context.Context, requirements []domain.Requirement) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin bulk create requirements: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = r.BulkCreateWithTx(ctx, tx, requirements); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit bulk create requirements: %w", err)
	}
	return nil
}

// BulkCreateWithTx inserts requirement records using an existing transaction.
func (r *RequirementRepository) BulkCreateWithTx(ctx context.Context, exec sqlx.ExtContext, requirements []domain.Requirement) error {
	now := time.Now().UTC()
	for i := range requirements {
		payload := requirements[i]
		if payload.ID == "" {
			payload.ID = uuid.NewString()
		}
		if payload.CreatedAt.IsZero() {
			payload.CreatedAt = now
		}

		if _, err := sqlx.NamedExecContext(ctx, exec, `INSERT INTO requirements (id, section_id, course_id, faculty_id, created_at) VALUES (:id, :section_id, :course_id, :faculty_id, :created_at)`, &payload); err != nil {
			return fmt.Errorf("bulk insert requirement: %w", err)
		}
		requirements[i] = payload
	}
	return nil
}

// Delete removes a requirement record by id.
func (r *RequirementRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM requirements WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete requirement: %w", err)
	}
	return nil
}
