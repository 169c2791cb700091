package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campusforge/ttcore/internal/domain"
)

// SectionRepository provides persistence for section records.
type SectionRepository struct {
	db *sqlx.DB
}

// NewSectionRepository creates a new section repository.
func NewSectionRepository(db *sqlx.DB) *SectionRepository {
	return &SectionRepository{db: db}
}

// ListSections returns every section record.
func (r *SectionRepository) ListSections(ctx context.Context) ([]domain.Section, error) {
	const query = `SELECT id, code, student_count, shift, created_at, updated_at FROM sections ORDER BY code ASC`
	var sections []domain.Section
	if err := r.db.SelectContext(ctx, &sections, query); err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	return sections, nil
}

// FindByID loads a section record by id.
func (r *SectionRepository) FindByID(ctx context.Context, id string) (*domain.Section, error) {
	const query = `SELECT id, code, student_count, shift, created_at, updated_at FROM sections WHERE id = $1`
	var section domain.Section
	if err := r.db.GetContext(ctx, &section, query, id); err != nil {
		return nil, err
	}
	return &section, nil
}

// Create stores a new section record.
func (r *SectionRepository) Create(ctx context.Context, section *domain.Section) error {
	if section.ID == "" {
		section.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if section.CreatedAt.IsZero() {
		section.CreatedAt = now
	}
	section.UpdatedAt = now

	const query = `INSERT INTO sections (id, code, student_count, shift, created_at, updated_at) VALUES (:id, :code, :student_count, :shift, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, section); err != nil {
		return fmt.Errorf("create section: %w", err)
	}
	return nil
}

// BulkCreate inserts many section records within a transaction.
func (r *SectionRepository) BulkCreate(ctx context.Context, sections []domain.Section) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin bulk create sections: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = r.BulkCreateWithTx(ctx, tx, sections); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit bulk create sections: %w", err)
	}
	return nil
}

// BulkCreateWithTx inserts section records using an existing transaction.
func (r *SectionRepository) BulkCreateWithTx(ctx context.Context, exec sqlx.ExtContext, sections []domain.Section) error {
	now := time.Now().UTC()
	for i := range sections {
		payload := sections[i]
		if payload.ID == "" {
			payload.ID = uuid.NewString()
		}
		if payload.CreatedAt.IsZero() {
			payload.CreatedAt = now
		}
		payload.UpdatedAt = now

		if _, err := sqlx.NamedExecContext(ctx, exec, `INSERT INTO sections (id, code, student_count, shift, created_at, updated_at) VALUES (:id, :code, :student_count, :shift, :created_at, :updated_at)`, &payload); err != nil {
			return fmt.Errorf("bulk insert section: %w", err)
		}
		sections[i] = payload
	}
	return nil
}

// Update modifies a section record.
func (r *SectionRepository) Update(ctx context.Context, section *domain.Section) error {
	section.UpdatedAt = time.Now().UTC()
	const query = `UPDATE sections SET code = :code, student_count = :student_count, shift = :shift, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, section); err != nil {
		return fmt.Errorf("update section: %w", err)
	}
	return nil
}

// Delete removes a section record by id.
func (r *SectionRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sections WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete section: %w", err)
	}
	return nil
}
