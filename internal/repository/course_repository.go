package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campusforge/ttcore/internal/domain"
)

// CourseRepository provides persistence for course records.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository creates a new course repository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

const courseColumns = `id, code, name, kind, credits, required_room_kind, created_at, updated_at`

// ListCourses returns every course record.
func (r *CourseRepository) ListCourses(ctx context.Context) ([]domain.Course, error) {
	query := fmt.Sprintf(`SELECT %s FROM courses ORDER BY code ASC`, courseColumns)
	var courses []domain.Course
	if err := r.db.SelectContext(ctx, &courses, query); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// FindByID loads a course record by id.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*domain.Course, error) {
	query := fmt.Sprintf(`SELECT %s FROM courses WHERE id = $1`, courseColumns)
	var course domain.Course
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		return nil, err
	}
	return &course, nil
}

// Create stores a new course record.
func (r *CourseRepository) Create(ctx context.Context, course *domain.Course) error {
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if course.CreatedAt.IsZero() {
		course.CreatedAt = now
	}
	course.UpdatedAt = now

	const query = `INSERT INTO courses (id, code, name, kind, credits, required_room_kind, created_at, updated_at) VALUES (:id, :code, :name, :kind, :credits, :required_room_kind, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

// BulkCreate inserts many course records within a transaction.
func (r *CourseRepository) BulkCreate(ctx context.Context, courses []domain.Course) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin bulk create courses: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = r.BulkCreateWithTx(ctx, tx, courses); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit bulk create courses: %w", err)
	}
	return nil
}

// BulkCreateWithTx inserts course records using an existing transaction.
func (r *CourseRepository) BulkCreateWithTx(ctx context.Context, exec sqlx.ExtContext, courses []domain.Course) error {
	now := time.Now().UTC()
	for i := range courses {
		payload := courses[i]
		if payload.ID == "" {
			payload.ID = uuid.NewString()
		}
		if payload.CreatedAt.IsZero() {
			payload.CreatedAt = now
		}
		payload.UpdatedAt = now

		if _, err := sqlx.NamedExecContext(ctx, exec, `INSERT INTO courses (id, code, name, kind, credits, required_room_kind, created_at, updated_at) VALUES (:id, :code, :name, :kind, :credits, :required_room_kind, :created_at, :updated_at)`, &payload); err != nil {
			return fmt.Errorf("bulk insert course: %w", err)
		}
		courses[i] = payload
	}
	return nil
}

// Update modifies a course record.
func (r *CourseRepository) Update(ctx context.Context, course *domain.Course) error {
	course.UpdatedAt = time.Now().UTC()
	const query = `UPDATE courses SET code = :code, name = :name, kind = :kind, credits = :credits, required_room_kind = :required_room_kind, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		return fmt.Errorf("update course: %w", err)
	}
	return nil
}

// Delete removes a course record by id.
func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	return nil
}
