package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campusforge/ttcore/internal/domain"
)

// AssignmentRepository provides persistence for scheduled assignments,
// the solver's output rows. Writes always run inside the caller's
// transaction (see BulkInsert/DeleteAll), mirroring the teacher's
// ScheduleRepository.BulkCreateWithTx split between a *sqlx.DB entry
// point and an sqlx.ExtContext-based worker so the orchestrator can
// share one transaction across delete, insert, and snapshot create.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository creates a new assignment repository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// DeleteByRequirementIDs removes assignments for a specific set of
// requirements. Unused by the current orchestrator (full and partial
// regeneration both replace the complete table), kept for repair
// flows and targeted maintenance.
func (r *AssignmentRepository) DeleteByRequirementIDs(ctx context.Context, exec sqlx.ExtContext, requirementIDs []string) error {
	if len(requirementIDs) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM scheduled_assignments WHERE requirement_id IN (?)`, requirementIDs)
	if err != nil {
		return fmt.Errorf("build delete by requirement ids: %w", err)
	}
	query = exec.Rebind(query)
	if _, err := exec.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete assignments by requirement ids: %w", err)
	}
	return nil
}

// DeleteAll removes every scheduled assignment.
func (r *AssignmentRepository) DeleteAll(ctx context.Context, exec sqlx.ExtContext) error {
	if _, err := exec.ExecContext(ctx, `DELETE FROM scheduled_assignments`); err != nil {
		return fmt.Errorf("delete all assignments: %w", err)
	}
	return nil
}

// BulkInsert inserts assignment rows using the caller's transaction.
func (r *AssignmentRepository) BulkInsert(ctx context.Context, exec sqlx.ExtContext, assignments []domain.ScheduledAssignment) error {
	now := time.Now().UTC()
	for i := range assignments {
		payload := assignments[i]
		if payload.ID == "" {
			payload.ID = uuid.NewString()
		}
		if payload.CreatedAt.IsZero() {
			payload.CreatedAt = now
		}

		if _, err := sqlx.NamedExecContext(ctx, exec, `INSERT INTO scheduled_assignments (id, requirement_id, period_index, room_id, slot_id, version_id, created_at) VALUES (:id, :requirement_id, :period_index, :room_id, :slot_id, :version_id, :created_at)`, &payload); err != nil {
			return fmt.Errorf("bulk insert assignment: %w", err)
		}
		assignments[i] = payload
	}
	return nil
}

// ListByRequirementIDs returns the assignments belonging to the given
// requirements, ordered by id.
func (r *AssignmentRepository) ListByRequirementIDs(ctx context.Context, requirementIDs []string) ([]domain.ScheduledAssignment, error) {
	if len(requirementIDs) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(`SELECT id, requirement_id, period_index, room_id, slot_id, version_id, created_at FROM scheduled_assignments WHERE requirement_id IN (?) ORDER BY id ASC`, requirementIDs)
	if err != nil {
		return nil, fmt.Errorf("build list by requirement ids: %w", err)
	}
	query = r.db.Rebind(query)
	var assignments []domain.ScheduledAssignment
	if err := r.db.SelectContext(ctx, &assignments, query, args...); err != nil {
		return nil, fmt.Errorf("list assignments by requirement ids: %w", err)
	}
	return assignments, nil
}

// ListAll returns the current scheduled assignment table.
func (r *AssignmentRepository) ListAll(ctx context.Context) ([]domain.ScheduledAssignment, error) {
	const query = `SELECT id, requirement_id, period_index, room_id, slot_id, version_id, created_at FROM scheduled_assignments ORDER BY id ASC`
	var assignments []domain.ScheduledAssignment
	if err := r.db.SelectContext(ctx, &assignments, query); err != nil {
		return nil, fmt.Errorf("list all assignments: %w", err)
	}
	return assignments, nil
}

// UpdatePlacement rewrites the room/slot of one existing assignment,
// used by the repair engine to persist a re-solved placement without
// disturbing the assignment's id or requirement linkage.
func (r *AssignmentRepository) UpdatePlacement(ctx context.Context, exec sqlx.ExtContext, id, roomID, slotID string) error {
	const query = `UPDATE scheduled_assignments SET room_id = $1, slot_id = $2 WHERE id = $3`
	if _, err := exec.ExecContext(ctx, query, roomID, slotID, id); err != nil {
		return fmt.Errorf("update assignment placement: %w", err)
	}
	return nil
}

// ListBySectionCode returns assignments whose requirement belongs to
// the given section code, joined through requirements and sections —
// used to answer per-section timetable lookups without re-deriving
// the snapshot.
func (r *AssignmentRepository) ListBySectionCode(ctx context.Context, sectionCode string) ([]domain.ScheduledAssignment, error) {
	const query = `
		SELECT a.id, a.requirement_id, a.period_index, a.room_id, a.slot_id, a.version_id, a.created_at
		FROM scheduled_assignments a
		JOIN requirements req ON req.id = a.requirement_id
		JOIN sections s ON s.id = req.section_id
		WHERE s.code = $1
		ORDER BY a.id ASC`
	var assignments []domain.ScheduledAssignment
	if err := r.db.SelectContext(ctx, &assignments, query, sectionCode); err != nil {
		return nil, fmt.Errorf("list assignments by section code: %w", err)
	}
	return assignments, nil
}
