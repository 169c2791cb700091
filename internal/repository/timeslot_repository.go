package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campusforge/ttcore/internal/domain"
)

// TimeslotRepository provides persistence for timeslot records. Slots
// are seeded once per institution calendar and rarely mutated
// afterward, so this repository is read-heavy by design.
type TimeslotRepository struct {
	db *sqlx.DB
}

// NewTimeslotRepository creates a new timeslot repository.
func NewTimeslotRepository(db *sqlx.DB) *TimeslotRepository {
	return &TimeslotRepository{db: db}
}

// ListTimeslots returns every timeslot, ordered by day then start time
// so callers can rely on adjacency scanning without re-sorting.
func (r *TimeslotRepository) ListTimeslots(ctx context.Context) ([]domain.Timeslot, error) {
	const query = `SELECT id, day, start_time, end_time, created_at FROM timeslots ORDER BY day ASC, start_time ASC`
	var slots []domain.Timeslot
	if err := r.db.SelectContext(ctx, &slots, query); err != nil {
		return nil, fmt.Errorf("list timeslots: %w", err)
	}
	return slots, nil
}

// BulkCreate inserts many timeslot records within a transaction.
func (r *TimeslotRepository) BulkCreate(ctx context.Context, slots []domain.Timeslot) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin bulk create timeslots: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = r.BulkCreateWithTx(ctx, tx, slots); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit bulk create timeslots: %w", err)
	}
	return nil
}

// BulkCreateWithTx inserts timeslot records using an existing transaction.
func (r *TimeslotRepository) BulkCreateWithTx(ctx context.Context, exec sqlx.ExtContext, slots []domain.Timeslot) error {
	now := time.Now().UTC()
	for i := range slots {
		payload := slots[i]
		if payload.ID == "" {
			payload.ID = uuid.NewString()
		}
		if payload.CreatedAt.IsZero() {
			payload.CreatedAt = now
		}

		if _, err := sqlx.NamedExecContext(ctx, exec, `INSERT INTO timeslots (id, day, start_time, end_time, created_at) VALUES (:id, :day, :start_time, :end_time, :created_at)`, &payload); err != nil {
			return fmt.Errorf("bulk insert timeslot: %w", err)
		}
		slots[i] = payload
	}
	return nil
}

// Delete removes a timeslot record by id.
func (r *TimeslotRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM timeslots WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete timeslot: %w", err)
	}
	return nil
}
