package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campusforge/ttcore/internal/domain"
)

// RoomRepository provides persistence for room records.
type RoomRepository struct {
	db *sqlx.DB
}

// NewRoomRepository creates a new room repository.
func NewRoomRepository(db *sqlx.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// ListRooms returns every room record.
func (r *RoomRepository) ListRooms(ctx context.Context) ([]domain.Room, error) {
	const query = `SELECT id, code, capacity, kind, created_at, updated_at FROM rooms ORDER BY code ASC`
	var rooms []domain.Room
	if err := r.db.SelectContext(ctx, &rooms, query); err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return rooms, nil
}

// FindByID loads a room record by id.
func (r *RoomRepository) FindByID(ctx context.Context, id string) (*domain.Room, error) {
	const query = `SELECT id, code, capacity, kind, created_at, updated_at FROM rooms WHERE id = $1`
	var room domain.Room
	if err := r.db.GetContext(ctx, &room, query, id); err != nil {
		return nil, err
	}
	return &room, nil
}

// Create stores a new room record.
func (r *RoomRepository) Create(ctx context.Context, room *domain.Room) error {
	if room.ID == "" {
		room.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if room.CreatedAt.IsZero() {
		room.CreatedAt = now
	}
	room.UpdatedAt = now

	const query = `INSERT INTO rooms (id, code, capacity, kind, created_at, updated_at) VALUES (:id, :code, :capacity, :kind, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, room); err != nil {
		return fmt.Errorf("create room: %w", err)
	}
	return nil
}

// BulkCreate inserts many room records within a transaction.
func (r *RoomRepository) BulkCreate(ctx context.Context, rooms []domain.Room) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin bulk create rooms: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = r.BulkCreateWithTx(ctx, tx, rooms); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit bulk create rooms: %w", err)
	}
	return nil
}

// BulkCreateWithTx inserts room records using an existing transaction.
func (r *RoomRepository) BulkCreateWithTx(ctx context.Context, exec sqlx.ExtContext, rooms []domain.Room) error {
	now := time.Now().UTC()
	for i := range rooms {
		payload := rooms[i]
		if payload.ID == "" {
			payload.ID = uuid.NewString()
		}
		if payload.CreatedAt.IsZero() {
			payload.CreatedAt = now
		}
		payload.UpdatedAt = now

		if _, err := sqlx.NamedExecContext(ctx, exec, `INSERT INTO rooms (id, code, capacity, kind, created_at, updated_at) VALUES (:id, :code, :capacity, :kind, :created_at, :updated_at)`, &payload); err != nil {
			return fmt.Errorf("bulk insert room: %w", err)
		}
		rooms[i] = payload
	}
	return nil
}

// Update modifies a room record.
func (r *RoomRepository) Update(ctx context.Context, room *domain.Room) error {
	room.UpdatedAt = time.Now().UTC()
	const query = `UPDATE rooms SET code = :code, capacity = :capacity, kind = :kind, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, room); err != nil {
		return fmt.Errorf("update room: %w", err)
	}
	return nil
}

// Delete removes a room record by id.
func (r *RoomRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM rooms WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete room: %w", err)
	}
	return nil
}
