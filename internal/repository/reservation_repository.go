package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// MemoryReservationRepo archives finished reservations in memory.
type MemoryReservationRepo struct {
	mu    sync.RWMutex
	items map[string]model.Reservation
}

// NewMemoryReservationRepo returns an empty archive.
func NewMemoryReservationRepo() *MemoryReservationRepo {
	return &MemoryReservationRepo{items: map[string]model.Reservation{}}
}

// Save inserts or replaces the reservation with the same id.
func (r *MemoryReservationRepo) Save(ctx context.Context, res model.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[res.ID] = res
	return nil
}

// GetByID returns an archived reservation or ErrReservationNotFound.
func (r *MemoryReservationRepo) GetByID(ctx context.Context, id string) (model.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res, ok := r.items[id]
	if !ok {
		return model.Reservation{}, ErrReservationNotFound
	}
	return res, nil
}

// MySQLReservationRepo archives finished reservations in the reservations
// table.  All timestamps are stored in UTC.
type MySQLReservationRepo struct {
	db *sqlx.DB
}

// NewMySQLReservationRepo returns a MySQLReservationRepo bound to db.
func NewMySQLReservationRepo(db *sqlx.DB) *MySQLReservationRepo {
	return &MySQLReservationRepo{db: db}
}

// Save upserts the reservation.  Only the status and user may change
// once a row exists.
func (r *MySQLReservationRepo) Save(ctx context.Context, res model.Reservation) error {
	const q = `
        INSERT INTO reservations
            (id, restaurant_id, restaurant_name, table_id, table_number, seats,
             display_date, iso_date, slot_time, user_id, status, payment_amount, created_at)
        VALUES
            (:id, :restaurant_id, :restaurant_name, :table_id, :table_number, :seats,
             :display_date, :iso_date, :slot_time, :user_id, :status, :payment_amount, :created_at)
        ON DUPLICATE KEY UPDATE status = VALUES(status), user_id = VALUES(user_id)`
	res.CreatedAt = res.CreatedAt.UTC()
	if _, err := r.db.NamedExecContext(ctx, q, res); err != nil {
		return fmt.Errorf("save reservation %s: %w", res.ID, err)
	}
	return nil
}

// GetByID returns an archived reservation or ErrReservationNotFound.
func (r *MySQLReservationRepo) GetByID(ctx context.Context, id string) (model.Reservation, error) {
	const q = `
        SELECT id, restaurant_id, restaurant_name, table_id, table_number, seats,
               display_date, iso_date, slot_time, user_id, status, payment_amount, created_at
        FROM reservations WHERE id = ? LIMIT 1`
	var res model.Reservation
	if err := r.db.GetContext(ctx, &res, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Reservation{}, ErrReservationNotFound
		}
		return model.Reservation{}, fmt.Errorf("get reservation %s: %w", id, err)
	}
	return res, nil
}
