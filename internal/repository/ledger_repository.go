package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/restaurant-table-reservation/internal/model"
)

// MemoryLedgerRepo serves a ledger held in memory.  The ledger is never
// written by the application: bookings made through the API are archived
// separately and do not consume slots.
type MemoryLedgerRepo struct {
	days map[string][]model.LedgerEntry
}

// NewMemoryLedgerRepo wraps days, keyed by YYYY-MM-DD.
func NewMemoryLedgerRepo(days map[string][]model.LedgerEntry) *MemoryLedgerRepo {
	if days == nil {
		days = map[string][]model.LedgerEntry{}
	}
	return &MemoryLedgerRepo{days: days}
}

// EntriesOn returns the booked slots of isoDate in ledger order.  A date
// without bookings yields an empty slice.
func (r *MemoryLedgerRepo) EntriesOn(ctx context.Context, isoDate string) ([]model.LedgerEntry, error) {
	src := r.days[isoDate]
	out := make([]model.LedgerEntry, len(src))
	copy(out, src)
	return out, nil
}

// MySQLLedgerRepo reads booked slots from the ledger_slots table.
type MySQLLedgerRepo struct {
	db *sqlx.DB
}

// NewMySQLLedgerRepo returns a MySQLLedgerRepo bound to db.
func NewMySQLLedgerRepo(db *sqlx.DB) *MySQLLedgerRepo { return &MySQLLedgerRepo{db: db} }

// EntriesOn returns the booked slots of isoDate in insertion order.
func (r *MySQLLedgerRepo) EntriesOn(ctx context.Context, isoDate string) ([]model.LedgerEntry, error) {
	const q = `SELECT table_id, slot_time FROM ledger_slots WHERE slot_date = ? ORDER BY id`
	out := []model.LedgerEntry{}
	if err := r.db.SelectContext(ctx, &out, q, isoDate); err != nil {
		return nil, fmt.Errorf("select ledger slots for %s: %w", isoDate, err)
	}
	return out, nil
}

// SeedMySQLLedger inserts the given ledger, ignoring slots that already
// exist.  It is used by the server on first start with STORE_DRIVER=mysql.
func SeedMySQLLedger(ctx context.Context, db *sqlx.DB, days map[string][]model.LedgerEntry) error {
	const ins = `INSERT IGNORE INTO ledger_slots (slot_date, table_id, slot_time) VALUES (?, ?, ?)`
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	for day, entries := range days {
		for _, e := range entries {
			if _, err := tx.ExecContext(ctx, ins, day, e.TableID, e.Time); err != nil {
				return fmt.Errorf("seed ledger %s %s %s: %w", day, e.TableID, e.Time, err)
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
