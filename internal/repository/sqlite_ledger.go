package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mbeckers/fabplan/internal/db"
	"github.com/mbeckers/fabplan/internal/domain"
)

// SQLiteLedgerRepo implements LedgerRepo using a SQLite database.
// Entries are keyed by semi-finished code; Upsert is idempotent per
// code.
type SQLiteLedgerRepo struct {
	db db.DBTX
}

// NewSQLiteLedgerRepo creates a new SQLiteLedgerRepo.
func NewSQLiteLedgerRepo(conn db.DBTX) *SQLiteLedgerRepo {
	return &SQLiteLedgerRepo{db: conn}
}

func (r *SQLiteLedgerRepo) Upsert(ctx context.Context, e *domain.LedgerEntry) error {
	query := `INSERT INTO material_ledger (semi_code, name, quantity, unit, plan_id, node_id, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(semi_code) DO UPDATE SET
			name = excluded.name,
			quantity = excluded.quantity,
			unit = excluded.unit,
			plan_id = excluded.plan_id,
			node_id = excluded.node_id,
			updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query, e.SemiCode, e.Name, e.Quantity, e.Unit, e.PlanID, e.NodeID, nowUTC())
	if err != nil {
		return fmt.Errorf("upserting ledger entry %s: %w", e.SemiCode, err)
	}
	return nil
}

func (r *SQLiteLedgerRepo) Get(ctx context.Context, semiCode string) (*domain.LedgerEntry, error) {
	query := `SELECT semi_code, name, quantity, unit, plan_id, node_id, updated_at
		FROM material_ledger WHERE semi_code = ?`
	var e domain.LedgerEntry
	var updatedStr string
	err := r.db.QueryRowContext(ctx, query, semiCode).Scan(
		&e.SemiCode, &e.Name, &e.Quantity, &e.Unit, &e.PlanID, &e.NodeID, &updatedStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("ledger entry: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning ledger entry: %w", err)
	}
	if e.UpdatedAt, err = parseTime(updatedStr); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *SQLiteLedgerRepo) List(ctx context.Context) ([]*domain.LedgerEntry, error) {
	query := `SELECT semi_code, name, quantity, unit, plan_id, node_id, updated_at
		FROM material_ledger ORDER BY semi_code`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []*domain.LedgerEntry
	for rows.Next() {
		var e domain.LedgerEntry
		var updatedStr string
		if err := rows.Scan(&e.SemiCode, &e.Name, &e.Quantity, &e.Unit, &e.PlanID, &e.NodeID, &updatedStr); err != nil {
			return nil, fmt.Errorf("scanning ledger entry: %w", err)
		}
		if e.UpdatedAt, err = parseTime(updatedStr); err != nil {
			return nil, err
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating ledger entries: %w", err)
	}
	return entries, nil
}
