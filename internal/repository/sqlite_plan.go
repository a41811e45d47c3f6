package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mbeckers/fabplan/internal/contract"
	"github.com/mbeckers/fabplan/internal/db"
	"github.com/mbeckers/fabplan/internal/domain"
)

// planColumns is the canonical SELECT column list for plans.
const planColumns = `id, name, order_ref, kind, status, snapshot, created_at, updated_at`

// SQLitePlanRepo implements PlanRepo using a SQLite database. The node
// list and edges are stored as one JSON snapshot per plan row.
type SQLitePlanRepo struct {
	db db.DBTX
}

// NewSQLitePlanRepo creates a new SQLitePlanRepo.
func NewSQLitePlanRepo(conn db.DBTX) *SQLitePlanRepo {
	return &SQLitePlanRepo{db: conn}
}

func (r *SQLitePlanRepo) Create(ctx context.Context, p *domain.Plan) error {
	snapshot, err := encodeSnapshot(p)
	if err != nil {
		return err
	}
	query := `INSERT INTO plans (id, name, order_ref, kind, status, snapshot, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		p.ID,
		p.Name,
		p.OrderRef,
		string(p.Kind),
		string(p.Status),
		snapshot,
		p.CreatedAt.Format(time.RFC3339),
		p.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting plan: %w", err)
	}
	return nil
}

func (r *SQLitePlanRepo) GetByID(ctx context.Context, id string) (*domain.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans WHERE id = ?`
	return r.scanPlan(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLitePlanRepo) List(ctx context.Context, kind domain.PlanKind) ([]*domain.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans WHERE kind = ? ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, string(kind))
	if err != nil {
		return nil, fmt.Errorf("listing plans: %w", err)
	}
	defer rows.Close()

	var plans []*domain.Plan
	for rows.Next() {
		p, err := r.scanPlanRow(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating plans: %w", err)
	}
	return plans, nil
}

func (r *SQLitePlanRepo) Save(ctx context.Context, p *domain.Plan) error {
	snapshot, err := encodeSnapshot(p)
	if err != nil {
		return err
	}
	query := `UPDATE plans SET name = ?, order_ref = ?, kind = ?, status = ?, snapshot = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		p.Name,
		p.OrderRef,
		string(p.Kind),
		string(p.Status),
		snapshot,
		p.UpdatedAt.Format(time.RFC3339),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("saving plan: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("plan %s: %w", p.ID, ErrNotFound)
	}
	return nil
}

func (r *SQLitePlanRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM plans WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting plan: %w", err)
	}
	return nil
}

func encodeSnapshot(p *domain.Plan) (string, error) {
	b, err := json.Marshal(contract.EncodeSnapshot(p.Nodes, p.Edges))
	if err != nil {
		return "", fmt.Errorf("encoding plan snapshot: %w", err)
	}
	return string(b), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *SQLitePlanRepo) scanPlan(row *sql.Row) (*domain.Plan, error) {
	p, err := r.scan(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("plan: %w", ErrNotFound)
	}
	return p, err
}

func (r *SQLitePlanRepo) scanPlanRow(rows *sql.Rows) (*domain.Plan, error) {
	return r.scan(rows)
}

func (r *SQLitePlanRepo) scan(row rowScanner) (*domain.Plan, error) {
	var p domain.Plan
	var kindStr, statusStr, snapshotStr, createdStr, updatedStr string
	err := row.Scan(&p.ID, &p.Name, &p.OrderRef, &kindStr, &statusStr, &snapshotStr, &createdStr, &updatedStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning plan: %w", err)
	}
	p.Kind = domain.PlanKind(kindStr)
	p.Status = domain.PlanStatus(statusStr)

	var snap contract.PlanSnapshot
	if err := json.Unmarshal([]byte(snapshotStr), &snap); err != nil {
		return nil, fmt.Errorf("decoding plan snapshot: %w", err)
	}
	p.Nodes, p.Edges = contract.DecodeSnapshot(snap)

	if p.CreatedAt, err = parseTime(createdStr); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime(updatedStr); err != nil {
		return nil, err
	}
	return &p, nil
}
