package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mbeckers/fabplan/internal/db"
	"github.com/mbeckers/fabplan/internal/domain"
)

// SQLiteScheduleRepo implements ScheduleRepo using a SQLite database.
type SQLiteScheduleRepo struct {
	db db.DBTX
}

// NewSQLiteScheduleRepo creates a new SQLiteScheduleRepo.
func NewSQLiteScheduleRepo(conn db.DBTX) *SQLiteScheduleRepo {
	return &SQLiteScheduleRepo{db: conn}
}

func (r *SQLiteScheduleRepo) Create(ctx context.Context, e *domain.ScheduleEntry) error {
	query := `INSERT INTO schedule_entries (id, worker_id, plan_id, node_id, start_at, end_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		e.ID,
		e.WorkerID,
		e.PlanID,
		e.NodeID,
		e.StartAt.UTC().Format(time.RFC3339),
		e.EndAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting schedule entry: %w", err)
	}
	return nil
}

func (r *SQLiteScheduleRepo) ListByWorker(ctx context.Context, workerID string) ([]domain.ScheduleEntry, error) {
	query := `SELECT id, worker_id, plan_id, node_id, start_at, end_at
		FROM schedule_entries WHERE worker_id = ? ORDER BY start_at`
	rows, err := r.db.QueryContext(ctx, query, workerID)
	if err != nil {
		return nil, fmt.Errorf("listing schedule entries: %w", err)
	}
	defer rows.Close()
	return r.scanEntries(rows)
}

// ListOverlapping returns the worker's commitments intersecting the
// half-open window [start, end). RFC3339 strings compare in time order,
// so the overlap test runs in SQL.
func (r *SQLiteScheduleRepo) ListOverlapping(ctx context.Context, workerID string, start, end time.Time) ([]domain.ScheduleEntry, error) {
	query := `SELECT id, worker_id, plan_id, node_id, start_at, end_at
		FROM schedule_entries
		WHERE worker_id = ? AND start_at < ? AND end_at > ?
		ORDER BY start_at`
	rows, err := r.db.QueryContext(ctx, query, workerID,
		end.UTC().Format(time.RFC3339), start.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("listing overlapping schedule entries: %w", err)
	}
	defer rows.Close()
	return r.scanEntries(rows)
}

func (r *SQLiteScheduleRepo) DeleteByPlan(ctx context.Context, planID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM schedule_entries WHERE plan_id = ?`, planID); err != nil {
		return fmt.Errorf("deleting schedule entries of plan %s: %w", planID, err)
	}
	return nil
}

func (r *SQLiteScheduleRepo) scanEntries(rows *sql.Rows) ([]domain.ScheduleEntry, error) {
	var entries []domain.ScheduleEntry
	for rows.Next() {
		var e domain.ScheduleEntry
		var startStr, endStr string
		if err := rows.Scan(&e.ID, &e.WorkerID, &e.PlanID, &e.NodeID, &startStr, &endStr); err != nil {
			return nil, fmt.Errorf("scanning schedule entry: %w", err)
		}
		var err error
		if e.StartAt, err = parseTime(startStr); err != nil {
			return nil, err
		}
		if e.EndAt, err = parseTime(endStr); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating schedule entries: %w", err)
	}
	return entries, nil
}
