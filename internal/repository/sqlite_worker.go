package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mbeckers/fabplan/internal/db"
	"github.com/mbeckers/fabplan/internal/domain"
)

// SQLiteWorkerRepo implements WorkerRepo using a SQLite database.
type SQLiteWorkerRepo struct {
	db db.DBTX
}

// NewSQLiteWorkerRepo creates a new SQLiteWorkerRepo.
func NewSQLiteWorkerRepo(conn db.DBTX) *SQLiteWorkerRepo {
	return &SQLiteWorkerRepo{db: conn}
}

func (r *SQLiteWorkerRepo) Create(ctx context.Context, w *domain.Worker) error {
	skills, err := encodeStrings(w.Skills)
	if err != nil {
		return err
	}
	query := `INSERT INTO workers (id, name, skills) VALUES (?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, w.ID, w.Name, skills); err != nil {
		return fmt.Errorf("inserting worker: %w", err)
	}
	return nil
}

func (r *SQLiteWorkerRepo) GetByID(ctx context.Context, id string) (*domain.Worker, error) {
	query := `SELECT id, name, skills FROM workers WHERE id = ?`
	var w domain.Worker
	var skillsStr string
	err := r.db.QueryRowContext(ctx, query, id).Scan(&w.ID, &w.Name, &skillsStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("worker: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning worker: %w", err)
	}
	if w.Skills, err = decodeStrings(skillsStr); err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *SQLiteWorkerRepo) List(ctx context.Context) ([]*domain.Worker, error) {
	query := `SELECT id, name, skills FROM workers ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing workers: %w", err)
	}
	defer rows.Close()

	var workers []*domain.Worker
	for rows.Next() {
		var w domain.Worker
		var skillsStr string
		if err := rows.Scan(&w.ID, &w.Name, &skillsStr); err != nil {
			return nil, fmt.Errorf("scanning worker: %w", err)
		}
		if w.Skills, err = decodeStrings(skillsStr); err != nil {
			return nil, err
		}
		workers = append(workers, &w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating workers: %w", err)
	}
	return workers, nil
}

func (r *SQLiteWorkerRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM workers WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting worker: %w", err)
	}
	return nil
}
