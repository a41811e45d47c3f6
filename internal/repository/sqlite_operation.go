package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/mbeckers/fabplan/internal/db"
	"github.com/mbeckers/fabplan/internal/domain"
)

// SQLiteOperationRepo implements OperationRepo using a SQLite database.
type SQLiteOperationRepo struct {
	db db.DBTX
}

// NewSQLiteOperationRepo creates a new SQLiteOperationRepo.
func NewSQLiteOperationRepo(conn db.DBTX) *SQLiteOperationRepo {
	return &SQLiteOperationRepo{db: conn}
}

func (r *SQLiteOperationRepo) Create(ctx context.Context, op *domain.Operation) error {
	skills, err := encodeStrings(op.Skills)
	if err != nil {
		return err
	}
	query := `INSERT INTO operations (id, name, type, skills, output_code) VALUES (?, ?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, op.ID, op.Name, op.Type, skills, op.OutputCode); err != nil {
		return fmt.Errorf("inserting operation: %w", err)
	}
	return nil
}

func (r *SQLiteOperationRepo) GetByID(ctx context.Context, id string) (*domain.Operation, error) {
	query := `SELECT id, name, type, skills, output_code FROM operations WHERE id = ?`
	return r.scanOperation(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteOperationRepo) ListByIDs(ctx context.Context, ids []string) ([]*domain.Operation, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	query := `SELECT id, name, type, skills, output_code FROM operations
		WHERE id IN (` + placeholders + `) ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing operations by ids: %w", err)
	}
	defer rows.Close()
	return r.scanOperations(rows)
}

func (r *SQLiteOperationRepo) List(ctx context.Context) ([]*domain.Operation, error) {
	query := `SELECT id, name, type, skills, output_code FROM operations ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing operations: %w", err)
	}
	defer rows.Close()
	return r.scanOperations(rows)
}

func (r *SQLiteOperationRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM operations WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting operation: %w", err)
	}
	return nil
}

func (r *SQLiteOperationRepo) scanOperation(row *sql.Row) (*domain.Operation, error) {
	var op domain.Operation
	var skillsStr string
	if err := row.Scan(&op.ID, &op.Name, &op.Type, &skillsStr, &op.OutputCode); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("operation: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning operation: %w", err)
	}
	skills, err := decodeStrings(skillsStr)
	if err != nil {
		return nil, err
	}
	op.Skills = skills
	return &op, nil
}

func (r *SQLiteOperationRepo) scanOperations(rows *sql.Rows) ([]*domain.Operation, error) {
	var ops []*domain.Operation
	for rows.Next() {
		var op domain.Operation
		var skillsStr string
		if err := rows.Scan(&op.ID, &op.Name, &op.Type, &skillsStr, &op.OutputCode); err != nil {
			return nil, fmt.Errorf("scanning operation: %w", err)
		}
		skills, err := decodeStrings(skillsStr)
		if err != nil {
			return nil, err
		}
		op.Skills = skills
		ops = append(ops, &op)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating operations: %w", err)
	}
	return ops, nil
}
