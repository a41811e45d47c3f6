package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mbeckers/fabplan/internal/db"
)

// SQLiteCodeRepo is the durable backing store of the semi-finished
// code registry: the signature to code mapping plus per-prefix
// counters. Sequence allocation uses the same seed-then-update pattern
// as project-scoped id allocators: an INSERT OR IGNORE establishes the
// counter row, then a single UPDATE ... RETURNING both increments and
// reads it, which is atomic under SQLite's write lock. Concurrent
// commits of the same signature are resolved by the signature primary
// key: the loser's insert is ignored and the winner's code is read
// back, so one signature can never map to two codes.
type SQLiteCodeRepo struct {
	db db.DBTX
}

// NewSQLiteCodeRepo creates a new SQLiteCodeRepo.
func NewSQLiteCodeRepo(conn db.DBTX) *SQLiteCodeRepo {
	return &SQLiteCodeRepo{db: conn}
}

// Lookup returns the code mapped to the signature, if any.
func (r *SQLiteCodeRepo) Lookup(ctx context.Context, signature string) (string, bool, error) {
	var code string
	err := r.db.QueryRowContext(ctx, `SELECT code FROM semi_codes WHERE signature = ?`, signature).Scan(&code)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("looking up signature: %w", err)
	}
	return code, true, nil
}

// PeekSeq returns the sequence number the next allocation for the
// prefix would receive, without mutating the counter.
func (r *SQLiteCodeRepo) PeekSeq(ctx context.Context, prefix string) (int, error) {
	var next int
	query := `SELECT COALESCE((SELECT next_seq FROM code_counters WHERE prefix = ?), 1)`
	if err := r.db.QueryRowContext(ctx, query, prefix).Scan(&next); err != nil {
		return 0, fmt.Errorf("peeking counter for prefix %s: %w", prefix, err)
	}
	return next, nil
}

// NextSeq atomically allocates the next sequence number for a prefix.
func (r *SQLiteCodeRepo) NextSeq(ctx context.Context, prefix string) (int, error) {
	seedQuery := `INSERT OR IGNORE INTO code_counters (prefix, next_seq) VALUES (?, 1)`
	if _, err := r.db.ExecContext(ctx, seedQuery, prefix); err != nil {
		return 0, fmt.Errorf("seeding counter for prefix %s: %w", prefix, err)
	}

	var next int
	allocQuery := `UPDATE code_counters
		SET next_seq = next_seq + 1
		WHERE prefix = ?
		RETURNING next_seq - 1`
	if err := r.db.QueryRowContext(ctx, allocQuery, prefix).Scan(&next); err != nil {
		return 0, fmt.Errorf("allocating next seq for prefix %s: %w", prefix, err)
	}
	return next, nil
}

// Store persists the signature to code mapping and returns the
// canonical code: the given one when this call won, or the code a
// concurrent commit already stored for the signature.
func (r *SQLiteCodeRepo) Store(ctx context.Context, signature, prefix, code string) (string, error) {
	query := `INSERT INTO semi_codes (signature, prefix, code, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(signature) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, signature, prefix, code, nowUTC()); err != nil {
		return "", fmt.Errorf("storing code %s: %w", code, err)
	}
	stored, ok, err := r.Lookup(ctx, signature)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("storing code %s: mapping not visible after insert", code)
	}
	return stored, nil
}
