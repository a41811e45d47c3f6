package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mbeckers/fabplan/internal/db"
	"github.com/mbeckers/fabplan/internal/domain"
)

// SQLiteStationRepo implements StationRepo using a SQLite database.
// Reads resolve the station's effective skills by joining the skills
// of its supported operations with the station's own sub-skills.
type SQLiteStationRepo struct {
	db  db.DBTX
	ops *SQLiteOperationRepo
}

// NewSQLiteStationRepo creates a new SQLiteStationRepo.
func NewSQLiteStationRepo(conn db.DBTX) *SQLiteStationRepo {
	return &SQLiteStationRepo{db: conn, ops: NewSQLiteOperationRepo(conn)}
}

func (r *SQLiteStationRepo) Create(ctx context.Context, s *domain.Station) error {
	opIDs, err := encodeStrings(s.OperationIDs)
	if err != nil {
		return err
	}
	subSkills, err := encodeStrings(s.SubSkills)
	if err != nil {
		return err
	}
	query := `INSERT INTO stations (id, name, operation_ids, sub_skills) VALUES (?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, s.ID, s.Name, opIDs, subSkills); err != nil {
		return fmt.Errorf("inserting station: %w", err)
	}
	return nil
}

func (r *SQLiteStationRepo) GetByID(ctx context.Context, id string) (*domain.Station, error) {
	query := `SELECT id, name, operation_ids, sub_skills FROM stations WHERE id = ?`
	s, err := r.scanStation(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}
	if err := r.resolveEffectiveSkills(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SQLiteStationRepo) List(ctx context.Context) ([]*domain.Station, error) {
	query := `SELECT id, name, operation_ids, sub_skills FROM stations ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing stations: %w", err)
	}
	defer rows.Close()

	var stations []*domain.Station
	for rows.Next() {
		var s domain.Station
		var opIDsStr, subSkillsStr string
		if err := rows.Scan(&s.ID, &s.Name, &opIDsStr, &subSkillsStr); err != nil {
			return nil, fmt.Errorf("scanning station: %w", err)
		}
		if s.OperationIDs, err = decodeStrings(opIDsStr); err != nil {
			return nil, err
		}
		if s.SubSkills, err = decodeStrings(subSkillsStr); err != nil {
			return nil, err
		}
		stations = append(stations, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating stations: %w", err)
	}
	for _, s := range stations {
		if err := r.resolveEffectiveSkills(ctx, s); err != nil {
			return nil, err
		}
	}
	return stations, nil
}

func (r *SQLiteStationRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM stations WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting station: %w", err)
	}
	return nil
}

// SupportedOperations loads the operation definitions the station
// supports, ordered by operation id.
func (r *SQLiteStationRepo) SupportedOperations(ctx context.Context, stationID string) ([]*domain.Operation, error) {
	s, err := r.GetByID(ctx, stationID)
	if err != nil {
		return nil, err
	}
	return r.ops.ListByIDs(ctx, s.OperationIDs)
}

func (r *SQLiteStationRepo) resolveEffectiveSkills(ctx context.Context, s *domain.Station) error {
	ops, err := r.ops.ListByIDs(ctx, s.OperationIDs)
	if err != nil {
		return fmt.Errorf("resolving effective skills of station %s: %w", s.ID, err)
	}
	sets := make([][]string, 0, len(ops)+1)
	for _, op := range ops {
		sets = append(sets, op.Skills)
	}
	sets = append(sets, s.SubSkills)
	s.EffectiveSkills = domain.UnionSkills(sets...)
	return nil
}

func (r *SQLiteStationRepo) scanStation(row *sql.Row) (*domain.Station, error) {
	var s domain.Station
	var opIDsStr, subSkillsStr string
	if err := row.Scan(&s.ID, &s.Name, &opIDsStr, &subSkillsStr); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("station: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning station: %w", err)
	}
	var err error
	if s.OperationIDs, err = decodeStrings(opIDsStr); err != nil {
		return nil, err
	}
	if s.SubSkills, err = decodeStrings(subSkillsStr); err != nil {
		return nil, err
	}
	return &s, nil
}
