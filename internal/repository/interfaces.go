package repository

import (
	"context"
	"time"

	"github.com/mbeckers/fabplan/internal/domain"
)

type OperationRepo interface {
	Create(ctx context.Context, op *domain.Operation) error
	GetByID(ctx context.Context, id string) (*domain.Operation, error)
	ListByIDs(ctx context.Context, ids []string) ([]*domain.Operation, error)
	List(ctx context.Context) ([]*domain.Operation, error)
	Delete(ctx context.Context, id string) error
}

type StationRepo interface {
	Create(ctx context.Context, s *domain.Station) error
	// GetByID returns the station with EffectiveSkills populated:
	// the union of the skills of every supported operation and the
	// station's own sub-skills.
	GetByID(ctx context.Context, id string) (*domain.Station, error)
	List(ctx context.Context) ([]*domain.Station, error)
	// SupportedOperations loads the operation definitions the
	// station supports; code-prefix derivation reads their output
	// codes.
	SupportedOperations(ctx context.Context, stationID string) ([]*domain.Operation, error)
	Delete(ctx context.Context, id string) error
}

type WorkerRepo interface {
	Create(ctx context.Context, w *domain.Worker) error
	GetByID(ctx context.Context, id string) (*domain.Worker, error)
	List(ctx context.Context) ([]*domain.Worker, error)
	Delete(ctx context.Context, id string) error
}

type ScheduleRepo interface {
	Create(ctx context.Context, e *domain.ScheduleEntry) error
	ListByWorker(ctx context.Context, workerID string) ([]domain.ScheduleEntry, error)
	ListOverlapping(ctx context.Context, workerID string, start, end time.Time) ([]domain.ScheduleEntry, error)
	DeleteByPlan(ctx context.Context, planID string) error
}

type PlanRepo interface {
	Create(ctx context.Context, p *domain.Plan) error
	GetByID(ctx context.Context, id string) (*domain.Plan, error)
	List(ctx context.Context, kind domain.PlanKind) ([]*domain.Plan, error)
	// Save persists the plan's current snapshot and metadata.
	Save(ctx context.Context, p *domain.Plan) error
	Delete(ctx context.Context, id string) error
}

type LedgerRepo interface {
	Upsert(ctx context.Context, e *domain.LedgerEntry) error
	Get(ctx context.Context, semiCode string) (*domain.LedgerEntry, error)
	List(ctx context.Context) ([]*domain.LedgerEntry, error)
}
