package testutil

import (
	"time"

	"github.com/mbeckers/fabplan/internal/domain"
)

// Operation options
type OperationOption func(*domain.Operation)

func WithOperationSkills(skills ...string) OperationOption {
	return func(op *domain.Operation) {
		op.Skills = skills
	}
}

func WithOutputCode(code string) OperationOption {
	return func(op *domain.Operation) {
		op.OutputCode = code
	}
}

func NewTestOperation(id, name string, opts ...OperationOption) *domain.Operation {
	op := &domain.Operation{
		ID:         id,
		Name:       name,
		Type:       "machining",
		OutputCode: "M",
	}
	for _, opt := range opts {
		opt(op)
	}
	return op
}

// Station options
type StationOption func(*domain.Station)

func WithStationOperations(ids ...string) StationOption {
	return func(s *domain.Station) {
		s.OperationIDs = ids
	}
}

func WithSubSkills(skills ...string) StationOption {
	return func(s *domain.Station) {
		s.SubSkills = skills
	}
}

func NewTestStation(id, name string, opts ...StationOption) *domain.Station {
	s := &domain.Station{ID: id, Name: name}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Worker options
type WorkerOption func(*domain.Worker)

func WithWorkerSkills(skills ...string) WorkerOption {
	return func(w *domain.Worker) {
		w.Skills = skills
	}
}

func NewTestWorker(id, name string, opts ...WorkerOption) *domain.Worker {
	w := &domain.Worker{ID: id, Name: name}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// NewTestPlan creates an empty draft plan.
func NewTestPlan(id, name string) *domain.Plan {
	now := time.Now().UTC()
	return &domain.Plan{
		ID:        id,
		Name:      name,
		Kind:      domain.KindPlan,
		Status:    domain.PlanDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewTestEntry creates a schedule entry for a worker in the given window.
func NewTestEntry(id, workerID string, start, end time.Time) *domain.ScheduleEntry {
	return &domain.ScheduleEntry{
		ID:       id,
		WorkerID: workerID,
		PlanID:   "plan-test",
		NodeID:   "node-test",
		StartAt:  start,
		EndAt:    end,
	}
}

// Qty returns a pointer to the given quantity, for material rows and
// node outputs.
func Qty(v float64) *float64 {
	return &v
}
