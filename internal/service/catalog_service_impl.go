package service

import (
	"context"
	"fmt"

	"github.com/mbeckers/fabplan/internal/domain"
	"github.com/mbeckers/fabplan/internal/repository"
)

type catalogService struct {
	ops      repository.OperationRepo
	stations repository.StationRepo
	workers  repository.WorkerRepo
}

// NewCatalogService exposes the operation, station, and worker
// catalogs this core consumes.
func NewCatalogService(ops repository.OperationRepo, stations repository.StationRepo, workers repository.WorkerRepo) CatalogService {
	return &catalogService{ops: ops, stations: stations, workers: workers}
}

func (s *catalogService) CreateOperation(ctx context.Context, op *domain.Operation) error {
	if op.ID == "" {
		return fmt.Errorf("operation id is required")
	}
	if op.Name == "" {
		return fmt.Errorf("operation name is required")
	}
	return s.ops.Create(ctx, op)
}

func (s *catalogService) ListOperations(ctx context.Context) ([]*domain.Operation, error) {
	return s.ops.List(ctx)
}

func (s *catalogService) CreateStation(ctx context.Context, st *domain.Station) error {
	if st.ID == "" {
		return fmt.Errorf("station id is required")
	}
	if st.Name == "" {
		return fmt.Errorf("station name is required")
	}
	for _, opID := range st.OperationIDs {
		if _, err := s.ops.GetByID(ctx, opID); err != nil {
			return fmt.Errorf("station %s references operation %s: %w", st.ID, opID, err)
		}
	}
	return s.stations.Create(ctx, st)
}

func (s *catalogService) GetStation(ctx context.Context, id string) (*domain.Station, error) {
	return s.stations.GetByID(ctx, id)
}

func (s *catalogService) ListStations(ctx context.Context) ([]*domain.Station, error) {
	return s.stations.List(ctx)
}

func (s *catalogService) CreateWorker(ctx context.Context, w *domain.Worker) error {
	if w.ID == "" {
		return fmt.Errorf("worker id is required")
	}
	if w.Name == "" {
		return fmt.Errorf("worker name is required")
	}
	return s.workers.Create(ctx, w)
}

func (s *catalogService) ListWorkers(ctx context.Context) ([]*domain.Worker, error) {
	return s.workers.List(ctx)
}
