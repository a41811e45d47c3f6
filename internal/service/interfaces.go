package service

import (
	"context"

	"github.com/mbeckers/fabplan/internal/contract"
	"github.com/mbeckers/fabplan/internal/domain"
	"github.com/mbeckers/fabplan/internal/importer"
)

// PlanService is the editing surface of the plan graph engine. Each
// mutation loads the plan snapshot, applies the change through the
// graph store, and persists the result, so the stored snapshot is
// always invariant-clean.
type PlanService interface {
	Create(ctx context.Context, name, orderRef string, kind domain.PlanKind) (*domain.Plan, error)
	Get(ctx context.Context, id string) (*domain.Plan, error)
	List(ctx context.Context, kind domain.PlanKind) ([]*domain.Plan, error)
	Delete(ctx context.Context, id string) error
	SaveAsTemplate(ctx context.Context, planID, name string) (*domain.Plan, error)

	AddNode(ctx context.Context, planID, operationID string) (*domain.Node, error)
	RemoveNode(ctx context.Context, planID, nodeID string) error
	Connect(ctx context.Context, planID, fromID, toID string) error
	Disconnect(ctx context.Context, planID, fromID, toID string) error
	SaveNode(ctx context.Context, planID, nodeID string, req contract.SaveNodeRequest) (*domain.Node, error)

	PreviewCode(ctx context.Context, planID, nodeID string) (string, error)
	ExecutionOrder(ctx context.Context, planID string) ([]string, error)
	Deploy(ctx context.Context, planID string) (*contract.DeployResult, error)
}

type CatalogService interface {
	CreateOperation(ctx context.Context, op *domain.Operation) error
	ListOperations(ctx context.Context) ([]*domain.Operation, error)
	CreateStation(ctx context.Context, s *domain.Station) error
	GetStation(ctx context.Context, id string) (*domain.Station, error)
	ListStations(ctx context.Context) ([]*domain.Station, error)
	CreateWorker(ctx context.Context, w *domain.Worker) error
	ListWorkers(ctx context.Context) ([]*domain.Worker, error)
}

type LedgerService interface {
	Get(ctx context.Context, semiCode string) (*domain.LedgerEntry, error)
	List(ctx context.Context) ([]*domain.LedgerEntry, error)
}

// ImportResult holds the outcome of a catalog import.
type ImportResult struct {
	OperationCount int
	StationCount   int
	WorkerCount    int
}

type ImportService interface {
	ImportCatalog(ctx context.Context, filePath string) (*ImportResult, error)
	ImportCatalogFromSchema(ctx context.Context, schema *importer.CatalogSchema) (*ImportResult, error)
}
