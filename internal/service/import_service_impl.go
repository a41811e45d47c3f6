package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mbeckers/fabplan/internal/db"
	"github.com/mbeckers/fabplan/internal/importer"
	"github.com/mbeckers/fabplan/internal/repository"
)

type importService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
}

// NewImportService loads catalog definitions from JSON files. The
// whole import is validated up front and written in one transaction;
// a single invalid entry rolls everything back.
func NewImportService(uow db.UnitOfWork, observers ...UseCaseObserver) ImportService {
	return &importService{uow: uow, observer: useCaseObserverOrNoop(observers)}
}

func (s *importService) ImportCatalog(ctx context.Context, filePath string) (*ImportResult, error) {
	schema, err := importer.LoadCatalogFile(filePath)
	if err != nil {
		return nil, err
	}
	return s.ImportCatalogFromSchema(ctx, schema)
}

func (s *importService) ImportCatalogFromSchema(ctx context.Context, schema *importer.CatalogSchema) (result *ImportResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "import-catalog",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	if errs := importer.ValidateCatalogSchema(schema); len(errs) > 0 {
		return nil, fmt.Errorf("catalog validation failed: %w", errors.Join(errs...))
	}

	ops, stations, workers := importer.Convert(schema)
	fields["operations"] = len(ops)
	fields["stations"] = len(stations)
	fields["workers"] = len(workers)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txOps := repository.NewSQLiteOperationRepo(tx)
		txStations := repository.NewSQLiteStationRepo(tx)
		txWorkers := repository.NewSQLiteWorkerRepo(tx)
		for _, op := range ops {
			if err := txOps.Create(ctx, op); err != nil {
				return err
			}
		}
		for _, st := range stations {
			if err := txStations.Create(ctx, st); err != nil {
				return err
			}
		}
		for _, w := range workers {
			if err := txWorkers.Create(ctx, w); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &ImportResult{
		OperationCount: len(ops),
		StationCount:   len(stations),
		WorkerCount:    len(workers),
	}, nil
}
