package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/mbeckers/fabplan/internal/cli"
	"github.com/mbeckers/fabplan/internal/cli/formatter"
	"github.com/mbeckers/fabplan/internal/db"
	"github.com/mbeckers/fabplan/internal/repository"
	"github.com/mbeckers/fabplan/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Determine DB path: env var or default ~/.fabplan/fabplan.db
	dbPath := os.Getenv("FABPLAN_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".fabplan", "fabplan.db")
	}

	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	planRepo := repository.NewSQLitePlanRepo(database)
	opRepo := repository.NewSQLiteOperationRepo(database)
	stationRepo := repository.NewSQLiteStationRepo(database)
	workerRepo := repository.NewSQLiteWorkerRepo(database)
	scheduleRepo := repository.NewSQLiteScheduleRepo(database)
	ledgerRepo := repository.NewSQLiteLedgerRepo(database)
	codeRepo := repository.NewSQLiteCodeRepo(database)

	uow := db.NewSQLiteUnitOfWork(database)

	var observers []service.UseCaseObserver
	if os.Getenv("FABPLAN_LOG") != "" {
		observers = append(observers, service.NewLogUseCaseObserver(os.Stderr))
	}

	app := &cli.App{
		Plans: service.NewPlanService(
			planRepo, opRepo, stationRepo, workerRepo,
			scheduleRepo, ledgerRepo, codeRepo, uow, observers...),
		Catalog: service.NewCatalogService(opRepo, stationRepo, workerRepo),
		Ledger:  service.NewLedgerService(ledgerRepo),
		Imports: service.NewImportService(uow, observers...),
	}

	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		formatter.DisableColors()
	}

	return cli.NewRootCmd(app).Execute()
}
