package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mbeckers/fabplan/internal/domain"
	"github.com/spf13/cobra"
)

func newCatalogCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the operation, station, and worker catalog",
	}

	cmd.AddCommand(
		newCatalogImportCmd(app),
		newCatalogOpCmd(app),
		newCatalogStationCmd(app),
		newCatalogWorkerCmd(app),
	)

	return cmd
}

func newCatalogImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import a catalog file (operations, stations, workers)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Imports.ImportCatalog(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Imported %d operation(s), %d station(s), %d worker(s)\n",
				res.OperationCount, res.StationCount, res.WorkerCount)
			return nil
		},
	}
}

func newCatalogOpCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "op",
		Short: "Manage catalog operations",
	}

	var (
		name       string
		opType     string
		skills     []string
		outputCode string
	)
	add := &cobra.Command{
		Use:   "add",
		Short: "Add an operation",
		RunE: func(cmd *cobra.Command, args []string) error {
			op := &domain.Operation{
				ID:         uuid.NewString(),
				Name:       name,
				Type:       opType,
				Skills:     skills,
				OutputCode: outputCode,
			}
			if err := app.Catalog.CreateOperation(context.Background(), op); err != nil {
				return err
			}
			fmt.Printf("Created operation %s (%s)\n", op.Name, op.ID)
			return nil
		},
	}
	add.Flags().StringVar(&name, "name", "", "Operation name")
	add.Flags().StringVar(&opType, "type", "", "Operation type")
	add.Flags().StringSliceVar(&skills, "skill", nil, "Required skill (repeatable)")
	add.Flags().StringVar(&outputCode, "output-code", "", "Code prefix contributed by this operation")
	_ = add.MarkFlagRequired("name")

	list := &cobra.Command{
		Use:   "list",
		Short: "List operations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ops, err := app.Catalog.ListOperations(context.Background())
			if err != nil {
				return err
			}
			for _, op := range ops {
				fmt.Printf("%s  %s  %s  skills=[%s]\n", op.ID, op.Name, op.Type, strings.Join(op.Skills, ","))
			}
			return nil
		},
	}

	cmd.AddCommand(add, list)
	return cmd
}

func newCatalogStationCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "station",
		Short: "Manage catalog stations",
	}

	var (
		name      string
		opIDs     []string
		subSkills []string
	)
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a station",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := &domain.Station{
				ID:           uuid.NewString(),
				Name:         name,
				OperationIDs: opIDs,
				SubSkills:    subSkills,
			}
			if err := app.Catalog.CreateStation(context.Background(), s); err != nil {
				return err
			}
			fmt.Printf("Created station %s (%s)\n", s.Name, s.ID)
			return nil
		},
	}
	add.Flags().StringVar(&name, "name", "", "Station name")
	add.Flags().StringSliceVar(&opIDs, "op", nil, "Supported operation ID (repeatable)")
	add.Flags().StringSliceVar(&subSkills, "sub-skill", nil, "Station-specific skill (repeatable)")
	_ = add.MarkFlagRequired("name")

	list := &cobra.Command{
		Use:   "list",
		Short: "List stations with their effective skill sets",
		RunE: func(cmd *cobra.Command, args []string) error {
			stations, err := app.Catalog.ListStations(context.Background())
			if err != nil {
				return err
			}
			for _, s := range stations {
				fmt.Printf("%s  %s  skills=[%s]\n", s.ID, s.Name, strings.Join(s.EffectiveSkills, ","))
			}
			return nil
		},
	}

	cmd.AddCommand(add, list)
	return cmd
}

func newCatalogWorkerCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Manage catalog workers",
	}

	var (
		name   string
		skills []string
	)
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a worker",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := &domain.Worker{
				ID:     uuid.NewString(),
				Name:   name,
				Skills: skills,
			}
			if err := app.Catalog.CreateWorker(context.Background(), w); err != nil {
				return err
			}
			fmt.Printf("Created worker %s (%s)\n", w.Name, w.ID)
			return nil
		},
	}
	add.Flags().StringVar(&name, "name", "", "Worker name")
	add.Flags().StringSliceVar(&skills, "skill", nil, "Worker skill (repeatable)")
	_ = add.MarkFlagRequired("name")

	list := &cobra.Command{
		Use:   "list",
		Short: "List workers",
		RunE: func(cmd *cobra.Command, args []string) error {
			workers, err := app.Catalog.ListWorkers(context.Background())
			if err != nil {
				return err
			}
			for _, w := range workers {
				fmt.Printf("%s  %s  skills=[%s]\n", w.ID, w.Name, strings.Join(w.Skills, ","))
			}
			return nil
		},
	}

	cmd.AddCommand(add, list)
	return cmd
}
