package cli

import (
	"github.com/mbeckers/fabplan/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Plans   service.PlanService
	Catalog service.CatalogService
	Ledger  service.LedgerService
	Imports service.ImportService
}

// NewRootCmd creates the top-level "fabplan" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "fabplan",
		Short: "Production plan graph editor and scheduler",
	}

	root.AddCommand(
		newPlanCmd(app),
		newNodeCmd(app),
		newCatalogCmd(app),
		newLedgerCmd(app),
	)

	return root
}
