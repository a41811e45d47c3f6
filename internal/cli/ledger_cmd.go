package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newLedgerCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Inspect the semi-finished material ledger",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List ledger entries",
			RunE: func(cmd *cobra.Command, args []string) error {
				entries, err := app.Ledger.List(context.Background())
				if err != nil {
					return err
				}
				for _, e := range entries {
					fmt.Printf("%s  %s  %g %s\n", e.SemiCode, e.Name, e.Quantity, e.Unit)
				}
				if len(entries) == 0 {
					fmt.Println("Ledger is empty")
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "show CODE",
			Short: "Show one ledger entry",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				e, err := app.Ledger.Get(context.Background(), args[0])
				if err != nil {
					return err
				}
				fmt.Printf("%s\n  name:     %s\n  quantity: %g %s\n  plan:     %s\n  node:     %s\n  updated:  %s\n",
					e.SemiCode, e.Name, e.Quantity, e.Unit, e.PlanID, e.NodeID,
					e.UpdatedAt.Format("2006-01-02 15:04"))
				return nil
			},
		},
	)

	return cmd
}
