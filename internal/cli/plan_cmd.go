package cli

import (
	"context"
	"fmt"

	"github.com/mbeckers/fabplan/internal/cli/formatter"
	"github.com/mbeckers/fabplan/internal/domain"
	"github.com/spf13/cobra"
)

func newPlanCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Manage production plans",
	}

	cmd.AddCommand(
		newPlanCreateCmd(app),
		newPlanListCmd(app),
		newPlanShowCmd(app),
		newPlanOrderCmd(app),
		newPlanDeployCmd(app),
		newPlanTemplateCmd(app),
		newPlanDeleteCmd(app),
	)

	return cmd
}

func newPlanCreateCmd(app *App) *cobra.Command {
	var name, orderRef, kind string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new production plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.Plans.Create(context.Background(), name, orderRef, domain.PlanKind(kind))
			if err != nil {
				return err
			}
			fmt.Printf("Created plan %s (%s)\n", p.Name, p.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Plan name")
	cmd.Flags().StringVar(&orderRef, "order", "", "Approved order reference")
	cmd.Flags().StringVar(&kind, "kind", "plan", "Plan kind (plan|template)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newPlanListCmd(app *App) *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List plans",
		RunE: func(cmd *cobra.Command, args []string) error {
			plans, err := app.Plans.List(context.Background(), domain.PlanKind(kind))
			if err != nil {
				return err
			}
			for _, p := range plans {
				fmt.Printf("%s  %s  %s  %d node(s)\n", p.ID, p.Name, p.Status, len(p.Nodes))
			}
			if len(plans) == 0 {
				fmt.Println("No plans found")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "plan", "Plan kind (plan|template)")
	return cmd
}

func newPlanShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show a plan with its nodes and edges",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.Plans.Get(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Print(formatter.FormatPlan(p))
			return nil
		},
	}
}

func newPlanOrderCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "order ID",
		Short: "Compute the execution order of a plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			order, err := app.Plans.ExecutionOrder(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Print(formatter.FormatOrder(order))
			return nil
		},
	}
}

func newPlanDeployCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "deploy ID",
		Short: "Deploy a plan: freeze the order and write worker schedules",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Plans.Deploy(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Deployed plan %s with %d node(s)\n", res.PlanID, len(res.Order))
			for _, sn := range res.Scheduled {
				fmt.Printf("  %s  %s  %s - %s\n", sn.NodeID, sn.WorkerID,
					sn.StartAt.Format("15:04"), sn.EndAt.Format("15:04"))
			}
			return nil
		},
	}
}

func newPlanTemplateCmd(app *App) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "template ID",
		Short: "Save a plan as a reusable template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tmpl, err := app.Plans.SaveAsTemplate(context.Background(), args[0], name)
			if err != nil {
				return err
			}
			fmt.Printf("Created template %s (%s)\n", tmpl.Name, tmpl.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Template name")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newPlanDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Plans.Delete(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Println("Deleted plan", args[0])
			return nil
		},
	}
}
