package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/mbeckers/fabplan/internal/cli/formatter"
	"github.com/mbeckers/fabplan/internal/contract"
	"github.com/mbeckers/fabplan/internal/domain"
	"github.com/spf13/cobra"
)

func newNodeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "node",
		Short: "Edit nodes of a production plan",
	}

	cmd.AddCommand(
		newNodeAddCmd(app),
		newNodeRemoveCmd(app),
		newNodeConnectCmd(app),
		newNodeDisconnectCmd(app),
		newNodeSaveCmd(app),
		newNodePreviewCmd(app),
		newNodeWizardCmd(app),
	)

	return cmd
}

func newNodeAddCmd(app *App) *cobra.Command {
	var planID, opID string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a node for a catalog operation",
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := app.Plans.AddNode(context.Background(), planID, opID)
			if err != nil {
				return err
			}
			fmt.Printf("Added node %s (%s)\n", n.Name, n.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&planID, "plan", "", "Plan ID")
	cmd.Flags().StringVar(&opID, "op", "", "Operation ID from the catalog")
	_ = cmd.MarkFlagRequired("plan")
	_ = cmd.MarkFlagRequired("op")

	return cmd
}

func newNodeRemoveCmd(app *App) *cobra.Command {
	var planID string

	cmd := &cobra.Command{
		Use:   "remove NODE_ID",
		Short: "Remove a node and its connections",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Plans.RemoveNode(context.Background(), planID, args[0]); err != nil {
				return err
			}
			fmt.Println("Removed node", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&planID, "plan", "", "Plan ID")
	_ = cmd.MarkFlagRequired("plan")

	return cmd
}

func newNodeConnectCmd(app *App) *cobra.Command {
	var planID string

	cmd := &cobra.Command{
		Use:   "connect FROM_ID TO_ID",
		Short: "Connect two nodes (output of FROM feeds TO)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Plans.Connect(context.Background(), planID, args[0], args[1]); err != nil {
				return err
			}
			fmt.Printf("Connected %s -> %s\n", args[0], args[1])
			return nil
		},
	}

	cmd.Flags().StringVar(&planID, "plan", "", "Plan ID")
	_ = cmd.MarkFlagRequired("plan")

	return cmd
}

func newNodeDisconnectCmd(app *App) *cobra.Command {
	var planID string

	cmd := &cobra.Command{
		Use:   "disconnect FROM_ID TO_ID",
		Short: "Remove the connection between two nodes",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Plans.Disconnect(context.Background(), planID, args[0], args[1]); err != nil {
				return err
			}
			fmt.Printf("Disconnected %s -> %s\n", args[0], args[1])
			return nil
		},
	}

	cmd.Flags().StringVar(&planID, "plan", "", "Plan ID")
	_ = cmd.MarkFlagRequired("plan")

	return cmd
}

func newNodeSaveCmd(app *App) *cobra.Command {
	var (
		planID     string
		name       string
		duration   int
		materials  []string
		outputQty  float64
		outputUnit string
		stations   []string
		mode       string
		worker     string
	)

	cmd := &cobra.Command{
		Use:   "save NODE_ID",
		Short: "Save node details: duration, materials, stations, assignment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := contract.SaveNodeRequest{
				Mode:   domain.AssignmentMode(mode),
				Worker: worker,
			}
			if cmd.Flags().Changed("name") {
				req.Name = &name
			}
			if cmd.Flags().Changed("duration") {
				req.DurationMin = &duration
			}
			if cmd.Flags().Changed("output-qty") {
				req.OutputQty = &outputQty
			}
			if cmd.Flags().Changed("output-unit") {
				req.OutputUnit = &outputUnit
			}
			if cmd.Flags().Changed("material") {
				rows, err := parseMaterials(materials)
				if err != nil {
					return err
				}
				req.Materials = rows
			}
			if cmd.Flags().Changed("station") {
				slots, err := parseStations(stations)
				if err != nil {
					return err
				}
				req.Stations = slots
			}

			n, err := app.Plans.SaveNode(context.Background(), planID, args[0], req)
			if err != nil {
				return err
			}
			fmt.Print(formatter.FormatNode(n))
			return nil
		},
	}

	cmd.Flags().StringVar(&planID, "plan", "", "Plan ID")
	cmd.Flags().StringVar(&name, "name", "", "Node name")
	cmd.Flags().IntVar(&duration, "duration", 0, "Duration in minutes")
	cmd.Flags().StringArrayVar(&materials, "material", nil, "Material row as ID:NAME:QTY:UNIT (QTY may be '?')")
	cmd.Flags().Float64Var(&outputQty, "output-qty", 0, "Output quantity")
	cmd.Flags().StringVar(&outputUnit, "output-unit", "", "Output unit")
	cmd.Flags().StringArrayVar(&stations, "station", nil, "Station binding as STATION_ID[:PRIORITY]")
	cmd.Flags().StringVar(&mode, "mode", "", "Assignment mode (auto|manual)")
	cmd.Flags().StringVar(&worker, "worker", "", "Worker ID for manual assignment")
	_ = cmd.MarkFlagRequired("plan")

	return cmd
}

func newNodePreviewCmd(app *App) *cobra.Command {
	var planID string

	cmd := &cobra.Command{
		Use:   "preview NODE_ID",
		Short: "Preview the semi-finished code a node would receive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := app.Plans.PreviewCode(context.Background(), planID, args[0])
			if err != nil {
				return err
			}
			if code == "" {
				fmt.Println("Node is not eligible for a code yet")
				return nil
			}
			fmt.Println(code)
			return nil
		},
	}

	cmd.Flags().StringVar(&planID, "plan", "", "Plan ID")
	_ = cmd.MarkFlagRequired("plan")

	return cmd
}

// newNodeWizardCmd walks through a node save interactively. It covers
// the common planner path (duration, stations, assignment mode) and
// delegates everything else to "node save" flags.
func newNodeWizardCmd(app *App) *cobra.Command {
	var planID string

	cmd := &cobra.Command{
		Use:   "wizard NODE_ID",
		Short: "Interactively edit a node",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			stations, err := app.Catalog.ListStations(ctx)
			if err != nil {
				return err
			}
			workers, err := app.Catalog.ListWorkers(ctx)
			if err != nil {
				return err
			}

			stationOpts := make([]huh.Option[string], 0, len(stations))
			for _, s := range stations {
				stationOpts = append(stationOpts, huh.NewOption(s.Name, s.ID))
			}
			workerOpts := []huh.Option[string]{huh.NewOption("(none)", "")}
			for _, w := range workers {
				workerOpts = append(workerOpts, huh.NewOption(w.Name, w.ID))
			}

			var (
				duration   string
				stationIDs []string
				mode       string
				workerID   string
			)

			form := huh.NewForm(
				huh.NewGroup(
					huh.NewInput().
						Title("Duration (minutes)").
						Placeholder("30").
						Value(&duration).
						Validate(validateOptionalInt),
					huh.NewMultiSelect[string]().
						Title("Stations (first pick is primary)").
						Options(stationOpts...).
						Value(&stationIDs),
				),
				huh.NewGroup(
					huh.NewSelect[string]().
						Title("Assignment mode").
						Options(
							huh.NewOption("Leave unchanged", ""),
							huh.NewOption("Automatic", string(domain.AssignAuto)),
							huh.NewOption("Manual", string(domain.AssignManual)),
						).
						Value(&mode),
					huh.NewSelect[string]().
						Title("Worker (manual mode only)").
						Options(workerOpts...).
						Value(&workerID),
				),
			)
			if err := form.Run(); err != nil {
				return err
			}

			req := contract.SaveNodeRequest{
				Mode:   domain.AssignmentMode(mode),
				Worker: workerID,
			}
			if duration != "" {
				v, _ := strconv.Atoi(duration)
				req.DurationMin = &v
			}
			for i, id := range stationIDs {
				req.Stations = append(req.Stations, domain.StationSlot{StationID: id, Priority: i + 1})
			}

			n, err := app.Plans.SaveNode(ctx, planID, args[0], req)
			if err != nil {
				return err
			}
			fmt.Print(formatter.FormatNode(n))
			return nil
		},
	}

	cmd.Flags().StringVar(&planID, "plan", "", "Plan ID")
	_ = cmd.MarkFlagRequired("plan")

	return cmd
}

// parseMaterials parses ID:NAME:QTY:UNIT rows; QTY of "?" records an
// unknown quantity.
func parseMaterials(rows []string) ([]domain.MaterialEntry, error) {
	out := make([]domain.MaterialEntry, 0, len(rows))
	for _, raw := range rows {
		parts := strings.Split(raw, ":")
		if len(parts) != 4 {
			return nil, fmt.Errorf("invalid material %q: want ID:NAME:QTY:UNIT", raw)
		}
		entry := domain.MaterialEntry{
			MaterialID: parts[0],
			Name:       parts[1],
			Unit:       parts[3],
		}
		if parts[2] != "?" && parts[2] != "" {
			qty, err := strconv.ParseFloat(parts[2], 64)
			if err != nil {
				return nil, fmt.Errorf("invalid material quantity %q: %w", parts[2], err)
			}
			entry.Quantity = &qty
		}
		out = append(out, entry)
	}
	return out, nil
}

// parseStations parses STATION_ID[:PRIORITY] bindings. Omitted
// priorities are assigned by position.
func parseStations(rows []string) ([]domain.StationSlot, error) {
	out := make([]domain.StationSlot, 0, len(rows))
	for i, raw := range rows {
		id, prioStr, found := strings.Cut(raw, ":")
		slot := domain.StationSlot{StationID: id, Priority: i + 1}
		if found {
			prio, err := strconv.Atoi(prioStr)
			if err != nil || prio < 1 {
				return nil, fmt.Errorf("invalid station priority %q", prioStr)
			}
			slot.Priority = prio
		}
		out = append(out, slot)
	}
	return out, nil
}

func validateOptionalInt(s string) error {
	if s == "" {
		return nil
	}
	if v, err := strconv.Atoi(s); err != nil || v < 0 {
		return fmt.Errorf("enter a non-negative whole number")
	}
	return nil
}
