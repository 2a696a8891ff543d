package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/zulandar/fleetyard/internal/checklist"
	"github.com/zulandar/fleetyard/internal/defect"
	"github.com/zulandar/fleetyard/internal/inspection"
	"github.com/zulandar/fleetyard/internal/models"
	"github.com/zulandar/fleetyard/internal/workorder"
)

func newWorkOrderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "workorder",
		Aliases: []string{"wo"},
		Short:   "Work order commands",
	}

	cmd.AddCommand(newWorkOrderListCmd())
	cmd.AddCommand(newWorkOrderShowCmd())
	cmd.AddCommand(newWorkOrderStatusCmd())
	cmd.AddCommand(newWorkOrderSynthCmd())
	return cmd
}

func newWorkOrderListCmd() *cobra.Command {
	var (
		configPath string
		vehicleID  string
		status     string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List work orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorkOrderList(cmd, configPath, vehicleID, status)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "fleetyard.yaml", "path to Fleetyard config file")
	cmd.Flags().StringVar(&vehicleID, "vehicle", "", "filter by vehicle ID")
	cmd.Flags().StringVar(&status, "status", "", "filter by status")
	return cmd
}

func runWorkOrderList(cmd *cobra.Command, configPath, vehicleID, status string) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	orders, err := workorder.List(gormDB, workorder.ListFilters{
		VehicleID: vehicleID,
		Status:    models.WorkOrderStatus(status),
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(orders) == 0 {
		fmt.Fprintln(out, "No work orders found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tORDER\tVEHICLE\tSTATUS\tPRIORITY\tEST HOURS\tCREATED")
	for _, wo := range orders {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%.1f\t%s\n",
			wo.ID, wo.OrderNumber, wo.VehicleName, wo.Status, wo.Priority,
			wo.EstimatedHours, wo.CreatedAt.Format("2006-01-02"))
	}
	return w.Flush()
}

func newWorkOrderShowCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "show <workorder-id>",
		Short: "Show a work order and its repair items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorkOrderShow(cmd, configPath, args[0])
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "fleetyard.yaml", "path to Fleetyard config file")
	return cmd
}

func runWorkOrderShow(cmd *cobra.Command, configPath, id string) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	wo, err := workorder.Get(gormDB, id)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Work order: %s (%s)\n", wo.OrderNumber, wo.ID)
	fmt.Fprintf(out, "Vehicle: %s (%s)\n", wo.VehicleName, wo.VehicleID)
	fmt.Fprintf(out, "Inspection: %s\n", wo.InspectionID)
	fmt.Fprintf(out, "Status: %s\n", wo.Status)
	fmt.Fprintf(out, "Priority: %d\n", wo.Priority)
	fmt.Fprintf(out, "Estimate: %.1f h / $%.2f\n", wo.EstimatedHours, float64(wo.EstimatedCost)/100)
	if wo.AssignedTo != "" {
		fmt.Fprintf(out, "Assigned to: %s\n", wo.AssignedTo)
	}

	fmt.Fprintln(out, "\nItems:")
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tSEVERITY\tCOMPONENT\tDESCRIPTION")
	for _, item := range wo.Items {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", item.Ordinal+1, item.DefectType, item.ComponentCode, item.Description)
	}
	return w.Flush()
}

func newWorkOrderStatusCmd() *cobra.Command {
	var (
		configPath string
		assignee   string
	)

	cmd := &cobra.Command{
		Use:   "status <workorder-id> <status>",
		Short: "Advance a work order through the dispatch lifecycle",
		Long:  "Moves a work order between pending, assigned, in_progress, completed, and cancelled.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorkOrderStatus(cmd, configPath, args[0], args[1], assignee)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "fleetyard.yaml", "path to Fleetyard config file")
	cmd.Flags().StringVar(&assignee, "assignee", "", "mechanic to assign (with status=assigned)")
	return cmd
}

func runWorkOrderStatus(cmd *cobra.Command, configPath, id, status, assignee string) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	if err := workorder.UpdateStatus(gormDB, id, models.WorkOrderStatus(status), assignee); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Work order %s is now %s\n", id, status)
	return nil
}

func newWorkOrderSynthCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "synth <inspection-id>",
		Short: "Manually synthesize a work order from a closed inspection",
		Long: `Re-runs defect classification and work-order synthesis for an inspection
that reached a terminal state. Use this when the automatic synthesis at
completion time failed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorkOrderSynth(cmd, configPath, args[0])
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "fleetyard.yaml", "path to Fleetyard config file")
	return cmd
}

func runWorkOrderSynth(cmd *cobra.Command, configPath, inspectionID string) error {
	cfg, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	insp, err := inspection.Get(gormDB, inspectionID)
	if err != nil {
		return err
	}
	if !insp.Status.Terminal() {
		return fmt.Errorf("inspection %s is %s; only closed inspections have a defect list", insp.ID, insp.Status)
	}

	items, err := checklist.GetItems(gormDB, insp.ID)
	if err != nil {
		return err
	}
	defects := defect.Classify(items)
	if len(defects) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "Inspection %s has no defects; nothing to synthesize.\n", insp.ID)
		return nil
	}

	wo, err := workorder.Synthesize(gormDB, workorder.SynthesizeOpts{
		InspectionID: insp.ID,
		VehicleID:    insp.VehicleID,
		VehicleName:  insp.VehicleName,
		Defects:      defects,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Work order %s created (%d item(s), priority %d)\n", wo.OrderNumber, len(defects), wo.Priority)

	// Announce it on the configured channel, best-effort.
	dispatcher, err := buildDispatcher(cmd, cfg, gormDB)
	if err != nil {
		return err
	}
	if err := dispatcher.WorkOrderCreated(context.Background(), wo, len(defects)); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "WARNING: %v\n", err)
	}
	return nil
}
