package main

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/zulandar/fleetyard/internal/checklist"
	"github.com/zulandar/fleetyard/internal/inspection"
	"github.com/zulandar/fleetyard/internal/models"
)

func newInspectionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "inspection",
		Aliases: []string{"insp"},
		Short:   "Inspection commands",
	}

	cmd.AddCommand(newInspectionStartCmd())
	cmd.AddCommand(newInspectionItemsCmd())
	cmd.AddCommand(newInspectionSetCmd())
	cmd.AddCommand(newInspectionProofCmd())
	cmd.AddCommand(newInspectionShowCmd())
	cmd.AddCommand(newInspectionListCmd())
	return cmd
}

func newInspectionStartCmd() *cobra.Command {
	var (
		configPath string
		inspType   string
		odometer   int
		notes      string
	)

	cmd := &cobra.Command{
		Use:   "start <vehicle-id>",
		Short: "Start an inspection against a vehicle",
		Long:  "Creates a draft inspection and clones the checklist template for the vehicle's class.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspectionStart(cmd, configPath, args[0], inspType, odometer, notes)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "fleetyard.yaml", "path to Fleetyard config file")
	cmd.Flags().StringVar(&inspType, "type", "periodic", "inspection type (periodic, pre_trip, post_trip, incident)")
	cmd.Flags().IntVar(&odometer, "odometer", 0, "odometer reading")
	cmd.Flags().StringVar(&notes, "notes", "", "free-form notes")
	return cmd
}

func runInspectionStart(cmd *cobra.Command, configPath, vehicleID, inspType string, odometer int, notes string) error {
	cfg, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	engine, err := buildEngine(cmd, cfg, gormDB)
	if err != nil {
		return err
	}

	insp, err := engine.Start(inspection.StartOpts{
		VehicleID:  vehicleID,
		Technician: cfg.Technician,
		Type:       inspType,
		Odometer:   odometer,
		Notes:      notes,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Started %s inspection %s on %s\n", insp.Type, insp.ID, insp.VehicleName)
	fmt.Fprintf(out, "Checklist items: %d\n", insp.TotalItems)
	fmt.Fprintf(out, "Work through them with: fy inspection items %s\n", insp.ID)
	return nil
}

func newInspectionItemsCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "items <inspection-id>",
		Short: "List checklist items in walkthrough order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspectionItems(cmd, configPath, args[0])
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "fleetyard.yaml", "path to Fleetyard config file")
	return cmd
}

func runInspectionItems(cmd *cobra.Command, configPath, inspectionID string) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	items, err := checklist.GetItems(gormDB, inspectionID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tID\tSECTION\tITEM\tSTATUS\tNOTES")
	for _, item := range items {
		required := ""
		if !item.IsRequired {
			required = " (optional)"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s%s\t%s\t%s\n",
			item.Ordinal+1, item.ID, item.SectionName, item.Title, required, item.Status, item.Notes)
	}
	return w.Flush()
}

func newInspectionSetCmd() *cobra.Command {
	var (
		configPath string
		notes      string
	)

	cmd := &cobra.Command{
		Use:   "set <item-id> <status>",
		Short: "Resolve a checklist item",
		Long: `Resolves a checklist item as ok, minor_defect, or major_defect.

Defect statuses require --notes or a previously attached proof photo.
Resolving the last pending item closes the inspection and, if defects were
found, synthesizes a work order.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspectionSet(cmd, configPath, args[0], args[1], notes)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "fleetyard.yaml", "path to Fleetyard config file")
	cmd.Flags().StringVar(&notes, "notes", "", "defect notes")
	return cmd
}

func runInspectionSet(cmd *cobra.Command, configPath, itemID, status, notes string) error {
	cfg, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	engine, err := buildEngine(cmd, cfg, gormDB)
	if err != nil {
		return err
	}

	res, err := engine.UpdateItem(context.Background(), itemID, checklist.UpdateOpts{
		Status: models.ItemStatus(status),
		Notes:  notes,
	})
	if err != nil {
		if errors.Is(err, checklist.ErrMissingEvidence) {
			return fmt.Errorf("%s needs evidence: add --notes or attach a proof photo first", itemID)
		}
		return err
	}

	out := cmd.OutOrStdout()
	insp := res.Inspection
	fmt.Fprintf(out, "%s → %s (%d/%d items done)\n", itemID, status, insp.CompletedItems, insp.TotalItems)

	switch insp.Status {
	case models.InspectionCompleted:
		fmt.Fprintf(out, "Inspection %s COMPLETED\n", insp.ID)
	case models.InspectionBlocked:
		fmt.Fprintf(out, "Inspection %s BLOCKED: %d major defect(s), vehicle out of service\n",
			insp.ID, insp.MajorDefectCount)
	case models.InspectionDraft, models.InspectionInProgress:
	}

	if res.WorkOrder != nil {
		fmt.Fprintf(out, "Work order %s created (%d item(s), priority %d)\n",
			res.WorkOrder.OrderNumber, len(res.WorkOrder.Items), res.WorkOrder.Priority)
	}

	if res.Downstream != nil {
		fmt.Fprintf(out, "WARNING: %v\n", res.Downstream)
		fmt.Fprintf(out, "The inspection outcome is saved. Retry the paperwork with: fy workorder synth %s\n", insp.ID)
	}
	return nil
}

func newInspectionProofCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "proof",
		Short: "Manage proof photos on checklist items",
	}

	cmd.AddCommand(newInspectionProofAddCmd())
	cmd.AddCommand(newInspectionProofRemoveCmd())
	return cmd
}

func newInspectionProofAddCmd() *cobra.Command {
	var (
		configPath string
		sha        string
	)

	cmd := &cobra.Command{
		Use:   "add <item-id> <photo-path>",
		Short: "Attach a proof photo to a checklist item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProofAdd(cmd, configPath, args[0], args[1], sha)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "fleetyard.yaml", "path to Fleetyard config file")
	cmd.Flags().StringVar(&sha, "sha256", "", "content hash of the photo")
	return cmd
}

func runProofAdd(cmd *cobra.Command, configPath, itemID, path, sha string) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	proof, err := checklist.AttachProof(gormDB, itemID, checklist.AttachOpts{Path: path, SHA256: sha})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Attached proof %s to %s\n", proof.ID, itemID)
	return nil
}

func newInspectionProofRemoveCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "remove <proof-id>",
		Short: "Remove a proof photo before submission",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProofRemove(cmd, configPath, args[0])
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "fleetyard.yaml", "path to Fleetyard config file")
	return cmd
}

func runProofRemove(cmd *cobra.Command, configPath, proofID string) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	if err := checklist.RemoveProof(gormDB, proofID); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Removed proof %s\n", proofID)
	return nil
}

func newInspectionShowCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "show <inspection-id>",
		Short: "Show inspection status and counters",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspectionShow(cmd, configPath, args[0])
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "fleetyard.yaml", "path to Fleetyard config file")
	return cmd
}

func runInspectionShow(cmd *cobra.Command, configPath, id string) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	insp, err := inspection.Get(gormDB, id)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Inspection: %s (%s)\n", insp.ID, insp.Type)
	fmt.Fprintf(out, "Vehicle: %s (%s)\n", insp.VehicleName, insp.VehicleID)
	fmt.Fprintf(out, "Technician: %s\n", insp.Technician)
	fmt.Fprintf(out, "Status: %s\n", insp.Status)
	fmt.Fprintf(out, "Progress: %d/%d (ok %d, minor %d, major %d)\n",
		insp.CompletedItems, insp.TotalItems, insp.OkCount, insp.MinorDefectCount, insp.MajorDefectCount)
	fmt.Fprintf(out, "Started: %s\n", insp.StartedAt.Format("2006-01-02 15:04"))
	if insp.CompletedAt != nil {
		fmt.Fprintf(out, "Completed: %s\n", insp.CompletedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func newInspectionListCmd() *cobra.Command {
	var (
		configPath string
		vehicleID  string
		status     string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List inspections",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspectionList(cmd, configPath, vehicleID, status)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "fleetyard.yaml", "path to Fleetyard config file")
	cmd.Flags().StringVar(&vehicleID, "vehicle", "", "filter by vehicle ID")
	cmd.Flags().StringVar(&status, "status", "", "filter by status (draft, in_progress, completed, blocked)")
	return cmd
}

func runInspectionList(cmd *cobra.Command, configPath, vehicleID, status string) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	inspections, err := inspection.List(gormDB, inspection.ListFilters{
		VehicleID: vehicleID,
		Status:    models.InspectionStatus(status),
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(inspections) == 0 {
		fmt.Fprintln(out, "No inspections found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tVEHICLE\tTYPE\tSTATUS\tPROGRESS\tSTARTED")
	for _, insp := range inspections {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d/%d\t%s\n",
			insp.ID, insp.VehicleName, insp.Type, insp.Status,
			insp.CompletedItems, insp.TotalItems, insp.StartedAt.Format("2006-01-02"))
	}
	return w.Flush()
}
