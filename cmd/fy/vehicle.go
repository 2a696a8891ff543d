package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/zulandar/fleetyard/internal/models"
	"github.com/zulandar/fleetyard/internal/vehicle"
)

func newVehicleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vehicle",
		Short: "Fleet vehicle commands",
	}

	cmd.AddCommand(newVehicleAddCmd())
	cmd.AddCommand(newVehicleListCmd())
	cmd.AddCommand(newVehicleShowCmd())
	cmd.AddCommand(newVehicleStatusCmd())
	return cmd
}

func newVehicleAddCmd() *cobra.Command {
	var (
		configPath string
		opts       vehicle.CreateOpts
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a new vehicle",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVehicleAdd(cmd, configPath, opts)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "fleetyard.yaml", "path to Fleetyard config file")
	cmd.Flags().StringVar(&opts.Name, "name", "", "vehicle name (required)")
	cmd.Flags().StringVar(&opts.Class, "class", "", "vehicle class, selects the checklist template (required)")
	cmd.Flags().StringVar(&opts.UnitNumber, "unit", "", "fleet unit number")
	cmd.Flags().StringVar(&opts.VIN, "vin", "", "vehicle identification number")
	cmd.Flags().StringVar(&opts.Plate, "plate", "", "license plate")
	cmd.Flags().StringVar(&opts.Make, "make", "", "manufacturer")
	cmd.Flags().StringVar(&opts.Model, "model", "", "model")
	cmd.Flags().IntVar(&opts.Year, "year", 0, "model year")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("class")
	return cmd
}

func runVehicleAdd(cmd *cobra.Command, configPath string, opts vehicle.CreateOpts) error {
	cfg, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}
	opts.CompanyID = cfg.Company

	v, err := vehicle.Create(gormDB, opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Registered vehicle %s\n", v.ID)
	fmt.Fprintf(out, "Class: %s\n", v.Class)
	if v.UnitNumber != "" {
		fmt.Fprintf(out, "Unit: %s\n", v.UnitNumber)
	}
	return nil
}

func newVehicleListCmd() *cobra.Command {
	var (
		configPath string
		class      string
		status     string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List fleet vehicles",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVehicleList(cmd, configPath, class, status)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "fleetyard.yaml", "path to Fleetyard config file")
	cmd.Flags().StringVar(&class, "class", "", "filter by vehicle class")
	cmd.Flags().StringVar(&status, "status", "", "filter by status (active, inactive, maintenance)")
	return cmd
}

func runVehicleList(cmd *cobra.Command, configPath, class, status string) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	vehicles, err := vehicle.List(gormDB, vehicle.ListFilters{
		Class:  class,
		Status: models.VehicleStatus(status),
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(vehicles) == 0 {
		fmt.Fprintln(out, "No vehicles found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tUNIT\tNAME\tCLASS\tSTATUS\tLAST INSPECTION")
	for _, v := range vehicles {
		last := "-"
		if v.LastInspectionDate != nil {
			last = fmt.Sprintf("%s (%s)", v.LastInspectionDate.Format("2006-01-02"), v.LastInspectionStatus)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", v.ID, v.UnitNumber, v.Name, v.Class, v.Status, last)
	}
	return w.Flush()
}

func newVehicleShowCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "show <vehicle-id>",
		Short: "Show vehicle details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVehicleShow(cmd, configPath, args[0])
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "fleetyard.yaml", "path to Fleetyard config file")
	return cmd
}

func runVehicleShow(cmd *cobra.Command, configPath, id string) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	v, err := vehicle.Get(gormDB, id)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Vehicle: %s\n", v.ID)
	fmt.Fprintf(out, "Name: %s\n", v.Name)
	fmt.Fprintf(out, "Class: %s\n", v.Class)
	fmt.Fprintf(out, "Status: %s\n", v.Status)
	if v.VIN != "" {
		fmt.Fprintf(out, "VIN: %s\n", v.VIN)
	}
	if v.Plate != "" {
		fmt.Fprintf(out, "Plate: %s\n", v.Plate)
	}
	if v.Make != "" || v.Model != "" {
		fmt.Fprintf(out, "Make/Model: %s %s (%d)\n", v.Make, v.Model, v.Year)
	}
	if v.LastInspectionDate != nil {
		fmt.Fprintf(out, "Last inspection: %s (%s)\n",
			v.LastInspectionDate.Format("2006-01-02 15:04"), v.LastInspectionStatus)
	}
	return nil
}

func newVehicleStatusCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "status <vehicle-id> <status>",
		Short: "Set a vehicle's service status",
		Long:  "Moves a vehicle between active, inactive, and maintenance.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVehicleStatus(cmd, configPath, args[0], args[1])
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "fleetyard.yaml", "path to Fleetyard config file")
	return cmd
}

func runVehicleStatus(cmd *cobra.Command, configPath, id, status string) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	if err := vehicle.SetStatus(gormDB, id, models.VehicleStatus(status)); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Vehicle %s is now %s\n", id, status)
	return nil
}
