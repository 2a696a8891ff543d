package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/zulandar/fleetyard/internal/reminder"
)

func newReminderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reminder",
		Short: "Maintenance reminder commands",
	}

	cmd.AddCommand(newReminderAddCmd())
	cmd.AddCommand(newReminderListCmd())
	cmd.AddCommand(newReminderDueCmd())
	cmd.AddCommand(newReminderDoneCmd())
	cmd.AddCommand(newReminderOffCmd())
	return cmd
}

func newReminderAddCmd() *cobra.Command {
	var (
		configPath string
		title      string
		cronExpr   string
	)

	cmd := &cobra.Command{
		Use:   "add <vehicle-id>",
		Short: "Add a recurring maintenance reminder",
		Long:  `Schedules a reminder with a 5-field cron expression, e.g. "0 8 1 * *" for the 1st of each month at 08:00.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReminderAdd(cmd, configPath, args[0], title, cronExpr)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "fleetyard.yaml", "path to Fleetyard config file")
	cmd.Flags().StringVar(&title, "title", "", "reminder title (required)")
	cmd.Flags().StringVar(&cronExpr, "cron", "", "5-field cron expression (required)")
	cmd.MarkFlagRequired("title")
	cmd.MarkFlagRequired("cron")
	return cmd
}

func runReminderAdd(cmd *cobra.Command, configPath, vehicleID, title, cronExpr string) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	rem, err := reminder.Create(gormDB, reminder.CreateOpts{
		VehicleID: vehicleID,
		Title:     title,
		CronExpr:  cronExpr,
	})
	if err != nil {
		return err
	}

	next, err := reminder.NextDue(rem)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created reminder %s\n", rem.ID)
	fmt.Fprintf(out, "Next due: %s\n", next.Format("2006-01-02 15:04"))
	return nil
}

func newReminderListCmd() *cobra.Command {
	var (
		configPath string
		vehicleID  string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List maintenance reminders",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReminderList(cmd, configPath, vehicleID)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "fleetyard.yaml", "path to Fleetyard config file")
	cmd.Flags().StringVar(&vehicleID, "vehicle", "", "filter by vehicle ID")
	return cmd
}

func runReminderList(cmd *cobra.Command, configPath, vehicleID string) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	rems, err := reminder.List(gormDB, vehicleID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(rems) == 0 {
		fmt.Fprintln(out, "No reminders found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tVEHICLE\tTITLE\tSCHEDULE\tACTIVE\tNEXT DUE")
	for _, rem := range rems {
		next := "-"
		if rem.Active {
			if t, err := reminder.NextDue(&rem); err == nil {
				next = t.Format("2006-01-02 15:04")
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\t%s\n", rem.ID, rem.VehicleID, rem.Title, rem.CronExpr, rem.Active, next)
	}
	return w.Flush()
}

func newReminderDueCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "due",
		Short: "List reminders that are due now",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReminderDue(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "fleetyard.yaml", "path to Fleetyard config file")
	return cmd
}

func runReminderDue(cmd *cobra.Command, configPath string) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	due, err := reminder.Due(gormDB, time.Now())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(due) == 0 {
		fmt.Fprintln(out, "Nothing due.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tVEHICLE\tTITLE\tSCHEDULE")
	for _, rem := range due {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", rem.ID, rem.VehicleID, rem.Title, rem.CronExpr)
	}
	return w.Flush()
}

func newReminderDoneCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "done <reminder-id>",
		Short: "Mark a due reminder as handled",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReminderDone(cmd, configPath, args[0])
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "fleetyard.yaml", "path to Fleetyard config file")
	return cmd
}

func runReminderDone(cmd *cobra.Command, configPath, id string) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	if err := reminder.MarkFired(gormDB, id, time.Now()); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Reminder %s marked handled\n", id)
	return nil
}

func newReminderOffCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "off <reminder-id>",
		Short: "Deactivate a reminder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReminderOff(cmd, configPath, args[0])
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "fleetyard.yaml", "path to Fleetyard config file")
	return cmd
}

func runReminderOff(cmd *cobra.Command, configPath, id string) error {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	if err := reminder.Deactivate(gormDB, id); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Reminder %s deactivated\n", id)
	return nil
}
