package main

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zulandar/fleetyard/internal/checklist"
	"github.com/zulandar/fleetyard/internal/config"
	"github.com/zulandar/fleetyard/internal/db"
	"gorm.io/gorm"
)

func newDBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Database management commands",
	}

	cmd.AddCommand(newDBInitCmd())
	cmd.AddCommand(newDBResetCmd())
	return cmd
}

func newDBInitCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the Fleetyard database",
		Long:  "Creates the store, migrates all tables, and seeds checklist templates from the templates directory.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDBInit(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "fleetyard.yaml", "path to Fleetyard config file")
	return cmd
}

func runDBInit(cmd *cobra.Command, configPath string) error {
	out := cmd.OutOrStdout()

	cfg, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Loaded config for company %q from %s\n", cfg.Company, configPath)

	if err := db.AutoMigrate(gormDB); err != nil {
		return err
	}
	fmt.Fprintf(out, "Migrated %d tables\n", len(db.AllModels()))

	templates, err := checklist.LoadTemplatesDir(cfg.Templates.Dir)
	if errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(out, "Templates directory %s not found; skipping seed\n", cfg.Templates.Dir)
		fmt.Fprintln(out, "\nFleetyard database initialized successfully.")
		return nil
	}
	if err != nil {
		return err
	}
	for _, tf := range templates {
		if _, err := checklist.SeedTemplate(gormDB, tf); err != nil {
			return err
		}
	}
	fmt.Fprintf(out, "Seeded %d checklist template(s):", len(templates))
	for _, tf := range templates {
		fmt.Fprintf(out, " %s(v%d)", tf.Class, tf.Version)
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, "\nFleetyard database initialized successfully.")
	return nil
}

func newDBResetCmd() *cobra.Command {
	var (
		configPath string
		yes        bool
	)

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete and re-initialize the Fleetyard database",
		Long: `Deletes the SQLite store file and re-initializes it (migrate + seed).

Only available in sqlite mode; a shared depot database must be reset on the
depot server.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDBReset(cmd, configPath, yes)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "fleetyard.yaml", "path to Fleetyard config file")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation prompt")
	return cmd
}

func runDBReset(cmd *cobra.Command, configPath string, skipConfirm bool) error {
	out := cmd.OutOrStdout()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.Store.Driver != "sqlite" {
		return fmt.Errorf("db reset only supports sqlite stores; depot mode is reset on the server")
	}

	if !skipConfirm {
		fmt.Fprintf(out, "This will delete %s and all inspection history. Continue? [y/N] ", cfg.Store.Path)
		reader := bufio.NewReader(cmd.InOrStdin())
		answer, _ := reader.ReadString('\n')
		if strings.ToLower(strings.TrimSpace(answer)) != "y" {
			fmt.Fprintln(out, "Aborted.")
			return nil
		}
	}

	if err := os.Remove(cfg.Store.Path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s: %w", cfg.Store.Path, err)
	}
	fmt.Fprintf(out, "Removed %s\n", cfg.Store.Path)

	return runDBInit(cmd, configPath)
}

// connectFromConfig loads the config and opens the configured store.
func connectFromConfig(configPath string) (*config.Config, *gorm.DB, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	var gormDB *gorm.DB
	switch cfg.Store.Driver {
	case "depot":
		gormDB, err = db.ConnectDepot(cfg.Store.Host, cfg.Store.Port, cfg.Store.Database)
	default:
		gormDB, err = db.Connect(cfg.Store.Path)
	}
	if err != nil {
		return nil, nil, err
	}

	return cfg, gormDB, nil
}
