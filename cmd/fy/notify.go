package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zulandar/fleetyard/internal/config"
	"github.com/zulandar/fleetyard/internal/inspection"
	"github.com/zulandar/fleetyard/internal/notify"
	discordadapter "github.com/zulandar/fleetyard/internal/notify/discord"
	slackadapter "github.com/zulandar/fleetyard/internal/notify/slack"
	"golang.org/x/term"
	"gorm.io/gorm"
)

func newNotifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Chat notification commands",
	}

	cmd.AddCommand(newNotifyLoginCmd())
	cmd.AddCommand(newNotifyTestCmd())
	cmd.AddCommand(newNotifyReplayCmd())
	return cmd
}

func newNotifyLoginCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store the chat platform bot token",
		Long:  "Prompts for the bot token without echoing it and writes it to the configured token file.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNotifyLogin(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "fleetyard.yaml", "path to Fleetyard config file")
	return cmd
}

func runNotifyLogin(cmd *cobra.Command, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.Notify.Platform == "" {
		return fmt.Errorf("notify.platform is not configured in %s", configPath)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s bot token: ", cfg.Notify.Platform)
	token, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(out)
	if err != nil {
		return fmt.Errorf("read token: %w", err)
	}
	if len(token) == 0 {
		return fmt.Errorf("empty token")
	}

	if err := os.WriteFile(cfg.Notify.TokenFile, append(token, '\n'), 0o600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	fmt.Fprintf(out, "Token written to %s\n", cfg.Notify.TokenFile)
	return nil
}

func newNotifyTestCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "test",
		Short: "Send a test message to the configured channel",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNotifyTest(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "fleetyard.yaml", "path to Fleetyard config file")
	return cmd
}

func runNotifyTest(cmd *cobra.Command, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	adapter, err := buildAdapter(cfg)
	if err != nil {
		return err
	}
	if adapter == nil {
		return fmt.Errorf("notify.platform is not configured in %s", configPath)
	}

	ctx := context.Background()
	if err := adapter.Connect(ctx); err != nil {
		return err
	}
	defer adapter.Close()

	msg := notify.OutboundMessage{
		ChannelID: cfg.Notify.ChannelID,
		Text:      "Fleetyard notification test",
		Event: &notify.Event{
			Title:    "Fleetyard notification test",
			Body:     fmt.Sprintf("Sent by %s", cfg.Technician),
			Severity: "info",
			Color:    notify.ColorInfo,
		},
	}
	if err := adapter.Send(ctx, msg); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Test message sent.")
	return nil
}

func newNotifyReplayCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Re-send undelivered notifications",
		Long:  "Posts every undelivered outbox row to the configured channel, oldest first.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNotifyReplay(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "fleetyard.yaml", "path to Fleetyard config file")
	return cmd
}

func runNotifyReplay(cmd *cobra.Command, configPath string) error {
	cfg, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	adapter, err := buildAdapter(cfg)
	if err != nil {
		return err
	}
	if adapter == nil {
		return fmt.Errorf("notify.platform is not configured in %s", configPath)
	}

	ctx := context.Background()
	if err := adapter.Connect(ctx); err != nil {
		return err
	}
	defer adapter.Close()

	dispatcher, err := notify.NewDispatcher(notify.DispatcherOpts{
		DB:        gormDB,
		Adapter:   adapter,
		ChannelID: cfg.Notify.ChannelID,
	})
	if err != nil {
		return err
	}

	sent, err := dispatcher.Replay(ctx)
	fmt.Fprintf(cmd.OutOrStdout(), "Delivered %d notification(s)\n", sent)
	return err
}

// buildAdapter constructs the configured chat adapter, or nil when no
// platform is configured.
func buildAdapter(cfg *config.Config) (notify.Adapter, error) {
	if cfg.Notify.Platform == "" {
		return nil, nil
	}

	token, err := readToken(cfg.Notify.TokenFile)
	if err != nil {
		return nil, err
	}

	switch cfg.Notify.Platform {
	case "slack":
		return slackadapter.New(slackadapter.AdapterOpts{
			BotToken:  token,
			ChannelID: cfg.Notify.ChannelID,
		})
	case "discord":
		return discordadapter.New(discordadapter.AdapterOpts{
			BotToken:  token,
			ChannelID: cfg.Notify.ChannelID,
		})
	}
	return nil, fmt.Errorf("unsupported notify platform %q", cfg.Notify.Platform)
}

func readToken(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read token file %s (run `fy notify login` first): %w", path, err)
	}
	return strings.TrimSpace(string(data)), nil
}

// buildDispatcher wires the notification dispatcher. When no platform is
// configured or the token file is missing, events are recorded to the
// outbox only and a warning is printed.
func buildDispatcher(cmd *cobra.Command, cfg *config.Config, gormDB *gorm.DB) (*notify.Dispatcher, error) {
	adapter, err := buildAdapter(cfg)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "notify: %v; events will be recorded to the outbox only\n", err)
		adapter = nil
	}

	if adapter != nil {
		if err := adapter.Connect(context.Background()); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "notify: %v; events will be recorded to the outbox only\n", err)
			adapter = nil
		}
	}

	return notify.NewDispatcher(notify.DispatcherOpts{
		DB:        gormDB,
		Adapter:   adapter,
		ChannelID: cfg.Notify.ChannelID,
	})
}

// buildEngine wires the inspection engine with the configured notifier.
func buildEngine(cmd *cobra.Command, cfg *config.Config, gormDB *gorm.DB) (*inspection.Engine, error) {
	dispatcher, err := buildDispatcher(cmd, cfg, gormDB)
	if err != nil {
		return nil, err
	}

	return inspection.NewEngine(inspection.EngineOpts{
		DB:       gormDB,
		Notifier: dispatcher,
	})
}
