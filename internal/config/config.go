// Package config provides YAML-based configuration loading for Fleetyard.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the top-level Fleetyard configuration, loaded from fleetyard.yaml.
type Config struct {
	Company    string          `yaml:"company"`
	Technician string          `yaml:"technician"`
	Store      StoreConfig     `yaml:"store"`
	Templates  TemplatesConfig `yaml:"templates"`
	Notify     NotifyConfig    `yaml:"notify"`
	Dashboard  DashboardConfig `yaml:"dashboard"`
}

// StoreConfig selects the persistence backend: the embedded SQLite file
// (default) or a shared MySQL depot server.
type StoreConfig struct {
	Driver   string `yaml:"driver"` // "sqlite" or "depot"
	Path     string `yaml:"path"`   // sqlite file path
	Host     string `yaml:"host"`   // depot host
	Port     int    `yaml:"port"`   // depot port
	Database string `yaml:"database"`
}

// TemplatesConfig points at the checklist template YAML files.
type TemplatesConfig struct {
	Dir string `yaml:"dir"`
}

// NotifyConfig holds chat notification settings.
type NotifyConfig struct {
	Platform  string `yaml:"platform"` // "slack", "discord", or "" (disabled)
	ChannelID string `yaml:"channel_id"`
	TokenFile string `yaml:"token_file"` // written by `fy notify login`
}

// DashboardConfig holds the read-only dashboard server settings.
type DashboardConfig struct {
	Port int `yaml:"port"`
}

// Load reads a YAML config file from path and returns a validated Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML bytes into a validated Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults fills in derived and default values.
func (c *Config) applyDefaults() {
	if c.Store.Driver == "" {
		c.Store.Driver = "sqlite"
	}
	if c.Store.Driver == "sqlite" && c.Store.Path == "" {
		c.Store.Path = "fleetyard.db"
	}
	if c.Store.Driver == "depot" {
		if c.Store.Host == "" {
			c.Store.Host = "127.0.0.1"
		}
		if c.Store.Port == 0 {
			c.Store.Port = 3306
		}
		if c.Store.Database == "" && c.Company != "" {
			c.Store.Database = "fleetyard_" + strings.ToLower(c.Company)
		}
	}
	if c.Templates.Dir == "" {
		c.Templates.Dir = "templates"
	}
	if c.Notify.TokenFile == "" {
		c.Notify.TokenFile = ".fleetyard-token"
	}
	if c.Dashboard.Port == 0 {
		c.Dashboard.Port = 8080
	}
}

// validate checks that all required fields are present and consistent.
func (c *Config) validate() error {
	var errs []string
	if c.Company == "" {
		errs = append(errs, "company is required")
	}
	if c.Technician == "" {
		errs = append(errs, "technician is required")
	}
	switch c.Store.Driver {
	case "sqlite", "depot":
	default:
		errs = append(errs, fmt.Sprintf("store.driver %q is not supported (sqlite, depot)", c.Store.Driver))
	}
	if c.Store.Driver == "depot" && c.Store.Database == "" {
		errs = append(errs, "store.database is required in depot mode")
	}
	switch c.Notify.Platform {
	case "", "slack", "discord":
	default:
		errs = append(errs, fmt.Sprintf("notify.platform %q is not supported (slack, discord)", c.Notify.Platform))
	}
	if c.Notify.Platform != "" && c.Notify.ChannelID == "" {
		errs = append(errs, "notify.channel_id is required when notify.platform is set")
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
