package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func validYAML() string {
	return `
company: acme
technician: alice
`
}

func TestParse_Minimal(t *testing.T) {
	cfg, err := Parse([]byte(validYAML()))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Company != "acme" {
		t.Errorf("Company = %q, want acme", cfg.Company)
	}
	if cfg.Technician != "alice" {
		t.Errorf("Technician = %q, want alice", cfg.Technician)
	}
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte(validYAML()))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Store.Driver != "sqlite" {
		t.Errorf("Store.Driver = %q, want sqlite", cfg.Store.Driver)
	}
	if cfg.Store.Path != "fleetyard.db" {
		t.Errorf("Store.Path = %q, want fleetyard.db", cfg.Store.Path)
	}
	if cfg.Templates.Dir != "templates" {
		t.Errorf("Templates.Dir = %q, want templates", cfg.Templates.Dir)
	}
	if cfg.Notify.TokenFile != ".fleetyard-token" {
		t.Errorf("Notify.TokenFile = %q, want .fleetyard-token", cfg.Notify.TokenFile)
	}
	if cfg.Dashboard.Port != 8080 {
		t.Errorf("Dashboard.Port = %d, want 8080", cfg.Dashboard.Port)
	}
}

func TestParse_DepotDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
company: Acme
technician: alice
store:
  driver: depot
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Store.Host != "127.0.0.1" {
		t.Errorf("Store.Host = %q, want 127.0.0.1", cfg.Store.Host)
	}
	if cfg.Store.Port != 3306 {
		t.Errorf("Store.Port = %d, want 3306", cfg.Store.Port)
	}
	if cfg.Store.Database != "fleetyard_acme" {
		t.Errorf("Store.Database = %q, want fleetyard_acme", cfg.Store.Database)
	}
}

func TestParse_MissingCompany(t *testing.T) {
	_, err := Parse([]byte("technician: alice\n"))
	if err == nil {
		t.Fatal("expected error for missing company")
	}
	if !strings.Contains(err.Error(), "company is required") {
		t.Errorf("error = %q", err)
	}
}

func TestParse_MissingTechnician(t *testing.T) {
	_, err := Parse([]byte("company: acme\n"))
	if err == nil {
		t.Fatal("expected error for missing technician")
	}
	if !strings.Contains(err.Error(), "technician is required") {
		t.Errorf("error = %q", err)
	}
}

func TestParse_BadDriver(t *testing.T) {
	_, err := Parse([]byte(`
company: acme
technician: alice
store:
  driver: postgres
`))
	if err == nil {
		t.Fatal("expected error for unsupported driver")
	}
	if !strings.Contains(err.Error(), "store.driver") {
		t.Errorf("error = %q", err)
	}
}

func TestParse_BadPlatform(t *testing.T) {
	_, err := Parse([]byte(`
company: acme
technician: alice
notify:
  platform: teams
  channel_id: C1
`))
	if err == nil {
		t.Fatal("expected error for unsupported platform")
	}
	if !strings.Contains(err.Error(), "notify.platform") {
		t.Errorf("error = %q", err)
	}
}

func TestParse_PlatformRequiresChannel(t *testing.T) {
	_, err := Parse([]byte(`
company: acme
technician: alice
notify:
  platform: slack
`))
	if err == nil {
		t.Fatal("expected error for missing channel_id")
	}
	if !strings.Contains(err.Error(), "notify.channel_id is required") {
		t.Errorf("error = %q", err)
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("company: [unclosed"))
	if err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fleetyard.yaml")
	content := `
company: acme
technician: alice
notify:
  platform: discord
  channel_id: "123456"
dashboard:
  port: 9090
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Notify.Platform != "discord" {
		t.Errorf("Notify.Platform = %q, want discord", cfg.Notify.Platform)
	}
	if cfg.Notify.ChannelID != "123456" {
		t.Errorf("Notify.ChannelID = %q, want 123456", cfg.Notify.ChannelID)
	}
	if cfg.Dashboard.Port != 9090 {
		t.Errorf("Dashboard.Port = %d, want 9090", cfg.Dashboard.Port)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
