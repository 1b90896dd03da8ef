package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/oatsaysai/lend-reminder/internal/reminder"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
Auth:
  JWTSecret: s3cret
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "8080" || !cfg.Server.Enabled {
		t.Fatalf("unexpected server config %+v", cfg.Server)
	}
	if cfg.Storage.Driver != "postgres" || cfg.PostgreSQL.Port != 5432 || cfg.PostgreSQL.PoolMaxConns != 10 {
		t.Fatalf("unexpected storage defaults %+v %+v", cfg.Storage, cfg.PostgreSQL)
	}
	if got := cfg.Reminder.Policy(); got != reminder.DefaultPolicy {
		t.Fatalf("expected default policy, got %+v", got)
	}
	if cfg.DiscordBot.DefaultCurrency != "INR" {
		t.Fatalf("expected INR default currency, got %q", cfg.DiscordBot.DefaultCurrency)
	}
}

func TestLoadReadsFileAndEnv(t *testing.T) {
	path := writeConfig(t, `
DiscordBot:
  Token: abc
Server:
  Enabled: false
Storage:
  Driver: SQLite
SQLite:
  Path: /tmp/loans.db
Reminder:
  CooldownDays: 5
`)
	t.Setenv("REMINDER_MAXREMINDERS", "4")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Storage.Driver != "sqlite" || cfg.SQLite.Path != "/tmp/loans.db" {
		t.Fatalf("unexpected storage %+v %+v", cfg.Storage, cfg.SQLite)
	}
	want := reminder.Policy{GraceDays: 3, CooldownDays: 5, MaxReminders: 4}
	if got := cfg.Reminder.Policy(); got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := map[string]string{
		"missing jwt secret": "Server:\n  Enabled: true\n",
		"nothing to run":     "Server:\n  Enabled: false\n",
		"unknown driver":     "Auth:\n  JWTSecret: x\nStorage:\n  Driver: mongo\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, body)); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}
