package config

import (
	"os"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "LOG_LEVEL", "TICK_INTERVAL", "TICK_COUNT", "INSTRUMENTS",
		"INBOX_SIZE", "SEED", "RANDOM_ACTORS", "SCRIPTED_ACTORS",
		"TREND_ACTORS", "CORPORATE_ACTORS", "STARTING_CASH",
		"CORPORATE_INVENTORY", "CORPORATE_OFFER", "VWAP_WINDOW",
		"READ_TIMEOUT", "WRITE_TIMEOUT", "IDLE_TIMEOUT", "SHUTDOWN_TIMEOUT",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
	if cfg.TickInterval != 50*time.Millisecond {
		t.Errorf("TickInterval = %v, want 50ms", cfg.TickInterval)
	}
	if cfg.TickCount != 250 {
		t.Errorf("TickCount = %d, want 250", cfg.TickCount)
	}
	if cfg.Instruments != 3 {
		t.Errorf("Instruments = %d, want 3", cfg.Instruments)
	}
	if cfg.InboxSize != 256 {
		t.Errorf("InboxSize = %d, want 256", cfg.InboxSize)
	}
	if cfg.RandomActors != 5 || cfg.ScriptedActors != 2 || cfg.TrendActors != 5 || cfg.CorporateActors != 1 {
		t.Errorf("actor mix = %d/%d/%d/%d, want 5/2/5/1",
			cfg.RandomActors, cfg.ScriptedActors, cfg.TrendActors, cfg.CorporateActors)
	}
	if cfg.StartingCash != 10000 {
		t.Errorf("StartingCash = %d, want 10000", cfg.StartingCash)
	}
	if cfg.CorporateInventory != 100 || cfg.CorporateOffer != 100 {
		t.Errorf("corporate = %d@%d, want 100@100", cfg.CorporateInventory, cfg.CorporateOffer)
	}
	if cfg.VWAPWindow != 5*time.Minute {
		t.Errorf("VWAPWindow = %v, want 5m", cfg.VWAPWindow)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("ShutdownTimeout = %v, want 10s", cfg.ShutdownTimeout)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("TICK_INTERVAL", "10ms")
	t.Setenv("TICK_COUNT", "40")
	t.Setenv("INSTRUMENTS", "2")
	t.Setenv("INBOX_SIZE", "64")
	t.Setenv("SEED", "42")
	t.Setenv("RANDOM_ACTORS", "0")
	t.Setenv("CORPORATE_OFFER", "250")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Port)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
	if cfg.TickInterval != 10*time.Millisecond {
		t.Errorf("TickInterval = %v, want 10ms", cfg.TickInterval)
	}
	if cfg.TickCount != 40 {
		t.Errorf("TickCount = %d, want 40", cfg.TickCount)
	}
	if cfg.Instruments != 2 {
		t.Errorf("Instruments = %d, want 2", cfg.Instruments)
	}
	if cfg.InboxSize != 64 {
		t.Errorf("InboxSize = %d, want 64", cfg.InboxSize)
	}
	if cfg.Seed != 42 {
		t.Errorf("Seed = %d, want 42", cfg.Seed)
	}
	if cfg.RandomActors != 0 {
		t.Errorf("RandomActors = %d, want 0", cfg.RandomActors)
	}
	if cfg.CorporateOffer != 250 {
		t.Errorf("CorporateOffer = %d, want 250", cfg.CorporateOffer)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad port", "PORT", "not-a-number"},
		{"bad log level", "LOG_LEVEL", "verbose"},
		{"bad tick interval", "TICK_INTERVAL", "fast"},
		{"zero tick count", "TICK_COUNT", "0"},
		{"negative tick count", "TICK_COUNT", "-5"},
		{"zero instruments", "INSTRUMENTS", "0"},
		{"zero inbox size", "INBOX_SIZE", "0"},
		{"negative actor count", "RANDOM_ACTORS", "-1"},
		{"negative starting cash", "STARTING_CASH", "-100"},
		{"zero corporate offer", "CORPORATE_OFFER", "0"},
		{"bad vwap window", "VWAP_WINDOW", "wide"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			if _, err := Load(); err == nil {
				t.Errorf("Load() accepted %s=%q", tt.key, tt.value)
			}
		})
	}
}
