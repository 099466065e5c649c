package config

import (
	"testing"
	"time"
)

func TestLoadAPIFromEnvDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("STONKBOT_API_ADDR", "")
	t.Setenv("STONKBOT_DATA_DIR", "")
	t.Setenv("STONKBOT_DAILY_REWARD", "")

	cfg := LoadAPIFromEnv()
	if cfg.Addr != ":8080" || cfg.DataDir != "./data" || cfg.DailyReward != 10000 {
		t.Fatalf("defaults = %+v", cfg)
	}
}

func TestLoadAPIFromEnvPortWins(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("STONKBOT_API_ADDR", ":7777")

	if cfg := LoadAPIFromEnv(); cfg.Addr != ":9000" {
		t.Fatalf("addr = %q, want :9000", cfg.Addr)
	}

	t.Setenv("PORT", ":9001")
	if cfg := LoadAPIFromEnv(); cfg.Addr != ":9001" {
		t.Fatalf("addr = %q, want :9001", cfg.Addr)
	}
}

func TestLoadBotFromEnvRequiresToken(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "")
	if _, err := LoadBotFromEnv(); err == nil {
		t.Fatal("expected error without DISCORD_TOKEN")
	}

	t.Setenv("DISCORD_TOKEN", "abc")
	t.Setenv("STONKBOT_TICK_EVERY", "30s")
	t.Setenv("STONKBOT_COMMAND_PREFIX", "?")
	cfg, err := LoadBotFromEnv()
	if err != nil {
		t.Fatalf("LoadBotFromEnv: %v", err)
	}
	if cfg.TickEvery != 30*time.Second || cfg.CommandPrefix != "?" {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestEnvParseFallbacks(t *testing.T) {
	t.Setenv("STONKBOT_TICK_EVERY", "soon")
	t.Setenv("STONKBOT_DAILY_REWARD", "lots")
	t.Setenv("STONKBOT_RUN_ONCE", "perhaps")
	t.Setenv("DISCORD_TOKEN", "abc")

	cfg, err := LoadBotFromEnv()
	if err != nil {
		t.Fatalf("LoadBotFromEnv: %v", err)
	}
	if cfg.TickEvery != time.Minute || cfg.DailyReward != 10000 || cfg.RunOnce {
		t.Fatalf("fallbacks = %+v", cfg)
	}
}
