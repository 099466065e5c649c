package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type APIConfig struct {
	Addr        string
	DataDir     string
	DailyReward float64
	LogLevel    string
}

type BotConfig struct {
	DiscordToken  string
	CommandPrefix string
	DataDir       string
	TickEvery     time.Duration
	DailyReward   float64
	LogLevel      string
	RunOnce       bool
}

type CLIConfig struct {
	APIBaseURL string
}

func LoadAPIFromEnv() APIConfig {
	addr := strings.TrimSpace(os.Getenv("PORT"))
	if addr != "" {
		if !strings.HasPrefix(addr, ":") {
			addr = ":" + addr
		}
	} else {
		addr = envDefault("STONKBOT_API_ADDR", ":8080")
	}
	return APIConfig{
		Addr:        addr,
		DataDir:     envDefault("STONKBOT_DATA_DIR", "./data"),
		DailyReward: envFloatDefault("STONKBOT_DAILY_REWARD", 10000),
		LogLevel:    envDefault("STONKBOT_LOG_LEVEL", "info"),
	}
}

func LoadBotFromEnv() (BotConfig, error) {
	cfg := BotConfig{
		DiscordToken:  strings.TrimSpace(os.Getenv("DISCORD_TOKEN")),
		CommandPrefix: envDefault("STONKBOT_COMMAND_PREFIX", "!"),
		DataDir:       envDefault("STONKBOT_DATA_DIR", "./data"),
		TickEvery:     envDurationDefault("STONKBOT_TICK_EVERY", time.Minute),
		DailyReward:   envFloatDefault("STONKBOT_DAILY_REWARD", 10000),
		LogLevel:      envDefault("STONKBOT_LOG_LEVEL", "info"),
		RunOnce:       envBoolDefault("STONKBOT_RUN_ONCE", false),
	}
	if cfg.DiscordToken == "" {
		return cfg, fmt.Errorf("DISCORD_TOKEN is required")
	}
	return cfg, nil
}

func LoadCLIFromEnv() CLIConfig {
	return CLIConfig{
		APIBaseURL: strings.TrimRight(envDefault("STONK_API_BASE_URL", "http://localhost:8080"), "/"),
	}
}

func envDefault(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func envDurationDefault(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func envFloatDefault(key string, fallback float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func envBoolDefault(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
