package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"

	"stonkbot/internal/config"
	"stonkbot/internal/game"
	"stonkbot/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()
	cfg, err := config.LoadBotFromEnv()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}
	logger := newLogger(cfg.LogLevel)

	st, err := store.New(cfg.DataDir, logger)
	if err != nil {
		logger.Error("store init failed", "err", err)
		os.Exit(1)
	}
	svc := game.NewService(st, logger)

	if cfg.RunOnce {
		svc.UpdatePrices()
		logger.Info("run-once tick completed")
		return
	}

	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		logger.Error("discord session failed", "err", err)
		os.Exit(1)
	}
	session.Identify.Intents = discordgo.IntentGuildMessages | discordgo.IntentMessageContent

	bot := newBot(svc, logger, cfg.CommandPrefix, cfg.DailyReward)
	session.AddHandler(bot.onMessage)
	session.AddHandler(func(s *discordgo.Session, _ *discordgo.Ready) {
		logger.Info("bot ready", "user", s.State.User.Username)
		_ = s.UpdateGameStatus(0, cfg.CommandPrefix+"도움말 | 주식")
	})

	if err := session.Open(); err != nil {
		logger.Error("discord connect failed", "err", err)
		os.Exit(1)
	}
	defer session.Close()

	// One goroutine owns the tick, so a slow persist delays the next tick
	// instead of overlapping it.
	ticker := time.NewTicker(cfg.TickEvery)
	defer ticker.Stop()

	logger.Info("worker started", "tick_every", cfg.TickEvery.String())
	for {
		select {
		case <-ctx.Done():
			logger.Info("worker shutdown")
			return
		case <-ticker.C:
			changes := svc.UpdatePrices()
			logger.Info("price tick complete", "stocks", len(changes))
		}
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
