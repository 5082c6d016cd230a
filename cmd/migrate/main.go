package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/Dosada05/pokedex-tracker/config"
	"github.com/Dosada05/pokedex-tracker/db"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
)

func main() {
	command := flag.String("command", "up", "migrate command (up|down|status)")
	timeout := flag.Duration("timeout", time.Minute, "command timeout")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbConn.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		logger.Error("failed to set goose dialect", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	switch *command {
	case "up":
		err = goose.UpContext(ctx, dbConn, cfg.MigrationsDir)
	case "down":
		err = goose.DownContext(ctx, dbConn, cfg.MigrationsDir)
	case "status":
		err = goose.StatusContext(ctx, dbConn, cfg.MigrationsDir)
	default:
		logger.Error("unsupported command", slog.String("command", *command))
		os.Exit(1)
	}
	if err != nil {
		logger.Error("migration command failed", slog.String("command", *command), slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("migration command completed", slog.String("command", *command))
}
