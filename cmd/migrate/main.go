package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/trackify/trackify-backend-go/internal/config"
	"github.com/trackify/trackify-backend-go/internal/pkg/database"
	"github.com/trackify/trackify-backend-go/internal/repository/postgresql"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Error loading config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		slog.Error("Error connecting to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	applied, err := postgresql.Migrate(ctx, db)
	if err != nil {
		slog.Error("Migration failed", "error", err)
		db.Close()
		os.Exit(1)
	}

	if len(applied) == 0 {
		slog.Info("Schema is up to date")
		return
	}
	slog.Info("Migrations applied", "count", len(applied), "migrations", applied)
}
