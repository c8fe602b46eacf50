// Command setup prepares the database: it creates the application role and
// database when they are missing, runs migrations and seeds the sports catalog.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/catalog"
	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/config"
	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/database"
	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/logging"
)

func main() {
	logging.Setup()
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := run(ctx, cfg); err != nil {
		slog.Error("setup failed", "error", err)
		os.Exit(1)
	}
	slog.Info("setup complete", "driver", cfg.DBDriver, "database", cfg.DBName)
}

func run(ctx context.Context, cfg *config.Config) error {
	db, err := database.Connect(cfg)
	if err != nil && database.NeedsBootstrap(err) && cfg.DatabaseURL == "" {
		slog.Info("application database not reachable, bootstrapping", "reason", err)
		if err := database.Bootstrap(ctx, cfg); err != nil {
			return err
		}
		db, err = database.Connect(cfg)
	}
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			slog.Error("database close error", "error", err)
		}
	}()

	if err := database.Ping(ctx, db); err != nil {
		return err
	}
	if err := database.Migrate(db.WithContext(ctx)); err != nil {
		return err
	}
	slog.Info("migrations applied")

	entries, err := catalog.Load(cfg.SportsCatalogPath)
	if err != nil {
		return err
	}
	if err := catalog.Seed(ctx, db, entries); err != nil {
		return err
	}
	slog.Info("sports catalog seeded", "sports", len(entries))
	return nil
}
