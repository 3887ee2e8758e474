package main

// Run database migrations:
//   go run ./cmd/migrate

import (
	"context"
	"os"

	"a11y-backend/internal/shared/config"
	"a11y-backend/internal/shared/storage/db"
	"a11y-backend/internal/shared/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		telemetry.Error("config.load_failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	telemetry.Configure(cfg.LogLevel)
	ctx := context.Background()

	opts := db.OptionsFromEnv(db.DefaultMigrateOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		telemetry.Error("migrate.connect_failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	defer sqlDB.Close()

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		telemetry.Error("migrate.failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	version, err := db.CurrentVersion(ctx, sqlDB)
	if err != nil {
		telemetry.Warn("migrate.version_unknown", map[string]any{"error": err.Error()})
		return
	}
	telemetry.Info("migrate.complete", map[string]any{"version": version})
}
