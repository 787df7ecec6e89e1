package main

// Run database migrations:
//   go run ./cmd/migrate

import (
	"context"
	"os"

	"resume-builder/internal/catalog"
	"resume-builder/internal/shared/config"
	"resume-builder/internal/shared/storage/db"
	"resume-builder/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()
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

	templates, err := catalog.DefaultSeed()
	if cfg.TemplatesFile != "" {
		templates, err = catalog.LoadSeedFile(cfg.TemplatesFile)
	}
	if err != nil {
		telemetry.Error("migrate.seed_load_failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	if err := catalog.NewService(&catalog.PGRepo{DB: sqlDB}).Seed(ctx, templates); err != nil {
		telemetry.Error("migrate.seed_failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	telemetry.Info("migrate.complete", map[string]any{"templates": len(templates)})
}
