package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/rodaworks/academy/internal/bootstrap"
	"github.com/rodaworks/academy/internal/devseed"
)

const defaultMigrationTimeout = 5 * time.Minute

// withDB loads config, connects to Postgres, and runs fn with the handle.
func withDB(ctx context.Context, logger *slog.Logger, fn func(context.Context, *sql.DB) error) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}

	db, err := bootstrap.ConnectDB(bootstrap.DatabaseConfig{
		DBConfig:    cfg.Postgres,
		RedisConfig: cfg.Redis,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			logger.ErrorContext(ctx, "close database failed", "error", cerr)
		}
	}()

	return fn(ctx, db)
}

func newMigrateCommand(logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDB(cmd.Context(), logger, func(ctx context.Context, db *sql.DB) error {
				migrateCtx, cancel := context.WithTimeout(ctx, defaultMigrationTimeout)
				defer cancel()
				return bootstrap.RunMigrations(migrateCtx, db, logger)
			})
		},
	}
}

func newSeedCommand(logger *slog.Logger) *cobra.Command {
	var skipMigrations bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Run migrations and seed development data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDB(cmd.Context(), logger, func(ctx context.Context, db *sql.DB) error {
				if !skipMigrations {
					migrateCtx, cancel := context.WithTimeout(ctx, defaultMigrationTimeout)
					defer cancel()
					if err := bootstrap.RunMigrations(migrateCtx, db, logger); err != nil {
						return err
					}
				}
				return devseed.Run(ctx, devseed.NewServices(db), logger)
			})
		},
	}

	cmd.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "seed without running migrations first")
	return cmd
}
