package main

import (
	"context"
	"fmt"
	"os"

	"counsel_hub/internal/platform/config"
	"counsel_hub/internal/platform/database"
	"counsel_hub/internal/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var skipMigrate bool

// rootCmd serves the API when no subcommand is given.
var rootCmd = &cobra.Command{
	Use:   "counsel-hub",
	Short: "Counsel Hub API - blog posts and counseling appointments",
	Long: `Counsel Hub serves a JSON API for publishing blog posts and booking
counseling appointments.

Configuration is read from the environment and an optional .env file.`,
	SilenceUsage: true,
	RunE:         runServe,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&skipMigrate, "skip-migrate", false, "Do not apply schema migrations on start")
	rootCmd.AddCommand(serveCmd, createAdminCmd, migrateCmd)
}

// bootstrap loads configuration and opens the database, the common ground of
// every subcommand.
func bootstrap(ctx context.Context) (*config.Config, *zap.Logger, *pgxpool.Pool, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	log, err := logger.New(cfg.IsProduction())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init logger: %w", err)
	}

	pool, err := database.Connect(ctx, cfg.DBConnStr, log)
	if err != nil {
		return nil, nil, nil, err
	}
	if !skipMigrate {
		if err := database.Migrate(ctx, pool, log); err != nil {
			pool.Close()
			return nil, nil, nil, err
		}
	}
	return cfg, log, pool, nil
}
