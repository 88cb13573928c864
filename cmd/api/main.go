package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/yigit/collabhub/internal/bootstrap"
	"github.com/yigit/collabhub/internal/config"
	"github.com/yigit/collabhub/internal/db"
	"github.com/yigit/collabhub/internal/pkg/logger"
	"github.com/yigit/collabhub/internal/seed"
	"github.com/yigit/collabhub/internal/server"
)

// @title CollabHub API
// @version 1.0
// @description API for discovering student projects and joining them as a contributor

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization

var (
	configPath string
	migrate    bool
)

var rootCmd = &cobra.Command{
	Use:          "collabhub",
	Short:        "CollabHub project collaboration API",
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withDatabase(cmd.Context(), func(ctx context.Context, cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) error {
			return bootstrap.RunMigrations(ctx, cfg, database, lgr)
		})
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create demo users and a demo project",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withDatabase(cmd.Context(), func(ctx context.Context, cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) error {
			deps := bootstrap.BuildDependencies(cfg, database, lgr)
			return seed.CreateDefaultData(ctx, deps.Repos, lgr)
		})
	},
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Run one reconciliation sweep over approved join requests",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withDatabase(cmd.Context(), func(ctx context.Context, cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) error {
			deps := bootstrap.BuildDependencies(cfg, database, lgr)
			report, err := deps.ReconciliationService.Reconcile(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "examined=%d repaired=%d skipped=%d failed=%d\n",
				report.Examined, report.Repaired, report.Skipped, report.Failed)
			return nil
		})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", filepath.Join("configs", "config.yaml"), "path to the YAML config file")
	rootCmd.Flags().BoolVar(&migrate, "migrate", true, "apply pending migrations before serving")
	serveCmd.Flags().BoolVar(&migrate, "migrate", true, "apply pending migrations before serving")

	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd, reconcileCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	srv, err := server.NewServer(cmd.Context(), server.Options{ConfigPath: configPath, Migrate: migrate})
	if err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	if err := srv.Run(cmd.Context()); err != nil {
		return err
	}

	logger.Info().Msg("Application finished gracefully.")
	return nil
}

// withDatabase loads config, connects and runs fn, closing the pool afterwards
func withDatabase(ctx context.Context, fn func(ctx context.Context, cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) error) error {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(configPath)
	if err != nil {
		return err
	}

	database, err := bootstrap.SetupDatabase(cfg, lgr)
	if err != nil {
		return err
	}
	defer database.Close()

	return fn(ctx, cfg, database, lgr)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		logger.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}
