// Package cli implements the recipeshopper command line: the HTTP server
// (serve, the default) and a one-shot schema migration (migrate).
package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/JaidenRM/recipe-shopper-api/internal/config"
	"github.com/JaidenRM/recipe-shopper-api/internal/repo"
	"github.com/JaidenRM/recipe-shopper-api/internal/sysutil"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	EnvFile string
	Version string
}

// NewRootCommand creates the root command. Running it without a subcommand
// starts the server.
func NewRootCommand(version string) *cobra.Command {
	opts := &RootOptions{Version: version}
	serve := NewServeCommand(opts)

	cmd := &cobra.Command{
		Use:     "recipeshopper",
		Short:   "RecipeShopper API",
		Long:    "CRUD API for recipes and supermarket products, with live supermarket product search.",
		Version: version,
		Args:    cobra.NoArgs,
		RunE:    serve.RunE,

		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", ".env", "dotenv file loaded before reading the environment (optional)")

	cmd.AddCommand(serve)
	cmd.AddCommand(NewMigrateCommand(opts))

	return cmd
}

// bootstrap loads the dotenv file and configuration, then installs the
// process logger and Gin mode.
func bootstrap(opts *RootOptions) (config.Config, zerolog.Logger, error) {
	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return config.Config{}, zerolog.Nop(), fmt.Errorf("load %s: %w", opts.EnvFile, err)
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return cfg, zerolog.Nop(), fmt.Errorf("config: %w", err)
	}
	lg := sysutil.ConfigureLogger(cfg.LogLevel, cfg.LogPretty, nil)
	gin.SetMode(cfg.GinMode)
	return cfg, lg, nil
}

// openDB connects, migrates and seeds the store.
func openDB(cfg config.Config) (*gorm.DB, error) {
	db, err := repo.Open(cfg.Database, repo.OpenOptions{Tracing: cfg.OTEL.Enabled})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.Database.Driver, err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		closeDB(db)
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
