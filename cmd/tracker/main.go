// Command tracker runs the study tracker API and its maintenance commands.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/educationaltr/study-tracker/config"
	"github.com/educationaltr/study-tracker/internal/infrastructure/persistence"
	"github.com/educationaltr/study-tracker/pkg/logger"
)

var envFiles []string

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "tracker",
		Short:         "Study tracker API server and maintenance tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "dotenv files to load before reading the environment (default .env when present)")

	root.AddCommand(
		newServeCommand(),
		newMigrateCommand(),
		newSeedAdminCommand(),
		newStreakCommand(),
		newStudentsCommand(),
	)
	return root
}

// ══════════════════════════════════════════════════════════════════════════════
// BOOTSTRAP
// ══════════════════════════════════════════════════════════════════════════════

// app is what every command needs: configuration, a logger and the store.
type app struct {
	cfg   *config.Config
	log   *slog.Logger
	store *persistence.Store
}

func bootstrap(ctx context.Context) (*app, error) {
	cfg, err := config.Load(envFiles...)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format, os.Stderr).With(
		slog.String("app", cfg.App.Name),
		slog.String("env", string(cfg.App.Environment)),
	)
	slog.SetDefault(log)

	store, err := persistence.Open(ctx, cfg.Database, log)
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, log: log, store: store}, nil
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		a.log.Warn("failed to close store", logger.Err(err))
	}
}
