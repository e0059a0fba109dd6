// dbhealth verifies connectivity to the configured history store and
// applies the schema to a remote Postgres table.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/comfythings/visaflow/internal/common"
	"github.com/comfythings/visaflow/internal/repository"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if cfg.History.DSN == "" {
		checkSQLite(ctx, cfg, logger)
		return
	}
	checkPostgres(ctx, cfg, logger)
}

func checkSQLite(ctx context.Context, cfg *common.Config, logger *slog.Logger) {
	repo, err := repository.OpenSQLite(ctx, cfg.History.SQLitePath, logger)
	if err != nil {
		logger.Error("history health: FAIL", "path", cfg.History.SQLitePath, "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Error("failed to close history store", "error", err)
		}
	}()

	clients, err := repo.List(ctx)
	if err != nil {
		logger.Error("history health: FAIL", "error", err)
		os.Exit(1)
	}
	logger.Info("history health: OK", "mode", "sqlite", "path", cfg.History.SQLitePath, "clients", len(clients))
}

func checkPostgres(ctx context.Context, cfg *common.Config, logger *slog.Logger) {
	pool, err := repository.OpenPool(ctx, repository.PoolConfig{
		DSN:              cfg.History.DSN,
		MaxConns:         cfg.History.MaxConns,
		MinConns:         cfg.History.MinConns,
		MaxConnLifetime:  cfg.History.MaxConnLifetime,
		MaxConnIdleTime:  cfg.History.MaxConnIdleTime,
		DialTimeout:      cfg.History.DialTimeout,
		StatementTimeout: cfg.History.StatementTimeout,
	}, logger)
	if err != nil {
		logger.Error("history health: FAIL", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := repository.HealthCheck(ctx, pool, cfg.History.DialTimeout); err != nil {
		logger.Error("history health: FAIL", "error", err)
		os.Exit(1)
	}
	if err := repository.Migrate(ctx, pool); err != nil {
		logger.Error("history schema: FAIL", "error", err)
		os.Exit(1)
	}

	clients, err := repository.NewPostgresRepository(pool, logger).List(ctx)
	if err != nil {
		logger.Error("history health: FAIL", "error", err)
		os.Exit(1)
	}
	logger.Info("history health: OK", "mode", "postgres", "clients", len(clients))
}
