// visaflowd is the extraction daemon: it serves the HTTP API and,
// when configured, watches drop folders for scanned documents.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/comfythings/visaflow/internal/async"
	"github.com/comfythings/visaflow/internal/common"
	"github.com/comfythings/visaflow/internal/export"
	"github.com/comfythings/visaflow/internal/ingest"
	"github.com/comfythings/visaflow/internal/ocr"
	"github.com/comfythings/visaflow/internal/photo"
	"github.com/comfythings/visaflow/internal/pipeline"
	"github.com/comfythings/visaflow/internal/repository"
	"github.com/comfythings/visaflow/internal/server"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, err := openHistory(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open history store", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Error("failed to close history store", "error", err)
		}
	}()

	engine := ocr.NewEngine(ocr.Config{
		Pdftoppm:    cfg.OCR.Pdftoppm,
		Tesseract:   cfg.OCR.Tesseract,
		Languages:   cfg.OCR.Languages,
		TessdataDir: cfg.OCR.TessdataDir,
	}, logger)

	var detector photo.Detector
	if cfg.Detector.BaseURL != "" {
		detector = photo.NewHTTPDetector(cfg.Detector.BaseURL, cfg.Detector.Timeout)
	}
	locator := photo.NewLocator(detector, logger)

	pipe := pipeline.New(engine, locator, logger)

	stager, err := ingest.NewStager(filepath.Join(cfg.OCR.ArtifactCacheDir, "uploads"), logger)
	if err != nil {
		logger.Error("failed to create staging dir", "error", err)
		os.Exit(1)
	}

	service := server.NewService(pipe, repo, logger)

	cleanup := func(path string) {
		if stager.Owns(path) {
			stager.Remove(ingest.Staged{Path: path})
		}
	}
	queue := async.New(service.JobHandler(cleanup), cfg.Server.QueueWorkers, cfg.Server.QueueBuffer, logger)

	if len(cfg.Watch.Dirs) > 0 {
		startWatch(ctx, cfg.Watch, queue, logger)
	}

	srv := server.New(cfg.Server, service, repo, stager, export.NewService(repo, logger), queue, logger)
	if err := srv.Run(ctx); err != nil {
		logger.Error("http server failed", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	queue.Shutdown(shutdownCtx)
	logger.Info("stopped")
}

func openHistory(ctx context.Context, cfg *common.Config, logger *slog.Logger) (repository.ClientRepository, error) {
	if cfg.History.DSN == "" {
		return repository.OpenSQLite(ctx, cfg.History.SQLitePath, logger)
	}

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
		return nil, err
	}
	if err := repository.HealthCheck(ctx, pool, cfg.History.DialTimeout); err != nil {
		pool.Close()
		return nil, err
	}
	return repository.NewPostgresRepository(pool, logger), nil
}

// startWatch enqueues an extraction job for every document dropped
// into the configured folders.
func startWatch(ctx context.Context, cfg common.WatchConfig, queue *async.Queue, logger *slog.Logger) {
	paths, errs, err := ingest.Watch(ctx, ingest.WatchOptions{
		Dirs:     cfg.Dirs,
		Debounce: cfg.Debounce,
		Logger:   logger,
	})
	if err != nil {
		logger.Error("failed to start drop-folder watch", "dirs", cfg.Dirs, "error", err)
		return
	}
	logger.Info("watching drop folders", "dirs", cfg.Dirs)

	go func() {
		for paths != nil || errs != nil {
			select {
			case p, ok := <-paths:
				if !ok {
					paths = nil
					continue
				}
				if _, err := queue.Enqueue(filepath.Base(p), p); err != nil {
					logger.Error("failed to enqueue dropped file", "path", p, "error", err)
				}
			case _, ok := <-errs:
				if !ok {
					errs = nil
				}
			}
		}
	}()
}
