package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"skin-watcher/config"
	"skin-watcher/models"
	"skin-watcher/notify"
	"skin-watcher/scraper/steamrmt"
	"skin-watcher/services"
	"skin-watcher/storage"
	"skin-watcher/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()
	logger.SetLevel(utils.ParseLevel(cfg.LogLevel))

	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration: %v", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *utils.Logger) error {
	logger.Info("=== skinbuy watcher starting ===")

	lines, err := loadLines(ctx, cfg, logger)
	if err != nil {
		return err
	}

	parser := services.NewSectionParser(logger)
	sections := parser.Parse(lines)
	if sl, ok := lines.(*utils.ScannerLines); ok && sl.Err() != nil {
		logger.Warn("Catalog text truncated: %v", sl.Err())
	}
	logger.Info("Successfully parsed %d item section(s)", len(sections))

	if cfg.CSVOutputPath != "" {
		if err := writeSnapshot(cfg.CSVOutputPath, sections); err != nil {
			logger.Warn("CSV snapshot failed: %v", err)
		} else {
			logger.Debug("Scan snapshot appended to %s", cfg.CSVOutputPath)
		}
	}

	store, err := storage.NewPostgresStore(ctx, cfg.DSN())
	if err != nil {
		return fmt.Errorf("connect to PostgreSQL: %w", err)
	}
	defer store.Close()

	result, err := services.NewReconciler(store, logger).Reconcile(ctx, sections)
	if err != nil {
		return err
	}

	sent := newDispatcher(cfg, logger).Dispatch(ctx, result.Events)

	reports := services.NewReportService(logger)
	reports.Print(reports.Generate(parser.Stats(), result, sent))
	return nil
}

// loadLines fetches the catalog, or replays LINES_FILE when set.
func loadLines(ctx context.Context, cfg *config.Config, logger *utils.Logger) (utils.LineSource, error) {
	if cfg.LinesFile != "" {
		data, err := os.ReadFile(cfg.LinesFile)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", cfg.LinesFile, err)
		}
		logger.Info("Replaying catalog text from %s", cfg.LinesFile)
		return utils.ScanLines(bytes.NewReader(data)), nil
	}

	lines, err := steamrmt.New(cfg, logger).FetchLines(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	return utils.SliceLines(lines), nil
}

func writeSnapshot(path string, sections []*models.ParsedSection) error {
	w, err := storage.NewCSVWriter(path)
	if err != nil {
		return err
	}
	defer w.Close()
	return w.WriteSections(sections, time.Now())
}

func newDispatcher(cfg *config.Config, logger *utils.Logger) *notify.Dispatcher {
	var sender notify.Sender = notify.LogSender{Logger: logger}
	if cfg.NotificationsEnabled() {
		sender = notify.NewFCMClient(notify.FCMConfig{
			ServerKey:      cfg.FCMServerKey,
			RegistrationID: cfg.FCMRegistrationID,
			Priority:       "high",
			DryRun:         cfg.FCMDryRun,
		})
	} else {
		logger.Warn("FCM credentials not set, notifications will only be logged")
	}
	return notify.NewDispatcher(sender, logger, cfg.NotifyConcurrency, cfg.NotifyRatePerSec)
}
