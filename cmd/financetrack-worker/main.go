package main

import (
	"context"
	"errors"
	"os"
	"time"

	"financetrack/internal/backend"
	"financetrack/internal/cli"
	"financetrack/internal/config"
	"financetrack/internal/log"
	"financetrack/internal/services"
	"financetrack/internal/sheets"
	"financetrack/internal/worker"
)

func main() {
	cfg, logger := cli.Bootstrap(log.ComponentWorker)
	logger.Info("Starting financetrack-worker")

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	ledger, err := openLedger(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize ledger", "error", err)
		os.Exit(1)
	}

	syncWorker := worker.NewSyncWorker(repo, ledger, cfg.SyncBatchSize)
	processor := services.NewSyncProcessor(
		services.SweepFunc(syncWorker.ProcessPending),
		services.SyncProcessorConfig{Name: "ledger-sync", PollInterval: cfg.SyncInterval},
	)

	amqpClient := cli.InitAMQP(logger, cfg)
	if amqpClient != nil {
		defer amqpClient.Close()
	}

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := processor.Stop(ctx); err != nil {
			logger.Error("Failed to stop sync processor", "error", err)
		}
	})

	// Pick up anything missed while the worker was down.
	logger.Info("Performing startup sync check...")
	if err := syncWorker.StartupSyncCheck(ctx); err != nil {
		logger.Error("Failed startup sync check", "error", err)
	}

	if err := processor.Start(ctx); err != nil {
		logger.Error("Failed to start sync processor", "error", err)
		os.Exit(1)
	}

	if amqpClient != nil {
		go func() {
			err := amqpClient.Consume(ctx, syncWorker.HandleMessage)
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Message consumption failed", "error", err)
			}
		}()
	} else {
		logger.Info("Skipping AMQP consumption - relying on periodic sweeps")
	}

	logger.Info("Worker started",
		"sync_interval", cfg.SyncInterval,
		"batch_size", cfg.SyncBatchSize,
		"sheets", cfg.SheetsEnabled())

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker stopped")
}

func openLedger(cfg *config.Config, logger *log.Logger) (sheets.Ledger, error) {
	ledgerCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	return backend.NewFactory(logger.Logger).OpenLedger(context.Background(), ledgerCfg)
}
