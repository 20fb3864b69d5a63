package main

import (
	"context"
	"os"
	"time"

	"financetrack/internal/cli"
	"financetrack/internal/log"
	"financetrack/internal/services"
)

func main() {
	cfg, logger := cli.Bootstrap(log.ComponentBudget)
	logger.Info("Starting budget-worker")

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	// Report caches live in the API process; entries there expire on their TTL.
	budgets := services.NewBudgetProcessor(repo, nil)
	processor := services.NewSyncProcessor(
		services.SweepFunc(func(ctx context.Context) (int, error) {
			return budgets.Recalculate(ctx, time.Now())
		}),
		services.SyncProcessorConfig{Name: "budget", PollInterval: cfg.BudgetRecalcInterval},
	)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := processor.Stop(ctx); err != nil {
			logger.Error("Failed to stop budget processor", "error", err)
		}
	})

	if err := processor.Start(ctx); err != nil {
		logger.Error("Failed to start budget processor", "error", err)
		os.Exit(1)
	}
	logger.Info("Budget worker started", "interval", cfg.BudgetRecalcInterval)

	cli.WaitForShutdown(ctx, done)
	logger.Info("Budget worker stopped")
}
