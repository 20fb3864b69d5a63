package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"financetrack/internal/auth"
	"financetrack/internal/cache"
	"financetrack/internal/cli"
	apphttp "financetrack/internal/http"
	"financetrack/internal/log"
	"financetrack/internal/services"
)

func main() {
	cfg, logger := cli.Bootstrap(log.ComponentApp)

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.JWTExpiration, cfg.JWTIssuer)
	if err != nil {
		logger.Error("Failed to initialize token service", "error", err)
		os.Exit(1)
	}
	hasher := auth.NewHasher(cfg.BcryptCost)

	reportCache := cache.NewLRUCache[any](cfg.ReportCacheSize, cfg.ReportCacheTTL)
	cacheManager := cache.NewManager()
	cacheManager.Register(reportCache)
	cacheManager.StartCleanup(cfg.ReportCacheTTL)
	defer cacheManager.Stop()

	reports := services.NewReportService(repo, reportCache, cfg.WeeklyReportWeeks)

	// A nil *amqp.Client must not become a non-nil Publisher.
	var publisher services.Publisher
	if amqpClient := cli.InitAMQP(logger, cfg); amqpClient != nil {
		defer amqpClient.Close()
		publisher = amqpClient
	}

	srv, err := apphttp.NewServer(apphttp.Config{
		Addr:               ":" + cfg.Port,
		AllowedOrigins:     cfg.CORSAllowedOrigins,
		TrustedProxies:     cfg.TrustedProxies,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		Logger:             logger,
	}, apphttp.Dependencies{
		Users:        services.NewUserService(repo, hasher, tokens),
		Transactions: services.NewTransactionService(repo, repo, publisher, reports, logger),
		Categories:   services.NewCategoryService(repo, reports),
		Budgets:      services.NewBudgetService(repo, repo, reports),
		Goals:        services.NewGoalService(repo, repo, reports),
		Reports:      reports,
		Exports:      services.NewExportService(repo),
		Tokens:       tokens,
		UserLookup:   repo,
		Health:       repo,
		ReportCache:  reportCache,
	})
	if err != nil {
		logger.Error("Failed to configure HTTP server", "error", err)
		os.Exit(1)
	}
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
	})

	logger.Info("Starting financetrack API",
		"port", cfg.Port,
		"env", cfg.Env,
		"amqp", publisher != nil)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
