package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"tally/internal/cache"
	"tally/internal/cli"
	"tally/internal/config"
	appmcp "tally/internal/mcp"
	"tally/internal/services"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	cli.LoadEnvFile()

	// Bootstrap logger; replaced once configuration is validated
	logger := cli.SetupLogger()

	cfg := cli.LoadAndValidateConfig(logger)
	logger = cli.ConfigureLogger(cfg)

	logger.Info("Starting tally",
		"version", appmcp.Version,
		"transport", cfg.Transport,
		"db_path", cfg.SQLiteDBPath)

	cat := cli.LoadCatalog(logger, cfg.CategoriesPath)
	store := cli.OpenStore(logger, cfg.SQLiteDBPath)

	ledger := services.NewLedgerService(store, cat, services.Options{
		CacheSize: cfg.SummaryCacheSize,
		CacheTTL:  cfg.SummaryCacheTTL,
	})

	cacheManager := cache.NewManager()
	ledger.RegisterCaches(cacheManager)
	cacheManager.StartCleanup(cfg.CacheCleanupInterval)

	srv := appmcp.NewServer(ledger, cat, logger)

	// Graceful shutdown: cancelling the context stops whichever transport
	// is serving.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())
		cancel()
	}()

	var serveErr error
	switch cfg.Transport {
	case config.TransportHTTP:
		logger.Info("Serving MCP over HTTP", "addr", cfg.HTTPAddr, "endpoint", "/mcp")
		serveErr = srv.ServeHTTP(ctx, cfg.HTTPAddr)
	default:
		logger.Info("Serving MCP over stdio")
		serveErr = srv.ServeStdio(ctx)
	}

	cacheManager.Stop()
	if err := ledger.Close(); err != nil {
		logger.Error("Store close error", "error", err)
	}

	if serveErr != nil {
		logger.Error("Server error", "error", serveErr)
		os.Exit(1)
	}

	metrics := srv.Metrics()
	logger.Info("Server stopped gracefully", "tool_calls_served", metrics.TotalCalls)
}
