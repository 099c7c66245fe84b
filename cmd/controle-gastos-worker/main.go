package main

import (
	"context"
	"os"
	"time"

	"github.com/FriggD/controle-gastos-residenciais/internal/backend"
	"github.com/FriggD/controle-gastos-residenciais/internal/cli"
	"github.com/FriggD/controle-gastos-residenciais/internal/log"
	"github.com/FriggD/controle-gastos-residenciais/internal/services"
	"github.com/FriggD/controle-gastos-residenciais/internal/worker"
)

func main() {
	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		log.New(log.DefaultConfig()).Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	logger := cli.SetupLogger(cfg)
	logger.Info("Starting controle-gastos-worker")

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		os.Exit(1)
	}
	if backendCfg.Type == backend.MemoryBackend {
		logger.Warn("Worker is using the memory backend; it cannot see data written by the server")
	}
	result, err := backend.NewFactory(logger).CreateBackend(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to create backend", log.FieldError, err)
		os.Exit(1)
	}
	defer result.Cleanup()

	exporter, err := backend.NewReportExporter(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize report exporter", log.FieldError, err)
		os.Exit(1)
	}

	amqpClient, err := backend.NewAMQPClient(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	var events worker.EventSource
	if amqpClient != nil {
		defer amqpClient.Close()
		events = amqpClient
	} else {
		logger.Info("Skipping AMQP consumption, relying on periodic sync", "interval", cfg.SyncInterval.String())
	}

	// Reports must reflect writes made by other processes.
	ledger := services.NewLedger(result.Store,
		services.WithLogger(logger),
		services.WithReportCacheTTL(0))
	syncWorker := worker.NewReportSyncWorker(ledger.Reports, exporter, logger)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	if err := syncWorker.Run(ctx, events, cfg.SyncInterval); err != nil {
		logger.Error("Worker stopped with error", log.FieldError, err)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	lastSync, syncs := syncWorker.Status()
	logger.Info("Worker stopped gracefully", "syncs", syncs, "last_sync", lastSync)
}
