package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/FriggD/controle-gastos-residenciais/internal/backend"
	"github.com/FriggD/controle-gastos-residenciais/internal/cli"
	apphttp "github.com/FriggD/controle-gastos-residenciais/internal/http"
	"github.com/FriggD/controle-gastos-residenciais/internal/log"
	"github.com/FriggD/controle-gastos-residenciais/internal/services"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 30 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		Long: `Start the HTTP server exposing people, categories, transactions and
the totals reports, under both / and /api. Ledger events are published to
AMQP when AMQP_URL is set.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		return err
	}
	logger := cli.SetupLogger(cfg)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	result, err := backend.NewFactory(logger).CreateBackend(cmd.Context(), backendCfg)
	if err != nil {
		return fmt.Errorf("create backend: %w", err)
	}

	opts := []services.Option{
		services.WithLogger(logger),
		services.WithReportCacheTTL(cfg.ReportCacheTTL),
	}
	amqpClient, err := backend.NewAMQPClient(cfg, logger)
	if err != nil {
		// the API works without a broker; the worker's periodic sync catches up
		logger.Error("AMQP unavailable, continuing without event publishing", log.FieldError, err)
	}
	if amqpClient != nil {
		opts = append(opts, services.WithPublisher(amqpClient))
	}

	srv := apphttp.NewServer(apphttp.Config{
		Addr:               ":" + cfg.Port,
		Ledger:             services.NewLedger(result.Store, opts...),
		Store:              result.Store,
		Logger:             logger,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		TrustedProxies:     cfg.TrustedProxies,
	})

	ctx, done := cli.GracefulShutdown(logger, shutdownTimeout, func(shutdownCtx context.Context) {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
		if amqpClient != nil {
			if err := amqpClient.Close(); err != nil {
				logger.Warn("AMQP close error", log.FieldError, err)
			}
		}
		if err := result.Cleanup(); err != nil {
			logger.Warn("Backend cleanup error", log.FieldError, err)
		}
	})

	logger.Info("Starting controle-gastos server",
		"port", cfg.Port,
		log.FieldBackendType, result.Type.String())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
	return nil
}
