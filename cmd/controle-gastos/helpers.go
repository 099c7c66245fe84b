package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/FriggD/controle-gastos-residenciais/internal/backend"
	"github.com/FriggD/controle-gastos-residenciais/internal/cli"
	"github.com/FriggD/controle-gastos-residenciais/internal/config"
	"github.com/FriggD/controle-gastos-residenciais/internal/log"
	"github.com/FriggD/controle-gastos-residenciais/internal/services"
	"github.com/FriggD/controle-gastos-residenciais/internal/storage"
)

// app bundles what every data command needs.
type app struct {
	cfg     *config.Config
	logger  *log.Logger
	store   storage.Store
	ledger  *services.Ledger
	cleanup []func() error
}

// bootstrap loads and validates the configuration, then opens the
// configured store.
func bootstrap(ctx context.Context, opts ...services.Option) (*app, error) {
	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		return nil, err
	}
	logger := cli.SetupLogger(cfg)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	result, err := backend.NewFactory(logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		return nil, fmt.Errorf("create backend: %w", err)
	}

	opts = append([]services.Option{services.WithLogger(logger)}, opts...)
	return &app{
		cfg:     cfg,
		logger:  logger,
		store:   result.Store,
		ledger:  services.NewLedger(result.Store, opts...),
		cleanup: []func() error{result.Cleanup},
	}, nil
}

// Close runs the cleanup functions in reverse order.
func (a *app) Close() error {
	var errs []error
	for i := len(a.cleanup) - 1; i >= 0; i-- {
		if err := a.cleanup[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
