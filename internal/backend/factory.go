package backend

import (
	"context"
	"fmt"

	"github.com/FriggD/controle-gastos-residenciais/internal/log"
	"github.com/FriggD/controle-gastos-residenciais/internal/storage"
	memstore "github.com/FriggD/controle-gastos-residenciais/internal/storage/memory"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &DefaultFactory{
		logger: logger.WithComponent(log.ComponentBackend),
	}
}

// CreateBackend opens the configured store. SQL backends are migrated
// before they are returned.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(ctx, config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)
		return &BackendResult{Store: repo, Type: config.Type, Cleanup: repo.Close}, nil
	case MySQLBackend:
		repo, err := storage.NewMySQLRepository(ctx, config.MySQLDSN)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize MySQL repository: %w", err)
		}
		f.logger.Info("Initialized MySQL backend")
		return &BackendResult{Store: repo, Type: config.Type, Cleanup: repo.Close}, nil
	case MemoryBackend:
		store := memstore.New()
		f.logger.Info("Initialized memory backend")
		return &BackendResult{Store: store, Type: config.Type, Cleanup: store.Close}, nil
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}
