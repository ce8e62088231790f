package factory

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Syedwafeeq/DECEPTA/internal/adapters/store"
	"github.com/Syedwafeeq/DECEPTA/internal/config"
	"github.com/Syedwafeeq/DECEPTA/internal/core"
	"go.uber.org/zap"
)

// StoreFactory creates analysis stores based on configuration.
type StoreFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewStoreFactory creates a new store factory.
func NewStoreFactory(cfg *config.Config, logger *zap.Logger) *StoreFactory {
	return &StoreFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateStore creates an analysis store based on the configuration.
func (f *StoreFactory) CreateStore() (core.AnalysisStore, error) {
	storageCfg := f.cfg.GetStorage()

	switch storageCfg.Type {
	case "memory":
		return store.NewMemoryStore(f.logger), nil
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(storageCfg.SQLitePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create SQLite directory: %w", err)
		}
		return store.NewSQLiteStore(storageCfg.SQLitePath, f.logger)
	case "mysql":
		return store.NewMySQLStore(storageCfg.MySQLDSN, f.logger)
	case "postgres":
		return store.NewPostgresStore(storageCfg.PostgresDSN, f.logger)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", storageCfg.Type)
	}
}

// IsPersistenceEnabled reports whether analyses should be persisted.
func (f *StoreFactory) IsPersistenceEnabled() bool {
	return f.cfg.GetStorage().Enabled
}
