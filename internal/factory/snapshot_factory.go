package factory

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mikey/email-munger/internal/adapters/snapshot"
	"github.com/mikey/email-munger/internal/config"
	"github.com/mikey/email-munger/internal/core"
	"go.uber.org/zap"
)

// SnapshotFactory creates snapshot repositories based on configuration
type SnapshotFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewSnapshotFactory creates a new snapshot factory
func NewSnapshotFactory(cfg *config.Config, logger *zap.Logger) *SnapshotFactory {
	return &SnapshotFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateSnapshotRepository creates a snapshot repository based on the configuration
func (f *SnapshotFactory) CreateSnapshotRepository() (core.SnapshotRepository, error) {
	snapshotCfg := f.cfg.GetSnapshot()

	switch snapshotCfg.Type {
	case "memory":
		return snapshot.NewMemoryRepository(f.logger), nil
	case "sqlite":
		// Ensure directory exists
		if err := os.MkdirAll(filepath.Dir(snapshotCfg.SQLitePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create SQLite directory: %w", err)
		}
		repo, err := snapshot.NewSQLiteRepository(snapshotCfg.SQLitePath, f.logger)
		if err != nil {
			return nil, err
		}
		return repo, nil
	case "mysql":
		repo, err := snapshot.NewMySQLRepository(snapshotCfg.MySQLDSN, f.logger)
		if err != nil {
			return nil, err
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("unsupported snapshot type: %s", snapshotCfg.Type)
	}
}
