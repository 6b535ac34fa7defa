package database

import (
	"fmt"
	"os"
	"path/filepath"

	"cobot-go/internal/config"
)

// NewOperationLogFromConfig creates an operation log based on the database
// config type. An empty type disables the log entirely (nil, nil).
func NewOperationLogFromConfig(cfg config.DatabaseConfig) (*SQLiteOperationLog, error) {
	switch cfg.Type {
	case "":
		return nil, nil
	case "sqlite":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite database")
		}
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
		return NewSQLiteOperationLog(filepath.Join(cfg.DataDir, "operations.db"))
	case "memory":
		return NewSQLiteOperationLog(":memory:")
	default:
		return nil, fmt.Errorf("unknown database type: %s", cfg.Type)
	}
}
