package store

import (
	"context"
	"fmt"

	"github.com/RIxiV1/SubSentry/internal/log"
	"github.com/RIxiV1/SubSentry/internal/store/memory"
	"github.com/RIxiV1/SubSentry/internal/store/postgres"
	"github.com/RIxiV1/SubSentry/internal/store/sqlite"
)

type BackendType string

const (
	MemoryBackend   BackendType = "memory"
	SQLiteBackend   BackendType = "sqlite"
	PostgresBackend BackendType = "postgres"
)

func (t BackendType) IsValid() bool {
	switch t {
	case MemoryBackend, SQLiteBackend, PostgresBackend:
		return true
	}
	return false
}

func (t BackendType) String() string { return string(t) }

// BackendConfig carries only what the factory needs so it stays decoupled
// from the application config.
type BackendConfig struct {
	Type         BackendType
	SQLiteDBPath string
	DatabaseURL  string
}

func (c BackendConfig) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}

	switch c.Type {
	case SQLiteBackend:
		if c.SQLiteDBPath == "" {
			return fmt.Errorf("sqlite database path is required for sqlite backend")
		}
	case PostgresBackend:
		if c.DatabaseURL == "" {
			return fmt.Errorf("database URL is required for postgres backend")
		}
	}
	return nil
}

// Open builds the configured backend. The returned Store owns its resources
// and releases them on Close.
func Open(ctx context.Context, cfg BackendConfig, logger *log.Logger) (Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Type {
	case SQLiteBackend:
		s, err := sqlite.New(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite backend: %w", err)
		}
		logger.Info("initialized sqlite backend", log.FieldBackend, cfg.Type.String(), "db_path", cfg.SQLiteDBPath)
		return s, nil

	case PostgresBackend:
		s, err := postgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("initialize postgres backend: %w", err)
		}
		logger.Info("initialized postgres backend", log.FieldBackend, cfg.Type.String())
		return s, nil

	case MemoryBackend:
		logger.Info("initialized memory backend", log.FieldBackend, cfg.Type.String())
		return memory.New(), nil

	default:
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.Type)
	}
}
