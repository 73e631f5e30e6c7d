package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sakif/devconnector/internal/config"
	"github.com/sakif/devconnector/internal/repository"
	"github.com/sakif/devconnector/internal/repository/mongo"
	"github.com/sakif/devconnector/internal/repository/sqlite"
)

// connectTimeout bounds the initial MongoDB connect and ping.
const connectTimeout = 10 * time.Second

// openStore connects the backend selected by the store URI.
func openStore(ctx context.Context, cfg config.Config) (repository.Store, error) {
	switch cfg.StoreKind {
	case config.StoreMongo:
		ctx, cancel := context.WithTimeout(ctx, connectTimeout)
		defer cancel()
		db, err := mongo.New(ctx, cfg.StoreURI)
		if err != nil {
			return nil, err
		}
		return db, nil

	case config.StoreSQLite:
		if cfg.SQLitePath != ":memory:" {
			// Like `mkdir -p`: create the data directory on first run.
			if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0o755); err != nil {
				return nil, fmt.Errorf("creating database directory: %w", err)
			}
		}
		db, err := sqlite.New(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return db, nil

	default:
		return nil, fmt.Errorf("unsupported store kind %q", cfg.StoreKind)
	}
}
