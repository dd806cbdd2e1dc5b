package storage

import (
	"context"
	"fmt"

	"market-scraper/config"
)

// Open returns the store selected by cfg.StoreDriver with its schema created.
func Open(ctx context.Context, cfg *config.Config) (*SQLStore, error) {
	var (
		store *SQLStore
		err   error
	)
	switch cfg.StoreDriver {
	case "sqlite":
		store, err = OpenSQLite(cfg.SQLitePath)
	case "postgres":
		store, err = OpenPostgres(cfg.DSN())
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", cfg.StoreDriver)
	}
	if err != nil {
		return nil, err
	}

	if err := store.InitSchema(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}
