package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

var postgresDialect = dialect{
	name: "postgres",
	schema: `
		CREATE TABLE IF NOT EXISTS products (
			id              SERIAL PRIMARY KEY,
			url             TEXT NOT NULL,
			buy_price       TEXT NOT NULL DEFAULT '',
			buy_quantity    TEXT NOT NULL DEFAULT '',
			sell_price      TEXT NOT NULL DEFAULT '',
			sell_quantity   TEXT NOT NULL DEFAULT '',
			recent_activity TEXT NOT NULL DEFAULT '[]'
		);

		CREATE INDEX IF NOT EXISTS idx_products_url ON products(url);
	`,
	bind: func(n int) string { return fmt.Sprintf("$%d", n) },
}

// OpenPostgres connects to PostgreSQL, waiting for the server to accept
// connections, and returns a store. Call InitSchema before use.
func OpenPostgres(dsn string) (*SQLStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	return &SQLStore{db: db, dialect: postgresDialect}, nil
}
