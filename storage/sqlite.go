package storage

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

var sqliteDialect = dialect{
	name: "sqlite",
	schema: `
		CREATE TABLE IF NOT EXISTS products (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			url             TEXT NOT NULL,
			buy_price       TEXT NOT NULL DEFAULT '',
			buy_quantity    TEXT NOT NULL DEFAULT '',
			sell_price      TEXT NOT NULL DEFAULT '',
			sell_quantity   TEXT NOT NULL DEFAULT '',
			recent_activity TEXT NOT NULL DEFAULT '[]'
		);

		CREATE INDEX IF NOT EXISTS idx_products_url ON products(url);
	`,
	bind: func(int) string { return "?" },
}

// OpenSQLite opens (or creates) the sqlite database at path. ":memory:" gives
// a private in-memory database. Call InitSchema before use.
func OpenSQLite(path string) (*SQLStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}
	// One connection: sqlite serialises writers anyway, and every
	// connection to ":memory:" would otherwise see its own database.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: ping %s: %w", path, err)
	}
	return &SQLStore{db: db, dialect: sqliteDialect}, nil
}
