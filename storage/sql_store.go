package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	"market-scraper/models"
)

type dialect struct {
	name   string
	schema string
	// bind returns the placeholder of the n-th (1-based) query argument.
	bind func(n int) string
}

// SQLStore persists records in the products table of a SQL database.
// Appends are serialised so one store can be shared by concurrent runs.
type SQLStore struct {
	db      *sql.DB
	dialect dialect

	mu sync.Mutex
}

var _ RecordStore = (*SQLStore)(nil)

func (s *SQLStore) InitSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.schema); err != nil {
		return fmt.Errorf("%s: init schema: %w", s.dialect.name, err)
	}
	return nil
}

func (s *SQLStore) Append(ctx context.Context, r *models.Record) (int64, error) {
	activity, err := r.ActivityJSON()
	if err != nil {
		return 0, err
	}

	binds := make([]string, 6)
	for i := range binds {
		binds[i] = s.dialect.bind(i + 1)
	}
	query := fmt.Sprintf(`
		INSERT INTO products (url, buy_price, buy_quantity, sell_price, sell_quantity, recent_activity)
		VALUES (%s)
		RETURNING id
	`, strings.Join(binds, ", "))

	s.mu.Lock()
	defer s.mu.Unlock()

	var id int64
	err = s.db.QueryRowContext(ctx, query,
		r.URL, r.BuyPrice, r.BuyQuantity, r.SellPrice, r.SellQuantity, activity,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("%s: append %s: %w", s.dialect.name, r.URL, err)
	}
	return id, nil
}

const selectRecords = `
	SELECT id, url, buy_price, buy_quantity, sell_price, sell_quantity, recent_activity
	FROM products
`

// All returns every stored record in insertion order.
func (s *SQLStore) All(ctx context.Context) ([]*models.Record, error) {
	rows, err := s.db.QueryContext(ctx, selectRecords+" ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("%s: fetch all: %w", s.dialect.name, err)
	}
	defer rows.Close()

	var records []*models.Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan row: %w", s.dialect.name, err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// ByURL returns the most recently stored record for url.
func (s *SQLStore) ByURL(ctx context.Context, url string) (*models.Record, error) {
	query := selectRecords + " WHERE url = " + s.dialect.bind(1) + " ORDER BY id DESC LIMIT 1"
	r, err := scanRecord(s.db.QueryRowContext(ctx, query, url))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, url)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: fetch %s: %w", s.dialect.name, url, err)
	}
	return r, nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*models.Record, error) {
	r := &models.Record{}
	var activity sql.NullString
	if err := row.Scan(
		&r.ID, &r.URL, &r.BuyPrice, &r.BuyQuantity, &r.SellPrice, &r.SellQuantity, &activity,
	); err != nil {
		return nil, err
	}

	decoded, err := models.DecodeActivity(activity.String)
	if err != nil {
		return nil, err
	}
	r.RecentActivity = decoded
	return r, nil
}
