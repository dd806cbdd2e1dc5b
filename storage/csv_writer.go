package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"market-scraper/models"
)

// CSVWriter exports stored records to a CSV file.
// It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the header row. Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)

	// Write header
	if err := w.Write([]string{
		"id", "url", "buy_price", "buy_quantity", "sell_price", "sell_quantity", "recent_activity",
	}); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CSVWriter{file: f, writer: w}, nil
}

// WriteRecords appends records to the file; recent activity is written as
// its JSON encoding.
func (c *CSVWriter) WriteRecords(records []*models.Record) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, r := range records {
		activity, err := r.ActivityJSON()
		if err != nil {
			return fmt.Errorf("csv: %w", err)
		}
		row := []string{
			strconv.FormatInt(r.ID, 10),
			r.URL,
			r.BuyPrice,
			r.BuyQuantity,
			r.SellPrice,
			r.SellQuantity,
			activity,
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}
