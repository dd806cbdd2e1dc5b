package storage

import (
	"context"
	"errors"

	"market-scraper/models"
)

// ErrNotFound is returned when no record matches a lookup.
var ErrNotFound = errors.New("record not found")

// RecordSink is the append-only destination of extracted records.
type RecordSink interface {
	// Append stores r and returns the id assigned to it.
	Append(ctx context.Context, r *models.Record) (int64, error)
}

// RecordStore is a RecordSink that can also be read back.
type RecordStore interface {
	RecordSink
	InitSchema(ctx context.Context) error
	All(ctx context.Context) ([]*models.Record, error)
	ByURL(ctx context.Context, url string) (*models.Record, error)
	Close() error
}
