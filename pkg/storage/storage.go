package storage

import (
	"context"
	"errors"
)

// Reference document names.
const (
	DocumentTariffs  = "tariffs"
	DocumentGrids    = "grids"
	DocumentColors   = "colors"
	DocumentHolidays = "holidays"
)

var (
	ErrDocumentNotFound = errors.New("document not found")
)

// Database stores the reference documents the tariff catalog is built from.
// Each document is a JSON blob addressed by name.
type Database interface {
	// GetDocument returns the JSON of the named document or
	// ErrDocumentNotFound.
	GetDocument(ctx context.Context, name string) ([]byte, error)
	// PutDocument creates or replaces the named document.
	PutDocument(ctx context.Context, name string, data []byte) error
	// ListDocuments returns the names of every stored document, sorted.
	ListDocuments(ctx context.Context) ([]string, error)

	// Lifecycle
	Close() error
}
