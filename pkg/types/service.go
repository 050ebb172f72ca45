package types

import (
	"context"
	"errors"
)

// Service is the database access contract consumed by the presentation layer.
// A Service owns at most one open connection and at most one bound Table.
// Calls on one instance must not overlap.
type Service interface {
	// Connect opens the file at path, trying each configured provider in
	// order. Any previous connection and table binding are released first.
	// On failure the returned error wraps ErrOpenFailed.
	Connect(ctx context.Context, path string) error

	// Tables lists the tables reported by the engine's catalog.
	// Returns ErrNotConnected before a successful Connect.
	Tables(ctx context.Context) ([]TableDescriptor, error)

	// ValidateSchema reports which of the required names are absent from the
	// connected database. Matching is case-insensitive and missing preserves
	// the order of required. Returns ErrNotConnected before Connect.
	ValidateSchema(ctx context.Context, required []string) (allPresent bool, missing []string, err error)

	// LoadTable reads every row of the named table into a fresh Table and
	// binds it for SaveChanges. Returns ErrNotConnected before Connect.
	LoadTable(ctx context.Context, name string) (*Table, error)

	// SaveChanges writes the pending changes of the bound Table back to the
	// file. Returns ErrNoDataLoaded when t is not the bound Table, and an
	// error wrapping ErrSaveFailed when the engine rejects the write.
	SaveChanges(ctx context.Context, t *Table) (SaveResult, error)

	// Close releases the connection. Idempotent.
	Close() error
}

// SaveResult summarises one successful SaveChanges call.
type SaveResult struct {
	BatchID  string `json:"batch_id"`
	Inserted int    `json:"inserted"`
	Updated  int    `json:"updated"`
	Deleted  int    `json:"deleted"`
}

// Total returns the number of rows written.
func (r SaveResult) Total() int {
	return r.Inserted + r.Updated + r.Deleted
}

// TableKind classifies catalog entries.
type TableKind string

// Table kinds reported by provider catalogs.
const (
	TableKindUser   TableKind = "TABLE"
	TableKindSystem TableKind = "SYSTEM TABLE"
	TableKindView   TableKind = "VIEW"
	TableKindOther  TableKind = "OTHER"
)

// TableDescriptor is one entry of the engine's table catalog.
type TableDescriptor struct {
	Name string
	Kind TableKind
}

// Service errors.
var (
	ErrNotConnected        = errors.New("database is not connected")
	ErrOpenFailed          = errors.New("failed to open database file")
	ErrNoDataLoaded        = errors.New("no data has been loaded, so there is nothing to save")
	ErrSaveFailed          = errors.New("failed to save changes")
	ErrConcurrencyConflict = errors.New("row was changed or deleted by another writer")
	ErrProviderUnavailable = errors.New("provider not available on this platform")
	ErrInvalidIdentifier   = errors.New("invalid identifier")
	ErrTableMissing        = errors.New("table was not found in the connected database")
)
