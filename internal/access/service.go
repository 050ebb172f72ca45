// Package access implements the database access service: it opens a
// database file through an ordered list of providers, checks the table
// catalog, loads tables into types.Table buffers, and writes their changes
// back.
package access

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/kursplan/pkg/types"
)

// Service implements types.Service. It is not safe for concurrent use.
type Service struct {
	providers []string
	logger    *slog.Logger

	db       *sql.DB
	path     string
	dsn      string
	provider Provider
	binding  *binding
}

// binding ties the last loaded buffer to the query that produced it.
type binding struct {
	table *types.Table
	name  string
	query string
}

// NewService returns an unconnected Service that tries providers in order.
// A nil logger discards output.
func NewService(providers []string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		providers: append([]string(nil), providers...),
		logger:    logger,
	}
}

// Connected reports whether a connection is open.
func (s *Service) Connected() bool { return s.db != nil }

// Path returns the file of the open connection.
func (s *Service) Path() string { return s.path }

// Provider returns the name of the provider that opened the connection.
func (s *Service) Provider() string { return s.provider.Name }

// Connect opens path with the first provider that succeeds. The previous
// connection is closed before any attempt.
func (s *Service) Connect(ctx context.Context, path string) error {
	if err := s.Close(); err != nil {
		s.logger.Warn("closing previous connection", "path", s.path, "error", err)
	}

	if len(s.providers) == 0 {
		return fmt.Errorf("%w %q: %w", types.ErrOpenFailed, path, types.ErrProvidersEmpty)
	}

	var lastErr error
	for _, name := range s.providers {
		db, p, err := s.attempt(ctx, name, path)
		if err != nil {
			s.logger.Warn("provider attempt failed", "provider", name, "path", path, "error", err)
			lastErr = err
			continue
		}
		s.db = db
		s.path = path
		s.dsn = p.DSN(path)
		s.provider = p
		s.logger.Info("connected", "provider", p.Name, "path", path)
		return nil
	}

	return fmt.Errorf("%w %q. Make sure the database engine is installed and the file is valid. Last error: %w",
		types.ErrOpenFailed, path, lastErr)
}

// attempt opens path with one provider and verifies the handle is usable.
// A failed attempt leaves nothing open.
func (s *Service) attempt(ctx context.Context, name, path string) (*sql.DB, Provider, error) {
	p, err := Lookup(name)
	if err != nil {
		return nil, Provider{}, err
	}

	s.logger.Debug("trying provider", "provider", p.Name, "driver", p.Driver)
	db, err := sql.Open(p.Driver, p.DSN(path))
	if err != nil {
		return nil, Provider{}, fmt.Errorf("%s: %w", p.Name, err)
	}
	// One connection keeps the engine's file lock state tied to this
	// service.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, Provider{}, fmt.Errorf("%s: %w", p.Name, err)
	}
	if p.Probe != "" {
		var n int64
		if err := db.QueryRowContext(ctx, p.Probe).Scan(&n); err != nil {
			_ = db.Close()
			return nil, Provider{}, fmt.Errorf("%s: %w", p.Name, err)
		}
	}
	return db, p, nil
}

// Tables returns the user tables of the connected file, excluding system
// tables and views.
func (s *Service) Tables(ctx context.Context) ([]types.TableDescriptor, error) {
	if s.db == nil {
		return nil, types.ErrNotConnected
	}
	all, err := s.provider.Catalog.Tables(ctx, s.db, s.dsn)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	out := make([]types.TableDescriptor, 0, len(all))
	for _, d := range all {
		if d.Kind != types.TableKindUser || d.Name == "" || s.provider.isSystem(d.Name) {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

// ValidateSchema reports the required names that are not user tables of the
// connected file. Names are compared case-insensitively without any other
// normalisation.
func (s *Service) ValidateSchema(ctx context.Context, required []string) (bool, []string, error) {
	if s.db == nil {
		return false, nil, types.ErrNotConnected
	}
	tables, err := s.Tables(ctx)
	if err != nil {
		return false, nil, err
	}

	existing := make(map[string]bool, len(tables))
	for _, d := range tables {
		existing[strings.ToLower(d.Name)] = true
	}

	missing := []string{}
	for _, name := range required {
		if !existing[strings.ToLower(name)] {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		s.logger.Info("schema incomplete", "missing", missing)
	}
	return len(missing) == 0, missing, nil
}

// LoadTable reads the named table into a new buffer and binds it for
// SaveChanges. Any earlier binding is dropped first, also when the load
// fails.
func (s *Service) LoadTable(ctx context.Context, name string) (*types.Table, error) {
	if s.db == nil {
		return nil, types.ErrNotConnected
	}
	s.binding = nil

	query, err := selectAllQuery(name)
	if err != nil {
		return nil, fmt.Errorf("load table %q: %w", name, err)
	}

	keys, err := s.provider.Catalog.PrimaryKey(ctx, s.db, s.dsn, name)
	if err != nil {
		// Rows are then identified by all of their columns.
		s.logger.Warn("primary key lookup failed", "table", name, "error", err)
		keys = nil
	}

	s.logger.Debug("loading table", "table", name, "query", query)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("load table %q: %w", name, err)
	}
	defer rows.Close()

	tbl, err := readTable(rows, name, query, keys)
	if err != nil {
		return nil, fmt.Errorf("load table %q: %w", name, err)
	}

	s.binding = &binding{table: tbl, name: name, query: query}
	s.logger.Info("table loaded", "table", name, "columns", len(tbl.Columns), "rows", tbl.Len())
	return tbl, nil
}

// SaveChanges writes the pending rows of t in one transaction. t must be the
// buffer returned by the last LoadTable. Engine failures are returned as
// errors wrapping ErrSaveFailed; the buffer keeps its pending changes.
func (s *Service) SaveChanges(ctx context.Context, t *types.Table) (types.SaveResult, error) {
	if s.binding == nil || t == nil || t != s.binding.table || s.db == nil {
		return types.SaveResult{}, types.ErrNoDataLoaded
	}

	result := types.SaveResult{BatchID: newBatchID()}
	log := s.logger.With("batch", result.BatchID, "table", s.binding.name)

	stmts, err := buildStatements(s.binding.name, t)
	if err != nil {
		return result, saveError(err)
	}
	if len(stmts) == 0 {
		t.AcceptChanges()
		log.Debug("nothing to save")
		return result, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Warn("begin failed", "error", err)
		return result, saveError(err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, st := range stmts {
		log.Debug("executing", "kind", st.kind, "query", st.query)
		res, err := tx.ExecContext(ctx, st.query, st.args...)
		if err != nil {
			log.Warn("statement failed", "kind", st.kind, "error", err)
			return types.SaveResult{BatchID: result.BatchID}, saveError(err)
		}
		if st.kind != stmtInsert {
			if n, err := res.RowsAffected(); err == nil && n == 0 {
				log.Warn("row not found", "kind", st.kind, "query", st.query)
				return types.SaveResult{BatchID: result.BatchID}, saveError(fmt.Errorf("%s: %w", st.kind, types.ErrConcurrencyConflict))
			}
		}
		switch st.kind {
		case stmtInsert:
			result.Inserted++
		case stmtUpdate:
			result.Updated++
		case stmtDelete:
			result.Deleted++
		}
	}

	if err := tx.Commit(); err != nil {
		log.Warn("commit failed", "error", err)
		return types.SaveResult{BatchID: result.BatchID}, saveError(err)
	}

	t.AcceptChanges()
	log.Info("changes saved", "inserted", result.Inserted, "updated", result.Updated, "deleted", result.Deleted)
	return result, nil
}

// Close releases the binding and the connection. Idempotent.
func (s *Service) Close() error {
	s.binding = nil
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	s.path = ""
	s.dsn = ""
	s.provider = Provider{}
	return err
}

// saveError converts a write-time failure into the error returned by
// SaveChanges. Lock errors are not reported consistently across drivers, so
// every failure other than a detected row conflict names the lock as the
// likely cause and carries the engine message.
func saveError(err error) error {
	if errors.Is(err, types.ErrConcurrencyConflict) {
		return fmt.Errorf("%w: %w", types.ErrSaveFailed, err)
	}
	return fmt.Errorf("%w. The database file may be locked by another user. Please try again later. Details: %w",
		types.ErrSaveFailed, err)
}

// newBatchID returns a UUID v7 identifying one save in the logs.
func newBatchID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

var _ types.Service = (*Service)(nil)
