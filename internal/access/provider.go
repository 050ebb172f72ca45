// This file holds the provider registry. A provider is one driver identity:
// a database/sql driver name, the DSN it expects, and the catalog that
// enumerates tables for it.
package access

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/mesh-intelligence/kursplan/pkg/types"
)

// Catalog enumerates schema information for one engine.
type Catalog interface {
	// Tables lists every catalog entry with its kind.
	Tables(ctx context.Context, db *sql.DB, dsn string) ([]types.TableDescriptor, error)

	// PrimaryKey returns the key column names of table in key order. An
	// empty result means the table has no declared key.
	PrimaryKey(ctx context.Context, db *sql.DB, dsn, table string) ([]string, error)
}

// Provider describes one way of opening a database file.
type Provider struct {
	Name   string
	Driver string
	DSN    func(path string) string

	// Probe, when set, runs after Ping. Engines that open lazily use it to
	// reject files that are not databases.
	Probe string

	// SystemPrefix marks engine-internal tables, compared case-insensitively.
	SystemPrefix string

	Catalog Catalog
}

// String returns the provider name.
func (p Provider) String() string { return p.Name }

// isSystem reports whether name carries the provider's internal prefix.
func (p Provider) isSystem(name string) bool {
	if p.SystemPrefix == "" {
		return false
	}
	return len(name) >= len(p.SystemPrefix) && strings.EqualFold(name[:len(p.SystemPrefix)], p.SystemPrefix)
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Provider)
)

// Register adds a provider to the registry. Platform files call it from
// init; tests use it to install fakes.
func Register(p Provider) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[strings.ToLower(p.Name)] = p
}

// Lookup returns the provider registered under name. A name that is valid
// in configuration but not compiled into this binary yields
// ErrProviderUnavailable.
func Lookup(name string) (Provider, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	if p, ok := registry[strings.ToLower(name)]; ok {
		return p, nil
	}
	if err := (types.Config{Providers: []string{name}}).Validate(); err != nil {
		return Provider{}, fmt.Errorf("%w %q", err, name)
	}
	return Provider{}, fmt.Errorf("%q: %w", name, types.ErrProviderUnavailable)
}

// Names returns the registered provider names, sorted.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// OLE DB provider identities for Access files.
const (
	oleDBProviderACE = "Microsoft.ACE.OLEDB.12.0"
	oleDBProviderJet = "Microsoft.Jet.OLEDB.4.0"
)

// oleDBDSN returns a DSN builder for the given OLE DB provider identity.
func oleDBDSN(identity string) func(string) string {
	return func(path string) string {
		return fmt.Sprintf("Provider=%s;Data Source=%s;Persist Security Info=False;", identity, path)
	}
}
