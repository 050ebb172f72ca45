package access

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/kursplan/pkg/types"
)

func init() {
	Register(Provider{
		Name:         types.ProviderSQLite,
		Driver:       "sqlite",
		DSN:          sqliteDSN,
		Probe:        "SELECT count(*) FROM sqlite_master",
		SystemPrefix: "sqlite_",
		Catalog:      sqliteCatalog{},
	})
}

// sqliteDSN builds a URI that opens an existing file read-write without
// creating it, and fails immediately instead of waiting on a held lock.
func sqliteDSN(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	p := filepath.ToSlash(path)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	u := url.URL{Scheme: "file", Path: p, RawQuery: "mode=rw&_pragma=busy_timeout(0)"}
	return u.String()
}

type sqliteCatalog struct{}

func (sqliteCatalog) Tables(ctx context.Context, db *sql.DB, _ string) ([]types.TableDescriptor, error) {
	rows, err := db.QueryContext(ctx, `SELECT name, type FROM sqlite_master WHERE type IN ('table', 'view') ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query sqlite_master: %w", err)
	}
	defer rows.Close()

	var out []types.TableDescriptor
	for rows.Next() {
		var name, kind string
		if err := rows.Scan(&name, &kind); err != nil {
			return nil, fmt.Errorf("scan sqlite_master: %w", err)
		}
		d := types.TableDescriptor{Name: name, Kind: types.TableKindUser}
		switch {
		case kind == "view":
			d.Kind = types.TableKindView
		case strings.HasPrefix(strings.ToLower(name), "sqlite_"):
			d.Kind = types.TableKindSystem
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (sqliteCatalog) PrimaryKey(ctx context.Context, db *sql.DB, _ string, table string) ([]string, error) {
	rows, err := db.QueryContext(ctx, `SELECT name FROM pragma_table_info(?) WHERE pk > 0 ORDER BY pk`, table)
	if err != nil {
		return nil, fmt.Errorf("query table_info: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table_info: %w", err)
		}
		keys = append(keys, name)
	}
	return keys, rows.Err()
}
