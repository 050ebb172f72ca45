package access

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/kursplan/pkg/types"
)

// newFixture creates a SQLite file holding every required table, a few
// lecturer rows, a keyless table, an AUTOINCREMENT table (which makes SQLite
// create its internal sqlite_sequence table) and a view.
func newFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Kursprogramm_V1.sqlite")

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	for _, name := range types.RequiredTables {
		var ddl string
		switch name {
		case types.DefaultTable:
			ddl = `CREATE TABLE [LB_Stammdaten] (ID INTEGER PRIMARY KEY, Name TEXT NOT NULL, Vorname TEXT, Kuerzel TEXT)`
		case "Kurs_Liste":
			ddl = `CREATE TABLE [Kurs_Liste] (ID INTEGER PRIMARY KEY AUTOINCREMENT, Titel TEXT)`
		default:
			ddl = fmt.Sprintf(`CREATE TABLE [%s] (ID INTEGER PRIMARY KEY, Bezeichnung TEXT)`, name)
		}
		_, err := db.Exec(ddl)
		require.NoError(t, err, ddl)
	}

	stmts := []string{
		`INSERT INTO [LB_Stammdaten] (ID, Name, Vorname, Kuerzel) VALUES (1, 'Becker', 'Anna', 'BEC'), (2, 'Schulz', 'Jonas', NULL), (3, 'Wagner', NULL, 'WAG')`,
		`INSERT INTO [Kurs_Liste] (Titel) VALUES ('Mathematik'), ('Deutsch')`,
		`CREATE TABLE [Notizen] (Text TEXT, Autor TEXT)`,
		`INSERT INTO [Notizen] (Text, Autor) VALUES ('Raum 101 gesperrt', 'BEC'), ('Elternabend', NULL)`,
		`CREATE VIEW [v_Dozenten] AS SELECT Name FROM [LB_Stammdaten]`,
	}
	for _, s := range stmts {
		_, err := db.Exec(s)
		require.NoError(t, err, s)
	}
	return path
}

// newNotDatabaseFile writes a text file that is not a database.
func newNotDatabaseFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "notes.accdb")
	content := make([]byte, 0, 2048)
	for len(content) < 2048 {
		content = append(content, "this file is plain text and not a database\n"...)
	}
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

// connectFixture returns a sqlite-backed Service connected to a new fixture.
func connectFixture(t *testing.T) (*Service, string) {
	t.Helper()
	path := newFixture(t)
	s := NewService([]string{types.ProviderSQLite}, newTestLogger(t))
	require.NoError(t, s.Connect(context.Background(), path))
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

// queryString reads one string value directly from the fixture file.
func queryString(t *testing.T, path, query string, args ...any) sql.NullString {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	var v sql.NullString
	require.NoError(t, db.QueryRow(query, args...).Scan(&v))
	return v
}
