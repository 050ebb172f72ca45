package cli

import (
	"bytes"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/kursplan/pkg/types"
)

// newDatabase creates a SQLite file with every required table except
// Funktion and two lecturer rows.
func newDatabase(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "Kursprogramm_V1.sqlite")

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	for _, name := range types.RequiredTables {
		var ddl string
		switch name {
		case "Funktion":
			continue
		case types.DefaultTable:
			ddl = `CREATE TABLE [LB_Stammdaten] (ID INTEGER PRIMARY KEY, Name TEXT NOT NULL, Vorname TEXT, Stunden REAL)`
		default:
			ddl = fmt.Sprintf(`CREATE TABLE [%s] (ID INTEGER PRIMARY KEY, Bezeichnung TEXT)`, name)
		}
		_, err := db.Exec(ddl)
		require.NoError(t, err, ddl)
	}
	_, err = db.Exec(`INSERT INTO [LB_Stammdaten] (ID, Name, Vorname, Stunden) VALUES (1, 'Becker', 'Anna', 12.5), (2, 'Schulz', NULL, 8)`)
	require.NoError(t, err)
	return path
}

// newConfigDir writes a config.yaml that selects the sqlite provider.
func newConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	cfg := "providers:\n  - sqlite\nlog:\n  level: debug\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(cfg), 0o644))
	return dir
}

// execute runs the root command with args and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)

	err := root.Execute()
	if errOut.Len() > 0 {
		t.Log(errOut.String())
	}
	return out.String(), err
}

// testEnv bundles a database file and a config directory.
type testEnv struct {
	db        string
	configDir string
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	return testEnv{db: newDatabase(t, t.TempDir()), configDir: newConfigDir(t)}
}

// run executes a command against the environment's database.
func (e testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return execute(t, append([]string{"--config-dir", e.configDir, "--db", e.db}, args...)...)
}

func (e testEnv) queryString(t *testing.T, query string, args ...any) sql.NullString {
	t.Helper()
	db, err := sql.Open("sqlite", e.db)
	require.NoError(t, err)
	defer db.Close()

	var v sql.NullString
	require.NoError(t, db.QueryRow(query, args...).Scan(&v))
	return v
}
