package access

import (
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/kursplan/pkg/types"
)

func TestOLEDBDSN(t *testing.T) {
	tests := []struct {
		identity string
		path     string
		want     string
	}{
		{
			identity: oleDBProviderACE,
			path:     `C:\Kursplan\Kursprogramm_V1.accdb`,
			want:     `Provider=Microsoft.ACE.OLEDB.12.0;Data Source=C:\Kursplan\Kursprogramm_V1.accdb;Persist Security Info=False;`,
		},
		{
			identity: oleDBProviderJet,
			path:     `D:\alt\kurse.mdb`,
			want:     `Provider=Microsoft.Jet.OLEDB.4.0;Data Source=D:\alt\kurse.mdb;Persist Security Info=False;`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.identity, func(t *testing.T) {
			assert.Equal(t, tt.want, oleDBDSN(tt.identity)(tt.path))
		})
	}
}

func TestSQLiteDSN(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix path layout")
	}
	assert.Equal(t, "file:///tmp/kurse.sqlite?mode=rw&_pragma=busy_timeout(0)", sqliteDSN("/tmp/kurse.sqlite"))
	assert.Equal(t, "file:///tmp/Kurs%20Plan.sqlite?mode=rw&_pragma=busy_timeout(0)", sqliteDSN("/tmp/Kurs Plan.sqlite"))

	rel := sqliteDSN("kurse.sqlite")
	assert.True(t, strings.HasPrefix(rel, "file:///"), rel)
}

func TestLookup(t *testing.T) {
	p, err := Lookup("SQLite")
	require.NoError(t, err)
	assert.Equal(t, types.ProviderSQLite, p.Name)
	assert.Equal(t, "sqlite", p.Driver)

	_, err = Lookup("postgres")
	assert.ErrorIs(t, err, types.ErrProviderUnknown)

	if runtime.GOOS != "windows" {
		_, err = Lookup(types.ProviderACE)
		assert.ErrorIs(t, err, types.ErrProviderUnavailable)
	}
}

func TestNames(t *testing.T) {
	names := Names()
	assert.Contains(t, names, types.ProviderSQLite)
	assert.IsIncreasing(t, names)
}

func TestProvider_IsSystem(t *testing.T) {
	p := Provider{SystemPrefix: "MSys"}
	assert.True(t, p.isSystem("MSysObjects"))
	assert.True(t, p.isSystem("msysACEs"))
	assert.False(t, p.isSystem("MSy"))
	assert.False(t, p.isSystem("LB_Stammdaten"))
	assert.False(t, Provider{}.isSystem("MSysObjects"))
}
