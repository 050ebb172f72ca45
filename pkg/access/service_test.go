package access

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/kursplan/pkg/types"
)

func TestNewService_RejectsInvalidConfig(t *testing.T) {
	_, err := NewService(types.Config{}, nil)
	assert.ErrorIs(t, err, types.ErrProvidersEmpty)
}

func TestNewService_ReturnsUnconnectedService(t *testing.T) {
	svc, err := NewService(types.Config{Providers: []string{types.ProviderSQLite}}, nil)
	require.NoError(t, err)
	defer svc.Close()

	_, _, err = svc.ValidateSchema(context.Background(), types.RequiredTables)
	assert.ErrorIs(t, err, types.ErrNotConnected)

	err = svc.Connect(context.Background(), filepath.Join(t.TempDir(), "none.sqlite"))
	assert.ErrorIs(t, err, types.ErrOpenFailed)
}

func TestProviders(t *testing.T) {
	assert.Contains(t, Providers(), types.ProviderSQLite)
}
