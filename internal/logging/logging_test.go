package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "", want: slog.LevelInfo},
		{in: "info", want: slog.LevelInfo},
		{in: "DEBUG", want: slog.LevelDebug},
		{in: "warning", want: slog.LevelWarn},
		{in: " error ", want: slog.LevelError},
		{in: "verbose", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSetup_ConsoleOnly(t *testing.T) {
	var buf bytes.Buffer
	logger, cleanup, err := Setup(Options{Level: "info", Output: &buf})
	require.NoError(t, err)
	require.NotNil(t, cleanup)
	defer cleanup()

	logger.Debug("hidden")
	logger.Info("connected", "provider", "sqlite")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "msg=connected")
	assert.Contains(t, out, "provider=sqlite")
}

func TestSetup_DebugLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, cleanup, err := Setup(Options{Level: "debug", Output: &buf})
	require.NoError(t, err)
	defer cleanup()

	logger.Debug("statement", "kind", "update")
	assert.Contains(t, buf.String(), "kind=update")
}

func TestSetup_InvalidLevel(t *testing.T) {
	_, _, err := Setup(Options{Level: "loud"})
	assert.ErrorIs(t, err, ErrUnknownLevel)
}

func TestMultiHandler_FansOut(t *testing.T) {
	var a, b bytes.Buffer
	h := &multiHandler{handlers: []slog.Handler{
		slog.NewTextHandler(&a, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewTextHandler(&b, &slog.HandlerOptions{Level: slog.LevelWarn}),
	}}

	assert.True(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, h.Enabled(context.Background(), slog.LevelDebug))

	logger := slog.New(h).With("table", "Kurs_Liste").WithGroup("save")
	logger.Info("committed", "rows", 2)
	logger.Warn("conflict", "rows", 0)

	assert.Contains(t, a.String(), "msg=committed")
	assert.Contains(t, a.String(), "table=Kurs_Liste")
	assert.Contains(t, a.String(), "save.rows=2")
	assert.NotContains(t, b.String(), "committed")
	assert.Contains(t, b.String(), "msg=conflict")
}
