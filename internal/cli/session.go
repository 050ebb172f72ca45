package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/kursplan/internal/logging"
	"github.com/mesh-intelligence/kursplan/internal/paths"
	"github.com/mesh-intelligence/kursplan/pkg/access"
	"github.com/mesh-intelligence/kursplan/pkg/types"
)

// session is a connected service plus the settings it was opened with.
// The caller must defer Close.
type session struct {
	svc      types.Service
	settings settings
	path     string
	logger   *slog.Logger
	closeLog func()
}

// openSession resolves configuration and the database path, then connects.
func openSession(cmd *cobra.Command) (*session, error) {
	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return nil, fmt.Errorf("resolve config directory: %w", err)
	}
	v, err := loadConfig(configDir)
	if err != nil {
		return nil, err
	}
	st, err := decodeSettings(v)
	if err != nil {
		return nil, err
	}

	level := st.LogLevel
	if flags.verbose {
		level = "debug"
	}
	logger, closeLog, err := logging.Setup(logging.Options{
		Level:  level,
		SeqURL: st.SeqURL,
		Output: cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("get working directory: %w", err)
	}
	path, err := paths.ResolveDatabase(flags.database, st.Database, cwd)
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("%w (use --db to choose a file)", err)
	}

	svc, err := access.NewService(st.Config, logger)
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := svc.Connect(cmd.Context(), path); err != nil {
		closeLog()
		return nil, err
	}

	return &session{
		svc:      svc,
		settings: st,
		path:     path,
		logger:   logger,
		closeLog: closeLog,
	}, nil
}

// providerName returns the provider that opened the connection, if the
// service reports it.
func (s *session) providerName() string {
	if p, ok := s.svc.(interface{ Provider() string }); ok {
		return p.Provider()
	}
	return ""
}

// requireTable refuses tables that the connected file does not contain.
func (s *session) requireTable(cmd *cobra.Command, name string) error {
	ok, _, err := s.svc.ValidateSchema(cmd.Context(), []string{name})
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("table %q: %w", name, types.ErrTableMissing)
	}
	return nil
}

// load checks and loads a table.
func (s *session) load(cmd *cobra.Command, name string) (*types.Table, error) {
	if err := s.requireTable(cmd, name); err != nil {
		return nil, err
	}
	return s.svc.LoadTable(cmd.Context(), name)
}

func (s *session) Close() error {
	err := s.svc.Close()
	s.closeLog()
	return err
}
