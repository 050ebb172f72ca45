// Package cli implements the kursplan command-line interface.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/kursplan/internal/logging"
	"github.com/mesh-intelligence/kursplan/internal/paths"
	"github.com/mesh-intelligence/kursplan/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	database  string
	jsonMode  bool
	verbose   bool
}

var flags rootFlags

// NewRootCmd creates the top-level "kursplan" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "kursplan",
		Short: "Inspect and edit the Kursplan course planning database",
		Long: "Kursplan opens the course planning database (Access .accdb/.mdb, or SQLite),\n" +
			"checks that the required tables exist, and shows or edits their rows.",
		Version: Version,
		// Do not print usage on errors returned by subcommands.
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&flags.database, "db", "", "database file (default: config value or the only database file in the working directory)")
	root.PersistentFlags().BoolVar(&flags.jsonMode, "json", false, "output in JSON format")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd())
	root.AddCommand(newTablesCmd())
	root.AddCommand(newShowCmd())
	root.AddCommand(newSetCmd())
	root.AddCommand(newInsertCmd())
	root.AddCommand(newDeleteCmd())

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}

// userErrors are failures caused by arguments, configuration or the
// contents of the database rather than by the environment.
var userErrors = []error{
	types.ErrTableMissing,
	types.ErrRowOutOfRange,
	types.ErrColumnNotFound,
	types.ErrValueCount,
	types.ErrProvidersEmpty,
	types.ErrProviderUnknown,
	types.ErrRequiredTableEmpty,
	types.ErrNoDataLoaded,
	types.ErrConcurrencyConflict,
	paths.ErrNoDatabase,
	paths.ErrAmbiguousDatabase,
	logging.ErrUnknownLevel,
	errInvalidArgument,
}

// errInvalidArgument wraps malformed command arguments.
var errInvalidArgument = errors.New("invalid argument")

// exitCode maps an error returned by a command to a process exit code.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	for _, target := range userErrors {
		if errors.Is(err, target) {
			return exitUserError
		}
	}
	return exitSysError
}

func invalidArgf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errInvalidArgument, fmt.Sprintf(format, args...))
}
