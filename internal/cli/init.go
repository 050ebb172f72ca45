package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/kursplan/internal/paths"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Long: "Create the configuration directory and a default config.yaml.\n" +
			"An existing config.yaml is left untouched. The --db flag, when given,\n" +
			"is recorded as the database path.",
		Args: cobra.NoArgs,
		RunE: runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	configDir, err := paths.ResolveConfigDir(flags.configDir)
	if err != nil {
		return fmt.Errorf("resolve config directory: %w", err)
	}

	database := ""
	if flags.database != "" {
		if database, err = filepath.Abs(flags.database); err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}
	}

	path := filepath.Join(configDir, configFileExt)
	written, err := writeConfigIfMissing(path, database)
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	if written {
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Config already exists at %s\n", path)
	}
	return nil
}
