package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/kursplan/pkg/access"
)

const modulePath = "github.com/mesh-intelligence/kursplan"

// Version is the release version, overridden at build time with
// -ldflags "-X github.com/mesh-intelligence/kursplan/internal/cli.Version=...".
var Version = "0.1.0"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the kursplan version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "kursplan v%s\nmodule: %s\nproviders: %v\n", Version, modulePath, access.Providers())
			return nil
		},
	}
}
