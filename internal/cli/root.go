package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

// NewRootCmd creates the top-level `skills` command.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "skills",
		Short: "Install and discover agent skill bundles from GitHub",
		Long: `skills installs skill bundles (directories of files hosted in GitHub
repositories) into the conventional skills directory of your coding agent,
and manages the marketplaces those skills are discovered in.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newInstallCmd())
	root.AddCommand(newSearchCmd())
	root.AddCommand(newMarketCmd())

	return root
}

// Execute runs the root command.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
