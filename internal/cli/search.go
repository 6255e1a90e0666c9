package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// newSearchCmd creates the `search` command.
// Usage: skills search <query>
func newSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search registered marketplaces for skills",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			return runSearch(cmd.Context(), a, args[0])
		},
	}
}

// runSearch is the testable core of the search commands.
func runSearch(ctx context.Context, a *app, query string) error {
	fmt.Fprintf(a.out, "🔎 Searching for skills matching %q...\n\n", query)

	matches, err := a.locator.Search(ctx, query)
	if err != nil {
		return err
	}

	if len(matches) == 0 {
		fmt.Fprintf(a.out, "No skills found matching %q.\n", query)
		return nil
	}

	fmt.Fprintf(a.out, "Found %d skill(s):\n\n", len(matches))
	for _, m := range matches {
		fmt.Fprintf(a.out, "  • %s (%s)\n", m.Name, m.Market)
		fmt.Fprintf(a.out, "    %s\n\n", m.URL)
	}
	return nil
}
