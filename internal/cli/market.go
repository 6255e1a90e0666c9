package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skillsmd/skillscli/internal/market"
)

// newMarketCmd creates the `market` command group.
func newMarketCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "market",
		Short: "Manage skill marketplaces",
		Long:  "Manage the registry of marketplaces that skills are discovered in.",
	}

	cmd.AddCommand(newMarketAddCmd())
	cmd.AddCommand(newMarketSearchCmd())
	cmd.AddCommand(newMarketListCmd())

	return cmd
}

// newMarketAddCmd creates `market add`.
// Usage: skills market add <url>
func newMarketAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <url>",
		Short: "Register a marketplace repository",
		Long: `Registers a GitHub repository (or a subtree of one) as a skill
marketplace.

Example:
  skills market add https://github.com/myorg/my-skills/tree/main/skills`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			return runMarketAdd(a, args[0])
		},
	}
}

// newMarketSearchCmd creates `market search`, an alias surface for search
// that exists for symmetry with `market add`.
func newMarketSearchCmd() *cobra.Command {
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

// newMarketListCmd creates `market list`.
func newMarketListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered marketplaces",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			return runMarketList(a)
		},
	}
}

// runMarketAdd is the testable core of `market add`.
func runMarketAdd(a *app, url string) error {
	entry, added, err := a.registry.Add(url)
	if err != nil {
		return err
	}
	if !added {
		fmt.Fprintf(a.out, "Marketplace %s is already registered.\n", entry.Name)
		return nil
	}
	fmt.Fprintf(a.out, "✅ Added marketplace %s (%s)\n", entry.Name, entry.URL)
	return nil
}

// runMarketList is the testable core of `market list`.
func runMarketList(a *app) error {
	entries, err := a.registry.List()
	if err != nil {
		return err
	}

	def := market.DefaultEntry()
	for _, e := range entries {
		if e == def {
			fmt.Fprintf(a.out, "  • %s (built-in): %s\n", e.Name, e.URL)
			continue
		}
		fmt.Fprintf(a.out, "  • %s: %s\n", e.Name, e.URL)
	}
	return nil
}
