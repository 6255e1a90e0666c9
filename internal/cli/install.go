package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// newInstallCmd creates the `install` command.
// Usage: skills install <name-or-url> -t codex [-g]
func newInstallCmd() *cobra.Command {
	var (
		targetFlag string
		global     bool
	)

	cmd := &cobra.Command{
		Use:   "install <name-or-url>",
		Short: "Install a skill by name or GitHub URL",
		Long: `Installs a skill into <base>/.<type>/skills/<name>, where <base> is the
working directory, or the home directory with --global.

A GitHub URL (or bare owner/repo) installs that repository subtree directly.
A plain name is looked up in the registered marketplaces first.

Example:
  skills install pptx -t codex
  skills install https://github.com/anthropics/skills/tree/main/document-skills/pptx -t claude -g`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			return runInstall(cmd.Context(), a, args[0], targetFlag, global)
		},
	}

	cmd.Flags().StringVarP(&targetFlag, "type", "t", "", "target type: codex, copilot, or claude")
	cmd.Flags().BoolVarP(&global, "global", "g", false, "install under the home directory instead of the working directory")

	return cmd
}

// isRepoReference reports whether the install argument addresses a
// repository directly rather than naming a skill to look up.
func isRepoReference(arg string) bool {
	return strings.Contains(arg, "://") || strings.Contains(arg, "/")
}

// runInstall is the testable core of the install command.
func runInstall(ctx context.Context, a *app, arg, targetFlag string, global bool) error {
	target, err := a.targetType(targetFlag)
	if err != nil {
		return err
	}

	if isRepoReference(arg) {
		res, err := a.installer.InstallURL(ctx, arg, target, global)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "✅ Installed %s (%d file(s)) to %s\n", res.Skill, res.Written, res.Dir)
		return nil
	}

	fmt.Fprintf(a.out, "🔎 Searching for skill %q in marketplaces...\n", arg)
	res, err := a.installer.InstallByName(ctx, arg, target, global)
	if err != nil {
		return err
	}
	if res.Market != "" {
		fmt.Fprintf(a.out, "✅ Installed %s from %s (%d file(s)) to %s\n", res.Skill, res.Market, res.Written, res.Dir)
	} else {
		fmt.Fprintf(a.out, "✅ Installed %s (%d file(s)) to %s\n", res.Skill, res.Written, res.Dir)
	}
	return nil
}
