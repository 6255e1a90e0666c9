// Package installer orchestrates skill installation: it resolves what to
// download and where the files belong by convention.
package installer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/skillsmd/skillscli/internal/finder"
	"github.com/skillsmd/skillscli/internal/ghrepo"
	"github.com/skillsmd/skillscli/internal/mirror"
)

// TargetType selects which agent's skills directory receives the install.
type TargetType string

const (
	TargetCodex   TargetType = "codex"
	TargetCopilot TargetType = "copilot"
	TargetClaude  TargetType = "claude"
)

// ParseTarget validates a --type flag value.
func ParseTarget(s string) (TargetType, error) {
	t := TargetType(s)
	switch t {
	case TargetCodex, TargetCopilot, TargetClaude:
		return t, nil
	}
	return "", fmt.Errorf("unknown target type %q (want codex, copilot, or claude)", s)
}

// dirName returns the hidden directory for the target. Copilot skills live
// under .github rather than .copilot.
func (t TargetType) dirName() string {
	if t == TargetCopilot {
		return ".github"
	}
	return "." + string(t)
}

// TargetDir computes the skills directory for a target: global installs go
// under the user's home, local ones under the working directory.
func TargetDir(target TargetType, global bool) (string, error) {
	base := xdg.Home
	if !global {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("determining working directory: %w", err)
		}
		base = wd
	}
	return filepath.Join(base, target.dirName(), "skills"), nil
}

// Selector chooses one match when a name is ambiguous across marketplaces.
// The CLI satisfies it with a console prompt; tests use a deterministic one.
type Selector interface {
	SelectOne(matches []finder.Match) (finder.Match, error)
}

// Result reports what an install did. Written is valid even when the
// install failed partway: mirroring is not transactional, and files written
// before the failure stay on disk.
type Result struct {
	Skill   string // installed skill name
	Market  string // marketplace it came from, "" for direct URL installs
	Dir     string // destination directory
	Written int    // files written
}

// SkillLocator is the lookup surface the installer needs. Satisfied by
// *finder.Locator.
type SkillLocator interface {
	FindByName(ctx context.Context, name string) ([]finder.Match, error)
}

// TreeMirror downloads a repository subtree. Satisfied by *mirror.Mirror.
type TreeMirror interface {
	Run(ctx context.Context, ref ghrepo.Ref, destRoot string) (int, error)
}

var _ TreeMirror = (*mirror.Mirror)(nil)

// Installer wires the locator, the mirror, and the selection policy.
type Installer struct {
	mirror   TreeMirror
	locator  SkillLocator
	selector Selector
}

// New creates an Installer.
func New(m TreeMirror, l SkillLocator, s Selector) *Installer {
	return &Installer{mirror: m, locator: l, selector: s}
}

// InstallURL installs the subtree addressed by a GitHub URL.
func (i *Installer) InstallURL(ctx context.Context, rawURL string, target TargetType, global bool) (Result, error) {
	ref, err := ghrepo.Parse(rawURL)
	if err != nil {
		return Result{}, err
	}
	return i.install(ctx, ref, ref.SkillName(), "", target, global)
}

// InstallByName looks the name up in the registered marketplaces and
// installs the selected candidate. Exactly one candidate installs without
// prompting; several defer to the Selector.
func (i *Installer) InstallByName(ctx context.Context, name string, target TargetType, global bool) (Result, error) {
	matches, err := i.locator.FindByName(ctx, name)
	if err != nil {
		return Result{}, err
	}
	if len(matches) == 0 {
		return Result{}, fmt.Errorf("no skill %q in any marketplace; add one with 'skills market add <url>'", name)
	}

	selected := matches[0]
	if len(matches) > 1 {
		selected, err = i.selector.SelectOne(matches)
		if err != nil {
			return Result{}, err
		}
	}

	ref, err := ghrepo.Parse(selected.URL)
	if err != nil {
		return Result{}, fmt.Errorf("marketplace entry for %q: %w", selected.Name, err)
	}
	return i.install(ctx, ref, selected.Name, selected.Market, target, global)
}

func (i *Installer) install(ctx context.Context, ref ghrepo.Ref, skillName, marketName string, target TargetType, global bool) (Result, error) {
	base, err := TargetDir(target, global)
	if err != nil {
		return Result{}, err
	}
	dest := filepath.Join(base, skillName)

	written, err := i.mirror.Run(ctx, ref, dest)
	result := Result{Skill: skillName, Market: marketName, Dir: dest, Written: written}
	if err != nil {
		return result, fmt.Errorf("installing %s (%d file(s) already written to %s): %w", skillName, written, dest, err)
	}
	return result, nil
}
