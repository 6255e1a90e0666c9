package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/skillsmd/skillscli/internal/auth"
	"github.com/skillsmd/skillscli/internal/config"
	"github.com/skillsmd/skillscli/internal/finder"
	"github.com/skillsmd/skillscli/internal/github"
	"github.com/skillsmd/skillscli/internal/installer"
	"github.com/skillsmd/skillscli/internal/market"
	"github.com/skillsmd/skillscli/internal/mirror"
)

// searcher is the query surface the search commands need.
type searcher interface {
	Search(ctx context.Context, query string) ([]finder.Match, error)
}

// skillInstaller is the surface the install command needs.
type skillInstaller interface {
	InstallURL(ctx context.Context, rawURL string, target installer.TargetType, global bool) (installer.Result, error)
	InstallByName(ctx context.Context, name string, target installer.TargetType, global bool) (installer.Result, error)
}

// app is the assembled component graph commands run against. Tests build
// one from fakes; production commands call newApp.
type app struct {
	cfg       *config.Config
	registry  *market.Registry
	locator   searcher
	installer skillInstaller
	out       io.Writer
}

// newApp wires the production dependencies.
func newApp() (*app, error) {
	cfg, err := config.Load(config.DefaultPath())
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	client := github.New(auth.NewHTTPClient(cfg.Timeout()))
	registry := market.NewRegistry(market.NewFileStore())

	locator := finder.New(registry, client)
	locator.Warn = func(marketName string, err error) {
		fmt.Fprintf(os.Stderr, "⚠️  skipping marketplace %s: %s\n", marketName, err)
	}

	mir := mirror.NewWithWorkers(client, &mirror.OSFileWriter{}, cfg.Workers)
	inst := installer.New(mir, locator, &consoleSelector{in: os.Stdin, out: os.Stdout})

	return &app{
		cfg:       cfg,
		registry:  registry,
		locator:   locator,
		installer: inst,
		out:       os.Stdout,
	}, nil
}

// targetType resolves the --type flag against the configured default.
func (a *app) targetType(flag string) (installer.TargetType, error) {
	if flag == "" {
		flag = a.cfg.DefaultTarget
	}
	if flag == "" {
		return "", fmt.Errorf("no target type: pass -t/--type or set default_target in %s", config.DefaultPath())
	}
	return installer.ParseTarget(flag)
}
