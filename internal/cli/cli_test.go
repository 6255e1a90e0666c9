package cli

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/skillsmd/skillscli/internal/config"
	"github.com/skillsmd/skillscli/internal/finder"
	"github.com/skillsmd/skillscli/internal/installer"
	"github.com/skillsmd/skillscli/internal/market"
)

// fakeSearcher returns a fixed match set.
type fakeSearcher struct {
	matches []finder.Match
	err     error
}

var _ searcher = (*fakeSearcher)(nil)

func (f *fakeSearcher) Search(context.Context, string) ([]finder.Match, error) {
	return f.matches, f.err
}

// fakeInstaller records which install path ran.
type fakeInstaller struct {
	urlCalls  []string
	nameCalls []string
	target    installer.TargetType
	result    installer.Result
	err       error
}

var _ skillInstaller = (*fakeInstaller)(nil)

func (f *fakeInstaller) InstallURL(_ context.Context, rawURL string, target installer.TargetType, _ bool) (installer.Result, error) {
	f.urlCalls = append(f.urlCalls, rawURL)
	f.target = target
	return f.result, f.err
}

func (f *fakeInstaller) InstallByName(_ context.Context, name string, target installer.TargetType, _ bool) (installer.Result, error) {
	f.nameCalls = append(f.nameCalls, name)
	f.target = target
	return f.result, f.err
}

func newTestApp(t *testing.T) (*app, *fakeInstaller, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	inst := &fakeInstaller{result: installer.Result{Skill: "pptx", Written: 3, Dir: "/tmp/.codex/skills/pptx"}}
	reg := market.NewRegistry(market.NewFileStoreAt(filepath.Join(t.TempDir(), "market.json")))
	return &app{
		cfg:       config.Default(),
		registry:  reg,
		locator:   &fakeSearcher{},
		installer: inst,
		out:       out,
	}, inst, out
}

func TestIsRepoReference(t *testing.T) {
	t.Parallel()

	tests := []struct {
		arg  string
		want bool
	}{
		{"https://github.com/o/r", true},
		{"o/r", true},
		{"o/r/sub", true},
		{"pptx", false},
		{"meeting-intelligence", false},
	}
	for _, tc := range tests {
		if got := isRepoReference(tc.arg); got != tc.want {
			t.Errorf("isRepoReference(%q) = %v, want %v", tc.arg, got, tc.want)
		}
	}
}

func TestRunInstall_URL(t *testing.T) {
	t.Parallel()

	a, inst, out := newTestApp(t)
	url := "https://github.com/anthropics/skills/tree/main/pptx"

	if err := runInstall(context.Background(), a, url, "codex", false); err != nil {
		t.Fatalf("runInstall: %v", err)
	}
	if len(inst.urlCalls) != 1 || inst.urlCalls[0] != url {
		t.Errorf("urlCalls: got %v", inst.urlCalls)
	}
	if len(inst.nameCalls) != 0 {
		t.Errorf("nameCalls: got %v, want none", inst.nameCalls)
	}
	if inst.target != installer.TargetCodex {
		t.Errorf("target: got %v", inst.target)
	}
	if !strings.Contains(out.String(), "Installed pptx (3 file(s))") {
		t.Errorf("output: %q", out.String())
	}
}

func TestRunInstall_ByName(t *testing.T) {
	t.Parallel()

	a, inst, _ := newTestApp(t)
	inst.result.Market = "anthropics/skills"

	if err := runInstall(context.Background(), a, "pptx", "claude", true); err != nil {
		t.Fatalf("runInstall: %v", err)
	}
	if len(inst.nameCalls) != 1 || inst.nameCalls[0] != "pptx" {
		t.Errorf("nameCalls: got %v", inst.nameCalls)
	}
}

func TestRunInstall_TargetFromConfigDefault(t *testing.T) {
	t.Parallel()

	a, inst, _ := newTestApp(t)
	a.cfg.DefaultTarget = "copilot"

	if err := runInstall(context.Background(), a, "pptx", "", false); err != nil {
		t.Fatalf("runInstall: %v", err)
	}
	if inst.target != installer.TargetCopilot {
		t.Errorf("target: got %v, want copilot from config", inst.target)
	}
}

func TestRunInstall_NoTarget(t *testing.T) {
	t.Parallel()

	a, _, _ := newTestApp(t)
	err := runInstall(context.Background(), a, "pptx", "", false)
	if err == nil || !strings.Contains(err.Error(), "no target type") {
		t.Errorf("runInstall(no target): got %v", err)
	}
}

func TestRunInstall_PropagatesError(t *testing.T) {
	t.Parallel()

	a, inst, _ := newTestApp(t)
	inst.err = errors.New("boom")

	if err := runInstall(context.Background(), a, "pptx", "codex", false); err == nil {
		t.Error("runInstall: expected error")
	}
}

func TestRunSearch_PrintsRankedMatches(t *testing.T) {
	t.Parallel()

	a, _, out := newTestApp(t)
	a.locator = &fakeSearcher{matches: []finder.Match{
		{Name: "pptx", Market: "anthropics/skills", URL: "https://github.com/anthropics/skills/tree/main/pptx", Score: 100},
		{Name: "pptx-advanced", Market: "myorg/more", URL: "https://github.com/myorg/more/tree/main/pptx-advanced", Score: 71},
	}}

	if err := runSearch(context.Background(), a, "pptx"); err != nil {
		t.Fatalf("runSearch: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "Found 2 skill(s)") {
		t.Errorf("output missing count: %q", got)
	}
	if strings.Index(got, "pptx (anthropics/skills)") > strings.Index(got, "pptx-advanced") {
		t.Errorf("matches out of order: %q", got)
	}
}

func TestRunSearch_NoMatches(t *testing.T) {
	t.Parallel()

	a, _, out := newTestApp(t)
	if err := runSearch(context.Background(), a, "nope"); err != nil {
		t.Fatalf("runSearch: %v", err)
	}
	if !strings.Contains(out.String(), "No skills found") {
		t.Errorf("output: %q", out.String())
	}
}

func TestRunMarketAdd_AndList(t *testing.T) {
	t.Parallel()

	a, _, out := newTestApp(t)

	if err := runMarketAdd(a, "https://github.com/myorg/my-skills"); err != nil {
		t.Fatalf("runMarketAdd: %v", err)
	}
	if !strings.Contains(out.String(), "Added marketplace myorg/my-skills") {
		t.Errorf("add output: %q", out.String())
	}

	out.Reset()
	if err := runMarketAdd(a, "https://github.com/myorg/my-skills"); err != nil {
		t.Fatalf("runMarketAdd(dup): %v", err)
	}
	if !strings.Contains(out.String(), "already registered") {
		t.Errorf("duplicate output: %q", out.String())
	}

	out.Reset()
	if err := runMarketList(a); err != nil {
		t.Fatalf("runMarketList: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "anthropics/skills") || !strings.Contains(got, "(built-in)") {
		t.Errorf("list output missing built-in default: %q", got)
	}
	if !strings.Contains(got, "myorg/my-skills") {
		t.Errorf("list output missing added entry: %q", got)
	}
}

func TestRunMarketAdd_InvalidURL(t *testing.T) {
	t.Parallel()

	a, _, _ := newTestApp(t)
	if err := runMarketAdd(a, "https://gitlab.com/o/r"); err == nil {
		t.Error("runMarketAdd(foreign host): expected error")
	}
}

func TestNewRootCmd_Wiring(t *testing.T) {
	t.Parallel()

	root := NewRootCmd()
	for _, name := range []string{"install", "search", "market"} {
		found := false
		for _, c := range root.Commands() {
			if c.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("root command missing %q", name)
		}
	}
}
