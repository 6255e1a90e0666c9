package market

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/skillsmd/skillscli/internal/apperr"
)

func newTestRegistry(t *testing.T) (*Registry, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "market.json")
	return NewRegistry(NewFileStoreAt(path)), path
}

func TestRegistry_SaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	reg, _ := newTestRegistry(t)

	added, ok, err := reg.Add("https://github.com/myorg/my-skills")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if !ok {
		t.Fatal("Add: expected a new entry")
	}
	if added.Name != "myorg/my-skills" {
		t.Errorf("derived name: got %q, want %q", added.Name, "myorg/my-skills")
	}

	loaded, err := reg.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded) != 1 || loaded[0] != added {
		t.Errorf("round trip: got %+v, want [%+v]", loaded, added)
	}
}

func TestRegistry_ListIncludesDefaultFirst(t *testing.T) {
	t.Parallel()

	reg, _ := newTestRegistry(t)

	// Empty registry still yields the built-in default.
	entries, err := reg.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 || entries[0] != DefaultEntry() {
		t.Fatalf("List(empty): got %+v, want just the default", entries)
	}

	if _, _, err := reg.Add("https://github.com/myorg/my-skills/tree/main/skills"); err != nil {
		t.Fatalf("Add: %v", err)
	}

	entries, err = reg.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("List: got %d entries, want 2", len(entries))
	}
	if entries[0] != DefaultEntry() {
		t.Errorf("default must sort first, got %+v", entries[0])
	}
	if entries[1].Name != "myorg/my-skills" {
		t.Errorf("persisted entry: got %+v", entries[1])
	}
}

func TestRegistry_AddDuplicateIsNoOp(t *testing.T) {
	t.Parallel()

	reg, path := newTestRegistry(t)

	first, ok, err := reg.Add("https://github.com/myorg/my-skills")
	if err != nil || !ok {
		t.Fatalf("first Add: ok=%v err=%v", ok, err)
	}

	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading registry: %v", err)
	}

	// Same owner/repo through a different URL form is still a duplicate.
	dup, ok, err := reg.Add("https://github.com/myorg/my-skills/tree/main/other")
	if err != nil {
		t.Fatalf("duplicate Add: %v", err)
	}
	if ok {
		t.Error("duplicate Add: expected no-op")
	}
	if dup != first {
		t.Errorf("duplicate Add: got %+v, want existing %+v", dup, first)
	}

	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading registry: %v", err)
	}
	if string(before) != string(after) {
		t.Error("duplicate Add rewrote the registry file")
	}
}

func TestRegistry_AddInvalidURL(t *testing.T) {
	t.Parallel()

	reg, _ := newTestRegistry(t)
	_, _, err := reg.Add("https://gitlab.com/owner/repo")
	if !errors.Is(err, apperr.ErrInvalidURL) {
		t.Errorf("Add(foreign host): got %v, want ErrInvalidURL", err)
	}
}

func TestRegistry_DefaultNeverDoubles(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "market.json")
	// Hand-edited registry that repeats the default marketplace.
	content := `[{"name":"anthropics/skills","url":"https://github.com/anthropics/skills/tree/main"}]`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	reg := NewRegistry(NewFileStoreAt(path))
	entries, err := reg.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("List: got %d entries, want the default only", len(entries))
	}
}

func TestFileStore_CorruptRegistry(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "market.json")
	if err := os.WriteFile(path, []byte(`{"not":"an array"`), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := NewFileStoreAt(path).Load()
	if !errors.Is(err, apperr.ErrCorruptRegistry) {
		t.Errorf("Load(corrupt): got %v, want ErrCorruptRegistry", err)
	}
}

func TestFileStore_MissingFileIsEmpty(t *testing.T) {
	t.Parallel()

	entries, err := NewFileStoreAt(filepath.Join(t.TempDir(), "nope.json")).Load()
	if err != nil {
		t.Fatalf("Load(missing): %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Load(missing): got %+v, want empty", entries)
	}
}

func TestRegistry_Sources(t *testing.T) {
	t.Parallel()

	reg, _ := newTestRegistry(t)
	if _, _, err := reg.Add("https://github.com/myorg/my-skills/tree/dev/bundles"); err != nil {
		t.Fatal(err)
	}

	sources, err := reg.Sources()
	if err != nil {
		t.Fatalf("Sources: %v", err)
	}
	if len(sources) != 2 {
		t.Fatalf("Sources: got %d, want 2", len(sources))
	}
	if sources[0].Ref.RepoFullName() != "anthropics/skills" {
		t.Errorf("default source first: got %+v", sources[0])
	}
	got := sources[1].Ref
	if got.Owner != "myorg" || got.Branch != "dev" || got.Subpath != "bundles" {
		t.Errorf("resolved source: got %+v", got)
	}
}
