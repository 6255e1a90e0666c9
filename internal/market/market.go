// Package market maintains the registry of marketplaces: GitHub repositories
// that index installable skills. The registry is a JSON document under the
// user's home directory; a built-in default marketplace is synthesized at
// load time and never persisted.
package market

import (
	"fmt"

	"github.com/skillsmd/skillscli/internal/ghrepo"
)

// Entry is one registered marketplace. Name is derived from owner/repo at
// add time; URL is preserved verbatim as the user supplied it.
type Entry struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Source is a marketplace resolved to a repository pointer, ready for the
// content API.
type Source struct {
	Market string // display name of the marketplace
	Ref    ghrepo.Ref
}

// DefaultEntry returns the built-in marketplace. It is composed with the
// persisted set on every read and never written to disk.
func DefaultEntry() Entry {
	return Entry{
		Name: "anthropics/skills",
		URL:  "https://github.com/anthropics/skills",
	}
}

// Store persists the registry document.
type Store interface {
	// Load reads the persisted entries. A missing document is an empty
	// registry, not an error.
	Load() ([]Entry, error)

	// Save atomically replaces the persisted document.
	Save(entries []Entry) error
}

// Registry manages marketplace entries on top of a Store.
type Registry struct {
	store Store
}

// NewRegistry creates a Registry backed by the given store.
func NewRegistry(store Store) *Registry {
	return &Registry{store: store}
}

// Load returns the persisted entries only, without the built-in default.
func (r *Registry) Load() ([]Entry, error) {
	return r.store.Load()
}

// List returns the built-in default first, then the persisted entries in
// registration order. A persisted entry addressing the same repository as
// the default is dropped so the default never doubles.
func (r *Registry) List() ([]Entry, error) {
	persisted, err := r.store.Load()
	if err != nil {
		return nil, err
	}

	def := DefaultEntry()
	defRef, _ := ghrepo.Parse(def.URL)

	entries := []Entry{def}
	for _, e := range persisted {
		ref, err := ghrepo.Parse(e.URL)
		if err != nil {
			return nil, fmt.Errorf("registry entry %q: %w", e.Name, err)
		}
		if ref.RepoFullName() == defRef.RepoFullName() {
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Add validates the URL, appends a new entry, and persists the registry.
// Adding a marketplace whose owner/repo is already registered is a no-op
// that returns the existing entry and ok=false.
func (r *Registry) Add(url string) (Entry, bool, error) {
	ref, err := ghrepo.Parse(url)
	if err != nil {
		return Entry{}, false, err
	}

	entries, err := r.store.Load()
	if err != nil {
		return Entry{}, false, err
	}

	for _, e := range entries {
		existing, err := ghrepo.Parse(e.URL)
		if err != nil {
			continue // tolerate a hand-edited entry here; List surfaces it
		}
		if existing.RepoFullName() == ref.RepoFullName() {
			return e, false, nil
		}
	}

	entry := Entry{Name: ref.RepoFullName(), URL: url}
	entries = append(entries, entry)
	if err := r.store.Save(entries); err != nil {
		return Entry{}, false, err
	}
	return entry, true, nil
}

// Sources resolves every listed marketplace (default included) to a
// repository pointer, deduplicated by owner/repo/subpath in list order.
func (r *Registry) Sources() ([]Source, error) {
	entries, err := r.List()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(entries))
	sources := make([]Source, 0, len(entries))
	for _, e := range entries {
		ref, err := ghrepo.Parse(e.URL)
		if err != nil {
			return nil, fmt.Errorf("registry entry %q: %w", e.Name, err)
		}
		key := ref.RepoFullName() + "/" + ref.Subpath
		if seen[key] {
			continue
		}
		seen[key] = true
		sources = append(sources, Source{Market: e.Name, Ref: ref})
	}
	return sources, nil
}
