// Package finder turns a free-text query into ranked skill candidates drawn
// from every registered marketplace.
package finder

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/skillsmd/skillscli/internal/ghrepo"
	"github.com/skillsmd/skillscli/internal/github"
	"github.com/skillsmd/skillscli/internal/market"
)

// indexFile is the curated manifest a marketplace may publish at its
// subpath root. Without one, the top-level directory listing is the index:
// every directory is one candidate skill named after itself.
const indexFile = "skills.json"

// fuzzyThreshold is the minimum token similarity for a fuzzy-only match.
const fuzzyThreshold = 0.5

// Match is one ranked skill candidate. Produced fresh by every query.
type Match struct {
	Name      string  // skill name
	OwnerRepo string  // "owner/repo" of the marketplace holding it
	Market    string  // marketplace display name
	URL       string  // canonical tree URL of the skill directory
	Score     float64 // see score(); exact-substring hits always outrank fuzzy-only ones
}

// ContentSource is the remote-API surface the locator needs.
type ContentSource interface {
	ListDirectory(ctx context.Context, ref ghrepo.Ref) ([]github.ContentNode, error)
	FetchFile(ctx context.Context, ref ghrepo.Ref, node github.ContentNode) ([]byte, error)
}

// Locator searches registered marketplaces for skills.
type Locator struct {
	registry *market.Registry
	source   ContentSource

	// Warn, when set, is called for each marketplace that could not be
	// reached. The search continues with the remaining marketplaces.
	Warn func(marketName string, err error)
}

// New creates a Locator.
func New(registry *market.Registry, source ContentSource) *Locator {
	return &Locator{registry: registry, source: source}
}

// candidate is one entry of a marketplace's skill index.
type candidate struct {
	name string
	ref  ghrepo.Ref
}

// skillIndex is the shape of a curated skills.json manifest.
type skillIndex struct {
	Skills []struct {
		Name string `json:"name"`
		Path string `json:"path"` // repo-rooted; empty means <subpath>/<name>
	} `json:"skills"`
}

// Search returns every candidate matching the query, sorted by score
// descending with ties broken by name ascending. Results are deterministic
// for identical inputs.
func (l *Locator) Search(ctx context.Context, query string) ([]Match, error) {
	sources, err := l.registry.Sources()
	if err != nil {
		return nil, err
	}

	var matches []Match
	for _, src := range sources {
		candidates, err := l.index(ctx, src.Ref)
		if err != nil {
			if l.Warn != nil {
				l.Warn(src.Market, err)
			}
			continue
		}
		for _, c := range candidates {
			s, ok := score(query, c.name)
			if !ok {
				continue
			}
			matches = append(matches, Match{
				Name:      c.name,
				OwnerRepo: c.ref.RepoFullName(),
				Market:    src.Market,
				URL:       c.ref.TreeURL(),
				Score:     s,
			})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Name < matches[j].Name
	})
	return matches, nil
}

// FindByName returns every candidate whose name equals the given name
// case-insensitively, in marketplace registration order.
func (l *Locator) FindByName(ctx context.Context, name string) ([]Match, error) {
	sources, err := l.registry.Sources()
	if err != nil {
		return nil, err
	}

	var matches []Match
	for _, src := range sources {
		candidates, err := l.index(ctx, src.Ref)
		if err != nil {
			if l.Warn != nil {
				l.Warn(src.Market, err)
			}
			continue
		}
		for _, c := range candidates {
			if strings.EqualFold(c.name, name) {
				matches = append(matches, Match{
					Name:      c.name,
					OwnerRepo: c.ref.RepoFullName(),
					Market:    src.Market,
					URL:       c.ref.TreeURL(),
					Score:     exactScore,
				})
			}
		}
	}
	return matches, nil
}

// FindExact returns the single exact-name candidate, if any. When several
// marketplaces define a same-named skill, the first registered marketplace
// wins.
func (l *Locator) FindExact(ctx context.Context, name string) (Match, bool, error) {
	matches, err := l.FindByName(ctx, name)
	if err != nil {
		return Match{}, false, err
	}
	if len(matches) == 0 {
		return Match{}, false, nil
	}
	return matches[0], true, nil
}

// index expands one marketplace into its candidate skills: the curated
// skills.json manifest when present, the top-level directory listing
// otherwise.
func (l *Locator) index(ctx context.Context, ref ghrepo.Ref) ([]candidate, error) {
	nodes, err := l.source.ListDirectory(ctx, ref)
	if err != nil {
		return nil, err
	}

	for _, node := range nodes {
		if node.IsFile() && node.Name == indexFile {
			if candidates, err := l.manifestIndex(ctx, ref, node); err == nil {
				return candidates, nil
			}
			// An unreadable manifest falls back to the listing.
			break
		}
	}

	var candidates []candidate
	for _, node := range nodes {
		if node.IsDir() {
			candidates = append(candidates, candidate{name: node.Name, ref: ref.Child(node.Name)})
		}
	}
	return candidates, nil
}

// manifestIndex parses a curated skills.json manifest.
func (l *Locator) manifestIndex(ctx context.Context, ref ghrepo.Ref, node github.ContentNode) ([]candidate, error) {
	data, err := l.source.FetchFile(ctx, ref, node)
	if err != nil {
		return nil, err
	}

	var idx skillIndex
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, err
	}

	var candidates []candidate
	for _, s := range idx.Skills {
		if s.Name == "" {
			continue
		}
		skillRef := ref
		if s.Path != "" {
			skillRef.Subpath = strings.Trim(s.Path, "/")
		} else {
			skillRef = ref.Child(s.Name)
		}
		candidates = append(candidates, candidate{name: s.Name, ref: skillRef})
	}
	return candidates, nil
}

// exactScore is the score of a case-insensitive exact name match.
const exactScore = 100.0

// score rates a candidate name against the query. Exact matches score 100,
// other substring hits land in (50, 100) scaled by how much of the name the
// query covers, and fuzzy-only hits land below 50 so a substring match can
// never be outranked by one. Returns ok=false when the candidate misses the
// fuzzy threshold.
func score(query, name string) (float64, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	n := strings.ToLower(name)
	if q == "" || n == "" {
		return 0, false
	}

	if q == n {
		return exactScore, true
	}
	if strings.Contains(n, q) {
		return 50 + 49*float64(len(q))/float64(len(n)), true
	}

	sim := tokenSimilarity(q, n)
	if sim < fuzzyThreshold {
		return 0, false
	}
	return 49 * sim, true
}

// tokenSimilarity returns the best levenshtein similarity between the query
// and the whole name or any of its tokens.
func tokenSimilarity(query, name string) float64 {
	best := similarity(query, name)
	for _, token := range strings.FieldsFunc(name, func(r rune) bool {
		return r == '-' || r == '_' || r == '.' || r == ' '
	}) {
		if s := similarity(query, token); s > best {
			best = s
		}
	}
	return best
}

// similarity normalizes edit distance into [0,1], 1 meaning equal.
func similarity(a, b string) float64 {
	longest := max(len(a), len(b))
	if longest == 0 {
		return 1
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(longest)
}
