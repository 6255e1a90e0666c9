// Package ghrepo parses GitHub web URLs and bare owner/repo references into
// a canonical repository pointer. Parsing is pure: no network access.
package ghrepo

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/skillsmd/skillscli/internal/apperr"
)

// DefaultBranch is assumed when a reference does not name one.
const DefaultBranch = "main"

// githubHosts are the content hosts a URL may point at. Anything else is
// rejected rather than silently treated as a GitHub reference.
var githubHosts = map[string]bool{
	"github.com":     true,
	"www.github.com": true,
}

// Ref is a canonical pointer into a GitHub repository.
// Immutable once constructed; create one with Parse.
type Ref struct {
	Owner   string // repository owner or organisation
	Repo    string // repository name
	Branch  string // branch name, DefaultBranch if the input named none
	Subpath string // path inside the repository, "" means repository root
}

// Parse turns a reference string into a Ref. Accepted forms:
//
//	https://github.com/owner/repo
//	https://github.com/owner/repo/tree/branch/path/to/dir
//	owner/repo
//
// Trailing slashes and percent-encoded path segments are tolerated.
// Everything else fails with apperr.ErrInvalidURL.
func Parse(input string) (Ref, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Ref{}, fmt.Errorf("%w: empty input", apperr.ErrInvalidURL)
	}

	if strings.Contains(raw, "://") {
		return parseWebURL(raw)
	}
	return parseBare(raw)
}

// parseWebURL handles full https://github.com/... URLs.
func parseWebURL(raw string) (Ref, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Ref{}, fmt.Errorf("%w: %q", apperr.ErrInvalidURL, raw)
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return Ref{}, fmt.Errorf("%w: unsupported scheme %q", apperr.ErrInvalidURL, u.Scheme)
	}
	if !githubHosts[strings.ToLower(u.Host)] {
		return Ref{}, fmt.Errorf("%w: host %q is not github.com", apperr.ErrInvalidURL, u.Host)
	}

	// u.Path is already percent-decoded.
	segments := splitPath(u.Path)
	if len(segments) < 2 {
		return Ref{}, fmt.Errorf("%w: %q has no owner/repo", apperr.ErrInvalidURL, raw)
	}

	ref := Ref{
		Owner:  segments[0],
		Repo:   segments[1],
		Branch: DefaultBranch,
	}
	if ref.Owner == "" || ref.Repo == "" {
		return Ref{}, fmt.Errorf("%w: %q has an empty owner or repo segment", apperr.ErrInvalidURL, raw)
	}

	rest := segments[2:]
	if len(rest) == 0 {
		return ref, nil
	}

	// Only the /tree/{branch}[/path...] form addresses a subtree.
	if rest[0] != "tree" || len(rest) < 2 || rest[1] == "" {
		return Ref{}, fmt.Errorf("%w: %q does not address a repository tree", apperr.ErrInvalidURL, raw)
	}
	ref.Branch = rest[1]
	ref.Subpath = strings.Join(rest[2:], "/")
	return ref, nil
}

// parseBare handles the schemeless "owner/repo" shorthand.
func parseBare(raw string) (Ref, error) {
	segments := splitPath(raw)
	if len(segments) != 2 || segments[0] == "" || segments[1] == "" {
		return Ref{}, fmt.Errorf("%w: %q is not owner/repo", apperr.ErrInvalidURL, raw)
	}
	return Ref{
		Owner:  segments[0],
		Repo:   segments[1],
		Branch: DefaultBranch,
	}, nil
}

// splitPath splits a slash path into segments, dropping leading and trailing
// slashes. Interior empty segments are preserved so that malformed input
// like "owner//repo" is caught by the callers' checks.
func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

// RepoFullName returns "owner/repo".
func (r Ref) RepoFullName() string {
	return r.Owner + "/" + r.Repo
}

// Child returns a Ref addressing the named entry under this Ref's subpath.
func (r Ref) Child(name string) Ref {
	child := r
	if r.Subpath == "" {
		child.Subpath = name
	} else {
		child.Subpath = r.Subpath + "/" + name
	}
	return child
}

// TreeURL returns the canonical web URL for this Ref's subtree.
func (r Ref) TreeURL() string {
	u := fmt.Sprintf("https://github.com/%s/%s/tree/%s", r.Owner, r.Repo, r.Branch)
	if r.Subpath != "" {
		u += "/" + r.Subpath
	}
	return u
}

// SkillName derives the installable name from the last subpath segment.
// A Ref at the repository root falls back to the repository name.
func (r Ref) SkillName() string {
	if r.Subpath == "" {
		return r.Repo
	}
	segments := splitPath(r.Subpath)
	return segments[len(segments)-1]
}
