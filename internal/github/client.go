// Package github wraps the GitHub Contents API: directory listings and file
// blobs, one node at a time. It never clones a repository.
package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/skillsmd/skillscli/internal/apperr"
	"github.com/skillsmd/skillscli/internal/ghrepo"
)

const defaultAPIBase = "https://api.github.com"

// perPage is the page size requested from the Contents API. Listings larger
// than this are fetched through Link-header pagination.
const perPage = 100

// ContentNode is one entry of a directory listing as returned by the
// Contents API. Transient: it exists only for the duration of a walk.
type ContentNode struct {
	Name        string `json:"name"`
	Path        string `json:"path"` // relative to the repository root
	Type        string `json:"type"` // "file", "dir", "symlink", "submodule"
	Size        int64  `json:"size"`
	URL         string `json:"url"`          // self link, used to fetch the blob
	DownloadURL string `json:"download_url"` // raw link, used when content is omitted
}

// IsDir reports whether the node is a directory.
func (n ContentNode) IsDir() bool { return n.Type == "dir" }

// IsFile reports whether the node is a regular file.
func (n ContentNode) IsFile() bool { return n.Type == "file" }

// Client talks to the GitHub Contents API. Each call is one remote request;
// there is no caching layer.
type Client struct {
	http       *http.Client
	baseURL    string
	maxRetries int
	retryDelay time.Duration
}

// New creates a Client for the public GitHub API.
func New(httpClient *http.Client) *Client {
	return NewWithBaseURL(httpClient, defaultAPIBase)
}

// NewWithBaseURL creates a Client against an alternate API base. Tests point
// this at an httptest.Server.
func NewWithBaseURL(httpClient *http.Client, baseURL string) *Client {
	return &Client{
		http:       httpClient,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		maxRetries: 2,
		retryDelay: 500 * time.Millisecond,
	}
}

// contentsURL builds the Contents API URL for a ref's subpath.
func (c *Client) contentsURL(ref ghrepo.Ref) string {
	p := ""
	if ref.Subpath != "" {
		// Escape each segment but keep the slashes.
		segments := strings.Split(ref.Subpath, "/")
		for i, s := range segments {
			segments[i] = url.PathEscape(s)
		}
		p = "/" + strings.Join(segments, "/")
	}
	return fmt.Sprintf("%s/repos/%s/%s/contents%s?ref=%s&per_page=%d",
		c.baseURL, ref.Owner, ref.Repo, p, url.QueryEscape(ref.Branch), perPage)
}

// ListDirectory lists the immediate children of ref.Subpath. If the remote
// paginates the listing, every page is followed before returning, so callers
// never observe a partial child set.
func (c *Client) ListDirectory(ctx context.Context, ref ghrepo.Ref) ([]ContentNode, error) {
	var nodes []ContentNode

	next := c.contentsURL(ref)
	for next != "" {
		body, header, err := c.get(ctx, next, ref)
		if err != nil {
			return nil, err
		}

		var page []ContentNode
		if err := json.Unmarshal(body, &page); err != nil {
			// A file path returns a single object instead of an array.
			var single ContentNode
			if err2 := json.Unmarshal(body, &single); err2 != nil || single.Name == "" {
				return nil, fmt.Errorf("%w: unexpected contents response for %s", apperr.ErrDecode, ref.RepoFullName())
			}
			return []ContentNode{single}, nil
		}
		nodes = append(nodes, page...)

		next = nextPageURL(header.Get("Link"))
	}

	return nodes, nil
}

// blobResponse is the Contents API body for a single file.
type blobResponse struct {
	Encoding string `json:"encoding"`
	Content  string `json:"content"`
}

// FetchFile fetches one file's bytes, fully decoded. The wire encoding
// (base64 for almost every blob) never leaks to the caller.
func (c *Client) FetchFile(ctx context.Context, ref ghrepo.Ref, node ContentNode) ([]byte, error) {
	body, _, err := c.get(ctx, node.URL, ref)
	if err != nil {
		return nil, err
	}

	var blob blobResponse
	if err := json.Unmarshal(body, &blob); err != nil {
		return nil, fmt.Errorf("%w: blob response for %s", apperr.ErrDecode, node.Path)
	}

	switch blob.Encoding {
	case "base64":
		// GitHub inserts newlines into the encoded body.
		data, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(blob.Content, "\n", ""))
		if err != nil {
			return nil, fmt.Errorf("%w: base64 content of %s: %v", apperr.ErrDecode, node.Path, err)
		}
		return data, nil
	case "none", "":
		// Blobs over the API size cap come back with empty content; fall
		// back to the raw download link.
		if node.DownloadURL == "" {
			return nil, fmt.Errorf("%w: %s has no inline content and no download URL", apperr.ErrDecode, node.Path)
		}
		return c.getRaw(ctx, node.DownloadURL, ref)
	default:
		return nil, fmt.Errorf("%w: unknown encoding %q for %s", apperr.ErrDecode, blob.Encoding, node.Path)
	}
}

// get performs one GET with bounded retry for transient failures and maps
// remote status codes onto the apperr taxonomy.
func (c *Client) get(ctx context.Context, rawURL string, ref ghrepo.Ref) ([]byte, http.Header, error) {
	var lastErr error
	backoff := c.retryDelay

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		body, header, err := c.getOnce(ctx, rawURL, ref)
		if err == nil {
			return body, header, nil
		}
		lastErr = err
		if !apperr.Retryable(err) {
			return nil, nil, err
		}
	}
	return nil, nil, lastErr
}

func (c *Client) getOnce(ctx context.Context, rawURL string, ref ghrepo.Ref) ([]byte, http.Header, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("building request for %s: %w", rawURL, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: fetching %s: %v", apperr.ErrNetwork, rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, statusError(resp, ref)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: reading response from %s: %v", apperr.ErrNetwork, rawURL, err)
	}
	return body, resp.Header, nil
}

// getRaw fetches a raw (non-JSON) payload, e.g. a download_url blob.
func (c *Client) getRaw(ctx context.Context, rawURL string, ref ghrepo.Ref) ([]byte, error) {
	body, _, err := c.get(ctx, rawURL, ref)
	return body, err
}

// statusError maps a non-200 response onto the error taxonomy.
func statusError(resp *http.Response, ref ghrepo.Ref) error {
	switch resp.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s@%s", apperr.ErrNotFound, ref.RepoFullName(), ref.Branch)
	case http.StatusForbidden, http.StatusTooManyRequests:
		if resp.StatusCode == http.StatusTooManyRequests || resp.Header.Get("X-Ratelimit-Remaining") == "0" {
			return &apperr.RateLimitError{ResetAt: resetTime(resp.Header)}
		}
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("%s: HTTP %d: %s", ref.RepoFullName(), resp.StatusCode, strings.TrimSpace(string(body)))
}

// resetTime reads the X-RateLimit-Reset header (unix seconds), zero time if
// absent or unparseable.
func resetTime(h http.Header) time.Time {
	raw := h.Get("X-Ratelimit-Reset")
	if raw == "" {
		return time.Time{}
	}
	secs, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(secs, 0)
}

// nextPageURL extracts the rel="next" target from an RFC 5988 Link header.
// Returns "" when there is no next page.
func nextPageURL(link string) string {
	for _, part := range strings.Split(link, ",") {
		section := strings.Split(part, ";")
		if len(section) < 2 {
			continue
		}
		target := strings.Trim(strings.TrimSpace(section[0]), "<>")
		for _, param := range section[1:] {
			if strings.TrimSpace(param) == `rel="next"` {
				return target
			}
		}
	}
	return ""
}
