// Package mirror recursively copies a remote repository subtree to local
// disk through the Contents API, preserving relative structure.
//
// Mirroring is not atomic: when a fetch fails mid-walk the files already
// written stay on disk, and the returned count tells the caller how far the
// mirror got.
package mirror

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/skillsmd/skillscli/internal/ghrepo"
	"github.com/skillsmd/skillscli/internal/github"
)

// DefaultWorkers bounds concurrent file fetches against the API.
const DefaultWorkers = 6

// ContentSource lists directories and fetches file blobs. Satisfied by
// *github.Client.
type ContentSource interface {
	ListDirectory(ctx context.Context, ref ghrepo.Ref) ([]github.ContentNode, error)
	FetchFile(ctx context.Context, ref ghrepo.Ref, node github.ContentNode) ([]byte, error)
}

// FileWriter abstracts the destination filesystem.
type FileWriter interface {
	// Write creates or overwrites a file at the given path.
	Write(path string, data []byte) error

	// MkdirAll creates a directory path and all necessary parents.
	MkdirAll(path string) error
}

// Mirror walks a remote subtree and writes every file under a local root.
type Mirror struct {
	source  ContentSource
	fs      FileWriter
	workers int
}

// New creates a Mirror with the default worker count.
func New(source ContentSource, fs FileWriter) *Mirror {
	return NewWithWorkers(source, fs, DefaultWorkers)
}

// NewWithWorkers creates a Mirror with an explicit fetch-pool size.
func NewWithWorkers(source ContentSource, fs FileWriter, workers int) *Mirror {
	if workers < 1 {
		workers = 1
	}
	return &Mirror{source: source, fs: fs, workers: workers}
}

// Run mirrors ref's subtree into destRoot. Existing files at target paths
// are overwritten. It returns the number of files written; on error that
// count covers the files that made it to disk before the walk aborted.
func (m *Mirror) Run(ctx context.Context, ref ghrepo.Ref, destRoot string) (int, error) {
	if err := m.fs.MkdirAll(destRoot); err != nil {
		return 0, fmt.Errorf("creating %s: %w", destRoot, err)
	}

	// Discover the full file set first. Listings are cheap relative to
	// blob fetches, and a sequential walk keeps ordering deterministic.
	files, err := m.collect(ctx, ref)
	if err != nil {
		return 0, err
	}

	var written atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.workers)
	for _, node := range files {
		g.Go(func() error {
			// A failed sibling cancels the group; do not start another
			// remote fetch once that happens.
			if err := gctx.Err(); err != nil {
				return err
			}

			data, err := m.source.FetchFile(gctx, ref, node)
			if err != nil {
				return fmt.Errorf("fetching %s: %w", node.Path, err)
			}

			dest := filepath.Join(destRoot, filepath.FromSlash(relPath(ref, node)))
			if err := m.fs.MkdirAll(filepath.Dir(dest)); err != nil {
				return fmt.Errorf("creating directory for %s: %w", node.Path, err)
			}
			if err := m.fs.Write(dest, data); err != nil {
				return fmt.Errorf("writing %s: %w", dest, err)
			}
			written.Add(1)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return int(written.Load()), err
	}
	return int(written.Load()), nil
}

// collect walks directories breadth-first and returns every file node in
// the subtree rooted at ref.
func (m *Mirror) collect(ctx context.Context, root ghrepo.Ref) ([]github.ContentNode, error) {
	var files []github.ContentNode

	queue := []ghrepo.Ref{root}
	for len(queue) > 0 {
		dir := queue[0]
		queue = queue[1:]

		nodes, err := m.source.ListDirectory(ctx, dir)
		if err != nil {
			return nil, fmt.Errorf("listing %s: %w", dir.Subpath, err)
		}
		for _, node := range nodes {
			switch {
			case node.IsDir():
				queue = append(queue, dir.Child(node.Name))
			case node.IsFile():
				files = append(files, node)
			}
			// Symlinks and submodules are skipped; the Contents API
			// cannot deliver their bytes.
		}
	}
	return files, nil
}

// relPath maps a node's repo-rooted path onto a path relative to the
// mirrored subtree root.
func relPath(root ghrepo.Ref, node github.ContentNode) string {
	if root.Subpath == "" {
		return node.Path
	}
	if rel, ok := strings.CutPrefix(node.Path, root.Subpath+"/"); ok {
		return rel
	}
	return node.Name
}
