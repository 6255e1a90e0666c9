package market

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/skillsmd/skillscli/internal/apperr"
)

// registryFile is the registry document name under the skills home dir.
const registryFile = "market.json"

// FileStore persists the registry as a JSON array at a fixed path.
type FileStore struct {
	path string
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a FileStore at the default location,
// ~/.skills/market.json.
func NewFileStore() *FileStore {
	return NewFileStoreAt(filepath.Join(xdg.Home, ".skills", registryFile))
}

// NewFileStoreAt creates a FileStore at an explicit path. Tests use this
// with a temp directory.
func NewFileStoreAt(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the registry document. A missing file is an empty registry.
// A file that exists but does not parse as the expected shape surfaces as
// ErrCorruptRegistry; the data is never silently discarded.
func (s *FileStore) Load() ([]Entry, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", apperr.ErrCorruptRegistry, s.path, err)
	}
	return entries, nil
}

// Save atomically replaces the registry document: tmp file, fsync, rename.
// A crash mid-write cannot leave a half-written registry behind.
func (s *FileStore) Save(entries []Entry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding registry: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".market-tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp registry: %w", err)
	}
	tmpName := tmp.Name()

	// Clean up on any failure path.
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("writing temp registry: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("fsync temp registry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp registry: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replacing %s: %w", s.path, err)
	}
	success = true
	return nil
}
