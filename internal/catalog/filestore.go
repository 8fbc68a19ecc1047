package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileStore is a MemoryStore persisted to a YAML file. Every mutation
// rewrites the file through a temporary file and a rename.
type FileStore struct {
	*MemoryStore
	path string
}

// OpenFileStore loads the catalog at path. A missing file yields an empty
// catalog that is created on the first write.
func OpenFileStore(path string) (*FileStore, error) {
	fsStore := &FileStore{
		MemoryStore: NewMemoryStore(),
		path:        path,
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read catalog: %w", err)
	default:
		var snap snapshot
		if err := yaml.Unmarshal(data, &snap); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", path, err)
		}
		fsStore.load(snap)
	}

	fsStore.commit = fsStore.write
	return fsStore, nil
}

// Path returns the catalog file path
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) write(snap snapshot) error {
	data, err := yaml.Marshal(&snap)
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("create catalog directory: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o640); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace catalog: %w", err)
	}
	return nil
}
