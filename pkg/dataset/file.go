package dataset

import (
	"fmt"
	"os"
	"path/filepath"
)

// Load reads and parses the dataset at path.
func Load(path string) (Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dataset: %w", err)
	}

	ds, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return ds, nil
}

// FileStore persists whole datasets to a single JSON file.
type FileStore struct {
	Path string
}

// NewFileStore creates a FileStore writing to path.
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// Save writes the full dataset to the store's path. The document is written
// to a temporary file in the same directory and renamed into place, so a
// crash mid-write leaves the previous checkpoint intact.
func (s *FileStore) Save(ds Dataset) error {
	data, err := ds.Encode()
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.Path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.Path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing dataset: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("writing dataset: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("writing dataset: %w", err)
	}

	if err := os.Rename(tmpName, s.Path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", s.Path, err)
	}
	return nil
}
