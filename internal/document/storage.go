package document

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Storage defines the interface for raw image blob storage
type Storage interface {
	// Save saves a blob and returns the stored name
	Save(filename string, data []byte) (string, error)

	// Get retrieves a blob by stored name
	Get(path string) ([]byte, error)

	// Exists reports whether a blob is present
	Exists(path string) bool

	// Delete removes a blob. Deleting a missing blob is not an error.
	Delete(path string) error
}

// LocalStorage implements the Storage interface using the local filesystem
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates a new LocalStorage instance
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("creating storage directory: %w", err)
	}

	return &LocalStorage{
		basePath: basePath,
	}, nil
}

// Save saves a blob to local storage
func (l *LocalStorage) Save(filename string, data []byte) (string, error) {
	path := filepath.Join(l.basePath, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing file: %w", err)
	}
	return filename, nil
}

// Get retrieves a blob from local storage
func (l *LocalStorage) Get(path string) ([]byte, error) {
	fullPath := filepath.Join(l.basePath, path)
	data, err := os.ReadFile(fullPath)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return data, nil
}

// Exists reports whether a blob is present in local storage
func (l *LocalStorage) Exists(path string) bool {
	_, err := os.Stat(filepath.Join(l.basePath, path))
	return err == nil
}

// Delete removes a blob from local storage. A blob that is already gone is
// treated as deleted.
func (l *LocalStorage) Delete(path string) error {
	fullPath := filepath.Join(l.basePath, path)
	if err := os.Remove(fullPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("deleting file: %w", err)
	}
	return nil
}
