package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Cyber-Donchichi/Fhg-scoutier/internal/model"
)

// FileBackend stores the envelope as a single JSON document on disk.
type FileBackend struct {
	path string
}

// NewFileBackend creates a file backend, creating the parent directory if
// needed.
func NewFileBackend(path string) (*FileBackend, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &FileBackend{path: path}, nil
}

// Load reads the stored envelope. A missing file is not an error: it means
// nothing has been stored yet.
func (b *FileBackend) Load() ([]byte, error) {
	data, err := os.ReadFile(b.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read envelope: %w", err)
	}
	return data, nil
}

// Save writes the envelope via a temp file and rename so a failed write
// never truncates the previous envelope.
func (b *FileBackend) Save(data []byte) error {
	tmp := b.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("%w: write envelope: %v", model.ErrPersistence, err)
	}
	if err := os.Rename(tmp, b.path); err != nil {
		return fmt.Errorf("%w: replace envelope: %v", model.ErrPersistence, err)
	}
	return nil
}
