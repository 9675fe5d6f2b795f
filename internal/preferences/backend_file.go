package preferences

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileBackend stores the blob in a single JSON file on local disk.
type FileBackend struct {
	path string
}

func NewFileBackend(path string) (*FileBackend, error) {
	if path == "" {
		return nil, fmt.Errorf("preferences file path required")
	}
	return &FileBackend{path: path}, nil
}

func (f *FileBackend) Load(_ context.Context, _ string) ([]byte, error) {
	payload, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read preferences file: %w", err)
	}
	return payload, nil
}

// Save writes through a temp file and rename so a crash never leaves a
// truncated blob behind.
func (f *FileBackend) Save(_ context.Context, _ string, payload []byte) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("create preferences dir: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return fmt.Errorf("write preferences file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replace preferences file: %w", err)
	}
	return nil
}
