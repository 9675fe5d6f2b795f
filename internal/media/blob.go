package media

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// Blob is a stored upload.
type Blob struct {
	Key string
	URL string
}

// BlobStore keeps uploaded bytes for gallery items.
type BlobStore interface {
	Put(ctx context.Context, name, contentType string, data []byte) (Blob, error)
	Delete(ctx context.Context, key string) error
}

// DiskStore writes blobs under a directory served at a public path.
type DiskStore struct {
	dir        string
	publicPath string
}

func NewDiskStore(dir, publicPath string) (*DiskStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("media dir required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	return &DiskStore{dir: dir, publicPath: strings.TrimRight(publicPath, "/")}, nil
}

func (d *DiskStore) Dir() string { return d.dir }

func (d *DiskStore) Put(ctx context.Context, name, _ string, data []byte) (Blob, error) {
	if err := ctx.Err(); err != nil {
		return Blob{}, err
	}
	id := uuid.NewString()
	clean := sanitizeFileName(name)
	key := id
	if clean != "" {
		key = id + "-" + clean
	}
	if err := os.WriteFile(filepath.Join(d.dir, key), data, 0o644); err != nil {
		return Blob{}, fmt.Errorf("write blob %s: %w", key, err)
	}
	return Blob{Key: key, URL: path.Join(d.publicPath, key)}, nil
}

func (d *DiskStore) Delete(_ context.Context, key string) error {
	if key == "" || strings.ContainsAny(key, `/\`) {
		return fmt.Errorf("invalid blob key %q", key)
	}
	err := os.Remove(filepath.Join(d.dir, key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete blob %s: %w", key, err)
	}
	return nil
}

func sanitizeFileName(name string) string {
	if name == "" {
		return ""
	}
	clean := path.Base(strings.TrimSpace(strings.ReplaceAll(name, `\`, "/")))
	if clean == "." || clean == "/" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(clean))
	for _, r := range clean {
		switch {
		case r == '/' || r == '\\' || unicode.IsControl(r):
			continue
		case unicode.IsSpace(r):
			b.WriteRune('-')
		default:
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "-_.")
}
