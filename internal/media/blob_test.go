package media

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDiskStorePutDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDiskStore(dir, "/media/")
	require.NoError(t, err)

	blob, err := store.Put(context.Background(), "../My Photo.png", "image/png", []byte("x"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(blob.URL, "/media/"))
	require.True(t, strings.HasSuffix(blob.Key, "-My-Photo.png"))

	data, err := os.ReadFile(filepath.Join(dir, blob.Key))
	require.NoError(t, err)
	require.Equal(t, "x", string(data))

	require.NoError(t, store.Delete(context.Background(), blob.Key))
	require.NoError(t, store.Delete(context.Background(), blob.Key))
	require.Error(t, store.Delete(context.Background(), "../etc/passwd"))
}

func TestSanitizeFileName(t *testing.T) {
	cases := map[string]string{
		"":              "",
		"a b.png":       "a-b.png",
		"dir/file.pdf":  "file.pdf",
		`c:\up\x.jpg`:   "x.jpg",
		"..":            "",
		"__weird__.mp4": "weird__.mp4",
	}
	for in, want := range cases {
		if got := sanitizeFileName(in); got != want {
			t.Fatalf("sanitizeFileName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestOptionsAccepts(t *testing.T) {
	opts := DefaultOptions()
	require.True(t, opts.accepts("image/webp"))
	require.True(t, opts.accepts("video/mp4"))
	require.True(t, opts.accepts("application/pdf"))
	require.False(t, opts.accepts("application/zip"))
	require.Equal(t, "images, videos, or PDFs", describeTypes(opts.AllowedTypes))
}
