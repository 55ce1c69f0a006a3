package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/studiosite/internal/filex"
)

// LocalBackend stores objects as files in one directory that the HTTP
// server exposes under publicURL.
type LocalBackend struct {
	dir       string
	publicURL string
}

func NewLocalBackend(dir, publicURL string) (*LocalBackend, error) {
	abs, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, err
	}
	return &LocalBackend{dir: abs, publicURL: strings.TrimRight(publicURL, "/")}, nil
}

// Dir is the absolute directory holding the files.
func (b *LocalBackend) Dir() string { return b.dir }

func (b *LocalBackend) Put(ctx context.Context, key string, body io.ReadSeeker, size int64, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if key != filepath.Base(key) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid key %q", key)
	}

	path := filepath.Join(b.dir, key)
	n, err := filex.WriteExclusive(path, body)
	if err != nil {
		return "", fmt.Errorf("write %s: %w", key, err)
	}
	if n != size {
		_ = os.Remove(path)
		return "", fmt.Errorf("write %s: wrote %d of %d bytes", key, n, size)
	}

	return b.publicURL + "/" + key, nil
}
