// Package storage persists uploaded files and tells where they can be fetched.
package storage

import (
	"context"
	"io"
)

// Backend writes one object under key and returns its public URL. Body is
// seekable and exactly size bytes long. Put must not overwrite an existing
// object with the same key.
type Backend interface {
	Put(ctx context.Context, key string, body io.ReadSeeker, size int64, contentType string) (string, error)
}
