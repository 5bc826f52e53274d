// Package storage holds the byte content of uploaded files. Keys are the
// sanitized original filenames, so a second upload with the same name replaces
// the first.
package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
	"time"
)

var ErrInvalidKey = errors.New("invalid storage key")

// PutObjectOptions define optional parameters for uploading objects.
// Size should be the exact number of bytes if known, or -1 when unknown.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about a stored object.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is the content store behind file ingestion and analysis.
type Storage interface {
	// Put writes the object under key, replacing any existing object.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get opens the object for reading. The caller closes the reader.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
}

// KeyFromFilename reduces an uploaded filename to a flat storage key.
// Directory components (with either separator) are dropped.
func KeyFromFilename(name string) (string, error) {
	name = strings.ReplaceAll(name, `\`, "/")
	key := path.Base(path.Clean("/" + name))
	if key == "/" || key == "." || key == ".." || key == "" {
		return "", ErrInvalidKey
	}
	return key, nil
}
