package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"

	"github.com/spf13/afero"
)

// localStorage keeps objects as plain files under one directory.
// It is safe for concurrent use; concurrent writes to the same key race and the last one wins.
type localStorage struct {
	fs afero.Fs
}

// NewLocal creates a filesystem store rooted at dir, creating the directory if needed.
func NewLocal(dir string) (Storage, error) {
	if dir == "" {
		return nil, fmt.Errorf("upload directory is required")
	}
	osFs := afero.NewOsFs()
	if err := osFs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	return NewLocalFs(afero.NewBasePathFs(osFs, dir)), nil
}

// NewLocalFs creates a store on an arbitrary afero filesystem. Tests use afero.NewMemMapFs.
func NewLocalFs(fs afero.Fs) Storage {
	return &localStorage{fs: fs}
}

func (l *localStorage) Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return ObjectInfo{}, err
	}
	f, err := l.fs.Create(key)
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("create %s: %w", key, err)
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("write %s: %w", key, err)
	}

	st, err := l.fs.Stat(key)
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("stat %s: %w", key, err)
	}
	return ObjectInfo{
		Key:          key,
		Size:         n,
		ContentType:  opt.ContentType,
		LastModified: st.ModTime(),
		Metadata:     opt.Metadata,
	}, nil
}

func (l *localStorage) Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, ObjectInfo{}, err
	}
	f, err := l.fs.Open(key)
	if err != nil {
		return nil, ObjectInfo{}, fmt.Errorf("open %s: %w", key, err)
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, ObjectInfo{}, fmt.Errorf("stat %s: %w", key, err)
	}
	return f, ObjectInfo{
		Key:          key,
		Size:         st.Size(),
		ContentType:  mime.TypeByExtension(filepath.Ext(key)),
		LastModified: st.ModTime(),
	}, nil
}
