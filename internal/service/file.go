// Package service holds the use cases of the text-analysis API: file
// ingestion and analysis orchestration. Handlers depend on the interfaces
// declared here; implementations depend on repository and storage interfaces.
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"mime"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"textapi/internal/model"
	"textapi/internal/repository"
	"textapi/internal/storage"
)

// FileListResult is the service-level DTO for paginated files.
type FileListResult struct {
	Items []model.File `json:"data"`
	Total int          `json:"total"`
}

// FileService defines the use cases for uploaded files.
type FileService interface {
	// Upload stores the content under its sanitized filename and records its metadata.
	// An earlier upload with the same filename is overwritten in storage; its record is kept.
	Upload(ctx context.Context, r io.Reader, filename string, contentType string, size int64) (*model.File, error)

	// Get returns a single file record by its ID.
	Get(ctx context.Context, id string) (*model.File, error)

	// List returns file records using limit/offset and a total count.
	List(ctx context.Context, limit, offset int) (*FileListResult, error)
}

type fileService struct {
	store    storage.Storage
	repo     repository.FileRepository
	maxBytes int64
	opts     options
}

// NewFileService constructs a FileService that accepts uploads of at most maxBytes.
func NewFileService(store storage.Storage, repo repository.FileRepository, maxBytes int64, opts ...Option) FileService {
	return &fileService{store: store, repo: repo, maxBytes: maxBytes, opts: newOptions(opts)}
}

func (s *fileService) Upload(ctx context.Context, r io.Reader, filename string, contentType string, size int64) (f *model.File, err error) {
	ctx, span := tracer.Start(ctx, "FileService.Upload", trace.WithAttributes(
		attribute.String("file.name", filename),
		attribute.String("file.content_type", contentType),
		attribute.Int64("file.size", size),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, Kind(err))
		}
		span.End()
		s.opts.recorder.ObserveUpload(size, err)
	}()

	if r == nil {
		return nil, ErrReaderNil
	}
	if !IsTextMIME(contentType) {
		return nil, ErrUnsupportedFileType
	}
	if s.maxBytes > 0 && size > s.maxBytes {
		return nil, ErrFileTooLarge
	}
	key, err := storage.KeyFromFilename(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	body := r
	if s.maxBytes > 0 {
		body = &capReader{r: r, left: s.maxBytes}
	}
	info, err := s.store.Put(ctx, key, body, storage.PutObjectOptions{
		Size:        size,
		ContentType: contentType,
		Metadata: map[string]string{
			"original-filename": filename,
		},
	})
	if err != nil {
		if errors.Is(err, ErrFileTooLarge) {
			return nil, ErrFileTooLarge
		}
		return nil, fmt.Errorf("%w: upload to storage: %w", ErrIO, err)
	}

	rec := &model.File{
		ID:          s.opts.newID(),
		Filename:    filename,
		StoragePath: info.Key,
		Size:        info.Size,
		ContentType: contentType,
		CreatedAt:   s.opts.now(),
	}
	// Storage is not rolled back on failure: the object may already back an
	// earlier record that shares the filename.
	stored, err := s.repo.Create(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("%w: save file metadata: %w", ErrPersistence, err)
	}
	span.SetAttributes(attribute.String("file.id", stored.ID))
	return stored, nil
}

func (s *fileService) Get(ctx context.Context, id string) (*model.File, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	f, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("%w: find file: %w", ErrPersistence, err)
	}
	return f, nil
}

func (s *fileService) List(ctx context.Context, limit, offset int) (*FileListResult, error) {
	limit, offset = normalizePage(limit, offset)
	res, err := s.repo.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, fmt.Errorf("%w: list files: %w", ErrPersistence, err)
	}
	return &FileListResult{Items: res.Items, Total: res.Total}, nil
}

// IsTextMIME reports whether contentType has the top-level type "text".
func IsTextMIME(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mt = strings.TrimSpace(contentType)
	}
	top, _, _ := strings.Cut(strings.ToLower(mt), "/")
	return top == "text"
}

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// capReader fails with ErrFileTooLarge once more than left bytes are read.
// It guards uploads whose declared size is unknown or wrong.
type capReader struct {
	r    io.Reader
	left int64
}

func (c *capReader) Read(p []byte) (int, error) {
	if c.left < 0 {
		return 0, ErrFileTooLarge
	}
	if int64(len(p)) > c.left+1 {
		p = p[:c.left+1]
	}
	n, err := c.r.Read(p)
	c.left -= int64(n)
	if c.left < 0 {
		return n - 1, ErrFileTooLarge
	}
	return n, err
}
