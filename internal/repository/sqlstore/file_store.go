// Package sqlstore implements the repositories on database/sql. The queries use
// positional $N parameters and portable types, so the same code serves the pgx
// (PostgreSQL) and modernc (SQLite) drivers.
package sqlstore

import (
	"context"
	"database/sql"

	"textapi/internal/model"
	"textapi/internal/repository"
)

// FileStore is the database/sql implementation of repository.FileRepository.
type FileStore struct {
	db *sql.DB
}

// NewFileStore creates a FileStore on db.
func NewFileStore(db *sql.DB) *FileStore {
	return &FileStore{db: db}
}

var _ repository.FileRepository = (*FileStore)(nil)

const fileColumns = `file_id, filename, storage_path, size, content_type, created_at`

// Create inserts a new file row and returns the stored record.
func (s *FileStore) Create(ctx context.Context, f *model.File) (*model.File, error) {
	const q = `
		INSERT INTO files (` + fileColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + fileColumns

	row := s.db.QueryRowContext(ctx, q,
		f.ID,
		f.Filename,
		f.StoragePath,
		f.Size,
		f.ContentType,
		f.CreatedAt,
	)
	return scanFile(row)
}

// FindByID fetches a single file by its ID.
func (s *FileStore) FindByID(ctx context.Context, id string) (*model.File, error) {
	const q = `SELECT ` + fileColumns + ` FROM files WHERE file_id = $1`
	return scanFile(s.db.QueryRowContext(ctx, q, id))
}

// List returns files using LIMIT/OFFSET pagination and a total count.
func (s *FileStore) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.File], error) {
	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM files`).Scan(&total); err != nil {
		return nil, err
	}

	const q = `
		SELECT ` + fileColumns + `
		FROM files
		ORDER BY created_at DESC, file_id DESC
		LIMIT $1 OFFSET $2`
	rows, err := s.db.QueryContext(ctx, q, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.File, 0)
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.File]{Items: items, Total: total}, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanFile(row scanner) (*model.File, error) {
	var f model.File
	if err := row.Scan(
		&f.ID,
		&f.Filename,
		&f.StoragePath,
		&f.Size,
		&f.ContentType,
		&f.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &f, nil
}
