// Package repository contains data access layer abstractions.
// Implementations live in subpackages and contain no business logic.
package repository

import (
	"context"

	"textapi/internal/model"
)

// FileRepository persists uploaded-file metadata.
type FileRepository interface {
	// Create inserts a new file record. The caller supplies every field, including the ID.
	Create(ctx context.Context, f *model.File) (*model.File, error)

	// FindByID returns a file by its ID, or sql.ErrNoRows.
	FindByID(ctx context.Context, id string) (*model.File, error)

	// List returns a page of files, newest first, and the total row count.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.File], error)
}

// AnalysisRepository persists analysis results. Records are never updated or deleted.
type AnalysisRepository interface {
	Create(ctx context.Context, r *model.AnalysisResult) (*model.AnalysisResult, error)

	// FindByTaskID returns a result by its task ID, or sql.ErrNoRows.
	FindByTaskID(ctx context.Context, taskID string) (*model.AnalysisResult, error)

	// ListByFileID returns a page of results for one file, newest first.
	ListByFileID(ctx context.Context, fileID string, pq PageQuery) (*PageResult[model.AnalysisResult], error)
}

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
type PageResult[T any] struct {
	Items []T
	Total int
}
