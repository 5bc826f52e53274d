package service

import (
	"errors"
	"fmt"

	"textapi/internal/analyzer"
)

// Error taxonomy. Services wrap causes with these sentinels so callers can
// classify failures with errors.Is.
var (
	ErrFileNotFound     = errors.New("file not found")
	ErrAnalysisNotFound = errors.New("analysis result not found")

	ErrInvalidOperation = analyzer.ErrInvalidOperation
	ErrInvalidOptions   = analyzer.ErrInvalidOptions
	ErrInvalidRequest   = errors.New("invalid request")

	ErrUnsupportedFileType = errors.New("unexpected file type")
	ErrFileTooLarge        = errors.New("file too large")
	ErrTooManyFiles        = errors.New("too many files")
	ErrFileRequired        = errors.New("file is required")

	ErrIO          = errors.New("storage i/o failure")
	ErrPersistence = errors.New("persistence failure")

	ErrIDRequired = fmt.Errorf("%w: id is required", ErrInvalidRequest)
	ErrReaderNil  = fmt.Errorf("%w: reader is nil", ErrInvalidRequest)
)

// Kind names the taxonomy class of err for logs and metrics labels.
func Kind(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrFileNotFound), errors.Is(err, ErrAnalysisNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidOperation):
		return "invalid_operation"
	case errors.Is(err, ErrInvalidOptions), errors.Is(err, ErrInvalidRequest),
		errors.Is(err, ErrTooManyFiles), errors.Is(err, ErrFileRequired):
		return "invalid_request"
	case errors.Is(err, ErrUnsupportedFileType):
		return "unsupported_file_type"
	case errors.Is(err, ErrFileTooLarge):
		return "file_too_large"
	case errors.Is(err, ErrIO):
		return "io_failure"
	case errors.Is(err, ErrPersistence):
		return "persistence_failure"
	default:
		return "internal"
	}
}
