package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"textapi/internal/analyzer"
	"textapi/internal/model"
	"textapi/internal/repository"
	"textapi/internal/storage"
)

// AnalysisRequest is the input of AnalysisService.Initiate.
type AnalysisRequest struct {
	FileID    string          `json:"fileId" validate:"required"`
	Operation model.Operation `json:"operation" validate:"required"`
	// Options is only read by findTopKWords: a number k or {"k": n}.
	Options json.RawMessage `json:"options,omitempty" swaggertype:"object"`
}

// AnalysisListResult is the service-level DTO for paginated analysis results.
type AnalysisListResult struct {
	Items []model.AnalysisResult `json:"data"`
	Total int                    `json:"total"`
}

// AnalysisService runs analyses over stored files and serves their results.
type AnalysisService interface {
	// Initiate analyzes the file synchronously and persists a new result record.
	// Repeated calls with the same input create distinct records.
	Initiate(ctx context.Context, req AnalysisRequest) (*model.AnalysisResult, error)

	// Get returns the result stored under taskID.
	Get(ctx context.Context, taskID string) (*model.AnalysisResult, error)

	// ListByFile returns the analysis history of one file, newest first.
	ListByFile(ctx context.Context, fileID string, limit, offset int) (*AnalysisListResult, error)
}

type analysisService struct {
	store    storage.Storage
	files    repository.FileRepository
	results  repository.AnalysisRepository
	validate *validator.Validate
	opts     options
}

// NewAnalysisService constructs an AnalysisService.
func NewAnalysisService(store storage.Storage, files repository.FileRepository, results repository.AnalysisRepository, opts ...Option) AnalysisService {
	return &analysisService{
		store:    store,
		files:    files,
		results:  results,
		validate: validator.New(),
		opts:     newOptions(opts),
	}
}

func (s *analysisService) Initiate(ctx context.Context, req AnalysisRequest) (res *model.AnalysisResult, err error) {
	start := time.Now()
	ctx, span := tracer.Start(ctx, "AnalysisService.Initiate", trace.WithAttributes(
		attribute.String("file.id", req.FileID),
		attribute.String("analysis.operation", string(req.Operation)),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, Kind(err))
		}
		span.End()
		s.opts.recorder.ObserveAnalysis(string(req.Operation), err, time.Since(start))
	}()

	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	file, err := s.files.FindByID(ctx, req.FileID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("%w: find file: %w", ErrPersistence, err)
	}

	text, err := s.readText(ctx, file.StoragePath)
	if err != nil {
		return nil, err
	}

	value, err := analyzer.Analyze(text, req.Operation, req.Options)
	if err != nil {
		return nil, err
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}

	rec := &model.AnalysisResult{
		TaskID:    s.opts.newID(),
		FileID:    file.ID,
		Operation: req.Operation,
		Result:    encoded,
		CreatedAt: s.opts.now(),
	}
	stored, err := s.results.Create(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("%w: save analysis result: %w", ErrPersistence, err)
	}
	span.SetAttributes(attribute.String("analysis.task_id", stored.TaskID))
	return stored, nil
}

// readText loads an object as UTF-8 text. Invalid sequences become U+FFFD.
func (s *analysisService) readText(ctx context.Context, key string) (string, error) {
	rc, _, err := s.store.Get(ctx, key)
	if err != nil {
		return "", fmt.Errorf("%w: open %q: %w", ErrIO, key, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("%w: read %q: %w", ErrIO, key, err)
	}
	return strings.ToValidUTF8(string(data), "\uFFFD"), nil
}

func (s *analysisService) Get(ctx context.Context, taskID string) (*model.AnalysisResult, error) {
	if taskID == "" {
		return nil, ErrIDRequired
	}
	res, err := s.results.FindByTaskID(ctx, taskID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAnalysisNotFound
		}
		return nil, fmt.Errorf("%w: find analysis result: %w", ErrPersistence, err)
	}
	return res, nil
}

func (s *analysisService) ListByFile(ctx context.Context, fileID string, limit, offset int) (*AnalysisListResult, error) {
	if fileID == "" {
		return nil, ErrIDRequired
	}
	if _, err := s.files.FindByID(ctx, fileID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("%w: find file: %w", ErrPersistence, err)
	}

	limit, offset = normalizePage(limit, offset)
	res, err := s.results.ListByFileID(ctx, fileID, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, fmt.Errorf("%w: list analysis results: %w", ErrPersistence, err)
	}
	return &AnalysisListResult{Items: res.Items, Total: res.Total}, nil
}
