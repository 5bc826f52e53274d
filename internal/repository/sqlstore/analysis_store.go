package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"

	"textapi/internal/model"
	"textapi/internal/repository"
)

// AnalysisStore is the database/sql implementation of repository.AnalysisRepository.
type AnalysisStore struct {
	db *sql.DB
}

// NewAnalysisStore creates an AnalysisStore on db.
func NewAnalysisStore(db *sql.DB) *AnalysisStore {
	return &AnalysisStore{db: db}
}

var _ repository.AnalysisRepository = (*AnalysisStore)(nil)

const analysisColumns = `task_id, file_id, operation, result, created_at`

// Create inserts a new analysis row. The result is sent as JSON text so it binds
// to both a JSONB and a TEXT column.
func (s *AnalysisStore) Create(ctx context.Context, r *model.AnalysisResult) (*model.AnalysisResult, error) {
	const q = `
		INSERT INTO analysis_results (` + analysisColumns + `)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + analysisColumns

	row := s.db.QueryRowContext(ctx, q,
		r.TaskID,
		r.FileID,
		string(r.Operation),
		string(r.Result),
		r.CreatedAt,
	)
	return scanAnalysis(row)
}

// FindByTaskID fetches a single analysis result by task ID.
func (s *AnalysisStore) FindByTaskID(ctx context.Context, taskID string) (*model.AnalysisResult, error) {
	const q = `SELECT ` + analysisColumns + ` FROM analysis_results WHERE task_id = $1`
	return scanAnalysis(s.db.QueryRowContext(ctx, q, taskID))
}

// ListByFileID returns the analyses of one file using LIMIT/OFFSET pagination.
func (s *AnalysisStore) ListByFileID(ctx context.Context, fileID string, pq repository.PageQuery) (*repository.PageResult[model.AnalysisResult], error) {
	var total int
	const qCount = `SELECT COUNT(*) FROM analysis_results WHERE file_id = $1`
	if err := s.db.QueryRowContext(ctx, qCount, fileID).Scan(&total); err != nil {
		return nil, err
	}

	const q = `
		SELECT ` + analysisColumns + `
		FROM analysis_results
		WHERE file_id = $1
		ORDER BY created_at DESC, task_id DESC
		LIMIT $2 OFFSET $3`
	rows, err := s.db.QueryContext(ctx, q, fileID, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.AnalysisResult, 0)
	for rows.Next() {
		r, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.AnalysisResult]{Items: items, Total: total}, nil
}

func scanAnalysis(row scanner) (*model.AnalysisResult, error) {
	var (
		r      model.AnalysisResult
		op     string
		result []byte
	)
	if err := row.Scan(&r.TaskID, &r.FileID, &op, &result, &r.CreatedAt); err != nil {
		return nil, err
	}
	r.Operation = model.Operation(op)
	r.Result = json.RawMessage(result)
	return &r, nil
}
