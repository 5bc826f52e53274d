package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"textapi/internal/model"
	"textapi/internal/repository"
)

var analysisCols = []string{"task_id", "file_id", "operation", "result", "created_at"}

func TestAnalysisStore_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewAnalysisStore(db)
	now := time.Now().UTC()
	r := &model.AnalysisResult{
		TaskID:    "task-1",
		FileID:    "file-1",
		Operation: model.OperationFindTopKWords,
		Result:    json.RawMessage(`[{"word":"the","count":3}]`),
		CreatedAt: now,
	}

	mock.ExpectQuery("INSERT INTO analysis_results").
		WithArgs("task-1", "file-1", "findTopKWords", `[{"word":"the","count":3}]`, now).
		WillReturnRows(sqlmock.NewRows(analysisCols).
			AddRow("task-1", "file-1", "findTopKWords", []byte(`[{"word":"the","count":3}]`), now))

	got, err := store.Create(context.Background(), r)
	require.NoError(t, err)
	assert.Equal(t, r.TaskID, got.TaskID)
	assert.Equal(t, model.OperationFindTopKWords, got.Operation)
	assert.JSONEq(t, `[{"word":"the","count":3}]`, string(got.Result))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalysisStore_FindByTaskID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewAnalysisStore(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM analysis_results WHERE task_id = \$1`).
			WithArgs("task-1").
			WillReturnRows(sqlmock.NewRows(analysisCols).
				AddRow("task-1", "file-1", "countWords", `"9"`, time.Now()))

		r, err := store.FindByTaskID(ctx, "task-1")
		require.NoError(t, err)
		assert.Equal(t, model.OperationCountWords, r.Operation)
		assert.Equal(t, `"9"`, string(r.Result))
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM analysis_results WHERE task_id = \$1`).
			WithArgs("nonexistent-id").
			WillReturnError(sql.ErrNoRows)

		r, err := store.FindByTaskID(ctx, "nonexistent-id")
		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, r)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalysisStore_ListByFileID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewAnalysisStore(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM analysis_results WHERE file_id = \$1`).
		WithArgs("file-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery("SELECT (.+) FROM analysis_results WHERE file_id = (.+) ORDER BY").
		WithArgs("file-1", 1, 2).
		WillReturnRows(sqlmock.NewRows(analysisCols).
			AddRow("task-1", "file-1", "countWords", `"9"`, time.Now()))

	res, err := store.ListByFileID(context.Background(), "file-1", repository.PageQuery{Limit: 1, Offset: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Total)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "task-1", res.Items[0].TaskID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
