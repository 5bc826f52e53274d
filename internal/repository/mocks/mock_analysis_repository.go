package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"textapi/internal/model"
	"textapi/internal/repository"
)

type MockAnalysisRepository struct {
	mock.Mock
}

func (m *MockAnalysisRepository) Create(ctx context.Context, r *model.AnalysisResult) (*model.AnalysisResult, error) {
	args := m.Called(ctx, r)
	if fn, ok := args.Get(0).(func(context.Context, *model.AnalysisResult) *model.AnalysisResult); ok {
		return fn(ctx, r), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AnalysisResult), args.Error(1)
}

func (m *MockAnalysisRepository) FindByTaskID(ctx context.Context, taskID string) (*model.AnalysisResult, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AnalysisResult), args.Error(1)
}

func (m *MockAnalysisRepository) ListByFileID(ctx context.Context, fileID string, pq repository.PageQuery) (*repository.PageResult[model.AnalysisResult], error) {
	args := m.Called(ctx, fileID, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.AnalysisResult]), args.Error(1)
}
