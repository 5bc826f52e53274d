package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"textapi/internal/model"
	"textapi/internal/service"
)

type MockAnalysisService struct {
	mock.Mock
}

func (m *MockAnalysisService) Initiate(ctx context.Context, req service.AnalysisRequest) (*model.AnalysisResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AnalysisResult), args.Error(1)
}

func (m *MockAnalysisService) Get(ctx context.Context, taskID string) (*model.AnalysisResult, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AnalysisResult), args.Error(1)
}

func (m *MockAnalysisService) ListByFile(ctx context.Context, fileID string, limit, offset int) (*service.AnalysisListResult, error) {
	args := m.Called(ctx, fileID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AnalysisListResult), args.Error(1)
}
