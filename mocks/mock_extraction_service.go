package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"legalextract/internal/csvexport"
	"legalextract/internal/domain"
	"legalextract/internal/tabular"
)

// MockExtractionService is a mock implementation of service.ExtractionService.
type MockExtractionService struct {
	mock.Mock
}

func (m *MockExtractionService) ExtractDocument(ctx context.Context, req domain.ExtractionRequest) (*domain.DocumentResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DocumentResult), args.Error(1)
}

func (m *MockExtractionService) ExtractBatch(ctx context.Context, reqs []domain.ExtractionRequest) (*domain.BatchResult, error) {
	args := m.Called(ctx, reqs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BatchResult), args.Error(1)
}

func (m *MockExtractionService) Export(table *tabular.Table, format csvexport.Format) ([]byte, error) {
	args := m.Called(table, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
