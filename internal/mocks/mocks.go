// Package mocks holds testify mocks for the repository and logger interfaces
package mocks

import (
	"context"

	"github.com/damon-houk/emission-decay/internal/domain/entity"
	"github.com/damon-houk/emission-decay/internal/infrastructure/logger"
	"github.com/stretchr/testify/mock"
)

// MockCalculationRepository mocks the CalculationRepository interface
type MockCalculationRepository struct {
	mock.Mock
}

func (m *MockCalculationRepository) Store(ctx context.Context, calc *entity.Calculation) (string, error) {
	args := m.Called(ctx, calc)
	return args.String(0), args.Error(1)
}

func (m *MockCalculationRepository) FindByID(ctx context.Context, id string) (*entity.Calculation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Calculation), args.Error(1)
}

func (m *MockCalculationRepository) List(ctx context.Context) ([]*entity.Calculation, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Calculation), args.Error(1)
}

// MockQuoteCache mocks the QuoteCache interface
type MockQuoteCache struct {
	mock.Mock
}

func (m *MockQuoteCache) Get(ctx context.Context, key string) (*entity.Quote, bool) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*entity.Quote), args.Bool(1)
}

func (m *MockQuoteCache) Put(ctx context.Context, key string, quote *entity.Quote) error {
	args := m.Called(ctx, key, quote)
	return args.Error(0)
}

// MockLogger mocks the logger interface
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) Info(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) Warn(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) Error(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) Fatal(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) WithField(key string, value interface{}) logger.Logger {
	args := m.Called(key, value)
	return args.Get(0).(logger.Logger)
}

func (m *MockLogger) WithFields(fields map[string]interface{}) logger.Logger {
	args := m.Called(fields)
	return args.Get(0).(logger.Logger)
}
