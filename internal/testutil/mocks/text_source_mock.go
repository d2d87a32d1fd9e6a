package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/bestofn/internal/source"
)

// MockTextSource is a mock implementation of source.TextSource
type MockTextSource struct {
	mock.Mock
}

func (m *MockTextSource) Text(ctx context.Context, doc source.Document) (string, error) {
	args := m.Called(ctx, doc)
	return args.String(0), args.Error(1)
}
