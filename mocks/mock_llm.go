package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"mapsmith/internal/domain"
	"mapsmith/internal/port"
)

// MockTextExtractor is a mock implementation of port.TextExtractor.
type MockTextExtractor struct {
	mock.Mock
}

func (m *MockTextExtractor) ExtractText(ctx context.Context, input port.ExtractInput, onChunk port.StreamFunc) (string, error) {
	args := m.Called(ctx, input, onChunk)
	return args.String(0), args.Error(1)
}

// MockDocumentStructurer is a mock implementation of port.DocumentStructurer.
type MockDocumentStructurer struct {
	mock.Mock
}

func (m *MockDocumentStructurer) Structure(ctx context.Context, text, customPrompt string, onChunk port.StreamFunc) (*domain.MapDocument, error) {
	args := m.Called(ctx, text, customPrompt, onChunk)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MapDocument), args.Error(1)
}

func (m *MockDocumentStructurer) Edit(ctx context.Context, doc *domain.MapDocument, instruction string, onChunk port.StreamFunc) (*domain.MapDocument, error) {
	args := m.Called(ctx, doc, instruction, onChunk)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MapDocument), args.Error(1)
}
