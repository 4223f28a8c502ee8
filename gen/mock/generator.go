package mock

import (
	"context"
	"strings"

	"github.com/poiesic/recall/core"
)

// MockGenerator is a test double for gen.Generator.
// It allows custom behavior injection via function fields.
type MockGenerator struct {
	// GenerateFunc is called by Generate if set.
	// If nil, uses a default canned answer that echoes the context.
	GenerateFunc func(ctx context.Context, query string, statements []core.Statement) (string, error)

	callCount int
}

// NewGenerator creates a mock generator with default behavior.
// Note: Returns concrete type to allow test assertions.
func NewGenerator() *MockGenerator {
	return &MockGenerator{}
}

// Generate returns a canned answer built from the most relevant statement.
func (m *MockGenerator) Generate(ctx context.Context, query string, statements []core.Statement) (string, error) {
	m.callCount++

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, query, statements)
	}

	if len(statements) == 0 {
		return "I do not know.", nil
	}
	return "Based on what I know: " + strings.TrimSpace(statements[0].Text), nil
}

// Close is a no-op for the mock generator.
func (m *MockGenerator) Close() error {
	return nil
}

// CallCount returns the number of times Generate was called.
func (m *MockGenerator) CallCount() int {
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockGenerator) Reset() {
	m.callCount = 0
	m.GenerateFunc = nil
}
