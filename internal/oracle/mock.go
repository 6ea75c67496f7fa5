package oracle

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
)

const MockName = "mock"

// MockGenerator is a Generator for testing. Responses are returned in order;
// once exhausted the last one repeats.
type MockGenerator struct {
	// Configurable behavior
	Responses []string
	Err       error // Returned on every call when set
	FailAfter int   // Fail after N calls (0 = never)

	// State
	callCount atomic.Int64

	mu      sync.Mutex
	prompts []string
}

// NewMockGenerator creates a mock that always returns response.
func NewMockGenerator(responses ...string) *MockGenerator {
	return &MockGenerator{Responses: responses}
}

// Name returns the generator identifier.
func (m *MockGenerator) Name() string {
	return MockName
}

// Generate returns the next canned response.
func (m *MockGenerator) Generate(ctx context.Context, model, prompt string, temperature float64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	count := m.callCount.Add(1)

	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	if m.Err != nil {
		return "", m.Err
	}
	if m.FailAfter > 0 && int(count) > m.FailAfter {
		return "", fmt.Errorf("%w: mock failed after %d calls", ErrUnavailable, m.FailAfter)
	}
	if len(m.Responses) == 0 {
		return "", fmt.Errorf("mock generator has no responses configured")
	}

	idx := int(count) - 1
	if idx >= len(m.Responses) {
		idx = len(m.Responses) - 1
	}
	return m.Responses[idx], nil
}

// CallCount returns the number of Generate calls made.
func (m *MockGenerator) CallCount() int {
	return int(m.callCount.Load())
}

// Prompts returns a copy of every prompt received, in call order.
func (m *MockGenerator) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.prompts))
	copy(out, m.prompts)
	return out
}

// Verify interface
var _ Generator = (*MockGenerator)(nil)
