package testutils

import (
	"context"
	"errors"
	"sync"

	"github.com/globalbuddy/buddy/pkg/llm"
)

// MockProvider is a test generation provider that records requests and
// answers with a fixed reply.
type MockProvider struct {
	mu       sync.Mutex
	requests []*llm.ChatRequest

	// Reply is returned as the response text.
	Reply string

	// Fail causes Generate to return an error.
	Fail bool
}

func NewMockProvider(reply string) *MockProvider {
	return &MockProvider{Reply: reply}
}

func (m *MockProvider) Name() string {
	return "mock"
}

func (m *MockProvider) Generate(_ context.Context, req *llm.ChatRequest) (*llm.ChatResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, req)
	if m.Fail {
		return nil, errors.New("mock generation failure")
	}
	return &llm.ChatResponse{Model: "mock-model", Text: m.Reply}, nil
}

// Requests returns every request seen so far.
func (m *MockProvider) Requests() []*llm.ChatRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*llm.ChatRequest(nil), m.requests...)
}
