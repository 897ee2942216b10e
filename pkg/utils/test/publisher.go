package testutils

import (
	"context"
	"errors"
	"sync"

	"github.com/globalbuddy/buddy/pkg/eventstream"
)

// MockPublisher is a test eventstream publisher that keeps published events.
type MockPublisher struct {
	mu     sync.Mutex
	events []*eventstream.TurnLoggedEvent

	// Fail causes PublishTurn to return an error.
	Fail bool
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (m *MockPublisher) PublishTurn(_ context.Context, event *eventstream.TurnLoggedEvent) error {
	if event == nil {
		return eventstream.ErrNilTurnEvent
	}
	if m.Fail {
		return errors.New("mock publish failure")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

// Events returns the published events.
func (m *MockPublisher) Events() []*eventstream.TurnLoggedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*eventstream.TurnLoggedEvent(nil), m.events...)
}

func (m *MockPublisher) Close() error {
	return nil
}
