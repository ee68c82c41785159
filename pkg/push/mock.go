package push

import (
	"context"
	"sync"
)

// MockProvider records notifications instead of sending. Implements Provider.
type MockProvider struct {
	mu   sync.Mutex
	Sent []Notification

	// Err is returned from every Send when set.
	Err error
}

func NewMockProvider() *MockProvider {
	return &MockProvider{Sent: make([]Notification, 0)}
}

func (m *MockProvider) Send(ctx context.Context, n Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, n)
	return nil
}
