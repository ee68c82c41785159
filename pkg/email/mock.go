package email

import (
	"context"
	"errors"
	"sync"
)

// MockProvider records mails instead of sending. Implements Provider.
type MockProvider struct {
	mu    sync.Mutex
	Sent  []Message
	Fail  bool
}

func NewMockProvider() *MockProvider {
	return &MockProvider{Sent: make([]Message, 0)}
}

func (m *MockProvider) Send(ctx context.Context, msg Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Fail {
		return errors.New("mock email failure")
	}
	m.Sent = append(m.Sent, msg)
	return nil
}
