package sms

import (
	"context"
	"errors"
	"sync"
)

type MockCall struct {
	Phone         string
	SignName      string
	TemplateCode  string
	TemplateParam string
}

// MockClient records calls instead of sending. Implements Client.
type MockClient struct {
	mu    sync.Mutex
	Calls []MockCall

	// FailNext makes the next call fail once, then resets.
	FailNext bool
}

func NewMockClient() *MockClient {
	return &MockClient{Calls: make([]MockCall, 0)}
}

func (m *MockClient) SendSingle(ctx context.Context, phone, signName, templateCode, templateParam string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailNext {
		m.FailNext = false
		return errors.New("mock sms failure")
	}

	m.Calls = append(m.Calls, MockCall{
		Phone:         phone,
		SignName:      signName,
		TemplateCode:  templateCode,
		TemplateParam: templateParam,
	})
	return nil
}
