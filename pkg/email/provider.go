// Package email delivers reminder mails through a pluggable provider.
package email

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"Remindly/config"
)

// Message is one outbound mail.
type Message struct {
	To      string
	Subject string
	Body    string
}

type Provider interface {
	Send(ctx context.Context, msg Message) error
}

// New builds the provider selected by EMAIL_PROVIDER.
func New(cfg *config.Config, log *zap.Logger) (Provider, error) {
	switch cfg.EmailProvider {
	case "api":
		return NewAPIProvider(cfg, log), nil
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unsupported email provider: %s", cfg.EmailProvider)
	}
}
