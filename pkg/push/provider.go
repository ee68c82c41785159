// Package push delivers notifications to registered device endpoints through
// a push gateway.
package push

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"Remindly/config"
)

// Notification is one outbound push.
type Notification struct {
	Endpoint string
	Title    string
	Body     string
}

// ErrEndpointGone marks a permanently dead endpoint; the caller should drop
// the subscription instead of retrying.
var ErrEndpointGone = fmt.Errorf("push endpoint gone")

type Provider interface {
	Send(ctx context.Context, n Notification) error
}

// New builds the provider selected by PUSH_PROVIDER.
func New(cfg *config.Config, log *zap.Logger) (Provider, error) {
	switch cfg.PushProvider {
	case "gateway":
		return NewGatewayProvider(cfg, log), nil
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unsupported push provider: %s", cfg.PushProvider)
	}
}
