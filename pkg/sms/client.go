// Package sms sends reminder texts through a pluggable SMS provider.
package sms

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"Remindly/config"
)

// Client is the SMS provider interface.
type Client interface {
	// SendSingle sends one templated message. templateParam is a JSON
	// object string with the template variables.
	SendSingle(ctx context.Context, phone, signName, templateCode, templateParam string) error
}

// New builds the client selected by SMS_PROVIDER.
func New(cfg *config.Config, log *zap.Logger) (Client, error) {
	switch cfg.SMSProvider {
	case "aliyun":
		return NewAliyunClient(log)
	case "mock":
		return NewMockClient(), nil
	default:
		return nil, fmt.Errorf("unsupported SMS provider: %s", cfg.SMSProvider)
	}
}
