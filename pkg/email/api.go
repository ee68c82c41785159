package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"Remindly/config"
)

// APIProvider posts mail to a transactional email HTTP API (Brevo-compatible
// request shape).
type APIProvider struct {
	url    string
	apiKey string
	from   string
	client *http.Client
	log    *zap.Logger
}

func NewAPIProvider(cfg *config.Config, log *zap.Logger) *APIProvider {
	return &APIProvider{
		url:    cfg.EmailAPIURL,
		apiKey: cfg.EmailAPIKey,
		from:   cfg.EmailFrom,
		client: &http.Client{Timeout: 10 * time.Second},
		log:    log,
	}
}

type apiAddress struct {
	Email string `json:"email"`
}

type apiRequest struct {
	Sender      apiAddress   `json:"sender"`
	To          []apiAddress `json:"to"`
	Subject     string       `json:"subject"`
	TextContent string       `json:"textContent"`
}

func (p *APIProvider) Send(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(apiRequest{
		Sender:      apiAddress{Email: p.from},
		To:          []apiAddress{{Email: msg.To}},
		Subject:     msg.Subject,
		TextContent: msg.Body,
	})
	if err != nil {
		return fmt.Errorf("marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		p.log.Error("email API rejected message",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body))
		return fmt.Errorf("email API error: status=%d", resp.StatusCode)
	}

	p.log.Info("email sent", zap.String("subject", msg.Subject))
	return nil
}
