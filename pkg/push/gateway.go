package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"Remindly/config"
)

// GatewayProvider posts notifications to an HTTP push gateway that fans out
// to the platform services (APNs/FCM/WebPush).
type GatewayProvider struct {
	url    string
	apiKey string
	client *http.Client
	log    *zap.Logger
}

func NewGatewayProvider(cfg *config.Config, log *zap.Logger) *GatewayProvider {
	return &GatewayProvider{
		url:    cfg.PushGatewayURL,
		apiKey: cfg.PushGatewayKey,
		client: &http.Client{Timeout: 10 * time.Second},
		log:    log,
	}
}

type gatewayRequest struct {
	Endpoint string `json:"endpoint"`
	Title    string `json:"title"`
	Body     string `json:"body"`
}

func (p *GatewayProvider) Send(ctx context.Context, n Notification) error {
	payload, err := json.Marshal(gatewayRequest{
		Endpoint: n.Endpoint,
		Title:    n.Title,
		Body:     n.Body,
	})
	if err != nil {
		return fmt.Errorf("marshal push payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("send push: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusGone || resp.StatusCode == http.StatusNotFound:
		// The platform reports the device endpoint no longer exists.
		return ErrEndpointGone
	case resp.StatusCode >= 300:
		p.log.Error("push gateway rejected notification",
			zap.Int("status", resp.StatusCode))
		return fmt.Errorf("push gateway error: status=%d", resp.StatusCode)
	}

	return nil
}
