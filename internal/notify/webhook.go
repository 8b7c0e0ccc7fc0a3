package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Webhook 向外部接收端 POST 警报的通道
type Webhook struct {
	logger *zap.Logger
	url    string
	client *http.Client
}

func NewWebhook(logger *zap.Logger, url string, timeout time.Duration) *Webhook {
	return &Webhook{
		logger: logger,
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

func (w *Webhook) Name() string {
	return "webhook"
}

// Notify POST JSON 到配置的地址，超时或非 2xx 均视为失败
func (w *Webhook) Notify(ctx context.Context, alert Alert) error {
	body, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("failed to marshal alert: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send webhook: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
