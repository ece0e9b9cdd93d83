package alerts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/kmosley/taskplan/internal/models"
)

// WebhookSink posts an alert as a JSON payload to a single configured URL.
// Unlike a desktop tray notifier it needs no local process discovery: the
// destination is whatever the user points it at.
type WebhookSink struct {
	URL    string
	Secret string
	Client *http.Client
}

// NewWebhookSink returns a WebhookSink with a bounded-timeout HTTP client.
func NewWebhookSink(url, secret string) *WebhookSink {
	return &WebhookSink{
		URL:    url,
		Secret: secret,
		Client: &http.Client{Timeout: 5 * time.Second},
	}
}

type webhookPayload struct {
	TaskID  string `json:"task_id"`
	Message string `json:"message"`
	Date    string `json:"date"`
}

// Send posts a to the configured URL. A non-2xx response is treated as
// retryable by the caller's Dispatcher.
func (s *WebhookSink) Send(ctx context.Context, a models.Alert) error {
	body, err := json.Marshal(webhookPayload{TaskID: a.TaskID, Message: a.Message, Date: a.Date})
	if err != nil {
		return fmt.Errorf("encode alert payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.Secret != "" {
		req.Header.Set("X-Taskplan-Secret", s.Secret)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return fmt.Errorf("send webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
