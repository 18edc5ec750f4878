// Package notify delivers lifecycle notifications to external channels.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/portalcliente/portal-api/internal/core/ports"
)

const webhookTimeout = 5 * time.Second

var ErrNotConfigured = errors.New("webhook notifier not configured")

// WebhookNotifier POSTs each notification as JSON to a fixed URL. The
// receiving side is expected to turn it into an email.
type WebhookNotifier struct {
	url    string
	client *http.Client
}

// NewWebhookNotifier returns nil when url is empty.
func NewWebhookNotifier(url string) *WebhookNotifier {
	if url == "" {
		return nil
	}
	return &WebhookNotifier{
		url:    url,
		client: &http.Client{Timeout: webhookTimeout},
	}
}

type webhookPayload struct {
	Type       string            `json:"type"`
	Recipient  string            `json:"recipient"`
	Subject    string            `json:"subject"`
	Body       string            `json:"body"`
	Data       map[string]string `json:"data,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// Notify sends n. Network failures and 5xx answers are marked retryable;
// 4xx answers are not.
func (w *WebhookNotifier) Notify(ctx context.Context, n ports.Notification) error {
	if w == nil || w.url == "" {
		return ErrNotConfigured
	}

	body, err := json.Marshal(webhookPayload{
		Type:       string(n.Type),
		Recipient:  n.Recipient,
		Subject:    n.Subject,
		Body:       n.Body,
		Data:       n.Data,
		OccurredAt: n.OccurredAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return retry.RetryableError(fmt.Errorf("webhook: %w", err))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500:
		return retry.RetryableError(fmt.Errorf("webhook: status %d", resp.StatusCode))
	case resp.StatusCode >= 300:
		return fmt.Errorf("webhook: status %d", resp.StatusCode)
	}
	return nil
}
