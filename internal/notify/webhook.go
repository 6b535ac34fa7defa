// Package notify delivers booking-change events to an external messaging
// channel.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"cobot-go/internal/cobot"
	"cobot-go/internal/watch"
)

// webhookPayload is the JSON body posted for each change event.
type webhookPayload struct {
	ID         string          `json:"id"`
	ResourceID string          `json:"resource_id"`
	SpaceID    string          `json:"space_id"`
	OccurredAt time.Time       `json:"occurred_at"`
	Cancelled  []cobot.Booking `json:"cancelled"`
	New        []cobot.Booking `json:"new"`
}

// WebhookSink posts change events as JSON to a configured URL.
type WebhookSink struct {
	url        string
	httpClient *http.Client
}

var _ watch.Sink = (*WebhookSink)(nil)

// NewWebhookSink creates a WebhookSink. timeout bounds each delivery
// attempt; zero means no timeout.
func NewWebhookSink(url string, timeout time.Duration) *WebhookSink {
	return &WebhookSink{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Notify posts the event. Each delivery carries a fresh UUID both in the
// payload and as X-Request-Id so receivers can deduplicate.
func (s *WebhookSink) Notify(ctx context.Context, event watch.ChangeEvent) error {
	payload := webhookPayload{
		ID:         uuid.New().String(),
		ResourceID: event.ResourceID,
		SpaceID:    event.SpaceID,
		OccurredAt: event.OccurredAt,
		Cancelled:  event.Cancelled,
		New:        event.Added,
	}
	if payload.Cancelled == nil {
		payload.Cancelled = []cobot.Booking{}
	}
	if payload.New == nil {
		payload.New = []cobot.Booking{}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding change event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", payload.ID)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("delivering change event: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, snippet)
	}
	return nil
}
