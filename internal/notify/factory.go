package notify

import (
	"time"

	"cobot-go/internal/config"
	"cobot-go/internal/watch"
)

const defaultTimeout = 10 * time.Second

// NewSinkFromConfig creates a Sink based on the notify config. Returns
// nil when no webhook URL is configured, which disables delivery.
func NewSinkFromConfig(cfg config.NotifyConfig) watch.Sink {
	if cfg.URL == "" {
		return nil
	}
	timeout := defaultTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	return NewWebhookSink(cfg.URL, timeout)
}
