package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cobot-go/internal/cobot"
	"cobot-go/internal/config"
	"cobot-go/internal/testutil"
	"cobot-go/internal/watch"
)

func TestWebhookSink_Notify(t *testing.T) {
	occurredAt := time.Date(2024, 2, 15, 10, 30, 0, 0, time.UTC)
	end := occurredAt.Add(2 * time.Hour)

	t.Run("posts the change event", func(t *testing.T) {
		var (
			gotMethod      string
			gotContentType string
			gotRequestID   string
			gotBody        []byte
		)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotContentType = r.Header.Get("Content-Type")
			gotRequestID = r.Header.Get("X-Request-Id")
			gotBody, _ = io.ReadAll(r.Body)
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		sink := NewWebhookSink(server.URL, 5*time.Second)
		err := sink.Notify(context.Background(), watch.ChangeEvent{
			ResourceID: "resource-1",
			SpaceID:    "space-1",
			OccurredAt: occurredAt,
			Cancelled:  []cobot.Booking{testutil.Booking(t, "gone", end)},
			Added:      []cobot.Booking{testutil.Booking(t, "fresh", end)},
		})
		if err != nil {
			t.Fatalf("Notify() error = %v", err)
		}

		if gotMethod != http.MethodPost {
			t.Errorf("method = %q, want POST", gotMethod)
		}
		if gotContentType != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", gotContentType)
		}
		if gotRequestID == "" {
			t.Error("X-Request-Id header not set")
		}

		var payload struct {
			ID         string          `json:"id"`
			ResourceID string          `json:"resource_id"`
			SpaceID    string          `json:"space_id"`
			Cancelled  []cobot.Booking `json:"cancelled"`
			New        []cobot.Booking `json:"new"`
		}
		if err := json.Unmarshal(gotBody, &payload); err != nil {
			t.Fatalf("decoding payload: %v", err)
		}
		if payload.ID != gotRequestID {
			t.Errorf("payload id = %q, header = %q, want them equal", payload.ID, gotRequestID)
		}
		if payload.ResourceID != "resource-1" || payload.SpaceID != "space-1" {
			t.Errorf("payload = %+v, want resource-1/space-1", payload)
		}
		if got := testutil.BookingIDs(payload.Cancelled); len(got) != 1 || got[0] != "gone" {
			t.Errorf("cancelled ids = %v, want [gone]", got)
		}
		if got := testutil.BookingIDs(payload.New); len(got) != 1 || got[0] != "fresh" {
			t.Errorf("new ids = %v, want [fresh]", got)
		}
	})

	t.Run("empty change lists encode as arrays", func(t *testing.T) {
		var gotBody []byte
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotBody, _ = io.ReadAll(r.Body)
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		sink := NewWebhookSink(server.URL, 5*time.Second)
		err := sink.Notify(context.Background(), watch.ChangeEvent{
			ResourceID: "resource-1",
			OccurredAt: occurredAt,
		})
		if err != nil {
			t.Fatalf("Notify() error = %v", err)
		}

		var payload map[string]json.RawMessage
		if err := json.Unmarshal(gotBody, &payload); err != nil {
			t.Fatalf("decoding payload: %v", err)
		}
		for _, key := range []string{"cancelled", "new"} {
			if string(payload[key]) != "[]" {
				t.Errorf("%s = %s, want []", key, payload[key])
			}
		}
	})

	t.Run("non-2xx response is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusBadGateway)
		}))
		defer server.Close()

		sink := NewWebhookSink(server.URL, 5*time.Second)
		err := sink.Notify(context.Background(), watch.ChangeEvent{ResourceID: "resource-1"})
		if err == nil {
			t.Fatal("Notify() expected error for 502 response")
		}
	})

	t.Run("unreachable endpoint is an error", func(t *testing.T) {
		sink := NewWebhookSink("http://127.0.0.1:1/hook", time.Second)
		err := sink.Notify(context.Background(), watch.ChangeEvent{ResourceID: "resource-1"})
		if err == nil {
			t.Fatal("Notify() expected error for unreachable endpoint")
		}
	})
}

func TestNewSinkFromConfig(t *testing.T) {
	t.Run("no URL disables delivery", func(t *testing.T) {
		if sink := NewSinkFromConfig(config.NotifyConfig{}); sink != nil {
			t.Errorf("NewSinkFromConfig() = %v, want nil", sink)
		}
	})

	t.Run("URL enables the webhook sink", func(t *testing.T) {
		sink := NewSinkFromConfig(config.NotifyConfig{URL: "https://example.com/hook"})
		if sink == nil {
			t.Fatal("NewSinkFromConfig() = nil, want sink")
		}
		if _, ok := sink.(*WebhookSink); !ok {
			t.Errorf("NewSinkFromConfig() = %T, want *WebhookSink", sink)
		}
	})
}
