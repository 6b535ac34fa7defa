package app

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestTabHandler_Handle(t *testing.T) {
	ts := time.Date(2024, 2, 15, 10, 30, 45, 0, time.UTC)

	tests := []struct {
		name    string
		opID    string
		level   slog.Level
		message string
		attrs   []slog.Attr
		want    string
	}{
		{
			name:    "basic info message",
			opID:    "op-123",
			level:   slog.LevelInfo,
			message: "snapshot appended",
			want:    "2024-02-15T10:30:45Z\tINFO\top-123\tsnapshot appended\n",
		},
		{
			name:    "debug level",
			opID:    "op-456",
			level:   slog.LevelDebug,
			message: "poll complete",
			want:    "2024-02-15T10:30:45Z\tDEBUG\top-456\tpoll complete\n",
		},
		{
			name:    "with record attrs",
			opID:    "op-789",
			level:   slog.LevelInfo,
			message: "changes detected",
			attrs:   []slog.Attr{slog.String("resource", "room-1"), slog.Int("cancelled", 2)},
			want:    "2024-02-15T10:30:45Z\tINFO\top-789\tchanges detected\tresource=room-1\tcancelled=2\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := &tabHandler{w: &buf, opID: tt.opID}

			r := slog.NewRecord(ts, tt.level, tt.message, 0)
			for _, a := range tt.attrs {
				r.AddAttrs(a)
			}

			if err := h.Handle(context.Background(), r); err != nil {
				t.Fatalf("Handle() error = %v", err)
			}

			if got := buf.String(); got != tt.want {
				t.Errorf("Handle() output =\n%q\nwant:\n%q", got, tt.want)
			}
		})
	}
}

func TestTabHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	h := &tabHandler{w: &buf, opID: "op-1"}

	h2 := h.WithAttrs([]slog.Attr{slog.String("operation", "watch")}).(*tabHandler)

	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r := slog.NewRecord(ts, slog.LevelInfo, "poll complete", 0)
	r.AddAttrs(slog.String("resource", "room-1"))

	if err := h2.Handle(context.Background(), r); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	got := buf.String()
	if !strings.Contains(got, "operation=watch") {
		t.Errorf("expected pre-set attr operation=watch, got: %q", got)
	}
	if !strings.Contains(got, "resource=room-1") {
		t.Errorf("expected record attr resource=room-1, got: %q", got)
	}
}

func TestTabHandler_WithAttrs_doesNotMutateOriginal(t *testing.T) {
	var buf bytes.Buffer
	h := &tabHandler{w: &buf, opID: "op-1", attrs: []slog.Attr{slog.String("a", "1")}}

	h2 := h.WithAttrs([]slog.Attr{slog.String("b", "2")}).(*tabHandler)

	if len(h.attrs) != 1 {
		t.Errorf("original handler attrs modified: got %d, want 1", len(h.attrs))
	}
	if len(h2.attrs) != 2 {
		t.Errorf("new handler attrs: got %d, want 2", len(h2.attrs))
	}
}

func TestTabHandler_Enabled(t *testing.T) {
	h := &tabHandler{}
	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
		if !h.Enabled(context.Background(), level) {
			t.Errorf("Enabled(%v) = false, want true", level)
		}
	}
}

func TestNewLogger(t *testing.T) {
	dir := t.TempDir()

	logger, f, err := newLogger(dir, "test-op")
	if err != nil {
		t.Fatalf("newLogger() error = %v", err)
	}
	defer f.Close()

	if logger == nil {
		t.Fatal("newLogger() returned nil logger")
	}
	if f == nil {
		t.Fatal("newLogger() returned nil file")
	}
}
