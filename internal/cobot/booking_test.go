package cobot

import (
	"encoding/json"
	"testing"
	"time"
)

func TestBookingID(t *testing.T) {
	tests := []struct {
		name   string
		record string
		wantID string
		wantOK bool
	}{
		{
			name:   "top-level id",
			record: `{"id":"booking-1","attributes":{"id":"nested"}}`,
			wantID: "booking-1",
			wantOK: true,
		},
		{
			name:   "falls back to attributes id",
			record: `{"attributes":{"id":"nested-1"}}`,
			wantID: "nested-1",
			wantOK: true,
		},
		{
			name:   "no identity",
			record: `{"attributes":{"name":"John Doe"}}`,
			wantOK: false,
		},
		{
			name:   "empty object",
			record: `{}`,
			wantOK: false,
		},
		{
			name:   "invalid json",
			record: `{"id":`,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := BookingID(json.RawMessage(tt.record))
			if ok != tt.wantOK {
				t.Fatalf("BookingID() ok = %v, want %v", ok, tt.wantOK)
			}
			if id != tt.wantID {
				t.Errorf("BookingID() = %q, want %q", id, tt.wantID)
			}
		})
	}
}

func TestBookingEnd(t *testing.T) {
	t.Run("parses timezone-aware timestamp", func(t *testing.T) {
		end, err := BookingEnd(json.RawMessage(`{"attributes":{"to":"2024-02-15T10:00:00Z"}}`))
		if err != nil {
			t.Fatalf("BookingEnd() error = %v", err)
		}
		want := time.Date(2024, 2, 15, 10, 0, 0, 0, time.UTC)
		if !end.Equal(want) {
			t.Errorf("BookingEnd() = %v, want %v", end, want)
		}
	})

	t.Run("parses offset timestamp", func(t *testing.T) {
		end, err := BookingEnd(json.RawMessage(`{"attributes":{"to":"2024-02-15T12:00:00+02:00"}}`))
		if err != nil {
			t.Fatalf("BookingEnd() error = %v", err)
		}
		want := time.Date(2024, 2, 15, 10, 0, 0, 0, time.UTC)
		if !end.Equal(want) {
			t.Errorf("BookingEnd() = %v, want %v", end, want)
		}
	})

	t.Run("missing attributes.to is an error", func(t *testing.T) {
		if _, err := BookingEnd(json.RawMessage(`{"id":"x","attributes":{}}`)); err == nil {
			t.Error("BookingEnd() expected error for missing attributes.to")
		}
	})

	t.Run("unparsable timestamp is an error", func(t *testing.T) {
		if _, err := BookingEnd(json.RawMessage(`{"attributes":{"to":"yesterday"}}`)); err == nil {
			t.Error("BookingEnd() expected error for unparsable timestamp")
		}
	})
}

func TestParseBookingDetails(t *testing.T) {
	record := `{
		"id": "booking-1",
		"attributes": {
			"from": "2024-02-15T09:00:00Z",
			"to": "2024-02-15T10:00:00Z",
			"name": "John Doe",
			"title": "Meeting"
		},
		"relationships": {"resource": {"data": {"id": "resource-1"}}}
	}`

	details, err := ParseBookingDetails(json.RawMessage(record))
	if err != nil {
		t.Fatalf("ParseBookingDetails() error = %v", err)
	}

	if details.Name != "John Doe" {
		t.Errorf("Name = %q, want %q", details.Name, "John Doe")
	}
	if details.Title != "Meeting" {
		t.Errorf("Title = %q, want %q", details.Title, "Meeting")
	}
	if details.ResourceID != "resource-1" {
		t.Errorf("ResourceID = %q, want %q", details.ResourceID, "resource-1")
	}
	if got := details.To.Sub(details.From); got != time.Hour {
		t.Errorf("duration = %v, want %v", got, time.Hour)
	}
}

func TestBookingResource(t *testing.T) {
	record := `{"relationships":{"resource":{"data":{"id":"resource-9"}}}}`
	if got := BookingResource(json.RawMessage(record)); got != "resource-9" {
		t.Errorf("BookingResource() = %q, want %q", got, "resource-9")
	}
	if got := BookingResource(json.RawMessage(`{}`)); got != "" {
		t.Errorf("BookingResource() = %q, want empty", got)
	}
}
