package render

import (
	"testing"
	"time"
)

func TestFormatDate(t *testing.T) {
	got := FormatDate(time.Date(2024, 2, 15, 9, 0, 0, 0, time.UTC))
	if got != "Thu 15 Feb" {
		t.Errorf("FormatDate() = %q, want %q", got, "Thu 15 Feb")
	}
}

func TestFormatTimeRange(t *testing.T) {
	from := time.Date(2024, 2, 15, 9, 0, 0, 0, time.UTC)
	to := time.Date(2024, 2, 15, 10, 30, 0, 0, time.UTC)

	got := FormatTimeRange(from, to)
	if got != "09:00 - 10:30" {
		t.Errorf("FormatTimeRange() = %q, want %q", got, "09:00 - 10:30")
	}
}

func TestFormatBookingInfo(t *testing.T) {
	tests := []struct {
		name    string
		member  string
		title   string
		want    string
	}{
		{"name and title", "Alice", "Standup", "Alice: Standup"},
		{"name only", "Alice", "", "Alice"},
		{"title only", "", "Standup", "N/A: Standup"},
		{"neither", "", "", "N/A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatBookingInfo(tt.member, tt.title); got != tt.want {
				t.Errorf("FormatBookingInfo(%q, %q) = %q, want %q", tt.member, tt.title, got, tt.want)
			}
		})
	}
}
