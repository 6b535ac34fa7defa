package testutil

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"cobot-go/internal/cobot"
)

// Booking builds a booking record with a top-level id and the given end
// time, in the shape returned by the API.
func Booking(t *testing.T, id string, to time.Time) cobot.Booking {
	t.Helper()
	return BookingWithAttrs(t, id, map[string]any{
		"from": to.Add(-time.Hour).Format(time.RFC3339),
		"to":   to.Format(time.RFC3339),
	})
}

// BookingWithAttrs builds a booking record with a top-level id and the
// given attributes. An empty id omits the field entirely.
func BookingWithAttrs(t *testing.T, id string, attrs map[string]any) cobot.Booking {
	t.Helper()
	record := map[string]any{"attributes": attrs}
	if id != "" {
		record["id"] = id
	}
	data, err := json.Marshal(record)
	if err != nil {
		t.Fatalf("building test booking: %v", err)
	}
	return data
}

// BookingIDs extracts the resolvable identities of a booking sequence, in
// order, for compact assertions.
func BookingIDs(bookings []cobot.Booking) []string {
	ids := make([]string, len(bookings))
	for i, b := range bookings {
		if id, ok := cobot.BookingID(b); ok {
			ids[i] = id
		} else {
			ids[i] = fmt.Sprintf("<no-id:%d>", i)
		}
	}
	return ids
}
