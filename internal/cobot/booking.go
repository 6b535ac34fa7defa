package cobot

import (
	"encoding/json"
	"fmt"
	"time"
)

// Booking is a single booking record exactly as the API returned it.
// Records are kept verbatim so snapshots persist whatever the upstream
// sends, including fields this program does not know about. The accessor
// functions below are the only places that look inside a record.
type Booking = json.RawMessage

// bookingEnvelope covers the two record shapes the API is known to emit:
// an identifier either at the top level or nested under attributes.
type bookingEnvelope struct {
	ID         string `json:"id"`
	Attributes struct {
		ID    string `json:"id"`
		From  string `json:"from"`
		To    string `json:"to"`
		Name  string `json:"name"`
		Title string `json:"title"`
	} `json:"attributes"`
	Relationships struct {
		Resource struct {
			Data struct {
				ID string `json:"id"`
			} `json:"data"`
		} `json:"resource"`
	} `json:"relationships"`
}

// BookingID returns the stable identifier used to match a booking across
// snapshots. Precedence: top-level "id", then "attributes.id". The second
// return value is false when neither is present — such records have no
// identity and can never match another record.
func BookingID(b Booking) (string, bool) {
	var env bookingEnvelope
	if err := json.Unmarshal(b, &env); err != nil {
		return "", false
	}
	if env.ID != "" {
		return env.ID, true
	}
	if env.Attributes.ID != "" {
		return env.Attributes.ID, true
	}
	return "", false
}

// BookingEnd returns the booking's end time, parsed from "attributes.to".
// The field is required to be a timezone-aware ISO-8601 timestamp; a
// missing or unparsable value is an error.
func BookingEnd(b Booking) (time.Time, error) {
	var env bookingEnvelope
	if err := json.Unmarshal(b, &env); err != nil {
		return time.Time{}, fmt.Errorf("decoding booking record: %w", err)
	}
	if env.Attributes.To == "" {
		return time.Time{}, fmt.Errorf("booking record has no attributes.to")
	}
	end, err := time.Parse(time.RFC3339, env.Attributes.To)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing booking end time %q: %w", env.Attributes.To, err)
	}
	return end, nil
}

// BookingResource returns the resource the booking belongs to, from
// "relationships.resource.data.id". Empty when absent.
func BookingResource(b Booking) string {
	var env bookingEnvelope
	if err := json.Unmarshal(b, &env); err != nil {
		return ""
	}
	return env.Relationships.Resource.Data.ID
}

// BookingDetails is the parsed view of a booking used for rendering.
type BookingDetails struct {
	From       time.Time
	To         time.Time
	Name       string
	Title      string
	ResourceID string
}

// ParseBookingDetails extracts the fields needed to display a booking.
// Both "attributes.from" and "attributes.to" must parse.
func ParseBookingDetails(b Booking) (BookingDetails, error) {
	var env bookingEnvelope
	if err := json.Unmarshal(b, &env); err != nil {
		return BookingDetails{}, fmt.Errorf("decoding booking record: %w", err)
	}
	from, err := time.Parse(time.RFC3339, env.Attributes.From)
	if err != nil {
		return BookingDetails{}, fmt.Errorf("parsing booking start time %q: %w", env.Attributes.From, err)
	}
	to, err := time.Parse(time.RFC3339, env.Attributes.To)
	if err != nil {
		return BookingDetails{}, fmt.Errorf("parsing booking end time %q: %w", env.Attributes.To, err)
	}
	return BookingDetails{
		From:       from,
		To:         to,
		Name:       env.Attributes.Name,
		Title:      env.Attributes.Title,
		ResourceID: env.Relationships.Resource.Data.ID,
	}, nil
}

// Resource is a bookable resource of the space (a room, a desk).
type Resource struct {
	ID       string
	Name     string
	Capacity int
}
