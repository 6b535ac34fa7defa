package history

import (
	"fmt"
	"time"

	"cobot-go/internal/cobot"
)

// Cancelled returns every booking in previous whose identity no longer
// appears in current and whose end time is strictly after now. A booking
// that disappears after its end time has simply expired, not been
// cancelled, so it is excluded. The comparison against now (the diff's
// evaluation instant, expected in UTC) is a heuristic: a slow poll cycle
// can misclassify a genuine cancellation as a natural expiry.
//
// Records without a resolvable identity never match anything and are
// always candidates; input order is preserved and duplicate identities
// are not deduplicated. A previous record being tested for cancellation
// that lacks a parsable end time aborts the whole diff.
func Cancelled(current, previous []cobot.Booking, now time.Time) ([]cobot.Booking, error) {
	currentIDs := identitySet(current)

	var cancelled []cobot.Booking
	for _, b := range previous {
		if id, ok := cobot.BookingID(b); ok {
			if _, present := currentIDs[id]; present {
				continue
			}
		}
		end, err := cobot.BookingEnd(b)
		if err != nil {
			return nil, fmt.Errorf("checking cancellation: %w", err)
		}
		if end.After(now) {
			cancelled = append(cancelled, b)
		}
	}
	return cancelled, nil
}

// New returns every booking in current whose identity does not appear in
// previous. There is no time-based filter: any unseen identity counts,
// including every booking on a first poll against an empty history (the
// caller suppresses that case). Records without a resolvable identity are
// always reported; input order is preserved.
func New(current, previous []cobot.Booking) []cobot.Booking {
	previousIDs := identitySet(previous)

	var added []cobot.Booking
	for _, b := range current {
		if id, ok := cobot.BookingID(b); ok {
			if _, present := previousIDs[id]; present {
				continue
			}
		}
		added = append(added, b)
	}
	return added
}

// identitySet collects the resolvable identities of a snapshot. Records
// without an identity contribute nothing, so they can never be matched
// against.
func identitySet(bookings []cobot.Booking) map[string]struct{} {
	ids := make(map[string]struct{}, len(bookings))
	for _, b := range bookings {
		if id, ok := cobot.BookingID(b); ok {
			ids[id] = struct{}{}
		}
	}
	return ids
}
