package render

import "time"

// FormatDate renders a booking date like "Thu 15 Feb".
func FormatDate(t time.Time) string {
	return t.Format("Mon 2 Jan")
}

// FormatTimeRange renders a booking slot like "09:00 - 10:30".
func FormatTimeRange(from, to time.Time) string {
	return from.Format("15:04") + " - " + to.Format("15:04")
}

// FormatBookingInfo combines a booking's name and title into one line.
// An empty name becomes "N/A"; an empty title is omitted.
func FormatBookingInfo(name, title string) string {
	if name == "" {
		name = "N/A"
	}
	if title == "" {
		return name
	}
	return name + ": " + title
}
