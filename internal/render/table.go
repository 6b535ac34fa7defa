// Package render turns bookings and resources into terminal tables.
package render

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"cobot-go/internal/cobot"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5"))

// newTable creates a table with the shared border and header styling.
func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers(headers...)
}

// BookingsTable renders bookings as a table with one row per booking.
func BookingsTable(bookings []cobot.Booking) (string, error) {
	t := newTable("Date", "Time", "Name", "Title", "Resource ID")

	for _, b := range bookings {
		details, err := cobot.ParseBookingDetails(b)
		if err != nil {
			return "", fmt.Errorf("rendering booking: %w", err)
		}

		name := details.Name
		if name == "" {
			name = "N/A"
		}
		title := details.Title
		if title == "" {
			title = "N/A"
		}

		t.Row(
			details.From.Format("2006-01-02"),
			FormatTimeRange(details.From, details.To),
			name,
			title,
			details.ResourceID,
		)
	}

	return t.String(), nil
}

// scheduleRow is one booking placed in its day column.
type scheduleRow struct {
	timeRange string
	details   string
	dayIndex  int
}

// ScheduleTable renders a weekly grid for one resource: the first column
// holds the time slot, then one column per day starting at from. Each
// booking occupies its own row with details in its day's column.
func ScheduleTable(bookings []cobot.Booking, from time.Time, days int) (string, error) {
	headers := make([]string, days+1)
	headers[0] = "Time/Details"
	for i := 1; i <= days; i++ {
		headers[i] = from.AddDate(0, 0, i-1).Format("2006-01-02")
	}
	t := newTable(headers...)

	var rows []scheduleRow
	for _, b := range bookings {
		details, err := cobot.ParseBookingDetails(b)
		if err != nil {
			return "", fmt.Errorf("rendering schedule: %w", err)
		}

		dayIndex := daysBetween(from, details.From)
		if dayIndex < 0 || dayIndex >= days {
			continue
		}

		rows = append(rows, scheduleRow{
			timeRange: FormatTimeRange(details.From, details.To),
			details:   FormatBookingInfo(details.Name, details.Title),
			dayIndex:  dayIndex,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].timeRange < rows[j].timeRange
	})

	for _, row := range rows {
		cells := make([]string, days+1)
		cells[0] = row.timeRange
		cells[row.dayIndex+1] = row.details
		t.Row(cells...)
	}

	return t.String(), nil
}

// daysBetween returns the number of calendar days from a's date to b's
// date, each taken in its own location.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	start := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	end := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours() / 24)
}

// ResourcesTable renders the space's bookable resources.
func ResourcesTable(resources []cobot.Resource) string {
	t := newTable("ID", "Name", "Capacity")
	for _, r := range resources {
		capacity := ""
		if r.Capacity > 0 {
			capacity = strconv.Itoa(r.Capacity)
		}
		t.Row(r.ID, r.Name, capacity)
	}
	return t.String()
}
