package project

import (
	"fmt"
	"strings"
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/ca"
	"github.com/rickar/cal/v2/de"
	"github.com/rickar/cal/v2/fr"
	"github.com/rickar/cal/v2/gb"
	"github.com/rickar/cal/v2/us"
)

// HolidayCalendar answers whether a given day is a public holiday. A nil
// calendar means holiday logic is disabled and every day is a non-holiday.
// Calendars are built once at project construction and are read-only
// afterward, so they are safe to share across parallel iterations.
type HolidayCalendar struct {
	calendar *cal.Calendar
}

// NewHolidayCalendar builds a calendar for an ISO 3166 alpha-2 country
// code. An empty code returns nil, which disables holiday lookups.
func NewHolidayCalendar(countryCode string) (*HolidayCalendar, error) {
	code := strings.ToUpper(strings.TrimSpace(countryCode))
	if code == "" {
		return nil, nil
	}

	var holidays []*cal.Holiday
	switch code {
	case "US":
		holidays = us.Holidays
	case "GB":
		holidays = gb.Holidays
	case "CA":
		holidays = ca.Holidays
	case "DE":
		holidays = de.Holidays
	case "FR":
		holidays = fr.Holidays
	default:
		return nil, fmt.Errorf("unsupported holiday country code %q", countryCode)
	}

	c := &cal.Calendar{Name: code}
	c.AddHoliday(holidays...)
	return &HolidayCalendar{calendar: c}, nil
}

// IsHoliday reports whether the date is a holiday, counting both actual
// and observed occurrences, matching the behavior of the listed country
// calendars.
func (h *HolidayCalendar) IsHoliday(date time.Time) bool {
	if h == nil || h.calendar == nil {
		return false
	}
	actual, observed, _ := h.calendar.IsHoliday(date)
	return actual || observed
}

// Day truncates a time to midnight UTC so dates compare and hash cleanly
// as map keys.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
