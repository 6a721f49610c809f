package workload

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

var frenchMonths = [...]string{
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

// Date builds a civil date at UTC midnight.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Truncate drops the time-of-day component, keeping the calendar date of t.
func Truncate(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), t.Day())
}

// AddDays shifts a civil date by n days.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// MondayOf returns the Monday of the week containing t.
func MondayOf(t time.Time) time.Time {
	day := Truncate(t)
	switch wd := day.Weekday(); wd {
	case time.Monday:
		return day
	case time.Sunday:
		return AddDays(day, -6)
	default:
		return AddDays(day, -(int(wd) - 1))
	}
}

// DateRange is an inclusive range of civil dates.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Valid reports whether the range is non-empty.
func (r DateRange) Valid() bool {
	return !r.End.Before(r.Start)
}

// Overlaps applies the inclusive overlap test between two ranges.
func (r DateRange) Overlaps(o DateRange) bool {
	return !r.Start.After(o.End) && !r.End.Before(o.Start)
}

// ParseDateRange parses "YYYY-MM-DD..YYYY-MM-DD".
func ParseDateRange(raw string) (DateRange, error) {
	parts := strings.Split(strings.TrimSpace(raw), "..")
	if len(parts) != 2 {
		return DateRange{}, fmt.Errorf("date range %q: expected start..end", raw)
	}
	start, err := time.Parse("2006-01-02", strings.TrimSpace(parts[0]))
	if err != nil {
		return DateRange{}, fmt.Errorf("date range %q: %w", raw, err)
	}
	end, err := time.Parse("2006-01-02", strings.TrimSpace(parts[1]))
	if err != nil {
		return DateRange{}, fmt.Errorf("date range %q: %w", raw, err)
	}
	r := DateRange{Start: start, End: end}
	if !r.Valid() {
		return DateRange{}, fmt.Errorf("date range %q: %w", raw, ErrMalformedDateRange)
	}
	return r, nil
}

// MonthDay anchors a date inside a year chosen later.
type MonthDay struct {
	Month time.Month
	Day   int
}

// In places the month/day in the given year.
func (md MonthDay) In(year int) time.Time {
	return Date(year, md.Month, md.Day)
}

// IsZero reports whether md is unset.
func (md MonthDay) IsZero() bool {
	return md.Month == 0 && md.Day == 0
}

// ParseMonthDay parses "MM-DD".
func ParseMonthDay(raw string) (MonthDay, error) {
	parts := strings.Split(strings.TrimSpace(raw), "-")
	if len(parts) != 2 {
		return MonthDay{}, fmt.Errorf("month-day %q: expected MM-DD", raw)
	}
	month, err := strconv.Atoi(parts[0])
	if err != nil || month < 1 || month > 12 {
		return MonthDay{}, fmt.Errorf("month-day %q: invalid month", raw)
	}
	day, err := strconv.Atoi(parts[1])
	if err != nil || day < 1 || day > 31 {
		return MonthDay{}, fmt.Errorf("month-day %q: invalid day", raw)
	}
	return MonthDay{Month: time.Month(month), Day: day}, nil
}

// FormatWeekLabel renders "DD au DD <mois> YYYY"; month and year come from end.
func FormatWeekLabel(start, end time.Time) string {
	return fmt.Sprintf("%02d au %02d %s %d", start.Day(), end.Day(), frenchMonths[end.Month()-1], end.Year())
}
