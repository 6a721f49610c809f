package workload

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Semester identifies one academic half-year.
type Semester string

const (
	SemesterOne Semester = "S1"
	SemesterTwo Semester = "S2"
)

// DefaultSemester is used when callers omit the semester.
const DefaultSemester = SemesterTwo

// ParseSemester accepts "S1"/"S2" in any case; an empty value yields DefaultSemester.
func ParseSemester(raw string) (Semester, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "":
		return DefaultSemester, nil
	case string(SemesterOne):
		return SemesterOne, nil
	case string(SemesterTwo):
		return SemesterTwo, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidSemester, raw)
	}
}

// ClassifySemester maps August through December to S2 and January through July to S1.
func ClassifySemester(date time.Time) Semester {
	if date.Month() >= time.August {
		return SemesterTwo
	}
	return SemesterOne
}

// InSemester classifies an entry by its start date only. An entry starting in
// July and ending in September belongs entirely to S1.
func InSemester(e Entry, s Semester) bool {
	return ClassifySemester(e.DateStart) == s
}

// FilterSemester keeps the entries of s, preserving order.
func FilterSemester(entries []Entry, s Semester) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if InSemester(e, s) {
			out = append(out, e)
		}
	}
	return out
}

// AcademicYear is a parsed "YYYY-YYYY" label.
type AcademicYear struct {
	Label     string
	StartYear int
	EndYear   int
}

// ParseAcademicYear parses labels such as "2024-2025".
func ParseAcademicYear(label string) (AcademicYear, error) {
	parts := strings.Split(strings.TrimSpace(label), "-")
	if len(parts) != 2 {
		return AcademicYear{}, fmt.Errorf("%w: %q", ErrInvalidAcademicYear, label)
	}
	start, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || len(strings.TrimSpace(parts[0])) != 4 {
		return AcademicYear{}, fmt.Errorf("%w: %q", ErrInvalidAcademicYear, label)
	}
	end, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || len(strings.TrimSpace(parts[1])) != 4 {
		return AcademicYear{}, fmt.Errorf("%w: %q", ErrInvalidAcademicYear, label)
	}
	return AcademicYear{Label: strings.TrimSpace(label), StartYear: start, EndYear: end}, nil
}

// ResolveSemesterBounds returns the coarse calendar bounds of a semester:
// S1 spans January to August of the end year, S2 September to December of the start year.
func ResolveSemesterBounds(year AcademicYear, s Semester) DateRange {
	if s == SemesterOne {
		return DateRange{Start: Date(year.EndYear, time.January, 1), End: Date(year.EndYear, time.August, 31)}
	}
	return DateRange{Start: Date(year.StartYear, time.September, 1), End: Date(year.StartYear, time.December, 31)}
}

var (
	defaultScanStart = MonthDay{Month: time.January, Day: 30}
	defaultScanEnd   = MonthDay{Month: time.May, Day: 30}
)

// ScanWindow returns the range the week grid is generated over. Both
// semesters scan the same window of the end year unless overridden in opts.
func ScanWindow(year AcademicYear, s Semester, opts Options) DateRange {
	start, end := opts.ScanStart, opts.ScanEnd
	if start.IsZero() {
		start = defaultScanStart
	}
	if end.IsZero() {
		end = defaultScanEnd
	}
	return DateRange{Start: start.In(year.EndYear), End: end.In(year.EndYear)}
}
