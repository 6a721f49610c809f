package workload

import (
	"sort"
	"time"
)

// WeekBucket is one Monday–Friday row of the printed timetable.
type WeekBucket struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Label string    `json:"label"`
}

// Range returns the bucket's inclusive date range.
func (b WeekBucket) Range() DateRange {
	return DateRange{Start: b.Start, End: b.End}
}

// NewWeekBucket builds the bucket for the week starting at monday.
func NewWeekBucket(monday time.Time) WeekBucket {
	start := Truncate(monday)
	end := AddDays(start, 4)
	return WeekBucket{Start: start, End: end, Label: FormatWeekLabel(start, end)}
}

// GenerateWeekBuckets walks Monday-anchored weeks from the Monday of scanStart
// while the cursor stays within scanEnd. A reversed range yields no buckets.
func GenerateWeekBuckets(scanStart, scanEnd time.Time) []WeekBucket {
	scanStart, scanEnd = Truncate(scanStart), Truncate(scanEnd)
	if scanEnd.Before(scanStart) {
		return nil
	}
	var buckets []WeekBucket
	for current := MondayOf(scanStart); !current.After(scanEnd); current = AddDays(current, 7) {
		buckets = append(buckets, NewWeekBucket(current))
	}
	return buckets
}

// CollectWeekBuckets unions the regular stride over window with the weeks
// holding any entry boundary and with the forced special weeks. The result is
// sorted by start date with no duplicate starts.
func CollectWeekBuckets(window DateRange, entries []Entry, specialWeeks []DateRange) []WeekBucket {
	seen := make(map[time.Time]struct{})
	var out []WeekBucket
	add := func(monday time.Time) {
		monday = MondayOf(monday)
		if _, ok := seen[monday]; ok {
			return
		}
		seen[monday] = struct{}{}
		out = append(out, NewWeekBucket(monday))
	}

	for _, b := range GenerateWeekBuckets(window.Start, window.End) {
		add(b.Start)
	}
	for _, e := range entries {
		add(e.DateStart)
		add(e.DateEnd)
	}
	for _, week := range specialWeeks {
		if week.Valid() {
			add(week.Start)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}
