package workload

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMondayOf(t *testing.T) {
	cases := map[string]struct {
		in   time.Time
		want time.Time
	}{
		"monday":    {Date(2025, time.February, 3), Date(2025, time.February, 3)},
		"wednesday": {Date(2025, time.February, 5), Date(2025, time.February, 3)},
		"saturday":  {Date(2025, time.February, 8), Date(2025, time.February, 3)},
		"sunday":    {Date(2025, time.February, 9), Date(2025, time.February, 3)},
		"with time": {time.Date(2025, time.February, 6, 17, 45, 0, 0, time.UTC), Date(2025, time.February, 3)},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, MondayOf(tc.in))
		})
	}
}

func TestGenerateWeekBucketsStride(t *testing.T) {
	buckets := GenerateWeekBuckets(Date(2025, time.January, 30), Date(2025, time.May, 30))
	require.NotEmpty(t, buckets)

	assert.Equal(t, Date(2025, time.January, 27), buckets[0].Start)
	assert.Equal(t, Date(2025, time.May, 26), buckets[len(buckets)-1].Start)
	assert.Len(t, buckets, 18)

	for i, b := range buckets {
		assert.Equal(t, time.Monday, b.Start.Weekday())
		assert.Equal(t, AddDays(b.Start, 4), b.End)
		if i > 0 {
			assert.Equal(t, AddDays(buckets[i-1].Start, 7), b.Start)
		}
	}
}

func TestGenerateWeekBucketsReversedRange(t *testing.T) {
	assert.Empty(t, GenerateWeekBuckets(Date(2025, time.May, 30), Date(2025, time.January, 30)))
}

func TestGenerateWeekBucketsSingleDay(t *testing.T) {
	buckets := GenerateWeekBuckets(Date(2025, time.February, 5), Date(2025, time.February, 5))
	require.Len(t, buckets, 1)
	assert.Equal(t, "03 au 07 février 2025", buckets[0].Label)
}

func TestFormatWeekLabelUsesEndMonth(t *testing.T) {
	b := NewWeekBucket(Date(2025, time.March, 31))
	assert.Equal(t, "31 au 04 avril 2025", b.Label)

	b = NewWeekBucket(Date(2024, time.December, 30))
	assert.Equal(t, "30 au 03 janvier 2025", b.Label)
}

func TestCollectWeekBucketsUnionsEntryAndSpecialWeeks(t *testing.T) {
	window := DateRange{Start: Date(2025, time.February, 3), End: Date(2025, time.February, 14)}
	entries := []Entry{
		{ID: "late", DateStart: Date(2025, time.June, 11), DateEnd: Date(2025, time.June, 11)},
		{ID: "inside", DateStart: Date(2025, time.February, 4), DateEnd: Date(2025, time.February, 4)},
	}
	special := []DateRange{{Start: Date(2025, time.February, 24), End: Date(2025, time.February, 28)}}

	buckets := CollectWeekBuckets(window, entries, special)

	starts := make([]time.Time, 0, len(buckets))
	for _, b := range buckets {
		starts = append(starts, b.Start)
	}
	assert.Equal(t, []time.Time{
		Date(2025, time.February, 3),
		Date(2025, time.February, 10),
		Date(2025, time.February, 24),
		Date(2025, time.June, 9),
	}, starts)
}

func TestCollectWeekBucketsHasNoDuplicateStarts(t *testing.T) {
	window := DateRange{Start: Date(2025, time.January, 30), End: Date(2025, time.May, 30)}
	entries := []Entry{
		{DateStart: Date(2025, time.February, 3), DateEnd: Date(2025, time.February, 14)},
		{DateStart: Date(2025, time.February, 5), DateEnd: Date(2025, time.February, 5)},
	}
	special := []DateRange{
		{Start: Date(2025, time.February, 24), End: Date(2025, time.February, 28)},
		{Start: Date(2025, time.February, 24), End: Date(2025, time.February, 28)},
	}

	buckets := CollectWeekBuckets(window, entries, special)
	seen := map[time.Time]bool{}
	for i, b := range buckets {
		require.False(t, seen[b.Start], b.Label)
		seen[b.Start] = true
		if i > 0 {
			require.True(t, buckets[i-1].Start.Before(b.Start))
		}
	}
	assert.Len(t, buckets, 18)
}
