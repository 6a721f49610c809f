package workload

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifySemesterCoversEveryMonth(t *testing.T) {
	for m := time.January; m <= time.December; m++ {
		got := ClassifySemester(Date(2025, m, 15))
		if m >= time.August {
			assert.Equal(t, SemesterTwo, got, m.String())
		} else {
			assert.Equal(t, SemesterOne, got, m.String())
		}
	}
}

func TestInSemesterUsesStartDateOnly(t *testing.T) {
	e := Entry{DateStart: Date(2025, time.July, 28), DateEnd: Date(2025, time.September, 12)}
	assert.True(t, InSemester(e, SemesterOne))
	assert.False(t, InSemester(e, SemesterTwo))
}

func TestParseSemester(t *testing.T) {
	s, err := ParseSemester("")
	require.NoError(t, err)
	assert.Equal(t, SemesterTwo, s)

	s, err = ParseSemester("s1")
	require.NoError(t, err)
	assert.Equal(t, SemesterOne, s)

	_, err = ParseSemester("S3")
	require.ErrorIs(t, err, ErrInvalidSemester)
}

func TestParseAcademicYear(t *testing.T) {
	year, err := ParseAcademicYear("2024-2025")
	require.NoError(t, err)
	assert.Equal(t, 2024, year.StartYear)
	assert.Equal(t, 2025, year.EndYear)

	for _, bad := range []string{"", "2024", "24-25", "2024/2025", "abcd-2025"} {
		_, err := ParseAcademicYear(bad)
		assert.ErrorIs(t, err, ErrInvalidAcademicYear, bad)
	}
}

func TestResolveSemesterBounds(t *testing.T) {
	year, err := ParseAcademicYear("2024-2025")
	require.NoError(t, err)

	s1 := ResolveSemesterBounds(year, SemesterOne)
	assert.Equal(t, Date(2025, time.January, 1), s1.Start)
	assert.Equal(t, Date(2025, time.August, 31), s1.End)

	s2 := ResolveSemesterBounds(year, SemesterTwo)
	assert.Equal(t, Date(2024, time.September, 1), s2.Start)
	assert.Equal(t, Date(2024, time.December, 31), s2.End)
}

func TestScanWindowDefaultsAndOverride(t *testing.T) {
	year, err := ParseAcademicYear("2024-2025")
	require.NoError(t, err)

	for _, s := range []Semester{SemesterOne, SemesterTwo} {
		w := ScanWindow(year, s, Options{})
		assert.Equal(t, Date(2025, time.January, 30), w.Start)
		assert.Equal(t, Date(2025, time.May, 30), w.End)
	}

	w := ScanWindow(year, SemesterOne, Options{
		ScanStart: MonthDay{Month: time.February, Day: 1},
		ScanEnd:   MonthDay{Month: time.June, Day: 15},
	})
	assert.Equal(t, Date(2025, time.February, 1), w.Start)
	assert.Equal(t, Date(2025, time.June, 15), w.End)
}

func TestParseMonthDay(t *testing.T) {
	md, err := ParseMonthDay("01-30")
	require.NoError(t, err)
	assert.Equal(t, MonthDay{Month: time.January, Day: 30}, md)

	_, err = ParseMonthDay("13-01")
	require.Error(t, err)
	_, err = ParseMonthDay("0130")
	require.Error(t, err)
}

func TestParseDateRange(t *testing.T) {
	r, err := ParseDateRange("2025-02-24..2025-02-28")
	require.NoError(t, err)
	assert.Equal(t, Date(2025, time.February, 24), r.Start)
	assert.Equal(t, Date(2025, time.February, 28), r.End)

	_, err = ParseDateRange("2025-02-28..2025-02-24")
	require.ErrorIs(t, err, ErrMalformedDateRange)
	_, err = ParseDateRange("2025-02-24")
	require.Error(t, err)
}
