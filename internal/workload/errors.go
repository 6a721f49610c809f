package workload

import "errors"

var (
	// ErrUnknownEmploymentKind is returned when a teacher's employment kind has no due-hours entry.
	ErrUnknownEmploymentKind = errors.New("unknown employment kind")
	// ErrMalformedDateRange flags an entry whose end date precedes its start date.
	ErrMalformedDateRange = errors.New("malformed date range")
	// ErrInvalidAcademicYear is returned when a label is not in the YYYY-YYYY form.
	ErrInvalidAcademicYear = errors.New("invalid academic year label")
	// ErrInvalidSemester is returned for semester values other than S1/S2.
	ErrInvalidSemester = errors.New("invalid semester")
)

// EntryError records an entry rejected during validation.
type EntryError struct {
	EntryID string
	Err     error
}

func (e EntryError) Error() string {
	return e.EntryID + ": " + e.Err.Error()
}

func (e EntryError) Unwrap() error {
	return e.Err
}
