package workload

import "time"

// EmploymentKind selects a teacher's contractual due-hours quota.
type EmploymentKind string

const (
	EmploymentPermanent EmploymentKind = "PERMANENT"
	EmploymentContract  EmploymentKind = "CONTRACT"
)

// Teacher carries the identity fields printed on a workload report.
type Teacher struct {
	FamilyName     string         `json:"family_name"`
	GivenName      string         `json:"given_name"`
	Title          string         `json:"title"`
	EmploymentKind EmploymentKind `json:"employment_kind"`
	AcademicGrade  string         `json:"academic_grade"`
}

// DisplayName joins the title, given and family names.
func (t Teacher) DisplayName() string {
	name := t.GivenName + " " + t.FamilyName
	if t.Title != "" {
		name = t.Title + " " + name
	}
	return name
}

// Entry is a validated scheduled teaching assignment.
type Entry struct {
	ID                 string    `json:"id"`
	DateStart          time.Time `json:"date_start"`
	DateEnd            time.Time `json:"date_end"`
	Hours              int       `json:"hours"`
	ModuleName         string    `json:"module_name"`
	ModuleKind         string    `json:"module_kind"`
	IsCommonCurriculum bool      `json:"is_common_curriculum"`
	TrackName          *string   `json:"track_name,omitempty"`
}

// Range returns the entry's inclusive date range.
func (e Entry) Range() DateRange {
	return DateRange{Start: e.DateStart, End: e.DateEnd}
}

// ValidateEntries normalises dates to civil days and splits out entries whose
// end precedes their start. Valid entries keep their input order.
func ValidateEntries(raw []Entry) ([]Entry, []EntryError) {
	valid := make([]Entry, 0, len(raw))
	var skipped []EntryError
	for _, e := range raw {
		e.DateStart = Truncate(e.DateStart)
		e.DateEnd = Truncate(e.DateEnd)
		if e.DateEnd.Before(e.DateStart) {
			skipped = append(skipped, EntryError{EntryID: e.ID, Err: ErrMalformedDateRange})
			continue
		}
		if e.Hours < 0 {
			e.Hours = 0
		}
		valid = append(valid, e)
	}
	return valid, skipped
}
