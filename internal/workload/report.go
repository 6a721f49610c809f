package workload

// TableHeader is the header row of the printed weekly timetable.
var TableHeader = []string{"Semaine", "Module1(VH)/Classe", "Module2(VH)/Classe"}

// Options carries calendar fixtures and quota policy into the pipeline.
type Options struct {
	// SpecialWeeks are always included in the week grid.
	SpecialWeeks []DateRange
	ScanStart    MonthDay
	ScanEnd      MonthDay
	// DueHours defaults to SemesterDueHours.
	DueHours              DueHoursTable
	LenientEmploymentKind bool
}

// ReportInput is everything one workload report is computed from.
type ReportInput struct {
	Teacher      Teacher
	Entries      []Entry
	AcademicYear string
	Semester     Semester
	Options      Options
}

// Table is a rendering-agnostic header plus rows.
type Table struct {
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

// Report is the computed weekly timetable and totals for one teacher and semester.
type Report struct {
	Teacher      Teacher      `json:"teacher"`
	AcademicYear AcademicYear `json:"academic_year"`
	Semester     Semester     `json:"semester"`
	Bounds       DateRange    `json:"bounds"`
	Window       DateRange    `json:"window"`
	Entries      []Entry      `json:"entries"`
	Rows         []WeekRow    `json:"rows"`
	Totals       Totals       `json:"totals"`
	Skipped      []EntryError `json:"-"`
}

// Table renders the header and one row per week bucket.
func (r *Report) Table() Table {
	rows := make([][]string, 0, len(r.Rows))
	for _, row := range r.Rows {
		rows = append(rows, row.Cells())
	}
	header := make([]string, len(TableHeader))
	copy(header, TableHeader)
	return Table{Header: header, Rows: rows}
}

// BuildReport runs validation, semester filtering, week bucketing, row
// assignment and totals. Malformed entries are reported in Skipped rather
// than failing the report.
func BuildReport(in ReportInput) (*Report, error) {
	year, err := ParseAcademicYear(in.AcademicYear)
	if err != nil {
		return nil, err
	}
	semester := in.Semester
	if semester == "" {
		semester = DefaultSemester
	}
	if semester != SemesterOne && semester != SemesterTwo {
		return nil, ErrInvalidSemester
	}
	table := in.Options.DueHours
	if table == nil {
		table = SemesterDueHours
	}

	valid, skipped := ValidateEntries(in.Entries)
	inSemester := FilterSemester(valid, semester)

	totals, err := computeTotals(inSemester, in.Teacher.EmploymentKind, table, in.Options.LenientEmploymentKind)
	if err != nil {
		return nil, err
	}

	window := ScanWindow(year, semester, in.Options)
	buckets := CollectWeekBuckets(window, inSemester, in.Options.SpecialWeeks)

	return &Report{
		Teacher:      in.Teacher,
		AcademicYear: year,
		Semester:     semester,
		Bounds:       ResolveSemesterBounds(year, semester),
		Window:       window,
		Entries:      inSemester,
		Rows:         BuildRows(buckets, inSemester),
		Totals:       totals,
		Skipped:      skipped,
	}, nil
}

// AnnualTotals sums every valid entry of the year against table (typically AnnualDueHours).
func AnnualTotals(teacher Teacher, entries []Entry, table DueHoursTable, lenient bool) (Totals, []EntryError, error) {
	valid, skipped := ValidateEntries(entries)
	totals, err := computeTotals(valid, teacher.EmploymentKind, table, lenient)
	if err != nil {
		return Totals{}, skipped, err
	}
	return totals, skipped, nil
}
