package dto

import (
	"time"

	"github.com/eduwaly/eduwaly-api/internal/workload"
)

// Period is an inclusive civil-date range rendered as YYYY-MM-DD.
type Period struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// NewPeriod formats a workload date range.
func NewPeriod(r workload.DateRange) Period {
	return Period{Start: r.Start.Format("2006-01-02"), End: r.End.Format("2006-01-02")}
}

// TeacherSummary identifies the teacher a report is about.
type TeacherSummary struct {
	ID             string `json:"id"`
	DisplayName    string `json:"display_name"`
	EmploymentKind string `json:"employment_kind"`
	AcademicGrade  string `json:"academic_grade"`
}

// WorkloadReport is the weekly timetable and totals of one teacher for one semester.
type WorkloadReport struct {
	Teacher        TeacherSummary  `json:"teacher"`
	AcademicYear   string          `json:"academic_year"`
	AcademicYearID string          `json:"academic_year_id"`
	Semester       string          `json:"semester"`
	Bounds         Period          `json:"bounds"`
	Window         Period          `json:"window"`
	Table          workload.Table  `json:"table"`
	Totals         workload.Totals `json:"totals"`
	SkippedEntries []string        `json:"skipped_entries,omitempty"`
	GeneratedAt    time.Time       `json:"generated_at"`
	CacheHit       bool            `json:"-"`
}

// AnnualSummary reports both semesters and the year against the annual quota.
type AnnualSummary struct {
	Teacher        TeacherSummary  `json:"teacher"`
	AcademicYear   string          `json:"academic_year"`
	AcademicYearID string          `json:"academic_year_id"`
	FirstSemester  workload.Totals `json:"first_semester"`
	SecondSemester workload.Totals `json:"second_semester"`
	Annual         workload.Totals `json:"annual"`
}

// OverviewRow is one teacher's totals in the department overview.
type OverviewRow struct {
	Teacher TeacherSummary  `json:"teacher"`
	Totals  workload.Totals `json:"totals"`
	Error   string          `json:"error,omitempty"`
}

// WorkloadOverview lists every active teacher's totals for a semester.
type WorkloadOverview struct {
	AcademicYear   string        `json:"academic_year"`
	AcademicYearID string        `json:"academic_year_id"`
	Semester       string        `json:"semester"`
	Rows           []OverviewRow `json:"rows"`
	TotalOvertime  int           `json:"total_overtime_hours"`
}

// WorkloadQuery carries the query string of workload endpoints.
type WorkloadQuery struct {
	Semester       string `form:"semester"`
	AcademicYearID string `form:"yearId"`
	Format         string `form:"format"`
}
