package models

import "time"

// ScheduleEntry is one scheduled teaching assignment flattened with its
// module and track.
type ScheduleEntry struct {
	ID                 string    `db:"id" json:"id"`
	TeacherID          string    `db:"teacher_id" json:"teacher_id"`
	AcademicYearID     string    `db:"academic_year_id" json:"academic_year_id"`
	DateStart          time.Time `db:"date_start" json:"date_start"`
	DateEnd            time.Time `db:"date_end" json:"date_end"`
	Hours              int       `db:"hours" json:"hours"`
	ModuleName         string    `db:"module_name" json:"module_name"`
	ModuleKind         string    `db:"module_kind" json:"module_kind"`
	IsCommonCurriculum bool      `db:"is_common_curriculum" json:"is_common_curriculum"`
	TrackName          *string   `db:"track_name" json:"track_name,omitempty"`
}
