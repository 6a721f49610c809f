package models

import "time"

// Teacher is a member of the teaching staff whose workload is reported.
// EmploymentKind is stored verbatim so unexpected values reach the workload
// policy instead of failing at scan time.
type Teacher struct {
	ID             string    `db:"id" json:"id"`
	FamilyName     string    `db:"family_name" json:"family_name"`
	GivenName      string    `db:"given_name" json:"given_name"`
	Title          string    `db:"title" json:"title"`
	EmploymentKind string    `db:"employment_kind" json:"employment_kind"`
	AcademicGrade  string    `db:"academic_grade" json:"academic_grade"`
	Email          *string   `db:"email" json:"email,omitempty"`
	Active         bool      `db:"active" json:"active"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// TeacherFilter captures filtering options for listing teachers.
type TeacherFilter struct {
	Search         string
	Active         *bool
	EmploymentKind string
	Page           int
	PageSize       int
	SortBy         string
	SortOrder      string
}
