package models

import "time"

// AcademicYear is a school year labelled "YYYY-YYYY".
type AcademicYear struct {
	ID        string    `db:"id" json:"id"`
	Label     string    `db:"label" json:"label"`
	IsCurrent bool      `db:"is_current" json:"is_current"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
