package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/eduwaly/eduwaly-api/internal/models"
)

const scheduleEntrySelect = `SELECT se.id, se.teacher_id, se.academic_year_id, se.date_start, se.date_end, se.hours,
       m.name AS module_name, m.kind AS module_kind, m.is_common_curriculum, t.name AS track_name
FROM schedule_entries se
JOIN modules m ON m.id = se.module_id
LEFT JOIN tracks t ON t.id = se.track_id`

// ScheduleEntryRepository reads scheduled teaching assignments joined with
// their module and track.
type ScheduleEntryRepository struct {
	db *sqlx.DB
}

// NewScheduleEntryRepository constructs the repository.
func NewScheduleEntryRepository(db *sqlx.DB) *ScheduleEntryRepository {
	return &ScheduleEntryRepository{db: db}
}

// ListByTeacher returns a teacher's entries for one academic year.
func (r *ScheduleEntryRepository) ListByTeacher(ctx context.Context, teacherID, academicYearID string) ([]models.ScheduleEntry, error) {
	query := scheduleEntrySelect + `
WHERE se.teacher_id = $1 AND se.academic_year_id = $2
ORDER BY se.date_start ASC, se.created_at ASC, se.id ASC`
	var entries []models.ScheduleEntry
	if err := r.db.SelectContext(ctx, &entries, query, teacherID, academicYearID); err != nil {
		return nil, fmt.Errorf("list schedule entries by teacher: %w", err)
	}
	return entries, nil
}

// ListByAcademicYear returns every entry of an academic year grouped by teacher.
func (r *ScheduleEntryRepository) ListByAcademicYear(ctx context.Context, academicYearID string) ([]models.ScheduleEntry, error) {
	query := scheduleEntrySelect + `
WHERE se.academic_year_id = $1
ORDER BY se.teacher_id ASC, se.date_start ASC, se.created_at ASC, se.id ASC`
	var entries []models.ScheduleEntry
	if err := r.db.SelectContext(ctx, &entries, query, academicYearID); err != nil {
		return nil, fmt.Errorf("list schedule entries by academic year: %w", err)
	}
	return entries, nil
}
