package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/eduwaly/eduwaly-api/internal/models"
)

// AcademicYearRepository reads academic years.
type AcademicYearRepository struct {
	db *sqlx.DB
}

// NewAcademicYearRepository constructs the repository.
func NewAcademicYearRepository(db *sqlx.DB) *AcademicYearRepository {
	return &AcademicYearRepository{db: db}
}

// FindCurrent returns the year flagged current.
func (r *AcademicYearRepository) FindCurrent(ctx context.Context) (*models.AcademicYear, error) {
	const query = `SELECT id, label, is_current, created_at FROM academic_years WHERE is_current = TRUE LIMIT 1`
	var year models.AcademicYear
	if err := r.db.GetContext(ctx, &year, query); err != nil {
		return nil, err
	}
	return &year, nil
}

// FindByID fetches a year by id.
func (r *AcademicYearRepository) FindByID(ctx context.Context, id string) (*models.AcademicYear, error) {
	const query = `SELECT id, label, is_current, created_at FROM academic_years WHERE id = $1`
	var year models.AcademicYear
	if err := r.db.GetContext(ctx, &year, query, id); err != nil {
		return nil, err
	}
	return &year, nil
}

// FindByLabel fetches a year by its "YYYY-YYYY" label.
func (r *AcademicYearRepository) FindByLabel(ctx context.Context, label string) (*models.AcademicYear, error) {
	const query = `SELECT id, label, is_current, created_at FROM academic_years WHERE label = $1`
	var year models.AcademicYear
	if err := r.db.GetContext(ctx, &year, query, label); err != nil {
		return nil, err
	}
	return &year, nil
}
