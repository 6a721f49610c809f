package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcademicYearRepositoryFindCurrent(t *testing.T) {
	db, mock := newRepoMock(t)
	repo := NewAcademicYearRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM academic_years WHERE is_current = TRUE")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "label", "is_current", "created_at"}).AddRow("y1", "2024-2025", true, time.Now()))

	year, err := repo.FindCurrent(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2024-2025", year.Label)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAcademicYearRepositoryFindByLabel(t *testing.T) {
	db, mock := newRepoMock(t)
	repo := NewAcademicYearRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM academic_years WHERE label = $1")).
		WithArgs("2023-2024").
		WillReturnRows(sqlmock.NewRows([]string{"id", "label", "is_current", "created_at"}).AddRow("y0", "2023-2024", false, time.Now()))

	year, err := repo.FindByLabel(context.Background(), "2023-2024")
	require.NoError(t, err)
	assert.Equal(t, "y0", year.ID)
	assert.False(t, year.IsCurrent)
}
