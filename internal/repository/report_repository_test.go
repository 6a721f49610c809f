package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduwaly/eduwaly-api/internal/models"
)

var reportColumnNames = []string{"id", "type", "params", "status", "progress", "result_url", "created_by", "created_at", "finished_at", "error_message"}

func TestReportRepositoryCreateAndGet(t *testing.T) {
	db, mock := newRepoMock(t)
	repo := NewReportRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO report_jobs")).
		WithArgs(sqlmock.AnyArg(), "workload", sqlmock.AnyArg(), "QUEUED", 0, nil, "user-1", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	job := &models.ReportJob{
		Type:      models.ReportTypeWorkload,
		Params:    models.ReportJobParams{TeacherID: "t1", Semester: "S1", Format: models.ReportFormatPDF},
		CreatedBy: "user-1",
	}
	require.NoError(t, repo.Create(context.Background(), job))
	require.NotEmpty(t, job.ID)

	rows := sqlmock.NewRows(reportColumnNames).
		AddRow(job.ID, "workload", `{"teacherId":"t1","semester":"S1","format":"pdf"}`, "QUEUED", 0, nil, "user-1", time.Now(), nil, nil)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + reportJobColumns + " FROM report_jobs WHERE id = $1")).
		WithArgs(job.ID).
		WillReturnRows(rows)

	fetched, err := repo.GetByID(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, "t1", fetched.Params.TeacherID)
	assert.Equal(t, models.ReportFormatPDF, fetched.Params.Format)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepositoryGetByIDNotFound(t *testing.T) {
	db, mock := newRepoMock(t)
	repo := NewReportRepository(db)
	mock.ExpectQuery("FROM report_jobs WHERE id").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "nope")
	require.ErrorIs(t, err, sql.ErrNoRows)
}

func TestReportRepositoryUpdate(t *testing.T) {
	db, mock := newRepoMock(t)
	repo := NewReportRepository(db)

	now := time.Now()
	status := models.ReportStatusFinished
	progress := 100
	result := "/api/v1/export/token"
	mock.ExpectExec(regexp.QuoteMeta("UPDATE report_jobs SET status = $1, progress = $2, result_url = $3, finished_at = $4 WHERE id = $5")).
		WithArgs(status, progress, result, now, "job-1").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Update(context.Background(), "job-1", UpdateReportJobParams{Status: &status, Progress: &progress, ResultURL: &result, FinishedAt: &now})
	require.NoError(t, err)
	require.NoError(t, repo.Update(context.Background(), "job-1", UpdateReportJobParams{}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepositoryCleanupQueries(t *testing.T) {
	db, mock := newRepoMock(t)
	repo := NewReportRepository(db)

	cutoff := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE status = 'FINISHED' AND result_url IS NOT NULL AND finished_at < $1")).
		WithArgs(cutoff, 50).
		WillReturnRows(sqlmock.NewRows(reportColumnNames).
			AddRow("job-1", "workload", `{}`, "FINISHED", 100, "/api/v1/export/x", "user-1", cutoff, cutoff, nil))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE report_jobs SET result_url = NULL WHERE id = $1")).
		WithArgs("job-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	jobs, err := repo.ListFinishedBefore(context.Background(), cutoff, 0)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	require.NoError(t, repo.ClearResult(context.Background(), jobs[0].ID))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepositoryListQueued(t *testing.T) {
	db, mock := newRepoMock(t)
	repo := NewReportRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE status = 'QUEUED' ORDER BY created_at ASC LIMIT $1")).
		WithArgs(20).
		WillReturnRows(sqlmock.NewRows(reportColumnNames))

	jobs, err := repo.ListQueued(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, jobs)
}
