package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/eduwaly/eduwaly-api/internal/dto"
	"github.com/eduwaly/eduwaly-api/internal/models"
	"github.com/eduwaly/eduwaly-api/internal/repository"
	appErrors "github.com/eduwaly/eduwaly-api/pkg/errors"
	"github.com/eduwaly/eduwaly-api/pkg/jobs"
)

type reportRepoStub struct {
	jobs    map[string]*models.ReportJob
	cleared []string
}

func newReportRepoStub() *reportRepoStub {
	return &reportRepoStub{jobs: map[string]*models.ReportJob{}}
}

func (r *reportRepoStub) Create(ctx context.Context, job *models.ReportJob) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	r.jobs[job.ID] = job
	return nil
}

func (r *reportRepoStub) GetByID(ctx context.Context, id string) (*models.ReportJob, error) {
	job, ok := r.jobs[id]
	if !ok {
		return nil, fmt.Errorf("get report job: %w", sql.ErrNoRows)
	}
	return job, nil
}

func (r *reportRepoStub) Update(ctx context.Context, id string, params repository.UpdateReportJobParams) error {
	job, ok := r.jobs[id]
	if !ok {
		return sql.ErrNoRows
	}
	if params.Status != nil {
		job.Status = *params.Status
	}
	if params.Progress != nil {
		job.Progress = *params.Progress
	}
	if params.ResultURL != nil {
		job.ResultURL = params.ResultURL
	}
	if params.ErrorMessage != nil {
		job.ErrorMessage = params.ErrorMessage
	}
	if params.FinishedAt != nil {
		job.FinishedAt = params.FinishedAt
	}
	return nil
}

func (r *reportRepoStub) ClearResult(ctx context.Context, id string) error {
	if job, ok := r.jobs[id]; ok {
		job.ResultURL = nil
	}
	r.cleared = append(r.cleared, id)
	return nil
}

func (r *reportRepoStub) ListQueued(ctx context.Context, limit int) ([]models.ReportJob, error) {
	var queued []models.ReportJob
	for _, job := range r.jobs {
		if job.Status == models.ReportStatusQueued {
			queued = append(queued, *job)
		}
	}
	return queued, nil
}

func (r *reportRepoStub) ListFinishedBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.ReportJob, error) {
	var out []models.ReportJob
	for _, job := range r.jobs {
		if job.Status == models.ReportStatusFinished && job.ResultURL != nil && job.FinishedAt != nil && job.FinishedAt.Before(cutoff) {
			out = append(out, *job)
		}
	}
	return out, nil
}

type queueStub struct {
	jobs []jobs.Job
	err  error
}

func (q *queueStub) Enqueue(job jobs.Job) error {
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, job)
	return nil
}

func newReportServiceForTest(t *testing.T) (*ReportService, *reportRepoStub, *queueStub, *ExportService) {
	t.Helper()
	repo := newReportRepoStub()
	queue := &queueStub{}
	exportSvc := newExportServiceForTest(t, &documentSourceStub{})
	svc := NewReportService(repo, queue, exportSvc, nil, nil, zap.NewNop(), ReportServiceConfig{
		ResultTTL:       time.Hour,
		CleanupInterval: time.Hour,
	})
	return svc, repo, queue, exportSvc
}

var (
	adminClaims   = &models.JWTClaims{UserID: "admin", Role: models.RoleAdmin}
	teacherClaims = &models.JWTClaims{UserID: "user-t1", Role: models.RoleTeacher, TeacherID: "t-1"}
)

func TestReportServiceCreateJob(t *testing.T) {
	svc, repo, queue, _ := newReportServiceForTest(t)
	resp, err := svc.CreateJob(context.Background(), dto.WorkloadReportRequest{
		TeacherID: "t-1",
		Semester:  "s1",
		Format:    "PDF",
	}, adminClaims)
	require.NoError(t, err)
	require.NotEmpty(t, resp.ID)
	require.Len(t, queue.jobs, 1)
	assert.Equal(t, models.ReportStatusQueued, resp.Status)

	stored := repo.jobs[resp.ID]
	require.NotNil(t, stored)
	assert.Equal(t, models.ReportTypeWorkload, stored.Type)
	assert.Equal(t, "S1", stored.Params.Semester)
	assert.Equal(t, models.ReportFormatPDF, stored.Params.Format)
	assert.Equal(t, "admin", stored.CreatedBy)
}

func TestReportServiceCreateJobValidation(t *testing.T) {
	svc, _, queue, _ := newReportServiceForTest(t)

	_, err := svc.CreateJob(context.Background(), dto.WorkloadReportRequest{TeacherID: "t-1", Format: "docx"}, adminClaims)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.CreateJob(context.Background(), dto.WorkloadReportRequest{TeacherID: "t-1", Semester: "S3", Format: "csv"}, adminClaims)
	require.Error(t, err)
	assert.Empty(t, queue.jobs)
}

func TestReportServiceCreateJobTeacherScope(t *testing.T) {
	svc, _, queue, _ := newReportServiceForTest(t)

	_, err := svc.CreateJob(context.Background(), dto.WorkloadReportRequest{TeacherID: "t-2", Format: "csv"}, teacherClaims)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	_, err = svc.CreateJob(context.Background(), dto.WorkloadReportRequest{TeacherID: "t-1", Format: "csv"}, teacherClaims)
	require.NoError(t, err)
	assert.Len(t, queue.jobs, 1)
}

func TestReportServiceCreateJobEnqueueFailure(t *testing.T) {
	svc, repo, queue, _ := newReportServiceForTest(t)
	queue.err = jobs.ErrQueueStopped

	_, err := svc.CreateJob(context.Background(), dto.WorkloadReportRequest{TeacherID: "t-1", Format: "csv"}, adminClaims)
	require.Error(t, err)
	require.Len(t, repo.jobs, 1)
	for _, job := range repo.jobs {
		assert.Equal(t, models.ReportStatusFailed, job.Status)
	}
}

func TestReportServiceGetStatus(t *testing.T) {
	svc, repo, _, _ := newReportServiceForTest(t)
	repo.jobs["job-1"] = &models.ReportJob{
		ID:        "job-1",
		Type:      models.ReportTypeWorkload,
		Params:    models.ReportJobParams{TeacherID: "t-1", Format: models.ReportFormatCSV},
		Status:    models.ReportStatusFinished,
		Progress:  100,
		CreatedBy: "admin",
	}

	resp, err := svc.GetStatus(context.Background(), "job-1", adminClaims)
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusFinished, resp.Status)
	assert.Equal(t, 100, resp.Progress)

	_, err = svc.GetStatus(context.Background(), "job-1", teacherClaims)
	assert.ErrorIs(t, err, appErrors.ErrForbidden)

	_, err = svc.GetStatus(context.Background(), "missing", adminClaims)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func finishedJob(t *testing.T, repo *reportRepoStub, exportSvc *ExportService, id string, finishedAt time.Time) *ExportResult {
	t.Helper()
	job := &models.ReportJob{
		ID:        id,
		Type:      models.ReportTypeWorkload,
		Params:    models.ReportJobParams{TeacherID: "t-1", Semester: "S1", Format: models.ReportFormatCSV},
		Status:    models.ReportStatusFinished,
		Progress:  100,
		CreatedBy: "admin",
	}
	repo.jobs[id] = job
	result, err := exportSvc.Generate(context.Background(), job)
	require.NoError(t, err)
	job.ResultURL = &result.URL
	job.FinishedAt = &finishedAt
	return result
}

func TestReportServiceResolveDownload(t *testing.T) {
	svc, repo, _, exportSvc := newReportServiceForTest(t)
	result := finishedJob(t, repo, exportSvc, "job-download", time.Now())

	download, err := svc.ResolveDownload(context.Background(), result.Token)
	require.NoError(t, err)
	defer download.File.Close()
	assert.Equal(t, result.RelativePath, download.Filename)
	assert.Equal(t, models.ReportFormatCSV, download.Format)

	body, err := io.ReadAll(download.File)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Semaine")
}

func TestReportServiceResolveDownloadRejectsBadTokens(t *testing.T) {
	svc, repo, _, exportSvc := newReportServiceForTest(t)
	result := finishedJob(t, repo, exportSvc, "job-download", time.Now())

	_, err := svc.ResolveDownload(context.Background(), "garbage")
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	repo.jobs["job-download"].Status = models.ReportStatusProcessing
	_, err = svc.ResolveDownload(context.Background(), result.Token)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestReportServiceCleanupExpired(t *testing.T) {
	svc, repo, _, exportSvc := newReportServiceForTest(t)
	old := finishedJob(t, repo, exportSvc, "job-old", time.Now().Add(-2*time.Hour))
	finishedJob(t, repo, exportSvc, "job-new", time.Now())

	svc.CleanupExpired(context.Background())

	assert.Equal(t, []string{"job-old"}, repo.cleared)
	assert.Nil(t, repo.jobs["job-old"].ResultURL)
	assert.NotNil(t, repo.jobs["job-new"].ResultURL)
	_, err := exportSvc.Open(old.RelativePath)
	assert.Error(t, err)
}

func TestReportServiceRecoverPendingJobs(t *testing.T) {
	svc, repo, queue, _ := newReportServiceForTest(t)
	repo.jobs["q-1"] = &models.ReportJob{ID: "q-1", Type: models.ReportTypeWorkload, Status: models.ReportStatusQueued}
	repo.jobs["f-1"] = &models.ReportJob{ID: "f-1", Type: models.ReportTypeWorkload, Status: models.ReportStatusFinished}

	svc.RecoverPendingJobs(context.Background())
	require.Len(t, queue.jobs, 1)
	assert.Equal(t, "q-1", queue.jobs[0].ID)
}

func TestReportServiceMarkExhausted(t *testing.T) {
	svc, repo, _, _ := newReportServiceForTest(t)
	repo.jobs["job-1"] = &models.ReportJob{ID: "job-1", Status: models.ReportStatusQueued}

	svc.MarkExhausted(context.Background(), jobs.Job{ID: "job-1"}, errors.New("disk full"))
	assert.Equal(t, models.ReportStatusFailed, repo.jobs["job-1"].Status)
	require.NotNil(t, repo.jobs["job-1"].ErrorMessage)
	assert.Equal(t, appErrors.ErrReportFailed.Message, *repo.jobs["job-1"].ErrorMessage)
}

type exportStub struct {
	result *ExportResult
	err    error
}

func (e exportStub) Generate(ctx context.Context, job *models.ReportJob) (*ExportResult, error) {
	if e.err != nil {
		return nil, e.err
	}
	return e.result, nil
}

func queuedRepo() *reportRepoStub {
	return &reportRepoStub{jobs: map[string]*models.ReportJob{
		"job-1": {
			ID:        "job-1",
			Type:      models.ReportTypeWorkload,
			Params:    models.ReportJobParams{TeacherID: "t-1", Format: models.ReportFormatCSV},
			Status:    models.ReportStatusQueued,
			CreatedBy: "admin",
		},
	}}
}

func TestReportWorkerHandleSuccess(t *testing.T) {
	repo := queuedRepo()
	worker := NewReportWorker(repo, exportStub{result: &ExportResult{URL: "/api/v1/export/token"}}, nil, 3, zap.NewNop())

	require.NoError(t, worker.Handle(context.Background(), jobs.Job{ID: "job-1"}))
	job := repo.jobs["job-1"]
	assert.Equal(t, models.ReportStatusFinished, job.Status)
	assert.Equal(t, 100, job.Progress)
	require.NotNil(t, job.ResultURL)
	assert.Equal(t, "/api/v1/export/token", *job.ResultURL)
}

func TestReportWorkerHandleRetriesTransientFailures(t *testing.T) {
	repo := queuedRepo()
	worker := NewReportWorker(repo, exportStub{err: errors.New("boom")}, nil, 2, zap.NewNop())

	err := worker.Handle(context.Background(), jobs.Job{ID: "job-1", Attempt: 0})
	require.Error(t, err)
	assert.Equal(t, models.ReportStatusQueued, repo.jobs["job-1"].Status)

	err = worker.Handle(context.Background(), jobs.Job{ID: "job-1", Attempt: 2})
	require.Error(t, err)
	assert.Equal(t, models.ReportStatusFailed, repo.jobs["job-1"].Status)
}

func TestReportWorkerHandleClientErrorFailsImmediately(t *testing.T) {
	repo := queuedRepo()
	worker := NewReportWorker(repo, exportStub{err: appErrors.ErrTeacherNotFound}, nil, 3, zap.NewNop())

	require.NoError(t, worker.Handle(context.Background(), jobs.Job{ID: "job-1"}))
	job := repo.jobs["job-1"]
	assert.Equal(t, models.ReportStatusFailed, job.Status)
	require.NotNil(t, job.ErrorMessage)
	assert.Equal(t, appErrors.ErrTeacherNotFound.Message, *job.ErrorMessage)
}

func TestReportWorkerServerErrorKeepsCauseOutOfStatus(t *testing.T) {
	repo := queuedRepo()
	cause := appErrors.Wrap(errors.New(`pq: password authentication failed for user "eduwaly"`),
		appErrors.ErrReportFailed.Code, appErrors.ErrReportFailed.Status, appErrors.ErrReportFailed.Message)
	worker := NewReportWorker(repo, exportStub{err: cause}, nil, 0, zap.NewNop())

	require.Error(t, worker.Handle(context.Background(), jobs.Job{ID: "job-1"}))

	svc := NewReportService(repo, &queueStub{}, nil, nil, nil, zap.NewNop(), ReportServiceConfig{})
	status, err := svc.GetStatus(context.Background(), "job-1", adminClaims)
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusFailed, status.Status)
	require.NotNil(t, status.Error)
	assert.Equal(t, "report generation failed", *status.Error)
	assert.NotContains(t, *status.Error, "pq:")
}

func TestReportWorkerRetryKeepsCauseOutOfStatus(t *testing.T) {
	repo := queuedRepo()
	worker := NewReportWorker(repo, exportStub{err: errors.New("dial tcp 10.0.0.3:5432: connection refused")}, nil, 3, zap.NewNop())

	require.Error(t, worker.Handle(context.Background(), jobs.Job{ID: "job-1"}))
	job := repo.jobs["job-1"]
	assert.Equal(t, models.ReportStatusQueued, job.Status)
	require.NotNil(t, job.ErrorMessage)
	assert.Equal(t, appErrors.ErrReportFailed.Message, *job.ErrorMessage)
}
