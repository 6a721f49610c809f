package service

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/eduwaly/eduwaly-api/internal/dto"
	"github.com/eduwaly/eduwaly-api/internal/models"
	"github.com/eduwaly/eduwaly-api/internal/repository"
	appErrors "github.com/eduwaly/eduwaly-api/pkg/errors"
	"github.com/eduwaly/eduwaly-api/pkg/jobs"
)

type reportJobStore interface {
	Create(ctx context.Context, job *models.ReportJob) error
	GetByID(ctx context.Context, id string) (*models.ReportJob, error)
	Update(ctx context.Context, id string, params repository.UpdateReportJobParams) error
	ClearResult(ctx context.Context, id string) error
	ListQueued(ctx context.Context, limit int) ([]models.ReportJob, error)
	ListFinishedBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.ReportJob, error)
}

type jobDispatcher interface {
	Enqueue(job jobs.Job) error
}

type exportGenerator interface {
	Generate(ctx context.Context, job *models.ReportJob) (*ExportResult, error)
}

// ReportService orchestrates the lifecycle of asynchronous workload exports.
type ReportService struct {
	repo      reportJobStore
	queue     jobDispatcher
	exporter  *ExportService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       ReportServiceConfig
}

// ReportServiceConfig governs queue recovery and cleanup.
type ReportServiceConfig struct {
	ResultTTL       time.Duration
	CleanupInterval time.Duration
}

// ReportDownload aggregates resolved download data.
type ReportDownload struct {
	File      *os.File
	Filename  string
	Format    models.ReportFormat
	ExpiresAt time.Time
}

// NewReportService constructs the report service.
func NewReportService(repo reportJobStore, queue jobDispatcher, exporter *ExportService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, cfg ReportServiceConfig) *ReportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	return &ReportService{
		repo:      repo,
		queue:     queue,
		exporter:  exporter,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
	}
}

// CreateJob validates the request, persists a job and enqueues it.
func (s *ReportService) CreateJob(ctx context.Context, req dto.WorkloadReportRequest, actor *models.JWTClaims) (*dto.ReportJobResponse, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	req.Format = models.ReportFormat(strings.ToLower(string(req.Format)))
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid workload report request")
	}
	if !CanAccessTeacher(actor, req.TeacherID) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "teachers may only export their own workload")
	}

	job := &models.ReportJob{
		Type: models.ReportTypeWorkload,
		Params: models.ReportJobParams{
			TeacherID:      req.TeacherID,
			Semester:       strings.ToUpper(req.Semester),
			AcademicYearID: req.AcademicYearID,
			Format:         req.Format,
		},
		Status:    models.ReportStatusQueued,
		CreatedBy: actor.UserID,
	}
	if err := s.repo.Create(ctx, job); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create report job")
	}
	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: string(job.Type), Enqueued: time.Now().UTC()}); err != nil {
		msg := "failed to enqueue job"
		s.markFailed(ctx, job.ID, msg)
		s.metrics.ObserveReportJob(string(job.Params.Format), string(models.ReportStatusFailed))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue report job")
	}
	s.metrics.ObserveReportJob(string(job.Params.Format), string(models.ReportStatusQueued))
	return &dto.ReportJobResponse{ID: job.ID, Status: job.Status, Progress: job.Progress}, nil
}

// GetStatus exposes job metadata. Non-admin users only see their own jobs.
func (s *ReportService) GetStatus(ctx context.Context, id string, actor *models.JWTClaims) (*dto.ReportStatusResponse, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	job, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role == models.RoleTeacher && job.CreatedBy != actor.UserID {
		return nil, appErrors.ErrForbidden
	}
	resp := &dto.ReportStatusResponse{
		ID:        job.ID,
		Status:    job.Status,
		Progress:  job.Progress,
		ResultURL: job.ResultURL,
	}
	if job.ErrorMessage != nil && *job.ErrorMessage != "" {
		resp.Error = job.ErrorMessage
	}
	return resp, nil
}

// ResolveDownload validates a signed token and opens the stored export file.
func (s *ReportService) ResolveDownload(ctx context.Context, token string) (*ReportDownload, error) {
	signed, err := s.exporter.VerifyToken(token, false)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "invalid or expired download token")
	}
	job, err := s.load(ctx, signed.JobID)
	if err != nil {
		return nil, err
	}
	if job.ResultURL == nil || extractToken(*job.ResultURL) != token {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "token mismatch")
	}
	if job.Status != models.ReportStatusFinished {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "report not ready")
	}
	file, err := s.exporter.Open(signed.Path)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open export file")
	}
	return &ReportDownload{
		File:      file,
		Filename:  downloadName(job, signed.Path),
		Format:    job.Params.Format,
		ExpiresAt: signed.ExpiresAt,
	}, nil
}

// MarkExhausted records a job whose retries ran out. It is wired as the
// queue's OnExhausted callback.
func (s *ReportService) MarkExhausted(ctx context.Context, job jobs.Job, cause error) {
	s.logger.Sugar().Errorw("workload export retries exhausted", "job_id", job.ID, "attempt", job.Attempt, "error", cause)
	s.markFailed(ctx, job.ID, appErrors.ErrReportFailed.Message)
}

// RecoverPendingJobs replays queued jobs after a process restart.
func (s *ReportService) RecoverPendingJobs(ctx context.Context) {
	pending, err := s.repo.ListQueued(ctx, 50)
	if err != nil {
		s.logger.Sugar().Warnw("failed to recover queued report jobs", "error", err)
		return
	}
	for _, job := range pending {
		if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: string(job.Type), Enqueued: time.Now().UTC()}); err != nil {
			s.logger.Sugar().Warnw("failed to requeue pending job", "job_id", job.ID, "error", err)
		}
	}
	if len(pending) > 0 {
		s.logger.Sugar().Infow("recovered queued report jobs", "count", len(pending))
	}
}

// StartCleanup boots a goroutine that purges expired exports periodically.
func (s *ReportService) StartCleanup(ctx context.Context) {
	if s.cfg.CleanupInterval <= 0 {
		return
	}
	ticker := time.NewTicker(s.cfg.CleanupInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.CleanupExpired(ctx)
			}
		}
	}()
}

// CleanupExpired deletes files of finished jobs older than the result TTL
// and clears their download URL.
func (s *ReportService) CleanupExpired(ctx context.Context) {
	cutoff := time.Now().Add(-s.cfg.ResultTTL)
	const batch = 100
	for {
		expired, err := s.repo.ListFinishedBefore(ctx, cutoff, batch)
		if err != nil {
			s.logger.Sugar().Warnw("cleanup list failed", "error", err)
			return
		}
		for _, job := range expired {
			if job.ResultURL != nil {
				if signed, err := s.exporter.VerifyToken(extractToken(*job.ResultURL), true); err == nil {
					if err := s.exporter.Delete(signed.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
						s.logger.Sugar().Warnw("cleanup delete failed", "job_id", job.ID, "error", err)
					}
				}
			}
			if err := s.repo.ClearResult(ctx, job.ID); err != nil {
				s.logger.Sugar().Warnw("cleanup clear failed", "job_id", job.ID, "error", err)
				return
			}
		}
		if len(expired) < batch {
			break
		}
	}
	if _, err := s.exporter.Cleanup(s.cfg.ResultTTL); err != nil {
		s.logger.Sugar().Warnw("filesystem cleanup failed", "error", err)
	}
}

func (s *ReportService) load(ctx context.Context, id string) (*models.ReportJob, error) {
	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "report job not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load report job")
	}
	return job, nil
}

func (s *ReportService) markFailed(ctx context.Context, id, msg string) {
	failed := models.ReportStatusFailed
	progress := 100
	now := time.Now().UTC()
	if err := s.repo.Update(ctx, id, repository.UpdateReportJobParams{
		Status:       &failed,
		Progress:     &progress,
		ErrorMessage: &msg,
		FinishedAt:   &now,
	}); err != nil {
		s.logger.Sugar().Warnw("failed to mark job failed", "job_id", id, "error", err)
	}
}

func downloadName(job *models.ReportJob, relPath string) string {
	base := relPath
	if idx := strings.LastIndex(base, "/"); idx >= 0 {
		base = base[idx+1:]
	}
	if base == "" {
		return "emploi_du_temps." + string(job.Params.Format)
	}
	return base
}

func extractToken(url string) string {
	if url == "" {
		return ""
	}
	parts := strings.Split(url, "/")
	return parts[len(parts)-1]
}

// ReportWorker bridges queue jobs to ExportService.
type ReportWorker struct {
	repo       reportJobStore
	exporter   exportGenerator
	metrics    *MetricsService
	logger     *zap.Logger
	maxRetries int
}

// NewReportWorker constructs a worker. maxRetries must match the queue's MaxRetries.
func NewReportWorker(repo reportJobStore, exporter exportGenerator, metrics *MetricsService, maxRetries int, logger *zap.Logger) *ReportWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &ReportWorker{
		repo:       repo,
		exporter:   exporter,
		metrics:    metrics,
		logger:     logger,
		maxRetries: maxRetries,
	}
}

// Handle processes a queue job. Client errors such as an unknown teacher fail
// the job immediately; other errors are returned so the queue retries.
func (w *ReportWorker) Handle(ctx context.Context, job jobs.Job) error {
	record, err := w.repo.GetByID(ctx, job.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			w.logger.Sugar().Warnw("report job vanished", "job_id", job.ID)
			return nil
		}
		return err
	}
	processing := models.ReportStatusProcessing
	progress := 10
	if err := w.repo.Update(ctx, job.ID, repository.UpdateReportJobParams{
		Status:   &processing,
		Progress: &progress,
	}); err != nil {
		return err
	}

	result, err := w.exporter.Generate(ctx, record)
	if err != nil {
		return w.fail(ctx, job, record, err)
	}

	finished := models.ReportStatusFinished
	progress = 100
	now := time.Now().UTC()
	url := result.URL
	clear := ""
	if err := w.repo.Update(ctx, job.ID, repository.UpdateReportJobParams{
		Status:       &finished,
		Progress:     &progress,
		ResultURL:    &url,
		ErrorMessage: &clear,
		FinishedAt:   &now,
	}); err != nil {
		w.logger.Sugar().Warnw("failed to mark job finished", "job_id", job.ID, "error", err)
		return err
	}
	w.metrics.ObserveReportJob(string(record.Params.Format), string(models.ReportStatusFinished))
	return nil
}

func (w *ReportWorker) fail(ctx context.Context, job jobs.Job, record *models.ReportJob, cause error) error {
	// Only client errors carry a message safe to show; server causes stay in the log.
	msg := appErrors.ErrReportFailed.Message
	permanent := false
	var appErr *appErrors.Error
	if errors.As(cause, &appErr) && appErr.Status < 500 {
		permanent = true
		msg = appErr.Message
	}

	if permanent || job.Attempt >= w.maxRetries {
		failed := models.ReportStatusFailed
		progress := 100
		now := time.Now().UTC()
		if err := w.repo.Update(ctx, job.ID, repository.UpdateReportJobParams{
			Status:       &failed,
			Progress:     &progress,
			ErrorMessage: &msg,
			FinishedAt:   &now,
		}); err != nil {
			w.logger.Sugar().Warnw("failed to mark job failed", "job_id", job.ID, "error", err)
		}
		w.metrics.ObserveReportJob(string(record.Params.Format), string(models.ReportStatusFailed))
		if permanent {
			w.logger.Sugar().Warnw("workload export rejected", "job_id", job.ID, "teacher_id", record.Params.TeacherID, "error", cause)
			return nil
		}
		w.logger.Sugar().Errorw("workload export failed", "job_id", job.ID, "teacher_id", record.Params.TeacherID, "attempt", job.Attempt, "error", cause)
		return cause
	}

	w.logger.Sugar().Warnw("workload export failed, retrying", "job_id", job.ID, "attempt", job.Attempt, "error", cause)

	queued := models.ReportStatusQueued
	reset := 0
	if err := w.repo.Update(ctx, job.ID, repository.UpdateReportJobParams{
		Status:       &queued,
		Progress:     &reset,
		ErrorMessage: &msg,
	}); err != nil {
		w.logger.Sugar().Warnw("failed to mark job queued", "job_id", job.ID, "error", err)
	}
	return cause
}
