// Package bootstrap assembles repositories and services from configuration so
// the API server and the command line tool share one object graph.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/eduwaly/eduwaly-api/internal/repository"
	"github.com/eduwaly/eduwaly-api/internal/service"
	"github.com/eduwaly/eduwaly-api/pkg/config"
	"github.com/eduwaly/eduwaly-api/pkg/jobs"
	"github.com/eduwaly/eduwaly-api/pkg/storage"
)

// Services groups the long-lived services of the application.
type Services struct {
	Metrics       *service.MetricsService
	Cache         *service.CacheService
	Auth          *service.AuthService
	Teachers      *service.TeacherService
	Configuration *service.ConfigurationService
	Workload      *service.WorkloadService
	Export        *service.ExportService
	Reports       *service.ReportService

	queue *jobs.Queue
}

// New wires every service. redisClient may be nil when caching is disabled.
func New(cfg *config.Config, db *sqlx.DB, redisClient *redis.Client, logger *zap.Logger) (*Services, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	validate := validator.New()

	teacherRepo := repository.NewTeacherRepository(db)
	entryRepo := repository.NewScheduleEntryRepository(db)
	yearRepo := repository.NewAcademicYearRepository(db)
	configRepo := repository.NewConfigurationRepository(db)
	userRepo := repository.NewUserRepository(db)
	reportRepo := repository.NewReportRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient)

	metrics := service.NewMetricsService()
	cache := service.NewCacheService(cacheRepo, metrics, cfg.Workload.CacheTTL, logger, cfg.Workload.CacheEnabled && cacheRepo.Enabled())

	workloadCfg, err := service.WorkloadConfigFromSettings(cfg.Workload)
	if err != nil {
		return nil, fmt.Errorf("workload settings: %w", err)
	}

	configuration := service.NewConfigurationService(configRepo, validate, logger)
	workload := service.NewWorkloadService(teacherRepo, entryRepo, yearRepo, configuration, cache, metrics, workloadCfg, logger)

	store, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
	if err != nil {
		return nil, fmt.Errorf("report storage: %w", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Reports.SignedURLSecret, cfg.Reports.SignedURLTTL)
	exporter := service.NewExportService(workload, store, signer, service.ExportConfig{
		APIPrefix: cfg.APIPrefix,
		ResultTTL: cfg.Reports.SignedURLTTL,
	}, logger)

	worker := service.NewReportWorker(reportRepo, exporter, metrics, cfg.Reports.WorkerRetries, logger)
	var reports *service.ReportService
	queue := jobs.NewQueue("workload-reports", worker.Handle, jobs.QueueConfig{
		Workers:    cfg.Reports.WorkerConcurrency,
		MaxRetries: cfg.Reports.WorkerRetries,
		OnExhausted: func(ctx context.Context, job jobs.Job, cause error) {
			reports.MarkExhausted(ctx, job, cause)
		},
		Logger: logger,
	})
	reports = service.NewReportService(reportRepo, queue, exporter, metrics, validate, logger, service.ReportServiceConfig{
		ResultTTL:       cfg.Reports.SignedURLTTL,
		CleanupInterval: cfg.Reports.CleanupInterval,
	})

	return &Services{
		Metrics:       metrics,
		Cache:         cache,
		Auth:          service.NewAuthService(userRepo, validate, logger, service.AuthConfig{AccessTokenSecret: cfg.JWT.Secret, AccessTokenExpiry: cfg.JWT.Expiration, Issuer: cfg.JWT.Issuer}),
		Teachers:      service.NewTeacherService(teacherRepo, validate, logger),
		Configuration: configuration,
		Workload:      workload,
		Export:        exporter,
		Reports:       reports,
		queue:         queue,
	}, nil
}

// StartBackground starts the export worker pool, re-enqueues jobs left queued
// by a previous process and schedules file cleanup. It returns a stop func.
func (s *Services) StartBackground(ctx context.Context) func() {
	s.queue.Start(ctx)
	s.Reports.RecoverPendingJobs(ctx)
	s.Reports.StartCleanup(ctx)
	return s.queue.Stop
}
