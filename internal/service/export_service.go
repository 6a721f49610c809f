package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/eduwaly/eduwaly-api/internal/dto"
	"github.com/eduwaly/eduwaly-api/internal/models"
	appErrors "github.com/eduwaly/eduwaly-api/pkg/errors"
	"github.com/eduwaly/eduwaly-api/pkg/export"
	"github.com/eduwaly/eduwaly-api/pkg/storage"
)

type workloadDocumentSource interface {
	Document(ctx context.Context, teacherID, semester, yearID string) (export.Document, *dto.WorkloadReport, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

// DocumentRenderer turns a workload document into file bytes.
type DocumentRenderer interface {
	RenderDocument(doc export.Document) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// RenderedExport is a rendered workload file ready to be served or stored.
type RenderedExport struct {
	Filename    string
	Format      models.ReportFormat
	ContentType string
	Data        []byte
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string
	Token        string
	URL          string
	Format       models.ReportFormat
	ExpiresAt    time.Time
}

// ExportService renders workload documents and persists them for signed download.
type ExportService struct {
	documents workloadDocumentSource
	storage   fileStorage
	renderers map[models.ReportFormat]DocumentRenderer
	signer    *storage.SignedURLSigner
	logger    *zap.Logger
	cfg       ExportConfig
	now       func() time.Time
}

// NewExportService constructs an ExportService with the CSV, PDF, XLSX and ICS renderers.
func NewExportService(documents workloadDocumentSource, store fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	return &ExportService{
		documents: documents,
		storage:   store,
		renderers: map[models.ReportFormat]DocumentRenderer{
			models.ReportFormatCSV:  export.NewCSVExporter(),
			models.ReportFormatPDF:  export.NewPDFExporter(),
			models.ReportFormatXLSX: export.NewXLSXExporter(),
			models.ReportFormatICS:  export.NewICSExporter(),
		},
		signer: signer,
		logger: logger,
		cfg:    cfg,
		now:    time.Now,
	}
}

// WithRenderer replaces the renderer used for format.
func (s *ExportService) WithRenderer(format models.ReportFormat, renderer DocumentRenderer) *ExportService {
	s.renderers[format] = renderer
	return s
}

// Render builds the workload document described by params and renders it in memory.
func (s *ExportService) Render(ctx context.Context, params models.ReportJobParams) (*RenderedExport, error) {
	renderer, ok := s.renderers[params.Format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported format %q", params.Format))
	}
	doc, report, err := s.documents.Document(ctx, params.TeacherID, params.Semester, params.AcademicYearID)
	if err != nil {
		return nil, err
	}
	data, err := renderer.RenderDocument(doc)
	if err != nil {
		return nil, s.reportFailed(fmt.Errorf("render %s: %w", params.Format, err), "render", params.TeacherID)
	}
	return &RenderedExport{
		Filename:    downloadFilename(report, params.Format),
		Format:      params.Format,
		ContentType: params.Format.ContentType(),
		Data:        data,
	}, nil
}

// Generate renders the job's workload document, stores it and signs a download URL.
func (s *ExportService) Generate(ctx context.Context, job *models.ReportJob) (*ExportResult, error) {
	if job == nil {
		return nil, fmt.Errorf("job nil")
	}
	if job.Type != models.ReportTypeWorkload {
		return nil, fmt.Errorf("unsupported report type %s", job.Type)
	}
	rendered, err := s.Render(ctx, job.Params)
	if err != nil {
		return nil, err
	}

	relPath, err := s.storage.Save(s.storageFilename(job), rendered.Data)
	if err != nil {
		return nil, s.reportFailed(err, "store", job.Params.TeacherID)
	}

	token, expiresAt, err := s.signer.Sign(job.ID, relPath)
	if err != nil {
		return nil, s.reportFailed(err, "sign", job.Params.TeacherID)
	}
	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}

	s.logger.Sugar().Infow("workload export stored", "job_id", job.ID, "path", relPath, "bytes", len(rendered.Data))
	return &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          fmt.Sprintf("%s/export/%s", prefix, token),
		Format:       job.Params.Format,
		ExpiresAt:    expiresAt,
	}, nil
}

// VerifyToken validates a download token.
func (s *ExportService) VerifyToken(token string, allowExpired bool) (storage.SignedToken, error) {
	return s.signer.Verify(token, allowExpired)
}

// Open returns a handle to the stored file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Delete removes a stored export file.
func (s *ExportService) Delete(relPath string) error {
	return s.storage.Delete(relPath)
}

// Cleanup removes files older than ttl (defaults to configured ResultTTL when ttl <= 0).
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

func (s *ExportService) reportFailed(err error, op, teacherID string) error {
	s.logger.Sugar().Errorw("workload export failed", "op", op, "teacher_id", teacherID, "error", err)
	return appErrors.Wrap(err, appErrors.ErrReportFailed.Code, appErrors.ErrReportFailed.Status, appErrors.ErrReportFailed.Message)
}

func (s *ExportService) storageFilename(job *models.ReportJob) string {
	timestamp := s.now().UTC().Format("20060102_150405")
	semester := job.Params.Semester
	if semester == "" {
		semester = "S2"
	}
	return fmt.Sprintf("%s_%s_%s_%s.%s",
		job.Type, sanitizeFilename(job.Params.TeacherID), strings.ToUpper(semester), timestamp, job.Params.Format)
}

func downloadFilename(report *dto.WorkloadReport, format models.ReportFormat) string {
	if report == nil {
		return "emploi_du_temps." + string(format)
	}
	return fmt.Sprintf("emploi_du_temps_%s_%s_%s.%s",
		sanitizeFilename(report.Teacher.DisplayName), report.Semester, sanitizeFilename(report.AcademicYear), format)
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_", "\"", "")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}
