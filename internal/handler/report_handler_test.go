package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduwaly/eduwaly-api/internal/dto"
	"github.com/eduwaly/eduwaly-api/internal/models"
	"github.com/eduwaly/eduwaly-api/internal/service"
	appErrors "github.com/eduwaly/eduwaly-api/pkg/errors"
)

type reportServiceMock struct {
	created  dto.WorkloadReportRequest
	actor    *models.JWTClaims
	status   *dto.ReportStatusResponse
	download *service.ReportDownload
	err      error
}

func (m *reportServiceMock) CreateJob(ctx context.Context, req dto.WorkloadReportRequest, actor *models.JWTClaims) (*dto.ReportJobResponse, error) {
	m.created, m.actor = req, actor
	if m.err != nil {
		return nil, m.err
	}
	return &dto.ReportJobResponse{ID: "job-1", Status: models.ReportStatusQueued}, nil
}

func (m *reportServiceMock) GetStatus(ctx context.Context, id string, actor *models.JWTClaims) (*dto.ReportStatusResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.status, nil
}

func (m *reportServiceMock) ResolveDownload(ctx context.Context, token string) (*service.ReportDownload, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.download, nil
}

func TestReportHandlerGenerateWorkload(t *testing.T) {
	svc := &reportServiceMock{}
	h := NewReportHandler(svc)
	payload, _ := json.Marshal(dto.WorkloadReportRequest{TeacherID: "t-1", Semester: "S1", Format: models.ReportFormatPDF})
	c, w := newGinContext(http.MethodPost, "/reports/workload", payload)
	withClaims(c, teacherClaims)

	h.GenerateWorkload(c)

	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "t-1", svc.created.TeacherID)
	assert.Equal(t, teacherClaims, svc.actor)
	assert.Contains(t, w.Body.String(), "job-1")
}

func TestReportHandlerGenerateWorkloadRequiresClaims(t *testing.T) {
	h := NewReportHandler(&reportServiceMock{})
	c, w := newGinContext(http.MethodPost, "/reports/workload", []byte(`{}`))

	h.GenerateWorkload(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestReportHandlerGenerateWorkloadInvalidBody(t *testing.T) {
	h := NewReportHandler(&reportServiceMock{})
	c, w := newGinContext(http.MethodPost, "/reports/workload", []byte(`invalid`))
	withClaims(c, adminClaims)

	h.GenerateWorkload(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReportHandlerStatus(t *testing.T) {
	url := "/api/v1/export/token"
	h := NewReportHandler(&reportServiceMock{status: &dto.ReportStatusResponse{ID: "job-1", Status: models.ReportStatusFinished, Progress: 100, ResultURL: &url}})
	c, w := newGinContext(http.MethodGet, "/reports/status/job-1", nil)
	c.Params = gin.Params{{Key: "id", Value: "job-1"}}
	withClaims(c, adminClaims)

	h.ReportStatus(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "FINISHED")
	assert.Contains(t, w.Body.String(), url)
}

func TestReportHandlerDownload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "workload.csv")
	require.NoError(t, os.WriteFile(path, []byte("Semaine;Lundi\n"), 0o600))
	file, err := os.Open(path)
	require.NoError(t, err)

	h := NewReportHandler(&reportServiceMock{download: &service.ReportDownload{
		File:      file,
		Filename:  "emploi_du_temps_awa_S1_2024-2025.csv",
		Format:    models.ReportFormatCSV,
		ExpiresAt: time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC),
	}})
	c, w := newGinContext(http.MethodGet, "/export/token", nil)
	c.Params = gin.Params{{Key: "token", Value: "token"}}

	h.DownloadReport(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Semaine;Lundi\n", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Disposition"), "emploi_du_temps_awa_S1_2024-2025.csv")
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
}

func TestReportHandlerDownloadForbidden(t *testing.T) {
	h := NewReportHandler(&reportServiceMock{err: appErrors.Clone(appErrors.ErrForbidden, "download link expired")})
	c, w := newGinContext(http.MethodGet, "/export/bad", nil)
	c.Params = gin.Params{{Key: "token", Value: "bad"}}

	h.DownloadReport(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
