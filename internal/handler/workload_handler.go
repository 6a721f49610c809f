package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/eduwaly/eduwaly-api/internal/dto"
	"github.com/eduwaly/eduwaly-api/internal/middleware"
	"github.com/eduwaly/eduwaly-api/internal/models"
	"github.com/eduwaly/eduwaly-api/internal/service"
	appErrors "github.com/eduwaly/eduwaly-api/pkg/errors"
	"github.com/eduwaly/eduwaly-api/pkg/response"
)

type workloadService interface {
	TeacherReport(ctx context.Context, teacherID, semester, yearID string) (*dto.WorkloadReport, error)
	AnnualSummary(ctx context.Context, teacherID, yearID string) (*dto.AnnualSummary, error)
	Overview(ctx context.Context, semester, yearID string) (*dto.WorkloadOverview, error)
	InvalidateTeacher(ctx context.Context, teacherID string) error
}

type workloadRenderer interface {
	Render(ctx context.Context, params models.ReportJobParams) (*service.RenderedExport, error)
}

// WorkloadHandler serves teacher workload timetables and totals.
type WorkloadHandler struct {
	workload workloadService
	exporter workloadRenderer
}

// NewWorkloadHandler constructs a WorkloadHandler.
func NewWorkloadHandler(workload workloadService, exporter workloadRenderer) *WorkloadHandler {
	return &WorkloadHandler{workload: workload, exporter: exporter}
}

// TeacherWorkload godoc
// @Summary Weekly workload of a teacher
// @Description Week-by-week timetable with dispensed, due and overtime hours for one semester
// @Tags Workload
// @Produce json
// @Param id path string true "Teacher ID"
// @Param semester query string false "S1 or S2 (default S2)"
// @Param yearId query string false "Academic year ID (default current)"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /teachers/{id}/workload [get]
func (h *WorkloadHandler) TeacherWorkload(c *gin.Context) {
	var query dto.WorkloadQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
		return
	}
	report, err := h.workload.TeacherReport(c.Request.Context(), c.Param("id"), query.Semester, query.AcademicYearID)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, report.CacheHit)
	response.JSON(c, http.StatusOK, report, nil, middleware.ExtractMeta(c))
}

// ExportWorkload godoc
// @Summary Download the workload sheet
// @Description Renders the weekly timetable with its footer as CSV, PDF or XLSX, or the semester entries as an iCalendar feed
// @Tags Workload
// @Produce octet-stream
// @Param id path string true "Teacher ID"
// @Param semester query string false "S1 or S2 (default S2)"
// @Param yearId query string false "Academic year ID (default current)"
// @Param format query string true "csv, pdf, xlsx or ics"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /teachers/{id}/workload/export [get]
func (h *WorkloadHandler) ExportWorkload(c *gin.Context) {
	var query dto.WorkloadQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
		return
	}
	format := models.ReportFormat(strings.ToLower(query.Format))
	if !format.Valid() {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "format must be csv, pdf, xlsx or ics"))
		return
	}
	rendered, err := h.exporter.Render(c.Request.Context(), models.ReportJobParams{
		TeacherID:      c.Param("id"),
		Semester:       query.Semester,
		AcademicYearID: query.AcademicYearID,
		Format:         format,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, rendered.Filename, rendered.ContentType, rendered.Data)
}

// AnnualWorkload godoc
// @Summary Annual workload totals
// @Description Both semesters against the semester quota and the year against the annual quota
// @Tags Workload
// @Produce json
// @Param id path string true "Teacher ID"
// @Param yearId query string false "Academic year ID (default current)"
// @Success 200 {object} response.Envelope
// @Router /teachers/{id}/workload/annual [get]
func (h *WorkloadHandler) AnnualWorkload(c *gin.Context) {
	summary, err := h.workload.AnnualSummary(c.Request.Context(), c.Param("id"), c.Query("yearId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// Overview godoc
// @Summary Department workload overview
// @Description Semester totals of every active teacher, highest overtime first
// @Tags Workload
// @Produce json
// @Param semester query string false "S1 or S2 (default S2)"
// @Param yearId query string false "Academic year ID (default current)"
// @Success 200 {object} response.Envelope
// @Router /workload/overview [get]
func (h *WorkloadHandler) Overview(c *gin.Context) {
	overview, err := h.workload.Overview(c.Request.Context(), c.Query("semester"), c.Query("yearId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, overview, nil)
}

// InvalidateWorkloadCache godoc
// @Summary Drop cached workload reports of a teacher
// @Description Evicts every cached semester report of the teacher so the next request recomputes it
// @Tags Workload
// @Param id path string true "Teacher ID"
// @Success 204
// @Failure 500 {object} response.Envelope
// @Router /teachers/{id}/workload/cache [delete]
func (h *WorkloadHandler) InvalidateWorkloadCache(c *gin.Context) {
	if err := h.workload.InvalidateTeacher(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to invalidate workload cache"))
		return
	}
	response.NoContent(c)
}
