package dto

import "github.com/eduwaly/eduwaly-api/internal/models"

// WorkloadReportRequest captures the POST /reports/workload payload.
type WorkloadReportRequest struct {
	TeacherID      string              `json:"teacherId" validate:"required"`
	Semester       string              `json:"semester" validate:"omitempty,oneof=S1 S2 s1 s2"`
	AcademicYearID string              `json:"academicYearId"`
	Format         models.ReportFormat `json:"format" validate:"required,oneof=csv pdf xlsx ics"`
}

// ReportJobResponse is returned after enqueueing a report.
type ReportJobResponse struct {
	ID       string              `json:"id"`
	Status   models.ReportStatus `json:"status"`
	Progress int                 `json:"progress"`
}

// ReportStatusResponse exposes job progress metadata.
type ReportStatusResponse struct {
	ID        string              `json:"id"`
	Status    models.ReportStatus `json:"status"`
	Progress  int                 `json:"progress"`
	ResultURL *string             `json:"resultUrl,omitempty"`
	Error     *string             `json:"error,omitempty"`
}
