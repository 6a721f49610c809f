package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eduwaly/eduwaly-api/internal/models"
	"github.com/eduwaly/eduwaly-api/internal/service"
	appErrors "github.com/eduwaly/eduwaly-api/pkg/errors"
	"github.com/eduwaly/eduwaly-api/pkg/response"
)

type teacherService interface {
	List(ctx context.Context, query service.TeacherQuery) ([]models.Teacher, *models.Pagination, error)
}

// TeacherHandler serves the teacher roster.
type TeacherHandler struct {
	teachers teacherService
}

// NewTeacherHandler constructs a new TeacherHandler.
func NewTeacherHandler(teachers teacherService) *TeacherHandler {
	return &TeacherHandler{teachers: teachers}
}

// List godoc
// @Summary List teachers
// @Tags Teachers
// @Produce json
// @Param search query string false "Search by name or email"
// @Param active query bool false "Filter by active status"
// @Param employment_kind query string false "PERMANENT or CONTRACT"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Param sort_by query string false "family_name, given_name, employment_kind or created_at"
// @Param sort_order query string false "asc or desc"
// @Success 200 {object} response.Envelope
// @Router /teachers [get]
func (h *TeacherHandler) List(c *gin.Context) {
	var query service.TeacherQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
		return
	}
	teachers, pagination, err := h.teachers.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teachers, pagination)
}
