package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eduwaly/eduwaly-api/internal/dto"
	"github.com/eduwaly/eduwaly-api/internal/models"
	appErrors "github.com/eduwaly/eduwaly-api/pkg/errors"
	"github.com/eduwaly/eduwaly-api/pkg/response"
)

type configurationService interface {
	Signatory(ctx context.Context) (models.SignatorySettings, error)
	UpdateSignatory(ctx context.Context, req dto.SignatoryRequest, actor *models.JWTClaims) (models.SignatorySettings, error)
}

// ConfigurationHandler manages the workload report signature settings.
type ConfigurationHandler struct {
	service configurationService
}

// NewConfigurationHandler constructs a ConfigurationHandler.
func NewConfigurationHandler(svc configurationService) *ConfigurationHandler {
	return &ConfigurationHandler{service: svc}
}

// GetSignatory godoc
// @Summary Get the report signatory
// @Tags Configuration
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /configuration/signatory [get]
func (h *ConfigurationHandler) GetSignatory(c *gin.Context) {
	settings, err := h.service.Signatory(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, settings, nil)
}

// UpdateSignatory godoc
// @Summary Update the report signatory
// @Tags Configuration
// @Accept json
// @Produce json
// @Param payload body dto.SignatoryRequest true "Signatory"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /configuration/signatory [put]
func (h *ConfigurationHandler) UpdateSignatory(c *gin.Context) {
	var req dto.SignatoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	settings, err := h.service.UpdateSignatory(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, settings, nil)
}
