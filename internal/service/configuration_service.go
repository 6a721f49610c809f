package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/eduwaly/eduwaly-api/internal/dto"
	"github.com/eduwaly/eduwaly-api/internal/models"
	appErrors "github.com/eduwaly/eduwaly-api/pkg/errors"
)

type configurationRepository interface {
	ListByKeys(ctx context.Context, keys []string) ([]models.Configuration, error)
	BulkUpsert(ctx context.Context, cfgs []models.Configuration) error
}

var signatoryDescriptions = map[string]string{
	models.ConfigKeySignatoryName:  "Department head signing workload reports",
	models.ConfigKeySignatoryGrade: "Academic grade printed under the signature",
	models.ConfigKeySignatoryCity:  "City printed before the signature date",
}

// ConfigurationService reads and updates the settings backing the workload
// report signature block.
type ConfigurationService struct {
	repo      configurationRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewConfigurationService constructs a ConfigurationService.
func NewConfigurationService(repo configurationRepository, validate *validator.Validate, logger *zap.Logger) *ConfigurationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConfigurationService{repo: repo, validator: validate, logger: logger}
}

// Signatory returns the configured signature block. Missing keys are empty.
func (s *ConfigurationService) Signatory(ctx context.Context) (models.SignatorySettings, error) {
	rows, err := s.repo.ListByKeys(ctx, models.SignatoryKeys)
	if err != nil {
		return models.SignatorySettings{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load signatory settings")
	}
	var out models.SignatorySettings
	for _, row := range rows {
		switch row.Key {
		case models.ConfigKeySignatoryName:
			out.Name = row.Value
		case models.ConfigKeySignatoryGrade:
			out.Grade = row.Value
		case models.ConfigKeySignatoryCity:
			out.City = row.Value
		}
	}
	return out, nil
}

// UpdateSignatory validates and stores the signature block.
func (s *ConfigurationService) UpdateSignatory(ctx context.Context, req dto.SignatoryRequest, actor *models.JWTClaims) (models.SignatorySettings, error) {
	if actor == nil {
		return models.SignatorySettings{}, appErrors.ErrUnauthorized
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Grade = strings.TrimSpace(req.Grade)
	req.City = strings.TrimSpace(req.City)
	if err := s.validator.Struct(req); err != nil {
		return models.SignatorySettings{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid signatory payload")
	}

	values := map[string]string{
		models.ConfigKeySignatoryName:  req.Name,
		models.ConfigKeySignatoryGrade: req.Grade,
		models.ConfigKeySignatoryCity:  req.City,
	}
	rows := make([]models.Configuration, 0, len(models.SignatoryKeys))
	for _, key := range models.SignatoryKeys {
		rows = append(rows, models.Configuration{
			Key:         key,
			Value:       values[key],
			Type:        models.ConfigurationTypeString,
			Description: strPtr(signatoryDescriptions[key]),
			UpdatedBy:   strPtr(actor.UserID),
		})
	}
	if err := s.repo.BulkUpsert(ctx, rows); err != nil {
		return models.SignatorySettings{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update signatory settings")
	}
	s.logger.Sugar().Infow("signatory settings updated", "user_id", actor.UserID)
	return models.SignatorySettings{Name: req.Name, Grade: req.Grade, City: req.City}, nil
}

func strPtr(value string) *string {
	if value == "" {
		return nil
	}
	result := value
	return &result
}
