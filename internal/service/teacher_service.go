package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/eduwaly/eduwaly-api/internal/models"
	appErrors "github.com/eduwaly/eduwaly-api/pkg/errors"
)

type teacherRepository interface {
	List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, int, error)
	FindByID(ctx context.Context, id string) (*models.Teacher, error)
}

// TeacherQuery is the validated query string of the roster listing.
type TeacherQuery struct {
	Search         string `form:"search" validate:"omitempty,max=100"`
	Active         *bool  `form:"active"`
	EmploymentKind string `form:"employment_kind" validate:"omitempty,oneof=PERMANENT CONTRACT permanent contract"`
	Page           int    `form:"page" validate:"omitempty,min=1"`
	PageSize       int    `form:"page_size" validate:"omitempty,min=1,max=100"`
	SortBy         string `form:"sort_by" validate:"omitempty,oneof=family_name given_name employment_kind created_at"`
	SortOrder      string `form:"sort_order" validate:"omitempty,oneof=asc desc ASC DESC"`
}

// TeacherService exposes the read-only teacher roster.
type TeacherService struct {
	repo      teacherRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTeacherService constructs a TeacherService.
func NewTeacherService(repo teacherRepository, validate *validator.Validate, logger *zap.Logger) *TeacherService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherService{repo: repo, validator: validate, logger: logger}
}

// List returns teachers plus pagination data.
func (s *TeacherService) List(ctx context.Context, query TeacherQuery) ([]models.Teacher, *models.Pagination, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid teacher query")
	}
	filter := models.TeacherFilter{
		Search:         strings.TrimSpace(query.Search),
		Active:         query.Active,
		EmploymentKind: strings.ToUpper(query.EmploymentKind),
		Page:           query.Page,
		PageSize:       query.PageSize,
		SortBy:         query.SortBy,
		SortOrder:      query.SortOrder,
	}
	teachers, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teachers")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return teachers, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns a teacher by id.
func (s *TeacherService) Get(ctx context.Context, id string) (*models.Teacher, error) {
	teacher, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrTeacherNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}
	return teacher, nil
}
