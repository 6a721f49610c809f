package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduwaly/eduwaly-api/internal/dto"
	"github.com/eduwaly/eduwaly-api/internal/models"
	"github.com/eduwaly/eduwaly-api/internal/service"
	appErrors "github.com/eduwaly/eduwaly-api/pkg/errors"
)

type authServiceMock struct {
	err error
}

func (m *authServiceMock) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &models.LoginResponse{AccessToken: "token", User: models.UserInfo{Email: req.Email}}, nil
}

type configurationServiceMock struct {
	stored models.SignatorySettings
	actor  *models.JWTClaims
}

func (m *configurationServiceMock) Signatory(ctx context.Context) (models.SignatorySettings, error) {
	return m.stored, nil
}

func (m *configurationServiceMock) UpdateSignatory(ctx context.Context, req dto.SignatoryRequest, actor *models.JWTClaims) (models.SignatorySettings, error) {
	m.actor = actor
	m.stored = models.SignatorySettings{Name: req.Name, Grade: req.Grade, City: req.City}
	return m.stored, nil
}

type teacherServiceMock struct {
	query service.TeacherQuery
}

func (m *teacherServiceMock) List(ctx context.Context, query service.TeacherQuery) ([]models.Teacher, *models.Pagination, error) {
	m.query = query
	return []models.Teacher{{ID: "t-1"}}, &models.Pagination{Page: 1, PageSize: 20, TotalCount: 1}, nil
}

type pingerStub struct{ err error }

func (p pingerStub) PingContext(ctx context.Context) error { return p.err }

func TestAuthHandlerLogin(t *testing.T) {
	h := NewAuthHandler(&authServiceMock{})
	payload, _ := json.Marshal(models.LoginRequest{Email: "awa@eduwaly.sn", Password: "secret"})
	c, w := newGinContext(http.MethodPost, "/auth/login", payload)

	h.Login(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "token")
}

func TestAuthHandlerLoginInvalidCredentials(t *testing.T) {
	h := NewAuthHandler(&authServiceMock{err: appErrors.ErrInvalidCredentials})
	payload, _ := json.Marshal(models.LoginRequest{Email: "awa@eduwaly.sn", Password: "wrong"})
	c, w := newGinContext(http.MethodPost, "/auth/login", payload)

	h.Login(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandlerMe(t *testing.T) {
	h := NewAuthHandler(&authServiceMock{})
	c, w := newGinContext(http.MethodGet, "/auth/me", nil)
	withClaims(c, teacherClaims)

	h.Me(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"teacher_id":"t-1"`)

	c, w = newGinContext(http.MethodGet, "/auth/me", nil)
	h.Me(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestConfigurationHandlerSignatory(t *testing.T) {
	svc := &configurationServiceMock{}
	h := NewConfigurationHandler(svc)
	payload, _ := json.Marshal(dto.SignatoryRequest{Name: "Pr Moussa Diop", Grade: "Professeur titulaire", City: "Dakar"})
	c, w := newGinContext(http.MethodPut, "/configuration/signatory", payload)
	withClaims(c, adminClaims)

	h.UpdateSignatory(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, adminClaims, svc.actor)

	c, w = newGinContext(http.MethodGet, "/configuration/signatory", nil)
	h.GetSignatory(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Pr Moussa Diop")
}

func TestConfigurationHandlerSignatoryInvalidBody(t *testing.T) {
	h := NewConfigurationHandler(&configurationServiceMock{})
	c, w := newGinContext(http.MethodPut, "/configuration/signatory", []byte(`invalid`))
	withClaims(c, adminClaims)

	h.UpdateSignatory(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTeacherHandlerListBindsQuery(t *testing.T) {
	svc := &teacherServiceMock{}
	h := NewTeacherHandler(svc)
	c, w := newGinContext(http.MethodGet, "/teachers?search=ndiaye&employment_kind=PERMANENT&page=2&page_size=10", nil)

	h.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ndiaye", svc.query.Search)
	assert.Equal(t, "PERMANENT", svc.query.EmploymentKind)
	assert.Equal(t, 2, svc.query.Page)
	assert.Contains(t, w.Body.String(), `"pagination"`)
}

func TestMetricsHandlerReadyAndSummary(t *testing.T) {
	metrics := service.NewMetricsService()
	h := NewMetricsHandler(metrics, pingerStub{})

	c, w := newGinContext(http.MethodGet, "/ready", nil)
	h.Ready(c)
	assert.Equal(t, http.StatusOK, w.Code)

	h = NewMetricsHandler(metrics, pingerStub{err: errors.New("connection refused")})
	c, w = newGinContext(http.MethodGet, "/ready", nil)
	h.Ready(c)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	c, w = newGinContext(http.MethodGet, "/metrics/summary", nil)
	h.Summary(c)
	assert.Equal(t, http.StatusOK, w.Code)
}
