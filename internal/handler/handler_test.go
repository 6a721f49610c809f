package handler

import (
	"bytes"
	"net/http/httptest"

	"github.com/gin-gonic/gin"

	"github.com/eduwaly/eduwaly-api/internal/middleware"
	"github.com/eduwaly/eduwaly-api/internal/models"
)

func newGinContext(method, target string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.Request = req
	return c, w
}

func withClaims(c *gin.Context, claims *models.JWTClaims) {
	c.Set(middleware.ContextUserKey, claims)
}

var (
	adminClaims   = &models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin}
	teacherClaims = &models.JWTClaims{UserID: "user-7", Role: models.RoleTeacher, TeacherID: "t-1"}
)

