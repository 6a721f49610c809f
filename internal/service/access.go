package service

import "github.com/eduwaly/eduwaly-api/internal/models"

// CanAccessTeacher reports whether claims may read the workload of teacherID.
// Administrators see every teacher; teachers only see themselves.
func CanAccessTeacher(claims *models.JWTClaims, teacherID string) bool {
	if claims == nil {
		return false
	}
	switch claims.Role {
	case models.RoleSuperAdmin, models.RoleAdmin:
		return true
	case models.RoleTeacher:
		return claims.TeacherID != "" && claims.TeacherID == teacherID
	default:
		return false
	}
}
