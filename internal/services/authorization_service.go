// internal/services/authorization_service.go
package services

import (
	"github.com/ynstek/yns-backend/internal/models"
)

// AuthorizationService holds the access policy in one place so it can
// be tested without HTTP transport. Staff membership comes from the
// session's role claim, never from comparing email addresses.
type AuthorizationService struct{}

func NewAuthorizationService() *AuthorizationService {
	return &AuthorizationService{}
}

func (s *AuthorizationService) CanViewAdminRecords(sess models.Session) bool {
	return sess.IsStaff()
}

func (s *AuthorizationService) CanApproveNDA(sess models.Session) bool {
	return sess.IsStaff()
}

// CanAccessApplication allows the owner and staff.
func (s *AuthorizationService) CanAccessApplication(sess models.Session, app *models.Application) bool {
	return sess.IsStaff() || app.UserID == sess.UserID
}
