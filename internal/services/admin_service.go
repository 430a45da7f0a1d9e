// internal/services/admin_service.go
package services

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/ynstek/yns-backend/internal/models"
	"github.com/ynstek/yns-backend/internal/utils"
)

// AdminService backs the staff dashboard: cross-customer listings of
// applications and NDA requests, with filter and search.
type AdminService struct {
	db    *gorm.DB
	authz *AuthorizationService
}

func NewAdminService(db *gorm.DB, authz *AuthorizationService) *AdminService {
	return &AdminService{db: db, authz: authz}
}

// DashboardStats summarizes the portal for the admin landing page.
type DashboardStats struct {
	TotalApplications int64            `json:"total_applications"`
	ByStatus          map[string]int64 `json:"by_status"`
	PendingNDA        int64            `json:"pending_nda"`
	TotalUsers        int64            `json:"total_users"`
	OpenShuttles      int64            `json:"open_shuttles"`
}

// ListApplications returns all applications across customers, optionally
// filtered by status and searched by application ID, applicant email or
// shuttle process. Search is a case-insensitive substring match.
func (s *AdminService) ListApplications(sess models.Session, status string, params utils.PaginationParams) ([]models.Application, int64, error) {
	if !s.authz.CanViewAdminRecords(sess) {
		return nil, 0, &ForbiddenError{Reason: "staff role required"}
	}

	query := s.db.Model(&models.Application{}).
		Joins("JOIN users ON users.id = mpw_applications.user_id").
		Joins("JOIN mpw_shuttles ON mpw_shuttles.id = mpw_applications.shuttle_id").
		Preload("User").
		Preload("Shuttle")

	if status != "" {
		query = query.Where("mpw_applications.status = ?", status)
	}

	if params.Search != "" {
		term := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where(
			"LOWER(CAST(mpw_applications.id AS TEXT)) LIKE ? OR LOWER(users.email) LIKE ? OR LOWER(mpw_shuttles.process) LIKE ?",
			term, term, term,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count applications: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "status"}
	sortField := "mpw_applications.created_at"
	for _, field := range allowedSortFields {
		if field == params.Sort {
			sortField = "mpw_applications." + field
			break
		}
	}
	query = query.Order(sortField + " " + params.Order)
	query = utils.ApplyPagination(query, params)

	var applications []models.Application
	if err := query.Find(&applications).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch applications: %w", err)
	}

	return applications, total, nil
}

// ListNDARequests returns all NDA requests, optionally filtered by
// status, newest first.
func (s *AdminService) ListNDARequests(sess models.Session, status string, params utils.PaginationParams) ([]models.NDARequest, int64, error) {
	if !s.authz.CanViewAdminRecords(sess) {
		return nil, 0, &ForbiddenError{Reason: "staff role required"}
	}

	query := s.db.Model(&models.NDARequest{}).Preload("User")

	if status != "" {
		query = query.Where("status = ?", status)
	}

	if params.Search != "" {
		term := "%" + strings.ToLower(params.Search) + "%"
		query = query.Joins("JOIN users ON users.id = nda_requests.user_id").
			Where("LOWER(users.email) LIKE ?", term)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count nda requests: %w", err)
	}

	query = query.Order("nda_requests.created_at DESC")
	query = utils.ApplyPagination(query, params)

	var requests []models.NDARequest
	if err := query.Find(&requests).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch nda requests: %w", err)
	}

	return requests, total, nil
}

// GetDashboardStats aggregates counts for the admin landing page.
func (s *AdminService) GetDashboardStats(sess models.Session) (*DashboardStats, error) {
	if !s.authz.CanViewAdminRecords(sess) {
		return nil, &ForbiddenError{Reason: "staff role required"}
	}

	stats := &DashboardStats{ByStatus: make(map[string]int64)}

	if err := s.db.Model(&models.Application{}).Count(&stats.TotalApplications).Error; err != nil {
		return nil, fmt.Errorf("failed to count applications: %w", err)
	}

	type statusCount struct {
		Status string
		Count  int64
	}
	var counts []statusCount
	err := s.db.Model(&models.Application{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate statuses: %w", err)
	}
	for _, c := range counts {
		stats.ByStatus[c.Status] = c.Count
	}

	err = s.db.Model(&models.NDARequest{}).
		Where("status = ?", models.NDAStatusPending).
		Count(&stats.PendingNDA).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count pending nda requests: %w", err)
	}

	if err := s.db.Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	err = s.db.Model(&models.Shuttle{}).
		Where("tape_out_date > CURRENT_TIMESTAMP").
		Count(&stats.OpenShuttles).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count open shuttles: %w", err)
	}

	return stats, nil
}
