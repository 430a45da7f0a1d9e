// internal/handlers/admin.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ynstek/yns-backend/internal/i18n"
	"github.com/ynstek/yns-backend/internal/services"
	"github.com/ynstek/yns-backend/internal/utils"
)

type AdminHandler struct {
	adminService *services.AdminService
	ndaService   *services.NDAService
}

func NewAdminHandler(adminService *services.AdminService, ndaService *services.NDAService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		ndaService:   ndaService,
	}
}

// GET /admin/applications
// Cross-customer listing with ?status= filter and ?search= substring
// match over application ID, applicant email and shuttle process.
func (h *AdminHandler) GetApplications(c *gin.Context) {
	sess, exists := utils.GetSessionFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	params := utils.GetPaginationParams(c)
	status := c.Query("status")

	applications, total, err := h.adminService.ListApplications(sess, status, params)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	result := utils.CreatePaginationResult(applications, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /admin/nda
func (h *AdminHandler) GetNDARequests(c *gin.Context) {
	sess, exists := utils.GetSessionFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	params := utils.GetPaginationParams(c)
	status := c.Query("status")

	requests, total, err := h.adminService.ListNDARequests(sess, status, params)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	result := utils.CreatePaginationResult(requests, total, params)
	utils.PaginatedResponse(c, result)
}

// PUT /admin/nda/:id/approve
func (h *AdminHandler) ApproveNDA(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	sess, exists := utils.GetSessionFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid NDA request ID", nil)
		return
	}

	request, err := h.ndaService.Approve(sess, requestID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyNDAApproved),
		"request": request,
	})
}

// GET /admin/dashboard/stats
func (h *AdminHandler) GetDashboardStats(c *gin.Context) {
	sess, exists := utils.GetSessionFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	stats, err := h.adminService.GetDashboardStats(sess)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, stats)
}
