// internal/handlers/application.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ynstek/yns-backend/internal/i18n"
	"github.com/ynstek/yns-backend/internal/services"
	"github.com/ynstek/yns-backend/internal/utils"
)

type ApplicationHandler struct {
	applicationService *services.ApplicationService
}

func NewApplicationHandler(applicationService *services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{applicationService: applicationService}
}

// POST /shuttles/:id/upload
// Direct strategy: the GDS file arrives as multipart form data and is
// streamed through to object storage.
func (h *ApplicationHandler) UploadGDS(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	sess, exists := utils.GetSessionFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	shuttleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid shuttle ID", nil)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationRequired, "file"), nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileUploadFailed), nil)
		return
	}
	defer file.Close()

	application, err := h.applicationService.Upload(sess, shuttleID, fileHeader.Filename, fileHeader.Size, file)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":     i18n.T(lang, i18n.KeyApplicationUploaded),
		"application": application,
	})
}

// POST /shuttles/:id/upload-url
// Presigned strategy: returns a short-lived write URL; the client
// transfers the bytes itself and then calls Finalize.
func (h *ApplicationHandler) CreateUploadURL(c *gin.Context) {
	sess, exists := utils.GetSessionFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	shuttleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid shuttle ID", nil)
		return
	}

	var req struct {
		FileName string `json:"file_name" validate:"required,max=255"`
		Size     int64  `json:"size" validate:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	result, err := h.applicationService.CreateUploadURL(sess, shuttleID, req.FileName, req.Size)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, result)
}

// POST /applications/:id/finalize
func (h *ApplicationHandler) FinalizeUpload(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	sess, exists := utils.GetSessionFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	applicationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid application ID", nil)
		return
	}

	var req struct {
		Key string `json:"key" validate:"required,max=512"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	application, err := h.applicationService.Finalize(sess, applicationID, req.Key)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":     i18n.T(lang, i18n.KeyApplicationFinalized),
		"application": application,
	})
}

// GET /applications
func (h *ApplicationHandler) GetMyApplications(c *gin.Context) {
	sess, exists := utils.GetSessionFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	params := utils.GetPaginationParams(c)
	applications, total, err := h.applicationService.ListByUser(sess, params)
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	result := utils.CreatePaginationResult(applications, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /applications/:id
func (h *ApplicationHandler) GetApplication(c *gin.Context) {
	sess, exists := utils.GetSessionFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	applicationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid application ID", nil)
		return
	}

	application, err := h.applicationService.GetApplication(sess, applicationID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, application)
}
