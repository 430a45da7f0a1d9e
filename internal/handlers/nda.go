// internal/handlers/nda.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ynstek/yns-backend/internal/i18n"
	"github.com/ynstek/yns-backend/internal/services"
	"github.com/ynstek/yns-backend/internal/utils"
)

type NDAHandler struct {
	ndaService *services.NDAService
}

func NewNDAHandler(ndaService *services.NDAService) *NDAHandler {
	return &NDAHandler{ndaService: ndaService}
}

// POST /nda/request
func (h *NDAHandler) RequestNDA(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	sess, exists := utils.GetSessionFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	request, err := h.ndaService.Request(sess)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyNDARequested),
		"request": request,
	})
}

// GET /nda/status
// Returns the caller's most recent NDA request. Having no request at
// all is a normal state for new users, reported as status null rather
// than a 404.
func (h *NDAHandler) GetNDAStatus(c *gin.Context) {
	sess, exists := utils.GetSessionFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	request, err := h.ndaService.Latest(sess)
	if err != nil {
		var notFound *services.NotFoundError
		if errors.As(err, &notFound) {
			utils.SuccessResponse(c, gin.H{"request": nil})
			return
		}
		writeServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"request": request})
}

// GET /pdk/download
// Redirects to a one-hour signed URL for the PDK package. The caller's
// newest NDA request must be APPROVED.
func (h *NDAHandler) DownloadPDK(c *gin.Context) {
	sess, exists := utils.GetSessionFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	url, err := h.ndaService.DownloadURL(sess)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.Redirect(http.StatusSeeOther, url)
}
