// internal/handlers/shuttle.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ynstek/yns-backend/internal/services"
	"github.com/ynstek/yns-backend/internal/utils"
)

type ShuttleHandler struct {
	shuttleService *services.ShuttleService
}

func NewShuttleHandler(shuttleService *services.ShuttleService) *ShuttleHandler {
	return &ShuttleHandler{shuttleService: shuttleService}
}

// GET /shuttles
func (h *ShuttleHandler) GetShuttles(c *gin.Context) {
	shuttles, err := h.shuttleService.ListShuttles()
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}
	utils.SuccessResponse(c, shuttles)
}

// GET /shuttles/:id
// When called with a session, the response includes the caller's
// existing application for the shuttle so the frontend can resume an
// interrupted upload.
func (h *ShuttleHandler) GetShuttle(c *gin.Context) {
	shuttleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid shuttle ID", nil)
		return
	}

	sess, hasSession := utils.GetSessionFromContext(c)
	if !hasSession {
		shuttle, err := h.shuttleService.GetShuttle(shuttleID)
		if err != nil {
			writeServiceError(c, err)
			return
		}
		utils.SuccessResponse(c, gin.H{"shuttle": shuttle})
		return
	}

	shuttle, application, err := h.shuttleService.GetShuttleForUser(shuttleID, sess)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"shuttle":     shuttle,
		"application": application,
	})
}
