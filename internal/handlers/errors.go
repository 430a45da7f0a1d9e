// internal/handlers/errors.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/ynstek/yns-backend/internal/services"
	"github.com/ynstek/yns-backend/internal/utils"
)

// writeServiceError maps the service error taxonomy onto HTTP. The
// boundary between caller mistakes (4xx) and system faults (5xx/502)
// lives here, nowhere else.
func writeServiceError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	var forbiddenErr *services.ForbiddenError
	var notFoundErr *services.NotFoundError
	var transferErr *services.TransferError
	var persistenceErr *services.PersistenceError

	switch {
	case errors.As(err, &validationErr):
		utils.BadRequestResponse(c, validationErr.Reason, gin.H{"field": validationErr.Field})
	case errors.As(err, &forbiddenErr):
		utils.ForbiddenResponse(c, forbiddenErr.Reason)
	case errors.As(err, &notFoundErr):
		utils.NotFoundResponse(c, notFoundErr.Resource)
	case errors.As(err, &transferErr):
		utils.BadGatewayResponse(c, "")
	case errors.As(err, &persistenceErr):
		utils.InternalErrorResponse(c, "")
	default:
		utils.InternalErrorResponse(c, "")
	}
}
