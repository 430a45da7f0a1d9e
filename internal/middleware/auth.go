// internal/middleware/auth.go
package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/ynstek/yns-backend/internal/i18n"
	"github.com/ynstek/yns-backend/internal/models"
	"github.com/ynstek/yns-backend/internal/utils"

	"github.com/gin-gonic/gin"
)

// AuthRequired resolves the caller's session from the provider-issued
// bearer token and stores it in the request context. Handlers read the
// session once via utils.GetSessionFromContext and pass it down
// explicitly; no identity is read from ambient state after this point.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := c.GetHeader("Accept-Language")
		if lang == "" {
			lang = "en"
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": i18n.T(lang, i18n.KeyAuthRequired),
			})
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": i18n.T(lang, i18n.KeyAuthInvalidToken),
			})
			c.Abort()
			return
		}

		token := parts[1]
		claims, err := utils.ValidateJWT(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": i18n.T(lang, i18n.KeyAuthTokenExpired),
			})
			c.Abort()
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": i18n.T(lang, i18n.KeyAuthInvalidToken),
			})
			c.Abort()
			return
		}

		c.Set("session", models.Session{
			UserID: userID,
			Email:  claims.Email,
			Role:   models.UserRole(claims.Role),
		})
		c.Next()
	}
}

// StaffRequired gates the admin surface on the session's role claim.
func StaffRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := c.GetHeader("Accept-Language")
		if lang == "" {
			lang = "en"
		}

		sess, exists := utils.GetSessionFromContext(c)
		if !exists || !sess.IsStaff() {
			c.JSON(http.StatusForbidden, gin.H{
				"error": i18n.T(lang, i18n.KeyAdminAccessDenied),
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// OptionalAuth resolves a session when a valid token is present but
// lets anonymous requests through.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.Next()
			return
		}

		claims, err := utils.ValidateJWT(parts[1])
		if err != nil {
			c.Next()
			return
		}

		if userID, err := uuid.Parse(claims.UserID); err == nil {
			c.Set("session", models.Session{
				UserID: userID,
				Email:  claims.Email,
				Role:   models.UserRole(claims.Role),
			})
		}
		c.Next()
	}
}
