package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/skyrates/skyrates_backend/internal/core/ports/services"
)

// RequireAdmin ensures the authenticated user holds the admin role.
// Must run after AuthMiddleware.
func RequireAdmin(userSvc portssvc.UserSvcFacade) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		userID, ok := GetUserIDFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		user, err := userSvc.GetUserByID(c.Request.Context(), userID)
		if err != nil {
			logger.Warn("Failed to load user for admin check", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		if !user.IsAdmin() {
			logger.Warn("Admin access denied")
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}

		c.Next()
	}
}

// RequirePremium ensures the authenticated user may use premium features.
// Subscription state is read fresh on every request so a cancellation
// processed by a billing webhook takes effect immediately.
func RequirePremium(userSvc portssvc.UserSvcFacade) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		userID, ok := GetUserIDFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		user, err := userSvc.GetUserByID(c.Request.Context(), userID)
		if err != nil {
			logger.Warn("Failed to load user for subscription check", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		if !user.HasPremiumAccess() {
			logger.Info("Premium access denied")
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "An active premium subscription is required"})
			return
		}

		c.Next()
	}
}
