package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-tracker-api/internal/constants"
	apierrors "github.com/yukikurage/task-tracker-api/internal/errors"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/services"
)

// RequireAuth authenticates the request from its bearer token and binds the
// resolved identity to the context. The binding is set once here and read-only
// for everything downstream.
func RequireAuth(tokens *services.TokenService, auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		userID, err := tokens.Verify(parts[1])
		if err != nil {
			apierrors.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		// The token may outlive the user it was issued for
		user, err := auth.GetUser(userID)
		if err != nil {
			if errors.Is(err, services.ErrUserNotFound) {
				apierrors.Unauthorized(c, "")
			} else {
				apierrors.InternalError(c, "Failed to resolve user")
			}
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, user.ID)
		c.Set(constants.ContextKeyUserRole, user.Role)
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	switch v := userID.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}

// GetUserRole retrieves the current user role from context
func GetUserRole(c *gin.Context) (models.Role, bool) {
	role, exists := c.Get(constants.ContextKeyUserRole)
	if !exists {
		return "", false
	}

	switch v := role.(type) {
	case models.Role:
		return v, true
	case string:
		return models.Role(v), true
	default:
		return "", false
	}
}
