package middleware

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-tracker-api/internal/constants"
	"github.com/yukikurage/task-tracker-api/internal/database"
	apierrors "github.com/yukikurage/task-tracker-api/internal/errors"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"github.com/yukikurage/task-tracker-api/internal/services"
	"gorm.io/gorm"
)

// RequireTaskAccess checks that the current user may access the task in the
// URL. The existence check runs first (404 for a truly absent task), the
// ownership/admin check second (401 for an existing task the caller does not
// own).
func RequireTaskAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		taskIDStr := c.Param("id")
		taskID, err := strconv.ParseUint(taskIDStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid task ID")
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}
		role, _ := GetUserRole(c)

		var task models.Task
		if err := database.GetDB().
			Preload("Creator").
			First(&task, taskID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apierrors.NotFound(c, "Task not found")
			} else {
				apierrors.InternalError(c, "Failed to load task")
			}
			c.Abort()
			return
		}

		if !services.CanAccessTask(userID, role, task.CreatorID) {
			apierrors.Forbidden(c, "User not authorized")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyTask, task)
		c.Next()
	}
}
