package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hiromasa-t/project-collab-api/internal/constants"
	"github.com/hiromasa-t/project-collab-api/internal/database"
	apierrors "github.com/hiromasa-t/project-collab-api/internal/errors"
	"github.com/hiromasa-t/project-collab-api/internal/models"
)

// RequireTask loads the task referenced by the :id route parameter into the
// request context, aborting with 404 when it does not exist.
func RequireTask() gin.HandlerFunc {
	return func(c *gin.Context) {
		taskIDStr := c.Param("id")
		taskID, err := strconv.ParseUint(taskIDStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid task ID")
			c.Abort()
			return
		}

		var task models.Task
		if err := database.GetDB().
			Preload("Assignee").
			First(&task, taskID).Error; err != nil {
			apierrors.NotFound(c, "Task not found")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyTask, task)
		c.Next()
	}
}

// GetTask retrieves the task loaded by RequireTask.
func GetTask(c *gin.Context) (models.Task, bool) {
	value, exists := c.Get(constants.ContextKeyTask)
	if !exists {
		return models.Task{}, false
	}
	task, ok := value.(models.Task)
	return task, ok
}
