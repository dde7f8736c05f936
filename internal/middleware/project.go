package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hiromasa-t/project-collab-api/internal/constants"
	"github.com/hiromasa-t/project-collab-api/internal/database"
	apierrors "github.com/hiromasa-t/project-collab-api/internal/errors"
	"github.com/hiromasa-t/project-collab-api/internal/models"
)

// RequireProject loads the project referenced by the :id route parameter
// into the request context, aborting with 404 when it does not exist.
func RequireProject() gin.HandlerFunc {
	return func(c *gin.Context) {
		projectIDStr := c.Param("id")
		projectID, err := strconv.ParseUint(projectIDStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid project ID")
			c.Abort()
			return
		}

		var project models.Project
		if err := database.GetDB().First(&project, projectID).Error; err != nil {
			apierrors.NotFound(c, "Project not found")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyProject, project)
		c.Next()
	}
}

// GetProject retrieves the project loaded by RequireProject.
func GetProject(c *gin.Context) (models.Project, bool) {
	value, exists := c.Get(constants.ContextKeyProject)
	if !exists {
		return models.Project{}, false
	}
	project, ok := value.(models.Project)
	return project, ok
}
