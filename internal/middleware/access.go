package middleware

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/academic-task-api/internal/constants"
	"github.com/yukikurage/academic-task-api/internal/database"
	apierrors "github.com/yukikurage/academic-task-api/internal/errors"
	"github.com/yukikurage/academic-task-api/internal/models"
	"github.com/yukikurage/academic-task-api/internal/repository"
	"github.com/yukikurage/academic-task-api/internal/visibility"
	"gorm.io/gorm"
)

var taskPreloads = []string{"AssignedTo", "AssignedBy", "Project", "Team"}

// RequireTaskAccess loads the task named by the id parameter when the viewer
// may see it. Tasks outside the viewer's scope answer 404 so their existence
// is not leaked.
func RequireTaskAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		viewer, id, ok := resolve(c, "Invalid task ID")
		if !ok {
			return
		}

		task, err := repository.NewTaskRepository(database.GetDB()).
			FindVisible(id, visibility.Tasks(viewer), taskPreloads...)
		if !found(c, err, "Task not found") {
			return
		}

		c.Set(constants.ContextKeyTask, task)
		c.Next()
	}
}

// RequireProjectAccess loads the project named by the id parameter when the
// viewer may see it.
func RequireProjectAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		viewer, id, ok := resolve(c, "Invalid project ID")
		if !ok {
			return
		}

		project, err := repository.NewProjectRepository(database.GetDB()).
			FindVisible(id, visibility.Projects(viewer))
		if !found(c, err, "Project not found") {
			return
		}

		c.Set(constants.ContextKeyProject, project)
		c.Next()
	}
}

// RequireTeamAccess loads the team named by the id parameter when the viewer
// may see it.
func RequireTeamAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		viewer, id, ok := resolve(c, "Invalid team ID")
		if !ok {
			return
		}

		team, err := repository.NewTeamRepository(database.GetDB()).
			FindVisible(id, visibility.Teams(viewer))
		if !found(c, err, "Team not found") {
			return
		}

		c.Set(constants.ContextKeyTeam, team)
		c.Next()
	}
}

// GetTask retrieves the task stored by RequireTaskAccess
func GetTask(c *gin.Context) (*models.Task, bool) {
	value, exists := c.Get(constants.ContextKeyTask)
	if !exists {
		return nil, false
	}
	task, ok := value.(*models.Task)
	return task, ok
}

// GetProject retrieves the project stored by RequireProjectAccess
func GetProject(c *gin.Context) (*models.Project, bool) {
	value, exists := c.Get(constants.ContextKeyProject)
	if !exists {
		return nil, false
	}
	project, ok := value.(*models.Project)
	return project, ok
}

// GetTeam retrieves the team stored by RequireTeamAccess
func GetTeam(c *gin.Context) (*models.Team, bool) {
	value, exists := c.Get(constants.ContextKeyTeam)
	if !exists {
		return nil, false
	}
	team, ok := value.(*models.Team)
	return team, ok
}

func resolve(c *gin.Context, invalidID string) (visibility.Viewer, uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, invalidID)
		c.Abort()
		return visibility.Viewer{}, 0, false
	}

	viewer, ok := GetViewer(c)
	if !ok {
		apierrors.Unauthorized(c, "")
		c.Abort()
		return visibility.Viewer{}, 0, false
	}
	return viewer, id, true
}

func found(c *gin.Context, err error, notFound string) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		apierrors.NotFound(c, notFound)
	} else {
		apierrors.InternalError(c, "")
	}
	c.Abort()
	return false
}
