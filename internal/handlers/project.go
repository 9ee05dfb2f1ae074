package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/academic-task-api/internal/dto"
	apierrors "github.com/yukikurage/academic-task-api/internal/errors"
	"github.com/yukikurage/academic-task-api/internal/middleware"
	"github.com/yukikurage/academic-task-api/internal/services"
)

type ProjectHandler struct {
	projectService *services.ProjectService
}

func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

type projectRequest struct {
	Name          string   `json:"name" binding:"required,notblank,max=255"`
	Description   string   `json:"description"`
	DepartmentIDs []uint64 `json:"department_ids"`
}

func (r projectRequest) input() services.ProjectInput {
	return services.ProjectInput{
		Name:          r.Name,
		Description:   r.Description,
		DepartmentIDs: r.DepartmentIDs,
	}
}

func (h *ProjectHandler) ListProjects(c *gin.Context) {
	viewer, ok := currentViewer(c)
	if !ok {
		return
	}

	projects, err := h.projectService.ListProjects(viewer)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": dto.ToProjectDTOs(projects)})
}

// GetProject returns the project loaded by RequireProjectAccess.
func (h *ProjectHandler) GetProject(c *gin.Context) {
	project, exists := middleware.GetProject(c)
	if !exists {
		apierrors.InternalError(c, "Project not found in context")
		return
	}
	c.JSON(http.StatusOK, dto.ToProjectDTO(*project))
}

func (h *ProjectHandler) CreateProject(c *gin.Context) {
	viewer, ok := currentViewer(c)
	if !ok {
		return
	}

	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	project, err := h.projectService.CreateProject(viewer, req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToProjectDTO(*project))
}

// UpdateProject edits a project. Omitting department_ids keeps the current
// tags.
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	viewer, ok := currentViewer(c)
	if !ok {
		return
	}
	project, exists := middleware.GetProject(c)
	if !exists {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	updated, err := h.projectService.UpdateProject(viewer, project, req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToProjectDTO(*updated))
}

func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	viewer, ok := currentViewer(c)
	if !ok {
		return
	}
	project, exists := middleware.GetProject(c)
	if !exists {
		apierrors.InternalError(c, "Project not found in context")
		return
	}

	if err := h.projectService.DeleteProject(viewer, project); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
}
