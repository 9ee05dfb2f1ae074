package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/academic-task-api/internal/dto"
	"github.com/yukikurage/academic-task-api/internal/services"
)

type DashboardHandler struct {
	dashboardService *services.DashboardService
}

func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetDashboard returns the sections for the viewer's role, optionally
// limited to one project (?project=).
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	viewer, ok := currentViewer(c)
	if !ok {
		return
	}
	projectID, ok := queryID(c, "project")
	if !ok {
		return
	}

	dashboard, err := h.dashboardService.GetDashboard(viewer, projectID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToDashboardDTO(*dashboard))
}
