package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/academic-task-api/internal/dto"
	apierrors "github.com/yukikurage/academic-task-api/internal/errors"
	"github.com/yukikurage/academic-task-api/internal/middleware"
	"github.com/yukikurage/academic-task-api/internal/services"
)

// TeamHandler serves teams and the events they take part in.
type TeamHandler struct {
	teamService  *services.TeamService
	eventService *services.EventService
}

func NewTeamHandler(teamService *services.TeamService, eventService *services.EventService) *TeamHandler {
	return &TeamHandler{
		teamService:  teamService,
		eventService: eventService,
	}
}

type teamRequest struct {
	Name        string   `json:"name" binding:"required,notblank,max=255"`
	Description string   `json:"description"`
	LeadID      uint64   `json:"lead_id" binding:"required"`
	MemberIDs   []uint64 `json:"member_ids"`
}

func (r teamRequest) input() services.TeamInput {
	return services.TeamInput{
		Name:        r.Name,
		Description: r.Description,
		LeadID:      r.LeadID,
		MemberIDs:   r.MemberIDs,
	}
}

func (h *TeamHandler) ListTeams(c *gin.Context) {
	viewer, ok := currentViewer(c)
	if !ok {
		return
	}

	teams, err := h.teamService.ListTeams(viewer)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"teams": dto.ToTeamDTOs(teams)})
}

func (h *TeamHandler) GetTeam(c *gin.Context) {
	team, exists := middleware.GetTeam(c)
	if !exists {
		apierrors.InternalError(c, "Team not found in context")
		return
	}
	c.JSON(http.StatusOK, dto.ToTeamDTO(*team))
}

// ListMembers returns the team's lead and members.
func (h *TeamHandler) ListMembers(c *gin.Context) {
	team, exists := middleware.GetTeam(c)
	if !exists {
		apierrors.InternalError(c, "Team not found in context")
		return
	}

	out := dto.ToTeamDTO(*team)
	c.JSON(http.StatusOK, gin.H{
		"lead":    out.Lead,
		"members": out.Members,
	})
}

func (h *TeamHandler) CreateTeam(c *gin.Context) {
	viewer, ok := currentViewer(c)
	if !ok {
		return
	}

	var req teamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	team, err := h.teamService.CreateTeam(viewer, req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToTeamDTO(*team))
}

// UpdateTeam replaces the team's name, lead and members.
func (h *TeamHandler) UpdateTeam(c *gin.Context) {
	viewer, ok := currentViewer(c)
	if !ok {
		return
	}
	team, exists := middleware.GetTeam(c)
	if !exists {
		apierrors.InternalError(c, "Team not found in context")
		return
	}

	var req teamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	updated, err := h.teamService.UpdateTeam(viewer, team, req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToTeamDTO(*updated))
}

func (h *TeamHandler) DeleteTeam(c *gin.Context) {
	viewer, ok := currentViewer(c)
	if !ok {
		return
	}
	team, exists := middleware.GetTeam(c)
	if !exists {
		apierrors.InternalError(c, "Team not found in context")
		return
	}

	if err := h.teamService.DeleteTeam(viewer, team); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Team deleted successfully"})
}

func (h *TeamHandler) ListEvents(c *gin.Context) {
	viewer, ok := currentViewer(c)
	if !ok {
		return
	}

	events, err := h.eventService.ListEvents(viewer)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": dto.ToEventDTOs(events)})
}

func (h *TeamHandler) CreateEvent(c *gin.Context) {
	type CreateEventRequest struct {
		Name        string    `json:"name" binding:"required,notblank,max=255"`
		Description string    `json:"description"`
		StartDate   time.Time `json:"start_date" binding:"required"`
		EndDate     time.Time `json:"end_date" binding:"required,gtefield=StartDate"`
		TeamIDs     []uint64  `json:"team_ids"`
	}

	viewer, ok := currentViewer(c)
	if !ok {
		return
	}

	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	event, err := h.eventService.CreateEvent(viewer, services.EventInput{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		TeamIDs:     req.TeamIDs,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToEventDTO(*event))
}
