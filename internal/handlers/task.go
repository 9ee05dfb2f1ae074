package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/academic-task-api/internal/dto"
	apierrors "github.com/yukikurage/academic-task-api/internal/errors"
	"github.com/yukikurage/academic-task-api/internal/middleware"
	"github.com/yukikurage/academic-task-api/internal/models"
	"github.com/yukikurage/academic-task-api/internal/services"
	"github.com/yukikurage/academic-task-api/internal/utils"
	"github.com/yukikurage/academic-task-api/internal/visibility"
)

// TaskHandler serves tasks and the activity recorded against them.
type TaskHandler struct {
	taskService     *services.TaskService
	activityService *services.TaskActivityService
}

func NewTaskHandler(taskService *services.TaskService, activityService *services.TaskActivityService) *TaskHandler {
	return &TaskHandler{
		taskService:     taskService,
		activityService: activityService,
	}
}

// listInput reads the task filters shared by the list and board endpoints.
func listInput(c *gin.Context, viewer visibility.Viewer) (services.ListTasksInput, bool) {
	input := services.ListTasksInput{
		Viewer: viewer,
		Query:  c.Query("q"),
		Sprint: c.Query("sprint"),
	}

	var ok bool
	if input.ProjectID, ok = queryID(c, "project"); !ok {
		return input, false
	}
	if input.TeamID, ok = queryID(c, "team"); !ok {
		return input, false
	}

	if raw := c.Query("status"); raw != "" {
		status := models.TaskStatus(raw)
		if !status.Valid() {
			apierrors.BadRequest(c, "Invalid status")
			return input, false
		}
		input.Status = &status
	}
	if raw := c.Query("priority"); raw != "" {
		priority := models.TaskPriority(raw)
		if !priority.Valid() {
			apierrors.BadRequest(c, "Invalid priority")
			return input, false
		}
		input.Priority = &priority
	}
	if raw := c.Query("assigned_to_me"); raw != "" {
		mine, err := strconv.ParseBool(raw)
		if err != nil {
			apierrors.BadRequest(c, "Invalid assigned_to_me")
			return input, false
		}
		input.AssignedToMe = mine
	}
	input.SortByDueDate = c.Query("sort") == "due_date"

	return input, true
}

// ListTasks returns a page of the tasks visible to the viewer.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	viewer, ok := currentViewer(c)
	if !ok {
		return
	}
	input, ok := listInput(c, viewer)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	input.Pagination = &params

	tasks, total, err := h.taskService.ListTasks(input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, params.Page, params.Limit, total))
}

// Board returns the visible tasks grouped by status column.
func (h *TaskHandler) Board(c *gin.Context) {
	viewer, ok := currentViewer(c)
	if !ok {
		return
	}
	input, ok := listInput(c, viewer)
	if !ok {
		return
	}

	board, err := h.taskService.Board(input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"columns": dto.ToBoardDTO(board)})
}

func (h *TaskHandler) ListSprints(c *gin.Context) {
	viewer, ok := currentViewer(c)
	if !ok {
		return
	}

	sprints, err := h.taskService.Sprints(viewer)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sprints": sprints})
}

// CreateTask assigns a task to a user, or one copy to each person on a team.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	type CreateTaskRequest struct {
		Title        string              `json:"title" binding:"required,notblank,max=255"`
		Description  string              `json:"description"`
		AssignedToID *uint64             `json:"assigned_to_id"`
		TeamID       *uint64             `json:"team_id"`
		ProjectID    *uint64             `json:"project_id"`
		ParentTaskID *uint64             `json:"parent_task_id"`
		Status       models.TaskStatus   `json:"status" binding:"omitempty,task_status"`
		Priority     models.TaskPriority `json:"priority" binding:"omitempty,task_priority"`
		DueDate      *time.Time          `json:"due_date"`
		Sprint       string              `json:"sprint" binding:"max=100"`
	}

	viewer, ok := currentViewer(c)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	tasks, err := h.taskService.CreateTasks(services.CreateTaskInput{
		Viewer:       viewer,
		Title:        req.Title,
		Description:  req.Description,
		AssignedToID: req.AssignedToID,
		TeamID:       req.TeamID,
		ProjectID:    req.ProjectID,
		ParentTaskID: req.ParentTaskID,
		Status:       req.Status,
		Priority:     req.Priority,
		DueDate:      req.DueDate,
		Sprint:       req.Sprint,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"tasks": dto.ToTaskDTOs(tasks)})
}

// GetTask returns the task loaded by RequireTaskAccess with its subtasks.
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, exists := middleware.GetTask(c)
	if !exists {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	subtasks, err := h.activityService.ListSubTasks(task)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"task":     dto.ToTaskDTO(*task),
		"subtasks": dto.ToSubTaskDTOs(subtasks),
	})
}

// UpdateTask applies a partial update. clear_due_date and clear_project
// remove the due date and the project.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	type UpdateTaskRequest struct {
		Title        *string              `json:"title" binding:"omitempty,notblank,max=255"`
		Description  *string              `json:"description"`
		Status       *models.TaskStatus   `json:"status" binding:"omitempty,task_status"`
		Priority     *models.TaskPriority `json:"priority" binding:"omitempty,task_priority"`
		DueDate      *time.Time           `json:"due_date"`
		ClearDueDate bool                 `json:"clear_due_date"`
		Sprint       *string              `json:"sprint" binding:"omitempty,max=100"`
		AssignedToID *uint64              `json:"assigned_to_id"`
		ProjectID    *uint64              `json:"project_id"`
		ClearProject bool                 `json:"clear_project"`
	}

	viewer, task, ok := h.viewerAndTask(c)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	updated, err := h.taskService.UpdateTask(viewer, task, services.UpdateTaskInput{
		Title:        req.Title,
		Description:  req.Description,
		Status:       req.Status,
		Priority:     req.Priority,
		DueDate:      req.DueDate,
		ClearDueDate: req.ClearDueDate,
		Sprint:       req.Sprint,
		AssignedToID: req.AssignedToID,
		ProjectID:    req.ProjectID,
		ClearProject: req.ClearProject,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToTaskDTO(*updated))
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	viewer, task, ok := h.viewerAndTask(c)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(viewer, task); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

// ChangeStatus moves a task to another column and drives its clock.
func (h *TaskHandler) ChangeStatus(c *gin.Context) {
	type ChangeStatusRequest struct {
		Status models.TaskStatus `json:"status" binding:"required,task_status"`
	}

	viewer, task, ok := h.viewerAndTask(c)
	if !ok {
		return
	}

	var req ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	updated, err := h.taskService.ChangeStatus(viewer, task, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToTaskDTO(*updated))
}

func (h *TaskHandler) StartTimer(c *gin.Context) {
	h.taskTransition(c, h.taskService.StartTimer)
}

func (h *TaskHandler) StopTimer(c *gin.Context) {
	h.taskTransition(c, h.taskService.StopTimer)
}

func (h *TaskHandler) MarkReviewed(c *gin.Context) {
	h.taskTransition(c, h.taskService.MarkReviewed)
}

func (h *TaskHandler) taskTransition(c *gin.Context, transition func(visibility.Viewer, *models.Task) (*models.Task, error)) {
	viewer, task, ok := h.viewerAndTask(c)
	if !ok {
		return
	}

	updated, err := transition(viewer, task)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToTaskDTO(*updated))
}

// SuggestSubTasks asks the assistant for subtask drafts. Nothing is saved.
func (h *TaskHandler) SuggestSubTasks(c *gin.Context) {
	task, exists := middleware.GetTask(c)
	if !exists {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	suggestions, err := h.taskService.SuggestSubTasks(c.Request.Context(), task)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subtasks": dto.ToSuggestedSubTaskDTOs(suggestions)})
}

func (h *TaskHandler) ListSubTasks(c *gin.Context) {
	task, exists := middleware.GetTask(c)
	if !exists {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	subtasks, err := h.activityService.ListSubTasks(task)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subtasks": dto.ToSubTaskDTOs(subtasks)})
}

type subTaskRequest struct {
	Title        *string            `json:"title" binding:"omitempty,notblank,max=255"`
	Description  *string            `json:"description"`
	Deadline     *time.Time         `json:"deadline"`
	AssignedToID *uint64            `json:"assigned_to_id"`
	Status       *models.TaskStatus `json:"status" binding:"omitempty,task_status"`
	IsCompleted  *bool              `json:"is_completed"`
}

func (r subTaskRequest) input() services.SubTaskInput {
	return services.SubTaskInput{
		Title:        r.Title,
		Description:  r.Description,
		Deadline:     r.Deadline,
		AssignedToID: r.AssignedToID,
		Status:       r.Status,
		IsCompleted:  r.IsCompleted,
	}
}

func (h *TaskHandler) CreateSubTask(c *gin.Context) {
	viewer, task, ok := h.viewerAndTask(c)
	if !ok {
		return
	}

	var req subTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	subtask, err := h.activityService.CreateSubTask(viewer, task, req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToSubTaskDTO(*subtask))
}

// UpdateSubTask applies a partial update to a subtask of a visible task.
func (h *TaskHandler) UpdateSubTask(c *gin.Context) {
	viewer, subtask, ok := h.loadSubTask(c)
	if !ok {
		return
	}

	var req subTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	updated, err := h.activityService.UpdateSubTask(viewer, subtask, req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToSubTaskDTO(*updated))
}

func (h *TaskHandler) StartSubTaskTimer(c *gin.Context) {
	h.subTaskTransition(c, h.activityService.StartSubTaskTimer)
}

func (h *TaskHandler) StopSubTaskTimer(c *gin.Context) {
	h.subTaskTransition(c, h.activityService.StopSubTaskTimer)
}

// AddSubTaskTime adds manually tracked seconds to a subtask.
func (h *TaskHandler) AddSubTaskTime(c *gin.Context) {
	type AddTimeRequest struct {
		Seconds int64 `json:"seconds" binding:"required,gt=0"`
	}

	_, subtask, ok := h.loadSubTask(c)
	if !ok {
		return
	}

	var req AddTimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	updated, err := h.activityService.AddSubTaskTime(subtask, req.Seconds)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToSubTaskDTO(*updated))
}

func (h *TaskHandler) subTaskTransition(c *gin.Context, transition func(*models.SubTask) (*models.SubTask, error)) {
	_, subtask, ok := h.loadSubTask(c)
	if !ok {
		return
	}

	updated, err := transition(subtask)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToSubTaskDTO(*updated))
}

func (h *TaskHandler) ListComments(c *gin.Context) {
	task, exists := middleware.GetTask(c)
	if !exists {
		apierrors.InternalError(c, "Task not found in context")
		return
	}

	comments, err := h.activityService.ListComments(task)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": dto.ToCommentDTOs(comments)})
}

func (h *TaskHandler) AddComment(c *gin.Context) {
	type AddCommentRequest struct {
		Text string `json:"text" binding:"required,notblank"`
	}

	viewer, task, ok := h.viewerAndTask(c)
	if !ok {
		return
	}

	var req AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	comment, err := h.activityService.AddComment(viewer, task, req.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToCommentDTO(*comment))
}

// StartWorkLog opens a work session for the task's assignee.
func (h *TaskHandler) StartWorkLog(c *gin.Context) {
	viewer, task, ok := h.viewerAndTask(c)
	if !ok {
		return
	}

	log, err := h.activityService.StartWorkLog(viewer, task)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToWorkLogDTO(*log))
}

func (h *TaskHandler) StopWorkLog(c *gin.Context) {
	viewer, ok := currentViewer(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "work log")
	if !ok {
		return
	}

	log, err := h.activityService.StopWorkLog(viewer, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToWorkLogDTO(*log))
}

func (h *TaskHandler) viewerAndTask(c *gin.Context) (visibility.Viewer, *models.Task, bool) {
	viewer, ok := currentViewer(c)
	if !ok {
		return visibility.Viewer{}, nil, false
	}
	task, exists := middleware.GetTask(c)
	if !exists {
		apierrors.InternalError(c, "Task not found in context")
		return visibility.Viewer{}, nil, false
	}
	return viewer, task, true
}

func (h *TaskHandler) loadSubTask(c *gin.Context) (visibility.Viewer, *models.SubTask, bool) {
	viewer, ok := currentViewer(c)
	if !ok {
		return visibility.Viewer{}, nil, false
	}
	id, ok := paramID(c, "id", "subtask")
	if !ok {
		return visibility.Viewer{}, nil, false
	}

	subtask, _, err := h.activityService.GetSubTask(viewer, id)
	if err != nil {
		respondError(c, err)
		return visibility.Viewer{}, nil, false
	}
	return viewer, subtask, true
}
