package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/academic-task-api/internal/models"
	"github.com/yukikurage/academic-task-api/internal/repository"
	"github.com/yukikurage/academic-task-api/internal/utils"
	"github.com/yukikurage/academic-task-api/internal/visibility"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound         = errors.New("task not found")
	ErrTaskPermissionDenied = errors.New("user does not have permission to modify this task")
	ErrTitleRequired        = errors.New("title is required")
	ErrTitleEmpty           = errors.New("title cannot be empty")
	ErrAssigneeRequired     = errors.New("a task must be assigned to a user or a team")
	ErrInvalidTaskAssignee  = errors.New("assignee does not exist or is not visible to you")
	ErrInvalidTaskStatus    = errors.New("invalid task status")
	ErrInvalidTaskPriority  = errors.New("invalid task priority")
	ErrTeamNotFound         = errors.New("team not found")
)

// taskPreloads are the relations returned with a single task.
var taskPreloads = []string{"AssignedTo", "AssignedBy", "Project", "Team"}

// TaskService handles task business logic
type TaskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	teamRepo    repository.TeamRepository
	userRepo    repository.UserRepository
	suggester   SubTaskSuggester
	clock       func() time.Time
}

// NewTaskService creates a new TaskService. suggester may be nil when AI
// suggestions are not configured.
func NewTaskService(
	taskRepo repository.TaskRepository,
	projectRepo repository.ProjectRepository,
	teamRepo repository.TeamRepository,
	userRepo repository.UserRepository,
	suggester SubTaskSuggester,
) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		teamRepo:    teamRepo,
		userRepo:    userRepo,
		suggester:   suggester,
		clock:       time.Now,
	}
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	Viewer        visibility.Viewer
	ProjectID     *uint64
	TeamID        *uint64
	Query         string
	Status        *models.TaskStatus
	Priority      *models.TaskPriority
	Sprint        string
	AssignedToMe  bool
	SortByDueDate bool
	// Pagination of nil returns every match
	Pagination *utils.PaginationParams
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Viewer       visibility.Viewer
	Title        string
	Description  string
	AssignedToID *uint64
	TeamID       *uint64
	ProjectID    *uint64
	ParentTaskID *uint64
	Status       models.TaskStatus
	Priority     models.TaskPriority
	DueDate      *time.Time
	Sprint       string
}

// UpdateTaskInput represents input for updating a task
type UpdateTaskInput struct {
	Title        *string
	Description  *string
	Status       *models.TaskStatus
	Priority     *models.TaskPriority
	DueDate      *time.Time
	ClearDueDate bool
	Sprint       *string
	AssignedToID *uint64
	ProjectID    *uint64
	ClearProject bool
}

// Board groups tasks into the status columns, in board order.
type Board map[models.TaskStatus][]models.Task

func (s *TaskService) filter(input ListTasksInput) (repository.TaskFilter, error) {
	if input.ProjectID != nil {
		if _, err := s.visibleProject(input.Viewer, *input.ProjectID); err != nil {
			return repository.TaskFilter{}, err
		}
	}

	filter := repository.TaskFilter{
		Scope:         visibility.Tasks(input.Viewer),
		ProjectID:     input.ProjectID,
		TeamID:        input.TeamID,
		Query:         input.Query,
		Status:        input.Status,
		Priority:      input.Priority,
		Sprint:        input.Sprint,
		SortByDueDate: input.SortByDueDate,
		Pagination:    input.Pagination,
	}
	if input.AssignedToMe {
		filter.AssignedToID = &input.Viewer.UserID
	}
	return filter, nil
}

// ListTasks returns the visible tasks matching the filters
func (s *TaskService) ListTasks(input ListTasksInput) ([]models.Task, int64, error) {
	filter, err := s.filter(input)
	if err != nil {
		return nil, 0, err
	}

	tasks, total, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// Board returns every visible task matching the filters, grouped by status.
// The status filter and pagination do not apply.
func (s *TaskService) Board(input ListTasksInput) (Board, error) {
	input.Status = nil
	input.Pagination = nil

	tasks, _, err := s.ListTasks(input)
	if err != nil {
		return nil, err
	}

	board := make(Board, len(models.TaskStatuses))
	for _, status := range models.TaskStatuses {
		board[status] = []models.Task{}
	}
	for _, task := range tasks {
		if _, ok := board[task.Status]; ok {
			board[task.Status] = append(board[task.Status], task)
		}
	}
	return board, nil
}

// Sprints lists the sprint names used by visible tasks
func (s *TaskService) Sprints(viewer visibility.Viewer) ([]string, error) {
	sprints, err := s.taskRepo.Sprints(visibility.Tasks(viewer))
	if err != nil {
		return nil, fmt.Errorf("failed to list sprints: %w", err)
	}
	if sprints == nil {
		sprints = []string{}
	}
	return sprints, nil
}

// GetTask returns a visible task with related data
func (s *TaskService) GetTask(viewer visibility.Viewer, taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindVisible(taskID, visibility.Tasks(viewer), append(taskPreloads, "SubTasks")...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	return task, nil
}

// CreateTasks creates a task for a user, or one task per person on a team
// when only a team is given.
func (s *TaskService) CreateTasks(input CreateTaskInput) ([]models.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if input.AssignedToID == nil && input.TeamID == nil {
		return nil, ErrAssigneeRequired
	}

	status := input.Status
	if status == "" {
		status = models.TaskStatusTodo
	}
	if !status.Valid() {
		return nil, ErrInvalidTaskStatus
	}
	priority := input.Priority
	if priority == "" {
		priority = models.TaskPriorityMedium
	}
	if !priority.Valid() {
		return nil, ErrInvalidTaskPriority
	}

	if input.ProjectID != nil {
		if _, err := s.visibleProject(input.Viewer, *input.ProjectID); err != nil {
			return nil, err
		}
	}
	if input.ParentTaskID != nil {
		if _, err := s.GetTask(input.Viewer, *input.ParentTaskID); err != nil {
			return nil, err
		}
	}

	var assignees []uint64
	if input.TeamID != nil {
		team, err := s.teamRepo.FindVisible(*input.TeamID, visibility.Teams(input.Viewer))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrTeamNotFound
			}
			return nil, fmt.Errorf("failed to find team: %w", err)
		}
		if input.AssignedToID == nil {
			assignees = uniqueUint64(append([]uint64{team.LeadID}, team.MemberIDs()...))
		}
	}
	if input.AssignedToID != nil {
		if err := s.ensureAssignable(input.Viewer, *input.AssignedToID); err != nil {
			return nil, err
		}
		assignees = []uint64{*input.AssignedToID}
	}

	now := s.clock()
	tasks := make([]models.Task, 0, len(assignees))
	for _, assigneeID := range assignees {
		assigneeID := assigneeID
		task := models.Task{
			Title:        title,
			Description:  input.Description,
			AssignedToID: &assigneeID,
			AssignedByID: input.Viewer.UserID,
			ProjectID:    input.ProjectID,
			TeamID:       input.TeamID,
			ParentTaskID: input.ParentTaskID,
			Priority:     priority,
			DueDate:      input.DueDate,
			Sprint:       strings.TrimSpace(input.Sprint),
		}
		applyStatus(&task, status, now)
		tasks = append(tasks, task)
	}

	if err := s.taskRepo.CreateBatch(tasks); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	created := make([]models.Task, 0, len(tasks))
	for _, task := range tasks {
		loaded, err := s.taskRepo.FindByID(task.ID, taskPreloads...)
		if err != nil {
			return nil, fmt.Errorf("failed to load created task: %w", err)
		}
		created = append(created, *loaded)
	}
	return created, nil
}

// UpdateTask updates a task. Students change their tasks through the status
// and timer operations only.
func (s *TaskService) UpdateTask(viewer visibility.Viewer, task *models.Task, input UpdateTaskInput) (*models.Task, error) {
	if !canEditTask(viewer) {
		return nil, ErrTaskPermissionDenied
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrTitleEmpty
		}
		task.Title = title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return nil, ErrInvalidTaskPriority
		}
		task.Priority = *input.Priority
	}
	if input.ClearDueDate {
		task.DueDate = nil
	} else if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if input.Sprint != nil {
		task.Sprint = strings.TrimSpace(*input.Sprint)
	}
	if input.AssignedToID != nil {
		if err := s.ensureAssignable(viewer, *input.AssignedToID); err != nil {
			return nil, err
		}
		task.AssignedToID = input.AssignedToID
	}
	if input.ClearProject {
		task.ProjectID = nil
	} else if input.ProjectID != nil {
		if _, err := s.visibleProject(viewer, *input.ProjectID); err != nil {
			return nil, err
		}
		task.ProjectID = input.ProjectID
	}
	if input.Status != nil && !input.Status.Valid() {
		return nil, ErrInvalidTaskStatus
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	if input.Status != nil {
		return s.ChangeStatus(viewer, task, *input.Status)
	}
	return s.reload(task.ID)
}

// DeleteTask soft deletes a task with its subtasks and comments
func (s *TaskService) DeleteTask(viewer visibility.Viewer, task *models.Task) error {
	if !canEditTask(viewer) {
		return ErrTaskPermissionDenied
	}

	if err := s.taskRepo.Delete(task.ID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

func (s *TaskService) reload(taskID uint64) (*models.Task, error) {
	updated, err := s.taskRepo.FindByID(taskID, taskPreloads...)
	if err != nil {
		return nil, fmt.Errorf("failed to reload task: %w", err)
	}
	return updated, nil
}

func (s *TaskService) visibleProject(viewer visibility.Viewer, projectID uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindVisible(projectID, visibility.Projects(viewer))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

// ensureAssignable checks that the user exists and is visible to the viewer.
func (s *TaskService) ensureAssignable(viewer visibility.Viewer, userID uint64) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidTaskAssignee
		}
		return fmt.Errorf("failed to find assignee: %w", err)
	}

	if !visibility.Users(viewer).Allows(visibility.UserFactsOf(user)) {
		return ErrInvalidTaskAssignee
	}
	return nil
}

// canEditTask expects the task to be visible to the viewer.
func canEditTask(viewer visibility.Viewer) bool {
	switch viewer.Role {
	case models.RoleAdmin, models.RoleHOD, models.RoleStaff:
		return true
	}
	return false
}
