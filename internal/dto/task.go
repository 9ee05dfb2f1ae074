package dto

import (
	"time"

	"github.com/yukikurage/academic-task-api/internal/models"
	"github.com/yukikurage/academic-task-api/internal/services"
)

// ProjectRefDTO is the short form of a project nested in a task
type ProjectRefDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// TeamRefDTO is the short form of a team nested in a task
type TeamRefDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID               uint64              `json:"id"`
	Title            string              `json:"title"`
	Description      string              `json:"description"`
	Status           models.TaskStatus   `json:"status"`
	Priority         models.TaskPriority `json:"priority"`
	DueDate          *time.Time          `json:"due_date"`
	Sprint           string              `json:"sprint"`
	AssignedToID     *uint64             `json:"assigned_to_id"`
	AssignedByID     uint64              `json:"assigned_by_id"`
	ProjectID        *uint64             `json:"project_id"`
	TeamID           *uint64             `json:"team_id"`
	ParentTaskID     *uint64             `json:"parent_task_id"`
	StartTime        *time.Time          `json:"start_time"`
	EndTime          *time.Time          `json:"end_time"`
	TotalTimeSeconds int64               `json:"total_time_seconds"`
	IsRunning        bool                `json:"is_running"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
	AssignedTo       *UserRefDTO         `json:"assigned_to,omitempty"`
	AssignedBy       *UserRefDTO         `json:"assigned_by,omitempty"`
	Project          *ProjectRefDTO      `json:"project,omitempty"`
	Team             *TeamRefDTO         `json:"team,omitempty"`
	SubTasks         []SubTaskDTO        `json:"subtasks,omitempty"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks      []TaskDTO `json:"tasks"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalCount int64     `json:"total_count"`
	TotalPages int       `json:"total_pages"`
}

// BoardColumnDTO is one kanban column
type BoardColumnDTO struct {
	Status models.TaskStatus `json:"status"`
	Tasks  []TaskDTO         `json:"tasks"`
}

// SubTaskDTO represents a subtask in API responses
type SubTaskDTO struct {
	ID               uint64            `json:"id"`
	TaskID           uint64            `json:"task_id"`
	Title            string            `json:"title"`
	Description      string            `json:"description"`
	Deadline         *time.Time        `json:"deadline"`
	Status           models.TaskStatus `json:"status"`
	IsCompleted      bool              `json:"is_completed"`
	AssignedToID     *uint64           `json:"assigned_to_id"`
	AssignedTo       *UserRefDTO       `json:"assigned_to,omitempty"`
	StartTime        *time.Time        `json:"start_time"`
	EndTime          *time.Time        `json:"end_time"`
	TimeSpentSeconds int64             `json:"time_spent_seconds"`
	IsRunning        bool              `json:"is_running"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// CommentDTO represents a task comment in API responses
type CommentDTO struct {
	ID        uint64      `json:"id"`
	TaskID    uint64      `json:"task_id"`
	Text      string      `json:"text"`
	User      *UserRefDTO `json:"user,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

// WorkLogDTO represents a work log in API responses
type WorkLogDTO struct {
	ID              uint64     `json:"id"`
	TaskID          uint64     `json:"task_id"`
	StudentID       uint64     `json:"student_id"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         *time.Time `json:"end_time"`
	DurationSeconds int64      `json:"duration_seconds"`
}

// SuggestedSubTaskDTO is a draft subtask proposed by the assistant
type SuggestedSubTaskDTO struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:               task.ID,
		Title:            task.Title,
		Description:      task.Description,
		Status:           task.Status,
		Priority:         task.Priority,
		DueDate:          task.DueDate,
		Sprint:           task.Sprint,
		AssignedToID:     task.AssignedToID,
		AssignedByID:     task.AssignedByID,
		ProjectID:        task.ProjectID,
		TeamID:           task.TeamID,
		ParentTaskID:     task.ParentTaskID,
		StartTime:        task.StartTime,
		EndTime:          task.EndTime,
		TotalTimeSeconds: task.TotalTimeSeconds,
		IsRunning:        task.Clock().Running(),
		CreatedAt:        task.CreatedAt,
		UpdatedAt:        task.UpdatedAt,
		AssignedTo:       ToUserRefDTO(task.AssignedTo),
		AssignedBy:       ToUserRefDTO(task.AssignedBy),
	}

	if task.Project != nil && task.Project.ID != 0 {
		dto.Project = &ProjectRefDTO{ID: task.Project.ID, Name: task.Project.Name}
	}
	if task.Team != nil && task.Team.ID != 0 {
		dto.Team = &TeamRefDTO{ID: task.Team.ID, Name: task.Team.Name}
	}
	if len(task.SubTasks) > 0 {
		dto.SubTasks = ToSubTaskDTOs(task.SubTasks)
	}

	return dto
}

func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	dtos := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		dtos[i] = ToTaskDTO(task)
	}
	return dtos
}

// ToTaskListResponse converts a slice of tasks to TaskListResponse
func ToTaskListResponse(tasks []models.Task, page, pageSize int, totalCount int64) TaskListResponse {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int(totalCount) / pageSize
		if int(totalCount)%pageSize > 0 {
			totalPages++
		}
	}

	return TaskListResponse{
		Tasks:      ToTaskDTOs(tasks),
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
		TotalPages: totalPages,
	}
}

// ToBoardDTO lists the columns in board order
func ToBoardDTO(board services.Board) []BoardColumnDTO {
	columns := make([]BoardColumnDTO, 0, len(models.TaskStatuses))
	for _, status := range models.TaskStatuses {
		columns = append(columns, BoardColumnDTO{
			Status: status,
			Tasks:  ToTaskDTOs(board[status]),
		})
	}
	return columns
}

func ToSubTaskDTO(subtask models.SubTask) SubTaskDTO {
	return SubTaskDTO{
		ID:               subtask.ID,
		TaskID:           subtask.TaskID,
		Title:            subtask.Title,
		Description:      subtask.Description,
		Deadline:         subtask.Deadline,
		Status:           subtask.Status,
		IsCompleted:      subtask.IsCompleted,
		AssignedToID:     subtask.AssignedToID,
		AssignedTo:       ToUserRefDTO(subtask.AssignedTo),
		StartTime:        subtask.StartTime,
		EndTime:          subtask.EndTime,
		TimeSpentSeconds: subtask.TimeSpentSeconds,
		IsRunning:        subtask.Clock().Running(),
		UpdatedAt:        subtask.UpdatedAt,
	}
}

func ToSubTaskDTOs(subtasks []models.SubTask) []SubTaskDTO {
	dtos := make([]SubTaskDTO, len(subtasks))
	for i, s := range subtasks {
		dtos[i] = ToSubTaskDTO(s)
	}
	return dtos
}

func ToCommentDTO(comment models.Comment) CommentDTO {
	return CommentDTO{
		ID:        comment.ID,
		TaskID:    comment.TaskID,
		Text:      comment.Text,
		User:      ToUserRefDTO(comment.User),
		CreatedAt: comment.CreatedAt,
	}
}

func ToCommentDTOs(comments []models.Comment) []CommentDTO {
	dtos := make([]CommentDTO, len(comments))
	for i, c := range comments {
		dtos[i] = ToCommentDTO(c)
	}
	return dtos
}

func ToWorkLogDTO(log models.WorkLog) WorkLogDTO {
	return WorkLogDTO{
		ID:              log.ID,
		TaskID:          log.TaskID,
		StudentID:       log.StudentID,
		StartTime:       log.StartTime,
		EndTime:         log.EndTime,
		DurationSeconds: log.DurationSeconds,
	}
}

func ToSuggestedSubTaskDTOs(suggestions []services.SuggestedSubTask) []SuggestedSubTaskDTO {
	dtos := make([]SuggestedSubTaskDTO, len(suggestions))
	for i, s := range suggestions {
		dtos[i] = SuggestedSubTaskDTO{Title: s.Title, Description: s.Description}
	}
	return dtos
}
