package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/academic-task-api/internal/models"
	"github.com/yukikurage/academic-task-api/internal/repository"
	"github.com/yukikurage/academic-task-api/internal/timer"
	"github.com/yukikurage/academic-task-api/internal/visibility"
	"gorm.io/gorm"
)

var (
	ErrSubTaskNotFound     = errors.New("subtask not found")
	ErrInvalidDuration     = errors.New("reported time must not be negative")
	ErrCommentEmpty        = errors.New("comment cannot be empty")
	ErrWorkLogNotFound     = errors.New("work log not found")
	ErrWorkLogNotAllowed   = errors.New("only the assignee can log work on this task")
	ErrSubTaskNotAssigned  = errors.New("subtask assignee does not exist or is not visible to you")
	ErrSubTaskTitleMissing = errors.New("subtask title is required")
)

// TaskActivityService handles subtasks, comments and work logs of a task.
type TaskActivityService struct {
	taskRepo    repository.TaskRepository
	subTaskRepo repository.SubTaskRepository
	commentRepo repository.CommentRepository
	workLogRepo repository.WorkLogRepository
	userRepo    repository.UserRepository
	clock       func() time.Time
}

// NewTaskActivityService creates a new TaskActivityService.
func NewTaskActivityService(
	taskRepo repository.TaskRepository,
	subTaskRepo repository.SubTaskRepository,
	commentRepo repository.CommentRepository,
	workLogRepo repository.WorkLogRepository,
	userRepo repository.UserRepository,
) *TaskActivityService {
	return &TaskActivityService{
		taskRepo:    taskRepo,
		subTaskRepo: subTaskRepo,
		commentRepo: commentRepo,
		workLogRepo: workLogRepo,
		userRepo:    userRepo,
		clock:       time.Now,
	}
}

// SubTaskInput represents the fields of a subtask. On update nil fields are
// kept.
type SubTaskInput struct {
	Title        *string
	Description  *string
	Deadline     *time.Time
	AssignedToID *uint64
	Status       *models.TaskStatus
	IsCompleted  *bool
}

// ListSubTasks lists the subtasks of a task
func (s *TaskActivityService) ListSubTasks(task *models.Task) ([]models.SubTask, error) {
	subtasks, err := s.subTaskRepo.ListByTask(task.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subtasks: %w", err)
	}
	return subtasks, nil
}

// GetSubTask loads a subtask together with its task, which must be visible.
func (s *TaskActivityService) GetSubTask(viewer visibility.Viewer, id uint64) (*models.SubTask, *models.Task, error) {
	subtask, err := s.subTaskRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrSubTaskNotFound
		}
		return nil, nil, fmt.Errorf("failed to find subtask: %w", err)
	}

	task, err := s.taskRepo.FindVisible(subtask.TaskID, visibility.Tasks(viewer))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrSubTaskNotFound
		}
		return nil, nil, fmt.Errorf("failed to find task: %w", err)
	}
	return subtask, task, nil
}

// CreateSubTask adds a subtask to a task
func (s *TaskActivityService) CreateSubTask(viewer visibility.Viewer, task *models.Task, input SubTaskInput) (*models.SubTask, error) {
	if input.Title == nil || strings.TrimSpace(*input.Title) == "" {
		return nil, ErrSubTaskTitleMissing
	}

	subtask := &models.SubTask{
		TaskID: task.ID,
		Status: models.TaskStatusTodo,
	}
	if err := s.apply(viewer, subtask, input); err != nil {
		return nil, err
	}

	if err := s.subTaskRepo.Create(subtask); err != nil {
		return nil, fmt.Errorf("failed to create subtask: %w", err)
	}
	return s.reloadSubTask(subtask.ID)
}

// UpdateSubTask edits a subtask. A status change or completion drives the
// subtask clock the same way as for tasks.
func (s *TaskActivityService) UpdateSubTask(viewer visibility.Viewer, subtask *models.SubTask, input SubTaskInput) (*models.SubTask, error) {
	if err := s.apply(viewer, subtask, input); err != nil {
		return nil, err
	}
	return s.saveSubTask(subtask)
}

func (s *TaskActivityService) apply(viewer visibility.Viewer, subtask *models.SubTask, input SubTaskInput) error {
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return ErrSubTaskTitleMissing
		}
		subtask.Title = title
	}
	if input.Description != nil {
		subtask.Description = *input.Description
	}
	if input.Deadline != nil {
		subtask.Deadline = input.Deadline
	}
	if input.AssignedToID != nil {
		user, err := s.userRepo.FindByID(*input.AssignedToID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSubTaskNotAssigned
			}
			return fmt.Errorf("failed to find assignee: %w", err)
		}
		if !visibility.Users(viewer).Allows(visibility.UserFactsOf(user)) {
			return ErrSubTaskNotAssigned
		}
		subtask.AssignedToID = input.AssignedToID
		subtask.AssignedTo = nil
	}

	now := s.clock()
	if input.Status != nil {
		if !input.Status.Valid() {
			return ErrInvalidTaskStatus
		}
		applyStatus(subtask, *input.Status, now)
	}
	if input.IsCompleted != nil {
		switch {
		case *input.IsCompleted:
			applyStatus(subtask, models.TaskStatusDone, now)
		case subtask.Status == models.TaskStatusDone:
			applyStatus(subtask, models.TaskStatusTodo, now)
		}
	}
	return nil
}

// StartSubTaskTimer starts the subtask clock
func (s *TaskActivityService) StartSubTaskTimer(subtask *models.SubTask) (*models.SubTask, error) {
	if subtask.Clock().Running() {
		return subtask, nil
	}
	applyStatus(subtask, models.TaskStatusInProgress, s.clock())
	return s.saveSubTask(subtask)
}

// StopSubTaskTimer stops a running subtask clock and moves the subtask to
// in_review.
func (s *TaskActivityService) StopSubTaskTimer(subtask *models.SubTask) (*models.SubTask, error) {
	if !subtask.Clock().Running() {
		return subtask, nil
	}
	applyStatus(subtask, models.TaskStatusInReview, s.clock())
	return s.saveSubTask(subtask)
}

// AddSubTaskTime adds manually reported seconds to the subtask total.
func (s *TaskActivityService) AddSubTaskTime(subtask *models.SubTask, seconds int64) (*models.SubTask, error) {
	if seconds < 0 {
		return nil, ErrInvalidDuration
	}
	subtask.SetClock(subtask.Clock().AddSeconds(seconds))
	return s.saveSubTask(subtask)
}

func (s *TaskActivityService) saveSubTask(subtask *models.SubTask) (*models.SubTask, error) {
	if err := s.subTaskRepo.Update(subtask); err != nil {
		return nil, fmt.Errorf("failed to update subtask: %w", err)
	}
	return s.reloadSubTask(subtask.ID)
}

func (s *TaskActivityService) reloadSubTask(id uint64) (*models.SubTask, error) {
	subtask, err := s.subTaskRepo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload subtask: %w", err)
	}
	return subtask, nil
}

// ListComments lists the comments of a task, oldest first
func (s *TaskActivityService) ListComments(task *models.Task) ([]models.Comment, error) {
	comments, err := s.commentRepo.ListByTask(task.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// AddComment posts a comment on a task as the viewer
func (s *TaskActivityService) AddComment(viewer visibility.Viewer, task *models.Task, text string) (*models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrCommentEmpty
	}

	comment := &models.Comment{
		TaskID: task.ID,
		UserID: viewer.UserID,
		Text:   text,
	}
	if err := s.commentRepo.Create(comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return comment, nil
}

// StartWorkLog opens a work session on a task for its assignee.
func (s *TaskActivityService) StartWorkLog(viewer visibility.Viewer, task *models.Task) (*models.WorkLog, error) {
	if task.AssignedToID == nil || *task.AssignedToID != viewer.UserID {
		return nil, ErrWorkLogNotAllowed
	}

	log := &models.WorkLog{
		TaskID:    task.ID,
		StudentID: viewer.UserID,
		StartTime: s.clock(),
	}
	if err := s.workLogRepo.Create(log); err != nil {
		return nil, fmt.Errorf("failed to create work log: %w", err)
	}
	return log, nil
}

// StopWorkLog closes one of the viewer's work logs and adds its duration to
// the task. Closing a closed log returns it unchanged.
func (s *TaskActivityService) StopWorkLog(viewer visibility.Viewer, id uint64) (*models.WorkLog, error) {
	log, err := s.workLogRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkLogNotFound
		}
		return nil, fmt.Errorf("failed to find work log: %w", err)
	}
	if log.StudentID != viewer.UserID {
		return nil, ErrWorkLogNotFound
	}
	if !log.Open() {
		return log, nil
	}

	start := log.StartTime
	clock, _ := timer.Clock{StartedAt: &start}.Stop(s.clock())
	log.EndTime = clock.StoppedAt
	log.DurationSeconds = clock.TotalSeconds

	if err := s.workLogRepo.Close(log); err != nil {
		if errors.Is(err, repository.ErrWorkLogClosed) {
			return s.workLogRepo.FindByID(id)
		}
		return nil, fmt.Errorf("failed to close work log: %w", err)
	}
	return log, nil
}
