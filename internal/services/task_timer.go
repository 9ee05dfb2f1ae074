package services

import (
	"fmt"
	"time"

	"github.com/yukikurage/academic-task-api/internal/models"
	"github.com/yukikurage/academic-task-api/internal/timer"
	"github.com/yukikurage/academic-task-api/internal/visibility"
)

// clocked is implemented by tasks and subtasks.
type clocked interface {
	Clock() timer.Clock
	SetClock(timer.Clock)
}

// applyStatus moves the item to status and keeps its clock in step: the
// clock runs exactly while the status is in_progress.
func applyStatus(item clocked, status models.TaskStatus, now time.Time) {
	clock := item.Clock()
	if status == models.TaskStatusInProgress {
		clock, _ = clock.Start(now)
	} else {
		clock, _ = clock.Stop(now)
	}
	item.SetClock(clock)

	switch v := item.(type) {
	case *models.Task:
		v.Status = status
	case *models.SubTask:
		v.Status = status
		v.IsCompleted = status == models.TaskStatusDone
	}
}

// transition applies a clock change to the stored row rather than to the
// caller's copy, which may predate time added by a closed work log.
func (s *TaskService) transition(taskID uint64, apply func(task *models.Task) bool) (*models.Task, error) {
	if err := s.taskRepo.Transition(taskID, apply); err != nil {
		return nil, fmt.Errorf("failed to update task status: %w", err)
	}
	return s.reload(taskID)
}

// ChangeStatus moves a task to a new status
func (s *TaskService) ChangeStatus(viewer visibility.Viewer, task *models.Task, status models.TaskStatus) (*models.Task, error) {
	if !status.Valid() {
		return nil, ErrInvalidTaskStatus
	}

	now := s.clock()
	return s.transition(task.ID, func(t *models.Task) bool {
		applyStatus(t, status, now)
		return true
	})
}

// StartTimer starts the task clock and moves it to in_progress. Starting a
// running timer changes nothing.
func (s *TaskService) StartTimer(viewer visibility.Viewer, task *models.Task) (*models.Task, error) {
	now := s.clock()
	return s.transition(task.ID, func(t *models.Task) bool {
		if t.Clock().Running() && t.Status == models.TaskStatusInProgress {
			return false
		}
		applyStatus(t, models.TaskStatusInProgress, now)
		return true
	})
}

// StopTimer stops a running task clock and sends the task to review. A task
// whose timer is not running is returned unchanged.
func (s *TaskService) StopTimer(viewer visibility.Viewer, task *models.Task) (*models.Task, error) {
	now := s.clock()
	return s.transition(task.ID, func(t *models.Task) bool {
		if !t.Clock().Running() {
			return false
		}
		applyStatus(t, models.TaskStatusInReview, now)
		return true
	})
}

// MarkReviewed completes a task, stopping its clock if it is running.
func (s *TaskService) MarkReviewed(viewer visibility.Viewer, task *models.Task) (*models.Task, error) {
	if !canEditTask(viewer) {
		return nil, ErrTaskPermissionDenied
	}
	return s.ChangeStatus(viewer, task, models.TaskStatusDone)
}
