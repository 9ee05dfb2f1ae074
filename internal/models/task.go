package models

import (
	"time"

	"github.com/yukikurage/academic-task-api/internal/timer"
	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "to_do"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusInReview   TaskStatus = "in_review"
	TaskStatusDone       TaskStatus = "done"
)

// TaskStatuses lists the statuses in board order.
var TaskStatuses = []TaskStatus{
	TaskStatusTodo,
	TaskStatusInProgress,
	TaskStatusInReview,
	TaskStatusDone,
}

func (s TaskStatus) Valid() bool {
	for _, status := range TaskStatuses {
		if s == status {
			return true
		}
	}
	return false
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

type Task struct {
	ID               uint64         `gorm:"primarykey" json:"id"`
	Title            string         `gorm:"type:varchar(255);not null" json:"title"`
	Description      string         `gorm:"type:text" json:"description"`
	AssignedToID     *uint64        `gorm:"index" json:"assigned_to_id"`
	AssignedByID     uint64         `gorm:"not null;index" json:"assigned_by_id"`
	ProjectID        *uint64        `gorm:"index" json:"project_id"`
	TeamID           *uint64        `gorm:"index" json:"team_id"`
	ParentTaskID     *uint64        `gorm:"index" json:"parent_task_id"`
	Status           TaskStatus     `gorm:"type:varchar(20);not null;default:'to_do'" json:"status"`
	Priority         TaskPriority   `gorm:"type:varchar(10);not null;default:'medium'" json:"priority"`
	DueDate          *time.Time     `json:"due_date"`
	Sprint           string         `gorm:"type:varchar(100)" json:"sprint"`
	StartTime        *time.Time     `json:"start_time"`
	EndTime          *time.Time     `json:"end_time"`
	TotalTimeSeconds int64          `gorm:"not null;default:0" json:"total_time_seconds"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	AssignedTo *User     `gorm:"foreignKey:AssignedToID" json:"assigned_to,omitempty"`
	AssignedBy *User     `gorm:"foreignKey:AssignedByID" json:"assigned_by,omitempty"`
	Project    *Project  `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Team       *Team     `gorm:"foreignKey:TeamID" json:"team,omitempty"`
	SubTasks   []SubTask `gorm:"foreignKey:TaskID" json:"subtasks,omitempty"`
}

// Clock returns the timer view of the task.
func (t *Task) Clock() timer.Clock {
	return timer.Clock{
		StartedAt:    t.StartTime,
		StoppedAt:    t.EndTime,
		TotalSeconds: t.TotalTimeSeconds,
	}
}

// SetClock copies a timer state back onto the task.
func (t *Task) SetClock(c timer.Clock) {
	t.StartTime = c.StartedAt
	t.EndTime = c.StoppedAt
	t.TotalTimeSeconds = c.TotalSeconds
}
