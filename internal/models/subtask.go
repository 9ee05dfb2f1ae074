package models

import (
	"time"

	"github.com/yukikurage/academic-task-api/internal/timer"
)

type SubTask struct {
	ID               uint64     `gorm:"primarykey" json:"id"`
	TaskID           uint64     `gorm:"not null;index" json:"task_id"`
	AssignedToID     *uint64    `gorm:"index" json:"assigned_to_id"`
	Title            string     `gorm:"type:varchar(255);not null" json:"title"`
	Description      string     `gorm:"type:text" json:"description"`
	Deadline         *time.Time `json:"deadline"`
	Status           TaskStatus `gorm:"type:varchar(20);not null;default:'to_do'" json:"status"`
	IsCompleted      bool       `gorm:"not null;default:false" json:"is_completed"`
	StartTime        *time.Time `json:"start_time"`
	EndTime          *time.Time `json:"end_time"`
	TimeSpentSeconds int64      `gorm:"not null;default:0" json:"time_spent_seconds"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	// Relations
	AssignedTo *User `gorm:"foreignKey:AssignedToID" json:"assigned_to,omitempty"`
}

func (s *SubTask) Clock() timer.Clock {
	return timer.Clock{
		StartedAt:    s.StartTime,
		StoppedAt:    s.EndTime,
		TotalSeconds: s.TimeSpentSeconds,
	}
}

func (s *SubTask) SetClock(c timer.Clock) {
	s.StartTime = c.StartedAt
	s.EndTime = c.StoppedAt
	s.TimeSpentSeconds = c.TotalSeconds
}
