package models

import "time"

// WorkLog is a student's open-ended work session on a task.
type WorkLog struct {
	ID              uint64     `gorm:"primarykey" json:"id"`
	TaskID          uint64     `gorm:"not null;index" json:"task_id"`
	StudentID       uint64     `gorm:"not null;index" json:"student_id"`
	StartTime       time.Time  `gorm:"not null" json:"start_time"`
	EndTime         *time.Time `json:"end_time"`
	DurationSeconds int64      `gorm:"not null;default:0" json:"duration_seconds"`
	CreatedAt       time.Time  `json:"created_at"`

	// Relations
	Task    *Task `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	Student *User `gorm:"foreignKey:StudentID" json:"student,omitempty"`
}

func (w *WorkLog) Open() bool {
	return w.EndTime == nil
}
