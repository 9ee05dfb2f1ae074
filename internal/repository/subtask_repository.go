package repository

import (
	"errors"
	"fmt"

	"github.com/yukikurage/academic-task-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrWorkLogClosed is returned when closing a work log that already ended.
var ErrWorkLogClosed = errors.New("work log repository: log already closed")

// GormSubTaskRepository is a GORM implementation of SubTaskRepository
type GormSubTaskRepository struct {
	db *gorm.DB
}

func NewSubTaskRepository(db *gorm.DB) SubTaskRepository {
	return &GormSubTaskRepository{db: db}
}

func (r *GormSubTaskRepository) Create(subtask *models.SubTask) error {
	return r.db.Omit(clause.Associations).Create(subtask).Error
}

func (r *GormSubTaskRepository) FindByID(id uint64) (*models.SubTask, error) {
	var subtask models.SubTask
	if err := r.db.Preload("AssignedTo").First(&subtask, id).Error; err != nil {
		return nil, err
	}
	return &subtask, nil
}

func (r *GormSubTaskRepository) ListByTask(taskID uint64) ([]models.SubTask, error) {
	var subtasks []models.SubTask
	if err := r.db.Preload("AssignedTo").
		Where("task_id = ?", taskID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&subtasks).Error; err != nil {
		return nil, err
	}
	return subtasks, nil
}

func (r *GormSubTaskRepository) Update(subtask *models.SubTask) error {
	return r.db.Omit(clause.Associations).Save(subtask).Error
}

// GormCommentRepository is a GORM implementation of CommentRepository
type GormCommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &GormCommentRepository{db: db}
}

func (r *GormCommentRepository) Create(comment *models.Comment) error {
	return r.db.Omit(clause.Associations).Create(comment).Error
}

func (r *GormCommentRepository) ListByTask(taskID uint64) ([]models.Comment, error) {
	var comments []models.Comment
	if err := r.db.Preload("User").
		Where("task_id = ?", taskID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// GormWorkLogRepository is a GORM implementation of WorkLogRepository
type GormWorkLogRepository struct {
	db *gorm.DB
}

func NewWorkLogRepository(db *gorm.DB) WorkLogRepository {
	return &GormWorkLogRepository{db: db}
}

func (r *GormWorkLogRepository) Create(log *models.WorkLog) error {
	return r.db.Omit(clause.Associations).Create(log).Error
}

func (r *GormWorkLogRepository) FindByID(id uint64) (*models.WorkLog, error) {
	var log models.WorkLog
	if err := r.db.First(&log, id).Error; err != nil {
		return nil, err
	}
	return &log, nil
}

// Close records the end of an open log and adds its duration to the task
// total. The end_time guard makes concurrent closes count once.
func (r *GormWorkLogRepository) Close(log *models.WorkLog) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.WorkLog{}).
			Where("id = ? AND end_time IS NULL", log.ID).
			Updates(map[string]interface{}{
				"end_time":         log.EndTime,
				"duration_seconds": log.DurationSeconds,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrWorkLogClosed
		}

		if err := tx.Model(&models.Task{}).
			Where("id = ?", log.TaskID).
			Update("total_time_seconds", gorm.Expr("total_time_seconds + ?", log.DurationSeconds)).Error; err != nil {
			return fmt.Errorf("failed to add work log time to task: %w", err)
		}
		return nil
	})
}
