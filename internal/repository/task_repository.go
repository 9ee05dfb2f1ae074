package repository

import (
	"strings"
	"time"

	"github.com/yukikurage/academic-task-api/internal/database"
	"github.com/yukikurage/academic-task-api/internal/models"
	"github.com/yukikurage/academic-task-api/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Omit(clause.Associations).Create(task).Error
}

// CreateBatch creates tasks in a single transaction
func (r *GormTaskRepository) CreateBatch(tasks []models.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).Create(&tasks).Error
	})
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db

	// Apply preloading if specified
	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// FindVisible finds a task by ID within the scope
func (r *GormTaskRepository) FindVisible(id uint64, scope TaskScope, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db.Model(&models.Task{}).Scopes(scope.Apply)

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.Where("tasks.id = ?", id).First(&task).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

func (r *GormTaskRepository) filtered(filter TaskFilter) *gorm.DB {
	query := r.db.Model(&models.Task{}).Scopes(filter.Scope.Apply)

	if filter.ProjectID != nil {
		query = query.Where("tasks.project_id = ?", *filter.ProjectID)
	}
	if filter.TeamID != nil {
		query = query.Where("tasks.team_id = ?", *filter.TeamID)
	}
	if filter.AssignedToID != nil {
		query = query.Where("tasks.assigned_to_id = ?", *filter.AssignedToID)
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		query = query.Where("LOWER(tasks.title) LIKE LOWER(?)", "%"+q+"%")
	}
	if filter.Status != nil {
		query = query.Where("tasks.status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("tasks.priority = ?", *filter.Priority)
	}
	if filter.Sprint != "" {
		query = query.Where("tasks.sprint = ?", filter.Sprint)
	}
	if filter.UpdatedSince != nil {
		query = query.Where("tasks.updated_at >= ?", *filter.UpdatedSince)
	}

	return query
}

// List retrieves tasks with filtering and pagination
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, int64, error) {
	var total int64
	if err := r.filtered(filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := r.filtered(filter).Scopes(database.OrderTasks(filter.SortByDueDate))
	if filter.Pagination != nil {
		listQuery = listQuery.Scopes(database.Paginate(*filter.Pagination))
	}

	var tasks []models.Task
	if err := listQuery.
		Preload("AssignedTo").
		Preload("AssignedBy").
		Preload("Project").
		Preload("Team").
		Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// Activity counts the filtered tasks per status in a single grouped query
func (r *GormTaskRepository) Activity(filter TaskFilter, since, dueBy time.Time) ([]TaskStatusActivity, error) {
	rows := []TaskStatusActivity{}
	err := r.filtered(filter).
		Select(`tasks.status AS status, COUNT(*) AS total,
			SUM(CASE WHEN tasks.updated_at >= ? THEN 1 ELSE 0 END) AS updated,
			SUM(CASE WHEN tasks.created_at >= ? THEN 1 ELSE 0 END) AS created,
			SUM(CASE WHEN tasks.due_date IS NOT NULL AND tasks.due_date <= ? THEN 1 ELSE 0 END) AS due_soon`,
			since, since, dueBy).
		Group("tasks.status").
		Scan(&rows).Error
	return rows, err
}

// Recent returns the most recently updated tasks matching the filter
func (r *GormTaskRepository) Recent(filter TaskFilter, limit int) ([]models.Task, error) {
	var tasks []models.Task
	err := r.filtered(filter).
		Order("tasks.updated_at DESC").
		Order("tasks.id DESC").
		Scopes(database.Paginate(utils.PaginationParams{Page: 1, Limit: limit})).
		Preload("AssignedTo").
		Preload("AssignedBy").
		Preload("Project").
		Preload("Team").
		Find(&tasks).Error
	return tasks, err
}

// Sprints lists the distinct non-empty sprint names within the scope
func (r *GormTaskRepository) Sprints(scope TaskScope) ([]string, error) {
	var sprints []string
	err := r.db.Model(&models.Task{}).
		Scopes(scope.Apply).
		Where("tasks.sprint <> ''").
		Distinct().
		Order("tasks.sprint ASC").
		Pluck("tasks.sprint", &sprints).Error
	return sprints, err
}

// clockColumns are written by Transition only, so a stale copy saved through
// Update cannot roll back time added by work logs.
var clockColumns = []string{"status", "start_time", "end_time", "total_time_seconds"}

// Update updates the editable fields of a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Omit(append([]string{clause.Associations}, clockColumns...)...).Save(task).Error
}

// Transition re-reads the task under a row lock and hands the fresh copy to
// apply. When apply reports a change, the status and clock columns are
// written back in the same transaction.
func (r *GormTaskRepository) Transition(id uint64, apply func(task *models.Task) bool) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var task models.Task
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&task, id).Error; err != nil {
			return err
		}
		if !apply(&task) {
			return nil
		}

		return tx.Model(&models.Task{}).Where("id = ?", id).Updates(map[string]interface{}{
			"status":             task.Status,
			"start_time":         task.StartTime,
			"end_time":           task.EndTime,
			"total_time_seconds": task.TotalTimeSeconds,
		}).Error
	})
}

// Delete soft deletes a task and removes its subtasks and comments
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.SubTask{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Task{}, id).Error
	})
}
