package database

import (
	"gorm.io/gorm"

	"github.com/yukikurage/academic-task-api/internal/utils"
)

// Paginate applies pagination to a GORM query
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(params.Offset).Limit(params.Limit)
	}
}

// OrderTasks sorts by due date (undated last) or newest first.
func OrderTasks(byDueDate bool) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if byDueDate {
			return db.Order("CASE WHEN tasks.due_date IS NULL THEN 1 ELSE 0 END, tasks.due_date ASC")
		}
		return db.Order("tasks.created_at DESC").Order("tasks.id DESC")
	}
}
