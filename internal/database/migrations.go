package database

import (
	"fmt"

	applogger "github.com/yukikurage/academic-task-api/internal/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type index struct {
	table   string
	name    string
	columns string
}

// Composite indexes backing the visibility subqueries and the task filters.
var indexes = []index{
	{"tasks", "idx_tasks_status_created_at", "status, created_at"},
	{"tasks", "idx_tasks_due_date", "due_date"},
	{"tasks", "idx_tasks_sprint", "sprint"},
	{"tasks", "idx_tasks_project_assigned_to", "project_id, assigned_to_id"},
	{"user_departments", "idx_user_departments_department_id", "department_id, user_id"},
	{"project_departments", "idx_project_departments_department_id", "department_id, project_id"},
	{"team_members", "idx_team_members_user_id", "user_id, team_id"},
	{"event_teams", "idx_event_teams_team_id", "team_id, event_id"},
}

// indexExistsSQL returns the catalog query for the current dialect.
func indexExistsSQL(dialect string) string {
	switch dialect {
	case "postgres":
		return "SELECT COUNT(*) FROM pg_indexes WHERE tablename = ? AND indexname = ?"
	case "mysql":
		return "SELECT COUNT(*) FROM information_schema.statistics WHERE table_schema = DATABASE() AND table_name = ? AND index_name = ?"
	default:
		return "SELECT COUNT(*) FROM sqlite_master WHERE type = 'index' AND tbl_name = ? AND name = ?"
	}
}

// AddIndexes adds performance-critical indexes to the database
func AddIndexes(db *gorm.DB) error {
	existsSQL := indexExistsSQL(db.Dialector.Name())

	for _, idx := range indexes {
		var count int64
		if err := db.Raw(existsSQL, idx.table, idx.name).Scan(&count).Error; err != nil {
			return fmt.Errorf("failed to check index %s: %w", idx.name, err)
		}

		if count > 0 {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		applogger.SystemLogger.Info("Created index",
			zap.String("index", idx.name),
			zap.String("table", idx.table),
			zap.String("columns", idx.columns),
		)
	}

	return nil
}

// MigrateDatabase runs the steps AutoMigrate cannot express
func MigrateDatabase(db *gorm.DB) error {
	if err := AddIndexes(db); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}

	return nil
}
