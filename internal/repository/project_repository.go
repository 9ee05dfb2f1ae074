package repository

import (
	"github.com/yukikurage/academic-task-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create creates a project and links the given departments
func (r *GormProjectRepository) Create(project *models.Project) error {
	return r.db.Omit("CreatedBy", "Tasks", "Departments.*").Create(project).Error
}

// FindVisible finds a project by ID within the scope
func (r *GormProjectRepository) FindVisible(id uint64, scope ProjectScope) (*models.Project, error) {
	var project models.Project
	if err := r.db.Model(&models.Project{}).
		Scopes(scope.Apply).
		Preload("CreatedBy").
		Preload("Departments").
		Where("projects.id = ?", id).
		First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// ListVisible lists projects within the scope, newest first
func (r *GormProjectRepository) ListVisible(scope ProjectScope) ([]models.Project, error) {
	var projects []models.Project
	if err := r.db.Model(&models.Project{}).
		Scopes(scope.Apply).
		Preload("CreatedBy").
		Preload("Departments").
		Order("projects.created_at DESC").
		Order("projects.id DESC").
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// CountVisible counts projects within the scope
func (r *GormProjectRepository) CountVisible(scope ProjectScope) (int64, error) {
	var count int64
	err := r.db.Model(&models.Project{}).Scopes(scope.Apply).Count(&count).Error
	return count, err
}

// Update saves the project; a non-nil departments slice replaces the links
func (r *GormProjectRepository) Update(project *models.Project, departments []models.Department) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(project).Error; err != nil {
			return err
		}
		if departments == nil {
			return nil
		}

		assoc := tx.Model(project).Association("Departments")
		if len(departments) == 0 {
			if err := assoc.Clear(); err != nil {
				return err
			}
		} else if err := assoc.Replace(departments); err != nil {
			return err
		}
		project.Departments = departments
		return nil
	})
}

// Delete soft deletes a project and its tasks in a transaction
func (r *GormProjectRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM project_departments WHERE project_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Project{}, id).Error
	})
}
