package dto

import (
	"time"

	"github.com/yukikurage/academic-task-api/internal/models"
)

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID          uint64          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	CreatedByID *uint64         `json:"created_by_id"`
	CreatedBy   *UserRefDTO     `json:"created_by,omitempty"`
	Departments []DepartmentDTO `json:"departments"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func ToProjectDTO(project models.Project) ProjectDTO {
	return ProjectDTO{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		CreatedByID: project.CreatedByID,
		CreatedBy:   ToUserRefDTO(project.CreatedBy),
		Departments: ToDepartmentDTOs(project.Departments),
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}
}

func ToProjectDTOs(projects []models.Project) []ProjectDTO {
	dtos := make([]ProjectDTO, len(projects))
	for i, p := range projects {
		dtos[i] = ToProjectDTO(p)
	}
	return dtos
}
