package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/academic-task-api/internal/models"
	"github.com/yukikurage/academic-task-api/internal/repository"
	"github.com/yukikurage/academic-task-api/internal/visibility"
	"gorm.io/gorm"
)

var (
	ErrProjectNotFound         = errors.New("project not found")
	ErrProjectNameRequired     = errors.New("project name is required")
	ErrProjectPermissionDenied = errors.New("you do not have permission to modify this project")
	ErrDepartmentNotAllowed    = errors.New("projects can only be tagged with your own departments")
)

// ProjectService provides business logic for projects.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	orgRepo     repository.OrganizationRepository
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repository.ProjectRepository, orgRepo repository.OrganizationRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		orgRepo:     orgRepo,
	}
}

// ProjectInput represents the editable fields of a project. On update a nil
// DepartmentIDs keeps the current tags.
type ProjectInput struct {
	Name          string
	Description   string
	DepartmentIDs []uint64
}

// ListProjects lists the projects the viewer may see.
func (s *ProjectService) ListProjects(viewer visibility.Viewer) ([]models.Project, error) {
	projects, err := s.projectRepo.ListVisible(visibility.Projects(viewer))
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// GetProject returns a project the viewer may see.
func (s *ProjectService) GetProject(viewer visibility.Viewer, id uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindVisible(id, visibility.Projects(viewer))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

// CreateProject creates a project owned by the viewer. A HOD who names no
// departments tags the project with all of their own.
func (s *ProjectService) CreateProject(viewer visibility.Viewer, input ProjectInput) (*models.Project, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrProjectNameRequired
	}

	requested := input.DepartmentIDs
	if viewer.Role == models.RoleHOD && len(requested) == 0 {
		requested = viewer.DepartmentIDs
	}
	departments, err := s.taggableDepartments(viewer, requested)
	if err != nil {
		return nil, err
	}

	creatorID := viewer.UserID
	project := &models.Project{
		Name:        name,
		Description: input.Description,
		CreatedByID: &creatorID,
		Departments: departments,
	}
	if err := s.projectRepo.Create(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return s.GetProject(viewer, project.ID)
}

// UpdateProject edits a project the viewer may manage.
func (s *ProjectService) UpdateProject(viewer visibility.Viewer, project *models.Project, input ProjectInput) (*models.Project, error) {
	if !canManageProject(viewer, project) {
		return nil, ErrProjectPermissionDenied
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrProjectNameRequired
	}

	var departments []models.Department
	if input.DepartmentIDs != nil {
		var err error
		departments, err = s.taggableDepartments(viewer, input.DepartmentIDs)
		if err != nil {
			return nil, err
		}
	}

	project.Name = name
	project.Description = input.Description
	if err := s.projectRepo.Update(project, departments); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return s.GetProject(viewer, project.ID)
}

// DeleteProject deletes a project and its tasks.
func (s *ProjectService) DeleteProject(viewer visibility.Viewer, project *models.Project) error {
	if !canManageProject(viewer, project) {
		return ErrProjectPermissionDenied
	}
	if err := s.projectRepo.Delete(project.ID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

// CountProjects counts the projects the viewer may see.
func (s *ProjectService) CountProjects(viewer visibility.Viewer) (int64, error) {
	count, err := s.projectRepo.CountVisible(visibility.Projects(viewer))
	if err != nil {
		return 0, fmt.Errorf("failed to count projects: %w", err)
	}
	return count, nil
}

// canManageProject expects the project to be visible to the viewer.
func canManageProject(viewer visibility.Viewer, project *models.Project) bool {
	switch viewer.Role {
	case models.RoleAdmin, models.RoleHOD:
		return true
	case models.RoleStaff:
		return project.CreatedByID != nil && *project.CreatedByID == viewer.UserID
	}
	return false
}

// taggableDepartments loads the departments the viewer may tag a project with.
// Admins may use any department; others only their own.
func (s *ProjectService) taggableDepartments(viewer visibility.Viewer, ids []uint64) ([]models.Department, error) {
	ids = uniqueUint64(ids)

	switch viewer.Role {
	case models.RoleAdmin:
	case models.RoleHOD, models.RoleStaff:
		own := make(map[uint64]struct{}, len(viewer.DepartmentIDs))
		for _, id := range viewer.DepartmentIDs {
			own[id] = struct{}{}
		}
		for _, id := range ids {
			if _, ok := own[id]; !ok {
				return nil, ErrDepartmentNotAllowed
			}
		}
	default:
		return nil, ErrProjectPermissionDenied
	}

	departments, err := s.orgRepo.FindDepartmentsByIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to find departments: %w", err)
	}
	if len(departments) != len(ids) {
		return nil, ErrDepartmentNotFound
	}
	return departments, nil
}
