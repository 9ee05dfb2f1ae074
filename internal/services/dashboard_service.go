package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/yukikurage/academic-task-api/internal/constants"
	"github.com/yukikurage/academic-task-api/internal/models"
	"github.com/yukikurage/academic-task-api/internal/repository"
	"github.com/yukikurage/academic-task-api/internal/visibility"
	"gorm.io/gorm"
)

// TaskSummary is the task overview shown on hod, staff and student dashboards.
type TaskSummary struct {
	StatusCounts      map[models.TaskStatus]int
	Total             int
	CompletedRecently int
	UpdatedRecently   int
	CreatedRecently   int
	DueSoon           int
	Recent            []models.Task
}

// AdminSummary is the organization overview shown to admins.
type AdminSummary struct {
	Counts               repository.OrganizationCounts
	HODs                 []models.User
	SchoolsPerCampus     []repository.NamedCount
	DepartmentsPerSchool []repository.NamedCount
}

// StaffTotals counts the staff of a HOD's departments.
type StaffTotals struct {
	ByCampus     []repository.NamedCount
	ByDepartment []repository.NamedCount
}

// Dashboard holds the sections that apply to the viewer's role.
type Dashboard struct {
	Role         models.Role
	Admin        *AdminSummary
	Tasks        *TaskSummary
	ProjectCount *int64
	Staff        *StaffTotals
}

// SummarizeActivity builds a task summary from per-status counts. Due soon
// counts only tasks that are still to do or in progress.
func SummarizeActivity(rows []repository.TaskStatusActivity, recent []models.Task) TaskSummary {
	summary := TaskSummary{
		StatusCounts: make(map[models.TaskStatus]int, len(models.TaskStatuses)),
		Recent:       recent,
	}
	for _, status := range models.TaskStatuses {
		summary.StatusCounts[status] = 0
	}
	if summary.Recent == nil {
		summary.Recent = []models.Task{}
	}

	for _, row := range rows {
		summary.StatusCounts[row.Status] += int(row.Total)
		summary.Total += int(row.Total)
		summary.UpdatedRecently += int(row.Updated)
		summary.CreatedRecently += int(row.Created)

		switch row.Status {
		case models.TaskStatusDone:
			summary.CompletedRecently += int(row.Updated)
		case models.TaskStatusTodo, models.TaskStatusInProgress:
			summary.DueSoon += int(row.DueSoon)
		}
	}
	return summary
}

// DashboardService assembles role specific dashboards.
type DashboardService struct {
	dashboardRepo repository.DashboardRepository
	taskRepo      repository.TaskRepository
	projectRepo   repository.ProjectRepository
	clock         func() time.Time
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(
	dashboardRepo repository.DashboardRepository,
	taskRepo repository.TaskRepository,
	projectRepo repository.ProjectRepository,
) *DashboardService {
	return &DashboardService{
		dashboardRepo: dashboardRepo,
		taskRepo:      taskRepo,
		projectRepo:   projectRepo,
		clock:         time.Now,
	}
}

// GetDashboard returns the viewer's dashboard, optionally limited to one
// visible project.
func (s *DashboardService) GetDashboard(viewer visibility.Viewer, projectID *uint64) (*Dashboard, error) {
	if !viewer.Role.Valid() {
		return nil, ErrEmailNotRegistered
	}

	dashboard := &Dashboard{Role: viewer.Role}
	if viewer.Role == models.RoleAdmin {
		admin, err := s.adminSummary()
		if err != nil {
			return nil, err
		}
		dashboard.Admin = admin
		return dashboard, nil
	}

	if projectID != nil {
		if _, err := s.projectRepo.FindVisible(*projectID, visibility.Projects(viewer)); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrProjectNotFound
			}
			return nil, fmt.Errorf("failed to find project: %w", err)
		}
	}

	filter := repository.TaskFilter{
		Scope:     visibility.Tasks(viewer),
		ProjectID: projectID,
	}
	now := s.clock()
	rows, err := s.taskRepo.Activity(filter, now.Add(-constants.RecentActivityWindow), now.Add(constants.DueSoonWindow))
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}
	recent, err := s.taskRepo.Recent(filter, constants.RecentActivityLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent tasks: %w", err)
	}
	summary := SummarizeActivity(rows, recent)
	dashboard.Tasks = &summary

	if viewer.Role == models.RoleStudent {
		return dashboard, nil
	}

	count, err := s.projectRepo.CountVisible(visibility.Projects(viewer))
	if err != nil {
		return nil, fmt.Errorf("failed to count projects: %w", err)
	}
	dashboard.ProjectCount = &count

	if viewer.Role == models.RoleHOD {
		byCampus, err := s.dashboardRepo.StaffByCampus(viewer.DepartmentIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to count staff by campus: %w", err)
		}
		byDepartment, err := s.dashboardRepo.StaffByDepartment(viewer.DepartmentIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to count staff by department: %w", err)
		}
		dashboard.Staff = &StaffTotals{ByCampus: byCampus, ByDepartment: byDepartment}
	}

	return dashboard, nil
}

func (s *DashboardService) adminSummary() (*AdminSummary, error) {
	counts, err := s.dashboardRepo.CountOrganization()
	if err != nil {
		return nil, fmt.Errorf("failed to count organization: %w", err)
	}
	hods, err := s.dashboardRepo.ListUsersByRole(models.RoleHOD)
	if err != nil {
		return nil, fmt.Errorf("failed to list hods: %w", err)
	}
	schools, err := s.dashboardRepo.SchoolsPerCampus()
	if err != nil {
		return nil, fmt.Errorf("failed to count schools: %w", err)
	}
	departments, err := s.dashboardRepo.DepartmentsPerSchool()
	if err != nil {
		return nil, fmt.Errorf("failed to count departments: %w", err)
	}

	return &AdminSummary{
		Counts:               counts,
		HODs:                 hods,
		SchoolsPerCampus:     schools,
		DepartmentsPerSchool: departments,
	}, nil
}
