package dto

import (
	"github.com/yukikurage/academic-task-api/internal/models"
	"github.com/yukikurage/academic-task-api/internal/repository"
	"github.com/yukikurage/academic-task-api/internal/services"
)

// TaskSummaryDTO is the task overview section of a dashboard
type TaskSummaryDTO struct {
	StatusCounts      map[models.TaskStatus]int `json:"status_counts"`
	Total             int                       `json:"total"`
	CompletedRecently int                       `json:"completed_last_7_days"`
	UpdatedRecently   int                       `json:"updated_last_7_days"`
	CreatedRecently   int                       `json:"created_last_7_days"`
	DueSoon           int                       `json:"due_soon"`
	RecentTasks       []TaskDTO                 `json:"recent_tasks"`
}

// AdminSummaryDTO is the organization section of the admin dashboard
type AdminSummaryDTO struct {
	Counts               repository.OrganizationCounts `json:"counts"`
	HODs                 []UserDTO                     `json:"hods"`
	SchoolsPerCampus     []repository.NamedCount       `json:"schools_per_campus"`
	DepartmentsPerSchool []repository.NamedCount       `json:"departments_per_school"`
}

// StaffTotalsDTO is the staff section of the HOD dashboard
type StaffTotalsDTO struct {
	ByCampus     []repository.NamedCount `json:"by_campus"`
	ByDepartment []repository.NamedCount `json:"by_department"`
}

// DashboardDTO holds whichever sections apply to the viewer's role
type DashboardDTO struct {
	Role         models.Role      `json:"role"`
	Admin        *AdminSummaryDTO `json:"admin,omitempty"`
	Tasks        *TaskSummaryDTO  `json:"tasks,omitempty"`
	ProjectCount *int64           `json:"project_count,omitempty"`
	Staff        *StaffTotalsDTO  `json:"staff,omitempty"`
}

func ToDashboardDTO(d services.Dashboard) DashboardDTO {
	dto := DashboardDTO{
		Role:         d.Role,
		ProjectCount: d.ProjectCount,
	}

	if d.Admin != nil {
		dto.Admin = &AdminSummaryDTO{
			Counts:               d.Admin.Counts,
			HODs:                 ToUserDTOs(d.Admin.HODs),
			SchoolsPerCampus:     nonNilCounts(d.Admin.SchoolsPerCampus),
			DepartmentsPerSchool: nonNilCounts(d.Admin.DepartmentsPerSchool),
		}
	}
	if d.Tasks != nil {
		dto.Tasks = &TaskSummaryDTO{
			StatusCounts:      d.Tasks.StatusCounts,
			Total:             d.Tasks.Total,
			CompletedRecently: d.Tasks.CompletedRecently,
			UpdatedRecently:   d.Tasks.UpdatedRecently,
			CreatedRecently:   d.Tasks.CreatedRecently,
			DueSoon:           d.Tasks.DueSoon,
			RecentTasks:       ToTaskDTOs(d.Tasks.Recent),
		}
	}
	if d.Staff != nil {
		dto.Staff = &StaffTotalsDTO{
			ByCampus:     nonNilCounts(d.Staff.ByCampus),
			ByDepartment: nonNilCounts(d.Staff.ByDepartment),
		}
	}

	return dto
}

func nonNilCounts(rows []repository.NamedCount) []repository.NamedCount {
	if rows == nil {
		return []repository.NamedCount{}
	}
	return rows
}
