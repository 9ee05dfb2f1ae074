package repository

import (
	"time"

	"github.com/yukikurage/academic-task-api/internal/models"
	"github.com/yukikurage/academic-task-api/internal/utils"
	"github.com/yukikurage/academic-task-api/internal/visibility"
)

type (
	ProjectScope = visibility.Scope[visibility.ProjectFacts]
	TaskScope    = visibility.Scope[visibility.TaskFacts]
	TeamScope    = visibility.Scope[visibility.TeamFacts]
	UserScope    = visibility.Scope[visibility.UserFacts]
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a user and links the given departments
	Create(user *models.User) error

	// FindByID finds a user by ID with departments, campus and school
	FindByID(id uint64) (*models.User, error)

	// FindByLogin finds a user by username or email
	FindByLogin(login string) (*models.User, error)

	// List lists users matching the filter
	List(filter UserFilter) ([]models.User, error)

	// Update saves the user; a non-nil departments slice replaces the links
	Update(user *models.User, departments []models.Department) error

	// Delete soft deletes a user
	Delete(id uint64) error

	// IsTaken reports whether another user already holds value in column
	IsTaken(column UniqueColumn, value string, excludeID uint64) (bool, error)
}

// UniqueColumn names a user column that must be unique when non-empty.
type UniqueColumn string

const (
	ColumnUsername    UniqueColumn = "username"
	ColumnEmail       UniqueColumn = "email"
	ColumnEmpID       UniqueColumn = "emp_id"
	ColumnPhoneNumber UniqueColumn = "phone_number"
)

// UserFilter holds filtering options for listing users
type UserFilter struct {
	Scope         UserScope
	IDs           []uint64
	Roles         []models.Role
	DepartmentIDs []uint64
}

// OrganizationRepository defines the interface for the campus hierarchy
type OrganizationRepository interface {
	CreateCampus(campus *models.Campus) error
	FindCampus(id uint64) (*models.Campus, error)
	ListCampuses() ([]models.Campus, error)
	UpdateCampus(campus *models.Campus) error
	// DeleteCampus deletes the campus with its schools and departments
	DeleteCampus(id uint64) error

	CreateSchool(school *models.School) error
	FindSchool(id uint64) (*models.School, error)
	ListSchools(campusID *uint64) ([]models.School, error)
	UpdateSchool(school *models.School) error
	// DeleteSchool deletes the school with its departments
	DeleteSchool(id uint64) error

	CreateDepartment(dept *models.Department) error
	FindDepartment(id uint64) (*models.Department, error)
	ListDepartments(schoolID *uint64) ([]models.Department, error)
	FindDepartmentsByIDs(ids []uint64) ([]models.Department, error)
	UpdateDepartment(dept *models.Department) error
	DeleteDepartment(id uint64) error
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// Create creates a project and links the given departments
	Create(project *models.Project) error

	// FindVisible finds a project by ID within the scope
	FindVisible(id uint64, scope ProjectScope) (*models.Project, error)

	// ListVisible lists projects within the scope, newest first
	ListVisible(scope ProjectScope) ([]models.Project, error)

	// CountVisible counts projects within the scope
	CountVisible(scope ProjectScope) (int64, error)

	// Update saves the project; a non-nil departments slice replaces the links
	Update(project *models.Project, departments []models.Department) error

	// Delete soft deletes a project and its tasks
	Delete(id uint64) error
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// CreateBatch creates tasks in a single transaction
	CreateBatch(tasks []models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// FindVisible finds a task by ID within the scope
	FindVisible(id uint64, scope TaskScope, preload ...string) (*models.Task, error)

	// List retrieves tasks with filtering and pagination
	List(filter TaskFilter) ([]models.Task, int64, error)

	// Sprints lists the distinct non-empty sprint names within the scope
	Sprints(scope TaskScope) ([]string, error)

	// Update updates the editable fields of a task. Status and clock
	// columns are left alone.
	Update(task *models.Task) error

	// Activity counts the filtered tasks per status
	Activity(filter TaskFilter, since, dueBy time.Time) ([]TaskStatusActivity, error)

	// Recent returns the most recently updated tasks matching the filter
	Recent(filter TaskFilter, limit int) ([]models.Task, error)

	// Transition applies a status or clock change to a freshly locked copy
	// of the task. apply returns false to leave the row untouched.
	Transition(id uint64, apply func(task *models.Task) bool) error

	// Delete soft deletes a task and removes its subtasks and comments
	Delete(id uint64) error
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	Scope         TaskScope
	ProjectID     *uint64
	TeamID        *uint64
	AssignedToID  *uint64
	Query         string
	Status        *models.TaskStatus
	Priority      *models.TaskPriority
	Sprint        string
	UpdatedSince  *time.Time
	SortByDueDate bool
	// Pagination of nil returns every match
	Pagination *utils.PaginationParams
}

// TaskStatusActivity is one status bucket of TaskRepository.Activity. Updated
// and Created count tasks touched since the given time; DueSoon counts tasks
// with a due date up to dueBy, overdue ones included.
type TaskStatusActivity struct {
	Status  models.TaskStatus
	Total   int64
	Updated int64
	Created int64
	DueSoon int64
}

// SubTaskRepository defines the interface for subtask data access
type SubTaskRepository interface {
	Create(subtask *models.SubTask) error
	FindByID(id uint64) (*models.SubTask, error)
	ListByTask(taskID uint64) ([]models.SubTask, error)
	Update(subtask *models.SubTask) error
}

// CommentRepository defines the interface for task comments
type CommentRepository interface {
	Create(comment *models.Comment) error
	ListByTask(taskID uint64) ([]models.Comment, error)
}

// WorkLogRepository defines the interface for work logs
type WorkLogRepository interface {
	Create(log *models.WorkLog) error
	FindByID(id uint64) (*models.WorkLog, error)

	// Close records the end of an open log and adds its duration to the
	// task total. It returns ErrWorkLogClosed when the log was already closed.
	Close(log *models.WorkLog) error
}

// TeamRepository defines the interface for team data access
type TeamRepository interface {
	// Create creates a team and its member rows; the lead is never a member row
	Create(team *models.Team, memberIDs []uint64) error

	// FindByID finds a team with its lead and members
	FindByID(id uint64) (*models.Team, error)

	// FindVisible finds a team by ID within the scope
	FindVisible(id uint64, scope TeamScope) (*models.Team, error)

	// ListVisible lists teams within the scope
	ListVisible(scope TeamScope) ([]models.Team, error)

	// CountVisible counts how many of ids are within the scope
	CountVisible(ids []uint64, scope TeamScope) (int64, error)

	// Update saves the team and replaces its member rows
	Update(team *models.Team, memberIDs []uint64) error

	// Delete soft deletes a team and removes its member and event links
	Delete(id uint64) error
}

// EventRepository defines the interface for event data access
type EventRepository interface {
	// Create creates an event linked to the given teams
	Create(event *models.Event, teamIDs []uint64) error

	FindByID(id uint64) (*models.Event, error)

	// ListForViewer lists events the user created or that involve a team
	// within the scope
	ListForViewer(userID uint64, scope TeamScope) ([]models.Event, error)
}

// DashboardRepository defines aggregate queries used by dashboards
type DashboardRepository interface {
	CountOrganization() (OrganizationCounts, error)
	ListUsersByRole(role models.Role) ([]models.User, error)
	SchoolsPerCampus() ([]NamedCount, error)
	DepartmentsPerSchool() ([]NamedCount, error)
	// StaffByCampus counts staff in the departments grouped by campus
	StaffByCampus(departmentIDs []uint64) ([]NamedCount, error)
	// StaffByDepartment counts staff grouped by each of the departments
	StaffByDepartment(departmentIDs []uint64) ([]NamedCount, error)
}

type OrganizationCounts struct {
	Campuses    int64 `json:"campuses"`
	Schools     int64 `json:"schools"`
	Departments int64 `json:"departments"`
	Users       int64 `json:"users"`
}

// NamedCount is one row of a grouped count.
type NamedCount struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Count int64  `json:"count"`
}
