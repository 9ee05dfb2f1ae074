// Package testutil opens throwaway databases and creates fixtures for tests.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/academic-task-api/internal/database"
	"github.com/yukikurage/academic-task-api/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Password is the plain-text password of every user created by CreateUser.
const Password = "supersecret"

var (
	seq          atomic.Uint64
	passwordHash string
)

func init() {
	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	passwordHash = string(hash)
}

// NewTestDB opens an in-memory SQLite database with every model migrated and
// installs it as the global database.
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, db.AutoMigrate(models.All()...))
	database.SetDB(db)
	return db
}

func next() uint64 {
	return seq.Add(1)
}

// Org is a campus with one school and one department.
type Org struct {
	Campus     *models.Campus
	School     *models.School
	Department *models.Department
}

func CreateOrg(t testing.TB, db *gorm.DB) Org {
	t.Helper()
	n := next()

	campus := &models.Campus{Name: fmt.Sprintf("Campus %d", n)}
	require.NoError(t, db.Create(campus).Error)
	school := &models.School{Name: fmt.Sprintf("School %d", n), CampusID: campus.ID}
	require.NoError(t, db.Create(school).Error)
	dept := CreateDepartment(t, db, school)

	return Org{Campus: campus, School: school, Department: dept}
}

func CreateDepartment(t testing.TB, db *gorm.DB, school *models.School) *models.Department {
	t.Helper()
	dept := &models.Department{
		Name:     fmt.Sprintf("Department %d", next()),
		SchoolID: school.ID,
		CampusID: school.CampusID,
	}
	require.NoError(t, db.Create(dept).Error)
	return dept
}

// CreateUser creates an active user with the role, attached to departments.
func CreateUser(t testing.TB, db *gorm.DB, role models.Role, departments ...*models.Department) *models.User {
	t.Helper()
	n := next()

	user := &models.User{
		Username:     fmt.Sprintf("user%d", n),
		Email:        fmt.Sprintf("user%d@example.edu", n),
		PasswordHash: passwordHash,
		Role:         role,
		IsActive:     true,
	}
	for _, d := range departments {
		user.Departments = append(user.Departments, *d)
		user.SchoolID = &d.SchoolID
		user.CampusID = &d.CampusID
	}
	require.NoError(t, db.Omit("Departments.*").Create(user).Error)
	return user
}

func CreateProject(t testing.TB, db *gorm.DB, creator *models.User, departments ...*models.Department) *models.Project {
	t.Helper()

	project := &models.Project{Name: fmt.Sprintf("Project %d", next())}
	if creator != nil {
		project.CreatedByID = &creator.ID
	}
	for _, d := range departments {
		project.Departments = append(project.Departments, *d)
	}
	require.NoError(t, db.Omit("Departments.*").Create(project).Error)
	return project
}

// TaskOption customises a fixture task.
type TaskOption func(*models.Task)

func InProject(p *models.Project) TaskOption {
	return func(task *models.Task) { task.ProjectID = &p.ID }
}

func WithStatus(s models.TaskStatus) TaskOption {
	return func(task *models.Task) { task.Status = s }
}

func DueAt(d time.Time) TaskOption {
	return func(task *models.Task) { task.DueDate = &d }
}

func InSprint(s string) TaskOption {
	return func(task *models.Task) { task.Sprint = s }
}

func CreateTask(t testing.TB, db *gorm.DB, assignedBy, assignedTo *models.User, opts ...TaskOption) *models.Task {
	t.Helper()

	task := &models.Task{
		Title:        fmt.Sprintf("Task %d", next()),
		AssignedByID: assignedBy.ID,
		Status:       models.TaskStatusTodo,
		Priority:     models.TaskPriorityMedium,
	}
	if assignedTo != nil {
		task.AssignedToID = &assignedTo.ID
	}
	for _, opt := range opts {
		opt(task)
	}
	require.NoError(t, db.Create(task).Error)
	return task
}

func CreateTeam(t testing.TB, db *gorm.DB, lead *models.User, members ...*models.User) *models.Team {
	t.Helper()

	team := &models.Team{Name: fmt.Sprintf("Team %d", next()), LeadID: lead.ID}
	require.NoError(t, db.Omit("Members").Create(team).Error)
	for _, m := range members {
		require.NoError(t, db.Create(&models.TeamMember{TeamID: team.ID, UserID: m.ID}).Error)
	}
	return team
}
