package services

import (
	"context"
	"time"

	"github.com/yukikurage/academic-task-api/internal/models"
	"github.com/yukikurage/academic-task-api/internal/repository"
	"github.com/yukikurage/academic-task-api/internal/visibility"
	"gorm.io/gorm"
)

// testServices wires every service to one database.
type testServices struct {
	auth      *AuthService
	org       *OrganizationService
	users     *UserService
	projects  *ProjectService
	tasks     *TaskService
	activity  *TaskActivityService
	teams     *TeamService
	events    *EventService
	dashboard *DashboardService
}

func newTestServices(db *gorm.DB, suggester SubTaskSuggester) *testServices {
	userRepo := repository.NewUserRepository(db)
	orgRepo := repository.NewOrganizationRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	teamRepo := repository.NewTeamRepository(db)

	org := NewOrganizationService(orgRepo)
	return &testServices{
		auth:      NewAuthService(userRepo),
		org:       org,
		users:     NewUserService(userRepo, org),
		projects:  NewProjectService(projectRepo, orgRepo),
		tasks:     NewTaskService(taskRepo, projectRepo, teamRepo, userRepo, suggester),
		activity:  NewTaskActivityService(taskRepo, repository.NewSubTaskRepository(db), repository.NewCommentRepository(db), repository.NewWorkLogRepository(db), userRepo),
		teams:     NewTeamService(teamRepo, userRepo),
		events:    NewEventService(repository.NewEventRepository(db), teamRepo),
		dashboard: NewDashboardService(repository.NewDashboardRepository(db), taskRepo, projectRepo),
	}
}

func viewerOf(u *models.User) visibility.Viewer {
	return visibility.NewViewer(u)
}

// fakeClock returns a settable time.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

// stubSuggester returns canned suggestions.
type stubSuggester struct {
	suggestions []SuggestedSubTask
	err         error
}

func (s *stubSuggester) SuggestSubTasks(ctx context.Context, title, description string) ([]SuggestedSubTask, error) {
	return s.suggestions, s.err
}

func ptr[T any](v T) *T {
	return &v
}
