package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/academic-task-api/internal/middleware"
	"github.com/yukikurage/academic-task-api/internal/models"
	"github.com/yukikurage/academic-task-api/internal/repository"
	"github.com/yukikurage/academic-task-api/internal/services"
	"gorm.io/gorm"
)

// Handlers groups every API handler.
type Handlers struct {
	Auth         *AuthHandler
	Organization *OrganizationHandler
	User         *UserHandler
	Project      *ProjectHandler
	Task         *TaskHandler
	Team         *TeamHandler
	Dashboard    *DashboardHandler
}

// NewHandlers builds the repositories, services and handlers on db.
// suggester may be nil when AI suggestions are not configured.
func NewHandlers(db *gorm.DB, suggester services.SubTaskSuggester) Handlers {
	userRepo := repository.NewUserRepository(db)
	orgRepo := repository.NewOrganizationRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	teamRepo := repository.NewTeamRepository(db)

	orgService := services.NewOrganizationService(orgRepo)
	taskService := services.NewTaskService(taskRepo, projectRepo, teamRepo, userRepo, suggester)
	activityService := services.NewTaskActivityService(
		taskRepo,
		repository.NewSubTaskRepository(db),
		repository.NewCommentRepository(db),
		repository.NewWorkLogRepository(db),
		userRepo,
	)

	return Handlers{
		Auth:         NewAuthHandler(services.NewAuthService(userRepo)),
		Organization: NewOrganizationHandler(orgService),
		User:         NewUserHandler(services.NewUserService(userRepo, orgService)),
		Project:      NewProjectHandler(services.NewProjectService(projectRepo, orgRepo)),
		Task:         NewTaskHandler(taskService, activityService),
		Team: NewTeamHandler(
			services.NewTeamService(teamRepo, userRepo),
			services.NewEventService(repository.NewEventRepository(db), teamRepo),
		),
		Dashboard: NewDashboardHandler(services.NewDashboardService(
			repository.NewDashboardRepository(db),
			taskRepo,
			projectRepo,
		)),
	}
}

// Register mounts the API under /api. Session middleware must already be
// installed on r.
func (h Handlers) Register(r gin.IRouter) {
	api := r.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/logout", h.Auth.Logout)
		auth.GET("/me", middleware.RequireAuth(), middleware.LoadViewer(), h.Auth.GetCurrentUser)
		auth.POST("/password", middleware.RequireAuth(), middleware.LoadViewer(), h.Auth.ChangePassword)
	}

	protected := api.Group("")
	protected.Use(middleware.RequireAuth(), middleware.LoadViewer())

	adminOnly := middleware.RequireRole(models.RoleAdmin)
	creators := middleware.RequireRole(models.RoleAdmin, models.RoleHOD, models.RoleStaff)

	// Organization hierarchy: reads for everyone, writes for admins
	campuses := protected.Group("/campuses")
	{
		campuses.GET("", h.Organization.ListCampuses)
		campuses.GET("/:id", h.Organization.GetCampus)
		campuses.POST("", adminOnly, h.Organization.CreateCampus)
		campuses.PUT("/:id", adminOnly, h.Organization.UpdateCampus)
		campuses.DELETE("/:id", adminOnly, h.Organization.DeleteCampus)
	}
	schools := protected.Group("/schools")
	{
		schools.GET("", h.Organization.ListSchools)
		schools.GET("/:id", h.Organization.GetSchool)
		schools.POST("", adminOnly, h.Organization.CreateSchool)
		schools.PUT("/:id", adminOnly, h.Organization.UpdateSchool)
		schools.DELETE("/:id", adminOnly, h.Organization.DeleteSchool)
	}
	departments := protected.Group("/departments")
	{
		departments.GET("", h.Organization.ListDepartments)
		departments.GET("/:id", h.Organization.GetDepartment)
		departments.POST("", adminOnly, h.Organization.CreateDepartment)
		departments.PUT("/:id", adminOnly, h.Organization.UpdateDepartment)
		departments.DELETE("/:id", adminOnly, h.Organization.DeleteDepartment)
	}

	users := protected.Group("/users")
	{
		users.GET("", h.User.ListUsers)
		users.GET("/:id", h.User.GetUser)
		users.POST("", adminOnly, h.User.CreateUser)
		users.PUT("/:id", adminOnly, h.User.UpdateUser)
		users.PUT("/:id/role", adminOnly, h.User.UpdateRole)
		users.DELETE("/:id", adminOnly, h.User.DeleteUser)
	}

	// HOD staff management
	staff := protected.Group("/staff", middleware.RequireRole(models.RoleHOD))
	{
		staff.GET("", h.User.ListStaff)
		staff.POST("", h.User.CreateStaff)
		staff.PUT("/:id", h.User.UpdateStaff)
		staff.DELETE("/:id", h.User.DeleteStaff)
	}

	projects := protected.Group("/projects")
	{
		projects.GET("", h.Project.ListProjects)
		projects.POST("", creators, h.Project.CreateProject)
		projects.GET("/:id", middleware.RequireProjectAccess(), h.Project.GetProject)
		projects.PUT("/:id", middleware.RequireProjectAccess(), h.Project.UpdateProject)
		projects.DELETE("/:id", middleware.RequireProjectAccess(), h.Project.DeleteProject)
	}

	tasks := protected.Group("/tasks")
	{
		tasks.GET("", h.Task.ListTasks)
		tasks.GET("/board", h.Task.Board)
		tasks.GET("/sprints", h.Task.ListSprints)
		tasks.POST("", creators, h.Task.CreateTask)

		task := tasks.Group("/:id", middleware.RequireTaskAccess())
		task.GET("", h.Task.GetTask)
		task.PATCH("", h.Task.UpdateTask)
		task.DELETE("", h.Task.DeleteTask)
		task.POST("/status", h.Task.ChangeStatus)
		task.POST("/timer/start", h.Task.StartTimer)
		task.POST("/timer/stop", h.Task.StopTimer)
		task.POST("/review", h.Task.MarkReviewed)
		task.GET("/subtasks", h.Task.ListSubTasks)
		task.POST("/subtasks", h.Task.CreateSubTask)
		task.POST("/subtasks/suggest", h.Task.SuggestSubTasks)
		task.GET("/comments", h.Task.ListComments)
		task.POST("/comments", h.Task.AddComment)
		task.POST("/worklogs", h.Task.StartWorkLog)
	}

	subtasks := protected.Group("/subtasks")
	{
		subtasks.PATCH("/:id", h.Task.UpdateSubTask)
		subtasks.POST("/:id/timer/start", h.Task.StartSubTaskTimer)
		subtasks.POST("/:id/timer/stop", h.Task.StopSubTaskTimer)
		subtasks.POST("/:id/time", h.Task.AddSubTaskTime)
	}

	protected.POST("/worklogs/:id/stop", h.Task.StopWorkLog)

	teams := protected.Group("/teams")
	{
		teams.GET("", h.Team.ListTeams)
		teams.POST("", creators, h.Team.CreateTeam)
		teams.GET("/:id", middleware.RequireTeamAccess(), h.Team.GetTeam)
		teams.GET("/:id/members", middleware.RequireTeamAccess(), h.Team.ListMembers)
		teams.PUT("/:id", middleware.RequireTeamAccess(), h.Team.UpdateTeam)
		teams.DELETE("/:id", middleware.RequireTeamAccess(), h.Team.DeleteTeam)
	}

	events := protected.Group("/events")
	{
		events.GET("", h.Team.ListEvents)
		events.POST("", creators, h.Team.CreateEvent)
	}

	protected.GET("/dashboard", h.Dashboard.GetDashboard)
}
