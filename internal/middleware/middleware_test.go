package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/academic-task-api/internal/constants"
	"github.com/yukikurage/academic-task-api/internal/models"
	"github.com/yukikurage/academic-task-api/internal/testutil"
	"gorm.io/gorm"
)

type MiddlewareTestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine

	org              testutil.Org
	staff, student   *models.User
	outsider, noRole *models.User
}

func TestMiddlewareTestSuite(t *testing.T) {
	suite.Run(t, new(MiddlewareTestSuite))
}

func (s *MiddlewareTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.db = testutil.NewTestDB(s.T())
	s.org = testutil.CreateOrg(s.T(), s.db)
	s.staff = testutil.CreateUser(s.T(), s.db, models.RoleStaff, s.org.Department)
	s.student = testutil.CreateUser(s.T(), s.db, models.RoleStudent, s.org.Department)
	s.outsider = testutil.CreateUser(s.T(), s.db, models.RoleStudent)
	s.noRole = testutil.CreateUser(s.T(), s.db, models.RoleNone)

	r := gin.New()
	r.Use(RequestLogger(), Recovery())
	r.Use(sessions.Sessions(constants.SessionCookieName, cookie.NewStore([]byte("secret"))))
	r.GET("/login/:id", func(c *gin.Context) {
		id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
		session := sessions.Default(c)
		session.Set(constants.ContextKeyUserID, id)
		_ = session.Save()
		c.Status(http.StatusNoContent)
	})

	api := r.Group("/api", RequireAuth(), LoadViewer())
	api.GET("/me", func(c *gin.Context) {
		user, _ := GetCurrentUser(c)
		c.String(http.StatusOK, user.Username)
	})
	api.GET("/staff-only", RequireRole(models.RoleAdmin, models.RoleStaff), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	api.GET("/tasks/:id", RequireTaskAccess(), func(c *gin.Context) {
		task, _ := GetTask(c)
		c.String(http.StatusOK, task.Title)
	})
	api.GET("/projects/:id", RequireProjectAccess(), func(c *gin.Context) {
		project, _ := GetProject(c)
		c.String(http.StatusOK, project.Name)
	})
	api.GET("/teams/:id", RequireTeamAccess(), func(c *gin.Context) {
		team, _ := GetTeam(c)
		c.String(http.StatusOK, team.Name)
	})
	api.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})
	s.router = r
}

// as performs a GET request with a session for the user; nil sends no cookie.
func (s *MiddlewareTestSuite) as(user *models.User, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if user != nil {
		login := httptest.NewRecorder()
		s.router.ServeHTTP(login, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/login/%d", user.ID), nil))
		for _, c := range login.Result().Cookies() {
			req.AddCookie(c)
		}
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *MiddlewareTestSuite) TestAuthentication() {
	s.Equal(http.StatusUnauthorized, s.as(nil, "/api/me").Code)

	w := s.as(s.staff, "/api/me")
	s.Equal(http.StatusOK, w.Code)
	s.Equal(s.staff.Username, w.Body.String())
	s.NotEmpty(w.Header().Get(requestIDHeader))

	w = s.as(s.noRole, "/api/me")
	s.Equal(http.StatusForbidden, w.Code)
	s.Contains(w.Body.String(), "EMAIL_NOT_REGISTERED")

	s.Require().NoError(s.db.Model(s.student).Update("is_active", false).Error)
	w = s.as(s.student, "/api/me")
	s.Equal(http.StatusForbidden, w.Code)
	s.Contains(w.Body.String(), "INACTIVE_ACCOUNT")

	s.Require().NoError(s.db.Delete(s.outsider).Error)
	s.Equal(http.StatusUnauthorized, s.as(s.outsider, "/api/me").Code)
}

func (s *MiddlewareTestSuite) TestRequireRole() {
	s.Equal(http.StatusOK, s.as(s.staff, "/api/staff-only").Code)
	s.Equal(http.StatusForbidden, s.as(s.student, "/api/staff-only").Code)
}

func (s *MiddlewareTestSuite) TestResourceAccess() {
	task := testutil.CreateTask(s.T(), s.db, s.staff, s.student)
	project := testutil.CreateProject(s.T(), s.db, s.staff, s.org.Department)
	team := testutil.CreateTeam(s.T(), s.db, s.staff, s.student)

	w := s.as(s.student, fmt.Sprintf("/api/tasks/%d", task.ID))
	s.Equal(http.StatusOK, w.Code)
	s.Equal(task.Title, w.Body.String())
	s.Equal(http.StatusNotFound, s.as(s.outsider, fmt.Sprintf("/api/tasks/%d", task.ID)).Code)
	s.Equal(http.StatusBadRequest, s.as(s.student, "/api/tasks/abc").Code)

	s.Equal(http.StatusOK, s.as(s.staff, fmt.Sprintf("/api/projects/%d", project.ID)).Code)
	s.Equal(http.StatusNotFound, s.as(s.student, fmt.Sprintf("/api/projects/%d", project.ID)).Code)

	s.Equal(http.StatusOK, s.as(s.student, fmt.Sprintf("/api/teams/%d", team.ID)).Code)
	s.Equal(http.StatusNotFound, s.as(s.outsider, fmt.Sprintf("/api/teams/%d", team.ID)).Code)
}

func (s *MiddlewareTestSuite) TestRecovery() {
	w := s.as(s.staff, "/api/panic")
	s.Equal(http.StatusInternalServerError, w.Code)
	s.Contains(w.Body.String(), "INTERNAL_ERROR")
}
