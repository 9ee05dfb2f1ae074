package handlers

import (
	"net/http"

	"github.com/yukikurage/academic-task-api/internal/dto"
	"github.com/yukikurage/academic-task-api/internal/models"
	"github.com/yukikurage/academic-task-api/internal/testutil"
)

func (s *HandlerTestSuite) TestDashboard() {
	project := testutil.CreateProject(s.T(), s.db, s.staff, s.org.Department)
	testutil.CreateTask(s.T(), s.db, s.staff, s.student, testutil.InProject(project))
	testutil.CreateTask(s.T(), s.db, s.staff, s.student, testutil.WithStatus(models.TaskStatusDone))

	var dashboard dto.DashboardDTO

	w := s.as(s.student, http.MethodGet, "/api/dashboard", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.decode(w, &dashboard)
	s.Equal(models.RoleStudent, dashboard.Role)
	s.Require().NotNil(dashboard.Tasks)
	s.Equal(2, dashboard.Tasks.Total)
	s.Equal(1, dashboard.Tasks.StatusCounts[models.TaskStatusDone])
	s.Nil(dashboard.ProjectCount)
	s.Nil(dashboard.Admin)

	dashboard = dto.DashboardDTO{}
	w = s.as(s.hod, http.MethodGet, urlf("/api/dashboard?project=%d", project.ID), nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.decode(w, &dashboard)
	s.Require().NotNil(dashboard.Tasks)
	s.Equal(1, dashboard.Tasks.Total)
	s.Require().NotNil(dashboard.ProjectCount)
	s.Equal(int64(1), *dashboard.ProjectCount)
	s.Require().NotNil(dashboard.Staff)
	s.Require().Len(dashboard.Staff.ByDepartment, 1)
	s.Equal(int64(1), dashboard.Staff.ByDepartment[0].Count)

	dashboard = dto.DashboardDTO{}
	w = s.as(s.admin, http.MethodGet, "/api/dashboard", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.decode(w, &dashboard)
	s.Require().NotNil(dashboard.Admin)
	s.Equal(int64(1), dashboard.Admin.Counts.Campuses)
	s.Equal(int64(5), dashboard.Admin.Counts.Users)
	s.Require().Len(dashboard.Admin.HODs, 1)
	s.Equal(s.hod.ID, dashboard.Admin.HODs[0].ID)
	s.Nil(dashboard.Tasks)

	s.Equal(http.StatusBadRequest, s.as(s.staff, http.MethodGet, "/api/dashboard?project=abc", nil).Code)
	s.Equal(http.StatusNotFound, s.as(s.outsider, http.MethodGet, urlf("/api/dashboard?project=%d", project.ID), nil).Code)
}
