package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/academic-task-api/internal/dto"
	"github.com/yukikurage/academic-task-api/internal/models"
	"github.com/yukikurage/academic-task-api/internal/testutil"
)

func (s *HandlerTestSuite) TestProjects() {
	w := s.as(s.staff, http.MethodPost, "/api/projects", gin.H{
		"name":           "Capstone",
		"description":    "Final year projects",
		"department_ids": []uint64{s.org.Department.ID},
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var project dto.ProjectDTO
	s.decode(w, &project)
	s.Require().Len(project.Departments, 1)
	s.Require().NotNil(project.CreatedByID)
	s.Equal(s.staff.ID, *project.CreatedByID)

	other := testutil.CreateOrg(s.T(), s.db)
	w = s.as(s.staff, http.MethodPost, "/api/projects", gin.H{
		"name":           "Elsewhere",
		"department_ids": []uint64{other.Department.ID},
	})
	s.Equal(http.StatusForbidden, w.Code)

	s.Equal(http.StatusForbidden, s.as(s.student, http.MethodPost, "/api/projects", gin.H{"name": "Mine"}).Code)
	s.Equal(http.StatusBadRequest, s.as(s.staff, http.MethodPost, "/api/projects", gin.H{"name": ""}).Code)

	projectURL := urlf("/api/projects/%d", project.ID)
	s.Equal(http.StatusOK, s.as(s.hod, http.MethodGet, projectURL, nil).Code)
	s.Equal(http.StatusNotFound, s.as(s.student, http.MethodGet, projectURL, nil).Code)

	w = s.as(s.hod, http.MethodGet, "/api/projects", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var listed struct {
		Projects []dto.ProjectDTO `json:"projects"`
	}
	s.decode(w, &listed)
	s.Len(listed.Projects, 1)

	w = s.as(s.staff, http.MethodPut, projectURL, gin.H{"name": "Capstone 2026"})
	s.Require().Equal(http.StatusOK, w.Code)
	s.decode(w, &project)
	s.Equal("Capstone 2026", project.Name)
	s.Len(project.Departments, 1)

	var model models.Project
	s.Require().NoError(s.db.First(&model, project.ID).Error)
	task := testutil.CreateTask(s.T(), s.db, s.staff, s.student, testutil.InProject(&model))
	s.Equal(http.StatusOK, s.as(s.student, http.MethodGet, projectURL, nil).Code)

	s.Equal(http.StatusOK, s.as(s.hod, http.MethodDelete, projectURL, nil).Code)
	s.Equal(http.StatusNotFound, s.as(s.staff, http.MethodGet, projectURL, nil).Code)
	s.Equal(http.StatusNotFound, s.as(s.staff, http.MethodGet, urlf("/api/tasks/%d", task.ID), nil).Code)
}
