package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/academic-task-api/internal/dto"
)

func (s *HandlerTestSuite) TestOrganizationHierarchy() {
	w := s.as(s.admin, http.MethodPost, "/api/campuses", gin.H{"name": "North"})
	s.Require().Equal(http.StatusCreated, w.Code)
	var campus dto.CampusDTO
	s.decode(w, &campus)
	s.Equal("North", campus.Name)

	w = s.as(s.admin, http.MethodPost, "/api/campuses", gin.H{"name": "   "})
	s.Equal(http.StatusBadRequest, w.Code)
	s.Contains(w.Body.String(), "name")

	w = s.as(s.admin, http.MethodPost, "/api/schools", gin.H{"name": "Engineering", "campus_id": 99999})
	s.Equal(http.StatusNotFound, w.Code)

	w = s.as(s.admin, http.MethodPost, "/api/schools", gin.H{"name": "Engineering", "campus_id": campus.ID})
	s.Require().Equal(http.StatusCreated, w.Code)
	var school dto.SchoolDTO
	s.decode(w, &school)

	w = s.as(s.admin, http.MethodPost, "/api/departments", gin.H{"name": "Civil", "school_id": school.ID})
	s.Require().Equal(http.StatusCreated, w.Code)
	var dept dto.DepartmentDTO
	s.decode(w, &dept)
	s.Equal(campus.ID, dept.CampusID)

	w = s.as(s.admin, http.MethodPost, "/api/departments", gin.H{
		"name":      "Mechanical",
		"school_id": school.ID,
		"campus_id": s.org.Campus.ID,
	})
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.as(s.student, http.MethodGet, urlf("/api/departments?school_id=%d", school.ID), nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var listed struct {
		Departments []dto.DepartmentDTO `json:"departments"`
	}
	s.decode(w, &listed)
	s.Require().Len(listed.Departments, 1)
	s.Equal(dept.ID, listed.Departments[0].ID)

	s.Equal(http.StatusBadRequest, s.as(s.student, http.MethodGet, "/api/departments?school_id=abc", nil).Code)
	s.Equal(http.StatusBadRequest, s.as(s.student, http.MethodGet, "/api/campuses/abc", nil).Code)

	w = s.as(s.admin, http.MethodPut, urlf("/api/campuses/%d", campus.ID), gin.H{"name": "North Campus"})
	s.Require().Equal(http.StatusOK, w.Code)
	s.decode(w, &campus)
	s.Equal("North Campus", campus.Name)

	s.Equal(http.StatusOK, s.as(s.admin, http.MethodDelete, urlf("/api/campuses/%d", campus.ID), nil).Code)
	s.Equal(http.StatusNotFound, s.as(s.admin, http.MethodGet, urlf("/api/schools/%d", school.ID), nil).Code)
}

func (s *HandlerTestSuite) TestOrganizationWritesAreAdminOnly() {
	w := s.as(s.hod, http.MethodPost, "/api/campuses", gin.H{"name": "South"})
	s.Equal(http.StatusForbidden, w.Code)

	w = s.as(s.student, http.MethodDelete, urlf("/api/departments/%d", s.org.Department.ID), nil)
	s.Equal(http.StatusForbidden, w.Code)

	w = s.as(s.student, http.MethodGet, "/api/campuses", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var listed struct {
		Campuses []dto.CampusDTO `json:"campuses"`
	}
	s.decode(w, &listed)
	s.Len(listed.Campuses, 1)
}
