package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/academic-task-api/internal/dto"
	"github.com/yukikurage/academic-task-api/internal/models"
)

func (s *HandlerTestSuite) TestCreateUser() {
	body := gin.H{
		"username":              "new.student",
		"email":                 "new.student@example.edu",
		"password":              "longenough",
		"password_confirmation": "longenough",
		"phone_number":          "5551234",
		"campus_id":             s.org.Campus.ID,
		"school_id":             s.org.School.ID,
		"department_ids":        []uint64{s.org.Department.ID},
		"role":                  "student",
	}
	w := s.as(s.admin, http.MethodPost, "/api/users", body)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var user dto.UserDTO
	s.decode(w, &user)
	s.Equal(models.RoleStudent, user.Role)
	s.Require().Len(user.Departments, 1)
	s.Equal(s.org.Department.ID, user.Departments[0].ID)

	w = s.as(s.admin, http.MethodPost, "/api/users", body)
	s.Equal(http.StatusConflict, w.Code)

	body["username"] = "bad.phone"
	body["email"] = "bad.phone@example.edu"
	body["phone_number"] = "555-1234"
	w = s.as(s.admin, http.MethodPost, "/api/users", body)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Contains(w.Body.String(), "phone_number")

	w = s.as(s.hod, http.MethodPost, "/api/users", gin.H{
		"username":              "wannabe",
		"email":                 "wannabe@example.edu",
		"password":              "longenough",
		"password_confirmation": "longenough",
		"role":                  "admin",
	})
	s.Equal(http.StatusForbidden, w.Code)

	body["username"] = "hod.made"
	body["email"] = "hod.made@example.edu"
	body["phone_number"] = "5550000"
	body["role"] = "staff"
	w = s.as(s.hod, http.MethodPost, "/api/users", body)
	s.Equal(http.StatusForbidden, w.Code)

	w = s.as(s.staff, http.MethodPost, "/api/users", body)
	s.Equal(http.StatusForbidden, w.Code)
}

func (s *HandlerTestSuite) TestListUsers() {
	var listed struct {
		Users []dto.UserDTO `json:"users"`
	}

	w := s.as(s.student, http.MethodGet, "/api/users", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.decode(w, &listed)
	s.Require().Len(listed.Users, 1)
	s.Equal(s.student.ID, listed.Users[0].ID)

	w = s.as(s.admin, http.MethodGet, "/api/users?role=hod", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.decode(w, &listed)
	s.Require().Len(listed.Users, 1)
	s.Equal(s.hod.ID, listed.Users[0].ID)

	s.Equal(http.StatusBadRequest, s.as(s.admin, http.MethodGet, "/api/users?role=dean", nil).Code)

	s.Equal(http.StatusOK, s.as(s.staff, http.MethodGet, urlf("/api/users/%d", s.student.ID), nil).Code)
	s.Equal(http.StatusNotFound, s.as(s.staff, http.MethodGet, urlf("/api/users/%d", s.outsider.ID), nil).Code)
}

func (s *HandlerTestSuite) TestUserRoleAndDelete() {
	w := s.as(s.admin, http.MethodPut, urlf("/api/users/%d/role", s.student.ID), gin.H{"role": "staff"})
	s.Require().Equal(http.StatusOK, w.Code)
	var user dto.UserDTO
	s.decode(w, &user)
	s.Equal(models.RoleStaff, user.Role)

	w = s.as(s.admin, http.MethodPut, urlf("/api/users/%d/role", s.admin.ID), gin.H{"role": "staff"})
	s.Equal(http.StatusForbidden, w.Code)

	w = s.as(s.admin, http.MethodPut, urlf("/api/users/%d", s.outsider.ID), gin.H{"is_active": false})
	s.Require().Equal(http.StatusOK, w.Code)
	s.decode(w, &user)
	s.False(user.IsActive)

	s.Equal(http.StatusOK, s.as(s.admin, http.MethodDelete, urlf("/api/users/%d", s.outsider.ID), nil).Code)
	s.Equal(http.StatusNotFound, s.as(s.admin, http.MethodGet, urlf("/api/users/%d", s.outsider.ID), nil).Code)
}

func (s *HandlerTestSuite) TestStaffManagement() {
	w := s.as(s.hod, http.MethodPost, "/api/staff", gin.H{
		"username": "new.staff",
		"email":    "new.staff@example.edu",
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var created dto.StaffCreatedDTO
	s.decode(w, &created)
	s.NotEmpty(created.TemporaryPassword)
	s.Equal(models.RoleStaff, created.User.Role)
	s.Require().Len(created.User.Departments, 1)
	s.Equal(s.org.Department.ID, created.User.Departments[0].ID)

	w = s.serve(s.router, http.MethodPost, "/api/auth/login", gin.H{
		"login":    "new.staff",
		"password": created.TemporaryPassword,
	}, nil)
	s.Equal(http.StatusOK, w.Code)

	w = s.as(s.hod, http.MethodGet, "/api/staff", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var listed struct {
		Staff []dto.UserDTO `json:"staff"`
	}
	s.decode(w, &listed)
	s.Len(listed.Staff, 2)

	w = s.as(s.hod, http.MethodPut, urlf("/api/staff/%d", created.User.ID), gin.H{
		"email": "renamed.staff@example.edu",
	})
	s.Require().Equal(http.StatusOK, w.Code)
	var updated dto.UserDTO
	s.decode(w, &updated)
	s.Equal("renamed.staff@example.edu", updated.Email)

	s.Equal(http.StatusForbidden, s.as(s.staff, http.MethodGet, "/api/staff", nil).Code)
	s.Equal(http.StatusOK, s.as(s.hod, http.MethodDelete, urlf("/api/staff/%d", created.User.ID), nil).Code)
}
