package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/academic-task-api/internal/dto"
	"github.com/yukikurage/academic-task-api/internal/models"
	"github.com/yukikurage/academic-task-api/internal/testutil"
)

func (s *HandlerTestSuite) TestLogin() {
	w := s.login(s.staff, testutil.Password)
	s.Require().Equal(http.StatusOK, w.Code)
	var user dto.UserDTO
	s.decode(w, &user)
	s.Equal(s.staff.Username, user.Username)
	s.Equal(models.RoleStaff, user.Role)
	s.Len(user.Departments, 1)

	w = s.serve(s.router, http.MethodPost, "/api/auth/login", gin.H{
		"login":    s.staff.Email,
		"password": testutil.Password,
	}, nil)
	s.Equal(http.StatusOK, w.Code)

	w = s.login(s.staff, "wrong-password")
	s.Equal(http.StatusUnauthorized, w.Code)
	s.Contains(w.Body.String(), "INVALID_CREDENTIALS")

	noRole := testutil.CreateUser(s.T(), s.db, models.RoleNone)
	w = s.login(noRole, testutil.Password)
	s.Equal(http.StatusForbidden, w.Code)
	s.Contains(w.Body.String(), "EMAIL_NOT_REGISTERED")

	w = s.serve(s.router, http.MethodPost, "/api/auth/login", gin.H{"login": "  "}, nil)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Contains(w.Body.String(), "password")
}

func (s *HandlerTestSuite) TestCurrentUserAndLogout() {
	s.Equal(http.StatusUnauthorized, s.as(nil, http.MethodGet, "/api/auth/me", nil).Code)

	w := s.as(s.student, http.MethodGet, "/api/auth/me", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var me dto.UserDTO
	s.decode(w, &me)
	s.Equal(s.student.ID, me.ID)

	w = s.serve(s.router, http.MethodPost, "/api/auth/logout", nil, s.sessionFor(s.student))
	s.Require().Equal(http.StatusOK, w.Code)

	w = s.serve(s.router, http.MethodGet, "/api/auth/me", nil, w.Result().Cookies())
	s.Equal(http.StatusUnauthorized, w.Code)
}

func (s *HandlerTestSuite) TestChangePassword() {
	w := s.as(s.student, http.MethodPost, "/api/auth/password", gin.H{
		"current_password":      testutil.Password,
		"new_password":          "short",
		"password_confirmation": "short",
	})
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.as(s.student, http.MethodPost, "/api/auth/password", gin.H{
		"current_password":      "not-my-password",
		"new_password":          "a-new-password",
		"password_confirmation": "a-new-password",
	})
	s.Equal(http.StatusUnauthorized, w.Code)

	w = s.as(s.student, http.MethodPost, "/api/auth/password", gin.H{
		"current_password":      testutil.Password,
		"new_password":          "a-new-password",
		"password_confirmation": "another-password",
	})
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.as(s.student, http.MethodPost, "/api/auth/password", gin.H{
		"current_password":      testutil.Password,
		"new_password":          "a-new-password",
		"password_confirmation": "a-new-password",
	})
	s.Require().Equal(http.StatusOK, w.Code)

	s.Equal(http.StatusUnauthorized, s.login(s.student, testutil.Password).Code)
	s.Equal(http.StatusOK, s.login(s.student, "a-new-password").Code)
}
