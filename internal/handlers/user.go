package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/academic-task-api/internal/dto"
	apierrors "github.com/yukikurage/academic-task-api/internal/errors"
	"github.com/yukikurage/academic-task-api/internal/models"
	"github.com/yukikurage/academic-task-api/internal/services"
)

// UserHandler serves account management for admins and staff management for
// HODs.
type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// ListUsers lists the users visible to the viewer, optionally by ?role=.
func (h *UserHandler) ListUsers(c *gin.Context) {
	viewer, ok := currentViewer(c)
	if !ok {
		return
	}

	var role *models.Role
	if raw := c.Query("role"); raw != "" {
		r := models.Role(raw)
		if !r.Valid() {
			apierrors.BadRequest(c, "Invalid role")
			return
		}
		role = &r
	}

	users, err := h.userService.ListUsers(viewer, role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": dto.ToUserDTOs(users)})
}

func (h *UserHandler) GetUser(c *gin.Context) {
	viewer, ok := currentViewer(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "user")
	if !ok {
		return
	}

	user, err := h.userService.GetUser(viewer, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	type CreateUserRequest struct {
		Username             string      `json:"username" binding:"required,notblank,max=150"`
		Email                string      `json:"email" binding:"required,email"`
		Password             string      `json:"password" binding:"required"`
		PasswordConfirmation string      `json:"password_confirmation" binding:"required"`
		EmpID                string      `json:"emp_id" binding:"max=50"`
		PhoneNumber          string      `json:"phone_number" binding:"max=20,digits_only"`
		Gender               string      `json:"gender" binding:"max=10"`
		CampusID             *uint64     `json:"campus_id"`
		SchoolID             *uint64     `json:"school_id"`
		DepartmentIDs        []uint64    `json:"department_ids"`
		Role                 models.Role `json:"role" binding:"required,role"`
	}

	viewer, ok := currentViewer(c)
	if !ok {
		return
	}

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.userService.CreateUser(viewer, services.CreateUserInput{
		Username:             req.Username,
		Email:                req.Email,
		Password:             req.Password,
		PasswordConfirmation: req.PasswordConfirmation,
		EmpID:                req.EmpID,
		PhoneNumber:          req.PhoneNumber,
		Gender:               req.Gender,
		CampusID:             req.CampusID,
		SchoolID:             req.SchoolID,
		DepartmentIDs:        req.DepartmentIDs,
		Role:                 req.Role,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToUserDTO(*user))
}

// UpdateUser changes profile and placement fields; absent fields are kept.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	type UpdateUserRequest struct {
		Email         *string  `json:"email" binding:"omitempty,email"`
		EmpID         *string  `json:"emp_id" binding:"omitempty,max=50"`
		PhoneNumber   *string  `json:"phone_number" binding:"omitempty,max=20,digits_only"`
		Gender        *string  `json:"gender" binding:"omitempty,max=10"`
		CampusID      *uint64  `json:"campus_id"`
		SchoolID      *uint64  `json:"school_id"`
		DepartmentIDs []uint64 `json:"department_ids"`
		IsActive      *bool    `json:"is_active"`
	}

	id, ok := paramID(c, "id", "user")
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.userService.UpdateUser(id, services.UpdateUserInput{
		Email:         req.Email,
		EmpID:         req.EmpID,
		PhoneNumber:   req.PhoneNumber,
		Gender:        req.Gender,
		CampusID:      req.CampusID,
		SchoolID:      req.SchoolID,
		DepartmentIDs: req.DepartmentIDs,
		IsActive:      req.IsActive,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

func (h *UserHandler) UpdateRole(c *gin.Context) {
	type UpdateRoleRequest struct {
		Role models.Role `json:"role" binding:"required,role"`
	}

	viewer, ok := currentViewer(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "user")
	if !ok {
		return
	}

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.userService.UpdateRole(viewer, id, req.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	viewer, ok := currentViewer(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "user")
	if !ok {
		return
	}

	if err := h.userService.DeleteUser(viewer, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

type staffRequest struct {
	Username      string   `json:"username" binding:"required,notblank,max=150"`
	Email         string   `json:"email" binding:"required,email"`
	EmpID         string   `json:"emp_id" binding:"max=50"`
	PhoneNumber   string   `json:"phone_number" binding:"max=20,digits_only"`
	Gender        string   `json:"gender" binding:"max=10"`
	DepartmentIDs []uint64 `json:"department_ids"`
}

// staffUpdateRequest omits the username, which cannot change.
type staffUpdateRequest struct {
	Email         string   `json:"email" binding:"required,email"`
	EmpID         string   `json:"emp_id" binding:"max=50"`
	PhoneNumber   string   `json:"phone_number" binding:"max=20,digits_only"`
	Gender        string   `json:"gender" binding:"max=10"`
	DepartmentIDs []uint64 `json:"department_ids"`
}

func (r staffRequest) input() services.StaffInput {
	return services.StaffInput{
		Username:      r.Username,
		Email:         r.Email,
		EmpID:         r.EmpID,
		PhoneNumber:   r.PhoneNumber,
		Gender:        r.Gender,
		DepartmentIDs: r.DepartmentIDs,
	}
}

// ListStaff lists staff in the HOD's departments.
func (h *UserHandler) ListStaff(c *gin.Context) {
	viewer, ok := currentViewer(c)
	if !ok {
		return
	}

	staff, err := h.userService.ListStaff(viewer)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"staff": dto.ToUserDTOs(staff)})
}

// CreateStaff creates a staff account and returns its temporary password.
// The password is not retrievable later.
func (h *UserHandler) CreateStaff(c *gin.Context) {
	viewer, ok := currentViewer(c)
	if !ok {
		return
	}

	var req staffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, password, err := h.userService.CreateStaff(viewer, req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.StaffCreatedDTO{
		User:              dto.ToUserDTO(*user),
		TemporaryPassword: password,
	})
}

func (h *UserHandler) UpdateStaff(c *gin.Context) {
	viewer, ok := currentViewer(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "staff")
	if !ok {
		return
	}

	var req staffUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.userService.UpdateStaff(viewer, id, services.StaffInput{
		Email:         req.Email,
		EmpID:         req.EmpID,
		PhoneNumber:   req.PhoneNumber,
		Gender:        req.Gender,
		DepartmentIDs: req.DepartmentIDs,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

func (h *UserHandler) DeleteStaff(c *gin.Context) {
	viewer, ok := currentViewer(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id", "staff")
	if !ok {
		return
	}

	if err := h.userService.DeleteStaff(viewer, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Staff deleted successfully"})
}
