package dto

import (
	"time"

	"github.com/yukikurage/academic-task-api/internal/models"
)

// CampusDTO represents a campus in API responses
type CampusDTO struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// SchoolDTO represents a school in API responses
type SchoolDTO struct {
	ID       uint64     `json:"id"`
	Name     string     `json:"name"`
	CampusID uint64     `json:"campus_id"`
	Campus   *CampusDTO `json:"campus,omitempty"`
}

// DepartmentDTO represents a department in API responses
type DepartmentDTO struct {
	ID       uint64     `json:"id"`
	Name     string     `json:"name"`
	SchoolID uint64     `json:"school_id"`
	CampusID uint64     `json:"campus_id"`
	School   *SchoolDTO `json:"school,omitempty"`
}

// UserRefDTO is the short form of a user nested in other resources
type UserRefDTO struct {
	ID       uint64      `json:"id"`
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
}

// UserDTO represents a user in API responses
type UserDTO struct {
	ID          uint64          `json:"id"`
	Username    string          `json:"username"`
	Email       string          `json:"email"`
	Role        models.Role     `json:"role"`
	EmpID       string          `json:"emp_id"`
	PhoneNumber string          `json:"phone_number"`
	Gender      string          `json:"gender"`
	CampusID    *uint64         `json:"campus_id"`
	SchoolID    *uint64         `json:"school_id"`
	IsActive    bool            `json:"is_active"`
	Departments []DepartmentDTO `json:"departments"`
	CreatedAt   time.Time       `json:"created_at"`
}

// StaffCreatedDTO is returned once when a HOD creates a staff account
type StaffCreatedDTO struct {
	User              UserDTO `json:"user"`
	TemporaryPassword string  `json:"temporary_password"`
}

func ToCampusDTO(campus models.Campus) CampusDTO {
	return CampusDTO{
		ID:        campus.ID,
		Name:      campus.Name,
		CreatedAt: campus.CreatedAt,
	}
}

func ToSchoolDTO(school models.School) SchoolDTO {
	dto := SchoolDTO{
		ID:       school.ID,
		Name:     school.Name,
		CampusID: school.CampusID,
	}
	if school.Campus != nil {
		campus := ToCampusDTO(*school.Campus)
		dto.Campus = &campus
	}
	return dto
}

func ToDepartmentDTO(dept models.Department) DepartmentDTO {
	dto := DepartmentDTO{
		ID:       dept.ID,
		Name:     dept.Name,
		SchoolID: dept.SchoolID,
		CampusID: dept.CampusID,
	}
	if dept.School != nil {
		school := ToSchoolDTO(*dept.School)
		dto.School = &school
	}
	return dto
}

func ToDepartmentDTOs(departments []models.Department) []DepartmentDTO {
	dtos := make([]DepartmentDTO, len(departments))
	for i, d := range departments {
		dtos[i] = ToDepartmentDTO(d)
	}
	return dtos
}

// ToUserRefDTO returns nil when the user was not preloaded
func ToUserRefDTO(user *models.User) *UserRefDTO {
	if user == nil || user.ID == 0 {
		return nil
	}
	return &UserRefDTO{
		ID:       user.ID,
		Username: user.Username,
		Role:     user.Role,
	}
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		Role:        user.Role,
		EmpID:       user.EmpID,
		PhoneNumber: user.PhoneNumber,
		Gender:      user.Gender,
		CampusID:    user.CampusID,
		SchoolID:    user.SchoolID,
		IsActive:    user.IsActive,
		Departments: ToDepartmentDTOs(user.Departments),
		CreatedAt:   user.CreatedAt,
	}
}

func ToUserDTOs(users []models.User) []UserDTO {
	dtos := make([]UserDTO, len(users))
	for i, u := range users {
		dtos[i] = ToUserDTO(u)
	}
	return dtos
}
