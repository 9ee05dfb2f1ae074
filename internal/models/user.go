package models

import (
	"time"

	"gorm.io/gorm"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleHOD     Role = "hod"
	RoleStaff   Role = "staff"
	RoleStudent Role = "student"
	// RoleNone marks an account that exists but was never granted access.
	RoleNone Role = ""
)

// Valid reports whether r is one of the assignable roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleHOD, RoleStaff, RoleStudent:
		return true
	}
	return false
}

type User struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	Username     string         `gorm:"type:varchar(150);uniqueIndex;not null" json:"username"`
	Email        string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"type:varchar(255);not null" json:"-"`
	Role         Role           `gorm:"type:varchar(20);index" json:"role"`
	EmpID        string         `gorm:"type:varchar(50);index" json:"emp_id"`
	PhoneNumber  string         `gorm:"type:varchar(20)" json:"phone_number"`
	Gender       string         `gorm:"type:varchar(10)" json:"gender"`
	CampusID     *uint64        `gorm:"index" json:"campus_id"`
	SchoolID     *uint64        `gorm:"index" json:"school_id"`
	IsActive     bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Campus      *Campus      `gorm:"foreignKey:CampusID" json:"campus,omitempty"`
	School      *School      `gorm:"foreignKey:SchoolID" json:"school,omitempty"`
	Departments []Department `gorm:"many2many:user_departments" json:"departments,omitempty"`
}

// DepartmentIDs returns the ids of the preloaded departments.
func (u *User) DepartmentIDs() []uint64 {
	return DepartmentIDs(u.Departments)
}
