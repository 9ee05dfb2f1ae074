package models

import (
	"time"
)

type Campus struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Schools []School `gorm:"foreignKey:CampusID" json:"schools,omitempty"`
}

type School struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	CampusID  uint64    `gorm:"not null;index" json:"campus_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Campus      *Campus      `gorm:"foreignKey:CampusID" json:"campus,omitempty"`
	Departments []Department `gorm:"foreignKey:SchoolID" json:"departments,omitempty"`
}

// Department belongs to a school; CampusID is denormalised and always equals
// the school's campus.
type Department struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	SchoolID  uint64    `gorm:"not null;index" json:"school_id"`
	CampusID  uint64    `gorm:"not null;index" json:"campus_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	School *School `gorm:"foreignKey:SchoolID" json:"school,omitempty"`
	Campus *Campus `gorm:"foreignKey:CampusID" json:"campus,omitempty"`
}

// DepartmentIDs returns the ids of the given departments in order.
func DepartmentIDs(departments []Department) []uint64 {
	ids := make([]uint64, 0, len(departments))
	for _, d := range departments {
		ids = append(ids, d.ID)
	}
	return ids
}
