package models

import (
	"time"

	"gorm.io/gorm"
)

type Team struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	LeadID      uint64         `gorm:"not null;index" json:"lead_id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Lead    *User  `gorm:"foreignKey:LeadID" json:"lead,omitempty"`
	Members []User `gorm:"many2many:team_members" json:"members,omitempty"`
}

// MemberIDs returns the ids of the preloaded members.
func (t *Team) MemberIDs() []uint64 {
	ids := make([]uint64, 0, len(t.Members))
	for _, m := range t.Members {
		ids = append(ids, m.ID)
	}
	return ids
}

// TeamMember is a row of the team_members join table. The team's lead never
// appears here.
type TeamMember struct {
	TeamID   uint64    `gorm:"primarykey" json:"team_id"`
	UserID   uint64    `gorm:"primarykey;index" json:"user_id"`
	JoinedAt time.Time `gorm:"autoCreateTime" json:"joined_at"`
}
