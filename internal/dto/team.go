package dto

import (
	"time"

	"github.com/yukikurage/academic-task-api/internal/models"
)

// TeamDTO represents a team in API responses. Members never include the lead.
type TeamDTO struct {
	ID          uint64       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	LeadID      uint64       `json:"lead_id"`
	Lead        *UserRefDTO  `json:"lead,omitempty"`
	Members     []UserRefDTO `json:"members"`
	CreatedAt   time.Time    `json:"created_at"`
}

// EventDTO represents an event in API responses
type EventDTO struct {
	ID          uint64       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	StartDate   time.Time    `json:"start_date"`
	EndDate     time.Time    `json:"end_date"`
	CreatedByID uint64       `json:"created_by_id"`
	Teams       []TeamRefDTO `json:"teams"`
}

func ToTeamDTO(team models.Team) TeamDTO {
	members := make([]UserRefDTO, 0, len(team.Members))
	for i := range team.Members {
		if ref := ToUserRefDTO(&team.Members[i]); ref != nil {
			members = append(members, *ref)
		}
	}

	return TeamDTO{
		ID:          team.ID,
		Name:        team.Name,
		Description: team.Description,
		LeadID:      team.LeadID,
		Lead:        ToUserRefDTO(team.Lead),
		Members:     members,
		CreatedAt:   team.CreatedAt,
	}
}

func ToTeamDTOs(teams []models.Team) []TeamDTO {
	dtos := make([]TeamDTO, len(teams))
	for i, t := range teams {
		dtos[i] = ToTeamDTO(t)
	}
	return dtos
}

func ToEventDTO(event models.Event) EventDTO {
	teams := make([]TeamRefDTO, len(event.Teams))
	for i, t := range event.Teams {
		teams[i] = TeamRefDTO{ID: t.ID, Name: t.Name}
	}

	return EventDTO{
		ID:          event.ID,
		Name:        event.Name,
		Description: event.Description,
		StartDate:   event.StartDate,
		EndDate:     event.EndDate,
		CreatedByID: event.CreatedByID,
		Teams:       teams,
	}
}

func ToEventDTOs(events []models.Event) []EventDTO {
	dtos := make([]EventDTO, len(events))
	for i, e := range events {
		dtos[i] = ToEventDTO(e)
	}
	return dtos
}
