package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/academic-task-api/internal/models"
	"github.com/yukikurage/academic-task-api/internal/repository"
	"github.com/yukikurage/academic-task-api/internal/visibility"
)

var (
	ErrEventNameRequired = errors.New("event name is required")
	ErrInvalidEventDates = errors.New("event end date must not be before its start date")
)

// EventService provides business logic for events.
type EventService struct {
	eventRepo repository.EventRepository
	teamRepo  repository.TeamRepository
}

// NewEventService creates a new EventService.
func NewEventService(eventRepo repository.EventRepository, teamRepo repository.TeamRepository) *EventService {
	return &EventService{
		eventRepo: eventRepo,
		teamRepo:  teamRepo,
	}
}

// EventInput represents input for creating an event.
type EventInput struct {
	Name        string
	Description string
	StartDate   time.Time
	EndDate     time.Time
	TeamIDs     []uint64
}

// CreateEvent creates an event linked to teams the viewer may see
func (s *EventService) CreateEvent(viewer visibility.Viewer, input EventInput) (*models.Event, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrEventNameRequired
	}
	if input.EndDate.Before(input.StartDate) {
		return nil, ErrInvalidEventDates
	}

	teamIDs := uniqueUint64(input.TeamIDs)
	if len(teamIDs) > 0 {
		count, err := s.teamRepo.CountVisible(teamIDs, visibility.Teams(viewer))
		if err != nil {
			return nil, fmt.Errorf("failed to check teams: %w", err)
		}
		if count != int64(len(teamIDs)) {
			return nil, ErrTeamNotFound
		}
	}

	event := &models.Event{
		Name:        name,
		Description: input.Description,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		CreatedByID: viewer.UserID,
	}
	if err := s.eventRepo.Create(event, teamIDs); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	created, err := s.eventRepo.FindByID(event.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload event: %w", err)
	}
	return created, nil
}

// ListEvents lists events created by the viewer or involving a visible team
func (s *EventService) ListEvents(viewer visibility.Viewer) ([]models.Event, error) {
	events, err := s.eventRepo.ListForViewer(viewer.UserID, visibility.Teams(viewer))
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}
