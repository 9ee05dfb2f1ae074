package repository

import (
	"github.com/yukikurage/academic-task-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormEventRepository is a GORM implementation of EventRepository
type GormEventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db *gorm.DB) EventRepository {
	return &GormEventRepository{db: db}
}

// Create creates an event linked to the given teams in a transaction
func (r *GormEventRepository) Create(event *models.Event, teamIDs []uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(event).Error; err != nil {
			return err
		}
		for _, teamID := range uniqueIDs(teamIDs) {
			if err := tx.Exec("INSERT INTO event_teams (event_id, team_id) VALUES (?, ?)", event.ID, teamID).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *GormEventRepository) FindByID(id uint64) (*models.Event, error) {
	var event models.Event
	if err := r.db.Preload("Teams").Preload("CreatedBy").First(&event, id).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// ListForViewer lists events the user created or that involve a team within
// the scope, soonest first
func (r *GormEventRepository) ListForViewer(userID uint64, scope TeamScope) ([]models.Event, error) {
	query := r.db.Model(&models.Event{})
	if !scope.IsEverything() {
		cond, args := scope.Condition()
		query = query.Where(
			"(events.created_by_id = ? OR events.id IN (SELECT event_teams.event_id FROM event_teams "+
				"JOIN teams ON teams.id = event_teams.team_id WHERE teams.deleted_at IS NULL AND "+cond+"))",
			append([]interface{}{userID}, args...)...,
		)
	}

	var events []models.Event
	if err := query.
		Preload("Teams").
		Preload("CreatedBy").
		Order("events.start_date ASC").
		Order("events.id ASC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func uniqueIDs(values []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(values))
	result := make([]uint64, 0, len(values))
	for _, v := range values {
		if _, exists := seen[v]; exists {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}
	return result
}
