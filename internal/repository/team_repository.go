package repository

import (
	"github.com/yukikurage/academic-task-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTeamRepository is a GORM implementation of TeamRepository
type GormTeamRepository struct {
	db *gorm.DB
}

// NewTeamRepository creates a new TeamRepository
func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &GormTeamRepository{db: db}
}

// Create creates a team and its member rows in a transaction
func (r *GormTeamRepository) Create(team *models.Team, memberIDs []uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(team).Error; err != nil {
			return err
		}
		return writeMembers(tx, team, memberIDs)
	})
}

// FindByID finds a team with its lead and members
func (r *GormTeamRepository) FindByID(id uint64) (*models.Team, error) {
	var team models.Team
	if err := r.db.
		Preload("Lead").
		Preload("Members").
		First(&team, id).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

// FindVisible finds a team by ID within the scope
func (r *GormTeamRepository) FindVisible(id uint64, scope TeamScope) (*models.Team, error) {
	var team models.Team
	if err := r.db.Model(&models.Team{}).
		Scopes(scope.Apply).
		Preload("Lead").
		Preload("Members").
		Where("teams.id = ?", id).
		First(&team).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

// ListVisible lists teams within the scope
func (r *GormTeamRepository) ListVisible(scope TeamScope) ([]models.Team, error) {
	var teams []models.Team
	if err := r.db.Model(&models.Team{}).
		Scopes(scope.Apply).
		Preload("Lead").
		Preload("Members").
		Order("teams.name ASC").
		Find(&teams).Error; err != nil {
		return nil, err
	}
	return teams, nil
}

// CountVisible counts how many of ids are within the scope
func (r *GormTeamRepository) CountVisible(ids []uint64, scope TeamScope) (int64, error) {
	var count int64
	err := r.db.Model(&models.Team{}).
		Scopes(scope.Apply).
		Where("teams.id IN ?", ids).
		Count(&count).Error
	return count, err
}

// Update saves the team and replaces its member rows in a transaction
func (r *GormTeamRepository) Update(team *models.Team, memberIDs []uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(team).Error; err != nil {
			return err
		}
		if err := tx.Where("team_id = ?", team.ID).Delete(&models.TeamMember{}).Error; err != nil {
			return err
		}
		return writeMembers(tx, team, memberIDs)
	})
}

// Delete soft deletes a team and removes its member and event links
func (r *GormTeamRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("team_id = ?", id).Delete(&models.TeamMember{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM event_teams WHERE team_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Team{}, id).Error
	})
}

// writeMembers inserts member rows, skipping the lead and duplicates, then
// removes any row that names the lead.
func writeMembers(tx *gorm.DB, team *models.Team, memberIDs []uint64) error {
	rows := make([]models.TeamMember, 0, len(memberIDs))
	seen := make(map[uint64]struct{}, len(memberIDs))
	for _, id := range memberIDs {
		if id == team.LeadID {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		rows = append(rows, models.TeamMember{TeamID: team.ID, UserID: id})
	}

	if len(rows) > 0 {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error; err != nil {
			return err
		}
	}

	return tx.Where("team_id = ? AND user_id = ?", team.ID, team.LeadID).Delete(&models.TeamMember{}).Error
}
