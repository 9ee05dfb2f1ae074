package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/academic-task-api/internal/models"
	"github.com/yukikurage/academic-task-api/internal/repository"
	"github.com/yukikurage/academic-task-api/internal/visibility"
	"gorm.io/gorm"
)

var (
	ErrTeamNameRequired     = errors.New("team name is required")
	ErrTeamLeadRequired     = errors.New("team lead is required")
	ErrInvalidTeamMember    = errors.New("one or more members do not exist or are not visible to you")
	ErrTeamPermissionDenied = errors.New("only the team lead, a HOD or an admin can modify this team")
)

// TeamService provides business logic for teams.
type TeamService struct {
	teamRepo repository.TeamRepository
	userRepo repository.UserRepository
}

// NewTeamService creates a new TeamService.
func NewTeamService(teamRepo repository.TeamRepository, userRepo repository.UserRepository) *TeamService {
	return &TeamService{
		teamRepo: teamRepo,
		userRepo: userRepo,
	}
}

// TeamInput represents the fields of a team.
type TeamInput struct {
	Name        string
	Description string
	LeadID      uint64
	MemberIDs   []uint64
}

// normalizeMembers removes duplicates and the lead from the member ids.
func normalizeMembers(leadID uint64, memberIDs []uint64) []uint64 {
	members := make([]uint64, 0, len(memberIDs))
	for _, id := range uniqueUint64(memberIDs) {
		if id != leadID {
			members = append(members, id)
		}
	}
	return members
}

// ListTeams lists the teams the viewer may see
func (s *TeamService) ListTeams(viewer visibility.Viewer) ([]models.Team, error) {
	teams, err := s.teamRepo.ListVisible(visibility.Teams(viewer))
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	return teams, nil
}

// GetTeam returns a team the viewer may see
func (s *TeamService) GetTeam(viewer visibility.Viewer, id uint64) (*models.Team, error) {
	team, err := s.teamRepo.FindVisible(id, visibility.Teams(viewer))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to find team: %w", err)
	}
	return team, nil
}

// CreateTeam creates a team. The lead and members must be visible to the
// viewer; the lead is never stored as a member.
func (s *TeamService) CreateTeam(viewer visibility.Viewer, input TeamInput) (*models.Team, error) {
	team := &models.Team{}
	members, err := s.prepare(viewer, team, input)
	if err != nil {
		return nil, err
	}

	if err := s.teamRepo.Create(team, members); err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}
	return s.reload(team.ID)
}

// UpdateTeam replaces the name, lead and members of a team
func (s *TeamService) UpdateTeam(viewer visibility.Viewer, team *models.Team, input TeamInput) (*models.Team, error) {
	if !canManageTeam(viewer, team) {
		return nil, ErrTeamPermissionDenied
	}

	members, err := s.prepare(viewer, team, input)
	if err != nil {
		return nil, err
	}

	if err := s.teamRepo.Update(team, members); err != nil {
		return nil, fmt.Errorf("failed to update team: %w", err)
	}
	return s.reload(team.ID)
}

// DeleteTeam deletes a team
func (s *TeamService) DeleteTeam(viewer visibility.Viewer, team *models.Team) error {
	if !canManageTeam(viewer, team) {
		return ErrTeamPermissionDenied
	}
	if err := s.teamRepo.Delete(team.ID); err != nil {
		return fmt.Errorf("failed to delete team: %w", err)
	}
	return nil
}

func (s *TeamService) prepare(viewer visibility.Viewer, team *models.Team, input TeamInput) ([]uint64, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrTeamNameRequired
	}
	if input.LeadID == 0 {
		return nil, ErrTeamLeadRequired
	}

	members := normalizeMembers(input.LeadID, input.MemberIDs)
	people := append([]uint64{input.LeadID}, members...)
	visible, err := s.userRepo.List(repository.UserFilter{
		Scope: visibility.Users(viewer),
		IDs:   people,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find members: %w", err)
	}
	if len(visible) != len(people) {
		return nil, ErrInvalidTeamMember
	}

	team.Name = name
	team.Description = input.Description
	team.LeadID = input.LeadID
	team.Lead = nil
	team.Members = nil
	return members, nil
}

func (s *TeamService) reload(id uint64) (*models.Team, error) {
	team, err := s.teamRepo.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload team: %w", err)
	}
	return team, nil
}

// canManageTeam expects the team to be visible to the viewer.
func canManageTeam(viewer visibility.Viewer, team *models.Team) bool {
	switch viewer.Role {
	case models.RoleAdmin, models.RoleHOD:
		return true
	}
	return team.LeadID == viewer.UserID
}
