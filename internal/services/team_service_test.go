package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/academic-task-api/internal/models"
	"github.com/yukikurage/academic-task-api/internal/testutil"
)

func TestNormalizeMembers(t *testing.T) {
	assert.Equal(t, []uint64{2, 3}, normalizeMembers(1, []uint64{1, 2, 2, 3, 1}))
	assert.Equal(t, []uint64{}, normalizeMembers(1, nil))
	assert.Equal(t, []uint64{}, normalizeMembers(1, []uint64{1}))
}

func TestTeamService_CreateAndUpdate(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newTestServices(db, nil)
	org := testutil.CreateOrg(t, db)
	staff := testutil.CreateUser(t, db, models.RoleStaff, org.Department)
	student := testutil.CreateUser(t, db, models.RoleStudent, org.Department)
	other := testutil.CreateUser(t, db, models.RoleStudent, org.Department)
	outsider := testutil.CreateUser(t, db, models.RoleStudent, testutil.CreateOrg(t, db).Department)
	viewer := viewerOf(staff)

	team, err := svc.teams.CreateTeam(viewer, TeamInput{
		Name:      " Robotics ",
		LeadID:    staff.ID,
		MemberIDs: []uint64{staff.ID, student.ID, student.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, "Robotics", team.Name)
	assert.Equal(t, staff.ID, team.LeadID)
	assert.Equal(t, []uint64{student.ID}, team.MemberIDs())

	_, err = svc.teams.CreateTeam(viewer, TeamInput{Name: "Mixed", LeadID: staff.ID, MemberIDs: []uint64{outsider.ID}})
	assert.ErrorIs(t, err, ErrInvalidTeamMember)

	_, err = svc.teams.CreateTeam(viewer, TeamInput{Name: "Leaderless"})
	assert.ErrorIs(t, err, ErrTeamLeadRequired)

	_, err = svc.teams.UpdateTeam(viewerOf(student), team, TeamInput{Name: "Mine", LeadID: student.ID})
	assert.ErrorIs(t, err, ErrTeamPermissionDenied)

	updated, err := svc.teams.UpdateTeam(viewer, team, TeamInput{
		Name:      "Robotics",
		LeadID:    other.ID,
		MemberIDs: []uint64{staff.ID, other.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, other.ID, updated.LeadID)
	assert.Equal(t, []uint64{staff.ID}, updated.MemberIDs())

	visible, err := svc.teams.ListTeams(viewerOf(student))
	require.NoError(t, err)
	assert.Empty(t, visible)

	_, err = svc.teams.GetTeam(viewerOf(outsider), team.ID)
	assert.ErrorIs(t, err, ErrTeamNotFound)

	assert.ErrorIs(t, svc.teams.DeleteTeam(viewerOf(student), updated), ErrTeamPermissionDenied)
	require.NoError(t, svc.teams.DeleteTeam(viewerOf(other), updated))
	_, err = svc.teams.GetTeam(viewer, team.ID)
	assert.ErrorIs(t, err, ErrTeamNotFound)
}

func TestEventService(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := newTestServices(db, nil)
	org := testutil.CreateOrg(t, db)
	staff := testutil.CreateUser(t, db, models.RoleStaff, org.Department)
	student := testutil.CreateUser(t, db, models.RoleStudent, org.Department)
	outsider := testutil.CreateUser(t, db, models.RoleStaff, testutil.CreateOrg(t, db).Department)
	team := testutil.CreateTeam(t, db, staff, student)
	hidden := testutil.CreateTeam(t, db, outsider)

	start := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	_, err := svc.events.CreateEvent(viewerOf(staff), EventInput{Name: "Fair", StartDate: start, EndDate: start.Add(-time.Hour)})
	assert.ErrorIs(t, err, ErrInvalidEventDates)

	_, err = svc.events.CreateEvent(viewerOf(staff), EventInput{Name: "Fair", StartDate: start, EndDate: start, TeamIDs: []uint64{team.ID, hidden.ID}})
	assert.ErrorIs(t, err, ErrTeamNotFound)

	_, err = svc.events.CreateEvent(viewerOf(staff), EventInput{Name: " ", StartDate: start, EndDate: start})
	assert.ErrorIs(t, err, ErrEventNameRequired)

	event, err := svc.events.CreateEvent(viewerOf(staff), EventInput{Name: "Fair", StartDate: start, EndDate: start.Add(time.Hour), TeamIDs: []uint64{team.ID, team.ID}})
	require.NoError(t, err)
	assert.Len(t, event.Teams, 1)

	events, err := svc.events.ListEvents(viewerOf(student))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, event.ID, events[0].ID)

	events, err = svc.events.ListEvents(viewerOf(outsider))
	require.NoError(t, err)
	assert.Empty(t, events)
}
