package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/academic-task-api/internal/models"
	"github.com/yukikurage/academic-task-api/internal/testutil"
	"github.com/yukikurage/academic-task-api/internal/utils"
	"github.com/yukikurage/academic-task-api/internal/visibility"
)

var adminViewer = visibility.Viewer{UserID: 1, Role: models.RoleAdmin}

func TestTeamRepository_LeadIsNeverAMember(t *testing.T) {
	db := testutil.NewTestDB(t)
	org := testutil.CreateOrg(t, db)
	lead := testutil.CreateUser(t, db, models.RoleStaff, org.Department)
	member := testutil.CreateUser(t, db, models.RoleStudent, org.Department)
	repo := NewTeamRepository(db)

	team := &models.Team{Name: "Robotics", LeadID: lead.ID}
	require.NoError(t, repo.Create(team, []uint64{lead.ID, member.ID, member.ID}))

	loaded, err := repo.FindByID(team.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint64{member.ID}, loaded.MemberIDs())
	require.NotNil(t, loaded.Lead)
	assert.Equal(t, lead.ID, loaded.Lead.ID)

	// promote the member to lead; the old lead becomes a member
	loaded.LeadID = member.ID
	require.NoError(t, repo.Update(loaded, []uint64{lead.ID, member.ID}))

	reloaded, err := repo.FindByID(team.ID)
	require.NoError(t, err)
	assert.Equal(t, member.ID, reloaded.LeadID)
	assert.Equal(t, []uint64{lead.ID}, reloaded.MemberIDs())

	require.NoError(t, repo.Delete(team.ID))
	var rows int64
	require.NoError(t, db.Model(&models.TeamMember{}).Where("team_id = ?", team.ID).Count(&rows).Error)
	assert.Zero(t, rows)
}

func TestTaskRepository_ListFilters(t *testing.T) {
	db := testutil.NewTestDB(t)
	org := testutil.CreateOrg(t, db)
	staff := testutil.CreateUser(t, db, models.RoleStaff, org.Department)
	student := testutil.CreateUser(t, db, models.RoleStudent, org.Department)
	project := testutil.CreateProject(t, db, staff, org.Department)
	repo := NewTaskRepository(db)

	now := time.Now()
	later := testutil.CreateTask(t, db, staff, student, testutil.InProject(project), testutil.DueAt(now.Add(48*time.Hour)), testutil.InSprint("Sprint 2"))
	sooner := testutil.CreateTask(t, db, staff, student, testutil.InProject(project), testutil.DueAt(now.Add(time.Hour)), testutil.InSprint("Sprint 1"))
	undated := testutil.CreateTask(t, db, staff, staff, testutil.WithStatus(models.TaskStatusDone))
	require.NoError(t, db.Model(undated).Update("title", "Write Lab REPORT").Error)

	scope := visibility.Tasks(adminViewer)

	tasks, total, err := repo.List(TaskFilter{Scope: scope, ProjectID: &project.ID, SortByDueDate: true})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, tasks, 2)
	assert.Equal(t, sooner.ID, tasks[0].ID)
	assert.Equal(t, later.ID, tasks[1].ID)
	require.NotNil(t, tasks[0].AssignedTo)
	assert.Equal(t, student.ID, tasks[0].AssignedTo.ID)

	tasks, _, err = repo.List(TaskFilter{Scope: scope, Query: "lab report"})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, undated.ID, tasks[0].ID)

	done := models.TaskStatusDone
	_, total, err = repo.List(TaskFilter{Scope: scope, Status: &done})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	tasks, total, err = repo.List(TaskFilter{Scope: scope, Pagination: &utils.PaginationParams{Page: 2, Limit: 2, Offset: 2}})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, tasks, 1)

	sprints, err := repo.Sprints(scope)
	require.NoError(t, err)
	assert.Equal(t, []string{"Sprint 1", "Sprint 2"}, sprints)

	_, total, err = repo.List(TaskFilter{Scope: visibility.Tasks(visibility.Viewer{UserID: student.ID, Role: models.RoleStudent})})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

func TestWorkLogRepository_CloseAddsDurationOnce(t *testing.T) {
	db := testutil.NewTestDB(t)
	staff := testutil.CreateUser(t, db, models.RoleStaff)
	student := testutil.CreateUser(t, db, models.RoleStudent)
	task := testutil.CreateTask(t, db, staff, student)
	require.NoError(t, db.Model(task).Update("total_time_seconds", 30).Error)
	repo := NewWorkLogRepository(db)

	log := &models.WorkLog{TaskID: task.ID, StudentID: student.ID, StartTime: time.Now().Add(-time.Minute)}
	require.NoError(t, repo.Create(log))

	end := time.Now()
	log.EndTime = &end
	log.DurationSeconds = 60
	require.NoError(t, repo.Close(log))
	assert.ErrorIs(t, repo.Close(log), ErrWorkLogClosed)

	var reloaded models.Task
	require.NoError(t, db.First(&reloaded, task.ID).Error)
	assert.Equal(t, int64(90), reloaded.TotalTimeSeconds)

	stored, err := repo.FindByID(log.ID)
	require.NoError(t, err)
	assert.False(t, stored.Open())
	assert.Equal(t, int64(60), stored.DurationSeconds)
}

func TestOrganizationRepository_DeleteCampusCascades(t *testing.T) {
	db := testutil.NewTestDB(t)
	org := testutil.CreateOrg(t, db)
	user := testutil.CreateUser(t, db, models.RoleStaff, org.Department)
	project := testutil.CreateProject(t, db, user, org.Department)
	repo := NewOrganizationRepository(db)

	require.NoError(t, repo.DeleteCampus(org.Campus.ID))

	_, err := repo.FindSchool(org.School.ID)
	assert.Error(t, err)
	_, err = repo.FindDepartment(org.Department.ID)
	assert.Error(t, err)

	reloaded, err := NewUserRepository(db).FindByID(user.ID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.CampusID)
	assert.Nil(t, reloaded.SchoolID)
	assert.Empty(t, reloaded.Departments)

	p, err := NewProjectRepository(db).FindVisible(project.ID, visibility.Projects(adminViewer))
	require.NoError(t, err)
	assert.Empty(t, p.Departments)
}

func TestUserRepository_UpdateAndUniqueness(t *testing.T) {
	db := testutil.NewTestDB(t)
	org := testutil.CreateOrg(t, db)
	other := testutil.CreateDepartment(t, db, org.School)
	user := testutil.CreateUser(t, db, models.RoleStaff, org.Department)
	peer := testutil.CreateUser(t, db, models.RoleStaff)
	repo := NewUserRepository(db)

	user.EmpID = "EMP-1"
	require.NoError(t, repo.Update(user, []models.Department{*other}))

	reloaded, err := repo.FindByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint64{other.ID}, reloaded.DepartmentIDs())

	taken, err := repo.IsTaken(ColumnEmpID, "EMP-1", peer.ID)
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = repo.IsTaken(ColumnEmpID, "EMP-1", user.ID)
	require.NoError(t, err)
	assert.False(t, taken)

	_, err = repo.IsTaken(UniqueColumn("password_hash"), "x", 0)
	assert.Error(t, err)

	found, err := repo.FindByLogin(user.Email)
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
}

func TestEventRepository_ListForViewer(t *testing.T) {
	db := testutil.NewTestDB(t)
	org := testutil.CreateOrg(t, db)
	staff := testutil.CreateUser(t, db, models.RoleStaff, org.Department)
	student := testutil.CreateUser(t, db, models.RoleStudent, org.Department)
	outsider := testutil.CreateUser(t, db, models.RoleStudent)
	team := testutil.CreateTeam(t, db, staff, student)
	repo := NewEventRepository(db)

	start := time.Now().Add(24 * time.Hour)
	withTeam := &models.Event{Name: "Hackathon", StartDate: start, EndDate: start.Add(time.Hour), CreatedByID: staff.ID}
	require.NoError(t, repo.Create(withTeam, []uint64{team.ID, team.ID}))
	private := &models.Event{Name: "Planning", StartDate: start, EndDate: start, CreatedByID: staff.ID}
	require.NoError(t, repo.Create(private, nil))

	studentViewer := visibility.Viewer{UserID: student.ID, Role: models.RoleStudent}
	events, err := repo.ListForViewer(student.ID, visibility.Teams(studentViewer))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, withTeam.ID, events[0].ID)
	require.Len(t, events[0].Teams, 1)

	outsiderViewer := visibility.Viewer{UserID: outsider.ID, Role: models.RoleStudent}
	events, err = repo.ListForViewer(outsider.ID, visibility.Teams(outsiderViewer))
	require.NoError(t, err)
	assert.Empty(t, events)

	events, err = repo.ListForViewer(staff.ID, visibility.Teams(adminViewer))
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestDashboardRepository_Counts(t *testing.T) {
	db := testutil.NewTestDB(t)
	org := testutil.CreateOrg(t, db)
	second := testutil.CreateDepartment(t, db, org.School)
	testutil.CreateUser(t, db, models.RoleStaff, org.Department)
	testutil.CreateUser(t, db, models.RoleStaff, org.Department, second)
	testutil.CreateUser(t, db, models.RoleStudent, org.Department)
	testutil.CreateUser(t, db, models.RoleHOD, org.Department)
	repo := NewDashboardRepository(db)

	counts, err := repo.CountOrganization()
	require.NoError(t, err)
	assert.Equal(t, OrganizationCounts{Campuses: 1, Schools: 1, Departments: 2, Users: 4}, counts)

	byCampus, err := repo.StaffByCampus([]uint64{org.Department.ID, second.ID})
	require.NoError(t, err)
	require.Len(t, byCampus, 1)
	assert.Equal(t, int64(2), byCampus[0].Count)

	byDept, err := repo.StaffByDepartment([]uint64{org.Department.ID, second.ID})
	require.NoError(t, err)
	require.Len(t, byDept, 2)
	total := byDept[0].Count + byDept[1].Count
	assert.Equal(t, int64(3), total)

	hods, err := repo.ListUsersByRole(models.RoleHOD)
	require.NoError(t, err)
	assert.Len(t, hods, 1)

	perSchool, err := repo.DepartmentsPerSchool()
	require.NoError(t, err)
	require.Len(t, perSchool, 1)
	assert.Equal(t, int64(2), perSchool[0].Count)
}
