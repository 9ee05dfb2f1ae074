package visibility

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/academic-task-api/internal/models"
)

func ptr(v uint64) *uint64 { return &v }

var (
	hod      = Viewer{UserID: 1, Role: models.RoleHOD, DepartmentIDs: []uint64{10}}
	staff    = Viewer{UserID: 2, Role: models.RoleStaff, DepartmentIDs: []uint64{10}}
	student  = Viewer{UserID: 3, Role: models.RoleStudent, DepartmentIDs: []uint64{10}}
	admin    = Viewer{UserID: 4, Role: models.RoleAdmin}
	noRole   = Viewer{UserID: 5}
	outsider = UserFacts{ID: 6, Role: models.RoleStaff, DepartmentIDs: []uint64{20}}
)

func TestScope_EverythingAndNothing(t *testing.T) {
	all := Projects(admin)
	assert.True(t, all.IsEverything())
	assert.True(t, all.Allows(ProjectFacts{ID: 99}))

	none := Projects(noRole)
	assert.False(t, none.Allows(ProjectFacts{ID: 99, CreatedByID: ptr(noRole.UserID)}))
	cond, args := none.Condition()
	assert.Equal(t, "1 = 0", cond)
	assert.Empty(t, args)

	assert.False(t, Tasks(noRole).Allows(TaskFacts{AssignedToID: ptr(noRole.UserID)}))
	assert.False(t, Teams(noRole).Allows(TeamFacts{LeadID: noRole.UserID}))
	assert.False(t, Users(noRole).Allows(UserFacts{ID: noRole.UserID}))
}

func TestScope_ConditionJoinsTermsWithOr(t *testing.T) {
	cond, args := Projects(staff).Condition()

	assert.True(t, strings.HasPrefix(cond, "(("))
	assert.Equal(t, 2, strings.Count(cond, ") OR ("))
	assert.Len(t, args, 3)
	assert.Equal(t, strings.Count(cond, "?"), len(args))
}

func TestTasks_NestedProjectConditionCarriesArgs(t *testing.T) {
	cond, args := Tasks(hod).Condition()

	assert.Contains(t, cond, "tasks.project_id IN (SELECT projects.id FROM projects WHERE projects.deleted_at IS NULL AND")
	assert.Equal(t, strings.Count(cond, "?"), len(args))
}

func TestProjects_EmptyDepartmentsNeverMatchByDepartment(t *testing.T) {
	v := Viewer{UserID: 1, Role: models.RoleHOD}

	scope := Projects(v)
	assert.Equal(t, []string{"created_by_me"}, scope.Terms())
	assert.False(t, scope.Allows(ProjectFacts{ID: 1, DepartmentIDs: []uint64{10}}))
}

func TestProjects_HOD(t *testing.T) {
	scope := Projects(hod)
	staffInDept := &UserFacts{ID: 7, Role: models.RoleStaff, DepartmentIDs: []uint64{10}}
	studentInDept := &UserFacts{ID: 8, Role: models.RoleStudent, DepartmentIDs: []uint64{10}}

	assert.True(t, scope.Allows(ProjectFacts{ID: 1, CreatedByID: ptr(hod.UserID)}))
	assert.True(t, scope.Allows(ProjectFacts{ID: 2, CreatedByID: ptr(7), Creator: staffInDept}))
	assert.True(t, scope.Allows(ProjectFacts{ID: 3, DepartmentIDs: []uint64{10, 20}}))
	assert.False(t, scope.Allows(ProjectFacts{ID: 4, CreatedByID: ptr(8), Creator: studentInDept}))
	assert.False(t, scope.Allows(ProjectFacts{ID: 5, CreatedByID: ptr(outsider.ID), Creator: &outsider, DepartmentIDs: []uint64{20}}))
}

func TestProjects_StaffAndStudent(t *testing.T) {
	assigned := ProjectFacts{ID: 1, DepartmentIDs: []uint64{20}, AssigneeIDs: []uint64{staff.UserID, student.UserID}}
	tagged := ProjectFacts{ID: 2, DepartmentIDs: []uint64{10}}
	own := ProjectFacts{ID: 3, CreatedByID: ptr(staff.UserID)}

	staffScope := Projects(staff)
	assert.Equal(t, []string{"tagged_with_my_departments", "has_task_assigned_to_me", "created_by_me"}, staffScope.Terms())
	assert.True(t, staffScope.Allows(assigned))
	assert.True(t, staffScope.Allows(tagged))
	assert.True(t, staffScope.Allows(own))

	studentScope := Projects(student)
	assert.True(t, studentScope.Allows(assigned))
	assert.False(t, studentScope.Allows(tagged))
}

func TestTasks_PerRole(t *testing.T) {
	deptStudent := &UserFacts{ID: 8, Role: models.RoleStudent, DepartmentIDs: []uint64{10}}
	taggedProject := &ProjectFacts{ID: 1, DepartmentIDs: []uint64{10}}

	toStudent := TaskFacts{ID: 1, AssignedToID: ptr(8), Assignee: deptStudent, AssignedByID: 99}
	inProject := TaskFacts{ID: 2, AssignedToID: ptr(outsider.ID), Assignee: &outsider, AssignedByID: 99, Project: taggedProject}
	byStaff := TaskFacts{ID: 3, AssignedToID: ptr(outsider.ID), Assignee: &outsider, AssignedByID: staff.UserID}
	toMe := TaskFacts{ID: 4, AssignedToID: ptr(student.UserID), AssignedByID: 99}
	foreign := TaskFacts{ID: 5, AssignedToID: ptr(outsider.ID), Assignee: &outsider, AssignedByID: 99}

	hodScope := Tasks(hod)
	assert.True(t, hodScope.Allows(toStudent))
	assert.True(t, hodScope.Allows(inProject))
	assert.False(t, hodScope.Allows(foreign))

	staffScope := Tasks(staff)
	assert.True(t, staffScope.Allows(inProject))
	assert.True(t, staffScope.Allows(byStaff))
	assert.False(t, staffScope.Allows(toStudent))

	studentScope := Tasks(student)
	assert.True(t, studentScope.Allows(toMe))
	assert.False(t, studentScope.Allows(inProject))
	assert.False(t, studentScope.Allows(toStudent))
}

func TestTeams_PerRole(t *testing.T) {
	deptMember := UserFacts{ID: 8, Role: models.RoleStudent, DepartmentIDs: []uint64{10}}
	withDeptMember := TeamFacts{ID: 1, LeadID: outsider.ID, Lead: &outsider, Members: []UserFacts{deptMember}}
	ledByStudent := TeamFacts{ID: 2, LeadID: student.UserID, Lead: &UserFacts{ID: student.UserID, Role: models.RoleStudent}}
	foreign := TeamFacts{ID: 3, LeadID: outsider.ID, Lead: &outsider}

	staffScope := Teams(staff)
	assert.True(t, staffScope.Allows(withDeptMember))
	assert.False(t, staffScope.Allows(foreign))

	studentScope := Teams(student)
	assert.True(t, studentScope.Allows(ledByStudent))
	assert.False(t, studentScope.Allows(withDeptMember))
	assert.True(t, studentScope.Allows(TeamFacts{ID: 4, LeadID: 99, Members: []UserFacts{{ID: student.UserID}}}))
}

func TestUsers_PerRole(t *testing.T) {
	deptStudent := UserFacts{ID: 8, Role: models.RoleStudent, DepartmentIDs: []uint64{10}}
	deptHOD := UserFacts{ID: 9, Role: models.RoleHOD, DepartmentIDs: []uint64{10}}

	staffScope := Users(staff)
	assert.True(t, staffScope.Allows(UserFacts{ID: staff.UserID}))
	assert.True(t, staffScope.Allows(deptStudent))
	assert.False(t, staffScope.Allows(deptHOD))
	assert.False(t, staffScope.Allows(outsider))

	studentScope := Users(student)
	require.Equal(t, []string{"self"}, studentScope.Terms())
	assert.False(t, studentScope.Allows(deptStudent))
}

func TestNewViewer(t *testing.T) {
	user := &models.User{
		ID:          12,
		Role:        models.RoleStaff,
		Departments: []models.Department{{ID: 3}, {ID: 5}},
	}

	v := NewViewer(user)
	assert.Equal(t, Viewer{UserID: 12, Role: models.RoleStaff, DepartmentIDs: []uint64{3, 5}}, v)
}
