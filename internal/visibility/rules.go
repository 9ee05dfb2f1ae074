package visibility

import "github.com/yukikurage/academic-task-api/internal/models"

// Live users holding one of the roles in one of the departments.
const usersInDepartmentsSQL = "SELECT user_departments.user_id FROM user_departments " +
	"JOIN users ON users.id = user_departments.user_id " +
	"WHERE users.deleted_at IS NULL AND users.role IN ? AND user_departments.department_id IN ?"

// Live users in one of the departments, any role.
const anyoneInDepartmentsSQL = "SELECT user_departments.user_id FROM user_departments " +
	"JOIN users ON users.id = user_departments.user_id " +
	"WHERE users.deleted_at IS NULL AND user_departments.department_id IN ?"

var staffAndStudents = []models.Role{models.RoleStaff, models.RoleStudent}

func roleStrings(roles []models.Role) []string {
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = string(r)
	}
	return out
}

// Projects returns the projects the viewer may see.
func Projects(v Viewer) Scope[ProjectFacts] {
	switch v.Role {
	case models.RoleAdmin:
		return Everything[ProjectFacts]()
	case models.RoleHOD:
		terms := []Term[ProjectFacts]{projectCreatedBy(v.UserID)}
		if len(v.DepartmentIDs) > 0 {
			terms = append(terms,
				projectCreatedByRoleIn([]models.Role{models.RoleStaff}, v.DepartmentIDs),
				projectInDepartments(v.DepartmentIDs),
			)
		}
		return AnyOf(terms...)
	case models.RoleStaff:
		var terms []Term[ProjectFacts]
		if len(v.DepartmentIDs) > 0 {
			terms = append(terms, projectInDepartments(v.DepartmentIDs))
		}
		terms = append(terms,
			projectHasTaskAssignedTo(v.UserID),
			projectCreatedBy(v.UserID),
		)
		return AnyOf(terms...)
	case models.RoleStudent:
		return AnyOf(projectHasTaskAssignedTo(v.UserID))
	default:
		return Nothing[ProjectFacts]()
	}
}

// Tasks returns the tasks the viewer may see.
func Tasks(v Viewer) Scope[TaskFacts] {
	switch v.Role {
	case models.RoleAdmin:
		return Everything[TaskFacts]()
	case models.RoleHOD:
		terms := []Term[TaskFacts]{taskInProjects(Projects(v))}
		if len(v.DepartmentIDs) > 0 {
			terms = append(terms, taskAssigneeRoleIn(staffAndStudents, v.DepartmentIDs))
		}
		terms = append(terms,
			taskAssignedBy(v.UserID),
			taskAssignedTo(v.UserID),
		)
		return AnyOf(terms...)
	case models.RoleStaff:
		return AnyOf(
			taskInProjects(Projects(v)),
			taskAssignedTo(v.UserID),
			taskAssignedBy(v.UserID),
		)
	case models.RoleStudent:
		return AnyOf(taskAssignedTo(v.UserID))
	default:
		return Nothing[TaskFacts]()
	}
}

// Teams returns the teams the viewer may see.
func Teams(v Viewer) Scope[TeamFacts] {
	switch v.Role {
	case models.RoleAdmin:
		return Everything[TeamFacts]()
	case models.RoleHOD, models.RoleStaff:
		var terms []Term[TeamFacts]
		if len(v.DepartmentIDs) > 0 {
			terms = append(terms,
				teamMembersIn(v.DepartmentIDs),
				teamLeadIn(v.DepartmentIDs),
			)
		}
		terms = append(terms,
			teamLedBy(v.UserID),
			teamHasMember(v.UserID),
		)
		return AnyOf(terms...)
	case models.RoleStudent:
		return AnyOf(teamHasMember(v.UserID), teamLedBy(v.UserID))
	default:
		return Nothing[TeamFacts]()
	}
}

// Users returns the users the viewer may see.
func Users(v Viewer) Scope[UserFacts] {
	switch v.Role {
	case models.RoleAdmin:
		return Everything[UserFacts]()
	case models.RoleHOD, models.RoleStaff:
		terms := []Term[UserFacts]{userSelf(v.UserID)}
		if len(v.DepartmentIDs) > 0 {
			terms = append(terms, userRoleInDepartments(staffAndStudents, v.DepartmentIDs))
		}
		return AnyOf(terms...)
	case models.RoleStudent:
		return AnyOf(userSelf(v.UserID))
	default:
		return Nothing[UserFacts]()
	}
}

func projectCreatedBy(userID uint64) Term[ProjectFacts] {
	return Term[ProjectFacts]{
		Name: "created_by_me",
		SQL:  "projects.created_by_id = ?",
		Args: []interface{}{userID},
		Allows: func(p ProjectFacts) bool {
			return p.CreatedByID != nil && *p.CreatedByID == userID
		},
	}
}

func projectCreatedByRoleIn(roles []models.Role, departmentIDs []uint64) Term[ProjectFacts] {
	return Term[ProjectFacts]{
		Name: "created_by_department_staff",
		SQL:  "projects.created_by_id IN (" + usersInDepartmentsSQL + ")",
		Args: []interface{}{roleStrings(roles), departmentIDs},
		Allows: func(p ProjectFacts) bool {
			return isUserIn(p.Creator, roles, departmentIDs)
		},
	}
}

func projectInDepartments(departmentIDs []uint64) Term[ProjectFacts] {
	return Term[ProjectFacts]{
		Name: "tagged_with_my_departments",
		SQL: "projects.id IN (SELECT project_departments.project_id FROM project_departments " +
			"WHERE project_departments.department_id IN ?)",
		Args: []interface{}{departmentIDs},
		Allows: func(p ProjectFacts) bool {
			return intersects(p.DepartmentIDs, departmentIDs)
		},
	}
}

func projectHasTaskAssignedTo(userID uint64) Term[ProjectFacts] {
	return Term[ProjectFacts]{
		Name: "has_task_assigned_to_me",
		SQL: "projects.id IN (SELECT tasks.project_id FROM tasks " +
			"WHERE tasks.assigned_to_id = ? AND tasks.project_id IS NOT NULL AND tasks.deleted_at IS NULL)",
		Args: []interface{}{userID},
		Allows: func(p ProjectFacts) bool {
			return contains(p.AssigneeIDs, userID)
		},
	}
}

func taskInProjects(projects Scope[ProjectFacts]) Term[TaskFacts] {
	cond, args := projects.Condition()
	return Term[TaskFacts]{
		Name: "in_visible_projects",
		SQL: "tasks.project_id IN (SELECT projects.id FROM projects " +
			"WHERE projects.deleted_at IS NULL AND " + cond + ")",
		Args: args,
		Allows: func(t TaskFacts) bool {
			return t.Project != nil && projects.Allows(*t.Project)
		},
	}
}

func taskAssigneeRoleIn(roles []models.Role, departmentIDs []uint64) Term[TaskFacts] {
	return Term[TaskFacts]{
		Name: "assigned_to_department_members",
		SQL:  "tasks.assigned_to_id IN (" + usersInDepartmentsSQL + ")",
		Args: []interface{}{roleStrings(roles), departmentIDs},
		Allows: func(t TaskFacts) bool {
			return isUserIn(t.Assignee, roles, departmentIDs)
		},
	}
}

func taskAssignedBy(userID uint64) Term[TaskFacts] {
	return Term[TaskFacts]{
		Name: "assigned_by_me",
		SQL:  "tasks.assigned_by_id = ?",
		Args: []interface{}{userID},
		Allows: func(t TaskFacts) bool {
			return t.AssignedByID == userID
		},
	}
}

func taskAssignedTo(userID uint64) Term[TaskFacts] {
	return Term[TaskFacts]{
		Name: "assigned_to_me",
		SQL:  "tasks.assigned_to_id = ?",
		Args: []interface{}{userID},
		Allows: func(t TaskFacts) bool {
			return t.AssignedToID != nil && *t.AssignedToID == userID
		},
	}
}

func teamMembersIn(departmentIDs []uint64) Term[TeamFacts] {
	return Term[TeamFacts]{
		Name: "members_in_my_departments",
		SQL: "teams.id IN (SELECT team_members.team_id FROM team_members " +
			"WHERE team_members.user_id IN (" + anyoneInDepartmentsSQL + "))",
		Args: []interface{}{departmentIDs},
		Allows: func(t TeamFacts) bool {
			for i := range t.Members {
				if isUserIn(&t.Members[i], nil, departmentIDs) {
					return true
				}
			}
			return false
		},
	}
}

func teamLeadIn(departmentIDs []uint64) Term[TeamFacts] {
	return Term[TeamFacts]{
		Name: "lead_in_my_departments",
		SQL:  "teams.lead_id IN (" + anyoneInDepartmentsSQL + ")",
		Args: []interface{}{departmentIDs},
		Allows: func(t TeamFacts) bool {
			return isUserIn(t.Lead, nil, departmentIDs)
		},
	}
}

func teamLedBy(userID uint64) Term[TeamFacts] {
	return Term[TeamFacts]{
		Name: "led_by_me",
		SQL:  "teams.lead_id = ?",
		Args: []interface{}{userID},
		Allows: func(t TeamFacts) bool {
			return t.LeadID == userID
		},
	}
}

func teamHasMember(userID uint64) Term[TeamFacts] {
	return Term[TeamFacts]{
		Name: "i_am_member",
		SQL:  "teams.id IN (SELECT team_members.team_id FROM team_members WHERE team_members.user_id = ?)",
		Args: []interface{}{userID},
		Allows: func(t TeamFacts) bool {
			for _, m := range t.Members {
				if m.ID == userID {
					return true
				}
			}
			return false
		},
	}
}

func userSelf(userID uint64) Term[UserFacts] {
	return Term[UserFacts]{
		Name: "self",
		SQL:  "users.id = ?",
		Args: []interface{}{userID},
		Allows: func(u UserFacts) bool {
			return u.ID == userID
		},
	}
}

func userRoleInDepartments(roles []models.Role, departmentIDs []uint64) Term[UserFacts] {
	return Term[UserFacts]{
		Name: "department_staff_and_students",
		SQL: "users.role IN ? AND users.id IN (SELECT user_departments.user_id FROM user_departments " +
			"WHERE user_departments.department_id IN ?)",
		Args: []interface{}{roleStrings(roles), departmentIDs},
		Allows: func(u UserFacts) bool {
			return isUserIn(&u, roles, departmentIDs)
		},
	}
}
