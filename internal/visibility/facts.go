package visibility

import "github.com/yukikurage/academic-task-api/internal/models"

// UserFacts is what the rules need to know about a user.
type UserFacts struct {
	ID            uint64
	Role          models.Role
	DepartmentIDs []uint64
}

// ProjectFacts describes a live project. AssigneeIDs are the assignees of
// its live tasks.
type ProjectFacts struct {
	ID            uint64
	CreatedByID   *uint64
	Creator       *UserFacts
	DepartmentIDs []uint64
	AssigneeIDs   []uint64
}

// TaskFacts describes a live task. Project is nil when the task has no live
// project.
type TaskFacts struct {
	ID           uint64
	AssignedToID *uint64
	Assignee     *UserFacts
	AssignedByID uint64
	Project      *ProjectFacts
}

type TeamFacts struct {
	ID      uint64
	LeadID  uint64
	Lead    *UserFacts
	Members []UserFacts
}

// UserFactsOf expects Departments to be preloaded.
func UserFactsOf(u *models.User) UserFacts {
	return UserFacts{
		ID:            u.ID,
		Role:          u.Role,
		DepartmentIDs: u.DepartmentIDs(),
	}
}

// ProjectFactsOf expects Departments and CreatedBy.Departments to be preloaded.
func ProjectFactsOf(p *models.Project, assigneeIDs []uint64) ProjectFacts {
	facts := ProjectFacts{
		ID:            p.ID,
		CreatedByID:   p.CreatedByID,
		DepartmentIDs: models.DepartmentIDs(p.Departments),
		AssigneeIDs:   assigneeIDs,
	}
	if p.CreatedBy != nil {
		creator := UserFactsOf(p.CreatedBy)
		facts.Creator = &creator
	}
	return facts
}

// TaskFactsOf expects AssignedTo.Departments to be preloaded.
func TaskFactsOf(t *models.Task, project *ProjectFacts) TaskFacts {
	facts := TaskFacts{
		ID:           t.ID,
		AssignedToID: t.AssignedToID,
		AssignedByID: t.AssignedByID,
		Project:      project,
	}
	if t.AssignedTo != nil {
		assignee := UserFactsOf(t.AssignedTo)
		facts.Assignee = &assignee
	}
	return facts
}

// TeamFactsOf expects Lead.Departments and Members.Departments to be preloaded.
func TeamFactsOf(t *models.Team) TeamFacts {
	facts := TeamFacts{
		ID:      t.ID,
		LeadID:  t.LeadID,
		Members: make([]UserFacts, 0, len(t.Members)),
	}
	if t.Lead != nil {
		lead := UserFactsOf(t.Lead)
		facts.Lead = &lead
	}
	for i := range t.Members {
		facts.Members = append(facts.Members, UserFactsOf(&t.Members[i]))
	}
	return facts
}

func contains(ids []uint64, id uint64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func intersects(a, b []uint64) bool {
	for _, v := range a {
		if contains(b, v) {
			return true
		}
	}
	return false
}

func roleIn(role models.Role, roles []models.Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

func isUserIn(u *UserFacts, roles []models.Role, departmentIDs []uint64) bool {
	if u == nil {
		return false
	}
	if roles != nil && !roleIn(u.Role, roles) {
		return false
	}
	return intersects(u.DepartmentIDs, departmentIDs)
}
