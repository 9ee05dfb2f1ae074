// Package visibility decides which projects, tasks, teams and users a viewer
// may see. Every rule is a Scope: an OR of named terms that can be rendered
// as a SQL condition for GORM or evaluated directly against plain facts.
package visibility

import (
	"strings"

	"github.com/yukikurage/academic-task-api/internal/models"
	"gorm.io/gorm"
)

// Viewer is the identity a scope is computed for.
type Viewer struct {
	UserID        uint64
	Role          models.Role
	DepartmentIDs []uint64
}

// NewViewer builds a viewer from a user with departments preloaded.
func NewViewer(u *models.User) Viewer {
	return Viewer{
		UserID:        u.ID,
		Role:          u.Role,
		DepartmentIDs: u.DepartmentIDs(),
	}
}

// Term is one alternative of a scope.
type Term[F any] struct {
	Name   string
	SQL    string
	Args   []interface{}
	Allows func(F) bool
}

// Scope is either everything, or the union of its terms. A scope with no
// terms matches nothing.
type Scope[F any] struct {
	everything bool
	terms      []Term[F]
}

func Everything[F any]() Scope[F] {
	return Scope[F]{everything: true}
}

func Nothing[F any]() Scope[F] {
	return Scope[F]{}
}

func AnyOf[F any](terms ...Term[F]) Scope[F] {
	return Scope[F]{terms: terms}
}

func (s Scope[F]) IsEverything() bool {
	return s.everything
}

// Terms lists the term names in order.
func (s Scope[F]) Terms() []string {
	names := make([]string, 0, len(s.terms))
	for _, t := range s.terms {
		names = append(names, t.Name)
	}
	return names
}

// Condition renders the scope as a parenthesised SQL condition.
func (s Scope[F]) Condition() (string, []interface{}) {
	if s.everything {
		return "1 = 1", nil
	}
	if len(s.terms) == 0 {
		return "1 = 0", nil
	}

	parts := make([]string, 0, len(s.terms))
	var args []interface{}
	for _, t := range s.terms {
		parts = append(parts, "("+t.SQL+")")
		args = append(args, t.Args...)
	}
	return "(" + strings.Join(parts, " OR ") + ")", args
}

// Apply restricts a query to the rows the scope matches. It is shaped for
// db.Scopes.
func (s Scope[F]) Apply(db *gorm.DB) *gorm.DB {
	if s.everything {
		return db
	}
	sql, args := s.Condition()
	return db.Where(sql, args...)
}

// Allows evaluates the scope against in-memory facts.
func (s Scope[F]) Allows(facts F) bool {
	if s.everything {
		return true
	}
	for _, t := range s.terms {
		if t.Allows(facts) {
			return true
		}
	}
	return false
}
