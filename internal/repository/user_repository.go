package repository

import (
	"errors"
	"fmt"

	"github.com/yukikurage/academic-task-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrCreateUser is returned when inserting the user row fails.
	ErrCreateUser = errors.New("user repository: create user failed")
	// ErrLinkDepartments is returned when replacing a user's departments fails.
	ErrLinkDepartments = errors.New("user repository: link departments failed")
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a user and links the given departments
func (r *GormUserRepository) Create(user *models.User) error {
	if err := r.db.Omit("Campus", "School", "Departments.*").Create(user).Error; err != nil {
		return fmt.Errorf("%w: %v", ErrCreateUser, err)
	}
	return nil
}

// FindByID finds a user by ID with departments, campus and school
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.
		Preload("Departments").
		Preload("Campus").
		Preload("School").
		First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByLogin finds a user by username or email
func (r *GormUserRepository) FindByLogin(login string) (*models.User, error) {
	var user models.User
	if err := r.db.
		Preload("Departments").
		Where("username = ? OR email = ?", login, login).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List lists users matching the filter
func (r *GormUserRepository) List(filter UserFilter) ([]models.User, error) {
	query := r.db.Model(&models.User{}).Scopes(filter.Scope.Apply)

	if filter.IDs != nil {
		query = query.Where("users.id IN ?", filter.IDs)
	}
	if len(filter.Roles) > 0 {
		roles := make([]string, len(filter.Roles))
		for i, role := range filter.Roles {
			roles[i] = string(role)
		}
		query = query.Where("users.role IN ?", roles)
	}
	if filter.DepartmentIDs != nil {
		query = query.Where("users.id IN (SELECT user_departments.user_id FROM user_departments WHERE user_departments.department_id IN ?)", filter.DepartmentIDs)
	}

	var users []models.User
	if err := query.
		Preload("Departments").
		Order("users.username ASC").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Update saves the user; a non-nil departments slice replaces the links
func (r *GormUserRepository) Update(user *models.User, departments []models.Department) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(user).Error; err != nil {
			return err
		}
		if departments == nil {
			return nil
		}

		assoc := tx.Model(user).Association("Departments")
		var err error
		if len(departments) == 0 {
			err = assoc.Clear()
		} else {
			err = assoc.Replace(departments)
		}
		if err != nil {
			return fmt.Errorf("%w: %v", ErrLinkDepartments, err)
		}
		user.Departments = departments
		return nil
	})
}

// Delete soft deletes a user
func (r *GormUserRepository) Delete(id uint64) error {
	return r.db.Delete(&models.User{}, id).Error
}

// IsTaken reports whether another user already holds value in column
func (r *GormUserRepository) IsTaken(column UniqueColumn, value string, excludeID uint64) (bool, error) {
	if value == "" {
		return false, nil
	}
	switch column {
	case ColumnUsername, ColumnEmail, ColumnEmpID, ColumnPhoneNumber:
	default:
		return false, fmt.Errorf("user repository: %q is not a unique column", column)
	}

	var count int64
	err := r.db.Model(&models.User{}).
		Where(string(column)+" = ?", value).
		Where("id <> ?", excludeID).
		Count(&count).Error
	return count > 0, err
}
