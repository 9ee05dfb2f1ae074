package repository

import (
	"github.com/yukikurage/academic-task-api/internal/models"
	"gorm.io/gorm"
)

// GormDashboardRepository is a GORM implementation of DashboardRepository
type GormDashboardRepository struct {
	db *gorm.DB
}

// NewDashboardRepository creates a new DashboardRepository
func NewDashboardRepository(db *gorm.DB) DashboardRepository {
	return &GormDashboardRepository{db: db}
}

func (r *GormDashboardRepository) CountOrganization() (OrganizationCounts, error) {
	var counts OrganizationCounts
	if err := r.db.Model(&models.Campus{}).Count(&counts.Campuses).Error; err != nil {
		return counts, err
	}
	if err := r.db.Model(&models.School{}).Count(&counts.Schools).Error; err != nil {
		return counts, err
	}
	if err := r.db.Model(&models.Department{}).Count(&counts.Departments).Error; err != nil {
		return counts, err
	}
	if err := r.db.Model(&models.User{}).Count(&counts.Users).Error; err != nil {
		return counts, err
	}
	return counts, nil
}

func (r *GormDashboardRepository) ListUsersByRole(role models.Role) ([]models.User, error) {
	var users []models.User
	if err := r.db.Preload("Departments").
		Where("role = ?", string(role)).
		Order("username ASC").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *GormDashboardRepository) SchoolsPerCampus() ([]NamedCount, error) {
	var rows []NamedCount
	err := r.db.Model(&models.Campus{}).
		Select("campuses.id AS id, campuses.name AS name, COUNT(schools.id) AS count").
		Joins("LEFT JOIN schools ON schools.campus_id = campuses.id").
		Group("campuses.id, campuses.name").
		Order("campuses.name ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *GormDashboardRepository) DepartmentsPerSchool() ([]NamedCount, error) {
	var rows []NamedCount
	err := r.db.Model(&models.School{}).
		Select("schools.id AS id, schools.name AS name, COUNT(departments.id) AS count").
		Joins("LEFT JOIN departments ON departments.school_id = schools.id").
		Group("schools.id, schools.name").
		Order("schools.name ASC").
		Scan(&rows).Error
	return rows, err
}

// StaffByCampus counts distinct staff in the departments grouped by campus
func (r *GormDashboardRepository) StaffByCampus(departmentIDs []uint64) ([]NamedCount, error) {
	rows := []NamedCount{}
	if len(departmentIDs) == 0 {
		return rows, nil
	}
	err := r.db.Table("users").
		Select("campuses.id AS id, campuses.name AS name, COUNT(DISTINCT users.id) AS count").
		Joins("JOIN user_departments ON user_departments.user_id = users.id").
		Joins("JOIN departments ON departments.id = user_departments.department_id").
		Joins("JOIN campuses ON campuses.id = departments.campus_id").
		Where("users.deleted_at IS NULL AND users.role = ? AND user_departments.department_id IN ?", string(models.RoleStaff), departmentIDs).
		Group("campuses.id, campuses.name").
		Order("campuses.name ASC").
		Scan(&rows).Error
	return rows, err
}

// StaffByDepartment counts staff for each of the departments, including
// departments without staff
func (r *GormDashboardRepository) StaffByDepartment(departmentIDs []uint64) ([]NamedCount, error) {
	rows := []NamedCount{}
	if len(departmentIDs) == 0 {
		return rows, nil
	}
	err := r.db.Table("departments").
		Select("departments.id AS id, departments.name AS name, COUNT(users.id) AS count").
		Joins("LEFT JOIN user_departments ON user_departments.department_id = departments.id").
		Joins("LEFT JOIN users ON users.id = user_departments.user_id AND users.deleted_at IS NULL AND users.role = ?", string(models.RoleStaff)).
		Where("departments.id IN ?", departmentIDs).
		Group("departments.id, departments.name").
		Order("departments.name ASC").
		Scan(&rows).Error
	return rows, err
}
