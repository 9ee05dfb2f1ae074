package repository

import (
	"github.com/yukikurage/academic-task-api/internal/models"
	"gorm.io/gorm"
)

// GormOrganizationRepository is a GORM implementation of OrganizationRepository
type GormOrganizationRepository struct {
	db *gorm.DB
}

// NewOrganizationRepository creates a new OrganizationRepository
func NewOrganizationRepository(db *gorm.DB) OrganizationRepository {
	return &GormOrganizationRepository{db: db}
}

func (r *GormOrganizationRepository) CreateCampus(campus *models.Campus) error {
	return r.db.Create(campus).Error
}

func (r *GormOrganizationRepository) FindCampus(id uint64) (*models.Campus, error) {
	var campus models.Campus
	if err := r.db.First(&campus, id).Error; err != nil {
		return nil, err
	}
	return &campus, nil
}

func (r *GormOrganizationRepository) ListCampuses() ([]models.Campus, error) {
	var campuses []models.Campus
	if err := r.db.Order("name ASC").Find(&campuses).Error; err != nil {
		return nil, err
	}
	return campuses, nil
}

func (r *GormOrganizationRepository) UpdateCampus(campus *models.Campus) error {
	return r.db.Omit("Schools").Save(campus).Error
}

// DeleteCampus deletes the campus with its schools and departments in a transaction
func (r *GormOrganizationRepository) DeleteCampus(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var deptIDs []uint64
		if err := tx.Model(&models.Department{}).Where("campus_id = ?", id).Pluck("id", &deptIDs).Error; err != nil {
			return err
		}
		if err := unlinkDepartments(tx, deptIDs); err != nil {
			return err
		}
		if err := tx.Where("campus_id = ?", id).Delete(&models.Department{}).Error; err != nil {
			return err
		}
		if err := tx.Where("campus_id = ?", id).Delete(&models.School{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.User{}).Where("campus_id = ?", id).
			Updates(map[string]interface{}{"campus_id": nil, "school_id": nil}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Campus{}, id).Error
	})
}

func (r *GormOrganizationRepository) CreateSchool(school *models.School) error {
	return r.db.Omit("Campus", "Departments").Create(school).Error
}

func (r *GormOrganizationRepository) FindSchool(id uint64) (*models.School, error) {
	var school models.School
	if err := r.db.Preload("Campus").First(&school, id).Error; err != nil {
		return nil, err
	}
	return &school, nil
}

func (r *GormOrganizationRepository) ListSchools(campusID *uint64) ([]models.School, error) {
	query := r.db.Preload("Campus").Order("name ASC")
	if campusID != nil {
		query = query.Where("campus_id = ?", *campusID)
	}

	var schools []models.School
	if err := query.Find(&schools).Error; err != nil {
		return nil, err
	}
	return schools, nil
}

func (r *GormOrganizationRepository) UpdateSchool(school *models.School) error {
	return r.db.Omit("Campus", "Departments").Save(school).Error
}

// DeleteSchool deletes the school with its departments in a transaction
func (r *GormOrganizationRepository) DeleteSchool(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var deptIDs []uint64
		if err := tx.Model(&models.Department{}).Where("school_id = ?", id).Pluck("id", &deptIDs).Error; err != nil {
			return err
		}
		if err := unlinkDepartments(tx, deptIDs); err != nil {
			return err
		}
		if err := tx.Where("school_id = ?", id).Delete(&models.Department{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.User{}).Where("school_id = ?", id).
			Update("school_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.School{}, id).Error
	})
}

func (r *GormOrganizationRepository) CreateDepartment(dept *models.Department) error {
	return r.db.Omit("Campus", "School").Create(dept).Error
}

func (r *GormOrganizationRepository) FindDepartment(id uint64) (*models.Department, error) {
	var dept models.Department
	if err := r.db.Preload("School").Preload("Campus").First(&dept, id).Error; err != nil {
		return nil, err
	}
	return &dept, nil
}

func (r *GormOrganizationRepository) ListDepartments(schoolID *uint64) ([]models.Department, error) {
	query := r.db.Preload("School").Preload("Campus").Order("name ASC")
	if schoolID != nil {
		query = query.Where("school_id = ?", *schoolID)
	}

	var depts []models.Department
	if err := query.Find(&depts).Error; err != nil {
		return nil, err
	}
	return depts, nil
}

func (r *GormOrganizationRepository) FindDepartmentsByIDs(ids []uint64) ([]models.Department, error) {
	if len(ids) == 0 {
		return []models.Department{}, nil
	}

	var depts []models.Department
	if err := r.db.Where("id IN ?", ids).Order("id ASC").Find(&depts).Error; err != nil {
		return nil, err
	}
	return depts, nil
}

func (r *GormOrganizationRepository) UpdateDepartment(dept *models.Department) error {
	return r.db.Omit("Campus", "School").Save(dept).Error
}

func (r *GormOrganizationRepository) DeleteDepartment(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := unlinkDepartments(tx, []uint64{id}); err != nil {
			return err
		}
		return tx.Delete(&models.Department{}, id).Error
	})
}

// unlinkDepartments removes user and project links to the departments.
func unlinkDepartments(tx *gorm.DB, deptIDs []uint64) error {
	if len(deptIDs) == 0 {
		return nil
	}
	if err := tx.Exec("DELETE FROM user_departments WHERE department_id IN ?", deptIDs).Error; err != nil {
		return err
	}
	return tx.Exec("DELETE FROM project_departments WHERE department_id IN ?", deptIDs).Error
}
