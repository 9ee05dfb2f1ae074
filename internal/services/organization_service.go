package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/academic-task-api/internal/models"
	"github.com/yukikurage/academic-task-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrCampusNotFound           = errors.New("campus not found")
	ErrSchoolNotFound           = errors.New("school not found")
	ErrDepartmentNotFound       = errors.New("department not found")
	ErrInvalidOrganizationName  = errors.New("name cannot be empty")
	ErrDepartmentCampusMismatch = errors.New("department campus must match its school's campus")
	ErrSchoolCampusMismatch     = errors.New("school does not belong to the campus")
	ErrDepartmentSchoolMismatch = errors.New("department is outside the selected school or campus")
)

// OrganizationService provides business logic for the campus hierarchy.
type OrganizationService struct {
	orgRepo repository.OrganizationRepository
}

// NewOrganizationService creates a new OrganizationService.
func NewOrganizationService(orgRepo repository.OrganizationRepository) *OrganizationService {
	return &OrganizationService{
		orgRepo: orgRepo,
	}
}

func normalizeName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", ErrInvalidOrganizationName
	}
	return trimmed, nil
}

// ListCampuses returns every campus.
func (s *OrganizationService) ListCampuses() ([]models.Campus, error) {
	campuses, err := s.orgRepo.ListCampuses()
	if err != nil {
		return nil, fmt.Errorf("failed to list campuses: %w", err)
	}
	return campuses, nil
}

// GetCampus returns a campus.
func (s *OrganizationService) GetCampus(id uint64) (*models.Campus, error) {
	campus, err := s.orgRepo.FindCampus(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCampusNotFound
		}
		return nil, fmt.Errorf("failed to find campus: %w", err)
	}
	return campus, nil
}

// CreateCampus creates a campus.
func (s *OrganizationService) CreateCampus(name string) (*models.Campus, error) {
	name, err := normalizeName(name)
	if err != nil {
		return nil, err
	}

	campus := &models.Campus{Name: name}
	if err := s.orgRepo.CreateCampus(campus); err != nil {
		return nil, fmt.Errorf("failed to create campus: %w", err)
	}
	return campus, nil
}

// RenameCampus updates a campus name.
func (s *OrganizationService) RenameCampus(id uint64, name string) (*models.Campus, error) {
	name, err := normalizeName(name)
	if err != nil {
		return nil, err
	}

	campus, err := s.GetCampus(id)
	if err != nil {
		return nil, err
	}

	campus.Name = name
	campus.Schools = nil
	if err := s.orgRepo.UpdateCampus(campus); err != nil {
		return nil, fmt.Errorf("failed to update campus: %w", err)
	}
	return campus, nil
}

// DeleteCampus deletes a campus with its schools and departments.
func (s *OrganizationService) DeleteCampus(id uint64) error {
	if _, err := s.GetCampus(id); err != nil {
		return err
	}
	if err := s.orgRepo.DeleteCampus(id); err != nil {
		return fmt.Errorf("failed to delete campus: %w", err)
	}
	return nil
}

// ListSchools returns schools, optionally restricted to a campus.
func (s *OrganizationService) ListSchools(campusID *uint64) ([]models.School, error) {
	schools, err := s.orgRepo.ListSchools(campusID)
	if err != nil {
		return nil, fmt.Errorf("failed to list schools: %w", err)
	}
	return schools, nil
}

// GetSchool returns a school.
func (s *OrganizationService) GetSchool(id uint64) (*models.School, error) {
	school, err := s.orgRepo.FindSchool(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSchoolNotFound
		}
		return nil, fmt.Errorf("failed to find school: %w", err)
	}
	return school, nil
}

// SchoolInput holds the fields of a school.
type SchoolInput struct {
	Name     string
	CampusID uint64
}

// CreateSchool creates a school inside an existing campus.
func (s *OrganizationService) CreateSchool(input SchoolInput) (*models.School, error) {
	name, err := normalizeName(input.Name)
	if err != nil {
		return nil, err
	}
	if _, err := s.GetCampus(input.CampusID); err != nil {
		return nil, err
	}

	school := &models.School{Name: name, CampusID: input.CampusID}
	if err := s.orgRepo.CreateSchool(school); err != nil {
		return nil, fmt.Errorf("failed to create school: %w", err)
	}
	return school, nil
}

// UpdateSchool renames a school or moves it to another campus. Departments
// follow the school to its new campus.
func (s *OrganizationService) UpdateSchool(id uint64, input SchoolInput) (*models.School, error) {
	name, err := normalizeName(input.Name)
	if err != nil {
		return nil, err
	}

	school, err := s.GetSchool(id)
	if err != nil {
		return nil, err
	}
	if _, err := s.GetCampus(input.CampusID); err != nil {
		return nil, err
	}

	moved := school.CampusID != input.CampusID
	school.Name = name
	school.CampusID = input.CampusID
	school.Campus = nil
	if err := s.orgRepo.UpdateSchool(school); err != nil {
		return nil, fmt.Errorf("failed to update school: %w", err)
	}

	if moved {
		departments, err := s.orgRepo.ListDepartments(&school.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list departments: %w", err)
		}
		for i := range departments {
			departments[i].CampusID = school.CampusID
			departments[i].School = nil
			departments[i].Campus = nil
			if err := s.orgRepo.UpdateDepartment(&departments[i]); err != nil {
				return nil, fmt.Errorf("failed to move department: %w", err)
			}
		}
	}

	return school, nil
}

// DeleteSchool deletes a school and its departments.
func (s *OrganizationService) DeleteSchool(id uint64) error {
	if _, err := s.GetSchool(id); err != nil {
		return err
	}
	if err := s.orgRepo.DeleteSchool(id); err != nil {
		return fmt.Errorf("failed to delete school: %w", err)
	}
	return nil
}

// ListDepartments returns departments, optionally restricted to a school.
func (s *OrganizationService) ListDepartments(schoolID *uint64) ([]models.Department, error) {
	departments, err := s.orgRepo.ListDepartments(schoolID)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	return departments, nil
}

// GetDepartment returns a department.
func (s *OrganizationService) GetDepartment(id uint64) (*models.Department, error) {
	dept, err := s.orgRepo.FindDepartment(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDepartmentNotFound
		}
		return nil, fmt.Errorf("failed to find department: %w", err)
	}
	return dept, nil
}

// DepartmentInput holds the fields of a department. CampusID is optional and
// must match the school's campus when given.
type DepartmentInput struct {
	Name     string
	SchoolID uint64
	CampusID *uint64
}

func (s *OrganizationService) resolveDepartmentSchool(input DepartmentInput) (string, *models.School, error) {
	name, err := normalizeName(input.Name)
	if err != nil {
		return "", nil, err
	}

	school, err := s.GetSchool(input.SchoolID)
	if err != nil {
		return "", nil, err
	}
	if input.CampusID != nil && *input.CampusID != school.CampusID {
		return "", nil, ErrDepartmentCampusMismatch
	}
	return name, school, nil
}

// CreateDepartment creates a department in a school, inheriting its campus.
func (s *OrganizationService) CreateDepartment(input DepartmentInput) (*models.Department, error) {
	name, school, err := s.resolveDepartmentSchool(input)
	if err != nil {
		return nil, err
	}

	dept := &models.Department{Name: name, SchoolID: school.ID, CampusID: school.CampusID}
	if err := s.orgRepo.CreateDepartment(dept); err != nil {
		return nil, fmt.Errorf("failed to create department: %w", err)
	}
	return dept, nil
}

// UpdateDepartment renames a department or moves it to another school.
func (s *OrganizationService) UpdateDepartment(id uint64, input DepartmentInput) (*models.Department, error) {
	dept, err := s.GetDepartment(id)
	if err != nil {
		return nil, err
	}

	name, school, err := s.resolveDepartmentSchool(input)
	if err != nil {
		return nil, err
	}

	dept.Name = name
	dept.SchoolID = school.ID
	dept.CampusID = school.CampusID
	dept.School = nil
	dept.Campus = nil
	if err := s.orgRepo.UpdateDepartment(dept); err != nil {
		return nil, fmt.Errorf("failed to update department: %w", err)
	}
	return dept, nil
}

// DeleteDepartment deletes a department and unlinks its users and projects.
func (s *OrganizationService) DeleteDepartment(id uint64) error {
	if _, err := s.GetDepartment(id); err != nil {
		return err
	}
	if err := s.orgRepo.DeleteDepartment(id); err != nil {
		return fmt.Errorf("failed to delete department: %w", err)
	}
	return nil
}

// ResolvePlacement checks that a campus, school and set of departments form
// a consistent chain and returns the departments. Nil ids are skipped.
func (s *OrganizationService) ResolvePlacement(campusID, schoolID *uint64, departmentIDs []uint64) ([]models.Department, error) {
	var school *models.School
	if campusID != nil {
		if _, err := s.GetCampus(*campusID); err != nil {
			return nil, err
		}
	}
	if schoolID != nil {
		found, err := s.GetSchool(*schoolID)
		if err != nil {
			return nil, err
		}
		if campusID != nil && found.CampusID != *campusID {
			return nil, ErrSchoolCampusMismatch
		}
		school = found
	}

	ids := uniqueUint64(departmentIDs)
	if len(ids) == 0 {
		return []models.Department{}, nil
	}

	departments, err := s.orgRepo.FindDepartmentsByIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to find departments: %w", err)
	}
	if len(departments) != len(ids) {
		return nil, ErrDepartmentNotFound
	}
	for _, d := range departments {
		if school != nil && d.SchoolID != school.ID {
			return nil, ErrDepartmentSchoolMismatch
		}
		if campusID != nil && d.CampusID != *campusID {
			return nil, ErrDepartmentSchoolMismatch
		}
	}
	return departments, nil
}

// uniqueUint64 removes duplicate values from a slice of uint64
func uniqueUint64(values []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(values))
	result := make([]uint64, 0, len(values))

	for _, v := range values {
		if _, exists := seen[v]; exists {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}

	return result
}
