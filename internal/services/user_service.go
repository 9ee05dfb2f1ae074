package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/academic-task-api/internal/models"
	"github.com/yukikurage/academic-task-api/internal/repository"
	"github.com/yukikurage/academic-task-api/internal/utils"
	"github.com/yukikurage/academic-task-api/internal/visibility"
	"gorm.io/gorm"
)

var (
	ErrUsernameRequired    = errors.New("username is required")
	ErrEmailRequired       = errors.New("email is required")
	ErrUsernameTaken       = errors.New("username is already taken")
	ErrEmailTaken          = errors.New("email is already registered")
	ErrEmpIDTaken          = errors.New("employee id is already in use")
	ErrPhoneNumberTaken    = errors.New("phone number is already in use")
	ErrInvalidPhoneNumber  = errors.New("phone number must contain digits only")
	ErrInvalidRole         = errors.New("invalid role")
	ErrRoleNotGrantable    = errors.New("only admins may grant the admin or hod role")
	ErrAccountsAdminOnly   = errors.New("only admins may create accounts; heads of department add staff instead")
	ErrCannotModifySelf    = errors.New("cannot change your own role or delete your own account")
	ErrNoManagedDepartment = errors.New("you do not manage any department")
	ErrPasswordGeneration  = errors.New("failed to generate temporary password")
)

// UserService provides account management for admins and HODs.
type UserService struct {
	userRepo   repository.UserRepository
	orgService *OrganizationService
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository, orgService *OrganizationService) *UserService {
	return &UserService{
		userRepo:   userRepo,
		orgService: orgService,
	}
}

// CreateUserInput represents input for creating an account.
type CreateUserInput struct {
	Username             string
	Email                string
	Password             string
	PasswordConfirmation string
	EmpID                string
	PhoneNumber          string
	Gender               string
	CampusID             *uint64
	SchoolID             *uint64
	DepartmentIDs        []uint64
	Role                 models.Role
}

// UpdateUserInput represents a partial account update. Nil fields are kept;
// a non-nil DepartmentIDs replaces the links.
type UpdateUserInput struct {
	Email         *string
	EmpID         *string
	PhoneNumber   *string
	Gender        *string
	CampusID      *uint64
	SchoolID      *uint64
	DepartmentIDs []uint64
	IsActive      *bool
}

// StaffInput is what a HOD supplies when creating or editing staff.
type StaffInput struct {
	Username      string
	Email         string
	EmpID         string
	PhoneNumber   string
	Gender        string
	DepartmentIDs []uint64
}

func checkGrant(actor visibility.Viewer, role models.Role) error {
	if role != models.RoleNone && !role.Valid() {
		return ErrInvalidRole
	}
	if (role == models.RoleAdmin || role == models.RoleHOD) && actor.Role != models.RoleAdmin {
		return ErrRoleNotGrantable
	}
	return nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// checkUnique verifies the unique columns against every other user.
func (s *UserService) checkUnique(user *models.User) error {
	checks := []struct {
		column repository.UniqueColumn
		value  string
		err    error
	}{
		{repository.ColumnUsername, user.Username, ErrUsernameTaken},
		{repository.ColumnEmail, user.Email, ErrEmailTaken},
		{repository.ColumnEmpID, user.EmpID, ErrEmpIDTaken},
		{repository.ColumnPhoneNumber, user.PhoneNumber, ErrPhoneNumberTaken},
	}
	for _, c := range checks {
		taken, err := s.userRepo.IsTaken(c.column, c.value, user.ID)
		if err != nil {
			return fmt.Errorf("failed to check %s: %w", c.column, err)
		}
		if taken {
			return c.err
		}
	}
	return nil
}

func validateContact(username, email, phone string) error {
	if username == "" {
		return ErrUsernameRequired
	}
	if email == "" {
		return ErrEmailRequired
	}
	if !isDigits(phone) {
		return ErrInvalidPhoneNumber
	}
	return nil
}

// CreateUser creates an account with the given role and placement.
// Only admins may call it: placement is unrestricted here.
func (s *UserService) CreateUser(actor visibility.Viewer, input CreateUserInput) (*models.User, error) {
	if err := checkGrant(actor, input.Role); err != nil {
		return nil, err
	}
	if actor.Role != models.RoleAdmin {
		return nil, ErrAccountsAdminOnly
	}

	user := &models.User{
		Username:    strings.TrimSpace(input.Username),
		Email:       strings.TrimSpace(input.Email),
		Role:        input.Role,
		EmpID:       strings.TrimSpace(input.EmpID),
		PhoneNumber: strings.TrimSpace(input.PhoneNumber),
		Gender:      input.Gender,
		CampusID:    input.CampusID,
		SchoolID:    input.SchoolID,
		IsActive:    true,
	}
	if err := validateContact(user.Username, user.Email, user.PhoneNumber); err != nil {
		return nil, err
	}
	if err := s.checkUnique(user); err != nil {
		return nil, err
	}

	departments, err := s.orgService.ResolvePlacement(input.CampusID, input.SchoolID, input.DepartmentIDs)
	if err != nil {
		return nil, err
	}

	hash, err := hashPassword(input.Password, input.PasswordConfirmation)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = hash
	user.Departments = departments

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return s.load(user.ID)
}

// GetUser returns a user the viewer may see.
func (s *UserService) GetUser(viewer visibility.Viewer, id uint64) (*models.User, error) {
	users, err := s.userRepo.List(repository.UserFilter{
		Scope: visibility.Users(viewer),
		IDs:   []uint64{id},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if len(users) == 0 {
		return nil, ErrUserNotFound
	}
	return &users[0], nil
}

// ListUsers lists users the viewer may see, optionally restricted to a role.
func (s *UserService) ListUsers(viewer visibility.Viewer, role *models.Role) ([]models.User, error) {
	filter := repository.UserFilter{Scope: visibility.Users(viewer)}
	if role != nil {
		filter.Roles = []models.Role{*role}
	}

	users, err := s.userRepo.List(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// UpdateUser applies a partial update to any account.
func (s *UserService) UpdateUser(id uint64, input UpdateUserInput) (*models.User, error) {
	user, err := s.load(id)
	if err != nil {
		return nil, err
	}

	if input.Email != nil {
		user.Email = strings.TrimSpace(*input.Email)
	}
	if input.EmpID != nil {
		user.EmpID = strings.TrimSpace(*input.EmpID)
	}
	if input.PhoneNumber != nil {
		user.PhoneNumber = strings.TrimSpace(*input.PhoneNumber)
	}
	if input.Gender != nil {
		user.Gender = *input.Gender
	}
	if input.CampusID != nil {
		user.CampusID = input.CampusID
	}
	if input.SchoolID != nil {
		user.SchoolID = input.SchoolID
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}

	if err := validateContact(user.Username, user.Email, user.PhoneNumber); err != nil {
		return nil, err
	}
	if err := s.checkUnique(user); err != nil {
		return nil, err
	}

	departmentIDs := input.DepartmentIDs
	if departmentIDs == nil {
		departmentIDs = user.DepartmentIDs()
	}
	departments, err := s.orgService.ResolvePlacement(user.CampusID, user.SchoolID, departmentIDs)
	if err != nil {
		return nil, err
	}
	if input.DepartmentIDs == nil {
		departments = nil
	}

	if err := s.userRepo.Update(user, departments); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return s.load(user.ID)
}

// UpdateRole changes only the role of an account.
func (s *UserService) UpdateRole(actor visibility.Viewer, id uint64, role models.Role) (*models.User, error) {
	if id == actor.UserID {
		return nil, ErrCannotModifySelf
	}
	if err := checkGrant(actor, role); err != nil {
		return nil, err
	}

	user, err := s.load(id)
	if err != nil {
		return nil, err
	}

	user.Role = role
	if err := s.userRepo.Update(user, nil); err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}
	return user, nil
}

// DeleteUser soft deletes an account other than the actor's own.
func (s *UserService) DeleteUser(actor visibility.Viewer, id uint64) error {
	if id == actor.UserID {
		return ErrCannotModifySelf
	}
	if _, err := s.load(id); err != nil {
		return err
	}
	if err := s.userRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// ListStaff lists staff in the HOD's departments.
func (s *UserService) ListStaff(hod visibility.Viewer) ([]models.User, error) {
	if len(hod.DepartmentIDs) == 0 {
		return []models.User{}, nil
	}

	users, err := s.userRepo.List(repository.UserFilter{
		Scope:         visibility.Users(hod),
		Roles:         []models.Role{models.RoleStaff},
		DepartmentIDs: hod.DepartmentIDs,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}
	return users, nil
}

// managedDepartments keeps the requested departments the HOD belongs to.
// An empty request means all of them.
func managedDepartments(hod visibility.Viewer, requested []uint64) ([]uint64, error) {
	if len(hod.DepartmentIDs) == 0 {
		return nil, ErrNoManagedDepartment
	}
	if len(requested) == 0 {
		return hod.DepartmentIDs, nil
	}

	own := make(map[uint64]struct{}, len(hod.DepartmentIDs))
	for _, id := range hod.DepartmentIDs {
		own[id] = struct{}{}
	}
	kept := make([]uint64, 0, len(requested))
	for _, id := range uniqueUint64(requested) {
		if _, ok := own[id]; ok {
			kept = append(kept, id)
		}
	}
	if len(kept) == 0 {
		return nil, ErrDepartmentNotFound
	}
	return kept, nil
}

// CreateStaff creates a staff account in the HOD's departments and returns
// its temporary password, which is never stored in plain text.
func (s *UserService) CreateStaff(hod visibility.Viewer, input StaffInput) (*models.User, string, error) {
	departmentIDs, err := managedDepartments(hod, input.DepartmentIDs)
	if err != nil {
		return nil, "", err
	}
	departments, err := s.orgService.ResolvePlacement(nil, nil, departmentIDs)
	if err != nil {
		return nil, "", err
	}

	password, err := utils.GenerateTemporaryPassword()
	if err != nil {
		return nil, "", ErrPasswordGeneration
	}

	first := departments[0]
	user, err := s.CreateUser(hod, CreateUserInput{
		Username:             input.Username,
		Email:                input.Email,
		Password:             password,
		PasswordConfirmation: password,
		EmpID:                input.EmpID,
		PhoneNumber:          input.PhoneNumber,
		Gender:               input.Gender,
		CampusID:             &first.CampusID,
		SchoolID:             &first.SchoolID,
		DepartmentIDs:        sameSchool(departments, first.SchoolID),
		Role:                 models.RoleStaff,
	})
	if err != nil {
		return nil, "", err
	}
	return user, password, nil
}

// UpdateStaff edits a staff account in the HOD's departments. Links to
// departments the HOD does not manage are left untouched.
func (s *UserService) UpdateStaff(hod visibility.Viewer, id uint64, input StaffInput) (*models.User, error) {
	staff, err := s.findManagedStaff(hod, id)
	if err != nil {
		return nil, err
	}

	update := UpdateUserInput{
		Email:       &input.Email,
		EmpID:       &input.EmpID,
		PhoneNumber: &input.PhoneNumber,
		Gender:      &input.Gender,
	}
	if input.DepartmentIDs != nil {
		managed, err := managedDepartments(hod, input.DepartmentIDs)
		if err != nil {
			return nil, err
		}
		own := make(map[uint64]struct{}, len(hod.DepartmentIDs))
		for _, d := range hod.DepartmentIDs {
			own[d] = struct{}{}
		}
		kept := make([]uint64, 0)
		for _, d := range staff.DepartmentIDs() {
			if _, ok := own[d]; !ok {
				kept = append(kept, d)
			}
		}
		update.DepartmentIDs = uniqueUint64(append(kept, managed...))
	}

	return s.UpdateUser(staff.ID, update)
}

// DeleteStaff deletes a staff account in the HOD's departments.
func (s *UserService) DeleteStaff(hod visibility.Viewer, id uint64) error {
	staff, err := s.findManagedStaff(hod, id)
	if err != nil {
		return err
	}
	return s.DeleteUser(hod, staff.ID)
}

func (s *UserService) findManagedStaff(hod visibility.Viewer, id uint64) (*models.User, error) {
	user, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if user.Role != models.RoleStaff {
		return nil, ErrUserNotFound
	}

	own := make(map[uint64]struct{}, len(hod.DepartmentIDs))
	for _, d := range hod.DepartmentIDs {
		own[d] = struct{}{}
	}
	for _, d := range user.DepartmentIDs() {
		if _, ok := own[d]; ok {
			return user, nil
		}
	}
	return nil, ErrUserNotFound
}

// sameSchool keeps the ids of departments in the given school, so the new
// account's placement stays consistent.
func sameSchool(departments []models.Department, schoolID uint64) []uint64 {
	ids := make([]uint64, 0, len(departments))
	for _, d := range departments {
		if d.SchoolID == schoolID {
			ids = append(ids, d.ID)
		}
	}
	return ids
}

func (s *UserService) load(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}
