package services

import (
	"errors"
	"fmt"

	"github.com/kmazurek/ticket-system-api/internal/constants"
	"github.com/kmazurek/ticket-system-api/internal/models"
	"github.com/kmazurek/ticket-system-api/internal/permissions"
	"github.com/kmazurek/ticket-system-api/internal/repository"
	"github.com/kmazurek/ticket-system-api/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUserReferenced = errors.New("user is still referenced by tickets")
)

// UserService handles user administration.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
	}
}

// CreateUserInput represents the required information to create a user.
type CreateUserInput struct {
	Email    string
	Password string
	Name     string
	Surname  string
	IsStaff  bool
}

// CreateUser creates a new account. Only superusers may create accounts;
// the gate runs before anything else so the caller can distinguish an
// anonymous request from an authenticated-but-not-permitted one.
func (s *UserService) CreateUser(actor permissions.Principal, input CreateUserInput) (*models.User, error) {
	if !permissions.CanCreateUser(actor) {
		if !actor.Authenticated() {
			return nil, ErrAuthenticationRequired
		}
		return nil, ErrPermissionDenied
	}

	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	email := utils.NormalizeEmail(input.Email)

	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Email:        email,
		Name:         input.Name,
		Surname:      input.Surname,
		PasswordHash: string(hashed),
		IsActive:     true,
		IsStaff:      input.IsStaff,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// ListEmployees lists every user account.
func (s *UserService) ListEmployees() ([]models.User, error) {
	users, err := s.userRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// DeleteUser removes an account. Superuser only. Users still referenced as
// ticket creator or assignee are protected by the store; their comments are
// kept with the author reference nulled.
func (s *UserService) DeleteUser(actor permissions.Principal, id uint64) error {
	if !actor.Authenticated() {
		return ErrAuthenticationRequired
	}
	if !actor.IsSuperuser {
		return ErrPermissionDenied
	}

	if _, err := s.userRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if err := s.userRepo.Delete(id); err != nil {
		if errors.Is(err, repository.ErrUserProtected) {
			return ErrUserReferenced
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return nil
}
