package service

import (
	"context"
	"database/sql"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"docvault/internal/auth"
	"docvault/internal/model"
	"docvault/internal/repository"
)

const minPasswordLen = 8

// CreateUserInput carries the admin "create user" form.
type CreateUserInput struct {
	Name                 string
	Email                string
	Password             string
	PasswordConfirmation string
	Role                 model.Role
}

// UpdateUserInput carries the admin "edit user" form. All fields are
// required; role and status are constrained to their closed sets.
type UpdateUserInput struct {
	ID     string
	Name   string
	Email  string
	Role   model.Role
	Status model.Status
}

// UserService defines account management and authentication use cases.
type UserService interface {
	// List returns all users.
	List(ctx context.Context) ([]model.User, error)

	// Create validates the form, hashes the password and stores a new
	// active account.
	Create(ctx context.Context, in CreateUserInput) (*model.User, error)

	// Update overwrites name, email, role and status. Email uniqueness is
	// checked excluding the user itself.
	Update(ctx context.Context, in UpdateUserInput) (*model.User, error)

	// Delete removes an account. Deleting the acting principal's own
	// account returns ErrSelfDelete.
	Delete(ctx context.Context, id, actorID string) error

	// Get returns a single user.
	Get(ctx context.Context, id string) (*model.User, error)

	// Authenticate verifies email+password and that the account is active.
	Authenticate(ctx context.Context, email, password string) (*model.User, error)
}

type userService struct {
	repo repository.UserRepository
}

// NewUserService constructs a new UserService.
func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) List(ctx context.Context) ([]model.User, error) {
	return s.repo.List(ctx)
}

func (s *userService) Create(ctx context.Context, in CreateUserInput) (*model.User, error) {
	ve := newValidationError()
	validateName(ve, in.Name)
	validateEmail(ve, in.Email)
	if in.Password == "" {
		ve.add("password", "The password field is required.")
	} else if len(in.Password) < minPasswordLen {
		ve.add("password", "The password must be at least 8 characters.")
	} else if in.Password != in.PasswordConfirmation {
		ve.add("password", "The password confirmation does not match.")
	}
	if !in.Role.Valid() {
		ve.add("role", "The selected role is invalid.")
	}
	if err := ve.orNil(); err != nil {
		return nil, err
	}

	taken, err := s.repo.EmailExists(ctx, in.Email, "")
	if err != nil {
		return nil, err
	}
	if taken {
		ve.add("email", "The email has already been taken.")
		return nil, ve
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &model.User{
		ID:           uuid.New().String(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
		Status:       model.StatusActive, // new accounts start active
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return s.repo.Create(ctx, user)
}

func (s *userService) Update(ctx context.Context, in UpdateUserInput) (*model.User, error) {
	if in.ID == "" {
		return nil, ErrIDRequired
	}
	ve := newValidationError()
	validateName(ve, in.Name)
	validateEmail(ve, in.Email)
	if !in.Role.Valid() {
		ve.add("role", "The selected role is invalid.")
	}
	if !in.Status.Valid() {
		ve.add("status", "The selected status is invalid.")
	}
	if err := ve.orNil(); err != nil {
		return nil, err
	}

	taken, err := s.repo.EmailExists(ctx, in.Email, in.ID)
	if err != nil {
		return nil, err
	}
	if taken {
		ve.add("email", "The email has already been taken.")
		return nil, ve
	}

	user := &model.User{
		ID:        in.ID,
		Name:      in.Name,
		Email:     in.Email,
		Role:      in.Role,
		Status:    in.Status,
		UpdatedAt: time.Now().UTC(),
	}
	stored, err := s.repo.Update(ctx, user)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return stored, nil
}

func (s *userService) Delete(ctx context.Context, id, actorID string) error {
	if id == "" {
		return ErrIDRequired
	}
	if id == actorID {
		return ErrSelfDelete
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *userService) Get(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	if user.Status != model.StatusActive {
		return nil, ErrAccountInactive
	}
	return user, nil
}

func validateName(ve *ValidationError, name string) {
	if strings.TrimSpace(name) == "" {
		ve.add("name", "The name field is required.")
	} else if len(name) > 255 {
		ve.add("name", "The name may not be greater than 255 characters.")
	}
}

func validateEmail(ve *ValidationError, email string) {
	if email == "" {
		ve.add("email", "The email field is required.")
		return
	}
	if _, err := mail.ParseAddress(email); err != nil {
		ve.add("email", "The email must be a valid email address.")
	}
}
