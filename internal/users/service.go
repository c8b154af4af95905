package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/odyssey-erp/odyssey-users/internal/shared"
)

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	Get(ctx context.Context, id int64) (*User, error)
	FindByRole(ctx context.Context, role string) ([]User, error)
	CountByRole(ctx context.Context, role string) (int, error)
	Create(ctx context.Context, user User) (int64, error)
	Update(ctx context.Context, user User) error
	Deactivate(ctx context.Context, id int64) error
}

// Authorizer answers attribute checks for the current caller.
type Authorizer interface {
	Can(ctx context.Context, attribute string) bool
	CanOn(ctx context.Context, attribute string, target any) bool
}

// Service handles user business logic.
type Service struct {
	repo     RepositoryPort
	authz    Authorizer
	validate *validator.Validate
	logger   *slog.Logger
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, authz Authorizer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, authz: authz, validate: validator.New(), logger: logger}
}

// Get returns a user by id.
func (s *Service) Get(ctx context.Context, id int64) (*User, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: id is required", shared.ErrInvalidArgument)
	}
	user, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, s.storeError("get user", err)
	}
	return user, nil
}

// ListByRole returns users filed under a role name.
func (s *Service) ListByRole(ctx context.Context, role string) ([]User, error) {
	role = strings.TrimSpace(role)
	if role == "" {
		return nil, fmt.Errorf("%w: role is required", shared.ErrInvalidArgument)
	}
	users, err := s.repo.FindByRole(ctx, role)
	if err != nil {
		return nil, s.storeError("list users by role", err)
	}
	return users, nil
}

// Create registers a new active user. Requires USER_CAN_CREATE.
func (s *Service) Create(ctx context.Context, in CreateInput) (*User, error) {
	if !s.authz.Can(ctx, shared.PermUserCanCreate) {
		return nil, fmt.Errorf("%w: you are not allowed to create users", shared.ErrPermissionDenied)
	}
	in.Email = strings.TrimSpace(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	in.Role = strings.TrimSpace(in.Role)
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %s", shared.ErrInvalidArgument, err.Error())
	}

	user := User{Email: in.Email, Name: in.Name, Role: in.Role, RoleID: in.RoleID, IsActive: true}
	if in.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("%w: password cannot be hashed", shared.ErrInvalidArgument)
		}
		user.PasswordHash = string(hash)
	}
	id, err := s.repo.Create(ctx, user)
	if err != nil {
		s.logger.Error("create user", slog.Any("error", err))
		return nil, fmt.Errorf("%w: could not create user", shared.ErrPersistence)
	}
	user.ID = id
	return &user, nil
}

// Update changes profile fields. Requires USER_CAN_SAVE on the target user,
// which account owners hold for their own record.
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (*User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.authz.CanOn(ctx, shared.PermUserCanSave, user) {
		return nil, fmt.Errorf("%w: you are not allowed to update this user", shared.ErrPermissionDenied)
	}
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %s", shared.ErrInvalidArgument, err.Error())
	}
	if in.Email != nil {
		user.Email = strings.TrimSpace(*in.Email)
	}
	if in.Name != nil {
		user.Name = strings.TrimSpace(*in.Name)
	}
	if err := s.repo.Update(ctx, *user); err != nil {
		return nil, s.storeError("update user", err)
	}
	return user, nil
}

// Deactivate disables a user. Requires USER_CAN_DELETE.
func (s *Service) Deactivate(ctx context.Context, id int64) error {
	if !s.authz.Can(ctx, shared.PermUserCanDelete) {
		return fmt.Errorf("%w: you are not allowed to delete users", shared.ErrPermissionDenied)
	}
	if id <= 0 {
		return fmt.Errorf("%w: id is required", shared.ErrInvalidArgument)
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return s.storeError("deactivate user", err)
	}
	return nil
}

func (s *Service) storeError(op string, err error) error {
	if errors.Is(err, shared.ErrNotFound) {
		return fmt.Errorf("%w: user", shared.ErrNotFound)
	}
	s.logger.Error(op, slog.Any("error", err))
	return fmt.Errorf("%w: could not %s", shared.ErrPersistence, op)
}
