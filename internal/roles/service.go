package roles

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/odyssey-erp/odyssey-users/internal/shared"
	"github.com/odyssey-erp/odyssey-users/internal/users"
)

// RepositoryPort defines data access methods for roles. Writes issued
// through the repository handed to WithTx are flushed when fn returns nil.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, RepositoryPort) error) error
	Find(ctx context.Context, id int64) (*Role, error)
	FindOneByName(ctx context.Context, name string) (*Role, error)
	FindByStatus(ctx context.Context, active bool) ([]Role, error)
	Insert(ctx context.Context, role *Role) error
	Update(ctx context.Context, role Role) error
	Remove(ctx context.Context, id int64) error
}

// UserFinder reads user records filed under a role name.
type UserFinder interface {
	FindByRole(ctx context.Context, role string) ([]users.User, error)
	CountByRole(ctx context.Context, role string) (int, error)
}

// PermissionChecker answers attribute checks for the current caller.
type PermissionChecker interface {
	Can(ctx context.Context, attribute string) bool
}

// Service manages role records and answers role-to-user queries.
type Service struct {
	repo     RepositoryPort
	users    UserFinder
	perms    PermissionChecker
	validate *validator.Validate
	logger   *slog.Logger
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, users UserFinder, perms PermissionChecker, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, users: users, perms: perms, validate: validator.New(), logger: logger}
}

// Create persists a new role and returns its id. Requires ROLE_CAN_CREATE.
func (s *Service) Create(ctx context.Context, name string, active bool) (int64, error) {
	if !s.perms.Can(ctx, shared.PermRoleCanCreate) {
		return 0, fmt.Errorf("%w: you are not allowed to create roles", shared.ErrPermissionDenied)
	}
	name = strings.TrimSpace(name)
	if err := s.validate.Var(name, "required,max=64"); err != nil {
		return 0, fmt.Errorf("%w: name is required", shared.ErrInvalidArgument)
	}

	role := Role{Name: name, Active: active}
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo RepositoryPort) error {
		return repo.Insert(ctx, &role)
	})
	if err != nil {
		s.logger.Error("create role", slog.String("name", name), slog.Any("error", err))
		return 0, fmt.Errorf("%w: could not create role", shared.ErrPersistence)
	}
	return role.ID, nil
}

// LookupByID returns the role with id, distinguishing ErrNotFound from ErrPersistence.
func (s *Service) LookupByID(ctx context.Context, id int64) (*Role, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: id is required", shared.ErrInvalidArgument)
	}
	role, err := s.repo.Find(ctx, id)
	if err != nil {
		return nil, s.readError("find role by id", err)
	}
	return role, nil
}

// LookupByName returns the first role named name, distinguishing ErrNotFound from ErrPersistence.
func (s *Service) LookupByName(ctx context.Context, name string) (*Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", shared.ErrInvalidArgument)
	}
	role, err := s.repo.FindOneByName(ctx, name)
	if err != nil {
		return nil, s.readError("find role by name", err)
	}
	return role, nil
}

// FindByID returns the role with id, or nil when it is missing or the lookup failed.
// Only ErrInvalidArgument is returned.
func (s *Service) FindByID(ctx context.Context, id int64) (*Role, error) {
	role, err := s.LookupByID(ctx, id)
	if errors.Is(err, shared.ErrInvalidArgument) {
		return nil, err
	}
	return role, nil
}

// FindByName returns the first role named name, or nil when missing or the lookup failed.
// Only ErrInvalidArgument is returned.
func (s *Service) FindByName(ctx context.Context, name string) (*Role, error) {
	role, err := s.LookupByName(ctx, name)
	if errors.Is(err, shared.ErrInvalidArgument) {
		return nil, err
	}
	return role, nil
}

// FindByStatus lists roles matching active. Lookup failures yield an empty list.
func (s *Service) FindByStatus(ctx context.Context, active bool) []Role {
	roles, err := s.repo.FindByStatus(ctx, active)
	if err != nil {
		s.logger.Error("find roles by status", slog.Bool("active", active), slog.Any("error", err))
		return []Role{}
	}
	return roles
}

// FindActive lists active roles.
func (s *Service) FindActive(ctx context.Context) []Role {
	return s.FindByStatus(ctx, true)
}

// GetCountByRole counts users filed under the role name. Lookup failures count as zero.
func (s *Service) GetCountByRole(ctx context.Context, role string) (int, error) {
	role = strings.TrimSpace(role)
	if role == "" {
		return 0, fmt.Errorf("%w: role is required", shared.ErrInvalidArgument)
	}
	count, err := s.users.CountByRole(ctx, role)
	if err != nil {
		s.logger.Error("count users by role", slog.String("role", role), slog.Any("error", err))
		return 0, nil
	}
	return count, nil
}

// GetUsersForRole lists the users filed under the name of the role with id.
// Unlike the Find methods it reports lookup failures.
func (s *Service) GetUsersForRole(ctx context.Context, id int64) ([]users.User, error) {
	role, err := s.LookupByID(ctx, id)
	if err != nil {
		return nil, err
	}
	list, err := s.users.FindByRole(ctx, role.Name)
	if err != nil {
		s.logger.Error("users for role", slog.Int64("role_id", id), slog.Any("error", err))
		return nil, fmt.Errorf("%w: could not list users for role", shared.ErrPersistence)
	}
	return list, nil
}

// Save creates a role when in.ID is zero, otherwise updates the existing role.
// Creating requires ROLE_CAN_CREATE, updating requires ROLE_CAN_SAVE.
func (s *Service) Save(ctx context.Context, in *SaveInput) (int64, error) {
	if in == nil {
		return 0, fmt.Errorf("%w: there is no data to save", shared.ErrInvalidArgument)
	}
	attribute := shared.PermRoleCanSave
	if in.ID == 0 {
		attribute = shared.PermRoleCanCreate
	}
	if !s.perms.Can(ctx, attribute) {
		return 0, fmt.Errorf("%w: you are not allowed to save roles", shared.ErrPermissionDenied)
	}
	in.Name = strings.TrimSpace(in.Name)
	if err := s.validate.Struct(in); err != nil {
		return 0, fmt.Errorf("%w: %s", shared.ErrInvalidArgument, err.Error())
	}

	var id int64
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo RepositoryPort) error {
		role := &Role{}
		if in.ID > 0 {
			existing, err := repo.Find(ctx, in.ID)
			if err != nil {
				return err
			}
			role = existing
		}
		role.Name = in.Name
		role.Active = *in.Active

		if role.ID > 0 {
			if err := repo.Update(ctx, *role); err != nil {
				return err
			}
		} else if err := repo.Insert(ctx, role); err != nil {
			return err
		}
		id = role.ID
		return nil
	})
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return 0, fmt.Errorf("%w: role not found", shared.ErrNotFound)
		}
		s.logger.Error("save role", slog.Int64("id", in.ID), slog.Any("error", err))
		return 0, fmt.Errorf("%w: could not save role", shared.ErrPersistence)
	}
	return id, nil
}

// Delete removes the role with id and returns the id. Requires ROLE_CAN_DELETE.
func (s *Service) Delete(ctx context.Context, id int64) (int64, error) {
	if !s.perms.Can(ctx, shared.PermRoleCanDelete) {
		return 0, fmt.Errorf("%w: you are not allowed to delete this role", shared.ErrPermissionDenied)
	}
	if id <= 0 {
		return 0, fmt.Errorf("%w: id is required", shared.ErrInvalidArgument)
	}
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo RepositoryPort) error {
		return repo.Remove(ctx, id)
	})
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return 0, fmt.Errorf("%w: role not found", shared.ErrNotFound)
		}
		s.logger.Error("delete role", slog.Int64("id", id), slog.Any("error", err))
		return 0, fmt.Errorf("%w: could not delete role", shared.ErrPersistence)
	}
	return id, nil
}

func (s *Service) readError(op string, err error) error {
	if errors.Is(err, shared.ErrNotFound) {
		return fmt.Errorf("%w: role", shared.ErrNotFound)
	}
	s.logger.Error(op, slog.Any("error", err))
	return fmt.Errorf("%w: could not %s", shared.ErrPersistence, op)
}
