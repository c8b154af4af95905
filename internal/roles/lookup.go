package roles

import (
	"context"
	"errors"
	"log/slog"

	"github.com/odyssey-erp/odyssey-users/internal/authz"
	"github.com/odyssey-erp/odyssey-users/internal/shared"
)

// RoleFinder is the read side of RepositoryPort needed by NameLookup.
type RoleFinder interface {
	Find(ctx context.Context, id int64) (*Role, error)
}

// NameLookup resolves role codes to names using role ids as codes.
// Inactive or missing roles resolve to the empty name.
type NameLookup struct {
	roles  RoleFinder
	logger *slog.Logger
}

// NewNameLookup builds a NameLookup.
func NewNameLookup(roles RoleFinder, logger *slog.Logger) *NameLookup {
	if logger == nil {
		logger = slog.Default()
	}
	return &NameLookup{roles: roles, logger: logger}
}

// RoleName implements authz.RoleNameLookup.
func (l *NameLookup) RoleName(ctx context.Context, code authz.RoleCode) string {
	if code <= 0 {
		return ""
	}
	role, err := l.roles.Find(ctx, int64(code))
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			l.logger.Error("role name lookup", slog.Int64("code", int64(code)), slog.Any("error", err))
		}
		return ""
	}
	if !role.Active {
		return ""
	}
	return role.Name
}

var _ authz.RoleNameLookup = (*NameLookup)(nil)
