package authz

import (
	"context"
	"log/slog"
	"slices"

	"github.com/odyssey-erp/odyssey-users/internal/shared"
)

// UserValidator decides the user management attributes.
type UserValidator struct {
	resolver TokenResolver
	names    RoleNameLookup
	policy   MultiRolePolicy
	logger   *slog.Logger
}

// NewUserValidator builds a UserValidator.
func NewUserValidator(resolver TokenResolver, names RoleNameLookup, policy MultiRolePolicy, logger *slog.Logger) *UserValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserValidator{resolver: resolver, names: names, policy: policy, logger: logger}
}

// SupportedAttributes returns the attributes decided by UserValidator.
func (v *UserValidator) SupportedAttributes() []string {
	return shared.UserScopes()
}

// SupportsAttribute reports whether attribute is decided by UserValidator.
func (v *UserValidator) SupportsAttribute(attribute string) bool {
	return slices.Contains(v.SupportedAttributes(), attribute)
}

// Validate decides whether the token holder may perform attribute, optionally on target.
// USER_CAN_SAVE is also granted when target is the actor's own record.
func (v *UserValidator) Validate(ctx context.Context, token, attribute string, target any) bool {
	actor := resolveActor(ctx, v.resolver, v.logger, token)
	names := roleNames(ctx, v.names, actor)
	ownData := ownsRecord(actor, target)

	switch attribute {
	case shared.PermUserCanCreate, shared.PermUserCanDelete:
		return v.policy.grants(names, isAdministrative)
	case shared.PermUserCanSave:
		return v.policy.grants(names, isAdministrative) || ownData
	default:
		return false
	}
}

var _ Validator = (*UserValidator)(nil)
