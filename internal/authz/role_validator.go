package authz

import (
	"context"
	"log/slog"
	"slices"

	"github.com/odyssey-erp/odyssey-users/internal/shared"
)

// RoleValidator decides the role management attributes.
// Service principals may create roles but never change or delete them.
type RoleValidator struct {
	resolver TokenResolver
	names    RoleNameLookup
	policy   MultiRolePolicy
	logger   *slog.Logger
}

// NewRoleValidator builds a RoleValidator.
func NewRoleValidator(resolver TokenResolver, names RoleNameLookup, policy MultiRolePolicy, logger *slog.Logger) *RoleValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &RoleValidator{resolver: resolver, names: names, policy: policy, logger: logger}
}

// SupportedAttributes returns the attributes decided by RoleValidator.
func (v *RoleValidator) SupportedAttributes() []string {
	return shared.RoleScopes()
}

// SupportsAttribute reports whether attribute is decided by RoleValidator.
func (v *RoleValidator) SupportsAttribute(attribute string) bool {
	return slices.Contains(v.SupportedAttributes(), attribute)
}

// Validate decides whether the token holder may perform attribute.
func (v *RoleValidator) Validate(ctx context.Context, token, attribute string, _ any) bool {
	actor := resolveActor(ctx, v.resolver, v.logger, token)
	names := roleNames(ctx, v.names, actor)

	switch attribute {
	case shared.PermRoleCanCreate:
		if v.policy.grants(names, isAdministrative) {
			return true
		}
		if isService(actor) {
			v.logger.Info("service credential granted",
				slog.String("attribute", attribute),
				slog.Int64("principal", actor.GetID()))
			return true
		}
		return false
	case shared.PermRoleCanSave, shared.PermRoleCanDelete:
		return v.policy.grants(names, isAdministrative)
	default:
		return false
	}
}

var _ Validator = (*RoleValidator)(nil)
