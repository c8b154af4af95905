// Package authz answers yes/no authorization questions for bearer tokens.
package authz

import "context"

// RoleCode identifies a role as stored on the user record.
type RoleCode int64

// UnrecognizedRole is the code used when the actor or its roles cannot be resolved.
const UnrecognizedRole RoleCode = -1

// Actor is the resolved caller behind a token.
type Actor interface {
	GetID() int64
}

// SingleRoleHolder is implemented by actors carrying exactly one role code.
type SingleRoleHolder interface {
	RoleCode() RoleCode
}

// MultiRoleHolder is implemented by actors carrying several role codes.
type MultiRoleHolder interface {
	RoleCodes() []RoleCode
}

// ServiceActor is implemented by principals authenticated with a service credential.
type ServiceActor interface {
	IsService() bool
}

// Identified is implemented by target records that expose an owner id.
type Identified interface {
	GetID() int64
}

// TokenResolver maps a bearer token to the actor it was issued for.
type TokenResolver interface {
	Resolve(ctx context.Context, token string) (Actor, error)
}

// RoleNameLookup maps a role code to its canonical role name.
// Unknown codes resolve to the empty name.
type RoleNameLookup interface {
	RoleName(ctx context.Context, code RoleCode) string
}

// Validator decides a fixed family of attributes.
type Validator interface {
	SupportsAttribute(attribute string) bool
	Validate(ctx context.Context, token, attribute string, target any) bool
}

// DecisionRecorder observes every decision taken by an Authorizer.
type DecisionRecorder interface {
	ObserveDecision(attribute string, allowed bool)
}

// MultiRolePolicy controls how decisions combine when an actor holds several roles.
type MultiRolePolicy string

const (
	// MultiRoleUnion grants an attribute when any of the actor roles grants it.
	MultiRoleUnion MultiRolePolicy = "union"
	// MultiRoleLastWins evaluates only the last resolved role.
	MultiRoleLastWins MultiRolePolicy = "last"
)

// ParseMultiRolePolicy converts a configuration value to a policy, defaulting to last-wins.
func ParseMultiRolePolicy(raw string) MultiRolePolicy {
	if MultiRolePolicy(normalizeRoleName(raw)) == MultiRoleUnion {
		return MultiRoleUnion
	}
	return MultiRoleLastWins
}
