package auth

import (
	"errors"

	"github.com/odyssey-erp/odyssey-users/internal/authz"
	"github.com/odyssey-erp/odyssey-users/internal/users"
)

var (
	// ErrInvalidCredentials indicates a rejected client id or secret.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	// ErrTokenNotFound indicates an unknown, revoked or expired token.
	ErrTokenNotFound = errors.New("auth: token not found")
	// ErrCredentialsDisabled indicates no service credential is configured.
	ErrCredentialsDisabled = errors.New("auth: service credential disabled")
)

// Principal is the identity a bearer token was issued for.
type Principal struct {
	UserID   int64   `json:"user_id"`
	RoleIDs  []int64 `json:"role_ids,omitempty"`
	Service  bool    `json:"service,omitempty"`
	ClientID string  `json:"client_id,omitempty"`
}

// PrincipalForUser builds the principal of a user account.
func PrincipalForUser(u users.User) Principal {
	p := Principal{UserID: u.ID}
	if u.RoleID > 0 {
		p.RoleIDs = []int64{u.RoleID}
	}
	return p
}

// GetID returns the user id, zero for service principals.
func (p *Principal) GetID() int64 {
	return p.UserID
}

// RoleCodes returns the role codes held by the principal.
func (p *Principal) RoleCodes() []authz.RoleCode {
	codes := make([]authz.RoleCode, 0, len(p.RoleIDs))
	for _, id := range p.RoleIDs {
		codes = append(codes, authz.RoleCode(id))
	}
	return codes
}

// IsService reports whether the principal authenticated with a service credential.
func (p *Principal) IsService() bool {
	return p.Service
}

var (
	_ authz.Actor           = (*Principal)(nil)
	_ authz.MultiRoleHolder = (*Principal)(nil)
	_ authz.ServiceActor    = (*Principal)(nil)
)
