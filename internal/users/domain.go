package users

import (
	"time"

	"github.com/odyssey-erp/odyssey-users/internal/authz"
)

// User represents a user account. Role holds the role name the account is
// filed under; RoleID is the role code used for authorization.
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	RoleID    int64     `json:"role_id,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// PasswordHash is only loaded by FindByEmail; empty means password login is disabled.
	PasswordHash string `json:"-"`
}

// GetID returns the user id.
func (u User) GetID() int64 {
	return u.ID
}

// RoleCode returns the role code, or authz.UnrecognizedRole when unset.
func (u User) RoleCode() authz.RoleCode {
	if u.RoleID <= 0 {
		return authz.UnrecognizedRole
	}
	return authz.RoleCode(u.RoleID)
}

// CreateInput carries the fields of a new user.
type CreateInput struct {
	Email  string `json:"email" validate:"required,email,max=254"`
	Name   string `json:"name" validate:"required,max=120"`
	Role   string `json:"role" validate:"required,max=64"`
	RoleID int64  `json:"role_id" validate:"gte=0"`

	Password string `json:"password" validate:"omitempty,min=8,max=72"`
}

// UpdateInput carries the self-service profile fields.
type UpdateInput struct {
	Email *string `json:"email" validate:"omitempty,email,max=254"`
	Name  *string `json:"name" validate:"omitempty,min=1,max=120"`
}
