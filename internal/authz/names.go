package authz

import (
	"context"
	"strings"

	"golang.org/x/text/cases"
)

// RoleNameTable is a static RoleNameLookup.
type RoleNameTable map[RoleCode]string

// RoleName returns the canonical name registered for code.
func (t RoleNameTable) RoleName(_ context.Context, code RoleCode) string {
	return t[code]
}

func normalizeRoleName(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

func isAdministrative(name string) bool {
	switch name {
	case "admin", "super_admin":
		return true
	}
	return false
}
