package shared

// User management attributes evaluated by the user validator.
const (
	PermUserCanCreate = "USER_CAN_CREATE"
	PermUserCanDelete = "USER_CAN_DELETE"
	PermUserCanSave   = "USER_CAN_SAVE"
)

// Role management attributes evaluated by the role validator.
const (
	PermRoleCanCreate = "ROLE_CAN_CREATE"
	PermRoleCanSave   = "ROLE_CAN_SAVE"
	PermRoleCanDelete = "ROLE_CAN_DELETE"
)

// Canonical role names used by the decision tables.
const (
	RoleSuperAdmin = "super_admin"
	RoleAdmin      = "admin"
	RoleService    = "service"
)

// UserScopes lists the user management attributes.
func UserScopes() []string {
	return []string{
		PermUserCanCreate,
		PermUserCanDelete,
		PermUserCanSave,
	}
}

// RoleScopes lists the role management attributes.
func RoleScopes() []string {
	return []string{
		PermRoleCanCreate,
		PermRoleCanSave,
		PermRoleCanDelete,
	}
}
