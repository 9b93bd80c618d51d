package models

// Role determines which capabilities an account holds.
type Role string

// The three privilege tiers. RoleSuperAdmin exists only as the hard-coded
// deploy-time identity; it is never stored in the accounts table.
const (
	RoleSuperAdmin      Role = "super_admin"
	RoleSystemAdmin     Role = "system_admin"
	RoleServiceEngineer Role = "service_engineer"
)

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleSystemAdmin, RoleServiceEngineer:
		return true
	}
	return false
}
