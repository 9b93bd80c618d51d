package auth

import "github.com/Damian5314/Urban-Mobility-backend-system/internal/models"

// Capability names an operation class that roles may or may not perform.
type Capability string

const (
	CapManageUsers          Capability = "manage_users"
	CapManageSystemAdmins   Capability = "manage_system_admins"
	CapManageEngineers      Capability = "manage_service_engineers"
	CapManageTravellers     Capability = "manage_travellers"
	CapManageScooters       Capability = "manage_scooters"
	CapViewLogs             Capability = "view_logs"
	CapCreateBackup         Capability = "create_backup"
	CapRestoreBackup        Capability = "restore_backup"
	CapGenerateRestoreCodes Capability = "generate_restore_codes"
	CapRevokeRestoreCodes   Capability = "revoke_restore_codes"
)

var rolePolicy = map[models.Role]map[Capability]bool{
	models.RoleSuperAdmin: {
		CapManageUsers:          true,
		CapManageSystemAdmins:   true,
		CapManageEngineers:      true,
		CapManageTravellers:     true,
		CapManageScooters:       true,
		CapViewLogs:             true,
		CapCreateBackup:         true,
		CapRestoreBackup:        true,
		CapGenerateRestoreCodes: true,
		CapRevokeRestoreCodes:   true,
	},
	models.RoleSystemAdmin: {
		CapManageEngineers:  true,
		CapManageTravellers: true,
		CapManageScooters:   true,
		CapViewLogs:         true,
		CapCreateBackup:     true,
		CapRestoreBackup:    true,
	},
	models.RoleServiceEngineer: {
		CapManageScooters: true,
	},
}

// HasPermission reports whether the role carries the capability.
func HasPermission(role models.Role, capability Capability) bool {
	return rolePolicy[role][capability]
}

// CanCreateUser reports whether actor may create accounts with the target
// role.
func CanCreateUser(actor, target models.Role) bool {
	switch target {
	case models.RoleSuperAdmin:
		return HasPermission(actor, CapManageUsers)
	case models.RoleSystemAdmin:
		return HasPermission(actor, CapManageSystemAdmins)
	case models.RoleServiceEngineer:
		return HasPermission(actor, CapManageEngineers)
	default:
		return false
	}
}

// CanAdministerFleet reports whether the role may add or remove scooters.
// Service engineers hold manage_scooters only for field-level updates.
func CanAdministerFleet(role models.Role) bool {
	return role == models.RoleSuperAdmin || role == models.RoleSystemAdmin
}

// CanManageUser reports whether actor may update, delete or reset the
// password of an existing account with the target role. Same table as
// creation.
func CanManageUser(actor, target models.Role) bool {
	return CanCreateUser(actor, target)
}
