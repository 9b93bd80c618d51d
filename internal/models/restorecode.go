package models

import "time"

// RestoreCode is a single-use token binding one backup file to one system
// admin. A used code never satisfies a lookup again; revocation deletes the
// row outright.
type RestoreCode struct {
	Code                string    `json:"code"`
	SystemAdminUsername string    `json:"system_admin_username"`
	BackupName          string    `json:"backup_name"`
	CreatedAt           time.Time `json:"created_at"`
	Used                bool      `json:"used"`
}
