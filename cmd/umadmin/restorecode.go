package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Damian5314/Urban-Mobility-backend-system/internal/auth"
	"github.com/Damian5314/Urban-Mobility-backend-system/internal/models"
)

var restoreCodeCmd = &cobra.Command{
	Use:   "restore-code",
	Short: "Issue and revoke restore codes",
}

var restoreCodeGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a restore code for a system admin and backup",
	RunE:  generateRestoreCode,
}

var restoreCodeRevokeCmd = &cobra.Command{
	Use:   "revoke <code>",
	Short: "Revoke an unused restore code",
	Args:  cobra.ExactArgs(1),
	RunE:  revokeRestoreCode,
}

var restoreCodeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List active restore codes",
	RunE:  listRestoreCodes,
}

var (
	codeAdmin  string
	codeBackup string
)

func init() {
	restoreCodeGenerateCmd.Flags().StringVar(&codeAdmin, "admin", "", "System admin the code is issued to (required)")
	restoreCodeGenerateCmd.Flags().StringVar(&codeBackup, "backup", "", "Backup the code is bound to (required)")
	restoreCodeGenerateCmd.MarkFlagRequired("admin")
	restoreCodeGenerateCmd.MarkFlagRequired("backup")

	restoreCodeCmd.AddCommand(restoreCodeGenerateCmd)
	restoreCodeCmd.AddCommand(restoreCodeRevokeCmd)
	restoreCodeCmd.AddCommand(restoreCodeListCmd)
	rootCmd.AddCommand(restoreCodeCmd)
}

func generateRestoreCode(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	session, err := a.authenticate()
	if err != nil {
		return err
	}
	if !auth.HasPermission(session.Role, auth.CapGenerateRestoreCodes) {
		return auth.ErrPermissionDenied
	}

	target, err := a.accounts.GetByUsername(codeAdmin)
	if err != nil {
		return fmt.Errorf("failed to find system admin: %w", err)
	}
	if target.Role != models.RoleSystemAdmin {
		return fmt.Errorf("restore codes can only be issued to system admins")
	}
	if err := a.backups.Verify(codeBackup); err != nil {
		return err
	}

	rc, err := a.codes.Issue(session.Username, target.Username, codeBackup)
	if err != nil {
		return err
	}

	fmt.Printf("\nRestore code (shown once): %s\n", rc.Code)
	fmt.Printf("Issued to: %s\n", rc.SystemAdminUsername)
	fmt.Printf("Bound to backup: %s\n", rc.BackupName)
	fmt.Println("The code is single-use.")

	return nil
}

func revokeRestoreCode(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	session, err := a.authenticate()
	if err != nil {
		return err
	}
	if !auth.HasPermission(session.Role, auth.CapRevokeRestoreCodes) {
		return auth.ErrPermissionDenied
	}

	if err := a.codes.Revoke(session.Username, args[0]); err != nil {
		return fmt.Errorf("failed to revoke restore code: %w", err)
	}

	fmt.Println("Restore code revoked")
	return nil
}

func listRestoreCodes(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	session, err := a.authenticate()
	if err != nil {
		return err
	}
	if !auth.HasPermission(session.Role, auth.CapGenerateRestoreCodes) {
		return auth.ErrPermissionDenied
	}

	codes, err := a.codes.ListActive()
	if err != nil {
		return fmt.Errorf("failed to list restore codes: %w", err)
	}

	if len(codes) == 0 {
		fmt.Println("No active restore codes")
		return nil
	}

	fmt.Printf("%-14s %-15s %-40s %s\n", "Code", "System admin", "Backup", "Created")
	fmt.Println("--------------------------------------------------------------------------------")
	for _, c := range codes {
		fmt.Printf("%-14s %-15s %-40s %s\n",
			c.Code,
			c.SystemAdminUsername,
			c.BackupName,
			c.CreatedAt.Format("2006-01-02 15:04:05"),
		)
	}

	return nil
}
