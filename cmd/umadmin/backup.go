package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Damian5314/Urban-Mobility-backend-system/internal/auth"
	"github.com/Damian5314/Urban-Mobility-backend-system/internal/backup"
	"github.com/Damian5314/Urban-Mobility-backend-system/internal/config"
	"github.com/Damian5314/Urban-Mobility-backend-system/internal/crypto"
	"github.com/Damian5314/Urban-Mobility-backend-system/internal/db"
	"github.com/Damian5314/Urban-Mobility-backend-system/internal/db/repository"
	"github.com/Damian5314/Urban-Mobility-backend-system/internal/logger"
	"github.com/Damian5314/Urban-Mobility-backend-system/internal/models"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Create, list and restore backups",
}

var backupCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a backup of the database and key material",
	RunE:  createBackup,
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available backups",
	RunE:  listBackups,
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore <backup-name>",
	Short: "Restore a backup (system admins need a restore code)",
	Args:  cobra.ExactArgs(1),
	RunE:  restoreBackup,
}

var backupVerifyCmd = &cobra.Command{
	Use:   "verify <backup-name>",
	Short: "Check that a backup archive is intact",
	Args:  cobra.ExactArgs(1),
	RunE:  verifyBackup,
}

var backupDeleteCmd = &cobra.Command{
	Use:   "delete <backup-name>",
	Short: "Delete a backup (super admin only)",
	Args:  cobra.ExactArgs(1),
	RunE:  deleteBackup,
}

var restoreCodeFlag string

func init() {
	backupRestoreCmd.Flags().StringVar(&restoreCodeFlag, "code", "", "Restore code (required for system admins)")

	backupCmd.AddCommand(backupCreateCmd)
	backupCmd.AddCommand(backupListCmd)
	backupCmd.AddCommand(backupRestoreCmd)
	backupCmd.AddCommand(backupVerifyCmd)
	backupCmd.AddCommand(backupDeleteCmd)
	rootCmd.AddCommand(backupCmd)
}

func createBackup(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	session, err := a.authenticate()
	if err != nil {
		return err
	}
	if !auth.HasPermission(session.Role, auth.CapCreateBackup) {
		return auth.ErrPermissionDenied
	}

	info, err := a.backups.Create(session.Username)
	if err != nil {
		return err
	}

	fmt.Printf("Backup created: %s (%d bytes)\n", info.Filename, info.Size)
	return nil
}

func listBackups(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	session, err := a.authenticate()
	if err != nil {
		return err
	}
	if !auth.HasPermission(session.Role, auth.CapCreateBackup) {
		return auth.ErrPermissionDenied
	}

	backups, err := a.backups.List()
	if err != nil {
		return err
	}

	if len(backups) == 0 {
		fmt.Println("No backups found")
		return nil
	}

	fmt.Printf("%-40s %-12s %-20s %s\n", "Backup", "Size", "Created", "Creator")
	fmt.Println("--------------------------------------------------------------------------------")
	for _, b := range backups {
		fmt.Printf("%-40s %-12d %-20s %s\n",
			b.Filename,
			b.Size,
			b.CreatedAt.Format("2006-01-02 15:04:05"),
			b.Creator,
		)
	}

	return nil
}

func restoreBackup(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	session, err := a.authenticate()
	if err != nil {
		return err
	}
	if !auth.HasPermission(session.Role, auth.CapRestoreBackup) {
		return auth.ErrPermissionDenied
	}

	// The live connection must be closed before the database file is
	// overwritten. The orchestrator gets connection-per-call wrappers
	// so the restore code is consumed in, and success logged to, the
	// restored database rather than through a stale handle.
	a.database.Close()

	wiring := &freshConnWiring{cfg: a.cfg, crypto: a.crypto}
	restorer := backup.NewOrchestrator(backup.Paths{
		DatabasePath: a.cfg.Database.Path,
		KeyPath:      a.cfg.Encryption.KeyPath,
		SaltPath:     a.cfg.Encryption.SaltPath,
		BackupDir:    a.cfg.Backup.Dir,
	}, wiring, wiring, logger.L())

	isSuperAdmin := session.Role == models.RoleSuperAdmin
	if err := restorer.Restore(args[0], session.Username, restoreCodeFlag, isSuperAdmin); err != nil {
		return err
	}

	restored, err := db.New(a.cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to reopen restored database: %w", err)
	}
	defer restored.Close()
	if err := restored.CheckIntegrity(); err != nil {
		return fmt.Errorf("restored database failed verification: %w", err)
	}

	fmt.Println("Backup restored successfully")
	return nil
}

// freshConnWiring opens a database connection per call so operations that
// straddle a database file replacement always hit the current file.
type freshConnWiring struct {
	cfg    *config.Config
	crypto *crypto.Service
}

func (w *freshConnWiring) withDB(f func(*db.DB) error) error {
	database, err := db.New(w.cfg.Database.Path)
	if err != nil {
		return err
	}
	defer database.Close()
	return f(database)
}

func (w *freshConnWiring) Lookup(code string) (*models.RestoreCode, error) {
	var rc *models.RestoreCode
	err := w.withDB(func(database *db.DB) error {
		var err error
		rc, err = repository.NewRestoreCodeRepository(database.DB).GetActive(code)
		return err
	})
	return rc, err
}

func (w *freshConnWiring) Consume(code string) error {
	return w.withDB(func(database *db.DB) error {
		return repository.NewRestoreCodeRepository(database.DB).MarkUsed(code)
	})
}

func (w *freshConnWiring) Record(description, actor, info string, suspicious bool) {
	_ = w.withDB(func(database *db.DB) error {
		entry := &models.LogEntry{
			Username:       actor,
			Description:    description,
			AdditionalInfo: info,
			Suspicious:     suspicious,
		}
		return repository.NewLogRepository(database.DB, w.crypto).Create(entry)
	})
}

func verifyBackup(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	session, err := a.authenticate()
	if err != nil {
		return err
	}
	if !auth.HasPermission(session.Role, auth.CapCreateBackup) {
		return auth.ErrPermissionDenied
	}

	if err := a.backups.Verify(args[0]); err != nil {
		return err
	}

	fmt.Println("Backup is intact")
	return nil
}

func deleteBackup(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	session, err := a.authenticate()
	if err != nil {
		return err
	}

	if err := a.backups.Delete(args[0], session.Username, session.Role); err != nil {
		return err
	}

	fmt.Println("Backup deleted")
	return nil
}
