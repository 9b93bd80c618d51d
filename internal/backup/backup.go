// Package backup creates, lists and restores zip snapshots of the database
// and its encryption key material. A restore by a system admin is gated by
// a single-use restore code bound to that admin and that backup.
package backup

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Damian5314/Urban-Mobility-backend-system/internal/models"
)

// Archive member names. Extraction only ever writes these, to fixed
// destination paths, so a crafted archive cannot escape the data directory.
const (
	memberDatabase = "data.db"
	memberKey      = "secret.key"
	memberSalt     = "salt.key"
	memberInfo     = "backup_info.txt"
)

const backupVersion = "1.0"

// Paths tells the orchestrator where the live files are.
type Paths struct {
	DatabasePath string
	KeyPath      string
	SaltPath     string
	BackupDir    string
}

// CodeBroker resolves and consumes restore codes.
type CodeBroker interface {
	Lookup(code string) (*models.RestoreCode, error)
	Consume(code string) error
}

// Recorder receives audit entries.
type Recorder interface {
	Record(description, actor, info string, suspicious bool)
}

// Orchestrator performs backup and restore operations.
type Orchestrator struct {
	paths Paths
	codes CodeBroker
	audit Recorder
	log   *zap.Logger
}

// NewOrchestrator creates a backup orchestrator.
func NewOrchestrator(paths Paths, codes CodeBroker, audit Recorder, log *zap.Logger) *Orchestrator {
	return &Orchestrator{paths: paths, codes: codes, audit: audit, log: log}
}

// Create writes a new backup archive named backup_YYYYMMDD_HHMMSS.zip. The
// database is required; key and salt files are included when present.
func (o *Orchestrator) Create(actor string) (*models.BackupInfo, error) {
	filename := "backup_" + time.Now().Format("20060102_150405") + ".zip"
	info, err := o.createArchive(filename, actor)
	if err != nil {
		o.audit.Record("failed backup creation", actor, err.Error(), false)
		return nil, err
	}

	o.audit.Record("backup created", actor, "backup: "+filename, false)

	return info, nil
}

func (o *Orchestrator) createArchive(filename, actor string) (*models.BackupInfo, error) {
	if _, err := os.Stat(o.paths.DatabasePath); err != nil {
		return nil, fmt.Errorf("database not found at %s", o.paths.DatabasePath)
	}
	if err := os.MkdirAll(o.paths.BackupDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}

	path := filepath.Join(o.paths.BackupDir, filename)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to create backup file: %w", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	if err := addFile(zw, memberDatabase, o.paths.DatabasePath); err != nil {
		zw.Close()
		return nil, err
	}
	// Key and salt are optional members; a deployment created before
	// encryption was enabled has neither.
	for member, src := range map[string]string{
		memberKey:  o.paths.KeyPath,
		memberSalt: o.paths.SaltPath,
	} {
		if src == "" {
			continue
		}
		if _, err := os.Stat(src); err != nil {
			continue
		}
		if err := addFile(zw, member, src); err != nil {
			zw.Close()
			return nil, err
		}
	}

	dbInfo, err := os.Stat(o.paths.DatabasePath)
	if err != nil {
		zw.Close()
		return nil, fmt.Errorf("failed to stat database: %w", err)
	}

	now := time.Now()
	metadata := fmt.Sprintf("Created: %s\nCreated by: %s\nDatabase: %s\nSize: %d bytes\nVersion: %s\n",
		now.Format(time.RFC3339), actor, memberDatabase, dbInfo.Size(), backupVersion)

	w, err := zw.Create(memberInfo)
	if err != nil {
		zw.Close()
		return nil, fmt.Errorf("failed to write backup metadata: %w", err)
	}
	if _, err := w.Write([]byte(metadata)); err != nil {
		zw.Close()
		return nil, fmt.Errorf("failed to write backup metadata: %w", err)
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize backup: %w", err)
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat backup: %w", err)
	}

	return &models.BackupInfo{
		Filename:  filename,
		Path:      path,
		Size:      stat.Size(),
		CreatedAt: now,
		Creator:   actor,
	}, nil
}

func addFile(zw *zip.Writer, member, src string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer in.Close()

	w, err := zw.Create(member)
	if err != nil {
		return fmt.Errorf("failed to add %s to backup: %w", member, err)
	}
	if _, err := io.Copy(w, in); err != nil {
		return fmt.Errorf("failed to add %s to backup: %w", member, err)
	}

	return nil
}

// List returns all backups in the backup directory, newest first. The
// creator is parsed out of the embedded metadata when present.
func (o *Orchestrator) List() ([]*models.BackupInfo, error) {
	matches, err := filepath.Glob(filepath.Join(o.paths.BackupDir, "*.zip"))
	if err != nil {
		return nil, fmt.Errorf("failed to list backups: %w", err)
	}

	var backups []*models.BackupInfo

	for _, path := range matches {
		stat, err := os.Stat(path)
		if err != nil {
			continue
		}

		info := &models.BackupInfo{
			Filename:  filepath.Base(path),
			Path:      path,
			Size:      stat.Size(),
			CreatedAt: stat.ModTime(),
		}
		if meta, err := readMetadata(path); err == nil {
			info.Creator = meta["Created by"]
			if t, err := time.Parse(time.RFC3339, meta["Created"]); err == nil {
				info.CreatedAt = t
			}
		}
		backups = append(backups, info)
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].CreatedAt.After(backups[j].CreatedAt)
	})

	return backups, nil
}

func readMetadata(path string) (map[string]string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.Name != memberInfo {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, err
		}

		meta := make(map[string]string)
		for _, line := range strings.Split(string(data), "\n") {
			key, value, ok := strings.Cut(line, ": ")
			if ok {
				meta[key] = value
			}
		}
		return meta, nil
	}

	return nil, fmt.Errorf("no metadata in %s", path)
}

// Restore replaces the live database and key material with the contents of
// the named backup. System admins must present a restore code bound to
// their own username and this exact backup; the super admin needs no code.
// A safety snapshot of the current state is taken before anything is
// overwritten, and the code is consumed only after the restore succeeds.
func (o *Orchestrator) Restore(backupName, actor, restoreCode string, isSuperAdmin bool) error {
	path := filepath.Join(o.paths.BackupDir, filepath.Base(backupName))
	if _, err := os.Stat(path); err != nil {
		o.audit.Record("failed restore attempt", actor, "backup not found: "+backupName, false)
		return fmt.Errorf("backup %s not found", backupName)
	}

	if !isSuperAdmin {
		if restoreCode == "" {
			o.audit.Record("failed restore attempt", actor, "restore code required", false)
			return fmt.Errorf("a restore code is required")
		}

		rc, err := o.codes.Lookup(restoreCode)
		if err != nil {
			o.audit.Record("failed restore attempt", actor, "invalid restore code", true)
			return fmt.Errorf("invalid restore code")
		}
		if !strings.EqualFold(rc.SystemAdminUsername, actor) {
			o.audit.Record("failed restore attempt", actor, "restore code issued to another admin", true)
			return fmt.Errorf("invalid restore code")
		}
		if rc.BackupName != backupName {
			o.audit.Record("failed restore attempt", actor, "restore code bound to a different backup", false)
			return fmt.Errorf("restore code is not valid for backup %s", backupName)
		}
	}

	snapshot := fmt.Sprintf("auto_pre_restore_%s_%s.zip", actor, time.Now().Format("20060102_150405"))
	if _, err := os.Stat(o.paths.DatabasePath); err == nil {
		if _, err := o.createArchive(snapshot, actor); err != nil {
			return fmt.Errorf("failed to create safety snapshot: %w", err)
		}
	}

	if err := o.extract(path); err != nil {
		o.audit.Record("failed restore attempt", actor, err.Error(), false)
		return err
	}

	if !isSuperAdmin {
		if err := o.codes.Consume(restoreCode); err != nil {
			o.log.Warn("failed to consume restore code after restore", zap.Error(err))
		}
	}

	o.audit.Record("backup restored", actor, "backup: "+backupName, false)

	return nil
}

// extract writes only the known members to their fixed destinations.
func (o *Orchestrator) extract(archivePath string) error {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("failed to open backup: %w", err)
	}
	defer zr.Close()

	destinations := map[string]string{
		memberDatabase: o.paths.DatabasePath,
		memberKey:      o.paths.KeyPath,
		memberSalt:     o.paths.SaltPath,
	}

	restored := false
	for _, f := range zr.File {
		dest, ok := destinations[f.Name]
		if !ok || dest == "" {
			continue
		}
		if err := extractTo(f, dest); err != nil {
			return err
		}
		if f.Name == memberDatabase {
			restored = true
		}
	}
	if !restored {
		return fmt.Errorf("backup does not contain a database")
	}

	return nil
}

func extractTo(f *zip.File, dest string) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("failed to read %s from backup: %w", f.Name, err)
	}
	defer rc.Close()

	if err := os.MkdirAll(filepath.Dir(dest), 0700); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", dest, err)
	}

	out, err := os.OpenFile(dest, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, rc); err != nil {
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}

	return nil
}

// Delete removes a backup archive. Only the super admin may delete backups.
func (o *Orchestrator) Delete(backupName, actor string, actorRole models.Role) error {
	if actorRole != models.RoleSuperAdmin {
		o.audit.Record("failed backup deletion", actor, "backup: "+backupName, false)
		return fmt.Errorf("only the super admin can delete backups")
	}

	path := filepath.Join(o.paths.BackupDir, filepath.Base(backupName))
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete backup: %w", err)
	}

	o.audit.Record("backup deleted", actor, "backup: "+backupName, false)

	return nil
}

// Verify checks that the named backup is a readable archive containing a
// database member.
func (o *Orchestrator) Verify(backupName string) error {
	path := filepath.Join(o.paths.BackupDir, filepath.Base(backupName))
	zr, err := zip.OpenReader(path)
	if err != nil {
		return fmt.Errorf("backup is not a readable archive: %w", err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.Name == memberDatabase {
			return nil
		}
	}

	return fmt.Errorf("backup does not contain a database")
}
