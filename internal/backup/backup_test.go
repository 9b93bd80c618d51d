package backup

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Damian5314/Urban-Mobility-backend-system/internal/models"
)

type fakeBroker struct {
	codes    map[string]*models.RestoreCode
	consumed []string
}

func newFakeBroker() *fakeBroker {
	return &fakeBroker{codes: make(map[string]*models.RestoreCode)}
}

func (b *fakeBroker) Lookup(code string) (*models.RestoreCode, error) {
	rc, ok := b.codes[code]
	if !ok {
		return nil, os.ErrNotExist
	}
	return rc, nil
}

func (b *fakeBroker) Consume(code string) error {
	delete(b.codes, code)
	b.consumed = append(b.consumed, code)
	return nil
}

type recordedEntry struct {
	description string
	actor       string
	info        string
	suspicious  bool
}

type fakeRecorder struct {
	entries []recordedEntry
}

func (r *fakeRecorder) Record(description, actor, info string, suspicious bool) {
	r.entries = append(r.entries, recordedEntry{description, actor, info, suspicious})
}

func (r *fakeRecorder) last() recordedEntry {
	return r.entries[len(r.entries)-1]
}

func newTestOrchestrator(t *testing.T) (*Orchestrator, Paths, *fakeBroker, *fakeRecorder) {
	t.Helper()

	dir := t.TempDir()
	paths := Paths{
		DatabasePath: filepath.Join(dir, "data", "data.db"),
		KeyPath:      filepath.Join(dir, "data", "secret.key"),
		SaltPath:     filepath.Join(dir, "data", "salt.key"),
		BackupDir:    filepath.Join(dir, "backups"),
	}
	require.NoError(t, os.MkdirAll(filepath.Dir(paths.DatabasePath), 0700))
	require.NoError(t, os.WriteFile(paths.DatabasePath, []byte("database contents"), 0600))
	require.NoError(t, os.WriteFile(paths.KeyPath, []byte("key contents"), 0600))

	broker := newFakeBroker()
	recorder := &fakeRecorder{}
	return NewOrchestrator(paths, broker, recorder, zap.NewNop()), paths, broker, recorder
}

func TestCreateBackup(t *testing.T) {
	o, paths, _, recorder := newTestOrchestrator(t)

	info, err := o.Create("super_admin")
	require.NoError(t, err)
	assert.Regexp(t, `^backup_\d{8}_\d{6}\.zip$`, info.Filename)
	assert.Equal(t, "super_admin", info.Creator)
	assert.Equal(t, "backup created", recorder.last().description)

	zr, err := zip.OpenReader(filepath.Join(paths.BackupDir, info.Filename))
	require.NoError(t, err)
	defer zr.Close()

	members := make(map[string]bool)
	for _, f := range zr.File {
		members[f.Name] = true
	}
	assert.True(t, members["data.db"])
	assert.True(t, members["secret.key"])
	assert.True(t, members["backup_info.txt"])
	// No salt file on disk, so no salt member.
	assert.False(t, members["salt.key"])
}

func TestCreateBackupMetadata(t *testing.T) {
	o, paths, _, _ := newTestOrchestrator(t)

	info, err := o.Create("sysadmin1")
	require.NoError(t, err)

	meta, err := readMetadata(filepath.Join(paths.BackupDir, info.Filename))
	require.NoError(t, err)
	assert.Equal(t, "sysadmin1", meta["Created by"])
	assert.Equal(t, "data.db", meta["Database"])
	assert.NotEmpty(t, meta["Created"])
	assert.NotEmpty(t, meta["Size"])
	assert.Equal(t, backupVersion, meta["Version"])
}

func TestCreateBackupWithoutDatabaseFails(t *testing.T) {
	o, paths, _, recorder := newTestOrchestrator(t)
	require.NoError(t, os.Remove(paths.DatabasePath))

	_, err := o.Create("super_admin")
	assert.Error(t, err)
	assert.Equal(t, "failed backup creation", recorder.last().description)
}

func TestListNewestFirst(t *testing.T) {
	o, _, _, _ := newTestOrchestrator(t)

	first, err := o.createArchive("backup_20260101_120000.zip", "super_admin")
	require.NoError(t, err)
	second, err := o.createArchive("backup_20270101_120000.zip", "super_admin")
	require.NoError(t, err)
	_ = first

	backups, err := o.List()
	require.NoError(t, err)
	require.Len(t, backups, 2)
	assert.Equal(t, second.Filename, backups[0].Filename)
	assert.Equal(t, "super_admin", backups[0].Creator)
}

func TestRestoreSuperAdminNeedsNoCode(t *testing.T) {
	o, paths, _, recorder := newTestOrchestrator(t)

	info, err := o.Create("super_admin")
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(paths.DatabasePath, []byte("changed after backup"), 0600))

	require.NoError(t, o.Restore(info.Filename, "super_admin", "", true))

	restored, err := os.ReadFile(paths.DatabasePath)
	require.NoError(t, err)
	assert.Equal(t, "database contents", string(restored))
	assert.Equal(t, "backup restored", recorder.last().description)
}

func TestRestoreMissingBackup(t *testing.T) {
	o, _, _, recorder := newTestOrchestrator(t)

	err := o.Restore("backup_nope.zip", "super_admin", "", true)
	assert.Error(t, err)
	assert.Equal(t, "failed restore attempt", recorder.last().description)
	assert.False(t, recorder.last().suspicious)
}

func TestRestoreSystemAdminGates(t *testing.T) {
	o, paths, broker, recorder := newTestOrchestrator(t)

	info, err := o.Create("super_admin")
	require.NoError(t, err)
	_, err = o.createArchive("backup_other.zip", "super_admin")
	require.NoError(t, err)
	broker.codes["GOODCODE2345"] = &models.RestoreCode{
		Code:                "GOODCODE2345",
		SystemAdminUsername: "sysadmin1",
		BackupName:          info.Filename,
	}

	require.NoError(t, os.WriteFile(paths.DatabasePath, []byte("live data"), 0600))
	checkUntouched := func() {
		t.Helper()
		data, err := os.ReadFile(paths.DatabasePath)
		require.NoError(t, err)
		assert.Equal(t, "live data", string(data), "denied restore must not touch storage")
	}

	// Missing code.
	err = o.Restore(info.Filename, "sysadmin1", "", false)
	assert.Error(t, err)
	assert.Equal(t, "failed restore attempt", recorder.last().description)
	assert.False(t, recorder.last().suspicious)
	checkUntouched()

	// Unknown code is flagged suspicious.
	err = o.Restore(info.Filename, "sysadmin1", "BADCODE23456", false)
	assert.Error(t, err)
	assert.True(t, recorder.last().suspicious)
	checkUntouched()

	// Code issued to a different admin is flagged suspicious.
	err = o.Restore(info.Filename, "sysadmin2", "GOODCODE2345", false)
	assert.Error(t, err)
	assert.True(t, recorder.last().suspicious)
	checkUntouched()

	// Code bound to a different backup is denied but not suspicious.
	err = o.Restore("backup_other.zip", "sysadmin1", "GOODCODE2345", false)
	assert.Error(t, err)
	checkUntouched()

	// Nothing was consumed by any of the denials.
	assert.Empty(t, broker.consumed)

	// The matching admin and backup succeed, and the code is consumed.
	require.NoError(t, o.Restore(info.Filename, "sysadmin1", "GOODCODE2345", false))
	assert.Equal(t, []string{"GOODCODE2345"}, broker.consumed)

	restored, err := os.ReadFile(paths.DatabasePath)
	require.NoError(t, err)
	assert.Equal(t, "database contents", string(restored))
}

func TestRestoreTakesSafetySnapshot(t *testing.T) {
	o, paths, _, _ := newTestOrchestrator(t)

	info, err := o.Create("super_admin")
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(paths.DatabasePath, []byte("live data"), 0600))
	require.NoError(t, o.Restore(info.Filename, "super_admin", "", true))

	matches, err := filepath.Glob(filepath.Join(paths.BackupDir, "auto_pre_restore_super_admin_*.zip"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	// The snapshot preserves the pre-restore state.
	zr, err := zip.OpenReader(matches[0])
	require.NoError(t, err)
	defer zr.Close()
	for _, f := range zr.File {
		if f.Name == memberDatabase {
			rc, err := f.Open()
			require.NoError(t, err)
			data, err := io.ReadAll(rc)
			rc.Close()
			require.NoError(t, err)
			assert.Equal(t, "live data", string(data))
		}
	}
}

func TestRestoreIgnoresUnknownArchiveMembers(t *testing.T) {
	o, paths, _, _ := newTestOrchestrator(t)

	// Hand-build an archive with a path-traversal member.
	require.NoError(t, os.MkdirAll(paths.BackupDir, 0700))
	archive := filepath.Join(paths.BackupDir, "backup_evil.zip")
	f, err := os.Create(archive)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	w, err := zw.Create("data.db")
	require.NoError(t, err)
	_, err = w.Write([]byte("restored db"))
	require.NoError(t, err)
	w, err = zw.Create("../../escape.txt")
	require.NoError(t, err)
	_, err = w.Write([]byte("evil"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	require.NoError(t, o.Restore("backup_evil.zip", "super_admin", "", true))

	_, err = os.Stat(filepath.Join(filepath.Dir(paths.BackupDir), "escape.txt"))
	assert.True(t, os.IsNotExist(err))

	restored, err := os.ReadFile(paths.DatabasePath)
	require.NoError(t, err)
	assert.Equal(t, "restored db", string(restored))
}

func TestDeleteRequiresSuperAdmin(t *testing.T) {
	o, paths, _, recorder := newTestOrchestrator(t)

	info, err := o.Create("super_admin")
	require.NoError(t, err)

	err = o.Delete(info.Filename, "sysadmin1", models.RoleSystemAdmin)
	assert.Error(t, err)
	assert.Equal(t, "failed backup deletion", recorder.last().description)
	_, statErr := os.Stat(filepath.Join(paths.BackupDir, info.Filename))
	assert.NoError(t, statErr)

	require.NoError(t, o.Delete(info.Filename, "super_admin", models.RoleSuperAdmin))
	_, statErr = os.Stat(filepath.Join(paths.BackupDir, info.Filename))
	assert.True(t, os.IsNotExist(statErr))
}

func TestVerify(t *testing.T) {
	o, paths, _, _ := newTestOrchestrator(t)

	info, err := o.Create("super_admin")
	require.NoError(t, err)
	assert.NoError(t, o.Verify(info.Filename))

	assert.Error(t, o.Verify("backup_missing.zip"))

	require.NoError(t, os.MkdirAll(paths.BackupDir, 0700))
	corrupt := filepath.Join(paths.BackupDir, "backup_corrupt.zip")
	require.NoError(t, os.WriteFile(corrupt, []byte("not a zip"), 0600))
	assert.Error(t, o.Verify("backup_corrupt.zip"))
}
