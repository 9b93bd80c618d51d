package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Damian5314/Urban-Mobility-backend-system/internal/models"
)

func newCodeRepo(t *testing.T) *RestoreCodeRepository {
	t.Helper()
	database, _ := newTestDB(t)
	return NewRestoreCodeRepository(database)
}

func TestRestoreCodeLifecycle(t *testing.T) {
	repo := newCodeRepo(t)

	rc := &models.RestoreCode{
		Code:                "ABCDEFGHJKLM",
		SystemAdminUsername: "sysadmin1",
		BackupName:          "backup_20260101_120000.zip",
	}
	require.NoError(t, repo.Create(rc))
	assert.False(t, rc.CreatedAt.IsZero())

	got, err := repo.GetActive("ABCDEFGHJKLM")
	require.NoError(t, err)
	assert.Equal(t, "sysadmin1", got.SystemAdminUsername)
	assert.Equal(t, "backup_20260101_120000.zip", got.BackupName)
	assert.False(t, got.Used)

	require.NoError(t, repo.MarkUsed("ABCDEFGHJKLM"))

	// A used code is indistinguishable from a nonexistent one.
	_, err = repo.GetActive("ABCDEFGHJKLM")
	assert.ErrorIs(t, err, ErrNotFound)

	// And cannot be consumed twice.
	assert.ErrorIs(t, repo.MarkUsed("ABCDEFGHJKLM"), ErrNotFound)
}

func TestRestoreCodeDuplicate(t *testing.T) {
	repo := newCodeRepo(t)

	rc := &models.RestoreCode{Code: "SAMECODE2345", SystemAdminUsername: "sysadmin1", BackupName: "b.zip"}
	require.NoError(t, repo.Create(rc))

	err := repo.Create(&models.RestoreCode{Code: "SAMECODE2345", SystemAdminUsername: "sysadmin2", BackupName: "c.zip"})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestRestoreCodeRevoke(t *testing.T) {
	repo := newCodeRepo(t)

	require.NoError(t, repo.Create(&models.RestoreCode{Code: "REVOKEME2345", SystemAdminUsername: "sysadmin1", BackupName: "b.zip"}))
	require.NoError(t, repo.Delete("REVOKEME2345"))

	_, err := repo.GetActive("REVOKEME2345")
	assert.ErrorIs(t, err, ErrNotFound)

	// Revoking an unknown or already-revoked code fails.
	assert.ErrorIs(t, repo.Delete("REVOKEME2345"), ErrNotFound)
}

func TestRestoreCodeRevokeUsedCodeFails(t *testing.T) {
	repo := newCodeRepo(t)

	require.NoError(t, repo.Create(&models.RestoreCode{Code: "USEDCODE2345", SystemAdminUsername: "sysadmin1", BackupName: "b.zip"}))
	require.NoError(t, repo.MarkUsed("USEDCODE2345"))

	// Used codes are kept for the audit trail; only unused codes can be
	// deleted.
	assert.ErrorIs(t, repo.Delete("USEDCODE2345"), ErrNotFound)
}

func TestRestoreCodeListActive(t *testing.T) {
	repo := newCodeRepo(t)

	require.NoError(t, repo.Create(&models.RestoreCode{Code: "ACTIVECODE23", SystemAdminUsername: "sysadmin1", BackupName: "a.zip"}))
	require.NoError(t, repo.Create(&models.RestoreCode{Code: "CONSUMED2345", SystemAdminUsername: "sysadmin1", BackupName: "b.zip"}))
	require.NoError(t, repo.MarkUsed("CONSUMED2345"))

	codes, err := repo.ListActive()
	require.NoError(t, err)
	require.Len(t, codes, 1)
	assert.Equal(t, "ACTIVECODE23", codes[0].Code)
}
