package audit

import (
	"crypto/rand"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Damian5314/Urban-Mobility-backend-system/internal/crypto"
	"github.com/Damian5314/Urban-Mobility-backend-system/internal/db"
	"github.com/Damian5314/Urban-Mobility-backend-system/internal/db/repository"
)

func newTestAudit(t *testing.T) (*Service, *db.DB) {
	t.Helper()

	database, err := db.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	require.NoError(t, db.RunMigrations(database))

	key := make([]byte, 32)
	_, err = rand.Read(key)
	require.NoError(t, err)
	cs, err := crypto.New(key)
	require.NoError(t, err)

	return NewService(repository.NewLogRepository(database.DB, cs), zap.NewNop()), database
}

func TestRecordAndReadAll(t *testing.T) {
	svc, _ := newTestAudit(t)

	svc.Record("successful login", "sysadmin1", "role: system_admin", false)
	svc.Record("failed login attempt", "", "username: intruder", true)

	entries, err := svc.ReadAll()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "failed login attempt", entries[0].Description)
	assert.Equal(t, "successful login", entries[1].Description)
}

func TestRecordNeverPanicsOnClosedDatabase(t *testing.T) {
	svc, database := newTestAudit(t)
	database.Close()

	// Best effort: a broken log store must not take the operation down.
	assert.NotPanics(t, func() {
		svc.Record("successful login", "sysadmin1", "", false)
	})
}

func TestReadSuspicious(t *testing.T) {
	svc, _ := newTestAudit(t)

	svc.Record("ordinary event", "sysadmin1", "", false)
	svc.Record("failed login attempt", "", "", true)

	entries, err := svc.ReadSuspicious()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "failed login attempt", entries[0].Description)
}

func TestSummarize(t *testing.T) {
	svc, _ := newTestAudit(t)

	svc.Record("first", "a", "", false)
	svc.Record("second", "b", "", true)

	summary, err := svc.Summarize()
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, 1, summary.Suspicious)
	assert.Equal(t, 2, summary.Last24Hours)
	require.NotNil(t, summary.LastActivity)
	assert.WithinDuration(t, time.Now(), *summary.LastActivity, time.Minute)
}

func TestCleanupOld(t *testing.T) {
	svc, _ := newTestAudit(t)

	svc.Record("fresh entry", "a", "", false)

	deleted, err := svc.CleanupOld(90)
	require.NoError(t, err)
	assert.Equal(t, int64(0), deleted)

	entries, err := svc.ReadAll()
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
