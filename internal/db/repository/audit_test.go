package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Damian5314/Urban-Mobility-backend-system/internal/crypto"
	"github.com/Damian5314/Urban-Mobility-backend-system/internal/models"
)

func TestLogCreateAndList(t *testing.T) {
	database, cs := newTestDB(t)
	repo := NewLogRepository(database, cs)

	first := &models.LogEntry{
		Timestamp:   time.Now().Add(-time.Hour),
		Username:    "sysadmin1",
		Description: "successful login",
	}
	second := &models.LogEntry{
		Username:       "",
		Description:    "failed login attempt",
		AdditionalInfo: "username: intruder",
		Suspicious:     true,
	}
	require.NoError(t, repo.Create(first))
	require.NoError(t, repo.Create(second))
	assert.NotZero(t, first.ID)
	assert.False(t, second.Timestamp.IsZero())

	entries, err := repo.List()
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Newest first.
	assert.Equal(t, "failed login attempt", entries[0].Description)
	assert.True(t, entries[0].Suspicious)
	assert.Equal(t, "username: intruder", entries[0].AdditionalInfo)
	assert.Equal(t, "successful login", entries[1].Description)
}

func TestLogEncryptedAtRest(t *testing.T) {
	database, cs := newTestDB(t)
	repo := NewLogRepository(database, cs)

	require.NoError(t, repo.Create(&models.LogEntry{
		Username:       "sysadmin1",
		Description:    "password reset",
		AdditionalInfo: "username: engineer1",
	}))

	var description, info string
	require.NoError(t, database.QueryRow(`SELECT description, additional_info FROM logs`).Scan(&description, &info))
	assert.True(t, crypto.IsEncrypted(description))
	assert.True(t, crypto.IsEncrypted(info))
}

func TestLogLegacyPlaintextReadable(t *testing.T) {
	database, cs := newTestDB(t)
	repo := NewLogRepository(database, cs)

	_, err := database.Exec(
		`INSERT INTO logs (timestamp, username, description, additional_info, suspicious) VALUES (?, ?, ?, ?, 0)`,
		time.Now(), "olduser", "plain description", "plain info")
	require.NoError(t, err)

	entries, err := repo.List()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "plain description", entries[0].Description)
	assert.Equal(t, "plain info", entries[0].AdditionalInfo)
}

func TestLogListSuspicious(t *testing.T) {
	database, cs := newTestDB(t)
	repo := NewLogRepository(database, cs)

	require.NoError(t, repo.Create(&models.LogEntry{Description: "ordinary", Suspicious: false}))
	require.NoError(t, repo.Create(&models.LogEntry{Description: "flagged", Suspicious: true}))

	entries, err := repo.ListSuspicious()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "flagged", entries[0].Description)
}

func TestLogCounts(t *testing.T) {
	database, cs := newTestDB(t)
	repo := NewLogRepository(database, cs)

	require.NoError(t, repo.Create(&models.LogEntry{
		Timestamp:   time.Now().Add(-48 * time.Hour),
		Description: "old entry",
	}))
	require.NoError(t, repo.Create(&models.LogEntry{Description: "fresh", Suspicious: true}))

	recent, err := repo.CountSince(time.Now().Add(-24 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, recent)

	suspicious, err := repo.CountSuspicious()
	require.NoError(t, err)
	assert.Equal(t, 1, suspicious)
}

func TestLogCleanupKeepsSuspicious(t *testing.T) {
	database, cs := newTestDB(t)
	repo := NewLogRepository(database, cs)

	old := time.Now().Add(-100 * 24 * time.Hour)
	require.NoError(t, repo.Create(&models.LogEntry{Timestamp: old, Description: "old ordinary"}))
	require.NoError(t, repo.Create(&models.LogEntry{Timestamp: old, Description: "old suspicious", Suspicious: true}))
	require.NoError(t, repo.Create(&models.LogEntry{Description: "fresh"}))

	deleted, err := repo.DeleteOldNonSuspicious(time.Now().Add(-90 * 24 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	entries, err := repo.List()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.NotEqual(t, "old ordinary", e.Description)
	}
}
