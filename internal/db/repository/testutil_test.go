package repository

import (
	"crypto/rand"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Damian5314/Urban-Mobility-backend-system/internal/crypto"
	"github.com/Damian5314/Urban-Mobility-backend-system/internal/db"
)

func newTestDB(t *testing.T) (*sql.DB, *crypto.Service) {
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

	return database.DB, cs
}
