package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amaumene/kioskarr/internal/session"
)

func openTestDatabase(t *testing.T, path string) *Database {
	t.Helper()
	db, err := NewDatabase(path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestTokenRoundTrip(t *testing.T) {
	db := openTestDatabase(t, filepath.Join(t.TempDir(), "kioskarr.db"))

	_, err := db.LoadToken()
	require.ErrorIs(t, err, session.ErrNoToken)

	require.NoError(t, db.SaveToken("first"))
	require.NoError(t, db.SaveToken("second"))

	token, err := db.LoadToken()
	require.NoError(t, err)
	assert.Equal(t, "second", token)

	var count int64
	require.NoError(t, db.db.Model(&ClientState{}).Count(&count).Error)
	assert.Equal(t, int64(1), count, "only the token is persisted")

	require.NoError(t, db.DeleteToken())
	_, err = db.LoadToken()
	assert.ErrorIs(t, err, session.ErrNoToken)

	// Deleting twice is fine
	assert.NoError(t, db.DeleteToken())
}

func TestTokenSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kioskarr.db")

	db, err := NewDatabase(path)
	require.NoError(t, err)
	require.NoError(t, db.SaveToken("persisted"))
	require.NoError(t, db.Close())

	reopened := openTestDatabase(t, path)
	token, err := reopened.LoadToken()
	require.NoError(t, err)
	assert.Equal(t, "persisted", token)
}

func TestDatabaseImplementsTokenStore(t *testing.T) {
	var _ session.TokenStore = (*Database)(nil)
}
