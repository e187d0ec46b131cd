package repository

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nbelyaev/linewatch/internal/db"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := db.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestCursorStore_FirstRunIsZero(t *testing.T) {
	store := NewSQLiteCursorStore(testDB(t))
	id, err := store.LoadCursor()
	require.NoError(t, err)
	assert.Equal(t, int64(0), id)
}

func TestCursorStore_SaveAndLoad(t *testing.T) {
	store := NewSQLiteCursorStore(testDB(t))

	require.NoError(t, store.SaveCursor(5))
	require.NoError(t, store.SaveCursor(9))

	id, err := store.LoadCursor()
	require.NoError(t, err)
	assert.Equal(t, int64(9), id)
}

func TestCursorStore_NeverMovesBackward(t *testing.T) {
	store := NewSQLiteCursorStore(testDB(t))

	require.NoError(t, store.SaveCursor(9))
	require.NoError(t, store.SaveCursor(3))

	id, err := store.LoadCursor()
	require.NoError(t, err)
	assert.Equal(t, int64(9), id)
}
