package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialectorFor(t *testing.T) {
	for dsn, want := range map[string]string{
		"postgres://u:p@localhost:5432/ramya":   "postgres",
		"postgresql://u:p@localhost:5432/ramya": "postgres",
		"file::memory:?cache=shared":            "sqlite",
		"sandbox.db":                            "sqlite",
	} {
		got, _ := dialectorFor(dsn)
		assert.Equal(t, want, got, dsn)
	}
}

func TestBackoffCaps(t *testing.T) {
	b := backoff{maxRetries: 5, delay: 500 * time.Millisecond, maxDelay: 5 * time.Second}
	assert.Equal(t, 500*time.Millisecond, b.nextDelay(0))
	assert.Equal(t, 2*time.Second, b.nextDelay(2))
	assert.Equal(t, 5*time.Second, b.nextDelay(6))
}

func TestOpenSqlite(t *testing.T) {
	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "sandbox.db"), Options{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.NoError(t, sqlDB.Ping())
	assert.NoError(t, sqlDB.Close())
}
