package database_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EgehanKilicarslan/meetapp/backend-go/internal/database"
	"github.com/EgehanKilicarslan/meetapp/backend-go/internal/database/models"
	"github.com/EgehanKilicarslan/meetapp/backend-go/internal/testutil"
)

func TestConnectDatabase_SQLite(t *testing.T) {
	cfg := testutil.TestConfig()
	cfg.SQLitePath = filepath.Join(t.TempDir(), "meetapp.db")

	db, err := database.ConnectDatabase(cfg, testutil.TestLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	for _, table := range []any{&models.User{}, &models.RefreshToken{}, &models.File{}, &models.Meetup{}, &models.Subscription{}} {
		assert.True(t, db.Migrator().HasTable(table))
	}

	assert.True(t, db.Migrator().HasIndex(&models.Subscription{}, "idx_subscriptions_user_meetup"))
}

func TestConnectDatabase_MigrationIsIdempotent(t *testing.T) {
	cfg := testutil.TestConfig()
	cfg.SQLitePath = filepath.Join(t.TempDir(), "meetapp.db")

	first, err := database.ConnectDatabase(cfg, testutil.TestLogger())
	require.NoError(t, err)
	require.NoError(t, database.Close(first))

	second, err := database.ConnectDatabase(cfg, testutil.TestLogger())
	require.NoError(t, err)
	assert.NoError(t, database.Close(second))
}

func TestConnectDatabase_UnsupportedDriver(t *testing.T) {
	cfg := testutil.TestConfig()
	cfg.DatabaseDriver = "oracle"

	db, err := database.ConnectDatabase(cfg, testutil.TestLogger())

	assert.Nil(t, db)
	assert.ErrorContains(t, err, "unsupported database driver")
}
