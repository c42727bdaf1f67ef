// Package testutil holds shared fixtures and testify mocks for package tests.
package testutil

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/EgehanKilicarslan/meetapp/backend-go/internal/config"
	"github.com/EgehanKilicarslan/meetapp/backend-go/internal/database"
	"github.com/EgehanKilicarslan/meetapp/backend-go/internal/database/models"
)

// Now is the fixed instant used by clock-dependent tests.
var Now = time.Date(2030, time.June, 15, 12, 0, 0, 0, time.UTC)

// TestConfig returns a config suitable for testing
func TestConfig() *config.Config {
	return &config.Config{
		AppEnv:                 "test",
		ApiServicePort:         "8080",
		AppURL:                 "http://localhost:8080",
		DatabaseDriver:         database.DriverSQLite,
		SQLitePath:             ":memory:",
		JWTSecret:              "test-secret-key-for-testing-purposes",
		AccessTokenExpiration:  900,
		RefreshTokenExpiration: 604800,
		ListingCacheTTL:        86400,
		QueueDriver:            "memory",
		StorageDriver:          "local",
		MaxFileSize:            5 * 1024 * 1024,
		MailDriver:             "log",
		MailFrom:               "Meetapp <noreply@meetapp.com>",
		ShutdownTimeout:        5,
	}
}

// TestLogger returns a silent logger for testing
func TestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// NewTestDB opens a migrated in-memory SQLite database closed at test end.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.ConnectDatabase(TestConfig(), TestLogger())
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = database.Close(db)
	})
	return db
}

// CreateUser inserts a user with a throwaway password hash.
func CreateUser(t *testing.T, db *gorm.DB, name, email string) *models.User {
	t.Helper()

	user := &models.User{Name: name, Email: email, PasswordHash: "hash"}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateFile inserts a file record.
func CreateFile(t *testing.T, db *gorm.DB, path string) *models.File {
	t.Helper()

	file := &models.File{Name: "cover.png", Path: path}
	require.NoError(t, db.Create(file).Error)
	return file
}

// CreateMeetup inserts a meetup directly, bypassing the service rules.
func CreateMeetup(t *testing.T, db *gorm.DB, ownerID, fileID uint, title string, date time.Time) *models.Meetup {
	t.Helper()

	meetup := &models.Meetup{
		Title:       title,
		Description: "Description of " + title,
		Location:    "Main street 1",
		Date:        date.UTC(),
		FileID:      fileID,
		UserID:      ownerID,
	}
	require.NoError(t, db.Omit("User", "File", "Subscriptions").Create(meetup).Error)
	return meetup
}

// Subscribe inserts a subscription directly.
func Subscribe(t *testing.T, db *gorm.DB, userID, meetupID uint) *models.Subscription {
	t.Helper()

	subscription := &models.Subscription{UserID: userID, MeetupID: meetupID}
	require.NoError(t, db.Omit("User", "Meetup").Create(subscription).Error)
	return subscription
}
