// Package testutil builds in-memory fixtures for package tests.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/team-task-api/internal/constants"
	"github.com/yukikurage/team-task-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB returns a migrated in-memory SQLite database that is closed when
// the test ends. The pool is pinned to one connection because every
// ":memory:" connection is a separate database.
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(models.AllModels()...))

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return db
}

// CreateUser inserts a user with a placeholder password hash.
func CreateUser(t testing.TB, db *gorm.DB, username, email string) *models.User {
	t.Helper()

	user := &models.User{
		Email:        email,
		Username:     username,
		PasswordHash: "hashedpassword",
		Role:         constants.RoleRegular,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateTeam inserts a team and its membership rows.
func CreateTeam(t testing.TB, db *gorm.DB, name, creatorID string, memberIDs ...string) *models.Team {
	t.Helper()

	team := &models.Team{Name: name, CreatedBy: creatorID}
	require.NoError(t, db.Omit("Members").Create(team).Error)
	for _, id := range memberIDs {
		require.NoError(t, db.Create(&models.TeamMember{TeamID: team.ID, UserID: id}).Error)
	}
	team.MemberIDs = memberIDs
	return team
}
