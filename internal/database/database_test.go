package database

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/team-task-api/internal/config"
	"github.com/yukikurage/team-task-api/internal/models"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestDialector(t *testing.T) {
	tests := []struct {
		driver string
		name   string
	}{
		{config.DriverMySQL, "mysql"},
		{config.DriverPostgres, "postgres"},
		{config.DriverSQLite, "sqlite"},
	}

	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			dialector, err := Dialector(&config.Config{DBDriver: tt.driver, DBName: "tasks"})
			require.NoError(t, err)
			assert.Equal(t, tt.name, dialector.Name())
		})
	}

	_, err := Dialector(&config.Config{DBDriver: "oracle"})
	assert.Error(t, err)
}

func TestConnectAndMigrate_SQLite(t *testing.T) {
	log := quietLogger()
	cfg := &config.Config{DBDriver: config.DriverSQLite, DBDSN: "file::memory:"}

	db, err := Connect(cfg, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	require.NoError(t, Migrate(db, log))
	// second run must be a no-op
	require.NoError(t, Migrate(db, log))

	for _, idx := range compositeIndexes {
		assert.True(t, db.Migrator().HasIndex(idx.model, idx.name), idx.name)
	}
	assert.True(t, db.Migrator().HasTable(&models.TeamMember{}))
}

func TestScopes(t *testing.T) {
	log := quietLogger()
	db, err := Connect(&config.Config{DBDriver: config.DriverSQLite, DBDSN: "file::memory:"}, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })
	require.NoError(t, Migrate(db, log))

	for _, name := range []string{"bob", "alice", "albert", "alfred"} {
		require.NoError(t, db.Create(&models.User{Username: name, Email: name + "@example.com", PasswordHash: "x"}).Error)
	}

	var users []models.User
	require.NoError(t, db.Scopes(PrefixRange("username", "al", "al\uf8ff", 2)).Find(&users).Error)
	require.Len(t, users, 2)
	assert.Equal(t, "albert", users[0].Username)
	assert.Equal(t, "alfred", users[1].Username)

	users = nil
	require.NoError(t, db.Scopes(NewestFirst).Find(&users).Error)
	assert.Len(t, users, 4)
}
