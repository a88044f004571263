package services

import (
	"testing"

	"github.com/Bekzhanizb/SocialHabitsBackend/models"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testDB opens a fresh in-memory sqlite database with the full schema.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	dbConn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// One pooled connection: a second connection to ":memory:" would see a
	// separate empty database.
	sqlDB, err := dbConn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, dbConn.AutoMigrate(
		&models.User{},
		&models.Habit{},
		&models.CheckIn{},
		&models.Follow{},
	))
	return dbConn
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func createTestUser(t *testing.T, dbConn *gorm.DB, username string) models.User {
	t.Helper()

	user := models.User{Username: username, PasswordHash: "x", Role: models.RoleUser}
	require.NoError(t, dbConn.Create(&user).Error)
	return user
}
