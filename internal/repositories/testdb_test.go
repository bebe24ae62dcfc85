package repositories

import (
	"os"
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/shaka3507/amanos/internal/models"
)

// setupTestDB opens a throwaway SQLite database with the full schema
// migrated. SQLite honors the same unique indexes and row guards the
// repositories rely on in production.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "amanos-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	db, err := gorm.Open(sqlite.Open(filepath.Join(tempDir, "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.GroupMember{},
		&models.Alert{},
		&models.CrisisItem{},
		&models.ItemClaim{},
		&models.AlertMessage{},
		&models.MessageReaction{},
		&models.AlertInvitation{},
		&models.EmergencyContact{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test schema: %v", err)
	}

	return db
}
