package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sirdesai22/event-site/internal/identity"
	"github.com/sirdesai22/event-site/internal/models"
	"github.com/sirdesai22/event-site/internal/payments/hosted"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.ContactSubmission{},
		&models.Registration{},
		&models.Announcement{},
		&models.Setting{},
		&models.Account{},
		&identity.Credential{},
		&models.Outbox{},
	))
	return db
}

func newTestProvider(db *gorm.DB) *identity.Provider {
	return identity.NewProvider(db, bcrypt.MinCost)
}

func newTestPayments() *hosted.Provider { return hosted.New("test-secret") }

func outboxEvents(t *testing.T, db *gorm.DB, entity string) []models.Outbox {
	t.Helper()
	var out []models.Outbox
	require.NoError(t, db.Where("entity_type = ?", entity).Order("id asc").Find(&out).Error)
	return out
}

func count(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}
