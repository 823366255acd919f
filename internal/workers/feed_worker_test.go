package workers

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sirdesai22/event-site/internal/models"
	"github.com/sirdesai22/event-site/internal/realtime"
	"github.com/sirdesai22/event-site/internal/services"
	"github.com/sirdesai22/event-site/internal/validation"
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
		&models.Outbox{},
		&models.DLQ{},
	))
	return db
}

func newWorker(db *gorm.DB) *FeedWorker {
	hub := realtime.NewHub()
	services.RegisterFeeds(hub, db)
	return &FeedWorker{DB: db, Hub: hub}
}

func TestToggleRemovesAnnouncementFromNextSnapshot(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	w := newWorker(db)

	a, err := services.AddAnnouncement(ctx, db, "A", "")
	require.NoError(t, err)
	_, err = services.AddAnnouncement(ctx, db, "B", "")
	require.NoError(t, err)
	require.NoError(t, w.ProcessOnce(ctx))

	var banners []services.Banner
	unsubscribe, err := w.Hub.Subscribe(ctx, realtime.PathAnnouncements, func(s any) {
		banners = append(banners, services.BuildBanner(s.([]models.Announcement)))
	})
	require.NoError(t, err)
	defer unsubscribe()
	require.Len(t, banners, 1)
	assert.Len(t, banners[0].Items, 2)

	_, err = services.ToggleEnabled(ctx, db, a.ID, false)
	require.NoError(t, err)
	require.NoError(t, w.ProcessOnce(ctx))

	require.Len(t, banners, 2)
	require.Len(t, banners[1].Items, 1)
	assert.Equal(t, "B", banners[1].Items[0].Text)
}

func TestProcessOnceNotifiesEachPathOnce(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	w := newWorker(db)

	var contactSnapshots, linkSnapshots int
	_, err := w.Hub.Subscribe(ctx, realtime.PathContacts, func(any) { contactSnapshots++ })
	require.NoError(t, err)
	_, err = w.Hub.Subscribe(ctx, realtime.PathRegisterLink, func(any) { linkSnapshots++ })
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := services.SubmitContact(ctx, db, validation.ContactForm{
			Name: "Jo", Email: "jo@gmail.com", Subject: "Hello there", Message: "This is a test message.",
		})
		require.NoError(t, err)
	}
	require.NoError(t, w.ProcessOnce(ctx))
	assert.Equal(t, 2, contactSnapshots)
	assert.Equal(t, 1, linkSnapshots)

	var pending int64
	require.NoError(t, db.Model(&models.Outbox{}).Where("processed = ?", false).Count(&pending).Error)
	assert.Zero(t, pending)

	require.NoError(t, w.ProcessOnce(ctx))
	assert.Equal(t, 2, contactSnapshots)
}

func TestFetchOutboxBatchClaimsOldestFirst(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	for i := 0; i < 5; i++ {
		require.NoError(t, services.AddOutboxEvent(db, models.EntityAnnouncement, uuid.NewString(), models.OpUpsert, nil))
	}

	first, err := FetchOutboxBatch(ctx, db, 3)
	require.NoError(t, err)
	require.Len(t, first.Events, 3)
	assert.Less(t, first.Events[0].ID, first.Events[2].ID)

	second, err := FetchOutboxBatch(ctx, db, 3)
	require.NoError(t, err)
	require.Len(t, second.Events, 2)
	assert.Greater(t, second.Events[0].ID, first.Events[2].ID)
}

func TestPutDLQAndResolve(t *testing.T) {
	db := newTestDB(t)
	ob := models.Outbox{ID: 7, EntityType: models.EntityContact, EntityID: uuid.NewString(), Op: models.OpUpsert}
	PutDLQ(db, ob, "index unavailable")

	var d models.DLQ
	require.NoError(t, db.First(&d, "outbox_id = ?", 7).Error)
	assert.Equal(t, "index unavailable", d.ErrorMsg)
	assert.False(t, d.Resolved)

	require.NoError(t, MarkResolved(db, d.ID))
	require.NoError(t, db.First(&d, d.ID).Error)
	assert.True(t, d.Resolved)
	assert.NotNil(t, d.RetriedAt)
}

func TestPathFor(t *testing.T) {
	assert.Equal(t, realtime.PathAnnouncements, PathFor(models.EntityAnnouncement))
	assert.Equal(t, realtime.PathUsers, PathFor(models.EntityAccount))
	assert.Empty(t, PathFor("invoice"))
}
