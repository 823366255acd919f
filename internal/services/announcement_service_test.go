package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sirdesai22/event-site/internal/models"
)

func TestVisibleAnnouncements(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	a, err := AddAnnouncement(ctx, db, "A", "")
	require.NoError(t, err)
	assert.True(t, a.Enabled)
	b, err := AddAnnouncement(ctx, db, "B", "https://example.com/agenda")
	require.NoError(t, err)
	_, err = ToggleEnabled(ctx, db, b.ID, false)
	require.NoError(t, err)

	banner, err := PublicBanner(ctx, db)
	require.NoError(t, err)
	require.Len(t, banner.Items, 1)
	assert.Equal(t, "A", banner.Items[0].Text)
	assert.Equal(t, 20.0, banner.DurationSeconds)
}

func TestScrollDuration(t *testing.T) {
	assert.Equal(t, 20.0, ScrollDuration(nil))
	short := []models.Announcement{{Text: strings.Repeat("x", 100)}}
	assert.Equal(t, 20.0, ScrollDuration(short))
	long := []models.Announcement{{Text: strings.Repeat("x", 150)}, {Text: strings.Repeat("é", 50)}}
	assert.InDelta(t, 40.0, ScrollDuration(long), 1e-9)
}

func TestUpdateAnnouncementReplacesFields(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	a, err := AddAnnouncement(ctx, db, "Early bird ends soon", "https://example.com/a")
	require.NoError(t, err)

	updated, err := UpdateAnnouncement(ctx, db, a.ID, AnnouncementUpdate{Text: "Early bird ended", Link: "", Enabled: false})
	require.NoError(t, err)
	assert.Equal(t, "Early bird ended", updated.Text)
	assert.Empty(t, updated.Link)
	assert.False(t, updated.Enabled)

	_, err = UpdateAnnouncement(ctx, db, a.ID, AnnouncementUpdate{Text: "  "})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))

	_, err = UpdateAnnouncement(ctx, db, uuid.New(), AnnouncementUpdate{Text: "x"})
	require.ErrorIs(t, err, ErrNotFound)
	_, err = ToggleEnabled(ctx, db, uuid.New(), true)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteAnnouncementNeedsConfirmation(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	a, err := AddAnnouncement(ctx, db, "Doors open at 9", "")
	require.NoError(t, err)

	require.ErrorIs(t, DeleteAnnouncement(ctx, db, a.ID, false), ErrConfirmationRequired)
	assert.EqualValues(t, 1, count(t, db, &models.Announcement{}))
	require.NoError(t, DeleteAnnouncement(ctx, db, a.ID, true))
	assert.Zero(t, count(t, db, &models.Announcement{}))
	require.ErrorIs(t, DeleteAnnouncement(ctx, db, a.ID, true), ErrNotFound)
}

func TestAddAnnouncementRequiresText(t *testing.T) {
	_, err := AddAnnouncement(context.Background(), newTestDB(t), " ", "")
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
}

func TestConsoleAnnouncementsNewestFirst(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	for _, text := range []string{"first", "second", "third"} {
		_, err := AddAnnouncement(ctx, db, text, "")
		require.NoError(t, err)
	}
	all, err := ListAnnouncements(ctx, db)
	require.NoError(t, err)
	console := ConsoleAnnouncements(all)
	require.Len(t, console, 3)
	assert.Equal(t, "third", console[0].Text)
	assert.Equal(t, "first", console[2].Text)
	assert.Equal(t, "first", all[0].Text)
}
