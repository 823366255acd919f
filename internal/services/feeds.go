package services

import (
	"context"

	"github.com/sirdesai22/event-site/internal/realtime"
	"gorm.io/gorm"
)

// RegisterFeeds wires every store path to its snapshot loader.
func RegisterFeeds(hub *realtime.Hub, db *gorm.DB) {
	hub.Register(realtime.PathContacts, func(ctx context.Context) (any, error) {
		return ListContacts(ctx, db, "")
	})
	hub.Register(realtime.PathRegistrations, func(ctx context.Context) (any, error) {
		return ListRegistrations(ctx, db)
	})
	hub.Register(realtime.PathAnnouncements, func(ctx context.Context) (any, error) {
		return ListAnnouncements(ctx, db)
	})
	hub.Register(realtime.PathRegisterLink, func(ctx context.Context) (any, error) {
		return RegisterLink(ctx, db)
	})
	hub.Register(realtime.PathUsers, func(ctx context.Context) (any, error) {
		return ListAccounts(ctx, db)
	})
}
