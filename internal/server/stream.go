package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/sirdesai22/event-site/internal/metrics"
	"github.com/sirdesai22/event-site/internal/models"
	"github.com/sirdesai22/event-site/internal/realtime"
	"github.com/sirdesai22/event-site/internal/services"
)

const writeWait = 10 * time.Second

// snapshotFrame is one websocket message: the full current value of Path.
type snapshotFrame struct {
	Path string `json:"path"`
	Data any    `json:"data"`
}

// handlePublicStream pushes the public banner (enabled items and scroll
// duration) on every announcement change.
func (s *Server) handlePublicStream(w http.ResponseWriter, r *http.Request) {
	s.stream(w, r, realtime.PathAnnouncements, func(v any) any {
		all, _ := v.([]models.Announcement)
		return services.BuildBanner(all)
	})
}

func (s *Server) handleConsoleStream(w http.ResponseWriter, r *http.Request, sess *session) {
	path := r.PathValue("path")
	// the account list is admin-only over plain HTTP too
	if path == realtime.PathUsers && sess.account.Role != models.RoleAdmin {
		writeError(w, services.ErrForbidden)
		return
	}
	transform := func(v any) any { return v }
	if path == realtime.PathAnnouncements {
		transform = func(v any) any {
			all, _ := v.([]models.Announcement)
			return services.ConsoleAnnouncements(all)
		}
	}
	s.stream(w, r, path, transform)
}

func (s *Server) stream(w http.ResponseWriter, r *http.Request, path string, transform func(any) any) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return // Upgrade already replied
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Only the newest snapshot matters; a slow reader skips stale ones.
	latest := make(chan any, 1)
	push := func(v any) {
		for {
			select {
			case latest <- v:
				return
			default:
			}
			select {
			case <-latest:
			default:
			}
		}
	}

	unsubscribe, err := s.hub.Subscribe(ctx, path, push)
	if err != nil {
		_ = conn.WriteJSON(errorBody{Error: err.Error()})
		return
	}
	defer unsubscribe()
	metrics.Subscribers.Inc()
	defer metrics.Subscribers.Dec()

	// The client never sends anything meaningful; reading detects close.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case v := <-latest:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(snapshotFrame{Path: path, Data: transform(v)}); err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					log.Printf("stream %s: %v", path, err)
				}
				return
			}
		}
	}
}
