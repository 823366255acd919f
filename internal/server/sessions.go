package server

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sirdesai22/event-site/internal/identity"
	"github.com/sirdesai22/event-site/internal/models"
	"github.com/sirdesai22/event-site/internal/services"
)

// sessionIdle is how long a console session survives without a request.
const sessionIdle = 12 * time.Hour

// sessions binds bearer tokens to identity contexts. Each console login gets
// its own context, so one moderator signing in or out never affects another.
// A token idle for longer than idle is disposed on its next use or on the next
// login, whichever comes first.
type sessions struct {
	idp  *identity.Provider
	idle time.Duration
	now  func() time.Time

	mu       sync.Mutex
	deadline map[string]time.Time
}

type session struct {
	token   string
	scope   *identity.Context
	account *models.Account
}

func newSessions(idp *identity.Provider) *sessions {
	return &sessions{idp: idp, idle: sessionIdle, now: time.Now, deadline: map[string]time.Time{}}
}

func contextName(token string) string { return "session-" + token }

func (s *sessions) open(ctx context.Context, email, password string) (string, *identity.Context, error) {
	s.sweep()
	token := uuid.NewString()
	scope, err := s.idp.NewContext(contextName(token))
	if err != nil {
		return "", nil, err
	}
	if _, err := scope.SignInWithPassword(ctx, email, password); err != nil {
		s.idp.Dispose(scope)
		return "", nil, err
	}
	s.mu.Lock()
	s.deadline[token] = s.now().Add(s.idle)
	s.mu.Unlock()
	return token, scope, nil
}

// get resolves a live token and extends its idle deadline.
func (s *sessions) get(token string) (*identity.Context, bool) {
	s.mu.Lock()
	deadline, ok := s.deadline[token]
	now := s.now()
	expired := ok && !now.Before(deadline)
	if ok && !expired {
		s.deadline[token] = now.Add(s.idle)
	}
	s.mu.Unlock()
	if !ok {
		return nil, false
	}
	if expired {
		s.close(token)
		return nil, false
	}
	return s.idp.Lookup(contextName(token))
}

func (s *sessions) close(token string) {
	s.mu.Lock()
	_, ok := s.deadline[token]
	delete(s.deadline, token)
	s.mu.Unlock()
	if !ok {
		return
	}
	if scope, found := s.idp.Lookup(contextName(token)); found {
		s.idp.Dispose(scope)
	}
}

// sweep disposes every session past its idle deadline.
func (s *sessions) sweep() {
	now := s.now()
	s.mu.Lock()
	var stale []string
	for token, deadline := range s.deadline {
		if !now.Before(deadline) {
			stale = append(stale, token)
		}
	}
	s.mu.Unlock()
	for _, token := range stale {
		s.close(token)
	}
}

func (s *sessions) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.deadline)
}

// bearerToken reads "Authorization: Bearer <token>", falling back to the
// token query parameter for websocket clients that cannot set headers.
func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return r.URL.Query().Get("token")
}

type sessionHandler func(w http.ResponseWriter, r *http.Request, sess *session)

func (s *Server) moderator(h sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		scope, ok := s.sessions.get(token)
		if token == "" || !ok {
			writeError(w, services.ErrUnauthenticated)
			return
		}
		acct, err := services.Moderator(r.Context(), s.db, scope)
		if err != nil {
			writeError(w, err)
			return
		}
		h(w, r, &session{token: token, scope: scope, account: acct})
	}
}

func (s *Server) admin(h sessionHandler) http.HandlerFunc {
	return s.moderator(func(w http.ResponseWriter, r *http.Request, sess *session) {
		if sess.account.Role != models.RoleAdmin {
			writeError(w, services.ErrForbidden)
			return
		}
		h(w, r, sess)
	})
}
