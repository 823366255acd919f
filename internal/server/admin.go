package server

import (
	"log"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/sirdesai22/event-site/internal/elastic"
	"github.com/sirdesai22/event-site/internal/models"
	"github.com/sirdesai22/event-site/internal/services"
)

const searchLimit = 500

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	token, scope, err := s.sessions.open(r.Context(), body.Email, body.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	acct, err := services.Moderator(r.Context(), s.db, scope)
	if err != nil {
		s.sessions.close(token)
		writeError(w, err)
		return
	}
	log.Printf("🔐 %s signed in (%s)", acct.Email, acct.Role)
	writeJSON(w, http.StatusOK, map[string]any{"token": token, "account": acct})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request, sess *session) {
	s.sessions.close(sess.token)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request, sess *session) {
	writeJSON(w, http.StatusOK, sess.account)
}

// ---------- submissions ----------

func (s *Server) handleListContacts(w http.ResponseWriter, r *http.Request, sess *session) {
	q := r.URL.Query().Get("q")
	if q != "" && s.es != nil {
		ids, err := elastic.SearchContacts(r.Context(), s.es, q, searchLimit)
		if err == nil {
			rows, err := services.ContactsByID(r.Context(), s.db, ids)
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, orEmpty(rows))
			return
		}
		log.Printf("search fallback to SQL: %v", err)
	}
	rows, err := services.ListContacts(r.Context(), s.db, q)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(rows))
}

func (s *Server) handleDeleteContact(w http.ResponseWriter, r *http.Request, sess *session) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}
	if err := services.DeleteContact(r.Context(), s.db, id, confirmed(r)); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListRegistrations(w http.ResponseWriter, r *http.Request, sess *session) {
	rows, err := services.ListRegistrations(r.Context(), s.db)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(rows))
}

func (s *Server) handleExportRegistrations(w http.ResponseWriter, r *http.Request, sess *session) {
	rows, err := services.ListRegistrations(r.Context(), s.db)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="registrations.csv"`)
	if err := services.WriteRegistrationsCSV(w, rows); err != nil {
		log.Printf("❌ csv export: %v", err)
	}
}

// ---------- announcements ----------

func (s *Server) handleListAnnouncements(w http.ResponseWriter, r *http.Request, sess *session) {
	all, err := services.ListAnnouncements(r.Context(), s.db)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, services.ConsoleAnnouncements(all))
}

func (s *Server) handleAddAnnouncement(w http.ResponseWriter, r *http.Request, sess *session) {
	var body struct {
		Text string `json:"text"`
		Link string `json:"link"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	a, err := services.AddAnnouncement(r.Context(), s.db, body.Text, body.Link)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (s *Server) handleUpdateAnnouncement(w http.ResponseWriter, r *http.Request, sess *session) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}
	var body services.AnnouncementUpdate
	if !decodeJSON(w, r, &body) {
		return
	}
	a, err := services.UpdateAnnouncement(r.Context(), s.db, id, body)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleToggleAnnouncement(w http.ResponseWriter, r *http.Request, sess *session) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}
	var body struct {
		Enabled *bool `json:"enabled"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	if body.Enabled == nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "enabled is required"})
		return
	}
	a, err := services.ToggleEnabled(r.Context(), s.db, id, *body.Enabled)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleDeleteAnnouncement(w http.ResponseWriter, r *http.Request, sess *session) {
	id, ok := pathUUID(w, r)
	if !ok {
		return
	}
	if err := services.DeleteAnnouncement(r.Context(), s.db, id, confirmed(r)); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---------- settings ----------

func (s *Server) handleSetRegisterLink(w http.ResponseWriter, r *http.Request, sess *session) {
	var body struct {
		RegisterLink string `json:"registerLink"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	if err := services.SetRegisterLink(r.Context(), s.db, body.RegisterLink); err != nil {
		writeError(w, err)
		return
	}
	link, err := services.RegisterLink(r.Context(), s.db)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"registerLink": link})
}

// ---------- team ----------

func (s *Server) handleListTeam(w http.ResponseWriter, r *http.Request, sess *session) {
	accounts, err := services.ListAccounts(r.Context(), s.db)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(accounts))
}

func (s *Server) handleCreateTeam(w http.ResponseWriter, r *http.Request, sess *session) {
	var body struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}
	acct, err := services.CreateTeamAccount(r.Context(), s.db, s.idp, sess.scope, body.Name, body.Email, body.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, acct)
}

// ---------- dead letters ----------

func (s *Server) handleListDLQ(w http.ResponseWriter, r *http.Request, sess *session) {
	var dlq []models.DLQ
	if err := s.db.WithContext(r.Context()).Where("resolved = ?", false).Order("id desc").Limit(100).Find(&dlq).Error; err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(dlq))
}

func (s *Server) handleRetryDLQ(w http.ResponseWriter, r *http.Request, sess *session) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "bad id"})
		return
	}
	if s.worker == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: "feed worker is not running"})
		return
	}
	var d models.DLQ
	if err := s.db.WithContext(r.Context()).First(&d, "id = ?", id).Error; err != nil {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
		return
	}
	if err := s.worker.Retry(r.Context(), d); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "retry failed: " + err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "retried"})
}

// ---------- helpers ----------

func pathUUID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "bad id"})
		return uuid.Nil, false
	}
	return id, true
}

func confirmed(r *http.Request) bool {
	ok, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
	return ok
}

// orEmpty keeps empty lists as [] instead of null in JSON.
func orEmpty[T any](rows []T) []T {
	if rows == nil {
		return []T{}
	}
	return rows
}
