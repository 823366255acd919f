package server

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/sirdesai22/event-site/internal/identity"
	"github.com/sirdesai22/event-site/internal/services"
	"github.com/sirdesai22/event-site/internal/validation"
)

const maxBodyBytes = 64 << 10

type errorBody struct {
	Error  string                 `json:"error"`
	Fields validation.FieldErrors `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError turns any operation failure into a JSON response. Unknown errors
// are logged and reported generically.
func writeError(w http.ResponseWriter, err error) {
	var verr *services.ValidationError
	var perr *services.ProviderError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: "validation failed", Fields: verr.Fields})
	case errors.As(err, &perr):
		writeJSON(w, http.StatusConflict, errorBody{Error: perr.Message})
	case identity.IsCode(err, identity.CodeInvalidCredential), errors.Is(err, services.ErrUnauthenticated):
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "invalid credentials or session expired"})
	case errors.Is(err, services.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorBody{Error: "not allowed"})
	case errors.Is(err, services.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
	case errors.Is(err, services.ErrConfirmationRequired):
		writeJSON(w, http.StatusConflict, errorBody{Error: "confirmation required: repeat with confirm=true"})
	case errors.Is(err, services.ErrRegistrationClosed):
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: "registration is not open yet"})
	default:
		log.Printf("❌ request failed: %v", err)
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: "service unavailable, please try again"})
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "malformed JSON body"})
		return false
	}
	return true
}
