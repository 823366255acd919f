package server

import (
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/sirdesai22/event-site/internal/services"
	"github.com/sirdesai22/event-site/internal/validation"
)

func (s *Server) handleBanner(w http.ResponseWriter, r *http.Request) {
	banner, err := services.PublicBanner(r.Context(), s.db)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, banner)
}

func (s *Server) handleRegisterLink(w http.ResponseWriter, r *http.Request) {
	link, err := services.RegisterLink(r.Context(), s.db)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"registerLink": link})
}

func (s *Server) handleReference(w http.ResponseWriter, r *http.Request) {
	states := append(append([]string{}, validation.States...), validation.OtherState)
	writeJSON(w, http.StatusOK, map[string]any{
		"states":       states,
		"countryCodes": validation.CountryCodes,
		"lunchOptions": []string{validation.LunchVeg, validation.LunchNonVeg},
	})
}

func (s *Server) handleSubmitContact(w http.ResponseWriter, r *http.Request) {
	var form validation.ContactForm
	if !decodeJSON(w, r, &form) {
		return
	}
	sub, err := services.SubmitContact(r.Context(), s.db, form)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":        sub.ID,
		"createdAt": sub.CreatedAt,
		"message":   "Thank you for contacting us. We'll get back to you soon.",
	})
}

func (s *Server) handleSubmitRegistration(w http.ResponseWriter, r *http.Request) {
	var form validation.RegistrationForm
	if !decodeJSON(w, r, &form) {
		return
	}
	reg, checkout, err := services.SubmitRegistration(r.Context(), s.db, s.pay, form)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":            reg.ID,
		"paymentUrl":    checkout,
		"paymentStatus": reg.PaymentStatus,
		"message":       "Please complete the payment to confirm your registration.",
	})
}

func (s *Server) handlePaymentWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		http.Error(w, "body too large", http.StatusBadRequest)
		return
	}
	headers := map[string]string{}
	for k, v := range r.Header {
		if len(v) > 0 {
			headers[strings.ToLower(k)] = v[0]
		}
	}

	regID, status, err := s.pay.HandleWebhook(r.Context(), body, headers)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}
	id, err := uuid.Parse(regID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "bad registration id"})
		return
	}
	reg, err := services.ConfirmPayment(r.Context(), s.db, id, status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":             true,
		"registrationId": reg.ID,
		"paymentStatus":  reg.PaymentStatus,
	})
}
