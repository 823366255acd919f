// internal/elastic/docs.go
package elastic

import (
	"encoding/json"
	"time"

	"github.com/sirdesai22/event-site/internal/models"
)

type ContactDoc struct {
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

func BuildContactDoc(c models.ContactSubmission) ([]byte, error) {
	return json.Marshal(ContactDoc{
		Name: c.Name, Email: c.Email, Subject: c.Subject, Message: c.Message, CreatedAt: c.CreatedAt,
	})
}

type RegistrationDoc struct {
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	CompanyName     string    `json:"company_name"`
	State           string    `json:"state"`
	Place           string    `json:"place"`
	LunchPreference string    `json:"lunch_preference"`
	PaymentStatus   string    `json:"payment_status"`
	CreatedAt       time.Time `json:"created_at"`
}

func BuildRegistrationDoc(r models.Registration) ([]byte, error) {
	state := r.State
	if r.OtherState != "" {
		state = r.OtherState
	}
	return json.Marshal(RegistrationDoc{
		Name:            r.Name,
		Email:           r.Email,
		CompanyName:     r.CompanyName,
		State:           state,
		Place:           r.Place,
		LunchPreference: r.LunchPreference,
		PaymentStatus:   r.PaymentStatus,
		CreatedAt:       r.CreatedAt,
	})
}
