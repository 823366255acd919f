package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

const OtherState = "Other"

const (
	LunchVeg    = "veg"
	LunchNonVeg = "nonveg"
)

var personName = regexp.MustCompile(`^[a-zA-Z\s.'-]+$`)

type ContactForm struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// text trims s and composes it to NFC, so length limits count what a reader
// sees as characters.
func text(s string) string { return norm.NFC.String(strings.TrimSpace(s)) }

// Normalize trims every field the way the stored record keeps them.
func (f ContactForm) Normalize() ContactForm {
	return ContactForm{
		Name:    text(f.Name),
		Email:   strings.TrimSpace(f.Email),
		Subject: text(f.Subject),
		Message: text(f.Message),
	}
}

type RegistrationForm struct {
	Name                string `json:"name"`
	Email               string `json:"email"`
	CompanyName         string `json:"companyName"`
	MobileCountryCode   string `json:"mobileCountryCode"`
	MobileNumber        string `json:"mobileNumber"`
	WhatsappCountryCode string `json:"whatsappCountryCode"`
	WhatsappNumber      string `json:"whatsappNumber"`
	State               string `json:"state"`
	OtherState          string `json:"otherState,omitempty"`
	Place               string `json:"place"`
	LunchPreference     string `json:"lunchPreference"`
}

func (f RegistrationForm) Normalize() RegistrationForm {
	return RegistrationForm{
		Name:                text(f.Name),
		Email:               strings.TrimSpace(f.Email),
		CompanyName:         text(f.CompanyName),
		MobileCountryCode:   strings.TrimSpace(f.MobileCountryCode),
		MobileNumber:        strings.TrimSpace(f.MobileNumber),
		WhatsappCountryCode: strings.TrimSpace(f.WhatsappCountryCode),
		WhatsappNumber:      strings.TrimSpace(f.WhatsappNumber),
		State:               strings.TrimSpace(f.State),
		OtherState:          text(f.OtherState),
		Place:               text(f.Place),
		LunchPreference:     strings.TrimSpace(f.LunchPreference),
	}
}

// ValidateContact returns nil when the form is acceptable.
func ValidateContact(f ContactForm) FieldErrors {
	f = f.Normalize()
	errs := FieldErrors{}
	errs.add("name", length(f.Name, "Name", 2, 100))
	errs.add("email", ValidateEmail(f.Email))
	errs.add("subject", length(f.Subject, "Subject", 5, 200))
	errs.add("message", length(f.Message, "Message", 10, 1000))
	return errs.orNil()
}

// ValidateRegistration applies the field rules plus the region rule: choosing
// "Other" as state requires a free-text region of at least two characters.
func ValidateRegistration(f RegistrationForm) FieldErrors {
	f = f.Normalize()
	errs := FieldErrors{}

	errs.add("name", length(f.Name, "Name", 2, 100))
	if f.Name != "" && !personName.MatchString(f.Name) {
		errs.add("name", fail(InvalidCharacters, "Name can only contain letters, spaces, dots, hyphens, and apostrophes"))
	}
	errs.add("email", ValidateEmail(f.Email))
	errs.add("companyName", length(f.CompanyName, "Company name", 2, 150))

	errs.add("mobileCountryCode", required(f.MobileCountryCode, "Country code"))
	errs.add("mobileNumber", ValidatePhone(f.MobileNumber))
	errs.add("whatsappCountryCode", required(f.WhatsappCountryCode, "Country code"))
	errs.add("whatsappNumber", ValidatePhone(f.WhatsappNumber))

	errs.add("state", required(f.State, "State"))
	if f.State == OtherState && utf8.RuneCountInString(f.OtherState) < 2 {
		errs.add("otherState", fail(MissingRegion, "Please specify your state/region"))
	}
	errs.add("place", length(f.Place, "Place", 2, 100))

	switch f.LunchPreference {
	case LunchVeg, LunchNonVeg:
	case "":
		errs.add("lunchPreference", fail(Required, "Please select your lunch preference"))
	default:
		errs.add("lunchPreference", fail(InvalidChoice, "Lunch preference must be veg or nonveg"))
	}
	return errs.orNil()
}

func required(v, label string) error {
	if v == "" {
		return fail(Required, label+" is required")
	}
	return nil
}

func length(v, label string, min, max int) error {
	n := utf8.RuneCountInString(v)
	switch {
	case n == 0:
		return fail(Required, label+" is required")
	case n < min:
		return fail(TooShort, fmt.Sprintf("%s must be at least %d characters", label, min))
	case n > max:
		return fail(TooLong, fmt.Sprintf("%s must be less than %d characters", label, max))
	}
	return nil
}
