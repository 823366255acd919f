package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRegistration() RegistrationForm {
	return RegistrationForm{
		Name:                "Asha Menon",
		Email:               "asha@anycorp.io",
		CompanyName:         "Anycorp",
		MobileCountryCode:   "+91",
		MobileNumber:        "9876543210",
		WhatsappCountryCode: "+971",
		WhatsappNumber:      "971501234567",
		State:               "Kerala",
		Place:               "Kochi",
		LunchPreference:     LunchVeg,
	}
}

func TestValidateContact(t *testing.T) {
	ok := ContactForm{Name: "Jo", Email: "jo@gmail.com", Subject: "Hello there", Message: "This is a test message."}
	assert.Nil(t, ValidateContact(ok))

	bad := ContactForm{Name: "J", Email: "jo@mailinator.com", Subject: "Hey", Message: strings.Repeat("x", 1001)}
	errs := ValidateContact(bad)
	require.Len(t, errs, 4)
	assert.Equal(t, TooShort, errs["name"].Reason)
	assert.Equal(t, DisposableDomain, errs["email"].Reason)
	assert.Equal(t, TooShort, errs["subject"].Reason)
	assert.Equal(t, TooLong, errs["message"].Reason)
}

func TestValidateContactTrims(t *testing.T) {
	f := ContactForm{Name: "  Jo  ", Email: " jo@gmail.com ", Subject: "    Hi   ", Message: "This is a test message."}
	errs := ValidateContact(f)
	require.Len(t, errs, 1)
	assert.Equal(t, TooShort, errs["subject"].Reason)
}

func TestValidateRegistration(t *testing.T) {
	assert.Nil(t, ValidateRegistration(validRegistration()))
}

func TestValidateRegistrationOtherState(t *testing.T) {
	f := validRegistration()
	f.State = OtherState

	f.OtherState = ""
	errs := ValidateRegistration(f)
	require.Len(t, errs, 1)
	assert.Equal(t, MissingRegion, errs["otherState"].Reason)

	f.OtherState = " X "
	assert.Equal(t, MissingRegion, ValidateRegistration(f)["otherState"].Reason)

	f.OtherState = "Dubai"
	assert.Nil(t, ValidateRegistration(f))
}

func TestValidateRegistrationFieldRules(t *testing.T) {
	f := validRegistration()
	f.Name = "R2-D2"
	f.CompanyName = ""
	f.MobileCountryCode = ""
	f.MobileNumber = "1234567890"
	f.WhatsappNumber = "12345"
	f.LunchPreference = "vegan"

	errs := ValidateRegistration(f)
	assert.Equal(t, InvalidCharacters, errs["name"].Reason)
	assert.Equal(t, Required, errs["companyName"].Reason)
	assert.Equal(t, Required, errs["mobileCountryCode"].Reason)
	assert.Equal(t, InvalidLocalFormat, errs["mobileNumber"].Reason)
	assert.Equal(t, TooShort, errs["whatsappNumber"].Reason)
	assert.Equal(t, InvalidChoice, errs["lunchPreference"].Reason)
	assert.Contains(t, errs.Error(), "companyName: required")
}

func TestNormalizeComposesUnicode(t *testing.T) {
	f := ContactForm{Name: "  Jose\u0301 "}.Normalize()
	assert.Equal(t, "Jos\u00e9", f.Name)

	// "e" + combining acute is two runes but one character.
	errs := ValidateContact(ContactForm{Name: "e\u0301", Email: "e@gmail.com", Subject: "Hello there", Message: "A long enough message."})
	require.NotNil(t, errs["name"])
	assert.Equal(t, TooShort, errs["name"].Reason)
}
