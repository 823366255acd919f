package validation

import (
	"net/mail"
	"strings"
)

const maxEmailLength = 255

// blockedDomains are disposable-mailbox providers. A domain is blocked when it
// contains any entry as a substring, so subdomains are caught too.
var blockedDomains = []string{
	"tempmail.com",
	"throwaway.com",
	"guerrillamail.com",
	"mailinator.com",
	"10minutemail.com",
	"temp-mail.org",
	"fakeinbox.com",
	"trashmail.com",
	"yopmail.com",
	"getnada.com",
	"maildrop.cc",
	"discard.email",
	"sharklasers.com",
	"spam4.me",
	"mytemp.email",
	"tempr.email",
	"dispostable.com",
	"throwawaymail.com",
	"tempinbox.com",
	"burnermail.io",
}

// ValidateEmail accepts any syntactically valid address whose domain is not a
// disposable provider.
func ValidateEmail(value string) error {
	v := strings.TrimSpace(value)
	if v == "" {
		return fail(InvalidFormat, "Email is required")
	}
	if len(v) > maxEmailLength {
		return fail(InvalidFormat, "Email must be less than 255 characters")
	}
	domain, ok := emailDomain(v)
	if !ok {
		return fail(InvalidFormat, "Please enter a valid email address")
	}
	if IsDisposableDomain(domain) {
		return fail(DisposableDomain, "Please use a professional email address. Temporary/disposable emails are not allowed.")
	}
	return nil
}

func IsDisposableDomain(domain string) bool {
	d := strings.ToLower(domain)
	for _, blocked := range blockedDomains {
		if strings.Contains(d, blocked) {
			return true
		}
	}
	return false
}

func emailDomain(v string) (string, bool) {
	addr, err := mail.ParseAddress(v)
	if err != nil || addr.Address != v || addr.Name != "" {
		return "", false
	}
	at := strings.LastIndexByte(v, '@')
	if at <= 0 {
		return "", false
	}
	domain := v[at+1:]
	dot := strings.LastIndexByte(domain, '.')
	if dot <= 0 || dot == len(domain)-1 {
		return "", false
	}
	return domain, true
}
