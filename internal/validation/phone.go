package validation

import (
	"regexp"
	"strings"
)

const (
	minPhoneDigits = 10
	maxPhoneDigits = 15
)

// 10-digit numbers follow the Indian mobile convention.
var localMobile = regexp.MustCompile(`^[6-9]\d{9}$`)

// ValidatePhone checks length first, then digits, then the local format for
// 10-digit numbers. Longer numbers are treated as international and only the
// length bound applies.
func ValidatePhone(value string) error {
	v := strings.TrimSpace(value)
	switch n := len([]rune(v)); {
	case n < minPhoneDigits:
		return fail(TooShort, "Phone number must be at least 10 digits")
	case n > maxPhoneDigits:
		return fail(TooLong, "Phone number must be at most 15 digits")
	}
	for _, r := range v {
		if r < '0' || r > '9' {
			return fail(NonDigit, "Phone number must contain only digits")
		}
	}
	if len(v) == minPhoneDigits && !localMobile.MatchString(v) {
		return fail(InvalidLocalFormat, "Please enter a valid phone number")
	}
	return nil
}
