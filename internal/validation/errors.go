package validation

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

type Reason string

const (
	Required           Reason = "required"
	InvalidFormat      Reason = "invalid_format"
	DisposableDomain   Reason = "disposable_domain"
	TooShort           Reason = "too_short"
	TooLong            Reason = "too_long"
	NonDigit           Reason = "non_digit"
	InvalidLocalFormat Reason = "invalid_local_format"
	InvalidCharacters  Reason = "invalid_characters"
	InvalidChoice      Reason = "invalid_choice"
	MissingRegion      Reason = "missing_region"
)

// Failure is a single rule violation. Message is meant for the person filling
// in the form.
type Failure struct {
	Reason  Reason `json:"reason"`
	Message string `json:"message"`
}

func (f *Failure) Error() string { return string(f.Reason) + ": " + f.Message }

func fail(r Reason, msg string) error { return &Failure{Reason: r, Message: msg} }

// ReasonOf returns the reason carried by err, or "" when err is not a Failure.
func ReasonOf(err error) Reason {
	var f *Failure
	if errors.As(err, &f) {
		return f.Reason
	}
	return ""
}

// FieldErrors maps a form field (json name) to its first failure.
type FieldErrors map[string]*Failure

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, fe[k].Reason))
	}
	return "invalid fields: " + strings.Join(parts, ", ")
}

// add records err against field; the first failure per field wins.
func (fe FieldErrors) add(field string, err error) {
	if err == nil {
		return
	}
	if _, seen := fe[field]; seen {
		return
	}
	var f *Failure
	if !errors.As(err, &f) {
		f = &Failure{Reason: InvalidFormat, Message: err.Error()}
	}
	fe[field] = f
}

func (fe FieldErrors) orNil() FieldErrors {
	if len(fe) == 0 {
		return nil
	}
	return fe
}
