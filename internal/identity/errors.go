package identity

import "errors"

const (
	CodeInvalidEmail      = "auth/invalid-email"
	CodeWeakPassword      = "auth/weak-password"
	CodeEmailInUse        = "auth/email-already-in-use"
	CodeInvalidCredential = "auth/invalid-credential"
)

// Error is a provider-level failure with a message fit to show a moderator.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Message + " (" + e.Code + ")" }

func IsCode(err error, code string) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}
