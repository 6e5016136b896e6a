package shared

import "errors"

var (
	// ErrNotFound indicates the targeted row does not exist or belongs to another owner.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized indicates no authenticated caller.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrCSRFTokenMissing occurs when CSRF token missing.
	ErrCSRFTokenMissing = errors.New("csrf token missing")
	// ErrCSRFTokenMismatch occurs when CSRF tokens do not match.
	ErrCSRFTokenMismatch = errors.New("csrf token mismatch")
)

// UserSafeMessage converts an internal error into a message safe to show the user.
func UserSafeMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return "The requested item could not be found."
	case errors.Is(err, ErrUnauthorized):
		return "You must be signed in to do that."
	case errors.Is(err, ErrInvalidCredentials):
		return "Email or password is incorrect."
	default:
		return "Something went wrong. Please try again."
	}
}
