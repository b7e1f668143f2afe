package errors

import (
	"errors"
)

// Token decode failures. Handlers collapse all of these to a generic 401 so
// the response does not reveal which check failed.
var (
	ErrTokenMalformed = errors.New("token malformed")
	ErrTokenSignature = errors.New("token signature invalid")
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenWrongKind = errors.New("token kind mismatch")
)

var (
	ErrNoCredential       = errors.New("not authenticated")
	ErrUnknownSubject     = errors.New("unknown subject")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailAlreadyInUse  = errors.New("email already registered")
	ErrInvalidAssertion   = errors.New("invalid provider assertion")
)

// IsTokenError reports whether err belongs to the token decode taxonomy.
func IsTokenError(err error) bool {
	return errors.Is(err, ErrTokenMalformed) ||
		errors.Is(err, ErrTokenSignature) ||
		errors.Is(err, ErrTokenExpired) ||
		errors.Is(err, ErrTokenWrongKind)
}
