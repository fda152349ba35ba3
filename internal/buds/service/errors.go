package service

import "errors"

// Rejection taxonomy. Handlers map these onto HTTP statuses; the messages
// are deliberately coarse so responses never reveal which check failed.
var (
	// ErrInvalidCredentials covers unknown identifier and wrong secret
	// alike. Login only.
	ErrInvalidCredentials = errors.New("invalid_credentials")

	// ErrUnauthenticated means no usable token was presented.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrInvalidToken means a presented token was malformed or forged.
	ErrInvalidToken = errors.New("invalid_token")

	// ErrSessionExpired means the refresh token is past its own expiry.
	// Fatal; the client must log in again.
	ErrSessionExpired = errors.New("session_expired")

	// ErrSessionInvalidated means the session was superseded by a newer
	// login or revoked by logout.
	ErrSessionInvalidated = errors.New("session_invalidated")

	// ErrForbidden means the authenticated user may not act on the target
	// resource.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation means the request payload failed input validation.
	ErrValidation = errors.New("invalid_request")
)
