package common

import "errors"

// Callers should match these values with errors.Is.
var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal      = errors.New("internal error")
	ErrorUnauthorized  = errors.New("unauthorized")
	ErrorForbidden     = errors.New("forbidden")
	ErrorValidation    = errors.New("validation error")
	ErrDeadlineExpired = errors.New("deadline expired")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)

// DetailedError pairs a sentinel kind with a message that is safe to show to
// API clients.
type DetailedError struct {
	Kind    error
	Message string
}

func (e *DetailedError) Error() string { return e.Kind.Error() + ": " + e.Message }

func (e *DetailedError) Unwrap() error { return e.Kind }

// Detail wraps kind with a client-facing message.
func Detail(kind error, msg string) error {
	return &DetailedError{Kind: kind, Message: msg}
}

// PublicMessage returns the client-facing message carried by err, or
// fallback when err has none.
func PublicMessage(err error, fallback string) string {
	var de *DetailedError
	if errors.As(err, &de) && de.Message != "" {
		return de.Message
	}
	return fallback
}
