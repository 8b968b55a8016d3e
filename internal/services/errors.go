package services

import "errors"

// Sentinel errors returned by the services and mapped to HTTP status codes at
// the handler boundary.
var (
	// ErrConflict indicates a unique field (email) is already taken.
	ErrConflict = errors.New("email already registered")

	// ErrNotFound indicates the requested entity does not exist or does not
	// belong to the requesting user.
	ErrNotFound = errors.New("not found")

	// ErrInsufficientFunds indicates the capital balance cannot cover an
	// expense.
	ErrInsufficientFunds = errors.New("insufficient capital balance for this expense")

	// ErrInvalidToken indicates a verification/reset/profile OTP that matches
	// no user or has expired.
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrUnauthorized indicates a failed login. The specific sub-reason is
	// wrapped so it can be logged, but callers only see the same status.
	ErrUnauthorized = errors.New("authentication failed")
)
