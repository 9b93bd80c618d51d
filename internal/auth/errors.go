package auth

import "errors"

var (
	// ErrAuthFailed is returned for every failed login, regardless of cause.
	ErrAuthFailed = errors.New("invalid username or password")

	// ErrPermissionDenied is returned when the actor's role does not allow
	// the requested operation.
	ErrPermissionDenied = errors.New("permission denied")
)
