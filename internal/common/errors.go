// Package common defines shared constants and sentinel errors used across
// client and server layers of tripshare. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal  = errors.New("internal error")
	ErrorForbidden = errors.New("forbidden")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Error taxonomy shared by the client workspace and the API client.

	// ErrConnectivity means the backend could not be reached at all.
	ErrConnectivity = errors.New("backend unreachable")
	// ErrAuthentication means the identifier/PIN pair was rejected.
	ErrAuthentication = errors.New("invalid credentials")
	// ErrValidation means the input was rejected before any call was issued.
	ErrValidation = errors.New("validation error")
	// ErrConflict means the server rejected a mutation.
	ErrConflict = errors.New("rejected by server")

	// Domain guards.
	ErrSelfDemotion = errors.New("cannot remove own system admin role")
	ErrSelfDelete   = errors.New("cannot delete own account")
)
