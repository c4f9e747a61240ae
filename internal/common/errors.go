// Package common defines shared constants and sentinel errors used across
// the persistence layer. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors. ErrNotFound is a valid outcome for lookups
	// (first-time file, no saved data), not a fault.
	ErrNotFound = errors.New("not found")

	// Backend lifecycle errors. ErrUnavailable means the remote store was
	// never configured or could not be bootstrapped; callers degrade to the
	// ephemeral path instead of failing.
	ErrUnavailable = errors.New("backend unavailable")

	// ErrRemoteFault covers per-operation remote failures (network,
	// permission) that are caught at the gateway boundary.
	ErrRemoteFault = errors.New("remote fault")

	// Service-level errors.
	ErrInternal     = errors.New("internal error")
	ErrUnauthorized = errors.New("unauthorized")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")
)
