// Package common defines shared constants and sentinel errors used across
// the possync client layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Transport-level errors.
	ErrUnavailable = errors.New("server unavailable")

	// ErrAuthRequired means the session was invalidated after a 401 on a
	// protected endpoint; the caller should redirect to login instead of
	// retrying.
	ErrAuthRequired = errors.New("authentication required")

	// Store errors.
	ErrUnknownEntityType = errors.New("unknown entity type")
)
