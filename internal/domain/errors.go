package domain

import "errors"

// Sentinel errors for domain-level error handling.
// The handler layer maps these to HTTP status codes; the engine treats
// unknown routing targets as logged, ignored cases.
var (
	ErrInstrumentNotFound = errors.New("instrument_not_found")
	ErrActorNotFound      = errors.New("actor_not_found")
)
