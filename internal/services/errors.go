package services

import "errors"

// Sentinel errors returned by the services. Handlers map them to HTTP status
// codes with errors.Is; anything else is a storage failure.
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrInvalidCredential = errors.New("invalid credential")
)
