package db

import "errors"

// Sentinel errors surfaced to the route layer, which maps them to HTTP
// statuses. Anything else coming out of the store is treated as a 500.
var (
	ErrNotFound            = errors.New("record not found")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrDuplicateEmail      = errors.New("email address already exists")
	ErrDuplicateExternalID = errors.New("motion picture already exists")
)
