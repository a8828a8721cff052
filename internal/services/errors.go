package services

import "errors"

// Sentinel errors the handlers map onto HTTP status codes.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)
