package shared

import "errors"

var (
	// ErrInvalidArgument indicates a missing or malformed required input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrPermissionDenied indicates the caller failed an authorization check.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrPersistence indicates the underlying store rejected a write or read.
	ErrPersistence = errors.New("persistence failure")
)
