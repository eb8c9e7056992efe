// Package common defines shared constants and sentinel errors used across
// the accounts service layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors. ErrorInternal marks persistence failures that are
	// reported to callers as a generic server fault.
	ErrorInternal = errors.New("internal error")

	// Input and conflict errors.
	ErrValidation        = errors.New("validation failed")
	ErrDuplicateEmail    = errors.New("user with this email already exists")
	ErrImageAlreadyBound = errors.New("image already exists for this user")

	// Upload rejections.
	ErrUnsupportedMediaType = errors.New("invalid file format, only JPEG, PNG, and GIF are allowed")
	ErrPayloadTooLarge      = errors.New("file too large")

	// Credential errors.
	ErrCorruptCredential = errors.New("stored password hash is malformed")

	// ErrCleanupFailed is logged, never returned to HTTP callers.
	ErrCleanupFailed = errors.New("cleanup failed")
)
