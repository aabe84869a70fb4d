package domain

import "errors"

// Sentinel errors used across layers.
var (
	ErrNotFound       = errors.New("not found")
	ErrNotSupported   = errors.New("not supported on this platform")
	ErrAlreadyStarted = errors.New("recognition already started")
	ErrNotStarted     = errors.New("recognition not started")
)
