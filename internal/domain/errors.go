package domain

import "errors"

// Domain errors represent error conditions in the posebridge domain.
// These errors are returned by the public API and can be checked with errors.Is.
var (
	// ErrAlreadyRunning is returned when Start() is called on a running instance.
	ErrAlreadyRunning = errors.New("posebridge: already running")

	// ErrNotRunning is returned when Stop() is called on a stopped instance.
	ErrNotRunning = errors.New("posebridge: not running")

	// ErrShutdownTimeout is returned when graceful shutdown times out.
	ErrShutdownTimeout = errors.New("posebridge: shutdown timeout")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("posebridge: invalid configuration")

	// ErrNoLocalAddress is returned when the outbound IPv4 address of this
	// host cannot be determined. Discovery cannot sweep without it.
	ErrNoLocalAddress = errors.New("posebridge: local address unavailable")

	// ErrInvalidAddress is returned for OSC addresses that are empty, do not
	// start with '/', or contain non-ASCII bytes.
	ErrInvalidAddress = errors.New("posebridge: invalid OSC address")
)
