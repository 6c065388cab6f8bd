package host

import "errors"

// Errors for host engine operations.
var (
	// ErrClosed is returned when operating on a closed engine.
	ErrClosed = errors.New("host engine is closed")

	// ErrNotHost is returned when a host-only operation runs on a viewer
	// instance.
	ErrNotHost = errors.New("operation requires the host instance")

	// ErrNoHandler is returned when a ping arrives for a name no script
	// registered.
	ErrNoHandler = errors.New("no ping handler registered")
)
