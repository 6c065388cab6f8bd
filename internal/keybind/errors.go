package keybind

import "errors"

// Errors returned by registry operations.
var (
	// ErrNotRegistered is returned when autosave, watch or reset is
	// requested for a keybind that was not created through the registry.
	// This is a programming error on the caller's side; it is never
	// retried and the Lua surface raises it as a fatal script error.
	ErrNotRegistered = errors.New("keybind was not created through this registry")

	// ErrDuplicateName is returned when a keybind name is already taken.
	ErrDuplicateName = errors.New("keybind name already registered")

	// ErrAlreadyNetworked is returned when a keybind is networked twice.
	ErrAlreadyNetworked = errors.New("keybind is already networked")

	// ErrNoTransport is returned when networking is requested without a
	// transport configured.
	ErrNoTransport = errors.New("no transport configured")

	// ErrNoStore is returned when autosave is requested without a
	// persistent store configured.
	ErrNoStore = errors.New("no persistent store configured")

	// ErrNoVanillaProvider is returned when watch is requested without a
	// vanilla binding provider configured.
	ErrNoVanillaProvider = errors.New("no vanilla binding provider configured")

	// ErrUnknownVanilla is returned when a vanilla binding id cannot be
	// resolved.
	ErrUnknownVanilla = errors.New("unknown vanilla binding")
)
