package binpack

import (
	"errors"
	"fmt"
)

// Errors returned by pack, unpack and packsize.
var (
	// ErrDataTooShort is returned when unpack runs out of input bytes.
	ErrDataTooShort = errors.New("data string too short")

	// ErrIntegerOverflow is returned when a value does not fit the
	// directive's byte width.
	ErrIntegerOverflow = errors.New("integer overflow")

	// ErrNoIntegerRepresentation is returned when a number directive is
	// given a non-integral or non-finite value.
	ErrNoIntegerRepresentation = errors.New("number has no integer representation")

	// ErrVariableSize is returned by Packsize for formats containing a
	// variable-length directive.
	ErrVariableSize = errors.New("variable-size format in packsize")

	// ErrInitialPosition is returned when the unpack start position lies
	// outside the data string.
	ErrInitialPosition = errors.New("initial position out of string")
)

// FormatError describes a problem with the format string itself.
type FormatError struct {
	// Option is the offending directive character.
	Option byte
	// Message describes the problem.
	Message string
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	return fmt.Sprintf("format option '%c': %s", e.Option, e.Message)
}

// invalidOption reports an unrecognized directive.
func invalidOption(opt byte) error {
	return &FormatError{Option: opt, Message: "invalid format option"}
}

// unsupportedOption reports a directive that exists in the full Lua format
// language but cannot be represented in the script runtime's double-based
// numeric model.
func unsupportedOption(opt byte) error {
	switch opt {
	case '!', 'X':
		return &FormatError{Option: opt, Message: "alignment is not supported"}
	default:
		return &FormatError{Option: opt, Message: "no integer representation wider than 4 bytes"}
	}
}
