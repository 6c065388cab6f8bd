// Package net carries ping broadcasts between the host instance and its
// viewers: a websocket hub on the host side, a client on the viewer side,
// and the wire codec for ping frames.
package net

import (
	"errors"
	"fmt"

	"github.com/figkit/figkit/internal/binpack"
)

// Wire limits.
const (
	// MaxPingName is the longest ping name the one-byte length prefix
	// can carry.
	MaxPingName = 255

	// MaxPingArgs caps the argument count per ping frame.
	MaxPingArgs = 255
)

// Argument type tags on the wire.
const (
	tagNil = iota
	tagNumber
	tagString
	tagTrue
	tagFalse
)

// Codec errors.
var (
	ErrNameTooLong     = errors.New("ping name too long")
	ErrTooManyArgs     = errors.New("too many ping arguments")
	ErrBadArgumentType = errors.New("unsupported ping argument type")
	ErrMalformedFrame  = errors.New("malformed ping frame")
)

// EncodePing packs a ping into its wire form: a length-prefixed name, an
// argument count, then one tagged value per argument. Supported argument
// types are nil, float64, string and bool.
func EncodePing(name string, args []any) ([]byte, error) {
	if len(name) > MaxPingName {
		return nil, fmt.Errorf("%w: %d bytes", ErrNameTooLong, len(name))
	}
	if len(args) > MaxPingArgs {
		return nil, fmt.Errorf("%w: %d", ErrTooManyArgs, len(args))
	}

	frame, err := binpack.Pack("<s1B", name, len(args))
	if err != nil {
		return nil, fmt.Errorf("encoding ping header: %w", err)
	}

	for i, arg := range args {
		var part string
		switch v := arg.(type) {
		case nil:
			part, err = binpack.Pack("<B", tagNil)
		case float64:
			part, err = binpack.Pack("<Bd", tagNumber, v)
		case int:
			part, err = binpack.Pack("<Bd", tagNumber, float64(v))
		case uint32:
			part, err = binpack.Pack("<Bd", tagNumber, float64(v))
		case string:
			part, err = binpack.Pack("<Bs4", tagString, v)
		case bool:
			tag := tagFalse
			if v {
				tag = tagTrue
			}
			part, err = binpack.Pack("<B", tag)
		default:
			return nil, fmt.Errorf("%w: argument %d is %T", ErrBadArgumentType, i+1, arg)
		}
		if err != nil {
			return nil, fmt.Errorf("encoding ping argument %d: %w", i+1, err)
		}
		frame += part
	}

	return []byte(frame), nil
}

// DecodePing unpacks a wire frame into the ping name and arguments.
func DecodePing(frame []byte) (string, []any, error) {
	data := string(frame)

	header, pos, err := binpack.UnpackFrom("<s1B", data, 1)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
	}
	name := header[0].(string)
	count := int(header[1].(float64))

	args := make([]any, 0, count)
	for i := 0; i < count; i++ {
		tagVals, next, err := binpack.UnpackFrom("<B", data, pos)
		if err != nil {
			return "", nil, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
		}
		pos = next

		switch int(tagVals[0].(float64)) {
		case tagNil:
			args = append(args, nil)
		case tagNumber:
			vals, next, err := binpack.UnpackFrom("<d", data, pos)
			if err != nil {
				return "", nil, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
			}
			pos = next
			args = append(args, vals[0].(float64))
		case tagString:
			vals, next, err := binpack.UnpackFrom("<s4", data, pos)
			if err != nil {
				return "", nil, fmt.Errorf("%w: %v", ErrMalformedFrame, err)
			}
			pos = next
			args = append(args, vals[0].(string))
		case tagTrue:
			args = append(args, true)
		case tagFalse:
			args = append(args, false)
		default:
			return "", nil, fmt.Errorf("%w: unknown tag", ErrMalformedFrame)
		}
	}

	if pos != len(data)+1 {
		return "", nil, fmt.Errorf("%w: trailing bytes", ErrMalformedFrame)
	}

	return name, args, nil
}
