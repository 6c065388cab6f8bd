package binpack

import (
	"bytes"
	"fmt"
	"math"
	"strings"
)

// Pack encodes values according to format and returns the packed bytes.
// Numeric values may be given as float64, int, int64 or uint; everything a
// number directive consumes must be integral and in range for its width.
func Pack(format string, values ...any) (string, error) {
	s := newScanner(format)
	var buf bytes.Buffer
	arg := 0

	nextValue := func(opt byte) (any, error) {
		if arg >= len(values) {
			return nil, fmt.Errorf("bad argument #%d to pack ('%c'): value expected", arg+1, opt)
		}
		v := values[arg]
		arg++
		return v, nil
	}

	for !s.eof() {
		opt := s.next()
		done, err := s.handleControl(opt)
		if err != nil {
			return "", err
		}
		if done {
			continue
		}

		switch opt {
		case 'b', 'B', 'h', 'H', 'i', 'I':
			width, signed, err := intDirective(s, opt)
			if err != nil {
				return "", err
			}
			v, err := nextValue(opt)
			if err != nil {
				return "", err
			}
			n, err := checkInteger(v)
			if err != nil {
				return "", fmt.Errorf("bad argument #%d to pack ('%c'): %w", arg, opt, err)
			}
			if err := checkRange(n, width, signed); err != nil {
				return "", fmt.Errorf("bad argument #%d to pack ('%c'): %w", arg, opt, err)
			}
			putUint(&buf, uint64(n), width, s.little)

		case 'f':
			v, err := nextValue(opt)
			if err != nil {
				return "", err
			}
			n, err := checkNumber(v)
			if err != nil {
				return "", fmt.Errorf("bad argument #%d to pack ('f'): %w", arg, err)
			}
			putUint(&buf, uint64(math.Float32bits(float32(n))), 4, s.little)

		case 'd', 'n':
			v, err := nextValue(opt)
			if err != nil {
				return "", err
			}
			n, err := checkNumber(v)
			if err != nil {
				return "", fmt.Errorf("bad argument #%d to pack ('%c'): %w", arg, opt, err)
			}
			putUint(&buf, math.Float64bits(n), 8, s.little)

		case 'c':
			size := s.num(-1)
			if size < 0 {
				return "", &FormatError{Option: 'c', Message: "missing size"}
			}
			v, err := nextValue(opt)
			if err != nil {
				return "", err
			}
			str, err := checkString(v)
			if err != nil {
				return "", fmt.Errorf("bad argument #%d to pack ('c'): %w", arg, err)
			}
			if len(str) > size {
				return "", fmt.Errorf("bad argument #%d to pack ('c'): string longer than given size", arg)
			}
			buf.WriteString(str)
			for i := len(str); i < size; i++ {
				buf.WriteByte(0)
			}

		case 'z':
			v, err := nextValue(opt)
			if err != nil {
				return "", err
			}
			str, err := checkString(v)
			if err != nil {
				return "", fmt.Errorf("bad argument #%d to pack ('z'): %w", arg, err)
			}
			if strings.ContainsRune(str, 0) {
				return "", fmt.Errorf("bad argument #%d to pack ('z'): string contains zeros", arg)
			}
			buf.WriteString(str)
			buf.WriteByte(0)

		case 's':
			width, err := s.intWidth('s')
			if err != nil {
				return "", err
			}
			v, err := nextValue(opt)
			if err != nil {
				return "", err
			}
			str, err := checkString(v)
			if err != nil {
				return "", fmt.Errorf("bad argument #%d to pack ('s'): %w", arg, err)
			}
			if width < 8 {
				maxLen := uint64(1) << uint(width*8)
				if uint64(len(str)) >= maxLen {
					return "", fmt.Errorf("bad argument #%d to pack ('s'): string length does not fit in given size", arg)
				}
			}
			putUint(&buf, uint64(len(str)), width, s.little)
			buf.WriteString(str)

		case 'x':
			buf.WriteByte(0)

		default:
			return "", invalidOption(opt)
		}
	}

	return buf.String(), nil
}

// intDirective resolves an integer directive to its byte width and
// signedness, consuming the width suffix for i/I.
func intDirective(s *scanner, opt byte) (width int, signed bool, err error) {
	switch opt {
	case 'b':
		return 1, true, nil
	case 'B':
		return 1, false, nil
	case 'h':
		return 2, true, nil
	case 'H':
		return 2, false, nil
	case 'i':
		w, err := s.intWidth('i')
		return w, true, err
	case 'I':
		w, err := s.intWidth('I')
		return w, false, err
	}
	return 0, false, invalidOption(opt)
}

// checkInteger coerces a value to an integral int64.
func checkInteger(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case uint32:
		return int64(n), nil
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) || math.Trunc(n) != n {
			return 0, ErrNoIntegerRepresentation
		}
		return int64(n), nil
	case float32:
		return checkInteger(float64(n))
	default:
		return 0, fmt.Errorf("number expected, got %T", v)
	}
}

// checkNumber coerces a value to float64.
func checkNumber(v any) (float64, error) {
	switch n := v.(type) {
	case int:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint32:
		return float64(n), nil
	case float32:
		return float64(n), nil
	case float64:
		return n, nil
	default:
		return 0, fmt.Errorf("number expected, got %T", v)
	}
}

// checkString coerces a value to a byte string.
func checkString(v any) (string, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case []byte:
		return string(s), nil
	default:
		return "", fmt.Errorf("string expected, got %T", v)
	}
}

// checkRange validates that n fits in width bytes.
func checkRange(n int64, width int, signed bool) error {
	bits := uint(width * 8)
	if signed {
		lim := int64(1) << (bits - 1)
		if n < -lim || n >= lim {
			return ErrIntegerOverflow
		}
		return nil
	}
	if n < 0 || (width < 8 && uint64(n) >= uint64(1)<<bits) {
		return ErrIntegerOverflow
	}
	return nil
}

// putUint writes the low width bytes of u in the requested byte order.
// Negative signed values arrive already two's-complement encoded in u.
func putUint(buf *bytes.Buffer, u uint64, width int, little bool) {
	b := make([]byte, width)
	for i := 0; i < width; i++ {
		if little {
			b[i] = byte(u >> (8 * i))
		} else {
			b[width-1-i] = byte(u >> (8 * i))
		}
	}
	buf.Write(b)
}
