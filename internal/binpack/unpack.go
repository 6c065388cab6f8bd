package binpack

import "math"

// Unpack decodes data according to format, starting at the first byte.
// It returns the decoded values and the 1-based index of the first unread
// byte. All numeric results are float64, matching the script runtime's
// double-based numeric model.
func Unpack(format, data string) ([]any, int, error) {
	return UnpackFrom(format, data, 1)
}

// UnpackFrom is Unpack with an explicit 1-based start position. Negative
// positions count from the end of data.
func UnpackFrom(format, data string, pos int) ([]any, int, error) {
	if pos < 0 {
		pos = len(data) + pos + 1
	}
	if pos < 1 || pos > len(data)+1 {
		return nil, 0, ErrInitialPosition
	}
	cur := pos - 1 // 0-based cursor

	s := newScanner(format)
	var out []any

	need := func(n int) error {
		if cur+n > len(data) {
			return ErrDataTooShort
		}
		return nil
	}

	for !s.eof() {
		opt := s.next()
		done, err := s.handleControl(opt)
		if err != nil {
			return nil, 0, err
		}
		if done {
			continue
		}

		switch opt {
		case 'b', 'B', 'h', 'H', 'i', 'I':
			width, signed, err := intDirective(s, opt)
			if err != nil {
				return nil, 0, err
			}
			if err := need(width); err != nil {
				return nil, 0, err
			}
			u := getUint(data[cur:cur+width], s.little)
			cur += width
			if signed {
				out = append(out, float64(wrapSigned(u, width)))
			} else {
				out = append(out, float64(u))
			}

		case 'f':
			if err := need(4); err != nil {
				return nil, 0, err
			}
			u := getUint(data[cur:cur+4], s.little)
			cur += 4
			out = append(out, float64(math.Float32frombits(uint32(u))))

		case 'd', 'n':
			if err := need(8); err != nil {
				return nil, 0, err
			}
			u := getUint(data[cur:cur+8], s.little)
			cur += 8
			out = append(out, math.Float64frombits(u))

		case 'c':
			size := s.num(-1)
			if size < 0 {
				return nil, 0, &FormatError{Option: 'c', Message: "missing size"}
			}
			if err := need(size); err != nil {
				return nil, 0, err
			}
			out = append(out, data[cur:cur+size])
			cur += size

		case 'z':
			end := cur
			for end < len(data) && data[end] != 0 {
				end++
			}
			if end >= len(data) {
				return nil, 0, ErrDataTooShort
			}
			out = append(out, data[cur:end])
			cur = end + 1

		case 's':
			width, err := s.intWidth('s')
			if err != nil {
				return nil, 0, err
			}
			if err := need(width); err != nil {
				return nil, 0, err
			}
			length := int(getUint(data[cur:cur+width], s.little))
			cur += width
			if err := need(length); err != nil {
				return nil, 0, err
			}
			out = append(out, data[cur:cur+length])
			cur += length

		case 'x':
			if err := need(1); err != nil {
				return nil, 0, err
			}
			cur++

		default:
			return nil, 0, invalidOption(opt)
		}
	}

	return out, cur + 1, nil
}

// getUint reads len(b) bytes in the requested byte order.
func getUint(b string, little bool) uint64 {
	var u uint64
	for i := 0; i < len(b); i++ {
		if little {
			u |= uint64(b[i]) << (8 * i)
		} else {
			u |= uint64(b[len(b)-1-i]) << (8 * i)
		}
	}
	return u
}

// wrapSigned reconstructs a signed value from its width-byte unsigned
// representation using bias-and-wrap: (u + 2^(bits-1)) mod 2^bits −
// 2^(bits-1).
func wrapSigned(u uint64, width int) int64 {
	bits := uint(width * 8)
	half := uint64(1) << (bits - 1)
	mask := uint64(1)<<bits - 1
	return int64((u+half)&mask) - int64(half)
}
