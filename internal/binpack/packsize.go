package binpack

// Packsize computes the total byte length format would produce. Formats
// containing a variable-length directive (z, s) have no fixed size and
// fail with ErrVariableSize.
func Packsize(format string) (int, error) {
	s := newScanner(format)
	total := 0

	for !s.eof() {
		opt := s.next()
		done, err := s.handleControl(opt)
		if err != nil {
			return 0, err
		}
		if done {
			continue
		}

		switch opt {
		case 'b', 'B', 'x':
			total++
		case 'h', 'H':
			total += 2
		case 'i', 'I':
			w, err := s.intWidth(opt)
			if err != nil {
				return 0, err
			}
			total += w
		case 'f':
			total += 4
		case 'd', 'n':
			total += 8
		case 'c':
			size := s.num(-1)
			if size < 0 {
				return 0, &FormatError{Option: 'c', Message: "missing size"}
			}
			total += size
		case 'z', 's':
			return 0, ErrVariableSize
		default:
			return 0, invalidOption(opt)
		}
	}

	return total, nil
}
