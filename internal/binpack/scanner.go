package binpack

// maxIntWidth is the widest integer directive the runtime's doubles can
// represent without loss.
const maxIntWidth = 4

// defaultIntWidth is the width used by i/I and the s prefix when no
// explicit size is given.
const defaultIntWidth = 4

// scanner walks a format string directive by directive, tracking the
// active endianness.
type scanner struct {
	fmt    string
	pos    int
	little bool
}

func newScanner(format string) *scanner {
	// Little-endian is the wire default; the runtime never exposes a
	// "native" order.
	return &scanner{fmt: format, little: true}
}

func (s *scanner) eof() bool {
	return s.pos >= len(s.fmt)
}

func (s *scanner) peek() byte {
	if s.eof() {
		return 0
	}
	return s.fmt[s.pos]
}

func (s *scanner) next() byte {
	if s.eof() {
		return 0
	}
	c := s.fmt[s.pos]
	s.pos++
	return c
}

// num consumes a decimal size suffix, returning def when none is present.
// Digit runs are capped so a pathological format cannot overflow int.
func (s *scanner) num(def int) int {
	if s.eof() || !isDigit(s.peek()) {
		return def
	}
	const limit = (1<<31 - 1 - 9) / 10
	n := 0
	for !s.eof() && isDigit(s.peek()) && n <= limit {
		n = n*10 + int(s.next()-'0')
	}
	return n
}

// intWidth consumes an optional width suffix for i/I/s and validates it.
func (s *scanner) intWidth(opt byte) (int, error) {
	w := s.num(defaultIntWidth)
	if w < 1 || w > maxIntWidth {
		return 0, &FormatError{Option: opt, Message: "integral size out of limits [1,4]"}
	}
	return w, nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// handleControl processes directives that carry no data. It returns true
// when opt was consumed as a control directive.
func (s *scanner) handleControl(opt byte) (bool, error) {
	switch opt {
	case ' ':
		return true, nil
	case '<', '=':
		s.little = true
		return true, nil
	case '>':
		s.little = false
		return true, nil
	case '!', 'X', 'l', 'L', 'j', 'J', 'T':
		return false, unsupportedOption(opt)
	}
	return false, nil
}
