package keybind

import "strings"

// Modifier is a bitmask of modifier keys held during a key event.
type Modifier uint8

// ModNone means no modifiers held.
const ModNone Modifier = 0

// Modifier bits.
const (
	ModShift Modifier = 1 << iota
	ModCtrl
	ModAlt
)

// Has reports whether all bits of m2 are set in m.
func (m Modifier) Has(m2 Modifier) bool {
	return m&m2 == m2
}

// String returns a "+"-joined list of modifier names, or "none".
func (m Modifier) String() string {
	if m == ModNone {
		return "none"
	}
	var parts []string
	if m.Has(ModShift) {
		parts = append(parts, "shift")
	}
	if m.Has(ModCtrl) {
		parts = append(parts, "ctrl")
	}
	if m.Has(ModAlt) {
		parts = append(parts, "alt")
	}
	return strings.Join(parts, "+")
}

// State describes a key transition.
type State uint8

// Key transition states.
const (
	StateRelease State = iota
	StatePress
	StateRepeat
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateRelease:
		return "release"
	case StatePress:
		return "press"
	case StateRepeat:
		return "repeat"
	default:
		return "unknown"
	}
}
