package keybind

import "strings"

// Key identifies a physical key by its vanilla binding name, e.g.
// "key.keyboard.w" or "key.mouse.left". The zero value means unbound.
type Key string

// KeyNone is the unbound key.
const KeyNone Key = "key.keyboard.unknown"

// Keyboard keys.
const (
	KeyA Key = "key.keyboard.a"
	KeyB Key = "key.keyboard.b"
	KeyC Key = "key.keyboard.c"
	KeyD Key = "key.keyboard.d"
	KeyE Key = "key.keyboard.e"
	KeyF Key = "key.keyboard.f"
	KeyG Key = "key.keyboard.g"
	KeyH Key = "key.keyboard.h"
	KeyI Key = "key.keyboard.i"
	KeyJ Key = "key.keyboard.j"
	KeyK Key = "key.keyboard.k"
	KeyL Key = "key.keyboard.l"
	KeyM Key = "key.keyboard.m"
	KeyN Key = "key.keyboard.n"
	KeyO Key = "key.keyboard.o"
	KeyP Key = "key.keyboard.p"
	KeyQ Key = "key.keyboard.q"
	KeyR Key = "key.keyboard.r"
	KeyS Key = "key.keyboard.s"
	KeyT Key = "key.keyboard.t"
	KeyU Key = "key.keyboard.u"
	KeyV Key = "key.keyboard.v"
	KeyW Key = "key.keyboard.w"
	KeyX Key = "key.keyboard.x"
	KeyY Key = "key.keyboard.y"
	KeyZ Key = "key.keyboard.z"

	Key0 Key = "key.keyboard.0"
	Key1 Key = "key.keyboard.1"
	Key2 Key = "key.keyboard.2"
	Key3 Key = "key.keyboard.3"
	Key4 Key = "key.keyboard.4"
	Key5 Key = "key.keyboard.5"
	Key6 Key = "key.keyboard.6"
	Key7 Key = "key.keyboard.7"
	Key8 Key = "key.keyboard.8"
	Key9 Key = "key.keyboard.9"

	KeySpace     Key = "key.keyboard.space"
	KeyEnter     Key = "key.keyboard.enter"
	KeyEscape    Key = "key.keyboard.escape"
	KeyTab       Key = "key.keyboard.tab"
	KeyBackspace Key = "key.keyboard.backspace"
	KeyDelete    Key = "key.keyboard.delete"
	KeyInsert    Key = "key.keyboard.insert"
	KeyHome      Key = "key.keyboard.home"
	KeyEnd       Key = "key.keyboard.end"
	KeyPageUp    Key = "key.keyboard.page.up"
	KeyPageDown  Key = "key.keyboard.page.down"

	KeyUp    Key = "key.keyboard.up"
	KeyDown  Key = "key.keyboard.down"
	KeyLeft  Key = "key.keyboard.left"
	KeyRight Key = "key.keyboard.right"

	KeyLeftShift    Key = "key.keyboard.left.shift"
	KeyRightShift   Key = "key.keyboard.right.shift"
	KeyLeftControl  Key = "key.keyboard.left.control"
	KeyRightControl Key = "key.keyboard.right.control"
	KeyLeftAlt      Key = "key.keyboard.left.alt"
	KeyRightAlt     Key = "key.keyboard.right.alt"

	KeyF1  Key = "key.keyboard.f1"
	KeyF2  Key = "key.keyboard.f2"
	KeyF3  Key = "key.keyboard.f3"
	KeyF4  Key = "key.keyboard.f4"
	KeyF5  Key = "key.keyboard.f5"
	KeyF6  Key = "key.keyboard.f6"
	KeyF7  Key = "key.keyboard.f7"
	KeyF8  Key = "key.keyboard.f8"
	KeyF9  Key = "key.keyboard.f9"
	KeyF10 Key = "key.keyboard.f10"
	KeyF11 Key = "key.keyboard.f11"
	KeyF12 Key = "key.keyboard.f12"
)

// Mouse buttons.
const (
	KeyMouseLeft   Key = "key.mouse.left"
	KeyMouseRight  Key = "key.mouse.right"
	KeyMouseMiddle Key = "key.mouse.middle"
	KeyMouse4      Key = "key.mouse.4"
	KeyMouse5      Key = "key.mouse.5"
)

// allKeys lists every known key in declaration order. The host's KEY enum
// iterates in this order.
var allKeys = []Key{
	KeyNone,
	KeyA, KeyB, KeyC, KeyD, KeyE, KeyF, KeyG, KeyH, KeyI, KeyJ, KeyK,
	KeyL, KeyM, KeyN, KeyO, KeyP, KeyQ, KeyR, KeyS, KeyT, KeyU, KeyV,
	KeyW, KeyX, KeyY, KeyZ,
	Key0, Key1, Key2, Key3, Key4, Key5, Key6, Key7, Key8, Key9,
	KeySpace, KeyEnter, KeyEscape, KeyTab, KeyBackspace, KeyDelete,
	KeyInsert, KeyHome, KeyEnd, KeyPageUp, KeyPageDown,
	KeyUp, KeyDown, KeyLeft, KeyRight,
	KeyLeftShift, KeyRightShift, KeyLeftControl, KeyRightControl,
	KeyLeftAlt, KeyRightAlt,
	KeyF1, KeyF2, KeyF3, KeyF4, KeyF5, KeyF6, KeyF7, KeyF8, KeyF9,
	KeyF10, KeyF11, KeyF12,
	KeyMouseLeft, KeyMouseRight, KeyMouseMiddle, KeyMouse4, KeyMouse5,
}

// AllKeys returns every known key in a stable order.
func AllKeys() []Key {
	keys := make([]Key, len(allKeys))
	copy(keys, allKeys)
	return keys
}

// IsKeyboard reports whether k names a keyboard key.
func (k Key) IsKeyboard() bool {
	return strings.HasPrefix(string(k), "key.keyboard.")
}

// IsMouse reports whether k names a mouse button.
func (k Key) IsMouse() bool {
	return strings.HasPrefix(string(k), "key.mouse.")
}

// IsUnbound reports whether k is the unbound sentinel or empty.
func (k Key) IsUnbound() bool {
	return k == "" || k == KeyNone
}

// ShortName returns the key name without its category prefix, e.g. "w"
// for "key.keyboard.w".
func (k Key) ShortName() string {
	s := string(k)
	if i := strings.LastIndex(s, "."); i >= 0 {
		return s[i+1:]
	}
	return s
}

// String returns the full vanilla binding name.
func (k Key) String() string {
	return string(k)
}
