package host

import (
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/figkit/figkit/internal/enum"
	"github.com/figkit/figkit/internal/keybind"
)

// installEnums publishes the KEY, KEYMOD and KEYSTATE globals as read-only
// proxies. Writes raise, lookups of unknown names return nil, and calling
// the proxy yields an iterator in declaration order.
func (s *State) installEnums() {
	s.installEnum("KEY", keyEnum())
	s.installEnum("KEYMOD", enum.New(
		enum.Pair[lua.LValue]{Name: "NONE", Value: lua.LNumber(keybind.ModNone)},
		enum.Pair[lua.LValue]{Name: "SHIFT", Value: lua.LNumber(keybind.ModShift)},
		enum.Pair[lua.LValue]{Name: "CTRL", Value: lua.LNumber(keybind.ModCtrl)},
		enum.Pair[lua.LValue]{Name: "ALT", Value: lua.LNumber(keybind.ModAlt)},
	))
	s.installEnum("KEYSTATE", enum.New(
		enum.Pair[lua.LValue]{Name: "RELEASE", Value: lua.LNumber(keybind.StateRelease)},
		enum.Pair[lua.LValue]{Name: "PRESS", Value: lua.LNumber(keybind.StatePress)},
		enum.Pair[lua.LValue]{Name: "REPEAT", Value: lua.LNumber(keybind.StateRepeat)},
	))
}

// installEnum wires one enum behind an empty proxy table. gopher-lua
// implements Lua 5.1, which has no __pairs, so iteration goes through
// __call instead: `for name, value in KEY() do ... end`.
func (s *State) installEnum(name string, e *enum.Enum[lua.LValue]) {
	L := s.L
	proxy := L.NewTable()
	mt := L.NewTable()

	L.SetField(mt, "__index", L.NewFunction(func(L *lua.LState) int {
		key := L.CheckString(2)
		v, err := e.Get(key)
		if err != nil {
			L.Push(lua.LNil)
			return 1
		}
		L.Push(deepCopyLValue(L, v))
		return 1
	}))

	L.SetField(mt, "__newindex", L.NewFunction(func(L *lua.LState) int {
		L.RaiseError("cannot modify read-only enum %s", name)
		return 0
	}))

	L.SetField(mt, "__call", L.NewFunction(func(L *lua.LState) int {
		names := e.Names()
		i := 0
		L.Push(L.NewFunction(func(L *lua.LState) int {
			if i >= len(names) {
				return 0
			}
			v, _ := e.Get(names[i])
			L.Push(lua.LString(names[i]))
			L.Push(deepCopyLValue(L, v))
			i++
			return 2
		}))
		return 1
	}))

	L.SetField(mt, "__metatable", lua.LString("read-only"))
	L.SetMetatable(proxy, mt)
	L.SetGlobal(name, proxy)
}

// keyEnum builds the KEY enum from the known keys, in their stable order.
// Values are the full vanilla binding names.
func keyEnum() *enum.Enum[lua.LValue] {
	keys := keybind.AllKeys()
	pairs := make([]enum.Pair[lua.LValue], len(keys))
	for i, k := range keys {
		pairs[i] = enum.Pair[lua.LValue]{
			Name:  keyEnumName(k),
			Value: lua.LString(k),
		}
	}
	return enum.New(pairs...)
}

// keyEnumName maps "key.keyboard.page.up" to "PAGE_UP" and
// "key.mouse.left" to "MOUSE_LEFT". Mouse buttons keep their prefix so
// they never collide with the arrow keys.
func keyEnumName(k keybind.Key) string {
	s := string(k)
	switch {
	case strings.HasPrefix(s, "key.keyboard."):
		s = strings.TrimPrefix(s, "key.keyboard.")
	case strings.HasPrefix(s, "key.mouse."):
		s = "mouse." + strings.TrimPrefix(s, "key.mouse.")
	}
	return strings.ToUpper(strings.ReplaceAll(s, ".", "_"))
}
