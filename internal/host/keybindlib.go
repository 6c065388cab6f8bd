package host

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/figkit/figkit/internal/keybind"
)

const keybindTypeName = "keybind"

// installKeybinds publishes the keybinds global and the keybind userdata
// type. Registry errors are programming errors on the script side and
// raise instead of returning.
func (e *Engine) installKeybinds() {
	L := e.st.L

	mt := L.NewTypeMetatable(keybindTypeName)
	L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"getName":      e.kbGetName,
		"getKey":       e.kbGetKey,
		"setKey":       e.kbSetKey,
		"isPressed":    e.kbIsPressed,
		"setOnPress":   e.kbSetOnPress,
		"setOnRelease": e.kbSetOnRelease,
		"setNetworked": e.kbSetNetworked,
		"setAutoSave":  e.kbSetAutoSave,
		"watch":        e.kbWatch,
		"reset":        e.kbReset,
	}))
	L.SetField(mt, "__tostring", L.NewFunction(func(L *lua.LState) int {
		kb := e.checkKeybind(L)
		L.Push(lua.LString("keybind(" + kb.Name() + ")"))
		return 1
	}))

	tbl := L.NewTable()
	L.SetFuncs(tbl, map[string]lua.LGFunction{
		"newKeybind":  e.kbNew,
		"fromVanilla": e.kbFromVanilla,
	})
	L.SetGlobal("keybinds", tbl)
}

// pushKeybind wraps a registry keybind as userdata.
func (e *Engine) pushKeybind(L *lua.LState, kb *keybind.Keybind) int {
	ud := L.NewUserData()
	ud.Value = kb
	L.SetMetatable(ud, L.GetTypeMetatable(keybindTypeName))
	L.Push(ud)
	return 1
}

// checkKeybind unwraps the userdata receiver of a method call.
func (e *Engine) checkKeybind(L *lua.LState) *keybind.Keybind {
	ud := L.CheckUserData(1)
	kb, ok := ud.Value.(*keybind.Keybind)
	if !ok {
		L.ArgError(1, "keybind expected")
		return nil
	}
	return kb
}

func (e *Engine) kbNew(L *lua.LState) int {
	name := L.CheckString(2)
	key := keybind.Key(L.OptString(3, string(keybind.KeyNone)))
	kb, err := e.keybinds.NewKeybind(name, key)
	if err != nil {
		L.RaiseError("%s", err.Error())
		return 0
	}
	return e.pushKeybind(L, kb)
}

func (e *Engine) kbFromVanilla(L *lua.LState) int {
	name := L.CheckString(2)
	vanillaID := L.CheckString(3)
	kb, err := e.keybinds.FromVanilla(name, vanillaID)
	if err != nil {
		L.RaiseError("%s", err.Error())
		return 0
	}
	return e.pushKeybind(L, kb)
}

func (e *Engine) kbGetName(L *lua.LState) int {
	L.Push(lua.LString(e.checkKeybind(L).Name()))
	return 1
}

func (e *Engine) kbGetKey(L *lua.LState) int {
	L.Push(lua.LString(e.checkKeybind(L).Key()))
	return 1
}

func (e *Engine) kbSetKey(L *lua.LState) int {
	kb := e.checkKeybind(L)
	kb.SetKey(keybind.Key(L.CheckString(2)))
	L.Push(L.Get(1))
	return 1
}

func (e *Engine) kbIsPressed(L *lua.LState) int {
	L.Push(lua.LBool(e.checkKeybind(L).IsPressed()))
	return 1
}

func (e *Engine) kbSetOnPress(L *lua.LState) int {
	kb := e.checkKeybind(L)
	fn := L.CheckFunction(2)
	kb.SetOnPress(func() {
		if err := e.st.CallFunction(fn); err != nil {
			e.log.Error().Err(err).Str("keybind", kb.Name()).Msg("press callback failed")
		}
	})
	L.Push(L.Get(1))
	return 1
}

func (e *Engine) kbSetOnRelease(L *lua.LState) int {
	kb := e.checkKeybind(L)
	fn := L.CheckFunction(2)
	kb.SetOnRelease(func() {
		if err := e.st.CallFunction(fn); err != nil {
			e.log.Error().Err(err).Str("keybind", kb.Name()).Msg("release callback failed")
		}
	})
	L.Push(L.Get(1))
	return 1
}

func (e *Engine) kbSetNetworked(L *lua.LState) int {
	kb := e.checkKeybind(L)
	if err := e.keybinds.SetNetworked(kb); err != nil {
		L.RaiseError("%s", err.Error())
		return 0
	}
	L.Push(L.Get(1))
	return 1
}

func (e *Engine) kbSetAutoSave(L *lua.LState) int {
	kb := e.checkKeybind(L)
	entry := L.CheckString(2)
	if err := e.keybinds.SetAutoSave(kb, entry); err != nil {
		L.RaiseError("%s", err.Error())
		return 0
	}
	L.Push(L.Get(1))
	return 1
}

func (e *Engine) kbWatch(L *lua.LState) int {
	kb := e.checkKeybind(L)
	if err := e.keybinds.Watch(kb); err != nil {
		L.RaiseError("%s", err.Error())
		return 0
	}
	L.Push(L.Get(1))
	return 1
}

func (e *Engine) kbReset(L *lua.LState) int {
	kb := e.checkKeybind(L)
	if err := e.keybinds.Reset(kb); err != nil {
		L.RaiseError("%s", err.Error())
		return 0
	}
	L.Push(L.Get(1))
	return 1
}
