package host

import (
	"encoding/binary"

	"github.com/google/uuid"
	lua "github.com/yuin/gopher-lua"
)

// installClient publishes the client, host and config globals.
func (e *Engine) installClient() {
	L := e.st.L

	client := L.NewTable()
	L.SetFuncs(client, map[string]lua.LGFunction{
		"uuidToIntArray": clientUUIDToIntArray,
		"intArrayToUUID": clientIntArrayToUUID,
	})
	L.SetGlobal("client", client)

	host := L.NewTable()
	L.SetFuncs(host, map[string]lua.LGFunction{
		"isHost": e.hostIsHost,
	})
	L.SetGlobal("host", host)

	config := L.NewTable()
	L.SetFuncs(config, map[string]lua.LGFunction{
		"setName": e.configSetName,
		"save":    e.configSave,
		"load":    e.configLoad,
	})
	L.SetGlobal("config", config)
}

// clientUUIDToIntArray splits a canonical UUID into four signed 32-bit
// integers, most significant first. Malformed UUIDs raise.
func clientUUIDToIntArray(L *lua.LState) int {
	id, err := uuid.Parse(L.CheckString(1))
	if err != nil {
		L.RaiseError("invalid uuid: %s", err.Error())
		return 0
	}
	for i := 0; i < 4; i++ {
		word := binary.BigEndian.Uint32(id[i*4 : i*4+4])
		L.Push(lua.LNumber(int32(word)))
	}
	return 4
}

// clientIntArrayToUUID rebuilds the canonical UUID string from four signed
// 32-bit integers, given either as four arguments or one sequence table.
func clientIntArrayToUUID(L *lua.LState) int {
	var words [4]int32
	if tbl, ok := L.Get(1).(*lua.LTable); ok {
		if tbl.Len() != 4 {
			L.ArgError(1, "uuid int array must hold exactly 4 integers")
			return 0
		}
		for i := 0; i < 4; i++ {
			n, ok := tbl.RawGetInt(i + 1).(lua.LNumber)
			if !ok {
				L.ArgError(1, "uuid int array must hold exactly 4 integers")
				return 0
			}
			words[i] = int32(n)
		}
	} else {
		for i := 0; i < 4; i++ {
			words[i] = int32(L.CheckNumber(i + 1))
		}
	}

	var id uuid.UUID
	for i, w := range words {
		binary.BigEndian.PutUint32(id[i*4:i*4+4], uint32(w))
	}
	L.Push(lua.LString(id.String()))
	return 1
}

func (e *Engine) hostIsHost(L *lua.LState) int {
	L.Push(lua.LBool(e.hostMode))
	return 1
}

// configSetName switches the namespace script data is stored under.
func (e *Engine) configSetName(L *lua.LState) int {
	e.store.SetNamespace(L.CheckString(2))
	return 0
}

// configSave persists a value under key; a nil value deletes the entry.
func (e *Engine) configSave(L *lua.LState) int {
	key := L.CheckString(2)
	if L.Get(3) == lua.LNil {
		if err := e.store.Delete(key); err != nil {
			L.RaiseError("%s", err.Error())
		}
		return 0
	}
	v, err := fromLValue(L.Get(3))
	if err != nil {
		L.RaiseError("%s", err.Error())
		return 0
	}
	if err := e.store.SetValue(key, v); err != nil {
		L.RaiseError("%s", err.Error())
	}
	return 0
}

// configLoad reads a value by key, or the whole namespace as a table when
// no key is given. Missing entries load as nil.
func (e *Engine) configLoad(L *lua.LState) int {
	if L.GetTop() < 2 || L.Get(2) == lua.LNil {
		entries, err := e.store.Entries()
		if err != nil {
			L.RaiseError("%s", err.Error())
			return 0
		}
		lv, err := toLValue(L, mapToAny(entries))
		if err != nil {
			L.RaiseError("%s", err.Error())
			return 0
		}
		L.Push(lv)
		return 1
	}

	v, ok, err := e.store.Value(L.CheckString(2))
	if err != nil {
		L.RaiseError("%s", err.Error())
		return 0
	}
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	lv, err := toLValue(L, normalizeStored(v))
	if err != nil {
		L.RaiseError("%s", err.Error())
		return 0
	}
	L.Push(lv)
	return 1
}

func mapToAny(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = normalizeStored(v)
	}
	return out
}

// normalizeStored maps TOML decode types onto the wire types toLValue
// accepts. go-toml decodes integers as int64 and arrays as []any.
func normalizeStored(v any) any {
	switch x := v.(type) {
	case int64:
		return float64(x)
	case []any:
		out := make([]any, len(x))
		for i, elem := range x {
			out[i] = normalizeStored(elem)
		}
		return out
	case map[string]any:
		return mapToAny(x)
	default:
		return v
	}
}
