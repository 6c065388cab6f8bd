package host

import (
	lua "github.com/yuin/gopher-lua"
)

// installTableExt extends the table library with the avatar script
// conveniences.
func (s *State) installTableExt() {
	tbl := s.L.GetGlobal("table").(*lua.LTable)
	s.L.SetFuncs(tbl, map[string]lua.LGFunction{
		"clear":       tableClear,
		"invert":      tableInvert,
		"shallowcopy": tableShallowcopy,
		"deepcopy":    tableDeepcopy,
		"find":        tableFind,
		"count":       tableCount,
	})
}

// tableClear removes every entry in place, keeping table identity.
func tableClear(L *lua.LState) int {
	t := L.CheckTable(1)
	var keys []lua.LValue
	t.ForEach(func(k, _ lua.LValue) {
		keys = append(keys, k)
	})
	for _, k := range keys {
		t.RawSet(k, lua.LNil)
	}
	return 0
}

// tableInvert returns a new table mapping values back to their keys.
// Duplicate values keep an arbitrary one of their keys.
func tableInvert(L *lua.LState) int {
	t := L.CheckTable(1)
	out := L.NewTable()
	t.ForEach(func(k, v lua.LValue) {
		out.RawSet(v, k)
	})
	L.Push(out)
	return 1
}

func tableShallowcopy(L *lua.LState) int {
	t := L.CheckTable(1)
	out := L.NewTable()
	t.ForEach(func(k, v lua.LValue) {
		out.RawSet(k, v)
	})
	L.Push(out)
	return 1
}

func tableDeepcopy(L *lua.LState) int {
	t := L.CheckTable(1)
	L.Push(deepCopyLValue(L, t))
	return 1
}

// tableFind returns the key whose value raw-equals the needle, or nil.
// Array part first, so sequences report the lowest matching index.
func tableFind(L *lua.LState) int {
	t := L.CheckTable(1)
	needle := L.CheckAny(2)

	for i := 1; i <= t.Len(); i++ {
		if t.RawGetInt(i) == needle {
			L.Push(lua.LNumber(i))
			return 1
		}
	}

	found := lua.LValue(lua.LNil)
	t.ForEach(func(k, v lua.LValue) {
		if found == lua.LNil && v == needle {
			found = k
		}
	})
	L.Push(found)
	return 1
}

// tableCount returns the number of entries including the hash part, unlike
// the length operator which only sees the sequence.
func tableCount(L *lua.LState) int {
	t := L.CheckTable(1)
	n := 0
	t.ForEach(func(_, _ lua.LValue) {
		n++
	})
	L.Push(lua.LNumber(n))
	return 1
}
