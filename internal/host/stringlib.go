package host

import (
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/figkit/figkit/internal/binpack"
)

// installStringExt extends the string library with the split/trim helpers
// and the binary pack mini-language.
func (s *State) installStringExt() {
	str := s.L.GetGlobal("string").(*lua.LTable)
	s.L.SetFuncs(str, map[string]lua.LGFunction{
		"split":      stringSplit,
		"trim":       stringTrim,
		"startswith": stringStartswith,
		"endswith":   stringEndswith,
		"pack":       stringPack,
		"unpack":     stringUnpack,
		"packsize":   stringPacksize,
	})
}

// stringSplit splits on a plain separator, default one space. Adjacent
// separators yield empty fields, matching strings.Split.
func stringSplit(L *lua.LState) int {
	s := L.CheckString(1)
	sep := L.OptString(2, " ")
	if sep == "" {
		L.ArgError(2, "separator must not be empty")
		return 0
	}
	tbl := L.NewTable()
	for _, part := range strings.Split(s, sep) {
		tbl.Append(lua.LString(part))
	}
	L.Push(tbl)
	return 1
}

func stringTrim(L *lua.LState) int {
	L.Push(lua.LString(strings.TrimSpace(L.CheckString(1))))
	return 1
}

func stringStartswith(L *lua.LState) int {
	L.Push(lua.LBool(strings.HasPrefix(L.CheckString(1), L.CheckString(2))))
	return 1
}

func stringEndswith(L *lua.LState) int {
	L.Push(lua.LBool(strings.HasSuffix(L.CheckString(1), L.CheckString(2))))
	return 1
}

// stringPack packs the arguments after the format into a binary string.
func stringPack(L *lua.LState) int {
	format := L.CheckString(1)
	values := make([]any, 0, L.GetTop()-1)
	for i := 2; i <= L.GetTop(); i++ {
		switch v := L.Get(i).(type) {
		case lua.LNumber:
			values = append(values, float64(v))
		case lua.LString:
			values = append(values, string(v))
		default:
			L.ArgError(i, "number or string expected")
			return 0
		}
	}

	packed, err := binpack.Pack(format, values...)
	if err != nil {
		L.RaiseError("%s", err.Error())
		return 0
	}
	L.Push(lua.LString(packed))
	return 1
}

// stringUnpack decodes data according to the format and returns the
// values followed by the index of the first unread byte.
func stringUnpack(L *lua.LState) int {
	format := L.CheckString(1)
	data := L.CheckString(2)
	pos := L.OptInt(3, 1)

	values, next, err := binpack.UnpackFrom(format, data, pos)
	if err != nil {
		L.RaiseError("%s", err.Error())
		return 0
	}
	for _, v := range values {
		switch x := v.(type) {
		case float64:
			L.Push(lua.LNumber(x))
		case string:
			L.Push(lua.LString(x))
		}
	}
	L.Push(lua.LNumber(next))
	return len(values) + 1
}

func stringPacksize(L *lua.LState) int {
	size, err := binpack.Packsize(L.CheckString(1))
	if err != nil {
		L.RaiseError("%s", err.Error())
		return 0
	}
	L.Push(lua.LNumber(size))
	return 1
}
