package host

import (
	"math"

	lua "github.com/yuin/gopher-lua"
)

// installBit32 provides the Lua 5.2 bit32 module. Every operation reduces
// its operands modulo 2^32 and returns an unsigned result in [0, 2^32).
func (s *State) installBit32() {
	mod := s.L.SetFuncs(s.L.NewTable(), map[string]lua.LGFunction{
		"band":    bit32Band,
		"bor":     bit32Bor,
		"bxor":    bit32Bxor,
		"bnot":    bit32Bnot,
		"lshift":  bit32Lshift,
		"rshift":  bit32Rshift,
		"arshift": bit32Arshift,
		"extract": bit32Extract,
		"replace": bit32Replace,
	})
	s.L.SetGlobal("bit32", mod)
}

// checkUint32 reduces a Lua number to a 32-bit unsigned operand. Negative
// and oversized inputs wrap modulo 2^32, matching the reference behavior.
func checkUint32(L *lua.LState, n int) uint32 {
	v := float64(L.CheckNumber(n))
	if math.IsNaN(v) || math.IsInf(v, 0) {
		L.ArgError(n, "number has no integer representation")
		return 0
	}
	t := math.Trunc(v)
	if t != v {
		L.ArgError(n, "number has no integer representation")
		return 0
	}
	m := math.Mod(t, 1<<32)
	if m < 0 {
		m += 1 << 32
	}
	return uint32(m)
}

func pushUint32(L *lua.LState, v uint32) int {
	L.Push(lua.LNumber(v))
	return 1
}

func bit32Band(L *lua.LState) int {
	acc := ^uint32(0)
	for i := 1; i <= L.GetTop(); i++ {
		acc &= checkUint32(L, i)
	}
	return pushUint32(L, acc)
}

func bit32Bor(L *lua.LState) int {
	var acc uint32
	for i := 1; i <= L.GetTop(); i++ {
		acc |= checkUint32(L, i)
	}
	return pushUint32(L, acc)
}

func bit32Bxor(L *lua.LState) int {
	var acc uint32
	for i := 1; i <= L.GetTop(); i++ {
		acc ^= checkUint32(L, i)
	}
	return pushUint32(L, acc)
}

func bit32Bnot(L *lua.LState) int {
	return pushUint32(L, ^checkUint32(L, 1))
}

func bit32Lshift(L *lua.LState) int {
	v := checkUint32(L, 1)
	d := int(float64(L.CheckNumber(2)))
	return pushUint32(L, shiftLeft(v, d))
}

func bit32Rshift(L *lua.LState) int {
	v := checkUint32(L, 1)
	d := int(float64(L.CheckNumber(2)))
	return pushUint32(L, shiftLeft(v, -d))
}

// shiftLeft shifts v by d bits, negative d shifting right. Displacements
// of 32 or more produce zero.
func shiftLeft(v uint32, d int) uint32 {
	switch {
	case d <= -32 || d >= 32:
		return 0
	case d >= 0:
		return v << uint(d)
	default:
		return v >> uint(-d)
	}
}

func bit32Arshift(L *lua.LState) int {
	v := checkUint32(L, 1)
	d := int(float64(L.CheckNumber(2)))
	if d < 0 {
		return pushUint32(L, shiftLeft(v, -d))
	}
	if d >= 32 {
		if v&0x80000000 != 0 {
			return pushUint32(L, ^uint32(0))
		}
		return pushUint32(L, 0)
	}
	return pushUint32(L, uint32(int32(v)>>uint(d)))
}

// fieldArgs validates the field position and width shared by extract and
// replace. field+width must stay within 32 bits.
func fieldArgs(L *lua.LState, fieldArg int) (field, width uint) {
	f := int(float64(L.CheckNumber(fieldArg)))
	w := 1
	if L.GetTop() >= fieldArg+1 && L.Get(fieldArg+1) != lua.LNil {
		w = int(float64(L.CheckNumber(fieldArg + 1)))
	}
	if f < 0 {
		L.ArgError(fieldArg, "field cannot be negative")
	}
	if w <= 0 {
		L.ArgError(fieldArg+1, "width must be positive")
	}
	if f+w > 32 {
		L.RaiseError("trying to access non-existent bits")
	}
	return uint(f), uint(w)
}

func bit32Extract(L *lua.LState) int {
	v := checkUint32(L, 1)
	field, width := fieldArgs(L, 2)
	mask := uint32((uint64(1) << width) - 1)
	return pushUint32(L, (v>>field)&mask)
}

func bit32Replace(L *lua.LState) int {
	v := checkUint32(L, 1)
	repl := checkUint32(L, 2)
	field, width := fieldArgs(L, 3)
	mask := uint32((uint64(1)<<width)-1) << field
	return pushUint32(L, v&^mask|(repl<<field)&mask)
}
