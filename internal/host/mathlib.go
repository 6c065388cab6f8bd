package host

import (
	"math"

	lua "github.com/yuin/gopher-lua"
)

// installMathExt extends the math library with the interpolation and
// clamping helpers.
func (s *State) installMathExt() {
	m := s.L.GetGlobal("math").(*lua.LTable)
	s.L.SetFuncs(m, map[string]lua.LGFunction{
		"clamp": mathClamp,
		"round": mathRound,
		"lerp":  mathLerp,
		"map":   mathMap,
		"sign":  mathSign,
	})
}

func mathClamp(L *lua.LState) int {
	v := float64(L.CheckNumber(1))
	lo := float64(L.CheckNumber(2))
	hi := float64(L.CheckNumber(3))
	L.Push(lua.LNumber(math.Min(math.Max(v, lo), hi)))
	return 1
}

// mathRound rounds half away from zero.
func mathRound(L *lua.LState) int {
	L.Push(lua.LNumber(math.Round(float64(L.CheckNumber(1)))))
	return 1
}

func mathLerp(L *lua.LState) int {
	a := float64(L.CheckNumber(1))
	b := float64(L.CheckNumber(2))
	t := float64(L.CheckNumber(3))
	L.Push(lua.LNumber(a + (b-a)*t))
	return 1
}

// mathMap remaps v from the range [a1, a2] into [b1, b2] without clamping.
func mathMap(L *lua.LState) int {
	v := float64(L.CheckNumber(1))
	a1 := float64(L.CheckNumber(2))
	a2 := float64(L.CheckNumber(3))
	b1 := float64(L.CheckNumber(4))
	b2 := float64(L.CheckNumber(5))
	L.Push(lua.LNumber(b1 + (v-a1)/(a2-a1)*(b2-b1)))
	return 1
}

func mathSign(L *lua.LState) int {
	v := float64(L.CheckNumber(1))
	switch {
	case v > 0:
		L.Push(lua.LNumber(1))
	case v < 0:
		L.Push(lua.LNumber(-1))
	default:
		L.Push(lua.LNumber(0))
	}
	return 1
}
