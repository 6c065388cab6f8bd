package host

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	lua "github.com/yuin/gopher-lua"
)

// State wraps a sandboxed gopher-lua state for avatar scripts.
//
// The state opens only the base, table, string and math libraries, strips
// the code-loading primitives, locks require down to the opened modules
// and routes print through the engine logger. Scripts get no filesystem,
// no process access and no way to load code the engine did not hand them.
//
// gopher-lua's LState is not goroutine-safe and State adds no locking of
// its own; the Engine serializes every entry into the state.
type State struct {
	L   *lua.LState
	log zerolog.Logger

	closed bool
}

// NewState creates a sandboxed Lua state. Script output via print goes to
// log at info level.
func NewState(log zerolog.Logger) *State {
	L := lua.NewState(lua.Options{
		SkipOpenLibs: true,
	})

	// Only the safe subset. io, os, debug and channel stay closed.
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	s := &State{L: L, log: log}
	s.installSandbox()
	return s
}

// installSandbox removes the code-loading escape hatches and pins require
// to the modules the engine opened.
func (s *State) installSandbox() {
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		s.L.SetGlobal(name, lua.LNil)
	}

	s.L.SetGlobal("print", s.L.NewFunction(func(L *lua.LState) int {
		parts := make([]string, L.GetTop())
		for i := range parts {
			parts[i] = L.ToStringMeta(L.Get(i + 1)).String()
		}
		s.log.Info().Msg(strings.Join(parts, "\t"))
		return 0
	}))

	allowed := map[string]bool{
		"string": true,
		"table":  true,
		"math":   true,
		"bit32":  true,
	}
	s.L.SetGlobal("require", s.L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		if !allowed[name] {
			L.RaiseError("module %q is not available", name)
			return 0
		}
		L.Push(L.GetGlobal(name))
		return 1
	}))
}

// DoFile runs a script file.
func (s *State) DoFile(path string) error {
	if s.closed {
		return ErrClosed
	}
	return s.recovered(func() error {
		return s.L.DoFile(path)
	})
}

// DoString runs a script chunk.
func (s *State) DoString(code string) error {
	if s.closed {
		return ErrClosed
	}
	return s.recovered(func() error {
		return s.L.DoString(code)
	})
}

// CallFunction calls a Lua function value with args, discarding results.
// Used for keybind and ping callbacks held as Lua functions.
func (s *State) CallFunction(fn *lua.LFunction, args ...lua.LValue) error {
	if s.closed {
		return ErrClosed
	}
	return s.recovered(func() error {
		return s.L.CallByParam(lua.P{
			Fn:      fn,
			NRet:    0,
			Protect: true,
		}, args...)
	})
}

// SetGlobal sets a global in the script environment.
func (s *State) SetGlobal(name string, value lua.LValue) {
	if s.closed {
		return
	}
	s.L.SetGlobal(name, value)
}

// GetGlobal reads a global from the script environment.
func (s *State) GetGlobal(name string) lua.LValue {
	if s.closed {
		return lua.LNil
	}
	return s.L.GetGlobal(name)
}

// Close releases the Lua state. Further calls return ErrClosed.
func (s *State) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.L.Close()
}

// recovered converts Lua runtime panics into errors.
func (s *State) recovered(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua runtime panic: %v", r)
		}
	}()
	return fn()
}
