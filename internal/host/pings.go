package host

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// Sender broadcasts a named ping with its arguments to every viewer
// instance. The engine is handed one by the runner; tests use a loopback.
type Sender interface {
	SendPing(name string, args []any) error
}

// SenderFunc adapts a function to the Sender interface.
type SenderFunc func(name string, args []any) error

// SendPing implements Sender.
func (f SenderFunc) SendPing(name string, args []any) error {
	return f(name, args)
}

// installPings publishes the pings global. Assigning a function registers
// a handler; calling `pings.name(...)` broadcasts the arguments and also
// runs the handler locally on the host instance. Viewer-side calls are
// no-ops, since only the host's state is authoritative.
func (e *Engine) installPings() {
	L := e.st.L
	proxy := L.NewTable()
	mt := L.NewTable()

	L.SetField(mt, "__newindex", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(2)
		switch v := L.Get(3).(type) {
		case *lua.LNilType:
			delete(e.pingHandlers, name)
		case *lua.LFunction:
			e.pingHandlers[name] = v
		default:
			L.ArgError(3, "ping handler must be a function")
		}
		return 0
	}))

	L.SetField(mt, "__index", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(2)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			if err := e.sendPing(L, name); err != nil {
				L.RaiseError("%s", err.Error())
			}
			return 0
		}))
		return 1
	}))

	L.SetMetatable(proxy, mt)
	L.SetGlobal("pings", proxy)
}

// sendPing collects the call arguments, broadcasts them and runs the local
// handler. Called with the engine lock already held, from script code.
func (e *Engine) sendPing(L *lua.LState, name string) error {
	if !e.hostMode {
		e.log.Debug().Str("ping", name).Msg("ignoring ping call on viewer instance")
		return nil
	}

	args := make([]any, 0, L.GetTop())
	lvals := make([]lua.LValue, 0, L.GetTop())
	for i := 1; i <= L.GetTop(); i++ {
		lv := L.Get(i)
		v, err := fromLValue(lv)
		if err != nil {
			return fmt.Errorf("ping %q argument %d: %w", name, i, err)
		}
		args = append(args, v)
		lvals = append(lvals, lv)
	}

	if e.sender != nil {
		if err := e.sender.SendPing(name, args); err != nil {
			e.log.Error().Err(err).Str("ping", name).Msg("ping broadcast failed")
		}
	}

	if fn, ok := e.pingHandlers[name]; ok {
		return e.st.CallFunction(fn, lvals...)
	}
	return nil
}

// dispatchPing runs a received ping through its registered handler.
// Called with the engine lock held.
func (e *Engine) dispatchPing(name string, args []any) error {
	fn, ok := e.pingHandlers[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNoHandler, name)
	}

	lvals := make([]lua.LValue, len(args))
	for i, v := range args {
		lv, err := toLValue(e.st.L, v)
		if err != nil {
			return fmt.Errorf("ping %q argument %d: %w", name, i+1, err)
		}
		lvals[i] = lv
	}
	return e.st.CallFunction(fn, lvals...)
}
