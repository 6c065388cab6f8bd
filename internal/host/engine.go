package host

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	lua "github.com/yuin/gopher-lua"

	"github.com/figkit/figkit/internal/keybind"
	"github.com/figkit/figkit/internal/store"
	"github.com/figkit/figkit/internal/tick"
)

// PingKeybinds is the reserved ping name carrying keybind group bitmasks
// from the host to viewers. Scripts cannot collide with it: script pings
// travel under the names scripts assign, and the double underscore prefix
// is reserved for engine traffic.
const PingKeybinds = "__keybinds"

// DefaultNamespace is the store namespace before a script calls
// config:setName.
const DefaultNamespace = "avatar"

// keybindNamespace is where keybind autosave entries live, separate from
// script config data.
const keybindNamespace = "keybinds"

// Engine is the composition root of one script instance: the sandboxed
// Lua state, the keybind registry, the persistent store, the ping table
// and the tick loop, all behind one lock.
//
// The lock serializes the three entry points into the Lua state: script
// loading, tick/frame handlers from the loop goroutine, and pings arriving
// from the network goroutine.
type Engine struct {
	mu  sync.Mutex
	log zerolog.Logger

	st       *State
	keybinds *keybind.Registry
	store    *store.FileStore
	loop     *tick.Loop

	hostMode     bool
	sender       Sender
	pingHandlers map[string]*lua.LFunction
}

// EngineOption configures an Engine.
type EngineOption func(*engineConfig)

type engineConfig struct {
	log      zerolog.Logger
	hostMode bool
	sender   Sender
	dataDir  string
	vanilla  keybind.VanillaProvider
	tickRate int
}

// WithLogger sets the engine logger.
func WithLogger(log zerolog.Logger) EngineOption {
	return func(c *engineConfig) {
		c.log = log
	}
}

// WithHostMode marks this instance as the privileged host. Only the host
// broadcasts pings and keybind state and writes the persistent store.
func WithHostMode(host bool) EngineOption {
	return func(c *engineConfig) {
		c.hostMode = host
	}
}

// WithSender sets the ping broadcast transport.
func WithSender(s Sender) EngineOption {
	return func(c *engineConfig) {
		c.sender = s
	}
}

// WithDataDir sets the directory script data and keybind autosaves are
// persisted under.
func WithDataDir(dir string) EngineOption {
	return func(c *engineConfig) {
		c.dataDir = dir
	}
}

// WithVanillaProvider sets the source of vanilla key assignments.
func WithVanillaProvider(p keybind.VanillaProvider) EngineOption {
	return func(c *engineConfig) {
		c.vanilla = p
	}
}

// WithTickRate overrides the loop rate in ticks per second.
func WithTickRate(rate int) EngineOption {
	return func(c *engineConfig) {
		c.tickRate = rate
	}
}

// NewEngine builds a script instance and installs the full extension
// surface into its Lua state.
func NewEngine(opts ...EngineOption) *Engine {
	cfg := engineConfig{
		log:      zerolog.Nop(),
		dataDir:  "data",
		tickRate: tick.DefaultRate,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	e := &Engine{
		log:          cfg.log,
		hostMode:     cfg.hostMode,
		sender:       cfg.sender,
		pingHandlers: make(map[string]*lua.LFunction),
	}

	e.store = store.NewFileStore(cfg.dataDir)
	e.store.SetNamespace(DefaultNamespace)

	kbOpts := []keybind.Option{
		keybind.WithHost(cfg.hostMode),
		keybind.WithStore(e.store, keybindNamespace),
		keybind.WithLogger(cfg.log.With().Str("component", "keybind").Logger()),
		keybind.WithTransport(keybind.TransportFunc(e.broadcastMasks)),
	}
	if cfg.vanilla != nil {
		kbOpts = append(kbOpts, keybind.WithVanillaProvider(cfg.vanilla))
	}
	e.keybinds = keybind.NewRegistry(kbOpts...)

	e.st = NewState(cfg.log.With().Str("component", "script").Logger())
	e.st.installStringExt()
	e.st.installTableExt()
	e.st.installMathExt()
	e.st.installBit32()
	e.st.installEnums()
	e.installKeybinds()
	e.installPings()
	e.installClient()

	e.loop = tick.NewLoop(
		tick.WithRate(cfg.tickRate),
		tick.WithLogger(cfg.log.With().Str("component", "tick").Logger()),
	)
	e.loop.OnTick("keybinds", func(t uint64) {
		e.mu.Lock()
		defer e.mu.Unlock()
		e.keybinds.Tick(t)
		e.callEvent("tick")
	})
	e.loop.OnFrame("netsync", func(t uint64) {
		e.mu.Lock()
		defer e.mu.Unlock()
		e.keybinds.SyncNetwork()
		e.callEvent("frame")
	})

	return e
}

// callEvent invokes a script-defined global event function when one is
// defined. Called with the lock held.
func (e *Engine) callEvent(name string) {
	fn, ok := e.st.GetGlobal(name).(*lua.LFunction)
	if !ok {
		return
	}
	if err := e.st.CallFunction(fn); err != nil {
		e.log.Error().Err(err).Str("event", name).Msg("event handler failed")
	}
}

// broadcastMasks ships keybind group bitmasks as the reserved ping.
func (e *Engine) broadcastMasks(masks []uint32) error {
	if e.sender == nil {
		return keybind.ErrNoTransport
	}
	args := make([]any, len(masks))
	for i, m := range masks {
		args[i] = float64(m)
	}
	return e.sender.SendPing(PingKeybinds, args)
}

// LoadScript runs a script file in the sandbox.
func (e *Engine) LoadScript(path string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.st.DoFile(path); err != nil {
		return fmt.Errorf("running script %s: %w", path, err)
	}
	return nil
}

// DoString runs a script chunk in the sandbox.
func (e *Engine) DoString(code string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.st.DoString(code)
}

// HandlePing dispatches a ping received from the network: the reserved
// keybind ping feeds the registry, everything else runs the script handler
// registered under its name.
func (e *Engine) HandlePing(name string, args []any) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if name == PingKeybinds {
		masks := make([]uint32, len(args))
		for i, a := range args {
			f, ok := a.(float64)
			if !ok {
				return fmt.Errorf("keybind mask %d is %T, want number", i, a)
			}
			masks[i] = uint32(f)
		}
		e.keybinds.Receive(masks)
		return nil
	}
	return e.dispatchPing(name, args)
}

// Press injects a key press for a named keybind, as the runner's input
// layer would.
func (e *Engine) Press(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	kb := e.keybinds.Get(name)
	if kb == nil {
		return fmt.Errorf("%w: %q", keybind.ErrNotRegistered, name)
	}
	kb.Press()
	return nil
}

// Release injects a key release for a named keybind.
func (e *Engine) Release(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	kb := e.keybinds.Get(name)
	if kb == nil {
		return fmt.Errorf("%w: %q", keybind.ErrNotRegistered, name)
	}
	kb.Release()
	return nil
}

// Keybinds exposes the registry, for the runner and tests.
func (e *Engine) Keybinds() *keybind.Registry {
	return e.keybinds
}

// Loop exposes the tick loop so the runner can drive or run it.
func (e *Engine) Loop() *tick.Loop {
	return e.loop
}

// Run drives the tick loop until ctx is cancelled.
func (e *Engine) Run(ctx context.Context) error {
	return e.loop.Run(ctx)
}

// IsHost reports whether this is the privileged instance.
func (e *Engine) IsHost() bool {
	return e.hostMode
}

// Close releases the Lua state.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.st.Close()
}
