// Package tick drives the cooperative tick/frame loop of a script
// instance. Handlers run synchronously, in registration order, within one
// goroutine; no handler spans more than one tick.
package tick

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/rs/zerolog"
)

// DefaultRate is the game tick rate in ticks per second.
const DefaultRate = 20

// Handler is a tick or frame callback. The argument is the tick counter,
// starting at 1.
type Handler func(tick uint64)

// PanicHandler is invoked when a handler panics. The loop continues with
// the next handler.
type PanicHandler func(name string, value any, stack []byte)

type namedHandler struct {
	name string
	fn   Handler
}

// Loop schedules tick and frame handlers at a fixed rate. One frame event
// fires after every tick, mirroring the runtime's render callback.
type Loop struct {
	log  zerolog.Logger
	rate int

	tickHandlers  []namedHandler
	frameHandlers []namedHandler
	onPanic       PanicHandler

	tick uint64

	// Stats
	ticksRun  uint64
	panics    uint64
	totalTime time.Duration
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithRate sets the tick rate in ticks per second.
func WithRate(rate int) LoopOption {
	return func(l *Loop) {
		if rate > 0 {
			l.rate = rate
		}
	}
}

// WithLogger sets the loop logger.
func WithLogger(log zerolog.Logger) LoopOption {
	return func(l *Loop) {
		l.log = log
	}
}

// WithPanicHandler sets the handler invoked when a callback panics.
func WithPanicHandler(h PanicHandler) LoopOption {
	return func(l *Loop) {
		l.onPanic = h
	}
}

// NewLoop creates a loop at the default 20 ticks per second.
func NewLoop(opts ...LoopOption) *Loop {
	l := &Loop{
		log:  zerolog.Nop(),
		rate: DefaultRate,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// OnTick registers a named handler run once per tick, in registration
// order.
func (l *Loop) OnTick(name string, fn Handler) {
	l.tickHandlers = append(l.tickHandlers, namedHandler{name: name, fn: fn})
}

// OnFrame registers a named handler run once per frame event.
func (l *Loop) OnFrame(name string, fn Handler) {
	l.frameHandlers = append(l.frameHandlers, namedHandler{name: name, fn: fn})
}

// Tick returns the current tick counter.
func (l *Loop) Tick() uint64 {
	return l.tick
}

// Advance steps the loop n ticks synchronously. Embedders and tests drive
// the loop with Advance; Run does the same on a wall-clock ticker.
func (l *Loop) Advance(n int) {
	for i := 0; i < n; i++ {
		l.step()
	}
}

// Run drives the loop until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	interval := time.Second / time.Duration(l.rate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	l.log.Debug().Int("rate", l.rate).Msg("tick loop started")
	for {
		select {
		case <-ctx.Done():
			l.log.Debug().
				Uint64("ticks", l.ticksRun).
				Uint64("panics", l.panics).
				Msg("tick loop stopped")
			return ctx.Err()
		case <-ticker.C:
			l.step()
		}
	}
}

// step runs one tick followed by one frame event.
func (l *Loop) step() {
	l.tick++
	start := time.Now()

	for _, h := range l.tickHandlers {
		l.invoke(h)
	}
	for _, h := range l.frameHandlers {
		l.invoke(h)
	}

	l.ticksRun++
	l.totalTime += time.Since(start)
}

// invoke runs one handler with panic containment: a panicking handler is
// logged and skipped, the rest of the tick proceeds.
func (l *Loop) invoke(h namedHandler) {
	defer func() {
		if r := recover(); r != nil {
			l.panics++
			stack := debug.Stack()
			l.log.Error().
				Str("handler", h.name).
				Any("panic", r).
				Msg("tick handler panicked")
			if l.onPanic != nil {
				func() {
					defer func() { _ = recover() }()
					l.onPanic(h.name, r, stack)
				}()
			}
		}
	}()
	h.fn(l.tick)
}

// Stats reports loop counters.
func (l *Loop) Stats() (ticks, panics uint64, total time.Duration) {
	return l.ticksRun, l.panics, l.totalTime
}
