package tick

import (
	"context"
	"testing"
	"time"
)

func TestAdvanceRunsHandlersInOrder(t *testing.T) {
	l := NewLoop()

	var order []string
	l.OnTick("first", func(uint64) { order = append(order, "first") })
	l.OnTick("second", func(uint64) { order = append(order, "second") })
	l.OnFrame("frame", func(uint64) { order = append(order, "frame") })

	l.Advance(1)

	want := []string{"first", "second", "frame"}
	if len(order) != len(want) {
		t.Fatalf("handler order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %q, want %q", i, order[i], want[i])
		}
	}
}

func TestTickCounterStartsAtOne(t *testing.T) {
	l := NewLoop()

	var seen []uint64
	l.OnTick("record", func(tick uint64) { seen = append(seen, tick) })

	l.Advance(3)

	if len(seen) != 3 || seen[0] != 1 || seen[2] != 3 {
		t.Errorf("ticks seen = %v, want [1 2 3]", seen)
	}
	if l.Tick() != 3 {
		t.Errorf("Tick() = %d, want 3", l.Tick())
	}
}

func TestPanicContainment(t *testing.T) {
	l := NewLoop()

	var panicked string
	l.OnTick("bad", func(uint64) { panic("boom") })
	ran := false
	l.OnTick("good", func(uint64) { ran = true })
	l.OnTick("also-bad", func(uint64) { panic("boom2") })

	l2 := NewLoop(WithPanicHandler(func(name string, _ any, _ []byte) {
		panicked = name
	}))
	l2.OnTick("bad", func(uint64) { panic("boom") })
	l2.Advance(1)
	if panicked != "bad" {
		t.Errorf("panic handler saw %q, want %q", panicked, "bad")
	}

	l.Advance(1)
	if !ran {
		t.Error("handler after panicking handler did not run")
	}
	_, panics, _ := l.Stats()
	if panics != 2 {
		t.Errorf("panic count = %d, want 2", panics)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	l := NewLoop(WithRate(200))

	ticked := make(chan struct{}, 1)
	l.OnTick("notify", func(uint64) {
		select {
		case ticked <- struct{}{}:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	select {
	case <-ticked:
	case <-time.After(2 * time.Second):
		t.Fatal("loop never ticked")
	}

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Run returned %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop after cancel")
	}
}
