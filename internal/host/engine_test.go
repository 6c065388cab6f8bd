package host

import (
	"strings"
	"testing"

	"github.com/figkit/figkit/internal/keybind"
)

type fakeVanilla map[string]keybind.Key

func (f fakeVanilla) VanillaKey(id string) (keybind.Key, bool) {
	k, ok := f[id]
	return k, ok
}

func newTestEngine(t *testing.T, opts ...EngineOption) *Engine {
	t.Helper()
	opts = append([]EngineOption{WithDataDir(t.TempDir())}, opts...)
	e := NewEngine(opts...)
	t.Cleanup(e.Close)
	return e
}

func TestKeybindCallbacksFromScript(t *testing.T) {
	e := newTestEngine(t, WithHostMode(true))
	if err := e.DoString(`
		presses, releases = 0, 0
		wave = keybinds:newKeybind("wave", KEY.H)
		wave:setOnPress(function() presses = presses + 1 end)
		wave:setOnRelease(function() releases = releases + 1 end)
		assert(wave:getKey() == "key.keyboard.h")
		assert(wave:isPressed() == false)
	`); err != nil {
		t.Fatalf("setup script failed: %v", err)
	}

	if err := e.Press("wave"); err != nil {
		t.Fatalf("Press error: %v", err)
	}
	if err := e.Press("wave"); err != nil {
		t.Fatalf("Press error: %v", err)
	}
	if err := e.Release("wave"); err != nil {
		t.Fatalf("Release error: %v", err)
	}

	// Repeated presses without a release collapse into one.
	if err := e.DoString(`
		assert(presses == 1, "presses = " .. presses)
		assert(releases == 1, "releases = " .. releases)
		assert(wave:isPressed() == false)
	`); err != nil {
		t.Fatal(err)
	}
}

func TestKeybindDuplicateNameRaises(t *testing.T) {
	e := newTestEngine(t)
	err := e.DoString(`
		keybinds:newKeybind("dup", KEY.A)
		keybinds:newKeybind("dup", KEY.B)
	`)
	if err == nil {
		t.Fatal("duplicate keybind name accepted, want error")
	}
}

func TestKeybindStateMirroredToViewer(t *testing.T) {
	script := `
		remote = 0
		punch = keybinds:newKeybind("punch", KEY.P)
		punch:setOnPress(function() remote = remote + 1 end)
		punch:setNetworked()
	`

	var viewer *Engine
	sender := SenderFunc(func(name string, args []any) error {
		return viewer.HandlePing(name, args)
	})

	hostE := newTestEngine(t, WithHostMode(true), WithSender(sender))
	viewer = newTestEngine(t)

	// Registration order is the wire identity, so both sides load the
	// same script.
	for _, e := range []*Engine{hostE, viewer} {
		if err := e.DoString(script); err != nil {
			t.Fatalf("script failed: %v", err)
		}
	}

	if err := hostE.Press("punch"); err != nil {
		t.Fatal(err)
	}
	hostE.Loop().Advance(1)

	if err := viewer.DoString(`
		assert(remote == 1, "remote = " .. remote)
		assert(punch:isPressed() == true)
	`); err != nil {
		t.Fatal(err)
	}

	// No state change, no broadcast: the viewer stays untouched.
	hostE.Loop().Advance(1)
	if err := viewer.DoString(`assert(remote == 1)`); err != nil {
		t.Fatal(err)
	}
}

func TestKeybindWatchFollowsVanilla(t *testing.T) {
	vanilla := fakeVanilla{"key.sneak": keybind.KeyLeftShift}
	e := newTestEngine(t, WithHostMode(true), WithVanillaProvider(vanilla))

	if err := e.DoString(`
		sneak = keybinds:fromVanilla("sneak", "key.sneak")
		sneak:watch()
		assert(sneak:getKey() == KEY.LEFT_SHIFT)
	`); err != nil {
		t.Fatalf("setup script failed: %v", err)
	}

	vanilla["key.sneak"] = keybind.KeyLeftControl
	e.Loop().Advance(int(keybind.WatchInterval))

	if err := e.DoString(`
		assert(sneak:getKey() == KEY.LEFT_CONTROL, "got " .. sneak:getKey())
	`); err != nil {
		t.Fatal(err)
	}
}

func TestPingsBroadcastAndRunLocally(t *testing.T) {
	script := `
		total = 0
		last = nil
		pings.boop = function(n, tag)
			total = total + n
			last = tag
		end
	`

	var viewer *Engine
	sender := SenderFunc(func(name string, args []any) error {
		return viewer.HandlePing(name, args)
	})

	hostE := newTestEngine(t, WithHostMode(true), WithSender(sender))
	viewer = newTestEngine(t)

	for _, e := range []*Engine{hostE, viewer} {
		if err := e.DoString(script); err != nil {
			t.Fatalf("script failed: %v", err)
		}
	}

	if err := hostE.DoString(`pings.boop(2, "hello")`); err != nil {
		t.Fatalf("ping call failed: %v", err)
	}

	// Both sides ran the handler: the viewer via the wire, the host
	// locally.
	for name, e := range map[string]*Engine{"host": hostE, "viewer": viewer} {
		if err := e.DoString(`
			assert(total == 2, "total = " .. total)
			assert(last == "hello")
		`); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
	}

	// Viewer-side ping calls do not execute or broadcast.
	if err := viewer.DoString(`pings.boop(10, "x")`); err != nil {
		t.Fatal(err)
	}
	if err := viewer.DoString(`assert(total == 2)`); err != nil {
		t.Fatal(err)
	}
}

func TestPingWithoutHandlerReported(t *testing.T) {
	e := newTestEngine(t)
	err := e.HandlePing("ghost", nil)
	if err == nil || !strings.Contains(err.Error(), "no ping handler") {
		t.Errorf("HandlePing error = %v, want no-handler error", err)
	}
}

func TestConfigRoundTrip(t *testing.T) {
	e := newTestEngine(t, WithHostMode(true))
	if err := e.DoString(`
		config:save("greeting", "hi")
		config:save("count", 3)
		config:save("list", {1, 2, 3})
		assert(config:load("greeting") == "hi")
		assert(config:load("count") == 3)
		assert(config:load("list")[2] == 2)
		assert(config:load("missing") == nil)

		local all = config:load()
		assert(all.greeting == "hi")

		config:save("greeting", nil)
		assert(config:load("greeting") == nil)
	`); err != nil {
		t.Fatalf("config script failed: %v", err)
	}
}

func TestConfigNamespaceIsolation(t *testing.T) {
	e := newTestEngine(t, WithHostMode(true))
	if err := e.DoString(`
		config:save("k", "default-ns")
		config:setName("other")
		assert(config:load("k") == nil)
		config:save("k", "other-ns")
		assert(config:load("k") == "other-ns")
	`); err != nil {
		t.Fatalf("config script failed: %v", err)
	}
}

func TestClientUUIDConversions(t *testing.T) {
	e := newTestEngine(t)
	if err := e.DoString(`
		local id = "12345678-9abc-def0-1234-56789abcdef0"
		local a, b, c, d = client.uuidToIntArray(id)
		assert(client.intArrayToUUID(a, b, c, d) == id)
		assert(client.intArrayToUUID({a, b, c, d}) == id)
		assert(a == 305419896, "a = " .. a)
	`); err != nil {
		t.Fatalf("uuid script failed: %v", err)
	}

	if err := e.DoString(`client.uuidToIntArray("not-a-uuid")`); err == nil {
		t.Error("malformed uuid accepted, want error")
	}
	if err := e.DoString(`client.intArrayToUUID({1, 2, 3})`); err == nil {
		t.Error("short int array accepted, want error")
	}
}

func TestHostIsHost(t *testing.T) {
	hostE := newTestEngine(t, WithHostMode(true))
	viewer := newTestEngine(t)

	if err := hostE.DoString(`assert(host:isHost() == true)`); err != nil {
		t.Fatal(err)
	}
	if err := viewer.DoString(`assert(host:isHost() == false)`); err != nil {
		t.Fatal(err)
	}
}

func TestTickEventHandlers(t *testing.T) {
	e := newTestEngine(t, WithHostMode(true))
	if err := e.DoString(`
		ticks, frames = 0, 0
		function tick() ticks = ticks + 1 end
		function frame() frames = frames + 1 end
	`); err != nil {
		t.Fatal(err)
	}

	e.Loop().Advance(3)

	if err := e.DoString(`
		assert(ticks == 3, "ticks = " .. ticks)
		assert(frames == 3, "frames = " .. frames)
	`); err != nil {
		t.Fatal(err)
	}
}
