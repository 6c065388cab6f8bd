package keybind

// Keybind is one named key binding owned by a Registry.
//
// A keybind created from an explicit key keeps that key as its default; a
// keybind created from a vanilla binding keeps the vanilla key first read
// at creation time. The default is what Reset restores.
type Keybind struct {
	reg *Registry

	name       string
	key        Key
	defaultKey Key
	pressed    bool

	onPress   func()
	onRelease func()

	// Network slot; -1 when not networked. Slots are allocated
	// first-come and never reused.
	slot     int
	lastSent bool

	// Autosave entry name in the persistent store; empty when autosave
	// is off. overridden is true while a persisted assignment is active.
	autosaveEntry string
	overridden    bool
	lastSavedKey  Key

	// Vanilla binding id when created through FromVanilla.
	vanillaID string
	watching  bool
}

// Name returns the keybind's name.
func (kb *Keybind) Name() string {
	return kb.name
}

// Key returns the currently assigned key.
func (kb *Keybind) Key() Key {
	return kb.key
}

// DefaultKey returns the creation-time key.
func (kb *Keybind) DefaultKey() Key {
	return kb.defaultKey
}

// SetKey assigns a new key. The change is picked up by the autosave pass
// on its next run.
func (kb *Keybind) SetKey(k Key) {
	kb.key = k
}

// IsPressed reports the last observed pressed state.
func (kb *Keybind) IsPressed() bool {
	return kb.pressed
}

// SetOnPress sets the press callback.
func (kb *Keybind) SetOnPress(fn func()) {
	kb.onPress = fn
}

// SetOnRelease sets the release callback.
func (kb *Keybind) SetOnRelease(fn func()) {
	kb.onRelease = fn
}

// IsNetworked reports whether the keybind has a network slot.
func (kb *Keybind) IsNetworked() bool {
	return kb.slot >= 0
}

// Slot returns the keybind's network slot, or -1.
func (kb *Keybind) Slot() int {
	return kb.slot
}

// Group returns the 32-bit group and bit position of the network slot.
// Only meaningful for networked keybinds.
func (kb *Keybind) Group() (group, bit int) {
	return kb.slot / GroupSize, kb.slot % GroupSize
}

// Press records a local press and runs the press callback. On the host
// instance this marks the networked state dirty so the next frame pass
// broadcasts the change.
func (kb *Keybind) Press() {
	if kb.pressed {
		return
	}
	kb.pressed = true
	if kb.slot >= 0 {
		kb.reg.markNetDirty()
	}
	if kb.onPress != nil {
		kb.onPress()
	}
}

// Release records a local release and runs the release callback.
func (kb *Keybind) Release() {
	if !kb.pressed {
		return
	}
	kb.pressed = false
	if kb.slot >= 0 {
		kb.reg.markNetDirty()
	}
	if kb.onRelease != nil {
		kb.onRelease()
	}
}

// applyRemote mirrors a state change received from the host instance,
// invoking the local callbacks without re-broadcasting.
func (kb *Keybind) applyRemote(pressed bool) {
	if kb.pressed == pressed {
		return
	}
	kb.pressed = pressed
	if pressed {
		if kb.onPress != nil {
			kb.onPress()
		}
		return
	}
	if kb.onRelease != nil {
		kb.onRelease()
	}
}
