package keybind

// GroupSize is the number of keybinds per broadcast bitmask.
const GroupSize = 32

// Transport broadcasts the group bitmasks to every viewer instance. The
// mask count is implied by how many groups have been allocated.
type Transport interface {
	Broadcast(masks []uint32) error
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(masks []uint32) error

// Broadcast implements Transport.
func (f TransportFunc) Broadcast(masks []uint32) error {
	return f(masks)
}

// SetNetworked assigns the keybind the next free bit slot so its pressed
// state is mirrored to viewer instances. Slots are allocated first-come
// in 32-bit groups and never reused; the 33rd networked keybind lands in
// group 1 at bit 0. Registration order must match between host and
// viewers, since the slot is the wire identity.
func (r *Registry) SetNetworked(kb *Keybind) error {
	if err := r.owns(kb); err != nil {
		return err
	}
	if kb.slot >= 0 {
		return ErrAlreadyNetworked
	}
	kb.slot = len(r.networked)
	kb.lastSent = kb.pressed
	r.networked = append(r.networked, kb)
	return nil
}

// GroupCount returns the number of allocated 32-bit groups.
func (r *Registry) GroupCount() int {
	return (len(r.networked) + GroupSize - 1) / GroupSize
}

// markNetDirty flags that a networked keybind changed state. Only the
// host instance broadcasts, so viewers never set the flag.
func (r *Registry) markNetDirty() {
	if r.host {
		r.netDirty = true
	}
}

// SyncNetwork folds the current pressed states into the group bitmasks
// and broadcasts them when at least one keybind changed since the last
// broadcast. It is driven once per frame event; the dirty flag set by the
// press/release path keeps unchanged frames free of work.
func (r *Registry) SyncNetwork() error {
	if !r.host || r.transport == nil || !r.netDirty {
		return nil
	}
	r.netDirty = false

	masks := r.foldMasks()
	if masksEqual(masks, r.lastMasks) {
		return nil
	}
	r.lastMasks = masks

	for _, kb := range r.networked {
		kb.lastSent = kb.pressed
	}

	sent := make([]uint32, len(masks))
	copy(sent, masks)
	if err := r.transport.Broadcast(sent); err != nil {
		r.log.Error().Err(err).Msg("keybind state broadcast failed")
		return err
	}
	return nil
}

// Receive applies a broadcast from the host instance: every group mask is
// diffed bit by bit against the cached state and each changed bit invokes
// the local press or release callback.
func (r *Registry) Receive(masks []uint32) {
	for g, mask := range masks {
		var old uint32
		if g < len(r.recvMasks) {
			old = r.recvMasks[g]
		}
		diff := mask ^ old
		for bit := 0; diff != 0 && bit < GroupSize; bit++ {
			if diff&(1<<bit) == 0 {
				continue
			}
			diff &^= 1 << bit
			slot := g*GroupSize + bit
			if slot >= len(r.networked) {
				continue
			}
			r.networked[slot].applyRemote(mask&(1<<bit) != 0)
		}
	}

	if len(masks) > len(r.recvMasks) {
		grown := make([]uint32, len(masks))
		copy(grown, r.recvMasks)
		r.recvMasks = grown
	}
	copy(r.recvMasks, masks)
}

// foldMasks builds the group bitmasks from the current pressed states.
func (r *Registry) foldMasks() []uint32 {
	masks := make([]uint32, r.GroupCount())
	for slot, kb := range r.networked {
		if kb.pressed {
			masks[slot/GroupSize] |= 1 << (slot % GroupSize)
		}
	}
	return masks
}

func masksEqual(a, b []uint32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
