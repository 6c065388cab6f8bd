package keybind

import "fmt"

// Watch slaves the keybind to the live assignment of the vanilla binding
// it was created from. The watch pass re-reads the vanilla key 4 times
// per second; an active autosave override always wins over the watched
// value.
func (r *Registry) Watch(kb *Keybind) error {
	if err := r.owns(kb); err != nil {
		return err
	}
	if r.vanilla == nil {
		return ErrNoVanillaProvider
	}
	if kb.vanillaID == "" {
		return fmt.Errorf("keybind %q was not created from a vanilla binding", kb.name)
	}
	if kb.watching {
		return nil
	}
	kb.watching = true
	r.watched = append(r.watched, kb)
	return nil
}

// watchPass force-sets watching keybinds to the current vanilla
// assignment, yielding to autosave overrides.
func (r *Registry) watchPass() {
	if r.vanilla == nil {
		return
	}
	for _, kb := range r.watched {
		if kb.overridden {
			continue
		}
		key, ok := r.vanilla.VanillaKey(kb.vanillaID)
		if !ok {
			continue
		}
		if kb.key != key {
			kb.key = key
		}
	}
}
