package keybind

import "fmt"

// SetAutoSave binds the keybind to an entry in the persistent store. Any
// previously persisted key assignment is loaded and applied immediately;
// afterwards the autosave pass persists changes roughly once per second.
func (r *Registry) SetAutoSave(kb *Keybind, entry string) error {
	if err := r.owns(kb); err != nil {
		return err
	}
	if r.store == nil {
		return ErrNoStore
	}
	if entry == "" {
		return fmt.Errorf("autosave entry name must not be empty")
	}

	kb.autosaveEntry = entry

	value, found, err := r.withNamespace(func() (string, bool, error) {
		return r.store.Load(entry)
	})
	if err != nil {
		return fmt.Errorf("loading autosaved key for %q: %w", kb.name, err)
	}
	if found {
		kb.key = Key(value)
		kb.overridden = true
	}
	kb.lastSavedKey = kb.key

	r.autosaved = append(r.autosaved, kb)
	return nil
}

// autosavePass persists changed key assignments. A keybind that reverted
// to its creation-time default has its entry removed instead. Writes
// happen under the registry's namespace; the store's previous namespace
// is restored right after.
func (r *Registry) autosavePass() {
	if r.store == nil || !r.host {
		return
	}
	for _, kb := range r.autosaved {
		if kb.key == kb.lastSavedKey {
			continue
		}
		_, _, err := r.withNamespace(func() (string, bool, error) {
			if kb.key == kb.defaultKey {
				kb.overridden = false
				return "", false, r.store.Delete(kb.autosaveEntry)
			}
			kb.overridden = true
			return "", false, r.store.Save(kb.autosaveEntry, string(kb.key))
		})
		if err != nil {
			r.log.Error().Err(err).Str("keybind", kb.name).Msg("autosave failed")
			continue
		}
		kb.lastSavedKey = kb.key
	}
}

// withNamespace runs fn with the store switched to the registry's
// namespace, restoring the previous namespace afterwards.
func (r *Registry) withNamespace(fn func() (string, bool, error)) (string, bool, error) {
	prev := r.store.Namespace()
	r.store.SetNamespace(r.storeNS)
	defer r.store.SetNamespace(prev)
	return fn()
}
