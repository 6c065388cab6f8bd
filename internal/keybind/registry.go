package keybind

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Tick cadences, in ticks at 20 ticks per second.
const (
	// AutosaveInterval is how often persisted key assignments are
	// reconciled (once per second).
	AutosaveInterval = 20

	// WatchInterval is how often vanilla bindings are re-read (4 times
	// per second).
	WatchInterval = 5
)

// Store is a namespaced persistent key-value store, the shape of the
// runtime's config API.
type Store interface {
	// SetNamespace switches the active namespace.
	SetNamespace(name string)
	// Namespace returns the active namespace.
	Namespace() string
	// Load reads a value; the bool reports whether the entry exists.
	Load(key string) (string, bool, error)
	// Save writes a value into the active namespace.
	Save(key, value string) error
	// Delete removes an entry from the active namespace.
	Delete(key string) error
}

// VanillaProvider resolves the live key assignment of a vanilla (built-in)
// binding. The bool reports whether the id is known.
type VanillaProvider interface {
	VanillaKey(id string) (Key, bool)
}

// Registry owns all keybinds of one script instance and drives the
// networking, autosave and watch passes. It replaces the original
// script's module-level caches with one explicit object.
type Registry struct {
	log zerolog.Logger

	host      bool
	transport Transport
	store     Store
	storeNS   string
	vanilla   VanillaProvider

	byName map[string]*Keybind
	order  []*Keybind

	// networked is indexed by slot; lastMasks is the state of the most
	// recent broadcast, recvMasks the viewer-side cache.
	networked []*Keybind
	lastMasks []uint32
	recvMasks []uint32
	netDirty  bool

	autosaved []*Keybind
	watched   []*Keybind
}

// Option configures a Registry.
type Option func(*Registry)

// WithHost marks this instance as the privileged host. Only the host
// broadcasts state and writes the persistent store.
func WithHost(host bool) Option {
	return func(r *Registry) {
		r.host = host
	}
}

// WithTransport sets the broadcast transport.
func WithTransport(t Transport) Option {
	return func(r *Registry) {
		r.transport = t
	}
}

// WithStore sets the persistent store and the namespace keybind entries
// are written under.
func WithStore(s Store, namespace string) Option {
	return func(r *Registry) {
		r.store = s
		r.storeNS = namespace
	}
}

// WithVanillaProvider sets the vanilla binding provider.
func WithVanillaProvider(p VanillaProvider) Option {
	return func(r *Registry) {
		r.vanilla = p
	}
}

// WithLogger sets the registry logger.
func WithLogger(log zerolog.Logger) Option {
	return func(r *Registry) {
		r.log = log
	}
}

// NewRegistry creates an empty keybind registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		log:    zerolog.Nop(),
		byName: make(map[string]*Keybind),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewKeybind registers a keybind with an explicit default key.
func (r *Registry) NewKeybind(name string, key Key) (*Keybind, error) {
	if name == "" {
		return nil, fmt.Errorf("keybind name must not be empty")
	}
	if _, dup := r.byName[name]; dup {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	kb := &Keybind{
		reg:          r,
		name:         name,
		key:          key,
		defaultKey:   key,
		slot:         -1,
		lastSavedKey: key,
	}
	r.byName[name] = kb
	r.order = append(r.order, kb)
	return kb, nil
}

// FromVanilla registers a keybind whose default is the current assignment
// of a vanilla binding. The key read at creation time is what Reset
// restores.
func (r *Registry) FromVanilla(name, vanillaID string) (*Keybind, error) {
	if r.vanilla == nil {
		return nil, ErrNoVanillaProvider
	}
	key, ok := r.vanilla.VanillaKey(vanillaID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVanilla, vanillaID)
	}
	kb, err := r.NewKeybind(name, key)
	if err != nil {
		return nil, err
	}
	kb.vanillaID = vanillaID
	return kb, nil
}

// Get returns a keybind by name, or nil.
func (r *Registry) Get(name string) *Keybind {
	return r.byName[name]
}

// Keybinds returns all keybinds in registration order.
func (r *Registry) Keybinds() []*Keybind {
	out := make([]*Keybind, len(r.order))
	copy(out, r.order)
	return out
}

// IsHost reports whether this is the privileged instance.
func (r *Registry) IsHost() bool {
	return r.host
}

// Reset restores a keybind to its creation-time key. The next autosave
// pass removes any persisted override.
func (r *Registry) Reset(kb *Keybind) error {
	if err := r.owns(kb); err != nil {
		return err
	}
	kb.key = kb.defaultKey
	kb.overridden = false
	return nil
}

// Tick runs the periodic passes for the given tick counter. It must be
// called once per game tick from the cooperative loop.
func (r *Registry) Tick(tick uint64) {
	if tick%WatchInterval == 0 {
		r.watchPass()
	}
	if tick%AutosaveInterval == 0 {
		r.autosavePass()
	}
}

// owns verifies kb was created through this registry. Operating on a
// foreign keybind is a programming error per the failure contract; callers
// surface it fatally and never retry.
func (r *Registry) owns(kb *Keybind) error {
	if kb == nil || kb.reg != r {
		return ErrNotRegistered
	}
	return nil
}
