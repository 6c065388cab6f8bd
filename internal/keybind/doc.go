// Package keybind implements the avatar keybind layer: a registry of named
// key bindings with press/release callbacks, bitmask-based state mirroring
// to viewer instances, persisted key assignments, and live tracking of
// vanilla game bindings.
//
// All state lives in an explicit Registry passed by reference; the package
// keeps no globals. The registry is driven from the host's cooperative
// tick/frame loop and is not safe for concurrent use from multiple
// goroutines.
package keybind
