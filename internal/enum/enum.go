// Package enum provides read-only enumerations with stable iteration order.
//
// An Enum is a frozen view over a set of named values. Writes are not
// possible through the API, and iteration always follows declaration
// order. A copying enum additionally hands out a fresh copy of the value
// on every read, so shared mutable presets cannot be altered by callers.
package enum

import (
	"errors"
	"fmt"
)

// ErrUnknownName is returned when a lookup name is not part of the enum.
var ErrUnknownName = errors.New("unknown enum name")

// Pair is one named value of an enum, in declaration order.
type Pair[V any] struct {
	Name  string
	Value V
}

// Enum is a read-only set of named values.
type Enum[V any] struct {
	pairs []Pair[V]
	index map[string]int

	// copyFn, when set, is applied to every value read so callers never
	// see the backing value itself.
	copyFn func(V) V
}

// New builds an enum from pairs. Duplicate names are a programming error
// and panic immediately.
func New[V any](pairs ...Pair[V]) *Enum[V] {
	e := &Enum[V]{
		pairs: pairs,
		index: make(map[string]int, len(pairs)),
	}
	for i, p := range pairs {
		if _, dup := e.index[p.Name]; dup {
			panic(fmt.Sprintf("enum: duplicate name %q", p.Name))
		}
		e.index[p.Name] = i
	}
	return e
}

// NewCopying builds an enum whose values are passed through copyFn on
// every read.
func NewCopying[V any](copyFn func(V) V, pairs ...Pair[V]) *Enum[V] {
	if copyFn == nil {
		panic("enum: nil copy function")
	}
	e := New(pairs...)
	e.copyFn = copyFn
	return e
}

// Get returns the value for name.
func (e *Enum[V]) Get(name string) (V, error) {
	i, ok := e.index[name]
	if !ok {
		var zero V
		return zero, fmt.Errorf("%w: %q", ErrUnknownName, name)
	}
	return e.read(i), nil
}

// Has reports whether name is part of the enum.
func (e *Enum[V]) Has(name string) bool {
	_, ok := e.index[name]
	return ok
}

// Len returns the number of values.
func (e *Enum[V]) Len() int {
	return len(e.pairs)
}

// Names returns all names in declaration order.
func (e *Enum[V]) Names() []string {
	names := make([]string, len(e.pairs))
	for i, p := range e.pairs {
		names[i] = p.Name
	}
	return names
}

// Each calls fn for every pair in declaration order. Values go through the
// copy function when one is set. Iteration stops when fn returns false.
func (e *Enum[V]) Each(fn func(name string, value V) bool) {
	for i, p := range e.pairs {
		if !fn(p.Name, e.read(i)) {
			return
		}
	}
}

// IsCopying reports whether reads hand out copies.
func (e *Enum[V]) IsCopying() bool {
	return e.copyFn != nil
}

func (e *Enum[V]) read(i int) V {
	v := e.pairs[i].Value
	if e.copyFn != nil {
		return e.copyFn(v)
	}
	return v
}
