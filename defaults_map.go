// FILE: lixenwraith/settings/defaults_map.go
package settings

import (
	"fmt"
	"iter"
	"slices"
)

// DefaultsMap is an insertion-ordered map that can generate values for
// missing keys. Unlike a map with a single default, each factory is paired
// with a predefined key: reading a missing key calls that key's factory and
// caches the result, and reading a key with neither an entry nor a factory
// fails with ErrMissingKey.
//
// A DefaultsMap is not safe for concurrent use.
type DefaultsMap[K comparable, V any] struct {
	entries   map[K]V
	order     []K
	factories map[K]func() V
}

// NewDefaultsMap creates an empty map using the given factories.
// The factories map is copied.
func NewDefaultsMap[K comparable, V any](factories map[K]func() V) *DefaultsMap[K, V] {
	m := &DefaultsMap[K, V]{
		entries:   make(map[K]V),
		factories: make(map[K]func() V, len(factories)),
	}
	for k, f := range factories {
		if f != nil {
			m.factories[k] = f
		}
	}
	return m
}

// Get returns the entry for key. A missing entry is generated by the key's
// factory and stored; the factory is not called again until the entry is
// deleted.
func (m *DefaultsMap[K, V]) Get(key K) (V, error) {
	if v, ok := m.entries[key]; ok {
		return v, nil
	}
	f, ok := m.factories[key]
	if !ok {
		var zero V
		return zero, fmt.Errorf("%w: %v", ErrMissingKey, key)
	}
	v := f()
	m.Set(key, v)
	return v, nil
}

// Peek returns the entry for key without calling a factory.
func (m *DefaultsMap[K, V]) Peek(key K) (V, bool) {
	v, ok := m.entries[key]
	return v, ok
}

// Set stores value under key.
func (m *DefaultsMap[K, V]) Set(key K, value V) {
	if _, ok := m.entries[key]; !ok {
		m.order = append(m.order, key)
	}
	m.entries[key] = value
}

// Delete removes the entry for key. The key's factory is kept, so a later
// Get regenerates the value.
func (m *DefaultsMap[K, V]) Delete(key K) error {
	if _, ok := m.entries[key]; !ok {
		return fmt.Errorf("%w: %v", ErrMissingKey, key)
	}
	delete(m.entries, key)
	if i := slices.Index(m.order, key); i >= 0 {
		m.order = slices.Delete(m.order, i, i+1)
	}
	return nil
}

// Has reports whether key has an entry. Factories are not consulted.
func (m *DefaultsMap[K, V]) Has(key K) bool {
	_, ok := m.entries[key]
	return ok
}

// Len returns the number of entries.
func (m *DefaultsMap[K, V]) Len() int {
	return len(m.order)
}

// Keys returns the entry keys in insertion order.
func (m *DefaultsMap[K, V]) Keys() []K {
	return slices.Clone(m.order)
}

// All iterates over entries in insertion order.
func (m *DefaultsMap[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, k := range m.Keys() {
			v, ok := m.entries[k]
			if !ok {
				continue // deleted during iteration
			}
			if !yield(k, v) {
				return
			}
		}
	}
}

// Clear removes all entries. Factories are kept.
func (m *DefaultsMap[K, V]) Clear() {
	clear(m.entries)
	m.order = m.order[:0]
}

// SetFactory registers the factory used for key. A nil factory removes it.
func (m *DefaultsMap[K, V]) SetFactory(key K, factory func() V) {
	if factory == nil {
		delete(m.factories, key)
		return
	}
	m.factories[key] = factory
}

// Factory returns the factory registered for key.
func (m *DefaultsMap[K, V]) Factory(key K) (func() V, bool) {
	f, ok := m.factories[key]
	return f, ok
}

func (m *DefaultsMap[K, V]) HasFactory(key K) bool {
	_, ok := m.factories[key]
	return ok
}
