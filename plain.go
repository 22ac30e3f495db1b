// FILE: lixenwraith/settings/plain.go
package settings

import (
	"fmt"
)

// mergePolicy controls how a plain structure is applied to a container.
type mergePolicy struct {
	// overwrite replaces values of keys the container already holds
	overwrite bool
	// grow adds keys the container does not hold if they have a default or factory
	grow bool
}

// ToPlain converts the container to a tree of plain maps. Nested containers
// are converted recursively; every other value is passed through the
// container's encoder when one is set.
func (s *Settings) ToPlain() (map[string]any, error) {
	return s.toPlain(make(map[*Settings]bool))
}

func (s *Settings) toPlain(onPath map[*Settings]bool) (map[string]any, error) {
	if onPath[s] {
		return nil, ErrCycle
	}
	onPath[s] = true
	defer delete(onPath, s)

	out := make(map[string]any, s.entries.Len())
	for key, value := range s.entries.All() {
		if nested, ok := value.(*Settings); ok && nested != nil {
			sub, err := nested.toPlain(onPath)
			if err != nil {
				return nil, fmt.Errorf("setting %q: %w", key, err)
			}
			out[key] = sub
			continue
		}

		if s.encoder != nil {
			encoded, err := s.encoder(value)
			if err != nil {
				return nil, fmt.Errorf("failed to encode setting %q: %w", key, err)
			}
			value = encoded
		}
		out[key] = value
	}
	return out, nil
}

// LoadPlain applies a plain structure produced by ToPlain (or parsed from a
// file). Only keys the container already holds are assigned: nested
// containers load their sub-structure recursively, other values are passed
// through the decoder when one is set. Keys the container does not hold are
// ignored.
//
// The structure is checked in full before anything is assigned, so on error
// the container tree is unchanged.
func (s *Settings) LoadPlain(data map[string]any) error {
	return s.applyPlain(data, mergePolicy{overwrite: true})
}

func (s *Settings) applyPlain(data map[string]any, policy mergePolicy) error {
	var writes []func()
	if err := s.planPlain(data, policy, make(map[*Settings]bool), &writes); err != nil {
		return err
	}
	for _, write := range writes {
		write()
	}
	return nil
}

// planPlain validates data against the container and records the writes that
// apply it. Values are decoded here; nothing in the tree changes until the
// writes run.
func (s *Settings) planPlain(data map[string]any, policy mergePolicy, onPath map[*Settings]bool, writes *[]func()) error {
	if onPath[s] {
		return ErrCycle
	}
	onPath[s] = true
	defer delete(onPath, s)

	for _, p := range sortedPairs(data) {
		key, raw := p.key, p.value

		current, exists := s.entries.Peek(key)
		if !exists {
			if !policy.grow || !(s.defaults.Has(key) || s.entries.HasFactory(key)) {
				continue
			}
			current = s.seedContainer(key)
		}

		if nested, ok := current.(*Settings); ok && nested != nil {
			sub, ok := raw.(map[string]any)
			if !ok {
				return fmt.Errorf("%w: setting %q holds %T", ErrNotMapping, key, raw)
			}
			if err := nested.planPlain(sub, policy, onPath, writes); err != nil {
				return fmt.Errorf("setting %q: %w", key, err)
			}
			if !exists {
				*writes = append(*writes, func() { s.entries.Set(key, nested) })
			}
			continue
		}

		if exists && !policy.overwrite {
			continue
		}

		value := raw
		if s.decoder != nil {
			decoded, err := s.decoder(raw)
			if err != nil {
				return fmt.Errorf("failed to decode setting %q: %w", key, err)
			}
			value = decoded
		}
		*writes = append(*writes, func() { s.entries.Set(key, value) })
	}
	return nil
}

// seedContainer returns a fresh container to load key's file content into:
// a copy of key's default when that is a nested container, otherwise the
// factory's result when the factory builds one. It returns nil when key is
// not a nested container.
func (s *Settings) seedContainer(key string) any {
	if def, ok := s.defaults.Peek(key); ok {
		if nested, ok := def.(*Settings); ok && nested != nil {
			return nested.Clone()
		}
		return nil
	}
	if factory, ok := s.entries.Factory(key); ok {
		if nested, ok := factory().(*Settings); ok && nested != nil {
			return nested
		}
	}
	return nil
}
