// FILE: lixenwraith/settings/convenience.go
package settings

import (
	"fmt"
	"reflect"
	"strings"
)

// Lookup retrieves a setting by dotted path, descending into nested
// containers ("window.size" reads "size" from the container stored under
// "window"). A key that itself contains dots is matched exactly first.
func (s *Settings) Lookup(path string) (any, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrMissingKey)
	}
	if s.entries.Has(path) || s.entries.HasFactory(path) {
		return s.Get(path)
	}

	head, rest, found := strings.Cut(path, ".")
	if !found {
		return s.Get(path)
	}
	value, err := s.Get(head)
	if err != nil {
		return nil, err
	}
	nested, ok := value.(*Settings)
	if !ok || nested == nil {
		return nil, fmt.Errorf("%w: %q is not a settings container", ErrMissingKey, head)
	}
	return nested.Lookup(rest)
}

// Quick creates a container whose defaults come from a tagged struct and
// loads path, falling back to those defaults when the file is unusable.
func Quick(defaults any, path string) (*Settings, error) {
	return NewBuilder().
		WithDefaultsStruct(defaults).
		WithFile(path).
		WithLoad(FallbackDefaults, true).
		Build()
}

// Clone creates a deep copy of the container: settings, defaults, factories
// and options. Nested containers are cloned, shared nested containers stay
// shared within the copy.
func (s *Settings) Clone() *Settings {
	return newCopier().settings(s)
}

// copier deep-copies setting values. Maps and slices are copied element by
// element; other values, including pointers, are shared.
type copier struct {
	seen map[*Settings]*Settings
}

func newCopier() *copier {
	return &copier{seen: make(map[*Settings]*Settings)}
}

func (c *copier) settings(s *Settings) *Settings {
	if dup, ok := c.seen[s]; ok {
		return dup
	}

	dup := &Settings{
		entries:      NewDefaultsMap(s.entries.factories),
		defaults:     NewDefaultsMap[string, any](nil),
		filePath:     s.filePath,
		format:       s.format,
		promptAll:    s.promptAll,
		allowNewKeys: s.allowNewKeys,
		encoder:      s.encoder,
		decoder:      s.decoder,
		logger:       s.logger,
	}
	c.seen[s] = dup

	for key, value := range s.entries.All() {
		dup.entries.Set(key, c.value(value))
	}
	for key, value := range s.defaults.All() {
		dup.defaults.Set(key, c.value(value))
	}
	return dup
}

func (c *copier) value(v any) any {
	if nested, ok := v.(*Settings); ok {
		if nested == nil {
			return v
		}
		return c.settings(nested)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		if rv.IsNil() {
			return v
		}
		out := reflect.MakeMapWithSize(rv.Type(), rv.Len())
		elem := rv.Type().Elem()
		iter := rv.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), c.reflectValue(iter.Value(), elem))
		}
		return out.Interface()
	case reflect.Slice:
		if rv.IsNil() {
			return v
		}
		out := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		elem := rv.Type().Elem()
		for i := range rv.Len() {
			out.Index(i).Set(c.reflectValue(rv.Index(i), elem))
		}
		return out.Interface()
	default:
		return v
	}
}

func (c *copier) reflectValue(v reflect.Value, t reflect.Type) reflect.Value {
	copied := c.value(v.Interface())
	if copied == nil {
		return reflect.Zero(t)
	}
	return reflect.ValueOf(copied)
}

// Debug returns a formatted string showing every setting with its default.
func (s *Settings) Debug() string {
	var b strings.Builder
	b.WriteString("Settings Debug Info:\n")
	if s.filePath != "" {
		b.WriteString(fmt.Sprintf("File: %s (%s)\n", s.filePath, resolveFormat(s.filePath, s.format)))
	}
	s.debug(&b, "  ", make(map[*Settings]bool))
	return b.String()
}

func (s *Settings) debug(b *strings.Builder, indent string, onPath map[*Settings]bool) {
	onPath[s] = true
	defer delete(onPath, s)

	for key, value := range s.entries.All() {
		b.WriteString(fmt.Sprintf("%s%s:\n", indent, key))
		if nested, ok := value.(*Settings); ok && nested != nil {
			if onPath[nested] {
				b.WriteString(fmt.Sprintf("%s  (cycle)\n", indent))
				continue
			}
			nested.debug(b, indent+"  ", onPath)
			continue
		}
		b.WriteString(fmt.Sprintf("%s  Current: %v\n", indent, value))
		if def, ok := s.defaults.Peek(key); ok {
			b.WriteString(fmt.Sprintf("%s  Default: %v\n", indent, def))
		}
		if s.entries.HasFactory(key) {
			b.WriteString(fmt.Sprintf("%s  Factory: registered\n", indent))
		}
	}
}
