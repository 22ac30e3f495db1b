// FILE: lixenwraith/settings/register.go
package settings

import (
	"encoding"
	"fmt"
	"reflect"
	"strings"
)

// structPairs converts a struct holding default values into default pairs in
// field order. Fields are named by their `settings` tag, or by the field
// name; a "-" tag skips the field. Nested structs, and non-nil pointers to
// them, become nested containers that start out holding their fields, so a
// file only needs to name what it changes. Structs implementing
// encoding.TextMarshaler or fmt.Stringer (time.Time, net.IPNet) are kept as
// values. Nil struct pointers are skipped.
func structPairs(defaults any, opts Options) ([]pair, error) {
	v := reflect.ValueOf(defaults)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil, fmt.Errorf("defaults struct must be non-nil, got %T", defaults)
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, fmt.Errorf("defaults must be a struct or struct pointer, got %T", defaults)
	}
	return fieldPairs(v, opts), nil
}

func fieldPairs(v reflect.Value, opts Options) []pair {
	t := v.Type()
	pairs := make([]pair, 0, t.NumField())

	for i := range t.NumField() {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		key, ok := fieldKey(field)
		if !ok {
			continue
		}

		value := v.Field(i)
		if value.Kind() == reflect.Ptr && value.Type().Elem().Kind() == reflect.Struct && !isLeafStruct(value.Type()) {
			if value.IsNil() {
				continue
			}
			value = value.Elem()
		}

		if value.Kind() == reflect.Struct && !isLeafStruct(value.Type()) {
			nestedOpts := Options{AllowNewKeys: opts.AllowNewKeys, Logger: opts.Logger}
			nested := newSettings(nestedOpts, fieldPairs(value, opts), nil, nil)
			pairs = append(pairs, pair{key: key, value: nested})
			continue
		}

		pairs = append(pairs, pair{key: key, value: newCopier().value(value.Interface())})
	}
	return pairs
}

func fieldKey(field reflect.StructField) (string, bool) {
	tag := field.Tag.Get(TagName)
	if tag == "-" {
		return "", false
	}
	if name, _, _ := strings.Cut(tag, ","); name != "" {
		return name, true
	}
	return field.Name, true
}

var (
	textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
	stringerType      = reflect.TypeOf((*fmt.Stringer)(nil)).Elem()
)

// isLeafStruct reports whether a struct type is a single value rather than a
// group of settings.
func isLeafStruct(t reflect.Type) bool {
	if t.Kind() != reflect.Ptr {
		t = reflect.PointerTo(t)
	}
	return t.Implements(textMarshalerType) || t.Implements(stringerType)
}
