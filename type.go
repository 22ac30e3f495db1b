// FILE: lixenwraith/settings/type.go
package settings

import (
	"fmt"
	"math"
	"strconv"
)

// String returns the setting at a dotted path as a string. Numbers, booleans,
// byte slices and fmt.Stringer values are formatted; nil reads as "".
func (s *Settings) String(path string) (string, error) {
	return typed(s, path, toString)
}

// Int64 returns the setting at a dotted path as an int64. Integral floats
// (JSON numbers) and numeric strings are accepted.
func (s *Settings) Int64(path string) (int64, error) {
	return typed(s, path, toInt64)
}

// Bool returns the setting at a dotted path as a bool. Strings are parsed
// with strconv.ParseBool and integers are true when non-zero.
func (s *Settings) Bool(path string) (bool, error) {
	return typed(s, path, toBool)
}

// Float64 returns the setting at a dotted path as a float64.
func (s *Settings) Float64(path string) (float64, error) {
	return typed(s, path, toFloat64)
}

func typed[T any](s *Settings, path string, convert func(any) (T, error)) (T, error) {
	value, err := s.Lookup(path)
	if err != nil {
		var zero T
		return zero, err
	}
	out, err := convert(value)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("setting %s: %w", path, err)
	}
	return out, nil
}

func toString(value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case bool:
		return strconv.FormatBool(v), nil
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case fmt.Stringer:
		return v.String(), nil
	}
	if i, ok := asInt64(value); ok {
		return strconv.FormatInt(i, 10), nil
	}
	if u, ok := value.(uint64); ok {
		return strconv.FormatUint(u, 10), nil
	}
	return "", fmt.Errorf("cannot convert %T to string", value)
}

func toInt64(value any) (int64, error) {
	if i, ok := asInt64(value); ok {
		return i, nil
	}
	switch v := value.(type) {
	case uint64:
		return 0, fmt.Errorf("cannot convert %d to int64: overflow", v)
	case float32:
		return toInt64(float64(v))
	case float64:
		if v != math.Trunc(v) || v < math.MinInt64 || v >= math.MaxInt64 {
			return 0, fmt.Errorf("cannot convert %v to int64: not an integer", v)
		}
		return int64(v), nil
	case string:
		i, err := strconv.ParseInt(v, 0, 64)
		if err != nil {
			return 0, fmt.Errorf("cannot convert %q to int64: %w", v, err)
		}
		return i, nil
	}
	return 0, fmt.Errorf("cannot convert %T to int64", value)
}

func toBool(value any) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		b, err := strconv.ParseBool(v)
		if err != nil {
			return false, fmt.Errorf("cannot convert %q to bool: %w", v, err)
		}
		return b, nil
	case uint64:
		return v != 0, nil
	}
	if i, ok := asInt64(value); ok {
		return i != 0, nil
	}
	return false, fmt.Errorf("cannot convert %T to bool", value)
}

func toFloat64(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, fmt.Errorf("cannot convert %q to float64: %w", v, err)
		}
		return f, nil
	}
	if i, ok := asInt64(value); ok {
		return float64(i), nil
	}
	return 0, fmt.Errorf("cannot convert %T to float64", value)
}

// asInt64 widens every integer type except uint64, which may overflow.
func asInt64(value any) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint:
		if uint64(v) > math.MaxInt64 {
			return 0, false
		}
		return int64(v), true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint64:
		if v > math.MaxInt64 {
			return 0, false
		}
		return int64(v), true
	}
	return 0, false
}
