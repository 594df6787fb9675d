// SPDX-License-Identifier: Apache-2.0

package winevent

import (
	"fmt"
	"strconv"
)

// Map is an insertion-ordered string-keyed mapping. The whole record
// tree is built from Map values so that serialization can reproduce
// the source ordering, which downstream consumers compare byte for
// byte. Values are scalars (string, bool, numeric), *Map, or []any.
type Map struct {
	keys []string
	vals map[string]any
}

func NewMap() *Map {
	return &Map{vals: make(map[string]any)}
}

// Set stores a value under key, appending the key to the order on
// first insert. It returns the Map to allow chained construction.
func (m *Map) Set(key string, value any) *Map {
	if _, ok := m.vals[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.vals[key] = value
	return m
}

func (m *Map) Get(key string) (any, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.vals[key]
	return v, ok
}

func (m *Map) Has(key string) bool {
	if m == nil {
		return false
	}
	_, ok := m.vals[key]
	return ok
}

func (m *Map) Delete(key string) {
	if _, ok := m.vals[key]; !ok {
		return
	}
	delete(m.vals, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order. The returned slice is a
// copy and safe to modify.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

func (m *Map) Len() int {
	return len(m.keys)
}

// childMap returns the value under key as a *Map, or nil if the key is
// absent or holds a non-mapping value.
func (m *Map) childMap(key string) *Map {
	v, ok := m.Get(key)
	if !ok {
		return nil
	}
	child, _ := v.(*Map)
	return child
}

// stringValue renders a scalar the way it appeared in the source:
// strings pass through, everything else via fmt.
func stringValue(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprintf("%v", v)
	}
}

// intValue coerces the scalar representations a decoded document can
// carry (native integers, floats that hold integral values, numeric
// strings) into an int64.
func intValue(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case uint:
		return int64(n), nil
	case uint8:
		return int64(n), nil
	case uint16:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case uint64:
		if n > 1<<63-1 {
			return 0, fmt.Errorf("value %d overflows int64", n)
		}
		return int64(n), nil
	case float64:
		if n != float64(int64(n)) {
			return 0, fmt.Errorf("value %v is not an integer", n)
		}
		return int64(n), nil
	case string:
		parsed, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("value %q is not an integer", n)
		}
		return parsed, nil
	default:
		return 0, fmt.Errorf("value %v (%T) is not an integer", v, v)
	}
}
