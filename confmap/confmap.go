// Copyright (c) 2026 QStd Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package confmap defines the raw nested mapping which is passed between
// config loaders and the model validator.
package confmap

import "fmt"

// Map is an untyped nested mapping. It is the intermediate representation
// all loaders produce and the model validator consumes.
type Map map[string]any

// UnexpectedValueTypeError represents the situation when a value is
// set below a key which already holds a non-mapping value.
type UnexpectedValueTypeError struct {
	Key string
}

// Error implements the error interface.
func (e UnexpectedValueTypeError) Error() string {
	return fmt.Sprintf("expected key to hold a nested mapping: %s", e.Key)
}

// Set writes value at the given key path, creating intermediate
// mappings as needed.
func (m Map) Set(path []string, value any) error {
	if len(path) == 0 {
		return UnexpectedValueTypeError{Key: ""}
	}
	cur := m
	for _, key := range path[:len(path)-1] {
		old, ok := cur[key]
		if !ok {
			next := make(Map)
			cur[key] = next
			cur = next
			continue
		}

		next, ok := asMap(old)
		if !ok {
			return UnexpectedValueTypeError{Key: key}
		}
		cur = next
	}
	cur[path[len(path)-1]] = value
	return nil
}

// Get reads the value at the given key path. The second return value
// reports whether the full path was present.
func (m Map) Get(path []string) (any, bool) {
	var cur any = m
	for _, key := range path {
		next, ok := asMap(cur)
		if !ok {
			return nil, false
		}
		cur, ok = next[key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// Clone returns a deep copy of the mapping. Nested mappings and slices
// are copied, everything else is carried over as-is.
func (m Map) Clone() Map {
	out := make(Map, len(m))
	for k, v := range m {
		out[k] = CloneValue(v)
	}
	return out
}

// CloneValue deep copies nested mappings and slices within v.
func CloneValue(v any) any {
	switch x := v.(type) {
	case Map:
		return x.Clone()
	case map[string]any:
		return Map(x).Clone()
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = CloneValue(item)
		}
		return out
	default:
		return v
	}
}

func asMap(v any) (Map, bool) {
	switch x := v.(type) {
	case Map:
		return x, true
	case map[string]any:
		return Map(x), true
	default:
		return nil, false
	}
}
