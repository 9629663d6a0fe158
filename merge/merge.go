// Copyright (c) 2026 QStd Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package merge provides strategies for combining raw configuration mappings.
package merge

import "github.com/qstd/conf/confmap"

// Strategy combines two raw mappings into one. Implementations must
// never mutate either input.
type Strategy interface {
	Merge(base, override confmap.Map) confmap.Map
}

// Deep merges mappings recursively: when both sides hold a nested
// mapping under the same key, the mappings are merged; any other value
// from the override replaces the base value wholesale. Scalars, slices
// and mismatched types are never merged element-wise.
type Deep struct{}

// Merge implements the Strategy interface.
func (d Deep) Merge(base, override confmap.Map) confmap.Map {
	merged := base.Clone()
	for key, value := range override {
		baseNested, baseOk := asMap(merged[key])
		overrideNested, overrideOk := asMap(value)
		if baseOk && overrideOk {
			merged[key] = d.Merge(baseNested, overrideNested)
			continue
		}
		merged[key] = confmap.CloneValue(value)
	}
	return merged
}

func asMap(v any) (confmap.Map, bool) {
	switch x := v.(type) {
	case confmap.Map:
		return x, true
	case map[string]any:
		return confmap.Map(x), true
	default:
		return nil, false
	}
}
