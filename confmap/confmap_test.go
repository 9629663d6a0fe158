// Copyright (c) 2026 QStd Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package confmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMap_Set(t *testing.T) {
	t.Run("will create intermediate mappings", func(t *testing.T) {
		m := make(Map)

		err := m.Set([]string{"nested", "deep", "flag"}, "true")
		require.NoError(t, err)

		require.Equal(t, Map{
			"nested": Map{
				"deep": Map{
					"flag": "true",
				},
			},
		}, m)
	})

	t.Run("will reuse existing intermediate mappings", func(t *testing.T) {
		m := Map{
			"nested": Map{"kept": 1},
		}

		err := m.Set([]string{"nested", "flag"}, true)
		require.NoError(t, err)

		require.Equal(t, Map{
			"nested": Map{"kept": 1, "flag": true},
		}, m)
	})

	t.Run("will return an error", func(t *testing.T) {
		t.Run("if an intermediate key holds a scalar", func(t *testing.T) {
			m := Map{"nested": "scalar"}

			err := m.Set([]string{"nested", "flag"}, true)

			var uerr UnexpectedValueTypeError
			require.ErrorAs(t, err, &uerr)
			assert.Equal(t, "nested", uerr.Key)
		})

		t.Run("if the path is empty", func(t *testing.T) {
			m := make(Map)

			err := m.Set(nil, true)
			require.Error(t, err)
		})
	})
}

func TestMap_Get(t *testing.T) {
	m := Map{
		"debug": true,
		"nested": Map{
			"flag": false,
		},
		"plain": map[string]any{
			"value": 1,
		},
	}

	testCases := []struct {
		name     string
		path     []string
		expected any
		found    bool
	}{
		{
			name:     "top level key",
			path:     []string{"debug"},
			expected: true,
			found:    true,
		},
		{
			name:     "nested key",
			path:     []string{"nested", "flag"},
			expected: false,
			found:    true,
		},
		{
			name:     "nested key within plain map",
			path:     []string{"plain", "value"},
			expected: 1,
			found:    true,
		},
		{
			name:  "missing key",
			path:  []string{"missing"},
			found: false,
		},
		{
			name:  "path through scalar",
			path:  []string{"debug", "deeper"},
			found: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v, ok := m.Get(tc.path)
			require.Equal(t, tc.found, ok)
			if tc.found {
				require.Equal(t, tc.expected, v)
			}
		})
	}
}

func TestMap_Clone(t *testing.T) {
	t.Run("will deep copy nested mappings and slices", func(t *testing.T) {
		m := Map{
			"nested": Map{"flag": true},
			"list":   []any{1, Map{"inner": "a"}},
		}

		clone := m.Clone()
		require.Equal(t, m, clone)

		clone["nested"].(Map)["flag"] = false
		clone["list"].([]any)[0] = 99

		assert.Equal(t, true, m["nested"].(Map)["flag"])
		assert.Equal(t, 1, m["list"].([]any)[0])
	})
}
