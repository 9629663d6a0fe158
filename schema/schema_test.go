// Copyright (c) 2026 QStd Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package schema

import (
	"reflect"
	"strings"
	"testing"

	"github.com/qstd/conf/confmap"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nestedConfig struct {
	Flag bool `config:"flag" default:"false" desc:"Nested flag"`
}

type appConfig struct {
	Debug  bool         `config:"debug" env:"DEBUG_OVERRIDE" default:"false"`
	String string       `config:"string" default:"string"`
	Nested nestedConfig `config:"nested"`
}

type optionalConfig struct {
	Database *nestedConfig `config:"database"`
	Fallback *nestedConfig `config:"fallback,expand"`
}

func TestFor(t *testing.T) {
	t.Run("will emit one entry per leaf field in declaration order", func(t *testing.T) {
		fields := For[appConfig]("APP")
		require.Len(t, fields, 3)

		assert.Equal(t, "DEBUG_OVERRIDE", fields[0].Name)
		assert.Equal(t, "APP_STRING", fields[1].Name)
		assert.Equal(t, "APP_NESTED_FLAG", fields[2].Name)

		assert.Equal(t, []string{"debug"}, fields[0].FieldPath)
		assert.Equal(t, []string{"string"}, fields[1].FieldPath)
		assert.Equal(t, []string{"nested", "flag"}, fields[2].FieldPath)
	})

	t.Run("will synthesize names from the field path for fields without an override", func(t *testing.T) {
		fields := For[appConfig]("my-app")

		for _, field := range fields {
			if field.Name == "DEBUG_OVERRIDE" {
				continue
			}

			parts := make([]string, 0, len(field.FieldPath)+1)
			parts = append(parts, UnifyName("my-app"))
			for _, segment := range field.FieldPath {
				parts = append(parts, UnifyName(segment))
			}
			assert.Equal(t, strings.Join(parts, "_"), field.Name)
		}
	})

	t.Run("will synthesize unprefixed names when the prefix is empty", func(t *testing.T) {
		fields := For[appConfig]("")
		require.Len(t, fields, 3)

		assert.Equal(t, "STRING", fields[1].Name)
		assert.Equal(t, "NESTED_FLAG", fields[2].Name)
	})

	t.Run("will treat optional nested configuration as a container level leaf", func(t *testing.T) {
		fields := For[optionalConfig]("")

		require.Len(t, fields, 3)
		assert.Equal(t, "DATABASE", fields[0].Name)
		assert.Equal(t, []string{"database"}, fields[0].FieldPath)
	})

	t.Run("will emit both container and sub-fields for expand tagged fields", func(t *testing.T) {
		fields := For[optionalConfig]("")
		require.Len(t, fields, 3)

		assert.Equal(t, "FALLBACK", fields[1].Name)
		assert.Equal(t, []string{"fallback"}, fields[1].FieldPath)

		assert.Equal(t, "FALLBACK_FLAG", fields[2].Name)
		assert.Equal(t, []string{"fallback", "flag"}, fields[2].FieldPath)
	})

	t.Run("will carry defaults and descriptions from tags", func(t *testing.T) {
		fields := For[appConfig]("APP")

		require.True(t, fields[0].HasDefault)
		assert.Equal(t, "false", fields[0].Default)

		assert.Equal(t, "Nested flag", fields[2].Description)
	})

	t.Run("will skip unexported and excluded fields", func(t *testing.T) {
		type config struct {
			Kept     string `config:"kept"`
			Excluded string `config:"-"`
			hidden   string
		}

		fields := For[config]("")
		require.Len(t, fields, 1)
		assert.Equal(t, "KEPT", fields[0].Name)

		_ = config{hidden: ""}
	})
}

func TestUnifyName(t *testing.T) {
	testCases := []struct {
		name     string
		in       string
		expected string
	}{
		{"lowercase", "debug", "DEBUG"},
		{"dashes", "my-app", "MY_APP"},
		{"dots and spaces", "a.b c", "A_B_C"},
		{"digits survive", "v2ray", "V2RAY"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, UnifyName(tc.in))
		})
	}
}

func TestDefaults(t *testing.T) {
	t.Run("will collect tag declared defaults as raw strings", func(t *testing.T) {
		fields := For[appConfig]("APP")

		m := Defaults(fields)
		require.Equal(t, confmap.Map{
			"debug":  "false",
			"string": "string",
			"nested": confmap.Map{
				"flag": "false",
			},
		}, m)
	})
}

func TestRenderEnvHelp(t *testing.T) {
	t.Run("will render one line per field", func(t *testing.T) {
		fields := For[appConfig]("APP")

		help := RenderEnvHelp(fields)
		expected := strings.Join([]string{
			"DEBUG_OVERRIDE (bool) [default: false]",
			"APP_STRING (string) [default: string]",
			"APP_NESTED_FLAG (bool) - Nested flag [default: false]",
		}, "\n")
		require.Equal(t, expected, help)
	})

	t.Run("will omit the default section for fields without one", func(t *testing.T) {
		type config struct {
			Value int `config:"value"`
		}

		help := RenderEnvHelp(For[config](""))
		require.Equal(t, "VALUE (int)", help)
	})
}

func TestFieldKey(t *testing.T) {
	type config struct {
		Tagged   string `config:"custom"`
		Untagged string
	}

	ct := reflect.TypeOf(config{})

	name, ok := FieldKey(ct.Field(0))
	require.True(t, ok)
	assert.Equal(t, "custom", name)

	name, ok = FieldKey(ct.Field(1))
	require.True(t, ok)
	assert.Equal(t, "untagged", name)
}
