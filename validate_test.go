// Copyright (c) 2026 QStd Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package conf

import (
	"testing"
	"time"

	"github.com/qstd/conf/confmap"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type decodeConfig struct {
	Debug   bool          `config:"debug"`
	Port    int           `config:"port"`
	Timeout time.Duration `config:"timeout"`
	Started time.Time     `config:"started"`
	Nested  struct {
		Flag bool `config:"flag"`
	} `config:"nested"`
}

type serverConfig struct {
	Host string `config:"host"`
	Port int    `config:"port"`
}

func (c serverConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Host, validation.Required),
		validation.Field(&c.Port, validation.Required, validation.Min(1)),
	)
}

func TestModelValidator_Validate(t *testing.T) {
	t.Run("will coerce raw string values to the field types", func(t *testing.T) {
		v := NewModelValidator[decodeConfig]()

		value, err := v.Validate(confmap.Map{
			"debug":   "true",
			"port":    "8080",
			"timeout": "5s",
			"started": "2026-01-02T15:04:05Z",
			"nested": confmap.Map{
				"flag": "true",
			},
		})
		require.NoError(t, err)

		assert.Equal(t, true, value.Debug)
		assert.Equal(t, 8080, value.Port)
		assert.Equal(t, 5*time.Second, value.Timeout)
		assert.Equal(t, time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC), value.Started)
		assert.Equal(t, true, value.Nested.Flag)
	})

	t.Run("will accept already typed values", func(t *testing.T) {
		v := NewModelValidator[decodeConfig]()

		value, err := v.Validate(confmap.Map{
			"debug": true,
			"port":  8080,
		})
		require.NoError(t, err)
		assert.Equal(t, true, value.Debug)
		assert.Equal(t, 8080, value.Port)
	})

	t.Run("will accept numeric durations as nanoseconds", func(t *testing.T) {
		v := NewModelValidator[decodeConfig]()

		value, err := v.Validate(confmap.Map{
			"timeout": int64(time.Second),
		})
		require.NoError(t, err)
		assert.Equal(t, time.Second, value.Timeout)
	})

	t.Run("will run the model's own validation", func(t *testing.T) {
		v := NewModelValidator[serverConfig]()

		value, err := v.Validate(confmap.Map{
			"host": "localhost",
			"port": 8080,
		})
		require.NoError(t, err)
		assert.Equal(t, "localhost", value.Host)
	})

	t.Run("will return a ValidationError", func(t *testing.T) {
		t.Run("if a value cannot be coerced", func(t *testing.T) {
			v := NewModelValidator[decodeConfig]()

			_, err := v.Validate(confmap.Map{"debug": "not-a-bool"})

			var verr ValidationError
			require.ErrorAs(t, err, &verr)
			require.Len(t, verr.Fields, 1)
			assert.Equal(t, "debug", verr.Fields[0].Path)
		})

		t.Run("if the model rejects the decoded value", func(t *testing.T) {
			v := NewModelValidator[serverConfig]()

			_, err := v.Validate(confmap.Map{})

			var verr ValidationError
			require.ErrorAs(t, err, &verr)
			require.Len(t, verr.Fields, 2)

			assert.Equal(t, "Host", verr.Fields[0].Path)
			assert.Equal(t, "Port", verr.Fields[1].Path)
			assert.Contains(t, verr.Fields[0].Reason, "blank")
		})
	})
}

func TestModelValidator_Encode(t *testing.T) {
	t.Run("will round-trip a validated value through the raw mapping form", func(t *testing.T) {
		v := NewModelValidator[decodeConfig]()

		original, err := v.Validate(confmap.Map{
			"debug":   "true",
			"port":    "8080",
			"timeout": "5s",
			"nested":  confmap.Map{"flag": "true"},
		})
		require.NoError(t, err)

		m, err := v.Encode(original)
		require.NoError(t, err)

		decoded, err := v.Decode(m)
		require.NoError(t, err)
		require.Equal(t, original, decoded)
	})

	t.Run("will encode nested sections as nested mappings", func(t *testing.T) {
		v := NewModelValidator[proxyConfig]()

		m, err := v.Encode(proxyConfig{
			String: "test",
			Nested: proxyNested{Flag: true},
			Labels: map[string]string{"env": "dev"},
		})
		require.NoError(t, err)

		require.Equal(t, confmap.Map{
			"string":   "test",
			"nested":   confmap.Map{"flag": true},
			"labels":   map[string]any{"env": "dev"},
			"optional": nil,
		}, m)
	})
}
