// Copyright (c) 2026 QStd Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/qstd/conf/confmap"

	"gopkg.in/yaml.v3"
)

// ErrNotMapping occurs when a config file decodes to something other
// than a nested mapping, e.g. a bare list or scalar.
var ErrNotMapping = errors.New("top-level content is not a mapping")

// Decoder decodes the text of one config file format into a raw mapping.
type Decoder interface {
	// Extensions returns the file extensions handled by the decoder,
	// including the leading dot.
	Extensions() []string

	Decode(r io.Reader) (confmap.Map, error)
}

// YamlDecoder decodes YAML documents.
type YamlDecoder struct{}

// Extensions implements the Decoder interface.
func (YamlDecoder) Extensions() []string {
	return []string{".yaml", ".yml"}
}

// InvalidYamlError occurs if the underlying io.Reader contains invalid YAML.
type InvalidYamlError struct {
	Cause error
}

// Error implements the error interface.
func (e InvalidYamlError) Error() string {
	return fmt.Sprintf("invalid yaml: %s", e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e InvalidYamlError) Unwrap() error {
	return e.Cause
}

// Decode implements the Decoder interface.
func (YamlDecoder) Decode(r io.Reader) (confmap.Map, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var v any
	err = yaml.Unmarshal(b, &v)
	if err != nil {
		return nil, InvalidYamlError{Cause: err}
	}
	return asMapping(v)
}

// JsonDecoder decodes JSON documents.
type JsonDecoder struct{}

// Extensions implements the Decoder interface.
func (JsonDecoder) Extensions() []string {
	return []string{".json"}
}

// InvalidJsonError occurs if the underlying io.Reader contains invalid JSON.
type InvalidJsonError struct {
	Cause error
}

// Error implements the error interface.
func (e InvalidJsonError) Error() string {
	return fmt.Sprintf("invalid json: %s", e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e InvalidJsonError) Unwrap() error {
	return e.Cause
}

// Decode implements the Decoder interface.
func (JsonDecoder) Decode(r io.Reader) (confmap.Map, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var v any
	err = json.Unmarshal(b, &v)
	if err != nil {
		return nil, InvalidJsonError{Cause: err}
	}
	return asMapping(v)
}

func asMapping(v any) (confmap.Map, error) {
	switch x := v.(type) {
	case nil:
		// An empty file is an empty mapping.
		return make(confmap.Map), nil
	case map[string]any:
		return confmap.Map(x), nil
	case confmap.Map:
		return x, nil
	default:
		return nil, ErrNotMapping
	}
}
