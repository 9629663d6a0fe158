// Copyright (c) 2026 QStd Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package loader

import (
	"os"

	"github.com/qstd/conf/confmap"
	"github.com/qstd/conf/schema"
)

// Env reads environment variables for every bindable field of a
// configuration type. Values are written into the raw mapping as raw
// strings; coercion is left entirely to the model validator.
type Env struct {
	fields []schema.EnvironmentField
	lookup func(string) (string, bool)
	used   []string
}

// NewEnv returns an Env loader for the configuration type T. The
// prefix, when non-empty, participates in synthesized variable names.
func NewEnv[T any](prefix string) *Env {
	return NewEnvFromFields(schema.For[T](prefix))
}

// NewEnvFromFields returns an Env loader over an already compiled
// field list.
func NewEnvFromFields(fields []schema.EnvironmentField) *Env {
	return &Env{
		fields: fields,
		lookup: os.LookupEnv,
	}
}

// Load implements the Loader interface.
func (l *Env) Load() (confmap.Map, error) {
	m := make(confmap.Map)
	used := make([]string, 0, len(l.fields))
	for _, field := range l.fields {
		value, ok := l.lookup(field.Name)
		if !ok {
			continue
		}
		err := m.Set(field.FieldPath, value)
		if err != nil {
			return nil, err
		}
		used = append(used, field.Name)
	}
	l.used = used
	return m, nil
}

// Fields returns the compiled environment field list.
func (l *Env) Fields() []schema.EnvironmentField {
	return l.fields
}

// Used returns the names of the variables consumed by the last Load
// call, for diagnostics.
func (l *Env) Used() []string {
	return l.used
}
