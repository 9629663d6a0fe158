// Copyright (c) 2026 QStd Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package schema introspects configuration struct types and compiles the
// list of environment-bindable leaf fields.
//
// A configuration type is a plain struct whose fields may carry the
// following tags:
//
//	config:"name[,expand]"  key used in the raw mapping (default: lowercased field name)
//	env:"NAME"              explicit environment variable name, used verbatim
//	default:"value"         declared default, applied at lowest precedence
//	desc:"text"             human readable description for --env-help
//	examples:"a,b"          example values
//
// Nested struct fields are descended into and produce no entry of their
// own. Pointer-to-struct fields are treated as optional nested
// configuration and emitted as a single opaque leaf; adding the "expand"
// tag option emits both the opaque leaf and the drilled-down sub-fields.
package schema

import (
	"reflect"
	"strings"
	"time"

	"github.com/qstd/conf/confmap"
)

// EnvironmentField describes one environment-bindable configuration
// attribute. Values are immutable once built.
type EnvironmentField struct {
	// Title is the display name of the field.
	Title string

	// Name is the environment variable bound to the field.
	Name string

	// FieldPath is the ordered list of raw mapping keys from the root
	// to this field.
	FieldPath []string

	// Type is the declared Go type of the field.
	Type reflect.Type

	// Default is the declared default value, when HasDefault is true.
	Default    string
	HasDefault bool

	// Description and Examples carry optional documentation metadata.
	Description string
	Examples    []string
}

// For compiles the environment field list for the configuration type T.
// The list is ordered by field declaration, depth-first into nested
// types. An empty prefix synthesizes unprefixed names.
func For[T any](prefix string) []EnvironmentField {
	return Build(reflect.TypeOf((*T)(nil)).Elem(), prefix)
}

// Build is the non-generic form of [For].
func Build(t reflect.Type, prefix string) []EnvironmentField {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}

	var envPath []string
	if prefix != "" {
		envPath = []string{prefix}
	}
	var fields []EnvironmentField
	walk(t, nil, envPath, &fields)
	return fields
}

func walk(t reflect.Type, fieldPath, envPath []string, out *[]EnvironmentField) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		name, ok := FieldKey(field)
		if !ok {
			continue
		}
		_, opts := parseTag(field.Tag.Get("config"))

		path := appendPath(fieldPath, name)
		names := appendPath(envPath, name)

		switch {
		case isNestedType(field.Type):
			walk(field.Type, path, names, out)
		case field.Type.Kind() == reflect.Pointer && isNestedType(field.Type.Elem()):
			// Optional nested configuration binds as one opaque value
			// at the container level.
			*out = append(*out, leaf(field, path, names))
			if opts.expand {
				walk(field.Type.Elem(), path, names, out)
			}
		default:
			*out = append(*out, leaf(field, path, names))
		}
	}
}

func leaf(field reflect.StructField, path, names []string) EnvironmentField {
	name := field.Tag.Get("env")
	if name == "" {
		name = joinEnvName(names)
	}

	def, hasDef := field.Tag.Lookup("default")

	var examples []string
	if ex := field.Tag.Get("examples"); ex != "" {
		examples = strings.Split(ex, ",")
	}

	return EnvironmentField{
		Title:       field.Name,
		Name:        name,
		FieldPath:   path,
		Type:        field.Type,
		Default:     def,
		HasDefault:  hasDef,
		Description: field.Tag.Get("desc"),
		Examples:    examples,
	}
}

// Defaults collects the tag-declared defaults of the given fields into
// a raw mapping. Values are kept as raw strings; coercion is left to
// the model validator.
func Defaults(fields []EnvironmentField) confmap.Map {
	m := make(confmap.Map)
	for _, field := range fields {
		if !field.HasDefault {
			continue
		}
		// Set only fails when an ancestor key holds a scalar, which
		// cannot happen for paths derived from one struct type.
		_ = m.Set(field.FieldPath, field.Default)
	}
	return m
}

// UnifyName converts an arbitrary name into environment variable form:
// uppercased with every non-alphanumeric rune replaced by an underscore.
func UnifyName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - ('a' - 'A')
		case (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'):
			return r
		default:
			return '_'
		}
	}, name)
}

func joinEnvName(names []string) string {
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = UnifyName(name)
	}
	return strings.Join(parts, "_")
}

// FieldKey returns the raw mapping key of a struct field: the config
// tag name when present, the lowercased field name otherwise. The
// second return value is false for unexported or tag-excluded fields.
func FieldKey(field reflect.StructField) (string, bool) {
	if !field.IsExported() {
		return "", false
	}
	name, _ := parseTag(field.Tag.Get("config"))
	if name == "-" {
		return "", false
	}
	if name == "" {
		name = strings.ToLower(field.Name)
	}
	return name, true
}

type tagOptions struct {
	expand bool
}

func parseTag(tag string) (string, tagOptions) {
	name, rest, _ := strings.Cut(tag, ",")
	var opts tagOptions
	for rest != "" {
		var opt string
		opt, rest, _ = strings.Cut(rest, ",")
		if opt == "expand" {
			opts.expand = true
		}
	}
	return name, opts
}

var timeType = reflect.TypeOf(time.Time{})

func isNestedType(t reflect.Type) bool {
	return t.Kind() == reflect.Struct && t != timeType
}

func appendPath(path []string, name string) []string {
	next := make([]string, 0, len(path)+1)
	next = append(next, path...)
	return append(next, name)
}
