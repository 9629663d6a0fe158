// Copyright (c) 2026 QStd Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package conf

import (
	"fmt"
	"strings"
)

// PathNotExistsError occurs when a resolved config file path does not
// exist on disk.
type PathNotExistsError struct {
	Path  string
	Cause error
}

// Error implements the error interface.
func (e PathNotExistsError) Error() string {
	return fmt.Sprintf("config path does not exist: %s", e.Path)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e PathNotExistsError) Unwrap() error {
	return e.Cause
}

// FieldError is one field-level failure within a ValidationError.
type FieldError struct {
	// Path is the dotted path of the failing field within the raw mapping.
	Path string

	// Reason describes why the field failed validation.
	Reason string
}

// ValidationError carries the per-field failures reported by the model
// validator. A failed validation never partially applies: the
// previously stored configuration value is left untouched.
type ValidationError struct {
	Fields []FieldError
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "invalid configuration"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "invalid configuration (%d fields):", len(e.Fields))
	for _, field := range e.Fields {
		sb.WriteString("\n\t")
		if field.Path != "" {
			sb.WriteString(field.Path)
			sb.WriteString(": ")
		}
		sb.WriteString(field.Reason)
	}
	return sb.String()
}

// AlreadyBoundError occurs when Proxy.Bind is called on a proxy which
// already holds a storage.
type AlreadyBoundError struct{}

// Error implements the error interface.
func (AlreadyBoundError) Error() string {
	return "config storage is already bound"
}

// NotBoundError occurs when a proxy is read before any storage has
// been bound to it.
type NotBoundError struct{}

// Error implements the error interface.
func (NotBoundError) Error() string {
	return "config not initialized yet"
}

// FieldNotFoundError occurs when Proxy.Get is asked for a path the
// configuration value does not contain. It is distinct from
// NotBoundError so callers can tell a missing field from a missing
// storage.
type FieldNotFoundError struct {
	Path string
}

// Error implements the error interface.
func (e FieldNotFoundError) Error() string {
	return fmt.Sprintf("field not found in configuration: %s", e.Path)
}
