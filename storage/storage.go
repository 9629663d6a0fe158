// Copyright (c) 2026 QStd Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package storage holds the current validated configuration value and
// defines how updates become visible to readers.
package storage

import (
	"fmt"

	"github.com/qstd/conf/confmap"
)

// Storage owns the current validated configuration value. The value is
// replaced wholesale on each update, never mutated field by field.
type Storage[T any] interface {
	// Current returns the value visible to this process.
	Current() (T, error)

	// Update replaces the current value.
	Update(value T) error

	// Initialized reports whether the storage is ready to serve
	// cross-process reads. In-memory storage is always initialized.
	Initialized() bool
}

// Codec converts a validated value to and from its raw mapping form,
// for transport through a shared context.
type Codec[T any] interface {
	Encode(value T) (confmap.Map, error)
	Decode(m confmap.Map) (T, error)
}

// NotInitializedError occurs when an operation requires a shared
// context before Setup has bound one.
type NotInitializedError struct {
	Op string
}

// Error implements the error interface.
func (e NotInitializedError) Error() string {
	return fmt.Sprintf("shared storage not initialized: %s called before Setup", e.Op)
}

// InMemory is a trivial single-process storage. It performs no
// concurrency guarding of its own.
type InMemory[T any] struct {
	value T
}

// NewInMemory returns an InMemory storage seeded with value.
func NewInMemory[T any](value T) *InMemory[T] {
	return &InMemory[T]{value: value}
}

// Current implements the Storage interface.
func (s *InMemory[T]) Current() (T, error) {
	return s.value, nil
}

// Update implements the Storage interface.
func (s *InMemory[T]) Update(value T) error {
	s.value = value
	return nil
}

// Initialized implements the Storage interface. It always reports true.
func (s *InMemory[T]) Initialized() bool {
	return true
}
