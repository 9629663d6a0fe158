// Copyright (c) 2026 QStd Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/qstd/conf/confmap"
	"github.com/qstd/conf/internal/try"
	"github.com/qstd/conf/merge"
)

// UnsupportedFileTypeError occurs when a config file extension matches
// no registered decoder.
type UnsupportedFileTypeError struct {
	Path string
}

// Error implements the error interface.
func (e UnsupportedFileTypeError) Error() string {
	return fmt.Sprintf("no decoder registered for config file: %s", e.Path)
}

// InvalidFileContentError occurs when a config file fails to decode to
// a nested mapping.
type InvalidFileContentError struct {
	Path  string
	Cause error
}

// Error implements the error interface.
func (e InvalidFileContentError) Error() string {
	return fmt.Sprintf("invalid config file content: %s: %s", e.Path, e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e InvalidFileContentError) Unwrap() error {
	return e.Cause
}

// File loads an ordered list of config files, later files overriding
// earlier ones. The decoder for each file is selected by extension
// from the registry, in registry priority order.
type File struct {
	paths    []string
	registry *Registry
	strategy merge.Strategy

	open func(string) (*os.File, error)
}

// NewFile returns a File loader over the given paths. A nil registry
// selects [DefaultRegistry].
func NewFile(strategy merge.Strategy, registry *Registry, paths ...string) *File {
	if registry == nil {
		registry = DefaultRegistry
	}
	return &File{
		paths:    paths,
		registry: registry,
		strategy: strategy,
		open:     os.Open,
	}
}

// Load implements the Loader interface.
func (l *File) Load() (confmap.Map, error) {
	merged := make(confmap.Map)
	for _, path := range l.paths {
		m, err := l.loadFile(path)
		if err != nil {
			return nil, err
		}
		merged = l.strategy.Merge(merged, m)
	}
	return merged, nil
}

func (l *File) loadFile(path string) (_ confmap.Map, err error) {
	dec, ok := l.decoderFor(path)
	if !ok {
		return nil, UnsupportedFileTypeError{Path: path}
	}

	f, err := l.open(path)
	if err != nil {
		return nil, err
	}
	defer try.Close(&err, f)

	m, err := dec.Decode(f)
	if err != nil {
		var invalid InvalidFileContentError
		if errors.As(err, &invalid) {
			return nil, err
		}
		return nil, InvalidFileContentError{Path: path, Cause: err}
	}
	return m, nil
}

func (l *File) decoderFor(path string) (Decoder, bool) {
	ext := filepath.Ext(path)
	for _, dec := range l.registry.Decoders() {
		for _, supported := range dec.Extensions() {
			if supported == ext {
				return dec, true
			}
		}
	}
	return nil, false
}
