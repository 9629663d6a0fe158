// Copyright (c) 2026 QStd Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package storage

import (
	"context"
	"log/slog"

	"github.com/qstd/conf/confmap"

	"github.com/google/uuid"
)

// Context record keys within a SharedMap.
const (
	keyInitialized = "initialized"
	keyConfig      = "config"
	keyRevision    = "revision"
)

// SharedDict shares one logical configuration value between processes
// through a SharedMap context record. Staleness is detected with an
// opaque revision token: readers re-decode the shared mapping only when
// the token changed since their last read.
//
// The context record is seeded by whichever process calls Setup first;
// every other process attaches to the already seeded record. Updates
// are last-writer-wins and the config/revision pair is written as two
// separate keys, so a concurrent reader may briefly observe a new
// revision with a stale config or vice versa.
type SharedDict[T any] struct {
	codec Codec[T]
	log   *slog.Logger

	shared   SharedMap
	value    T
	revision string
}

// SharedDictOption configures a SharedDict.
type SharedDictOption func(*sharedDictOptions)

type sharedDictOptions struct {
	logHandler slog.Handler
}

// LogHandler configures the slog.Handler diagnostics are logged to.
func LogHandler(h slog.Handler) SharedDictOption {
	return func(o *sharedDictOptions) {
		o.logHandler = h
	}
}

// NewSharedDict returns a SharedDict seeded with a local value. The
// storage starts uninitialized: Setup must bind a SharedMap before the
// value is shared with anyone.
func NewSharedDict[T any](value T, codec Codec[T], opts ...SharedDictOption) *SharedDict[T] {
	o := sharedDictOptions{
		logHandler: discardHandler{},
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &SharedDict[T]{
		codec: codec,
		log:   slog.New(o.logHandler),
		value: value,
	}
}

// Initialized implements the Storage interface.
func (s *SharedDict[T]) Initialized() bool {
	return s.shared != nil
}

// Setup binds the shared context record. The call that finds the
// record unseeded writes the local value and a fresh revision token
// into it; any later call attaches without writing and logs a warning
// since reinitialization usually signals a wiring mistake.
func (s *SharedDict[T]) Setup(shared SharedMap) error {
	v, ok, err := shared.Get(keyInitialized)
	if err != nil {
		return err
	}
	if ok && v == true {
		s.log.Warn("shared context already initialized, attaching without seeding")
		s.shared = shared
		return nil
	}

	m, err := s.codec.Encode(s.value)
	if err != nil {
		return err
	}
	rev := uuid.NewString()
	err = shared.Set(keyConfig, map[string]any(m))
	if err != nil {
		return err
	}
	err = shared.Set(keyRevision, rev)
	if err != nil {
		return err
	}
	err = shared.Set(keyInitialized, true)
	if err != nil {
		return err
	}

	s.revision = rev
	s.shared = shared
	return nil
}

// Update implements the Storage interface. It fails with
// NotInitializedError until Setup has bound a shared context.
func (s *SharedDict[T]) Update(value T) error {
	if s.shared == nil {
		return NotInitializedError{Op: "Update"}
	}

	m, err := s.codec.Encode(value)
	if err != nil {
		return err
	}

	// Config before revision: a reader acting on the new token must
	// find the new mapping already in place.
	rev := uuid.NewString()
	err = s.shared.Set(keyConfig, map[string]any(m))
	if err != nil {
		return err
	}
	err = s.shared.Set(keyRevision, rev)
	if err != nil {
		return err
	}

	s.value = value
	s.revision = rev
	return nil
}

// Current implements the Storage interface. Before Setup it returns the
// locally held value and logs a warning instead of failing, so a
// process can start up before the shared context is wired in. After
// Setup it serves the cached value until the shared revision changes.
func (s *SharedDict[T]) Current() (T, error) {
	if s.shared == nil {
		s.log.Warn("shared storage read before Setup, returning local value")
		return s.value, nil
	}

	v, ok, err := s.shared.Get(keyRevision)
	if err != nil {
		return s.value, err
	}
	rev, _ := v.(string)
	if !ok || rev == s.revision {
		return s.value, nil
	}

	raw, _, err := s.shared.Get(keyConfig)
	if err != nil {
		return s.value, err
	}
	m, ok := raw.(map[string]any)
	if !ok {
		if cm, isConfmap := raw.(confmap.Map); isConfmap {
			m = cm
		} else {
			m = make(map[string]any)
		}
	}

	value, err := s.codec.Decode(m)
	if err != nil {
		return s.value, err
	}

	s.value = value
	s.revision = rev
	return value, nil
}

// discardHandler drops every record. It backs storages constructed
// without a LogHandler option.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool { return false }

func (discardHandler) Handle(context.Context, slog.Record) error { return nil }

func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler { return h }

func (h discardHandler) WithGroup(string) slog.Handler { return h }
