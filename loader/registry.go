// Copyright (c) 2026 QStd Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package loader

import (
	"reflect"
	"sort"
	"sync"
)

// Registry is an ordered, mutable set of file decoders. Decoders are
// kept in descending priority order; insertion order breaks ties.
//
// DefaultRegistry is shared process-wide; construct a dedicated
// Registry to scope decoder changes to a single File loader.
type Registry struct {
	mu      sync.Mutex
	entries []registryEntry
	serial  int
}

type registryEntry struct {
	decoder  Decoder
	priority int
	serial   int
}

const builtinPriority = 10

// DefaultRegistry holds the built-in YAML and JSON decoders and backs
// every File loader which is not given an explicit registry.
var DefaultRegistry = NewRegistry(YamlDecoder{}, JsonDecoder{})

// NewRegistry returns a Registry holding the given decoders, all at
// the built-in priority, in the given order.
func NewRegistry(decoders ...Decoder) *Registry {
	r := &Registry{}
	for _, d := range decoders {
		r.Register(d, WithPriority(builtinPriority))
	}
	return r
}

// RegisterOption configures a Register call.
type RegisterOption func(*registerOptions)

type registerOptions struct {
	priority    int
	hasPriority bool
	replace     bool
}

// WithPriority registers the decoder at the given priority. Higher
// priorities are consulted first.
func WithPriority(priority int) RegisterOption {
	return func(ro *registerOptions) {
		ro.priority = priority
		ro.hasPriority = true
	}
}

// Replace unregisters any existing decoder of the same concrete type
// before registering. Unless overridden with WithPriority, the new
// decoder inherits the highest priority among the replaced entries.
func Replace() RegisterOption {
	return func(ro *registerOptions) {
		ro.replace = true
	}
}

// Register adds a decoder to the registry.
func (r *Registry) Register(d Decoder, opts ...RegisterOption) {
	ro := registerOptions{priority: builtinPriority}
	for _, opt := range opts {
		opt(&ro)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.serial++
	serial := r.serial

	if ro.replace {
		kind := reflect.TypeOf(d)
		kept := r.entries[:0]
		for _, e := range r.entries {
			if reflect.TypeOf(e.decoder) != kind {
				kept = append(kept, e)
				continue
			}
			// Take over the slot of the replaced decoder.
			if !ro.hasPriority && e.priority > ro.priority {
				ro.priority = e.priority
			}
			if e.serial < serial {
				serial = e.serial
			}
		}
		r.entries = kept
	}

	r.entries = append(r.entries, registryEntry{
		decoder:  d,
		priority: ro.priority,
		serial:   serial,
	})
	sort.SliceStable(r.entries, func(i, j int) bool {
		if r.entries[i].priority != r.entries[j].priority {
			return r.entries[i].priority > r.entries[j].priority
		}
		return r.entries[i].serial < r.entries[j].serial
	})
}

// Unregister removes every decoder matching the predicate.
func (r *Registry) Unregister(pred func(Decoder) bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.entries[:0]
	for _, e := range r.entries {
		if !pred(e.decoder) {
			kept = append(kept, e)
		}
	}
	r.entries = kept
}

// Decoders returns the registered decoders in priority order.
func (r *Registry) Decoders() []Decoder {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Decoder, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.decoder
	}
	return out
}
