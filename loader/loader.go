// Copyright (c) 2026 QStd Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package loader assembles raw configuration mappings from heterogeneous
// sources: files, environment variables and caller supplied loaders.
package loader

import (
	"github.com/qstd/conf/confmap"
	"github.com/qstd/conf/merge"
)

// Loader produces a single raw configuration mapping.
type Loader interface {
	Load() (confmap.Map, error)
}

// LoaderFunc is a functional implementation of the Loader interface,
// typically used for custom sources such as secrets injection.
type LoaderFunc func() (confmap.Map, error)

// Load implements the Loader interface.
func (f LoaderFunc) Load() (confmap.Map, error) {
	return f()
}

// Chain composes an ordered list of loaders. Results are folded
// left-to-right with the configured merge strategy, so list order is
// precedence order: the lowest precedence loader comes first.
type Chain struct {
	loaders  []Loader
	strategy merge.Strategy
}

// NewChain returns a Chain over the given loaders.
func NewChain(strategy merge.Strategy, loaders ...Loader) *Chain {
	return &Chain{
		loaders:  loaders,
		strategy: strategy,
	}
}

// Load implements the Loader interface.
func (c *Chain) Load() (confmap.Map, error) {
	merged := make(confmap.Map)
	for _, l := range c.loaders {
		m, err := l.Load()
		if err != nil {
			return nil, err
		}
		merged = c.strategy.Merge(merged, m)
	}
	return merged, nil
}

// Loaders returns the loaders in precedence order.
func (c *Chain) Loaders() []Loader {
	return c.loaders
}

// Find returns the first loader in the chain implementing the
// capability type L.
func Find[L Loader](c *Chain) (L, bool) {
	for _, l := range c.loaders {
		if x, ok := l.(L); ok {
			return x, true
		}
	}
	var zero L
	return zero, false
}
