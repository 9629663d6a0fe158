// Copyright (c) 2026 QStd Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package conf

import (
	"log/slog"

	"github.com/qstd/conf/confmap"
	"github.com/qstd/conf/loader"
	"github.com/qstd/conf/merge"
	"github.com/qstd/conf/storage"
)

// Option configures a Manager.
type Option func(*options)

type options struct {
	metadata   Metadata
	metadataAs string

	rootDir       string
	paths         []string
	parseEnvPaths bool
	parseArgPaths bool
	args          []string

	registry    *loader.Registry
	strategy    merge.Strategy
	customs     []loader.Loader
	preValidate func(confmap.Map) confmap.Map

	sharedMap  storage.SharedMap
	logHandler slog.Handler
}

// WithMetadata sets the project metadata. The project name, unified to
// environment variable form, prefixes every synthesized variable name
// and forms the {NAME}_CONFIG path override variable.
func WithMetadata(md Metadata) Option {
	return func(o *options) {
		o.metadata = md
	}
}

// MetadataAs injects the project metadata into the raw mapping under
// the given property before validation, so the configuration type can
// expose it as a regular field.
func MetadataAs(property string) Option {
	return func(o *options) {
		o.metadataAs = property
	}
}

// RootDir sets the directory relative config paths are resolved
// against. Defaults to the process working directory.
func RootDir(dir string) Option {
	return func(o *options) {
		o.rootDir = dir
	}
}

// ConfigPaths appends explicit config file paths, lowest precedence
// first.
func ConfigPaths(paths ...string) Option {
	return func(o *options) {
		o.paths = append(o.paths, paths...)
	}
}

// DisableEnvPaths turns off reading extra config paths from the
// {PREFIX}_CONFIG environment variable.
func DisableEnvPaths() Option {
	return func(o *options) {
		o.parseEnvPaths = false
	}
}

// DisableArgPaths turns off reading extra config paths from the
// --config/-c command line flag.
func DisableArgPaths() Option {
	return func(o *options) {
		o.parseArgPaths = false
	}
}

// Args overrides the command line arguments inspected for the
// --config/-c flag. Defaults to os.Args[1:].
func Args(args []string) Option {
	return func(o *options) {
		o.args = args
	}
}

// WithRegistry selects the file decoder registry consulted by the
// file loader. Defaults to loader.DefaultRegistry.
func WithRegistry(r *loader.Registry) Option {
	return func(o *options) {
		o.registry = r
	}
}

// WithMergeStrategy overrides the merge strategy used across the
// loader chain. Defaults to merge.Deep.
func WithMergeStrategy(s merge.Strategy) Option {
	return func(o *options) {
		o.strategy = s
	}
}

// WithLoader appends a custom loader. Custom loaders run after the
// file and environment loaders and therefore take precedence over
// both.
func WithLoader(l loader.Loader) Option {
	return func(o *options) {
		o.customs = append(o.customs, l)
	}
}

// PreValidationHook registers a transform applied to the merged raw
// mapping right before validation, for last-mile injection.
func PreValidationHook(hook func(confmap.Map) confmap.Map) Option {
	return func(o *options) {
		o.preValidate = hook
	}
}

// WithSharedMap routes the validated value into a SharedDict storage
// bound to the given cross-process context instead of the default
// in-memory storage.
func WithSharedMap(sm storage.SharedMap) Option {
	return func(o *options) {
		o.sharedMap = sm
	}
}

// LogHandler configures the slog.Handler the manager and its storage
// log diagnostics to.
func LogHandler(h slog.Handler) Option {
	return func(o *options) {
		o.logHandler = h
	}
}
