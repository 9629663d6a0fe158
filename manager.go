// Copyright (c) 2026 QStd Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package conf

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/qstd/conf/confmap"
	"github.com/qstd/conf/loader"
	"github.com/qstd/conf/merge"
	"github.com/qstd/conf/schema"
	"github.com/qstd/conf/storage"

	"github.com/spf13/pflag"
)

// Metadata identifies the project owning the configuration. The name
// prefixes synthesized environment variable names and forms the
// {NAME}_CONFIG path override variable.
type Metadata struct {
	Name    string `config:"name"`
	Version string `config:"version"`
}

// Manager orchestrates the full configuration lifecycle: path
// resolution, loader composition, validation, storage initialization
// and updates. Application code reads the result through the manager's
// Proxy.
type Manager[T any] struct {
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
	log        *slog.Logger

	validator Validator[T]
	fields    []schema.EnvironmentField
	env       *loader.Env
	storage   storage.Storage[T]
	proxy     *Proxy[T]

	helpOnce sync.Once
	help     string
}

// New returns a Manager for the configuration type T, using the
// default ModelValidator.
func New[T any](opts ...Option) *Manager[T] {
	return NewWithValidator[T](NewModelValidator[T](), opts...)
}

// NewWithValidator returns a Manager delegating validation to the
// given Validator instead of the default ModelValidator.
func NewWithValidator[T any](validator Validator[T], opts ...Option) *Manager[T] {
	o := &options{
		rootDir:       mustGetwd(),
		parseEnvPaths: true,
		parseArgPaths: true,
		args:          os.Args[1:],
		strategy:      merge.Deep{},
	}
	for _, opt := range opts {
		opt(o)
	}

	prefix := ""
	if o.metadata.Name != "" {
		prefix = schema.UnifyName(o.metadata.Name)
	}
	fields := schema.For[T](prefix)

	handler := o.logHandler
	if handler == nil {
		handler = slog.NewTextHandler(io.Discard, nil)
	}

	return &Manager[T]{
		metadata:      o.metadata,
		metadataAs:    o.metadataAs,
		rootDir:       o.rootDir,
		paths:         o.paths,
		parseEnvPaths: o.parseEnvPaths,
		parseArgPaths: o.parseArgPaths,
		args:          o.args,
		registry:      o.registry,
		strategy:      o.strategy,
		customs:       o.customs,
		preValidate:   o.preValidate,
		sharedMap:     o.sharedMap,
		logHandler:    o.logHandler,
		log:           slog.New(handler),
		validator:     validator,
		fields:        fields,
		env:           loader.NewEnvFromFields(fields),
		proxy:         NewProxy[T](),
	}
}

// Load resolves config paths, runs the loader chain, validates the
// merged mapping and routes the validated value into storage. The
// first successful call creates the storage backend and binds the
// proxy; later calls update the stored value in place. A failed load
// leaves the previously stored value untouched.
//
// The initial mapping, which may be nil, sits below every other
// source. Full precedence, lowest first: tag-declared defaults,
// initial mapping, config files, environment variables, custom loaders.
func (m *Manager[T]) Load(initial confmap.Map) (T, error) {
	var zero T

	paths, err := m.resolvePaths()
	if err != nil {
		return zero, err
	}

	loaders := make([]loader.Loader, 0, 2+len(m.customs))
	loaders = append(loaders,
		loader.NewFile(m.strategy, m.registry, paths...),
		m.env,
	)
	loaders = append(loaders, m.customs...)
	chain := loader.NewChain(m.strategy, loaders...)

	loaded, err := chain.Load()
	if err != nil {
		return zero, err
	}

	merged := schema.Defaults(m.fields)
	if initial != nil {
		merged = m.strategy.Merge(merged, initial)
	}
	if m.metadataAs != "" {
		merged = m.strategy.Merge(merged, confmap.Map{
			m.metadataAs: confmap.Map{
				"name":    m.metadata.Name,
				"version": m.metadata.Version,
			},
		})
	}
	merged = m.strategy.Merge(merged, loaded)

	if m.preValidate != nil {
		merged = m.preValidate(merged)
	}

	value, err := m.validator.Validate(merged)
	if err != nil {
		return zero, err
	}

	err = m.store(value)
	if err != nil {
		return zero, err
	}

	m.log.Info("configuration loaded",
		slog.Int("paths", len(paths)),
		slog.Int("used_env", len(m.env.Used())),
	)
	return value, nil
}

func (m *Manager[T]) store(value T) error {
	if m.storage != nil {
		return m.storage.Update(value)
	}

	if m.sharedMap == nil {
		m.storage = storage.NewInMemory(value)
		return m.proxy.Bind(m.storage)
	}

	codec, ok := m.validator.(storage.Codec[T])
	if !ok {
		codec = NewModelValidator[T]()
	}

	var opts []storage.SharedDictOption
	if m.logHandler != nil {
		opts = append(opts, storage.LogHandler(m.logHandler))
	}
	shared := storage.NewSharedDict(value, codec, opts...)
	err := shared.Setup(m.sharedMap)
	if err != nil {
		return err
	}
	m.storage = shared
	return m.proxy.Bind(m.storage)
}

// Proxy returns the stable handle application code should hold. The
// proxy is available before the first Load but reports not-ready until
// a load succeeds.
func (m *Manager[T]) Proxy() *Proxy[T] {
	return m.proxy
}

// Storage returns the bound storage backend, or nil before the first
// successful Load.
func (m *Manager[T]) Storage() storage.Storage[T] {
	return m.storage
}

// EnvList returns every environment-bindable field of T, in
// declaration order.
func (m *Manager[T]) EnvList() []schema.EnvironmentField {
	return m.fields
}

// UsedEnv returns the environment variable names consumed by the most
// recent Load.
func (m *Manager[T]) UsedEnv() []string {
	return m.env.Used()
}

// RenderEnvHelp renders the --env-help style listing for T. The
// rendering is memoized: the field list never changes after
// construction.
func (m *Manager[T]) RenderEnvHelp() string {
	m.helpOnce.Do(func() {
		m.help = schema.RenderEnvHelp(m.fields)
	})
	return m.help
}

// resolvePaths produces the final ordered config file list: explicit
// paths first, then paths from the {PREFIX}_CONFIG environment
// variable, then paths from the --config/-c flag. Relative paths are
// resolved against the root directory and every path must exist.
func (m *Manager[T]) resolvePaths() ([]string, error) {
	paths := make([]string, 0, len(m.paths))
	paths = append(paths, m.paths...)
	if m.parseEnvPaths {
		paths = append(paths, m.envPaths()...)
	}
	if m.parseArgPaths {
		paths = append(paths, m.argPaths()...)
	}

	resolved := make([]string, 0, len(paths))
	for _, path := range paths {
		if !filepath.IsAbs(path) {
			path = filepath.Join(m.rootDir, path)
		}

		_, err := os.Stat(path)
		if err != nil {
			return nil, PathNotExistsError{Path: path, Cause: err}
		}
		resolved = append(resolved, path)
	}
	return resolved, nil
}

func (m *Manager[T]) envPaths() []string {
	name := "CONFIG"
	if m.metadata.Name != "" {
		name = schema.UnifyName(m.metadata.Name) + "_CONFIG"
	}

	value, ok := os.LookupEnv(name)
	if !ok {
		return nil
	}
	return splitPathList(value)
}

// argPaths extracts --config/-c from the command line. Every other
// flag is ignored rather than rejected, since the host application
// owns the rest of its argument surface.
func (m *Manager[T]) argPaths() []string {
	fs := pflag.NewFlagSet("conf", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}

	value := fs.StringP("config", "c", "", "path to the application configuration file")

	err := fs.Parse(m.args)
	if err != nil {
		m.log.Warn("failed to parse config path arguments", slog.Any("error", err))
		return nil
	}
	return splitPathList(*value)
}

func splitPathList(s string) []string {
	var paths []string
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part != "" {
			paths = append(paths, part)
		}
	}
	return paths
}

func mustGetwd() string {
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}
