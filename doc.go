// Copyright (c) 2026 QStd Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package conf loads, validates and shares application configuration.
//
// A configuration is described by a plain struct. The Manager composes
// the raw values for it from multiple sources, later sources overriding
// earlier ones: tag declared defaults, an initial mapping, config files
// (YAML and JSON built in, more via the loader registry), environment
// variables and any custom loaders. The merged mapping is decoded and
// validated into the struct, then routed into a storage backend.
//
// Application code never holds the struct directly. It holds the
// manager's Proxy, a stable handle which follows reloads and, when the
// storage is backed by a shared context, updates made by other
// processes:
//
//	type Config struct {
//		Debug bool   `config:"debug" default:"false"`
//		Addr  string `config:"addr" env:"LISTEN_ADDR" desc:"Listen address"`
//	}
//
//	manager := conf.New[Config](
//		conf.WithMetadata(conf.Metadata{Name: "my-app", Version: "1.0.0"}),
//		conf.ConfigPaths("config.yaml"),
//	)
//	cfg, err := manager.Load(nil)
//	if err != nil {
//		// handle
//	}
//	proxy := manager.Proxy()
//
// Environment variable names are synthesized from the project name and
// the field path (MY_APP_DEBUG above), unless the field carries an env
// tag naming the variable outright (LISTEN_ADDR). The full listing is
// available through RenderEnvHelp for a --env-help style flag.
package conf
