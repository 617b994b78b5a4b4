// Package config provides the configuration system for beamspring.
//
// Settings come from three layers, higher overriding lower:
//
//	┌─────────────────────────────┐
//	│  3. Command line flags      │  ← Highest priority
//	├─────────────────────────────┤
//	│  2. BEAMSPRING_* variables  │
//	├─────────────────────────────┤
//	│  1. Config file (TOML/YAML) │
//	├─────────────────────────────┤
//	│  0. Built-in defaults       │  ← the stock keymap behavior
//	└─────────────────────────────┘
//
// # Sub-packages
//
//   - loader: configuration file loading (TOML, YAML)
//   - watcher: fsnotify-based file watching for live reload
//
// # Basic Usage
//
//	v := config.NewViper()
//	if err := config.ReadFile(v, path); err != nil {
//	    return err
//	}
//	cfg, err := config.Decode(v)
//	if err != nil {
//	    return err
//	}
//
//	pairs, _ := cfg.SOCD.BuildPairs()
//	rep, _ := cfg.Repeat.Build()
//
// Decode validates the result. Build methods on a validated Config do not
// fail.
package config
