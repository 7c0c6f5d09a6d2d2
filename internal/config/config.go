// Package config loads the optional onyx.yaml file that tunes the VM's
// stack/frame sizing and debug tracing ahead of a run.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level onyx.yaml document. Every field is optional;
// absence of the file entirely is not an error, and the VM's own
// defaults apply.
type Config struct {
	// StackSize raises the VM's initial value-stack capacity; a value at or
	// below the VM's built-in 16384 slots leaves the capacity unchanged.
	StackSize int `yaml:"stack_size,omitempty"`

	// MaxFrames overrides the call-frame depth limit; exceeding it is a
	// runtime error.
	MaxFrames int `yaml:"max_frames,omitempty"`

	// Trace enables the debugtrace-build disassembler's per-instruction
	// output. Ignored entirely in ordinary builds.
	Trace bool `yaml:"trace,omitempty"`
}

const (
	DefaultStackSize = 16384
	DefaultMaxFrames = 4096
)

// Default returns a Config populated with the VM's built-in defaults.
func Default() Config {
	return Config{StackSize: DefaultStackSize, MaxFrames: DefaultMaxFrames}
}

// Load reads and parses path. A missing file is not an error; it returns
// Default() unchanged.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Default(), err
	}
	if cfg.StackSize <= 0 {
		cfg.StackSize = DefaultStackSize
	}
	if cfg.MaxFrames <= 0 {
		cfg.MaxFrames = DefaultMaxFrames
	}
	return cfg, nil
}

// FindAndLoad looks for onyx.yaml in dir and loads it if present.
func FindAndLoad(dir string) (Config, error) {
	path := dir + string(os.PathSeparator) + "onyx.yaml"
	return Load(path)
}
