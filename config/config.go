// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package config loads the run configuration of the BrainShift emulator.
package config

import (
	"fmt"
	"iter"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/ezrec/brainshift/vm"
)

// Config is a run configuration.
type Config struct {
	Memory     Size   `toml:"memory" yaml:"memory"`         // Memory size expression.
	Lenient    bool   `toml:"lenient" yaml:"lenient"`       // Continue past control flow errors.
	Extensions bool   `toml:"extensions" yaml:"extensions"` // Enable the Z, z, j, n and '"' instructions.
	MaxSteps   int    `toml:"max-steps" yaml:"max-steps"`   // Instruction limit, 0 for none.
	EOF        string `toml:"eof" yaml:"eof"`               // End of input mode.
	Verbose    bool   `toml:"verbose" yaml:"verbose"`       // Trace execution.
	Dump       string `toml:"dump" yaml:"dump"`             // Snapshot output path.
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Memory: "DEFAULT_MEMORY_SIZE",
		EOF:    vm.EOF_ZERO.String(),
	}
}

// Load reads a TOML or YAML configuration file, selected by its extension.
// Settings missing from the file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	cfg := Default()
	switch filepath.Ext(path) {
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		err = ErrFormat
	}
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	return cfg, nil
}

// MemorySize evaluates the memory size, rejecting sizes smaller than the
// register window.
func (cfg *Config) MemorySize(defines iter.Seq2[string, string]) (size int, err error) {
	size, err = cfg.Memory.Eval(defines)
	if err != nil {
		return
	}

	if size < vm.REGISTERS {
		err = fmt.Errorf("%w: %d < %d", vm.ErrMemorySize, size, vm.REGISTERS)
		return
	}

	return
}

// EOFMode parses the end of input mode.
func (cfg *Config) EOFMode() (vm.EOFMode, error) {
	return vm.ParseEOFMode(cfg.EOF)
}

// Validate checks all settings that can be checked before a run.
func (cfg *Config) Validate(defines iter.Seq2[string, string]) (err error) {
	_, err = cfg.MemorySize(defines)
	if err != nil {
		return
	}

	_, err = cfg.EOFMode()
	if err != nil {
		return
	}

	if cfg.MaxSteps < 0 {
		err = fmt.Errorf("max-steps %d < 0", cfg.MaxSteps)
	}

	return
}
