// Copyright 2026 The NWKit Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"encoding/binary"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// EnvVar names the environment variable that points at the config
// file.
const EnvVar = "NWKIT_CONFIG"

// Config holds the tool defaults every converter shares.
type Config struct {
	// ByteOrder is the byte order written by create commands:
	// "little" or "big". Extract commands always follow the input
	// file.
	ByteOrder string `yaml:"byte_order"`

	// OutputDir is the default directory for extracted output. Empty
	// means next to the input file.
	OutputDir string `yaml:"output_dir"`

	// ASCII escapes non-ASCII characters in JSON manifests.
	ASCII bool `yaml:"ascii"`

	// Overwrite skips the confirmation prompt when output files
	// already exist.
	Overwrite bool `yaml:"overwrite"`

	// Manifest selects the manifest encoding: "json" or "cbor".
	Manifest string `yaml:"manifest"`

	// Sarc holds archive-tool defaults.
	Sarc SarcConfig `yaml:"sarc"`
}

// SarcConfig holds archive-specific defaults.
type SarcConfig struct {
	// Compression is the wrapper for created archives when the output
	// extension does not decide it: "none", "yaz0", or "zstd".
	Compression string `yaml:"compression"`

	// Alignment is the member data alignment for created archives.
	Alignment int `yaml:"alignment"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		ByteOrder: "little",
		Manifest:  "json",
		Sarc: SarcConfig{
			Compression: "none",
			Alignment:   4,
		},
	}
}

// Load reads the config named by NWKIT_CONFIG, or the defaults when
// the variable is unset. A set-but-unreadable path is an error rather
// than a silent fallback.
func Load() (*Config, error) {
	path := os.Getenv(EnvVar)
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile reads configuration from a specific file path, merging it
// over the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every enumerated field.
func (c *Config) Validate() error {
	switch c.ByteOrder {
	case "little", "big":
	default:
		return fmt.Errorf("invalid byte_order %q (want little or big)", c.ByteOrder)
	}

	switch c.Manifest {
	case "json", "cbor":
	default:
		return fmt.Errorf("invalid manifest %q (want json or cbor)", c.Manifest)
	}

	switch c.Sarc.Compression {
	case "none", "yaz0", "zstd":
	default:
		return fmt.Errorf("invalid sarc.compression %q (want none, yaz0, or zstd)", c.Sarc.Compression)
	}

	if c.Sarc.Alignment < 1 {
		return fmt.Errorf("invalid sarc.alignment %d (must be at least 1)", c.Sarc.Alignment)
	}

	return nil
}

// Order returns the configured byte order. Validate guarantees the
// value is one of the two names.
func (c *Config) Order() binary.ByteOrder {
	if c.ByteOrder == "big" {
		return binary.BigEndian
	}
	return binary.LittleEndian
}
