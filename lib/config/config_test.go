// Copyright 2026 The NWKit Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default() does not validate: %v", err)
	}
	if cfg.Order() != binary.LittleEndian {
		t.Error("default byte order is not little-endian")
	}
}

func TestLoadFileMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nwkit.yaml")
	content := `
byte_order: big
ascii: true
sarc:
  compression: yaz0
  alignment: 128
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	if cfg.Order() != binary.BigEndian {
		t.Error("byte_order: big not applied")
	}
	if !cfg.ASCII {
		t.Error("ascii: true not applied")
	}
	if cfg.Sarc.Compression != "yaz0" || cfg.Sarc.Alignment != 128 {
		t.Errorf("sarc config = %+v", cfg.Sarc)
	}
	// Untouched fields keep their defaults.
	if cfg.Manifest != "json" {
		t.Errorf("Manifest = %q, want default json", cfg.Manifest)
	}
}

func TestLoadFileRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad byte order", "byte_order: middle\n"},
		{"bad manifest", "manifest: xml\n"},
		{"bad compression", "sarc:\n  compression: lz4\n"},
		{"bad alignment", "sarc:\n  alignment: 0\n"},
		{"malformed yaml", "byte_order: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nwkit.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadFile(path); err == nil {
				t.Error("LoadFile accepted invalid config")
			}
		})
	}
}

func TestLoadWithoutEnvUsesDefaults(t *testing.T) {
	t.Setenv(EnvVar, "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ByteOrder != "little" {
		t.Errorf("ByteOrder = %q, want little", cfg.ByteOrder)
	}
}

func TestLoadWithMissingFileFails(t *testing.T) {
	t.Setenv(EnvVar, filepath.Join(t.TempDir(), "missing.yaml"))

	if _, err := Load(); err == nil {
		t.Error("Load succeeded with unreadable config path")
	}
}
