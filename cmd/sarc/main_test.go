// Copyright 2026 The NWKit Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nwkit/nwkit/lib/sarc"
)

// writeInputs populates a directory tree to pack.
func writeInputs(t *testing.T, dir string) map[string][]byte {
	t.Helper()
	files := map[string][]byte{
		"config.bin":       []byte("settings"),
		"model/body.bin":   []byte("vertices and indices"),
		"model/tex/a.data": make([]byte, 300),
	}
	for name, data := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return files
}

func TestCreateExtractRoundTrip(t *testing.T) {
	t.Setenv("NWKIT_CONFIG", "")
	dir := t.TempDir()
	inputDir := filepath.Join(dir, "assets")
	if err := os.MkdirAll(inputDir, 0o755); err != nil {
		t.Fatal(err)
	}
	files := writeInputs(t, inputDir)

	archivePath := filepath.Join(dir, "assets.sarc")
	if err := execute("create", archivePath, inputDir, "--yes"); err != nil {
		t.Fatalf("create: %v", err)
	}

	data, err := os.ReadFile(archivePath)
	if err != nil {
		t.Fatal(err)
	}
	if sarc.DetectCompression(data) != sarc.CompressionNone {
		t.Error(".sarc output should be uncompressed")
	}

	outDir := filepath.Join(dir, "out")
	if err := execute("extract", archivePath, "--output", outDir); err != nil {
		t.Fatalf("extract: %v", err)
	}
	for name, want := range files {
		got, err := os.ReadFile(filepath.Join(outDir, filepath.FromSlash(name)))
		if err != nil {
			t.Fatalf("extracted %s: %v", name, err)
		}
		if string(got) != string(want) {
			t.Errorf("%s content changed across pack/unpack", name)
		}
	}
}

func TestCreateCompressionFromExtension(t *testing.T) {
	t.Setenv("NWKIT_CONFIG", "")
	dir := t.TempDir()
	inputDir := filepath.Join(dir, "assets")
	if err := os.MkdirAll(inputDir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeInputs(t, inputDir)

	tests := []struct {
		ext  string
		want sarc.Compression
	}{
		{".szs", sarc.CompressionYaz0},
		{".zs", sarc.CompressionZstd},
	}
	for _, tt := range tests {
		archivePath := filepath.Join(dir, "assets"+tt.ext)
		if err := execute("create", archivePath, inputDir, "--yes"); err != nil {
			t.Fatalf("create %s: %v", tt.ext, err)
		}
		data, err := os.ReadFile(archivePath)
		if err != nil {
			t.Fatal(err)
		}
		if got := sarc.DetectCompression(data); got != tt.want {
			t.Errorf("%s compression = %v, want %v", tt.ext, got, tt.want)
		}
		// The wrapped payload still decodes.
		payload, _, err := sarc.Decompress(data)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := sarc.Decode(payload); err != nil {
			t.Errorf("decoding %s payload: %v", tt.ext, err)
		}
	}
}

func TestCreateExplicitCompressionBeatsExtension(t *testing.T) {
	t.Setenv("NWKIT_CONFIG", "")
	dir := t.TempDir()
	inputDir := filepath.Join(dir, "assets")
	if err := os.MkdirAll(inputDir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeInputs(t, inputDir)

	archivePath := filepath.Join(dir, "assets.szs")
	if err := execute("create", archivePath, inputDir, "--compress", "zstd", "--yes"); err != nil {
		t.Fatalf("create: %v", err)
	}
	data, err := os.ReadFile(archivePath)
	if err != nil {
		t.Fatal(err)
	}
	if got := sarc.DetectCompression(data); got != sarc.CompressionZstd {
		t.Errorf("compression = %v, want zstd", got)
	}
}

func TestCreateBigEndianAlignment(t *testing.T) {
	t.Setenv("NWKIT_CONFIG", "")
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "single.bin")
	if err := os.WriteFile(inputPath, []byte("payload"), 0o644); err != nil {
		t.Fatal(err)
	}

	archivePath := filepath.Join(dir, "out.sarc")
	err := execute("create", archivePath, inputPath,
		"--big-endian", "--align", "128", "--yes")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	data, err := os.ReadFile(archivePath)
	if err != nil {
		t.Fatal(err)
	}
	if data[6] != 0xFE || data[7] != 0xFF {
		t.Errorf("BOM = %02x %02x, want fe ff", data[6], data[7])
	}
	arch, err := sarc.Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	file, ok := arch.Lookup("single.bin")
	if !ok {
		t.Fatal("member single.bin missing")
	}
	if string(file.Data) != "payload" {
		t.Errorf("member data = %q", file.Data)
	}
}

func TestCreateRejectsEmptyInput(t *testing.T) {
	t.Setenv("NWKIT_CONFIG", "")
	dir := t.TempDir()
	emptyDir := filepath.Join(dir, "empty")
	if err := os.MkdirAll(emptyDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := execute("create", filepath.Join(dir, "out.sarc"), emptyDir, "--yes"); err == nil {
		t.Error("create succeeded with no input files")
	}
}

// execute runs the command tree with the given arguments.
func execute(args ...string) error {
	return root().Execute(args)
}
