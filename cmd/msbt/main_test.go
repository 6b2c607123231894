// Copyright 2026 The NWKit Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/nwkit/nwkit/lib/msbt"
)

// testDocumentFile writes a small two-message document and returns
// its path.
func testDocumentFile(t *testing.T, dir string) string {
	t.Helper()

	doc := msbt.New(binary.LittleEndian)
	doc.Messages = []msbt.Message{
		{
			Label: "Greeting",
			Parts: []msbt.Part{
				{Text: "Hello, "},
				{Control: &msbt.Control{Group: 0, Type: 3, Data: []byte{0x01, 0x00}}},
				{Text: "world"},
				{Closing: &msbt.Closing{Group: 0, Type: 3}},
			},
		},
		{
			Label: "Farewell",
			Parts: []msbt.Part{{Text: "さようなら"}},
		},
	}

	data, err := doc.Encode()
	if err != nil {
		t.Fatalf("encoding fixture document: %v", err)
	}
	path := filepath.Join(dir, "dialog.msbt")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(args ...string) error {
	return root().Execute(args)
}

func TestExtractCreateRoundTrip(t *testing.T) {
	t.Setenv("NWKIT_CONFIG", "")
	dir := t.TempDir()
	inputPath := testDocumentFile(t, dir)

	if err := execute("extract", inputPath, "--yes"); err != nil {
		t.Fatalf("extract: %v", err)
	}
	manifestPath := filepath.Join(dir, "dialog_manifest.json")
	if _, err := os.Stat(manifestPath); err != nil {
		t.Fatalf("manifest not written: %v", err)
	}

	outPath := filepath.Join(dir, "rebuilt.msbt")
	if err := execute("create", manifestPath, "--output", outPath, "--yes"); err != nil {
		t.Fatalf("create: %v", err)
	}

	rebuilt, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	doc, err := msbt.Decode(rebuilt)
	if err != nil {
		t.Fatalf("decoding rebuilt file: %v", err)
	}

	greeting, ok := doc.Lookup("Greeting")
	if !ok {
		t.Fatal("Greeting message missing")
	}
	if greeting.Text() != "Hello, world" {
		t.Errorf("Greeting text = %q, want %q", greeting.Text(), "Hello, world")
	}
	if len(greeting.Parts) != 4 {
		t.Fatalf("Greeting has %d parts, want 4", len(greeting.Parts))
	}
	control := greeting.Parts[1].Control
	if control == nil || control.Type != 3 || string(control.Data) != "\x01\x00" {
		t.Errorf("control tag did not survive the round trip: %+v", control)
	}

	farewell, ok := doc.Lookup("Farewell")
	if !ok {
		t.Fatal("Farewell message missing")
	}
	if farewell.Text() != "さようなら" {
		t.Errorf("Farewell text = %q", farewell.Text())
	}
}

func TestAsciiManifestStaysAscii(t *testing.T) {
	t.Setenv("NWKIT_CONFIG", "")
	dir := t.TempDir()
	inputPath := testDocumentFile(t, dir)

	if err := execute("extract", inputPath, "--ascii", "--yes"); err != nil {
		t.Fatalf("extract: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "dialog_manifest.json"))
	if err != nil {
		t.Fatal(err)
	}
	for i, b := range data {
		if b >= 0x80 {
			t.Fatalf("byte 0x%02x at offset %d in --ascii manifest", b, i)
		}
	}
}

func TestCreateBigEndian(t *testing.T) {
	t.Setenv("NWKIT_CONFIG", "")
	dir := t.TempDir()
	inputPath := testDocumentFile(t, dir)

	if err := execute("extract", inputPath, "--yes"); err != nil {
		t.Fatalf("extract: %v", err)
	}
	outPath := filepath.Join(dir, "big.msbt")
	err := execute("create", filepath.Join(dir, "dialog_manifest.json"),
		"--output", outPath, "--big-endian", "--yes")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	if data[8] != 0xFE || data[9] != 0xFF {
		t.Errorf("BOM = %02x %02x, want fe ff", data[8], data[9])
	}
	if _, err := msbt.Decode(data); err != nil {
		t.Errorf("decoding big-endian output: %v", err)
	}
}

func TestPreview(t *testing.T) {
	if got := preview("short"); got != "short" {
		t.Errorf("preview(short) = %q", got)
	}
	if got := preview("line one\nline two"); got != "line one…" {
		t.Errorf("preview(multiline) = %q", got)
	}
	long := ""
	for i := 0; i < 100; i++ {
		long += "あ"
	}
	got := preview(long)
	if len([]rune(got)) != 61 {
		t.Errorf("preview truncated to %d runes, want 61", len([]rune(got)))
	}
}
