// Copyright 2026 The NWKit Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/binary"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/nwkit/nwkit/lib/lim"
	"github.com/nwkit/nwkit/lib/texture"
)

// testImageFile writes a small L8 image and returns its path.
func testImageFile(t *testing.T, dir string) string {
	t.Helper()

	picture := image.NewNRGBA(image.Rect(0, 0, 24, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 24; x++ {
			v := uint8((x + y) % 16 * 0x11)
			picture.SetNRGBA(x, y, color.NRGBA{R: v, G: v, B: v, A: 0xFF})
		}
	}

	img := &lim.Image{
		Order:  binary.LittleEndian,
		Format: texture.L8,
	}
	if err := img.SetPicture(picture); err != nil {
		t.Fatalf("building fixture image: %v", err)
	}
	data, err := img.Encode()
	if err != nil {
		t.Fatalf("encoding fixture image: %v", err)
	}
	path := filepath.Join(dir, "button.bflim")
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
	inputPath := testImageFile(t, dir)

	if err := execute("extract", inputPath, "--yes"); err != nil {
		t.Fatalf("extract: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "button.png")); err != nil {
		t.Fatalf("PNG not written: %v", err)
	}
	manifestPath := filepath.Join(dir, "button_manifest.json")
	if _, err := os.Stat(manifestPath); err != nil {
		t.Fatalf("manifest not written: %v", err)
	}

	outPath := filepath.Join(dir, "rebuilt.bflim")
	if err := execute("create", manifestPath, "--output", outPath, "--yes"); err != nil {
		t.Fatalf("create: %v", err)
	}

	rebuilt, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	img, err := lim.Decode(rebuilt)
	if err != nil {
		t.Fatalf("decoding rebuilt image: %v", err)
	}
	if img.Width != 24 || img.Height != 16 {
		t.Errorf("size = %dx%d, want 24x16", img.Width, img.Height)
	}
	if img.Format != texture.L8 {
		t.Errorf("format = %v, want L8", img.Format)
	}

	// L8 over grayscale multiples of 0x11 survives exactly.
	original, err := os.ReadFile(inputPath)
	if err != nil {
		t.Fatal(err)
	}
	first, err := lim.Decode(original)
	if err != nil {
		t.Fatal(err)
	}
	if string(img.Data) != string(first.Data) {
		t.Error("texel data changed across extract/create")
	}
}

func TestCreateBigEndian(t *testing.T) {
	t.Setenv("NWKIT_CONFIG", "")
	dir := t.TempDir()
	inputPath := testImageFile(t, dir)

	if err := execute("extract", inputPath, "--yes"); err != nil {
		t.Fatalf("extract: %v", err)
	}
	outPath := filepath.Join(dir, "big.bflim")
	err := execute("create", filepath.Join(dir, "button_manifest.json"),
		"--output", outPath, "--big-endian", "--yes")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	img, err := lim.Decode(data)
	if err != nil {
		t.Fatalf("decoding big-endian output: %v", err)
	}
	if img.Order != binary.BigEndian {
		t.Error("output is not big-endian")
	}
}

func TestExtractRejectsTruncatedInput(t *testing.T) {
	t.Setenv("NWKIT_CONFIG", "")
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.bflim")
	if err := os.WriteFile(path, []byte("too short"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := execute("extract", path, "--yes"); err == nil {
		t.Error("extract accepted a truncated file")
	}
}
