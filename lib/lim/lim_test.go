// Copyright 2026 The NWKit Authors
// SPDX-License-Identifier: Apache-2.0

package lim

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/nwkit/nwkit/lib/texture"
)

// gradientPicture fills width x height with gray levels that survive
// every gray-capable format exactly (multiples of 0x11).
func gradientPicture(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := uint8((x + y) % 16 * 0x11)
			img.SetNRGBA(x, y, color.NRGBA{R: v, G: v, B: v, A: 0xFF})
		}
	}
	return img
}

func testImage(t *testing.T, orientation Orientation) *Image {
	t.Helper()
	im := &Image{
		Order:       binary.LittleEndian,
		Format:      texture.L8,
		Orientation: orientation,
	}
	if err := im.SetPicture(gradientPicture(24, 16)); err != nil {
		t.Fatalf("SetPicture: %v", err)
	}
	return im
}

func TestEncodeDecodeRoundtrip(t *testing.T) {
	orders := map[string]binary.ByteOrder{
		"little": binary.LittleEndian,
		"big":    binary.BigEndian,
	}

	for name, order := range orders {
		t.Run(name, func(t *testing.T) {
			original := testImage(t, OrientationNone)
			original.Order = order

			data, err := original.Encode()
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}

			decoded, err := Decode(data)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}

			if decoded.Order != order {
				t.Errorf("Order = %v, want %v", decoded.Order, order)
			}
			if decoded.Width != 24 || decoded.Height != 16 {
				t.Errorf("dimensions = %dx%d, want 24x16", decoded.Width, decoded.Height)
			}
			if decoded.Format != texture.L8 {
				t.Errorf("Format = %v, want L8", decoded.Format)
			}
			if decoded.Version != defaultVersion {
				t.Errorf("Version = 0x%08x, want 0x%08x", decoded.Version, defaultVersion)
			}
			if decoded.Alignment != defaultAlignment {
				t.Errorf("Alignment = %d, want %d", decoded.Alignment, defaultAlignment)
			}
			if !bytes.Equal(decoded.Data, original.Data) {
				t.Error("texel data changed across roundtrip")
			}
		})
	}
}

func TestPictureRoundtrip(t *testing.T) {
	picture := gradientPicture(24, 16)

	im := testImage(t, OrientationNone)
	out, err := im.Picture()
	if err != nil {
		t.Fatalf("Picture: %v", err)
	}

	if out.Bounds() != picture.Bounds() {
		t.Fatalf("bounds = %v, want %v", out.Bounds(), picture.Bounds())
	}
	if !bytes.Equal(out.Pix, picture.Pix) {
		t.Error("pixels changed across tile/untile roundtrip")
	}
}

func TestRotatedOrientation(t *testing.T) {
	picture := gradientPicture(24, 16)

	im := &Image{
		Order:       binary.LittleEndian,
		Format:      texture.L8,
		Orientation: OrientationRotated,
	}
	if err := im.SetPicture(picture); err != nil {
		t.Fatalf("SetPicture: %v", err)
	}

	// Stored dimensions are the rotated ones.
	if im.Width != 16 || im.Height != 24 {
		t.Errorf("stored dimensions = %dx%d, want 16x24", im.Width, im.Height)
	}

	out, err := im.Picture()
	if err != nil {
		t.Fatalf("Picture: %v", err)
	}
	if out.Bounds().Dx() != 24 || out.Bounds().Dy() != 16 {
		t.Fatalf("logical dimensions = %dx%d, want 24x16", out.Bounds().Dx(), out.Bounds().Dy())
	}
	if !bytes.Equal(out.Pix, picture.Pix) {
		t.Error("pixels changed across rotation roundtrip")
	}
}

func TestNonPowerOfTwoPadding(t *testing.T) {
	// 24x16 pads to 32x16; the stored data must cover the padding.
	im := testImage(t, OrientationNone)
	if want := texture.L8.SheetSize(32, 16); len(im.Data) != want {
		t.Errorf("data size = %d, want padded %d", len(im.Data), want)
	}
}

func TestDecodeErrors(t *testing.T) {
	valid, err := testImage(t, OrientationNone).Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	footer := len(valid) - footerSize

	corrupt := func(offset int, value byte) []byte {
		data := append([]byte(nil), valid...)
		data[offset] = value
		return data
	}

	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"truncated", valid[:footerSize-1], "smaller than"},
		{"bad magic", corrupt(footer, 'X'), "magic"},
		{"bad BOM", corrupt(footer+4, 0x00), "byte-order mark"},
		{"bad format code", corrupt(footer+flimHeaderSize+0x0E, 0x77), "format code"},
		{"bad orientation", corrupt(footer+flimHeaderSize+0x0F, 0x09), "orientation"},
		{"file size mismatch", append([]byte{0}, valid...), "file size"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.data)
			if err == nil {
				t.Fatal("Decode succeeded on corrupt input")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestExtractLoadRoundtrip(t *testing.T) {
	original := testImage(t, OrientationRotated)

	man, picture, err := original.Extract()
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if man.FileType != "bflim" || man.ColorFormat != "L8" || man.Orientation != "rotated" {
		t.Errorf("manifest = %+v", man)
	}

	rebuilt, err := Load(man, picture, binary.LittleEndian)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if rebuilt.Width != original.Width || rebuilt.Height != original.Height {
		t.Errorf("dimensions = %dx%d, want %dx%d",
			rebuilt.Width, rebuilt.Height, original.Width, original.Height)
	}
	if !bytes.Equal(rebuilt.Data, original.Data) {
		t.Error("texel data changed across extract/load")
	}
}

func TestLoadRejectsBadManifests(t *testing.T) {
	picture := gradientPicture(8, 8)

	tests := []struct {
		name string
		man  Manifest
	}{
		{"bad fileType", Manifest{FileType: "flim", ColorFormat: "L8", Orientation: "none"}},
		{"bad format", Manifest{FileType: "bflim", ColorFormat: "L9", Orientation: "none"}},
		{"bad orientation", Manifest{FileType: "bflim", ColorFormat: "L8", Orientation: "flipped"}},
		{"etc1 target", Manifest{FileType: "bflim", ColorFormat: "ETC1", Orientation: "none"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(&tt.man, picture, binary.LittleEndian); err == nil {
				t.Error("Load succeeded on bad manifest")
			}
		})
	}
}
