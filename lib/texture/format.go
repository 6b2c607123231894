// Copyright 2026 The NWKit Authors
// SPDX-License-Identifier: Apache-2.0

package texture

import "fmt"

// PixelFormat identifies the texel encoding of a glyph sheet. The
// values are the TGLP sheet format codes stored in font files —
// changing them breaks file compatibility.
type PixelFormat uint8

const (
	RGBA8    PixelFormat = 0x00
	RGB8     PixelFormat = 0x01
	RGBA5551 PixelFormat = 0x02
	RGB565   PixelFormat = 0x03
	RGBA4    PixelFormat = 0x04
	LA8      PixelFormat = 0x05
	HILO8    PixelFormat = 0x06
	L8       PixelFormat = 0x07
	A8       PixelFormat = 0x08
	LA4      PixelFormat = 0x09
	L4       PixelFormat = 0x0A
	A4       PixelFormat = 0x0B
	ETC1     PixelFormat = 0x0C
	ETC1A4   PixelFormat = 0x0D
)

// formatNames double as the manifest colorFormat identifiers, so they
// must match the names the original tooling wrote.
var formatNames = map[PixelFormat]string{
	RGBA8:    "RGBA8",
	RGB8:     "RGB8",
	RGBA5551: "RGBA5551",
	RGB565:   "RGB565",
	RGBA4:    "RGBA4",
	LA8:      "LA8",
	HILO8:    "HILO8",
	L8:       "L8",
	A8:       "A8",
	LA4:      "LA4",
	L4:       "L4",
	A4:       "A4",
	ETC1:     "ETC1",
	ETC1A4:   "ETC1A4",
}

// String returns the manifest name of the format.
func (f PixelFormat) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("unknown(0x%02x)", uint8(f))
}

// Valid reports whether f is a known pixel format code.
func (f PixelFormat) Valid() bool {
	_, ok := formatNames[f]
	return ok
}

// ParsePixelFormat parses a manifest colorFormat name.
func ParsePixelFormat(name string) (PixelFormat, error) {
	for format, formatName := range formatNames {
		if formatName == name {
			return format, nil
		}
	}
	return 0, fmt.Errorf("invalid pixel format: %s", name)
}

// BitsPerPixel returns the storage cost of one texel. For the ETC1
// variants this is the amortized per-pixel cost of a 4x4 block (a
// block is 8 bytes, 16 bytes with the alpha plane).
func (f PixelFormat) BitsPerPixel() int {
	switch f {
	case RGBA8:
		return 32
	case RGB8:
		return 24
	case RGBA5551, RGB565, RGBA4, LA8, HILO8:
		return 16
	case L8, A8, LA4:
		return 8
	case L4, A4:
		return 4
	case ETC1:
		return 4
	case ETC1A4:
		return 8
	default:
		return 0
	}
}

// SheetSize returns the byte length of a width x height sheet in this
// format.
func (f PixelFormat) SheetSize(width, height int) int {
	return width * height * f.BitsPerPixel() / 8
}

// Compressed reports whether the format is ETC1 block-compressed.
func (f PixelFormat) Compressed() bool {
	return f == ETC1 || f == ETC1A4
}
