// Copyright 2026 The NWKit Authors
// SPDX-License-Identifier: Apache-2.0

package lim

import (
	"encoding/binary"
	"fmt"

	"github.com/nwkit/nwkit/lib/texture"
)

const (
	flimHeaderSize = 0x14
	imagBlockSize  = 0x14
	footerSize     = flimHeaderSize + imagBlockSize

	// defaultVersion is what 3DS titles ship; the field is stored and
	// round-tripped but not interpreted.
	defaultVersion = 0x07020100

	defaultAlignment = 0x80
)

// Orientation describes how the stored texture maps to the logical
// image.
type Orientation uint8

const (
	// OrientationNone stores the image as-is.
	OrientationNone Orientation = 0
	// OrientationRotated stores the image rotated 90° counter-
	// clockwise; presenting it rotates back. Dimensions in the imag
	// block are the stored (rotated) ones.
	OrientationRotated Orientation = 4
)

// String returns the orientation name used in manifests.
func (o Orientation) String() string {
	switch o {
	case OrientationNone:
		return "none"
	case OrientationRotated:
		return "rotated"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(o))
	}
}

// ParseOrientation parses an orientation from its manifest name.
func ParseOrientation(name string) (Orientation, error) {
	switch name {
	case "none":
		return OrientationNone, nil
	case "rotated":
		return OrientationRotated, nil
	default:
		return 0, fmt.Errorf("unknown orientation %q (want none or rotated)", name)
	}
}

// formatCodes maps the BFLIM imag format byte to the canonical pixel
// format enum. BFLIM numbers the same thirteen formats differently
// from TGLP.
var formatCodes = map[uint8]texture.PixelFormat{
	0x00: texture.L8,
	0x01: texture.A8,
	0x02: texture.LA4,
	0x03: texture.LA8,
	0x04: texture.HILO8,
	0x05: texture.RGB565,
	0x06: texture.RGB8,
	0x07: texture.RGBA5551,
	0x08: texture.RGBA4,
	0x09: texture.RGBA8,
	0x0A: texture.ETC1,
	0x0B: texture.ETC1A4,
	0x0C: texture.L4,
	0x0D: texture.A4,
}

// formatCode is the inverse of formatCodes.
func formatCode(format texture.PixelFormat) (uint8, error) {
	for code, f := range formatCodes {
		if f == format {
			return code, nil
		}
	}
	return 0, fmt.Errorf("pixel format %s has no BFLIM format code", format)
}

// Image is a decoded BFLIM file. Width and Height are the stored
// texture dimensions; for a rotated image the logical dimensions are
// swapped.
type Image struct {
	Order   binary.ByteOrder
	Version uint32

	Width       uint16
	Height      uint16
	Alignment   uint16
	Format      texture.PixelFormat
	Orientation Orientation

	// Data is the raw tiled texel data, covering the power-of-two
	// padded dimensions.
	Data []byte
}

// DataSize returns the expected texel data length: the format's sheet
// size over power-of-two padded dimensions (tiling always covers
// whole tiles).
func (im *Image) DataSize() int {
	return paddedDataSize(im.Format, int(im.Width), int(im.Height))
}

func paddedDataSize(format texture.PixelFormat, width, height int) int {
	paddedWidth := texture.NextPowerOfTwo(width)
	paddedHeight := texture.NextPowerOfTwo(height)
	if format.Compressed() {
		// ETC1 blocks cover whole 8x8 tiles.
		if paddedWidth < 8 {
			paddedWidth = 8
		}
		if paddedHeight < 8 {
			paddedHeight = 8
		}
	}
	return format.SheetSize(paddedWidth, paddedHeight)
}
