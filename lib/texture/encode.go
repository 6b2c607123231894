// Copyright 2026 The NWKit Authors
// SPDX-License-Identifier: Apache-2.0

package texture

import (
	"encoding/binary"
	"fmt"
	"image"
)

// EncodeSheet converts an RGBA image into tiled texel data of the given
// format. The output length is format.SheetSize(width, height); pixels
// outside the image bounds (tile padding) encode as zero. ETC1 formats
// cannot be produced.
func EncodeSheet(img *image.NRGBA, width, height int, format PixelFormat) ([]byte, error) {
	if format.Compressed() {
		return nil, fmt.Errorf("creating %s-compressed sheets is not supported", format)
	}
	if format == HILO8 {
		return nil, fmt.Errorf("HILO8 sheet encoding is not supported")
	}
	if !format.Valid() {
		return nil, fmt.Errorf("invalid pixel format: 0x%02x", uint8(format))
	}

	bounds := img.Bounds()
	if bounds.Dx() != width || bounds.Dy() != height {
		return nil, fmt.Errorf("sheet image is %dx%d, expected %dx%d",
			bounds.Dx(), bounds.Dy(), width, height)
	}

	paddedWidth := NextPowerOfTwo(width)
	paddedHeight := NextPowerOfTwo(height)

	out := make([]byte, format.SheetSize(width, height))
	bitsPerPixel := format.BitsPerPixel()

	visitTiledPixels(paddedWidth, paddedHeight, func(pixelIndex, texelIndex int) {
		x := pixelIndex % paddedWidth
		y := pixelIndex / paddedWidth
		if x >= width || y >= height {
			return
		}
		if texelIndex*bitsPerPixel/8 >= len(out) {
			return
		}
		putTexel(format, out, texelIndex, img, x, y)
	})

	return out, nil
}

// putTexel stores one pixel in the sheet's native texel layout. The
// 4-bit formats OR their nibble into place, since two pixels share a
// byte.
func putTexel(format PixelFormat, out []byte, index int, img *image.NRGBA, x, y int) {
	pixel := img.NRGBAAt(x, y)
	r, g, b, a := pixel.R, pixel.G, pixel.B, pixel.A

	switch format {
	case RGBA8:
		offset := index * 4
		out[offset], out[offset+1], out[offset+2], out[offset+3] = r, g, b, a

	case RGB8:
		offset := index * 3
		out[offset], out[offset+1], out[offset+2] = r, g, b

	case RGBA5551:
		alphaBit := uint16(0)
		if a > 0 {
			alphaBit = 1
		}
		v := uint16(r>>3)<<11 | uint16(g>>3)<<6 | uint16(b>>3)<<1 | alphaBit
		binary.LittleEndian.PutUint16(out[index*2:], v)

	case RGB565:
		v := uint16(r>>3)<<11 | uint16(g>>2)<<5 | uint16(b>>3)
		binary.LittleEndian.PutUint16(out[index*2:], v)

	case RGBA4:
		v := uint16(r>>4)<<12 | uint16(g>>4)<<8 | uint16(b>>4)<<4 | uint16(a>>4)
		binary.LittleEndian.PutUint16(out[index*2:], v)

	case LA8:
		offset := index * 2
		out[offset] = luma(r, g, b)
		out[offset+1] = a

	case L8:
		out[index] = luma(r, g, b)

	case A8:
		out[index] = a

	case LA4:
		out[index] = (luma(r, g, b)/0x11)<<4 | (a/0x11)&0x0F

	case L4:
		putNibble(out, index, luma(r, g, b)/0x11)

	case A4:
		putNibble(out, index, (a/0x11)&0x0F)
	}
}

// putNibble ORs a 4-bit texel into place (even index in the low nibble).
func putNibble(out []byte, index int, v uint8) {
	shift := uint(index&1) * 4
	out[index/2] |= (v & 0x0F) << shift
}

// luma converts RGB to luminance with Rec. 709 weights. Integer
// arithmetic keeps gray values exact: luma(v, v, v) == v.
func luma(r, g, b uint8) uint8 {
	return uint8((int(r)*2126 + int(g)*7152 + int(b)*722) / 10000)
}
