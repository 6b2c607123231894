// Copyright 2026 The NWKit Authors
// SPDX-License-Identifier: Apache-2.0

package texture

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
)

// DecodeSheet converts tiled texel data into an RGBA image of the given
// dimensions. The traversal operates on power-of-two padded dimensions
// (the storage layout always covers whole 8x8 tiles); texels that fall
// outside the requested width/height are discarded. ETC1 formats take
// the block-decompression path instead; order selects how their 64-bit
// blocks are read.
func DecodeSheet(data []byte, width, height int, format PixelFormat, order binary.ByteOrder) (*image.NRGBA, error) {
	if !format.Valid() {
		return nil, fmt.Errorf("invalid pixel format: 0x%02x", uint8(format))
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid sheet dimensions %dx%d", width, height)
	}

	if format.Compressed() {
		return decodeETC1(data, width, height, format == ETC1A4, order)
	}

	paddedWidth := NextPowerOfTwo(width)
	paddedHeight := NextPowerOfTwo(height)

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	bitsPerPixel := format.BitsPerPixel()

	visitTiledPixels(paddedWidth, paddedHeight, func(pixelIndex, texelIndex int) {
		x := pixelIndex % paddedWidth
		y := pixelIndex / paddedWidth
		if x >= width || y >= height {
			return
		}
		// Skip texels whose last byte falls past the end of the data,
		// so truncated sheets decode to partial images instead of
		// panicking inside texelColor.
		if ((texelIndex+1)*bitsPerPixel+7)/8 > len(data) {
			return
		}
		img.SetNRGBA(x, y, texelColor(format, data, texelIndex))
	})

	return img, nil
}

// texelColor extracts one texel as 8-bit RGBA. Sub-byte and byte-list
// formats (RGBA8, RGB8, LA8, L8, A8, LA4, L4, A4) are read as stored
// byte sequences; the packed 16-bit formats are read in the sheet's
// native layout and widened by bit replication.
func texelColor(format PixelFormat, data []byte, index int) color.NRGBA {
	switch format {
	case RGBA8:
		offset := index * 4
		return color.NRGBA{R: data[offset], G: data[offset+1], B: data[offset+2], A: data[offset+3]}

	case RGB8:
		offset := index * 3
		return color.NRGBA{R: data[offset], G: data[offset+1], B: data[offset+2], A: 0xFF}

	case RGBA5551:
		v := packed16(data, index)
		return color.NRGBA{
			R: expand5((v >> 11) & 0x1F),
			G: expand5((v >> 6) & 0x1F),
			B: expand5((v >> 1) & 0x1F),
			A: uint8(v&0x01) * 0xFF,
		}

	case RGB565:
		v := packed16(data, index)
		return color.NRGBA{
			R: expand5((v >> 11) & 0x1F),
			G: expand6((v >> 5) & 0x3F),
			B: expand5(v & 0x1F),
			A: 0xFF,
		}

	case RGBA4:
		v := packed16(data, index)
		return color.NRGBA{
			R: uint8((v>>12)&0x0F) * 0x11,
			G: uint8((v>>8)&0x0F) * 0x11,
			B: uint8((v>>4)&0x0F) * 0x11,
			A: uint8(v&0x0F) * 0x11,
		}

	case LA8:
		offset := index * 2
		l := data[offset]
		return color.NRGBA{R: l, G: l, B: l, A: data[offset+1]}

	case HILO8:
		// Two-channel normal-map format; fonts never use it. Decoded
		// as opaque black, matching the original converter.
		return color.NRGBA{A: 0}

	case L8:
		l := data[index]
		return color.NRGBA{R: l, G: l, B: l, A: 0xFF}

	case A8:
		return color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: data[index]}

	case LA4:
		la := data[index]
		l := (la >> 4) * 0x11
		return color.NRGBA{R: l, G: l, B: l, A: (la & 0x0F) * 0x11}

	case L4:
		l := nibble(data, index) * 0x11
		return color.NRGBA{R: l, G: l, B: l, A: 0xFF}

	case A4:
		return color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: nibble(data, index) * 0x11}
	}

	return color.NRGBA{}
}

// packed16 reads the index-th 16-bit texel. The 3DS stores these
// little-endian regardless of the container's section byte order.
func packed16(data []byte, index int) uint16 {
	return binary.LittleEndian.Uint16(data[index*2:])
}

// nibble reads the index-th 4-bit texel (even index in the low nibble).
func nibble(data []byte, index int) uint8 {
	b := data[index/2]
	if index&1 == 1 {
		b >>= 4
	}
	return b & 0x0F
}

// expand5 widens a 5-bit channel to 8 bits by bit replication.
func expand5(v uint16) uint8 {
	return uint8(v<<3 | v>>2)
}

// expand6 widens a 6-bit channel to 8 bits by bit replication.
func expand6(v uint16) uint8 {
	return uint8(v<<2 | v>>4)
}
