// Copyright 2026 The NWKit Authors
// SPDX-License-Identifier: Apache-2.0

package texture

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
)

// ETC1 block field offsets within the 64-bit pixel word.
const (
	etcIndivRed1Offset   = 60
	etcIndivGreen1Offset = 52
	etcIndivBlue1Offset  = 44

	etcDiffRed1Offset   = 59
	etcDiffGreen1Offset = 51
	etcDiffBlueOffset   = 43

	etcRed2Offset   = 56
	etcGreen2Offset = 48
	etcBlue2Offset  = 40

	etcTable1Offset = 37
	etcTable2Offset = 34

	etcDifferentialBit = 33
	etcOrientationBit  = 32
)

// etcModifiers are the ETC1 intensity modifier tables, indexed by the
// 3-bit table codeword and the per-pixel magnitude bit.
var etcModifiers = [8][2]int{
	{2, 8},
	{5, 17},
	{9, 29},
	{13, 42},
	{18, 60},
	{24, 80},
	{33, 106},
	{47, 183},
}

// decodeETC1 decompresses an ETC1 or ETC1A4 sheet into an RGBA image.
// The texture is composed of 8x8 tiles, each holding 2x2 compressed 4x4
// blocks; the tile grid is padded to power-of-two counts, so the input
// may describe more pixels than width x height.
func decodeETC1(data []byte, width, height int, withAlpha bool, order binary.ByteOrder) (*image.NRGBA, error) {
	blockSize := 8
	if withAlpha {
		blockSize = 16
	}

	tileWidth := NextPowerOfTwo((width + 7) / 8)
	tileHeight := NextPowerOfTwo((height + 7) / 8)

	if need := tileWidth * tileHeight * 4 * blockSize; len(data) < need {
		return nil, fmt.Errorf("ETC1 sheet is %d bytes, need %d for %dx%d", len(data), need, width, height)
	}

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	pos := 0

	for tileY := 0; tileY < tileHeight; tileY++ {
		for tileX := 0; tileX < tileWidth; tileX++ {
			for blockY := 0; blockY < 2; blockY++ {
				for blockX := 0; blockX < 2; blockX++ {
					block := data[pos : pos+blockSize]
					pos += blockSize

					alphas := uint64(0xFFFFFFFFFFFFFFFF)
					if withAlpha {
						alphas = readU64(block[:8], order)
						block = block[8:]
					}
					pixels := readU64(block, order)

					decodeETC1Block(img, pixels, alphas, tileX*8+blockX*4, tileY*8+blockY*4, width, height)
				}
			}
		}
	}

	return img, nil
}

// decodeETC1Block decodes one 4x4 block whose top-left pixel is at
// (originX, originY).
func decodeETC1Block(img *image.NRGBA, pixels, alphas uint64, originX, originY, width, height int) {
	// differential: how the two base colors are stored in the high
	// 32 bits. horizontal: whether the sub-blocks split 4x2 or 2x4.
	differential := (pixels>>etcDifferentialBit)&0x01 == 1
	horizontal := (pixels>>etcOrientationBit)&0x01 == 1

	table1 := etcModifiers[(pixels>>etcTable1Offset)&0x07]
	table2 := etcModifiers[(pixels>>etcTable2Offset)&0x07]

	var color1, color2 [3]int

	if differential {
		// 5-bit base words, extended to 8 bits by replicating the top
		// three bits.
		r := int((pixels >> etcDiffRed1Offset) & 0x1F)
		g := int((pixels >> etcDiffGreen1Offset) & 0x1F)
		b := int((pixels >> etcDiffBlueOffset) & 0x1F)

		color1[0] = r<<3 | (r>>2)&0x07
		color1[1] = g<<3 | (g>>2)&0x07
		color1[2] = b<<3 | (b>>2)&0x07

		// The second color adds 3-bit two's-complement deltas to the
		// 5-bit words before extension.
		r += complement(int((pixels>>etcRed2Offset)&0x07), 3)
		g += complement(int((pixels>>etcGreen2Offset)&0x07), 3)
		b += complement(int((pixels>>etcBlue2Offset)&0x07), 3)

		color2[0] = r<<3 | (r>>2)&0x07
		color2[1] = g<<3 | (g>>2)&0x07
		color2[2] = b<<3 | (b>>2)&0x07
	} else {
		// Individual mode: 4 bits per channel per sub-block.
		color1[0] = int((pixels>>etcIndivRed1Offset)&0x0F) * 0x11
		color1[1] = int((pixels>>etcIndivGreen1Offset)&0x0F) * 0x11
		color1[2] = int((pixels>>etcIndivBlue1Offset)&0x0F) * 0x11

		color2[0] = int((pixels>>etcRed2Offset)&0x0F) * 0x11
		color2[1] = int((pixels>>etcGreen2Offset)&0x0F) * 0x11
		color2[2] = int((pixels>>etcBlue2Offset)&0x0F) * 0x11
	}

	// 16 pixels, 2 bits each: one magnitude-select bit, one sign bit.
	amounts := pixels & 0xFFFF
	signs := (pixels >> 16) & 0xFFFF

	for pixelY := 0; pixelY < 4; pixelY++ {
		for pixelX := 0; pixelX < 4; pixelX++ {
			x := originX + pixelX
			y := originY + pixelY
			if x >= width || y >= height {
				continue
			}

			offset := uint(pixelX*4 + pixelY)

			var table [2]int
			var base [3]int
			if horizontal {
				if pixelY < 2 {
					table, base = table1, color1
				} else {
					table, base = table2, color2
				}
			} else {
				if pixelX < 2 {
					table, base = table1, color1
				} else {
					table, base = table2, color2
				}
			}

			amount := table[(amounts>>offset)&0x01]
			if (signs>>offset)&0x01 == 1 {
				amount = -amount
			}

			img.SetNRGBA(x, y, color.NRGBA{
				R: clamp8(base[0] + amount),
				G: clamp8(base[1] + amount),
				B: clamp8(base[2] + amount),
				A: uint8((alphas>>(offset*4))&0x0F) * 0x11,
			})
		}
	}
}

// complement sign-extends an n-bit two's-complement value.
func complement(v, bits int) int {
	if v>>(bits-1) == 0 {
		return v
	}
	return v - (1 << bits)
}

func clamp8(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 0xFF {
		return 0xFF
	}
	return uint8(v)
}

func readU64(b []byte, order binary.ByteOrder) uint64 {
	return order.Uint64(b)
}
