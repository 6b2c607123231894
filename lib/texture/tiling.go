// Copyright 2026 The NWKit Authors
// SPDX-License-Identifier: Apache-2.0

package texture

import "math/bits"

// visitTiledPixels walks every texel position of a width x height
// sheet in storage order and reports, for each, the linear pixel index
// (y*width + x) and the linear texel index within the tiled data.
// width and height must be the power-of-two padded dimensions.
//
// The layout is recursive 2x2 Morton order inside 8x8 tiles: a tile is
// 2x2 sub-tiles, a sub-tile is 2x2 pixel groups, a group is 2x2 pixels.
func visitTiledPixels(width, height int, visit func(pixelIndex, texelIndex int)) {
	tileWidth := width / 8
	tileHeight := height / 8

	for tileY := 0; tileY < tileHeight; tileY++ {
		for tileX := 0; tileX < tileWidth; tileX++ {
			for y := 0; y < 2; y++ {
				for x := 0; x < 2; x++ {
					for y2 := 0; y2 < 2; y2++ {
						for x2 := 0; x2 < 2; x2++ {
							for y3 := 0; y3 < 2; y3++ {
								for x3 := 0; x3 < 2; x3++ {
									pixelX := x3 + x2*2 + x*4 + tileX*8
									pixelY := y3 + y2*2 + y*4 + tileY*8

									texelX := x3 + x2*4 + x*16 + tileX*64
									texelY := y3*2 + y2*8 + y*32 + tileY*width*8

									visit(pixelX+pixelY*width, texelX+texelY)
								}
							}
						}
					}
				}
			}
		}
	}
}

// NextPowerOfTwo returns the smallest power of two >= n (1 for n <= 1).
func NextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}
