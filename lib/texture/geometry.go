// Copyright 2026 The NWKit Authors
// SPDX-License-Identifier: Apache-2.0

package texture

import "math"

// GeometryAdvice is a suggested power-of-two sheet layout for a glyph
// grid whose current dimensions are not powers of two. Hardware expects
// power-of-two sheets; a non-conforming sheet may produce a broken font.
type GeometryAdvice struct {
	Width  int
	Height int
	Cols   int
	Rows   int
}

// SuggestGeometry computes a power-of-two sheet layout that holds the
// same number of cells as the current cols x rows grid. cellWidth and
// cellHeight are the glyph cell dimensions (one less than the pixel
// pitch, as stored in TGLP).
func SuggestGeometry(width, height, cellWidth, cellHeight, cols, rows int) GeometryAdvice {
	area := width * height
	size1 := NextPowerOfTwo(int(math.Ceil(math.Sqrt(float64(area)))))
	size2 := NextPowerOfTwo(int(math.Ceil(float64(area) / float64(size1))))

	// Edge cases like a glyph wider than the suggestion are ignored;
	// this is advisory output only.
	suggestWidth := min(size1, size2)

	suggestCols := suggestWidth / (cellWidth + 1)
	suggestHeight := NextPowerOfTwo(int(math.Ceil(
		float64(cols*rows) / float64(suggestCols) * float64(cellHeight+1))))
	suggestRows := suggestHeight / (cellHeight + 1)

	return GeometryAdvice{
		Width:  suggestWidth,
		Height: suggestHeight,
		Cols:   suggestCols,
		Rows:   suggestRows,
	}
}
