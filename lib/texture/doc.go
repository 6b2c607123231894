// Copyright 2026 The NWKit Authors
// SPDX-License-Identifier: Apache-2.0

// Package texture implements the tiled texture encoding shared by the
// 3DS/WiiU NintendoWare image formats (BFFNT/BCFNT glyph sheets, BFLIM
// layout images).
//
// Textures are stored as 8x8 pixel tiles in Morton (Z) order: each tile
// is a 2x2 arrangement of sub-tiles, recursively down to 2x2 pixel
// groups. [DecodeSheet] linearizes that layout into an *image.NRGBA;
// [EncodeSheet] is the inverse. Texel data within a tile is packed in
// one of thirteen pixel formats ([PixelFormat]); the two ETC1 variants
// are block-compressed and supported for decode only.
package texture
