// Copyright 2026 The NWKit Authors
// SPDX-License-Identifier: Apache-2.0

// Package lim reads and writes BFLIM layout images, the NintendoWare
// single-texture resource used by 3DS layouts.
//
// Unlike the other containers, BFLIM is footer-addressed: the tiled
// texel data comes first and the last 0x28 bytes hold a FLIM header
// and an imag block describing dimensions, pixel format, alignment,
// and orientation. Tiling and pixel formats are shared with the font
// glyph sheets through lib/texture; BFLIM just numbers the formats
// differently, so this package carries the translation table.
package lim
