// Copyright 2026 The NWKit Authors
// SPDX-License-Identifier: Apache-2.0

// Package font implements the BFFNT/BCFNT binary font container used by
// the 3DS, WiiU, and Switch.
//
// A font file is a FFNT (or CFNT on 3DS) header followed by four kinds
// of sections:
//
//   - FINF: font metrics and the offsets of the first section of each
//     other kind
//   - TGLP: glyph sheet geometry plus the tiled texture data itself
//   - CWDH: per-glyph character widths, as a chain of index ranges
//   - CMAP: character-code-to-glyph-index mappings, as a chain of
//     direct/table/scan sections
//
// [Decode] parses a file into a [Font]; [Font.Encode] is the inverse.
// [Font.Extract] converts a font to an editable manifest plus RGBA
// sheet images, and [Load] rebuilds a Font from them.
package font
