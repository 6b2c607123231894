// Copyright 2026 The NWKit Authors
// SPDX-License-Identifier: Apache-2.0

package font

import (
	"encoding/binary"
	"fmt"
	"image"

	"github.com/nwkit/nwkit/lib/texture"
)

// Section layout constants. Sizes include the 4-byte magic and 4-byte
// section size fields; FINF offsets point 8 bytes past section starts
// (skipping exactly those two fields).
const (
	ffntHeaderSize = 0x14
	finfHeaderSize = 0x20
	tglpHeaderSize = 0x20
	cwdhHeaderSize = 0x10
	cmapHeaderSize = 0x14

	// sheetDataOffset is the fixed file offset where TGLP sheet data
	// begins. The gap between the TGLP header and this offset is
	// zero padding.
	sheetDataOffset = 0x2000
)

// Accepted header versions.
var versions = []uint32{0x04000000, 0x03000000}

// Magic strings. FFNT/FFNU are the WiiU/Switch BFFNT variants, CFNT/
// CFNU the 3DS BCFNT variants; the section layout is shared.
var knownMagics = []string{"FFNT", "FFNU", "CFNT", "CFNU"}

// MappingMethod selects how a CMAP section maps character codes to
// glyph indexes.
type MappingMethod uint16

const (
	// MappingDirect maps a contiguous code range by adding a fixed
	// index offset.
	MappingDirect MappingMethod = 0x00
	// MappingTable stores one glyph index per code in the range;
	// 0xFFFF marks an unmapped code.
	MappingTable MappingMethod = 0x01
	// MappingScan stores sparse (code, index) pairs sorted by code.
	MappingScan MappingMethod = 0x02
)

// String returns the mapping method name used in debug output.
func (m MappingMethod) String() string {
	switch m {
	case MappingDirect:
		return "Direct"
	case MappingTable:
		return "Table"
	case MappingScan:
		return "Scan"
	default:
		return fmt.Sprintf("unknown(0x%x)", uint16(m))
	}
}

// CharWidths holds the three per-glyph width metrics.
type CharWidths struct {
	// Left is the left-side bearing (signed: glyphs may overhang).
	Left int8
	// Glyph is the glyph bitmap width.
	Glyph uint8
	// Char is the character advance width.
	Char uint8
}

// FontInfo is the FINF section: global font metrics.
type FontInfo struct {
	FontType       uint8
	Height         uint8
	Width          uint8
	Ascent         uint8
	LineFeed       uint16
	AlterCharIndex uint16
	DefaultWidth   CharWidths
	Encoding       uint8
}

// Texture is the TGLP section: glyph sheet geometry plus the sheet
// texel data.
type Texture struct {
	// CellWidth and CellHeight are the glyph cell dimensions (one
	// less than the pixel pitch between cells).
	CellWidth  uint8
	CellHeight uint8
	// Baseline is the baseline position within a cell.
	Baseline uint16
	// MaxCharWidth is the widest character advance in the font.
	MaxCharWidth uint8

	Format texture.PixelFormat

	// Cols and Rows are the glyph grid dimensions of one sheet.
	Cols uint16
	Rows uint16

	// SheetWidth and SheetHeight are the pixel dimensions of one sheet.
	SheetWidth  uint16
	SheetHeight uint16

	// Sheets holds the raw tiled texel data, one entry per sheet.
	Sheets [][]byte
}

// SheetSize returns the byte length of one sheet.
func (t *Texture) SheetSize() int {
	return t.Format.SheetSize(int(t.SheetWidth), int(t.SheetHeight))
}

// WidthSection is one CWDH section: widths for glyph indexes
// Start..End inclusive.
type WidthSection struct {
	Start   uint16
	End     uint16
	Entries []CharWidths
}

// CmapSection is one CMAP section covering character codes Start..End.
// Exactly one of the method payload fields is meaningful, selected by
// Method.
type CmapSection struct {
	Start  uint16
	End    uint16
	Method MappingMethod

	// IndexOffset is the Direct-method glyph index of code Start.
	IndexOffset uint16
	// Indexes is the Table-method per-code glyph index list
	// (0xFFFF = unmapped).
	Indexes []uint16
	// Entries is the Scan-method sparse code-to-index map. Keys are
	// UTF-16 code units.
	Entries map[uint16]uint16
}

// Font is a decoded BFFNT/BCFNT file.
type Font struct {
	// Magic is one of FFNT, FFNU, CFNT, CFNU.
	Magic   string
	Order   binary.ByteOrder
	Version uint32

	Info    FontInfo
	Texture Texture
	Widths  []WidthSection
	Cmaps   []CmapSection
}

// SheetImage decodes sheet i into an RGBA image.
func (f *Font) SheetImage(i int) (*image.NRGBA, error) {
	if i < 0 || i >= len(f.Texture.Sheets) {
		return nil, fmt.Errorf("sheet index %d out of range [0, %d)", i, len(f.Texture.Sheets))
	}
	img, err := texture.DecodeSheet(f.Texture.Sheets[i],
		int(f.Texture.SheetWidth), int(f.Texture.SheetHeight), f.Texture.Format, f.Order)
	if err != nil {
		return nil, fmt.Errorf("decoding sheet %d: %w", i, err)
	}
	return img, nil
}

// GlyphWidth returns the width entry for a glyph index, falling back to
// the FINF default when no CWDH section covers it.
func (f *Font) GlyphWidth(index uint16) CharWidths {
	for _, section := range f.Widths {
		if index >= section.Start && index <= section.End {
			return section.Entries[index-section.Start]
		}
	}
	return f.Info.DefaultWidth
}

// GlyphIndex returns the glyph index for a character code, and whether
// the font maps it.
func (f *Font) GlyphIndex(code uint16) (uint16, bool) {
	for _, cmap := range f.Cmaps {
		switch cmap.Method {
		case MappingDirect:
			if code >= cmap.Start && code <= cmap.End {
				return code - cmap.Start + cmap.IndexOffset, true
			}
		case MappingTable:
			if code >= cmap.Start && code <= cmap.End {
				if index := cmap.Indexes[code-cmap.Start]; index != 0xFFFF {
					return index, true
				}
			}
		case MappingScan:
			if index, ok := cmap.Entries[code]; ok {
				return index, true
			}
		}
	}
	return 0, false
}

func validMagic(magic string) bool {
	for _, known := range knownMagics {
		if magic == known {
			return true
		}
	}
	return false
}

func validVersion(version uint32) bool {
	for _, known := range versions {
		if version == known {
			return true
		}
	}
	return false
}
