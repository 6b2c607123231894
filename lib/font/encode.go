// Copyright 2026 The NWKit Authors
// SPDX-License-Identifier: Apache-2.0

package font

import (
	"fmt"
	"sort"

	"github.com/nwkit/nwkit/lib/binio"
)

// Encode serializes the font in its byte order. Sheet data is placed at
// the fixed 0x2000 offset; the FINF section offsets, section sizes,
// file size, and section count are patched in after layout.
func (f *Font) Encode() ([]byte, error) {
	if err := f.validate(); err != nil {
		return nil, err
	}

	w := binio.NewWriter(f.Order)

	// FFNT header. File size and section count are patched at the end.
	w.Bytes([]byte(f.Magic))
	w.U16(binio.BOM())
	w.U16(ffntHeaderSize)
	w.U32(f.Version)
	fileSizePos := w.Pos()
	w.U32(0)
	sectionCountPos := w.Pos()
	w.U32(0)
	sectionCount := 0

	// FINF. The three chain offsets are patched as sections are laid
	// out; they point 8 bytes past each section start.
	finfStart := w.Pos()
	w.Bytes([]byte("FINF"))
	w.U32(finfHeaderSize)
	w.U8(f.Info.FontType)
	w.U8(f.Info.Height)
	w.U8(f.Info.Width)
	w.U8(f.Info.Ascent)
	w.U16(f.Info.LineFeed)
	w.U16(f.Info.AlterCharIndex)
	w.S8(f.Info.DefaultWidth.Left)
	w.U8(f.Info.DefaultWidth.Glyph)
	w.U8(f.Info.DefaultWidth.Char)
	w.U8(f.Info.Encoding)
	tglpOffsetPos := w.Pos()
	w.U32(0)
	cwdhOffsetPos := w.Pos()
	w.U32(0)
	cmapOffsetPos := w.Pos()
	w.U32(0)
	if w.Pos() != finfStart+finfHeaderSize {
		panic("font: FINF layout mismatch")
	}
	sectionCount++

	// TGLP header, then sheet data at the fixed offset.
	tglpStart := w.Pos()
	w.PatchU32(tglpOffsetPos, uint32(tglpStart+8))

	sheetSize := f.Texture.SheetSize()
	w.Bytes([]byte("TGLP"))
	tglpSizePos := w.Pos()
	w.U32(0)
	w.U8(f.Texture.CellWidth)
	w.U8(f.Texture.CellHeight)
	w.U8(uint8(len(f.Texture.Sheets)))
	w.U8(f.Texture.MaxCharWidth)
	w.U32(uint32(sheetSize))
	w.U16(f.Texture.Baseline)
	w.U16(uint16(f.Texture.Format))
	w.U16(f.Texture.Cols)
	w.U16(f.Texture.Rows)
	w.U16(f.Texture.SheetWidth)
	w.U16(f.Texture.SheetHeight)
	w.U32(sheetDataOffset)

	w.PadTo(sheetDataOffset, 0)
	for _, sheet := range f.Texture.Sheets {
		w.Bytes(sheet)
	}
	w.PatchU32(tglpSizePos, uint32(w.Pos()-tglpStart))
	sectionCount++

	// CWDH chain.
	w.PatchU32(cwdhOffsetPos, uint32(w.Pos()+8))
	prevNextPos := -1
	for _, section := range f.Widths {
		sectionStart := w.Pos()
		if prevNextPos >= 0 {
			w.PatchU32(prevNextPos, uint32(sectionStart+8))
		}

		w.Bytes([]byte("CWDH"))
		sizePos := w.Pos()
		w.U32(0)
		w.U16(section.Start)
		w.U16(section.End)
		prevNextPos = w.Pos()
		w.U32(0)

		for _, entry := range section.Entries {
			w.S8(entry.Left)
			w.U8(entry.Glyph)
			w.U8(entry.Char)
		}
		w.Align(4, 0)
		w.PatchU32(sizePos, uint32(w.Pos()-sectionStart))
		sectionCount++
	}

	// CMAP chain.
	w.PatchU32(cmapOffsetPos, uint32(w.Pos()+8))
	prevNextPos = -1
	for _, section := range f.Cmaps {
		sectionStart := w.Pos()
		if prevNextPos >= 0 {
			w.PatchU32(prevNextPos, uint32(sectionStart+8))
		}

		w.Bytes([]byte("CMAP"))
		sizePos := w.Pos()
		w.U32(0)
		w.U16(section.Start)
		w.U16(section.End)
		w.U16(uint16(section.Method))
		w.U16(0) // reserved
		prevNextPos = w.Pos()
		w.U32(0)

		switch section.Method {
		case MappingDirect:
			w.U16(section.IndexOffset)

		case MappingTable:
			for _, index := range section.Indexes {
				w.U16(index)
			}

		case MappingScan:
			codes := make([]uint16, 0, len(section.Entries))
			for code := range section.Entries {
				codes = append(codes, code)
			}
			sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })

			w.U16(uint16(len(codes)))
			for _, code := range codes {
				w.U16(code)
				w.U16(section.Entries[code])
			}
		}

		w.Align(4, 0)
		w.PatchU32(sizePos, uint32(w.Pos()-sectionStart))
		sectionCount++
	}

	w.PatchU32(fileSizePos, uint32(w.Pos()))
	w.PatchU32(sectionCountPos, uint32(sectionCount))

	return w.Data(), nil
}

// validate checks the invariants Encode depends on.
func (f *Font) validate() error {
	if !validMagic(f.Magic) {
		return fmt.Errorf("invalid font magic %q", f.Magic)
	}
	if !validVersion(f.Version) {
		return fmt.Errorf("invalid font version 0x%08x", f.Version)
	}
	if f.Order == nil {
		return fmt.Errorf("font byte order is not set")
	}
	if len(f.Texture.Sheets) == 0 {
		return fmt.Errorf("font has no glyph sheets")
	}
	if len(f.Texture.Sheets) > 0xFF {
		return fmt.Errorf("font has %d sheets, maximum is 255", len(f.Texture.Sheets))
	}
	sheetSize := f.Texture.SheetSize()
	for i, sheet := range f.Texture.Sheets {
		if len(sheet) != sheetSize {
			return fmt.Errorf("sheet %d is %d bytes, expected %d for %dx%d %s",
				i, len(sheet), sheetSize, f.Texture.SheetWidth, f.Texture.SheetHeight, f.Texture.Format)
		}
	}
	for i, section := range f.Widths {
		if section.End < section.Start {
			return fmt.Errorf("width section %d range end %d before start %d", i, section.End, section.Start)
		}
		if want := int(section.End) - int(section.Start) + 1; len(section.Entries) != want {
			return fmt.Errorf("width section %d has %d entries, expected %d", i, len(section.Entries), want)
		}
	}
	for i, section := range f.Cmaps {
		if section.Method == MappingTable {
			if want := int(section.End) - int(section.Start) + 1; len(section.Indexes) != want {
				return fmt.Errorf("cmap section %d has %d table entries, expected %d", i, len(section.Indexes), want)
			}
		}
	}
	return nil
}
