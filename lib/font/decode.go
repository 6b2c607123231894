// Copyright 2026 The NWKit Authors
// SPDX-License-Identifier: Apache-2.0

package font

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/nwkit/nwkit/lib/binio"
	"github.com/nwkit/nwkit/lib/texture"
)

// Decoder parses BFFNT/BCFNT files. The zero value is usable; set
// Logger to get per-section debug dumps while parsing.
type Decoder struct {
	Logger *slog.Logger
}

// Decode parses a font file with a discarded logger.
func Decode(data []byte) (*Font, error) {
	return (&Decoder{}).Decode(data)
}

// Decode parses a complete font file.
func (d *Decoder) Decode(data []byte) (*Font, error) {
	if len(data) < ffntHeaderSize {
		return nil, fmt.Errorf("file is %d bytes, smaller than the %d-byte FFNT header", len(data), ffntHeaderSize)
	}

	order, err := binio.OrderFromBOM(data[4], data[5])
	if err != nil {
		return nil, err
	}

	font := &Font{Order: order}
	r := binio.NewReader(data, order)

	tglpOffset, cwdhOffset, cmapOffset, err := d.parseHeaders(r, font)
	if err != nil {
		return nil, err
	}

	if err := d.parseTGLP(r, font, tglpOffset); err != nil {
		return nil, err
	}
	if err := d.parseWidthChain(r, font, cwdhOffset); err != nil {
		return nil, err
	}
	if err := d.parseCmapChain(r, font, cmapOffset); err != nil {
		return nil, err
	}

	return font, nil
}

// parseHeaders reads the FFNT and FINF headers and returns the three
// section chain offsets from FINF.
func (d *Decoder) parseHeaders(r *binio.Reader, font *Font) (tglp, cwdh, cmap uint32, err error) {
	magic := string(r.Bytes(4))
	bom := r.U16()
	headerSize := r.U16()
	version := r.U32()
	fileSize := r.U32()
	sections := r.U32()
	if err := r.Err(); err != nil {
		return 0, 0, 0, fmt.Errorf("reading FFNT header: %w", err)
	}

	if !validMagic(magic) {
		return 0, 0, 0, fmt.Errorf("invalid FFNT magic %q (expected one of %s)",
			magic, strings.Join(knownMagics, ", "))
	}
	if headerSize != ffntHeaderSize {
		return 0, 0, 0, fmt.Errorf("invalid FFNT header size %d (expected %d)", headerSize, ffntHeaderSize)
	}
	if !validVersion(version) {
		return 0, 0, 0, fmt.Errorf("unknown version 0x%08x (expected 0x04000000 or 0x03000000)", version)
	}
	if int(fileSize) != r.Len() {
		return 0, 0, 0, fmt.Errorf("header file size %d does not match actual size %d", fileSize, r.Len())
	}

	font.Magic = magic
	font.Version = version

	d.debug("FFNT header",
		"magic", magic,
		"bom", fmt.Sprintf("0x%04x", bom),
		"version", fmt.Sprintf("0x%08x", version),
		"fileSize", fileSize,
		"sections", sections)

	finfMagic := string(r.Bytes(4))
	finfSize := r.U32()
	font.Info.FontType = r.U8()
	font.Info.Height = r.U8()
	font.Info.Width = r.U8()
	font.Info.Ascent = r.U8()
	font.Info.LineFeed = r.U16()
	font.Info.AlterCharIndex = r.U16()
	font.Info.DefaultWidth.Left = r.S8()
	font.Info.DefaultWidth.Glyph = r.U8()
	font.Info.DefaultWidth.Char = r.U8()
	font.Info.Encoding = r.U8()
	tglpOffset := r.U32()
	cwdhOffset := r.U32()
	cmapOffset := r.U32()
	if err := r.Err(); err != nil {
		return 0, 0, 0, fmt.Errorf("reading FINF header: %w", err)
	}

	if finfMagic != "FINF" {
		return 0, 0, 0, fmt.Errorf("invalid FINF magic %q (expected FINF)", finfMagic)
	}
	if finfSize != finfHeaderSize {
		return 0, 0, 0, fmt.Errorf("invalid FINF size %d (expected %d)", finfSize, finfHeaderSize)
	}

	d.debug("FINF section",
		"fontType", font.Info.FontType,
		"height", font.Info.Height,
		"width", font.Info.Width,
		"ascent", font.Info.Ascent,
		"lineFeed", font.Info.LineFeed,
		"alterCharIndex", font.Info.AlterCharIndex,
		"encoding", font.Info.Encoding,
		"tglpOffset", fmt.Sprintf("0x%08x", tglpOffset),
		"cwdhOffset", fmt.Sprintf("0x%08x", cwdhOffset),
		"cmapOffset", fmt.Sprintf("0x%08x", cmapOffset))

	return tglpOffset, cwdhOffset, cmapOffset, nil
}

// parseTGLP reads the glyph sheet section. offset points 8 bytes past
// the section start, as stored in FINF.
func (d *Decoder) parseTGLP(r *binio.Reader, font *Font, offset uint32) error {
	if offset < 8 {
		return fmt.Errorf("invalid TGLP offset 0x%x", offset)
	}
	r.Seek(int(offset) - 8)

	magic := string(r.Bytes(4))
	sectionSize := r.U32()
	font.Texture.CellWidth = r.U8()
	font.Texture.CellHeight = r.U8()
	sheetCount := r.U8()
	font.Texture.MaxCharWidth = r.U8()
	sheetSize := r.U32()
	font.Texture.Baseline = r.U16()
	format := r.U16()
	font.Texture.Cols = r.U16()
	font.Texture.Rows = r.U16()
	font.Texture.SheetWidth = r.U16()
	font.Texture.SheetHeight = r.U16()
	dataOffset := r.U32()
	if err := r.Err(); err != nil {
		return fmt.Errorf("reading TGLP header: %w", err)
	}

	if magic != "TGLP" {
		return fmt.Errorf("invalid TGLP magic %q (expected TGLP)", magic)
	}
	font.Texture.Format = texture.PixelFormat(format)
	if !font.Texture.Format.Valid() {
		return fmt.Errorf("invalid TGLP sheet format 0x%x", format)
	}
	if font.Texture.SheetWidth == 0 || font.Texture.SheetHeight == 0 {
		return fmt.Errorf("invalid TGLP sheet dimensions %dx%d",
			font.Texture.SheetWidth, font.Texture.SheetHeight)
	}
	if want := font.Texture.SheetSize(); int(sheetSize) != want {
		return fmt.Errorf("TGLP sheet size %d does not match %dx%d %s sheets (expected %d)",
			sheetSize, font.Texture.SheetWidth, font.Texture.SheetHeight, font.Texture.Format, want)
	}

	d.debug("TGLP section",
		"sectionSize", sectionSize,
		"cellWidth", font.Texture.CellWidth,
		"cellHeight", font.Texture.CellHeight,
		"sheetCount", sheetCount,
		"maxCharWidth", font.Texture.MaxCharWidth,
		"sheetSize", sheetSize,
		"baseline", font.Texture.Baseline,
		"format", font.Texture.Format.String(),
		"cols", font.Texture.Cols,
		"rows", font.Texture.Rows,
		"sheetWidth", font.Texture.SheetWidth,
		"sheetHeight", font.Texture.SheetHeight,
		"dataOffset", fmt.Sprintf("0x%08x", dataOffset))

	font.Texture.Sheets = make([][]byte, sheetCount)
	for i := range font.Texture.Sheets {
		r.Seek(int(dataOffset) + i*int(sheetSize))
		sheet := r.Bytes(int(sheetSize))
		if err := r.Err(); err != nil {
			return fmt.Errorf("reading sheet %d data: %w", i, err)
		}
		// Copy out of the input buffer so the Font owns its data.
		font.Texture.Sheets[i] = append([]byte(nil), sheet...)
	}

	return nil
}

// parseWidthChain follows the CWDH section chain.
func (d *Decoder) parseWidthChain(r *binio.Reader, font *Font, offset uint32) error {
	seen := make(map[uint32]bool)
	for offset > 0 {
		if seen[offset] {
			return fmt.Errorf("CWDH chain loops back to offset 0x%x", offset)
		}
		seen[offset] = true

		if offset < 8 {
			return fmt.Errorf("invalid CWDH offset 0x%x", offset)
		}
		r.Seek(int(offset) - 8)

		magic := string(r.Bytes(4))
		sectionSize := r.U32()
		start := r.U16()
		end := r.U16()
		next := r.U32()
		if err := r.Err(); err != nil {
			return fmt.Errorf("reading CWDH header: %w", err)
		}

		if magic != "CWDH" {
			return fmt.Errorf("invalid CWDH magic %q (expected CWDH)", magic)
		}
		if end < start {
			return fmt.Errorf("CWDH range end %d before start %d", end, start)
		}

		d.debug("CWDH section", "sectionSize", sectionSize, "start", start, "end", end,
			"next", fmt.Sprintf("0x%x", next))

		section := WidthSection{
			Start:   start,
			End:     end,
			Entries: make([]CharWidths, int(end)-int(start)+1),
		}
		for i := range section.Entries {
			section.Entries[i] = CharWidths{
				Left:  r.S8(),
				Glyph: r.U8(),
				Char:  r.U8(),
			}
		}
		if err := r.Err(); err != nil {
			return fmt.Errorf("reading CWDH entries: %w", err)
		}

		font.Widths = append(font.Widths, section)
		offset = next
	}
	return nil
}

// parseCmapChain follows the CMAP section chain.
func (d *Decoder) parseCmapChain(r *binio.Reader, font *Font, offset uint32) error {
	seen := make(map[uint32]bool)
	for offset > 0 {
		if seen[offset] {
			return fmt.Errorf("CMAP chain loops back to offset 0x%x", offset)
		}
		seen[offset] = true

		if offset < 8 {
			return fmt.Errorf("invalid CMAP offset 0x%x", offset)
		}
		r.Seek(int(offset) - 8)

		magic := string(r.Bytes(4))
		sectionSize := r.U32()
		start := r.U16()
		end := r.U16()
		method := MappingMethod(r.U16())
		r.U16() // reserved
		next := r.U32()
		if err := r.Err(); err != nil {
			return fmt.Errorf("reading CMAP header: %w", err)
		}

		if magic != "CMAP" {
			return fmt.Errorf("invalid CMAP magic %q (expected CMAP)", magic)
		}

		d.debug("CMAP section", "sectionSize", sectionSize,
			"start", fmt.Sprintf("0x%x", start), "end", fmt.Sprintf("0x%x", end),
			"method", method.String(), "next", fmt.Sprintf("0x%x", next))

		section := CmapSection{Start: start, End: end, Method: method}

		switch method {
		case MappingDirect:
			section.IndexOffset = r.U16()

		case MappingTable:
			if end < start {
				return fmt.Errorf("CMAP table range end 0x%x before start 0x%x", end, start)
			}
			section.Indexes = make([]uint16, int(end)-int(start)+1)
			for i := range section.Indexes {
				section.Indexes[i] = r.U16()
			}

		case MappingScan:
			count := r.U16()
			section.Entries = make(map[uint16]uint16, count)
			for i := 0; i < int(count); i++ {
				code := r.U16()
				index := r.U16()
				section.Entries[code] = index
			}

		default:
			return fmt.Errorf("unknown CMAP mapping method 0x%x", uint16(method))
		}
		if err := r.Err(); err != nil {
			return fmt.Errorf("reading CMAP data: %w", err)
		}

		font.Cmaps = append(font.Cmaps, section)
		offset = next
	}
	return nil
}

func (d *Decoder) debug(msg string, args ...any) {
	if d.Logger != nil {
		d.Logger.Debug(msg, args...)
	}
}
