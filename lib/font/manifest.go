// Copyright 2026 The NWKit Authors
// SPDX-License-Identifier: Apache-2.0

package font

import (
	"encoding/binary"
	"fmt"
	"image"
	"sort"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/nwkit/nwkit/lib/manifest"
	"github.com/nwkit/nwkit/lib/texture"
)

// Manifest is the editable JSON representation of a font produced by
// extract and consumed by create. The field names and shapes match the
// manifests written by the original converter, so existing edited
// manifests keep working.
type Manifest struct {
	FileType    string                `json:"fileType"`
	FontInfo    ManifestFontInfo      `json:"fontInfo"`
	GlyphMap    map[string]uint16     `json:"glyphMap"`
	GlyphWidths map[string]GlyphWidth `json:"glyphWidths"`
	Integrity   *manifest.Integrity   `json:"integrity,omitempty"`
	TextureInfo ManifestTextureInfo   `json:"textureInfo"`
	Version     uint32                `json:"version"`
}

// ManifestFontInfo mirrors the FINF section.
type ManifestFontInfo struct {
	AlterCharIdx uint16               `json:"alterCharIdx"`
	Ascent       uint8                `json:"ascent"`
	DefaultWidth ManifestDefaultWidth `json:"defaultWidth"`
	Encoding     uint8                `json:"encoding"`
	FontType     uint8                `json:"fontType"`
	Height       uint8                `json:"height"`
	LineFeed     uint16               `json:"lineFeed"`
	Width        uint8                `json:"width"`
}

// ManifestDefaultWidth is the FINF default width triple.
type ManifestDefaultWidth struct {
	CharWidth  uint8 `json:"charWidth"`
	GlyphWidth uint8 `json:"glyphWidth"`
	Left       int8  `json:"left"`
}

// GlyphWidth is one glyphWidths entry, keyed by decimal glyph index.
type GlyphWidth struct {
	Char  uint8 `json:"char"`
	Glyph uint8 `json:"glyph"`
	Left  int8  `json:"left"`
}

// ManifestTextureInfo mirrors the TGLP geometry.
type ManifestTextureInfo struct {
	Glyph      ManifestGlyph     `json:"glyph"`
	SheetCount int               `json:"sheetCount"`
	SheetInfo  ManifestSheetInfo `json:"sheetInfo"`
}

// ManifestGlyph is the glyph cell geometry.
type ManifestGlyph struct {
	Baseline uint16 `json:"baseline"`
	Height   uint8  `json:"height"`
	Width    uint8  `json:"width"`
}

// ManifestSheetInfo is the per-sheet geometry and pixel format.
type ManifestSheetInfo struct {
	ColorFormat string `json:"colorFormat"`
	Cols        uint16 `json:"cols"`
	Height      uint16 `json:"height"`
	Rows        uint16 `json:"rows"`
	Width       uint16 `json:"width"`
}

// Extract converts a decoded font into its manifest plus one RGBA image
// per glyph sheet.
func (f *Font) Extract() (*Manifest, []*image.NRGBA, error) {
	glyphWidths := make(map[string]GlyphWidth)
	for _, section := range f.Widths {
		for index := int(section.Start); index <= int(section.End); index++ {
			entry := section.Entries[index-int(section.Start)]
			glyphWidths[strconv.Itoa(index)] = GlyphWidth{
				Char:  entry.Char,
				Glyph: entry.Glyph,
				Left:  entry.Left,
			}
		}
	}

	glyphMap := make(map[string]uint16)
	for _, cmap := range f.Cmaps {
		switch cmap.Method {
		case MappingDirect:
			for code := int(cmap.Start); code <= int(cmap.End); code++ {
				key, err := codeUnitKey(uint16(code))
				if err != nil {
					return nil, nil, err
				}
				glyphMap[key] = uint16(code-int(cmap.Start)) + cmap.IndexOffset
			}
		case MappingTable:
			for code := int(cmap.Start); code <= int(cmap.End); code++ {
				index := cmap.Indexes[code-int(cmap.Start)]
				if index == 0xFFFF {
					continue
				}
				key, err := codeUnitKey(uint16(code))
				if err != nil {
					return nil, nil, err
				}
				glyphMap[key] = index
			}
		case MappingScan:
			for code, index := range cmap.Entries {
				key, err := codeUnitKey(code)
				if err != nil {
					return nil, nil, err
				}
				glyphMap[key] = index
			}
		}
	}

	man := &Manifest{
		FileType: strings.ToLower(f.Magic),
		FontInfo: ManifestFontInfo{
			AlterCharIdx: f.Info.AlterCharIndex,
			Ascent:       f.Info.Ascent,
			DefaultWidth: ManifestDefaultWidth{
				CharWidth:  f.Info.DefaultWidth.Char,
				GlyphWidth: f.Info.DefaultWidth.Glyph,
				Left:       f.Info.DefaultWidth.Left,
			},
			Encoding: f.Info.Encoding,
			FontType: f.Info.FontType,
			Height:   f.Info.Height,
			LineFeed: f.Info.LineFeed,
			Width:    f.Info.Width,
		},
		GlyphMap:    glyphMap,
		GlyphWidths: glyphWidths,
		TextureInfo: ManifestTextureInfo{
			Glyph: ManifestGlyph{
				Baseline: f.Texture.Baseline,
				Height:   f.Texture.CellHeight,
				Width:    f.Texture.CellWidth,
			},
			SheetCount: len(f.Texture.Sheets),
			SheetInfo: ManifestSheetInfo{
				ColorFormat: f.Texture.Format.String(),
				Cols:        f.Texture.Cols,
				Height:      f.Texture.SheetHeight,
				Rows:        f.Texture.Rows,
				Width:       f.Texture.SheetWidth,
			},
		},
		Version: f.Version,
	}

	sheets := make([]*image.NRGBA, len(f.Texture.Sheets))
	for i := range sheets {
		img, err := f.SheetImage(i)
		if err != nil {
			return nil, nil, err
		}
		sheets[i] = img
	}

	return man, sheets, nil
}

// Load builds an encodable font from a manifest and its sheet images,
// re-tiling each sheet into the manifest's pixel format. order selects
// the byte order of the eventual Encode output.
func Load(man *Manifest, sheets []*image.NRGBA, order binary.ByteOrder) (*Font, error) {
	magic := strings.ToUpper(man.FileType)
	if !validMagic(magic) {
		return nil, fmt.Errorf("invalid manifest fileType %q (expected ffnt, ffnu, cfnt, or cfnu)", man.FileType)
	}
	if !validVersion(man.Version) {
		return nil, fmt.Errorf("invalid manifest version 0x%08x", man.Version)
	}

	format, err := texture.ParsePixelFormat(man.TextureInfo.SheetInfo.ColorFormat)
	if err != nil {
		return nil, err
	}

	if len(sheets) != man.TextureInfo.SheetCount {
		return nil, fmt.Errorf("manifest declares %d sheets, got %d images", man.TextureInfo.SheetCount, len(sheets))
	}

	font := &Font{
		Magic:   magic,
		Order:   order,
		Version: man.Version,
		Info: FontInfo{
			FontType:       man.FontInfo.FontType,
			Height:         man.FontInfo.Height,
			Width:          man.FontInfo.Width,
			Ascent:         man.FontInfo.Ascent,
			LineFeed:       man.FontInfo.LineFeed,
			AlterCharIndex: man.FontInfo.AlterCharIdx,
			DefaultWidth: CharWidths{
				Left:  man.FontInfo.DefaultWidth.Left,
				Glyph: man.FontInfo.DefaultWidth.GlyphWidth,
				Char:  man.FontInfo.DefaultWidth.CharWidth,
			},
			Encoding: man.FontInfo.Encoding,
		},
		Texture: Texture{
			CellWidth:   man.TextureInfo.Glyph.Width,
			CellHeight:  man.TextureInfo.Glyph.Height,
			Baseline:    man.TextureInfo.Glyph.Baseline,
			Format:      format,
			Cols:        man.TextureInfo.SheetInfo.Cols,
			Rows:        man.TextureInfo.SheetInfo.Rows,
			SheetWidth:  man.TextureInfo.SheetInfo.Width,
			SheetHeight: man.TextureInfo.SheetInfo.Height,
		},
	}

	widths, maxCharWidth, err := widthSectionFromManifest(man.GlyphWidths)
	if err != nil {
		return nil, err
	}
	font.Widths = []WidthSection{widths}
	font.Texture.MaxCharWidth = maxCharWidth

	cmap, err := scanCmapFromManifest(man.GlyphMap)
	if err != nil {
		return nil, err
	}
	font.Cmaps = []CmapSection{cmap}

	font.Texture.Sheets = make([][]byte, len(sheets))
	for i, img := range sheets {
		data, err := texture.EncodeSheet(img,
			int(font.Texture.SheetWidth), int(font.Texture.SheetHeight), format)
		if err != nil {
			return nil, fmt.Errorf("encoding sheet %d: %w", i, err)
		}
		font.Texture.Sheets[i] = data
	}

	return font, nil
}

// widthSectionFromManifest rebuilds the CWDH section from the decimal-
// indexed glyphWidths map. Indexes must be contiguous from zero.
func widthSectionFromManifest(glyphWidths map[string]GlyphWidth) (WidthSection, uint8, error) {
	if len(glyphWidths) == 0 {
		return WidthSection{}, 0, fmt.Errorf("manifest has no glyphWidths entries")
	}

	indexes := make([]int, 0, len(glyphWidths))
	for key := range glyphWidths {
		index, err := strconv.Atoi(key)
		if err != nil {
			return WidthSection{}, 0, fmt.Errorf("invalid glyphWidths index %q: %w", key, err)
		}
		indexes = append(indexes, index)
	}
	sort.Ints(indexes)

	section := WidthSection{
		Start:   0,
		End:     uint16(indexes[len(indexes)-1]),
		Entries: make([]CharWidths, len(indexes)),
	}

	var widest uint8
	for position, index := range indexes {
		if index != position {
			return WidthSection{}, 0, fmt.Errorf("glyphWidths indexes are not contiguous: missing %d", position)
		}
		entry := glyphWidths[strconv.Itoa(index)]
		section.Entries[position] = CharWidths{
			Left:  entry.Left,
			Glyph: entry.Glyph,
			Char:  entry.Char,
		}
		if entry.Char > widest {
			widest = entry.Char
		}
	}

	return section, widest, nil
}

// scanCmapFromManifest rebuilds the glyph map as a single Scan-method
// CMAP section, the same shape the original create path produced.
func scanCmapFromManifest(glyphMap map[string]uint16) (CmapSection, error) {
	if len(glyphMap) == 0 {
		return CmapSection{}, fmt.Errorf("manifest has no glyphMap entries")
	}

	section := CmapSection{
		Method:  MappingScan,
		Entries: make(map[uint16]uint16, len(glyphMap)),
		Start:   0xFFFF,
	}

	for key, index := range glyphMap {
		runes := []rune(key)
		if len(runes) != 1 {
			return CmapSection{}, fmt.Errorf("glyphMap key %q is not a single character", key)
		}
		units := utf16.Encode(runes)
		if len(units) != 1 {
			return CmapSection{}, fmt.Errorf("glyphMap key %q is outside the Basic Multilingual Plane", key)
		}
		code := units[0]

		section.Entries[code] = index
		if code < section.Start {
			section.Start = code
		}
		if code > section.End {
			section.End = code
		}
	}

	return section, nil
}

// codeUnitKey formats a UTF-16 code unit as a one-character manifest
// key.
func codeUnitKey(code uint16) (string, error) {
	if code >= 0xD800 && code <= 0xDFFF {
		return "", fmt.Errorf("character map contains UTF-16 surrogate code 0x%04x", code)
	}
	return string(rune(code)), nil
}
