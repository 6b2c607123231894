// Copyright 2026 The NWKit Authors
// SPDX-License-Identifier: Apache-2.0

// Package fontcli builds the command trees for the bffnt and bcfnt
// binaries. The two tools share every code path; they differ only in
// which container magics they accept and the extension of the files
// they create.
package fontcli

import (
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/pflag"

	"github.com/nwkit/nwkit/internal/toolio"
	"github.com/nwkit/nwkit/lib/cli"
	"github.com/nwkit/nwkit/lib/font"
	"github.com/nwkit/nwkit/lib/manifest"
	"github.com/nwkit/nwkit/lib/texture"
)

// Tool describes one of the two font converter variants.
type Tool struct {
	// Name is the binary name, also used as the output file extension
	// ("bffnt" or "bcfnt").
	Name string
	// Summary is the one-line root help description.
	Summary string
	// Magics are the container magics this tool accepts.
	Magics []string
}

// Bffnt is the Wii U / Switch variant.
func Bffnt() Tool {
	return Tool{
		Name:    "bffnt",
		Summary: "Convert BFFNT bitmap fonts to editable manifests and back",
		Magics:  []string{"FFNT", "FFNU"},
	}
}

// Bcfnt is the 3DS variant.
func Bcfnt() Tool {
	return Tool{
		Name:    "bcfnt",
		Summary: "Convert BCFNT bitmap fonts to editable manifests and back",
		Magics:  []string{"CFNT", "CFNU"},
	}
}

func (t Tool) allows(magic string) bool {
	return slices.Contains(t.Magics, magic)
}

// Root builds the tool's complete command tree.
func Root(tool Tool) *cli.Command {
	return &cli.Command{
		Name:        tool.Name,
		Description: tool.Summary + ".",
		Subcommands: []*cli.Command{
			extractCommand(tool),
			createCommand(tool),
			infoCommand(tool),
			verifyCommand(tool),
			toolio.VersionCommand(tool.Name),
		},
		Examples: []cli.Example{
			{
				Description: "Extract a font to a manifest and sheet PNGs",
				Command:     fmt.Sprintf("%s extract kanji.%s", tool.Name, tool.Name),
			},
			{
				Description: "Rebuild the font after editing",
				Command:     fmt.Sprintf("%s create kanji_manifest.json", tool.Name),
			},
		},
	}
}

func extractCommand(tool Tool) *cli.Command {
	var (
		configPath string
		output     string
		yes        bool
		ascii      bool
		format     string
		verbose    bool
		debug      bool
	)
	return &cli.Command{
		Name:    "extract",
		Summary: "Decompose a font into a manifest and per-sheet PNGs",
		Usage:   fmt.Sprintf("%s extract <font file> [flags]", tool.Name),
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("extract", pflag.ContinueOnError)
			flags.StringVar(&configPath, "config", "", "config file (overrides NWKIT_CONFIG)")
			flags.StringVarP(&output, "output", "o", "", "output directory (default: alongside the input)")
			flags.BoolVarP(&yes, "yes", "y", false, "overwrite existing files without prompting")
			flags.BoolVar(&ascii, "ascii", false, "escape non-ASCII characters in the JSON manifest")
			flags.StringVar(&format, "format", "", "manifest format: json or cbor")
			flags.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
			flags.BoolVar(&debug, "debug", false, "dump section headers while parsing")
			return flags
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one font file argument, got %d", len(args))
			}
			input := args[0]
			logger := cli.NewCommandLogger(verbose || debug).With("command", tool.Name+" extract")

			cfg, err := toolio.LoadConfig(configPath)
			if err != nil {
				return err
			}
			manifestFormat, err := toolio.ResolveFormat(format, cfg)
			if err != nil {
				return err
			}

			data, err := os.ReadFile(input)
			if err != nil {
				return fmt.Errorf("reading font: %w", err)
			}
			fnt, err := decodeFont(tool, data, logger, debug)
			if err != nil {
				return err
			}

			man, sheets, err := fnt.Extract()
			if err != nil {
				return err
			}

			dir := toolio.OutputDir(output, cfg, input)
			base := toolio.BaseName(input)
			overwrite := yes || cfg.Overwrite

			integ := manifest.NewIntegrity()
			integ.Add(filepath.Base(input), data)
			for i, sheet := range sheets {
				pngData, err := toolio.EncodePicture(sheet)
				if err != nil {
					return err
				}
				name := sheetName(base, i)
				integ.Add(name, pngData)
				if err := toolio.WriteFile(filepath.Join(dir, name), pngData, overwrite); err != nil {
					return err
				}
			}
			man.Integrity = integ

			manifestPath := filepath.Join(dir, base+"_manifest"+manifestFormat.Extension())
			encoded, err := manifest.Encode(man, manifest.Options{
				Format: manifestFormat,
				ASCII:  ascii || cfg.ASCII,
			})
			if err != nil {
				return err
			}
			if err := toolio.WriteFile(manifestPath, encoded, overwrite); err != nil {
				return err
			}

			logger.Info("extracted font",
				"manifest", manifestPath,
				"sheets", len(sheets),
				"glyphs", len(man.GlyphMap))
			return nil
		},
	}
}

func createCommand(tool Tool) *cli.Command {
	var (
		configPath string
		output     string
		yes        bool
		little     bool
		big        bool
		verbose    bool
	)
	return &cli.Command{
		Name:    "create",
		Summary: "Build a font from a manifest and its sheet PNGs",
		Usage:   fmt.Sprintf("%s create <manifest file> [flags]", tool.Name),
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("create", pflag.ContinueOnError)
			flags.StringVar(&configPath, "config", "", "config file (overrides NWKIT_CONFIG)")
			flags.StringVarP(&output, "output", "o", "", "output font path (default: derived from the manifest name)")
			flags.BoolVarP(&yes, "yes", "y", false, "overwrite existing files without prompting")
			flags.BoolVar(&little, "little-endian", false, "write a little-endian font")
			flags.BoolVar(&big, "big-endian", false, "write a big-endian font")
			flags.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
			return flags
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one manifest file argument, got %d", len(args))
			}
			manifestPath := args[0]
			logger := cli.NewCommandLogger(verbose).With("command", tool.Name+" create")

			cfg, err := toolio.LoadConfig(configPath)
			if err != nil {
				return err
			}
			order, err := toolio.ResolveOrder(little, big, cfg)
			if err != nil {
				return err
			}

			var man font.Manifest
			if err := manifest.ReadFile(manifestPath, toolio.FormatForPath(manifestPath), &man); err != nil {
				return err
			}
			if !tool.allows(strings.ToUpper(man.FileType)) {
				return fmt.Errorf("manifest fileType %q is not a %s font (want one of %s)",
					man.FileType, tool.Name, strings.ToLower(strings.Join(tool.Magics, ", ")))
			}

			warnSheetGeometry(logger, &man)

			dir := filepath.Dir(manifestPath)
			base := strings.TrimSuffix(toolio.BaseName(manifestPath), "_manifest")
			sheets := make([]*image.NRGBA, man.TextureInfo.SheetCount)
			for i := range sheets {
				sheet, err := toolio.ReadPicture(filepath.Join(dir, sheetName(base, i)))
				if err != nil {
					return err
				}
				sheets[i] = sheet
			}

			fnt, err := font.Load(&man, sheets, order)
			if err != nil {
				return err
			}
			data, err := fnt.Encode()
			if err != nil {
				return err
			}

			outputPath := output
			if outputPath == "" {
				outputPath = filepath.Join(dir, base+"."+tool.Name)
			}
			if err := toolio.WriteFile(outputPath, data, yes || cfg.Overwrite); err != nil {
				return err
			}

			logger.Info("created font",
				"output", outputPath,
				"bytes", len(data),
				"order", toolio.OrderName(order))
			return nil
		},
	}
}

func infoCommand(tool Tool) *cli.Command {
	var (
		verbose bool
		debug   bool
	)
	return &cli.Command{
		Name:    "info",
		Summary: "Print font metrics and section layout",
		Usage:   fmt.Sprintf("%s info <font file> [flags]", tool.Name),
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("info", pflag.ContinueOnError)
			flags.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
			flags.BoolVar(&debug, "debug", false, "dump section headers while parsing")
			return flags
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one font file argument, got %d", len(args))
			}
			logger := cli.NewCommandLogger(verbose || debug).With("command", tool.Name+" info")

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading font: %w", err)
			}
			fnt, err := decodeFont(tool, data, logger, debug)
			if err != nil {
				return err
			}
			printInfo(fnt)
			return nil
		},
	}
}

func verifyCommand(tool Tool) *cli.Command {
	var verbose bool
	return &cli.Command{
		Name:    "verify",
		Summary: "Check extracted files against the manifest integrity block",
		Usage:   fmt.Sprintf("%s verify <manifest file> [flags]", tool.Name),
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("verify", pflag.ContinueOnError)
			flags.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
			return flags
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one manifest file argument, got %d", len(args))
			}
			manifestPath := args[0]

			var man font.Manifest
			if err := manifest.ReadFile(manifestPath, toolio.FormatForPath(manifestPath), &man); err != nil {
				return err
			}
			if man.Integrity == nil {
				return fmt.Errorf("manifest has no integrity block")
			}
			return toolio.VerifyDigests(filepath.Dir(manifestPath), man.Integrity)
		},
	}
}

// decodeFont parses the input and checks it is a variant this tool
// handles. With debug set the decoder logs every section header.
func decodeFont(tool Tool, data []byte, logger *slog.Logger, debug bool) (*font.Font, error) {
	decoder := &font.Decoder{}
	if debug {
		decoder.Logger = logger
	}
	fnt, err := decoder.Decode(data)
	if err != nil {
		return nil, err
	}
	if !tool.allows(fnt.Magic) {
		return nil, fmt.Errorf("input is a %s font, not handled by %s (want one of %s)",
			fnt.Magic, tool.Name, strings.Join(tool.Magics, ", "))
	}
	return fnt, nil
}

func sheetName(base string, i int) string {
	return fmt.Sprintf("%s_sheet%d.png", base, i)
}

// warnSheetGeometry flags manifests whose sheet dimensions are not
// powers of two. The font still builds; hardware may reject it, so the
// warning includes a conforming layout that holds the same glyph grid.
func warnSheetGeometry(logger *slog.Logger, man *font.Manifest) {
	info := man.TextureInfo.SheetInfo
	if texture.IsPowerOfTwo(int(info.Width)) && texture.IsPowerOfTwo(int(info.Height)) {
		return
	}
	advice := texture.SuggestGeometry(
		int(info.Width), int(info.Height),
		int(man.TextureInfo.Glyph.Width), int(man.TextureInfo.Glyph.Height),
		int(info.Cols), int(info.Rows))
	logger.Warn("sheet dimensions are not powers of two; hardware may reject the font",
		"width", info.Width,
		"height", info.Height,
		"suggestedWidth", advice.Width,
		"suggestedHeight", advice.Height,
		"suggestedCols", advice.Cols,
		"suggestedRows", advice.Rows)
}

func printInfo(fnt *font.Font) {
	fmt.Printf("file type:    %s (version 0x%08x, %s)\n",
		strings.ToLower(fnt.Magic), fnt.Version, toolio.OrderName(fnt.Order))
	fmt.Printf("font:         height %d, width %d, ascent %d, line feed %d\n",
		fnt.Info.Height, fnt.Info.Width, fnt.Info.Ascent, fnt.Info.LineFeed)
	fmt.Printf("glyph cell:   %dx%d, baseline %d\n",
		fnt.Texture.CellWidth, fnt.Texture.CellHeight, fnt.Texture.Baseline)
	fmt.Printf("sheets:       %d of %dx%d %s (%d cols x %d rows)\n",
		len(fnt.Texture.Sheets), fnt.Texture.SheetWidth, fnt.Texture.SheetHeight,
		fnt.Texture.Format, fnt.Texture.Cols, fnt.Texture.Rows)

	widths := 0
	for _, section := range fnt.Widths {
		widths += len(section.Entries)
	}
	fmt.Printf("glyph widths: %d entries in %d sections\n", widths, len(fnt.Widths))

	for i, cmap := range fnt.Cmaps {
		fmt.Printf("cmap %d:       %s, codes 0x%04x-0x%04x\n",
			i, cmap.Method, cmap.Start, cmap.End)
	}
}
