// Copyright 2026 The NWKit Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"github.com/nwkit/nwkit/internal/toolio"
	"github.com/nwkit/nwkit/lib/cli"
	"github.com/nwkit/nwkit/lib/lim"
	"github.com/nwkit/nwkit/lib/manifest"
)

func root() *cli.Command {
	return &cli.Command{
		Name:        "bflim",
		Description: "Convert BFLIM layout images to PNG and back.",
		Subcommands: []*cli.Command{
			extractCommand(),
			createCommand(),
			infoCommand(),
			toolio.VersionCommand("bflim"),
		},
		Examples: []cli.Example{
			{
				Description: "Extract an image to PNG plus a manifest",
				Command:     "bflim extract button.bflim",
			},
			{
				Description: "Rebuild the image after editing the PNG",
				Command:     "bflim create button_manifest.json",
			},
		},
	}
}

func extractCommand() *cli.Command {
	var (
		configPath string
		output     string
		yes        bool
		format     string
		verbose    bool
	)
	return &cli.Command{
		Name:    "extract",
		Summary: "Decompose an image into a PNG and a manifest",
		Usage:   "bflim extract <bflim file> [flags]",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("extract", pflag.ContinueOnError)
			flags.StringVar(&configPath, "config", "", "config file (overrides NWKIT_CONFIG)")
			flags.StringVarP(&output, "output", "o", "", "output directory (default: alongside the input)")
			flags.BoolVarP(&yes, "yes", "y", false, "overwrite existing files without prompting")
			flags.StringVar(&format, "format", "", "manifest format: json or cbor")
			flags.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
			return flags
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one image file argument, got %d", len(args))
			}
			input := args[0]
			logger := cli.NewCommandLogger(verbose).With("command", "bflim extract")

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
				return fmt.Errorf("reading image: %w", err)
			}
			img, err := lim.Decode(data)
			if err != nil {
				return err
			}
			man, picture, err := img.Extract()
			if err != nil {
				return err
			}

			dir := toolio.OutputDir(output, cfg, input)
			base := toolio.BaseName(input)
			overwrite := yes || cfg.Overwrite

			pngData, err := toolio.EncodePicture(picture)
			if err != nil {
				return err
			}
			pngName := base + ".png"
			if err := toolio.WriteFile(filepath.Join(dir, pngName), pngData, overwrite); err != nil {
				return err
			}

			integ := manifest.NewIntegrity()
			integ.Add(filepath.Base(input), data)
			integ.Add(pngName, pngData)
			man.Integrity = integ

			manifestPath := filepath.Join(dir, base+"_manifest"+manifestFormat.Extension())
			encoded, err := manifest.Encode(man, manifest.Options{
				Format: manifestFormat,
				ASCII:  cfg.ASCII,
			})
			if err != nil {
				return err
			}
			if err := toolio.WriteFile(manifestPath, encoded, overwrite); err != nil {
				return err
			}

			bounds := picture.Bounds()
			logger.Info("extracted image",
				"png", filepath.Join(dir, pngName),
				"size", fmt.Sprintf("%dx%d", bounds.Dx(), bounds.Dy()),
				"format", man.ColorFormat)
			return nil
		},
	}
}

func createCommand() *cli.Command {
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
		Summary: "Build an image from a PNG and a manifest",
		Usage:   "bflim create <manifest file> [flags]",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("create", pflag.ContinueOnError)
			flags.StringVar(&configPath, "config", "", "config file (overrides NWKIT_CONFIG)")
			flags.StringVarP(&output, "output", "o", "", "output path (default: derived from the manifest name)")
			flags.BoolVarP(&yes, "yes", "y", false, "overwrite existing files without prompting")
			flags.BoolVar(&little, "little-endian", false, "write a little-endian image")
			flags.BoolVar(&big, "big-endian", false, "write a big-endian image")
			flags.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
			return flags
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one manifest file argument, got %d", len(args))
			}
			manifestPath := args[0]
			logger := cli.NewCommandLogger(verbose).With("command", "bflim create")

			cfg, err := toolio.LoadConfig(configPath)
			if err != nil {
				return err
			}
			order, err := toolio.ResolveOrder(little, big, cfg)
			if err != nil {
				return err
			}

			var man lim.Manifest
			if err := manifest.ReadFile(manifestPath, toolio.FormatForPath(manifestPath), &man); err != nil {
				return err
			}

			dir := filepath.Dir(manifestPath)
			base := strings.TrimSuffix(toolio.BaseName(manifestPath), "_manifest")
			picture, err := toolio.ReadPicture(filepath.Join(dir, base+".png"))
			if err != nil {
				return err
			}

			img, err := lim.Load(&man, picture, order)
			if err != nil {
				return err
			}
			data, err := img.Encode()
			if err != nil {
				return err
			}

			outputPath := output
			if outputPath == "" {
				outputPath = filepath.Join(dir, base+".bflim")
			}
			if err := toolio.WriteFile(outputPath, data, yes || cfg.Overwrite); err != nil {
				return err
			}

			logger.Info("created image",
				"output", outputPath,
				"bytes", len(data),
				"format", man.ColorFormat)
			return nil
		},
	}
}

func infoCommand() *cli.Command {
	return &cli.Command{
		Name:    "info",
		Summary: "Print image geometry and format",
		Usage:   "bflim info <bflim file>",
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one image file argument, got %d", len(args))
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading image: %w", err)
			}
			img, err := lim.Decode(data)
			if err != nil {
				return err
			}

			fmt.Printf("size:        %dx%d stored (%s)\n",
				img.Width, img.Height, img.Orientation)
			fmt.Printf("format:      %s (%d data bytes)\n", img.Format, len(img.Data))
			fmt.Printf("alignment:   %d\n", img.Alignment)
			fmt.Printf("version:     0x%08x (%s)\n", img.Version, toolio.OrderName(img.Order))
			return nil
		},
	}
}
