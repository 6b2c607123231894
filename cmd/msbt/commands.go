// Copyright 2026 The NWKit Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/spf13/pflag"

	"github.com/nwkit/nwkit/internal/toolio"
	"github.com/nwkit/nwkit/lib/cli"
	"github.com/nwkit/nwkit/lib/manifest"
	"github.com/nwkit/nwkit/lib/msbt"
)

func root() *cli.Command {
	return &cli.Command{
		Name:        "msbt",
		Description: "Convert MSBT message files to editable manifests and back.",
		Subcommands: []*cli.Command{
			extractCommand(),
			createCommand(),
			infoCommand(),
			toolio.VersionCommand("msbt"),
		},
		Examples: []cli.Example{
			{
				Description: "Extract messages to an editable manifest",
				Command:     "msbt extract dialog.msbt",
			},
			{
				Description: "Rebuild the file after editing",
				Command:     "msbt create dialog_manifest.json",
			},
		},
	}
}

func extractCommand() *cli.Command {
	var (
		configPath string
		output     string
		yes        bool
		ascii      bool
		format     string
		verbose    bool
	)
	return &cli.Command{
		Name:    "extract",
		Summary: "Decompose a message file into a manifest",
		Usage:   "msbt extract <msbt file> [flags]",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("extract", pflag.ContinueOnError)
			flags.StringVar(&configPath, "config", "", "config file (overrides NWKIT_CONFIG)")
			flags.StringVarP(&output, "output", "o", "", "output directory (default: alongside the input)")
			flags.BoolVarP(&yes, "yes", "y", false, "overwrite existing files without prompting")
			flags.BoolVar(&ascii, "ascii", false, "escape non-ASCII characters in the JSON manifest")
			flags.StringVar(&format, "format", "", "manifest format: json or cbor")
			flags.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
			return flags
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one message file argument, got %d", len(args))
			}
			input := args[0]
			logger := cli.NewCommandLogger(verbose).With("command", "msbt extract")

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
				return fmt.Errorf("reading message file: %w", err)
			}
			doc, err := msbt.Decode(data)
			if err != nil {
				return err
			}

			man := doc.Extract()
			integ := manifest.NewIntegrity()
			integ.Add(filepath.Base(input), data)
			man.Integrity = integ

			dir := toolio.OutputDir(output, cfg, input)
			base := toolio.BaseName(input)
			manifestPath := filepath.Join(dir, base+"_manifest"+manifestFormat.Extension())
			encoded, err := manifest.Encode(man, manifest.Options{
				Format: manifestFormat,
				ASCII:  ascii || cfg.ASCII,
			})
			if err != nil {
				return err
			}
			if err := toolio.WriteFile(manifestPath, encoded, yes || cfg.Overwrite); err != nil {
				return err
			}

			logger.Info("extracted messages",
				"manifest", manifestPath,
				"messages", len(man.Messages),
				"encoding", man.Encoding)
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
		Summary: "Build a message file from a manifest",
		Usage:   "msbt create <manifest file> [flags]",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("create", pflag.ContinueOnError)
			flags.StringVar(&configPath, "config", "", "config file (overrides NWKIT_CONFIG)")
			flags.StringVarP(&output, "output", "o", "", "output path (default: derived from the manifest name)")
			flags.BoolVarP(&yes, "yes", "y", false, "overwrite existing files without prompting")
			flags.BoolVar(&little, "little-endian", false, "write a little-endian file")
			flags.BoolVar(&big, "big-endian", false, "write a big-endian file")
			flags.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
			return flags
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one manifest file argument, got %d", len(args))
			}
			manifestPath := args[0]
			logger := cli.NewCommandLogger(verbose).With("command", "msbt create")

			cfg, err := toolio.LoadConfig(configPath)
			if err != nil {
				return err
			}
			order, err := toolio.ResolveOrder(little, big, cfg)
			if err != nil {
				return err
			}

			var man msbt.Manifest
			if err := manifest.ReadFile(manifestPath, toolio.FormatForPath(manifestPath), &man); err != nil {
				return err
			}
			doc, err := msbt.Load(&man, order)
			if err != nil {
				return err
			}
			data, err := doc.Encode()
			if err != nil {
				return err
			}

			outputPath := output
			if outputPath == "" {
				dir := filepath.Dir(manifestPath)
				base := strings.TrimSuffix(toolio.BaseName(manifestPath), "_manifest")
				outputPath = filepath.Join(dir, base+".msbt")
			}
			if err := toolio.WriteFile(outputPath, data, yes || cfg.Overwrite); err != nil {
				return err
			}

			logger.Info("created message file",
				"output", outputPath,
				"messages", len(doc.Messages),
				"bytes", len(data))
			return nil
		},
	}
}

func infoCommand() *cli.Command {
	return &cli.Command{
		Name:    "info",
		Summary: "Print message file structure and labels",
		Usage:   "msbt info <msbt file>",
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one message file argument, got %d", len(args))
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading message file: %w", err)
			}
			doc, err := msbt.Decode(data)
			if err != nil {
				return err
			}

			fmt.Printf("encoding:   %s (%s)\n", doc.Encoding, toolio.OrderName(doc.Order))
			fmt.Printf("messages:   %d\n", len(doc.Messages))
			if doc.AttributeSize >= 0 {
				fmt.Printf("attributes: %d bytes per message\n", doc.AttributeSize)
			}
			for _, section := range doc.Extra {
				fmt.Printf("section:    %s (%d bytes, uninterpreted)\n", section.Magic, len(section.Data))
			}

			tw := tabwriter.NewWriter(os.Stdout, 2, 0, 2, ' ', 0)
			for i := range doc.Messages {
				message := &doc.Messages[i]
				fmt.Fprintf(tw, "  %s\t%s\n", message.Label, preview(message.Text()))
			}
			return tw.Flush()
		},
	}
}

// preview renders the first line of a message, truncated for display.
func preview(text string) string {
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i] + "…"
	}
	const limit = 60
	if utf8.RuneCountInString(text) > limit {
		runes := []rune(text)
		text = string(runes[:limit]) + "…"
	}
	return text
}
