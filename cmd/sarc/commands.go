// Copyright 2026 The NWKit Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/nwkit/nwkit/internal/toolio"
	"github.com/nwkit/nwkit/lib/cli"
	"github.com/nwkit/nwkit/lib/sarc"
)

func root() *cli.Command {
	return &cli.Command{
		Name:        "sarc",
		Description: "List, extract, and create SARC archives.",
		Subcommands: []*cli.Command{
			listCommand(),
			extractCommand(),
			createCommand(),
			toolio.VersionCommand("sarc"),
		},
		Examples: []cli.Example{
			{
				Description: "List the members of a compressed archive",
				Command:     "sarc list stage.szs",
			},
			{
				Description: "Extract an archive into a directory",
				Command:     "sarc extract stage.szs --output stage/",
			},
			{
				Description: "Pack a directory, Yaz0-compressed",
				Command:     "sarc create stage.szs stage/",
			},
		},
	}
}

// readArchive loads and decodes an archive file, unwrapping any outer
// compression.
func readArchive(path string) (*sarc.Archive, sarc.Compression, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, sarc.CompressionNone, fmt.Errorf("reading archive: %w", err)
	}
	payload, kind, err := sarc.Decompress(data)
	if err != nil {
		return nil, kind, err
	}
	arch, err := sarc.Decode(payload)
	if err != nil {
		return nil, kind, err
	}
	return arch, kind, nil
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:    "list",
		Summary: "Print the members of an archive",
		Usage:   "sarc list <archive>",
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one archive argument, got %d", len(args))
			}
			arch, kind, err := readArchive(args[0])
			if err != nil {
				return err
			}

			fmt.Printf("%d members (%s, %s compression)\n",
				len(arch.Files), toolio.OrderName(arch.Order), kind)
			tw := tabwriter.NewWriter(os.Stdout, 2, 0, 2, ' ', tabwriter.AlignRight)
			for _, file := range arch.Files {
				name := file.Name
				if name == "" {
					name = fmt.Sprintf("<unnamed 0x%08x>", file.Hash)
				}
				fmt.Fprintf(tw, "%d\t  %s\n", len(file.Data), name)
			}
			return tw.Flush()
		},
	}
}

func extractCommand() *cli.Command {
	var (
		configPath string
		output     string
		verbose    bool
	)
	return &cli.Command{
		Name:    "extract",
		Summary: "Write every archive member to a directory",
		Usage:   "sarc extract <archive> [flags]",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("extract", pflag.ContinueOnError)
			flags.StringVar(&configPath, "config", "", "config file (overrides NWKIT_CONFIG)")
			flags.StringVarP(&output, "output", "o", "", "output directory (default: named after the archive)")
			flags.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
			return flags
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one archive argument, got %d", len(args))
			}
			input := args[0]
			logger := cli.NewCommandLogger(verbose).With("command", "sarc extract")

			cfg, err := toolio.LoadConfig(configPath)
			if err != nil {
				return err
			}
			arch, kind, err := readArchive(input)
			if err != nil {
				return err
			}

			dir := output
			if dir == "" {
				dir = filepath.Join(toolio.OutputDir("", cfg, input), toolio.BaseName(input))
			}
			if err := arch.Extract(dir); err != nil {
				return err
			}

			logger.Info("extracted archive",
				"members", len(arch.Files),
				"compression", kind.String(),
				"directory", dir)
			return nil
		},
	}
}

func createCommand() *cli.Command {
	var (
		configPath string
		compress   string
		alignFlag  int
		hashKey    uint32
		little     bool
		big        bool
		yes        bool
		verbose    bool
	)
	return &cli.Command{
		Name:    "create",
		Summary: "Pack files and directories into an archive",
		Usage:   "sarc create <archive> <file|directory>... [flags]",
		Description: `Pack files and directories into an archive.

Directory arguments are walked recursively and stored relative to the
directory; plain file arguments are stored under their base name. The
compression wrapper comes from --compress, then the output extension
(.szs selects yaz0, .zs selects zstd), then the config default.`,
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("create", pflag.ContinueOnError)
			flags.StringVar(&configPath, "config", "", "config file (overrides NWKIT_CONFIG)")
			flags.StringVar(&compress, "compress", "", "outer compression: none, yaz0, or zstd")
			flags.IntVar(&alignFlag, "align", 0, "member data alignment in bytes")
			flags.Uint32Var(&hashKey, "hash-key", sarc.DefaultHashKey, "SFAT name hash key")
			flags.BoolVar(&little, "little-endian", false, "write a little-endian archive")
			flags.BoolVar(&big, "big-endian", false, "write a big-endian archive")
			flags.BoolVarP(&yes, "yes", "y", false, "overwrite an existing archive without prompting")
			flags.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
			return flags
		},
		Run: func(args []string) error {
			if len(args) < 2 {
				return fmt.Errorf("expected an archive name and at least one input, got %d arguments", len(args))
			}
			outputPath := args[0]
			logger := cli.NewCommandLogger(verbose).With("command", "sarc create")

			cfg, err := toolio.LoadConfig(configPath)
			if err != nil {
				return err
			}
			order, err := toolio.ResolveOrder(little, big, cfg)
			if err != nil {
				return err
			}
			kind, err := resolveCompression(compress, outputPath, cfg.Sarc.Compression)
			if err != nil {
				return err
			}

			arch := sarc.New(order)
			arch.HashKey = hashKey
			if alignFlag > 0 {
				arch.Alignment = alignFlag
			} else {
				arch.Alignment = cfg.Sarc.Alignment
			}

			for _, input := range args[1:] {
				if err := addInput(arch, input); err != nil {
					return err
				}
			}
			if len(arch.Files) == 0 {
				return fmt.Errorf("no input files found")
			}

			payload, err := arch.Encode()
			if err != nil {
				return err
			}
			data, err := sarc.Compress(payload, kind)
			if err != nil {
				return err
			}
			if err := toolio.WriteFile(outputPath, data, yes || cfg.Overwrite); err != nil {
				return err
			}

			logger.Info("created archive",
				"output", outputPath,
				"members", len(arch.Files),
				"compression", kind.String(),
				"bytes", len(data))
			return nil
		},
	}
}

// resolveCompression picks the outer wrapper: the explicit flag wins,
// then the output file extension, then the config default.
func resolveCompression(flag, outputPath, configured string) (sarc.Compression, error) {
	if flag != "" {
		return sarc.ParseCompression(flag)
	}
	if kind := sarc.CompressionForPath(outputPath); kind != sarc.CompressionNone {
		return kind, nil
	}
	return sarc.ParseCompression(configured)
}

// addInput adds a file, or a directory's contents, to the archive.
func addInput(arch *sarc.Archive, input string) error {
	info, err := os.Stat(input)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	if !info.IsDir() {
		data, err := os.ReadFile(input)
		if err != nil {
			return fmt.Errorf("reading %s: %w", input, err)
		}
		arch.Add(filepath.Base(input), data)
		return nil
	}

	return filepath.WalkDir(input, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(input, path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		arch.Add(filepath.ToSlash(rel), data)
		return nil
	})
}
