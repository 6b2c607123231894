// Copyright 2026 The NWKit Authors
// SPDX-License-Identifier: Apache-2.0

// Package toolio holds the filesystem and flag plumbing shared by the
// five converter binaries: config resolution, byte-order flag handling,
// PNG round-tripping, overwrite-confirmed writes, and integrity
// verification over a manifest's companion files.
package toolio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nwkit/nwkit/lib/cli"
	"github.com/nwkit/nwkit/lib/config"
	"github.com/nwkit/nwkit/lib/manifest"
	"github.com/nwkit/nwkit/lib/version"
)

// VersionCommand builds the version subcommand every tool carries.
func VersionCommand(toolName string) *cli.Command {
	return &cli.Command{
		Name:    "version",
		Summary: "Print version information",
		Run: func(args []string) error {
			fmt.Printf("%s %s\n", toolName, version.Full())
			return nil
		},
	}
}

// LoadConfig loads the tool configuration. An explicit --config path
// takes precedence over the NWKIT_CONFIG environment variable.
func LoadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

// ResolveOrder picks the output byte order from the --little-endian and
// --big-endian flags, falling back to the configured default when
// neither is set.
func ResolveOrder(little, big bool, cfg *config.Config) (binary.ByteOrder, error) {
	if little && big {
		return nil, fmt.Errorf("--little-endian and --big-endian are mutually exclusive")
	}
	if little {
		return binary.LittleEndian, nil
	}
	if big {
		return binary.BigEndian, nil
	}
	return cfg.Order(), nil
}

// OrderName renders a byte order the way the info commands print it.
func OrderName(order binary.ByteOrder) string {
	if order == binary.BigEndian {
		return "big-endian"
	}
	return "little-endian"
}

// BaseName returns the file name of path with its extension removed.
func BaseName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// OutputDir resolves the directory extracted files are written to:
// the --output flag, then the configured output directory, then the
// directory of the input file.
func OutputDir(flag string, cfg *config.Config, inputPath string) string {
	if flag != "" {
		return flag
	}
	if cfg.OutputDir != "" {
		return cfg.OutputDir
	}
	return filepath.Dir(inputPath)
}

// ResolveFormat picks the manifest serialization from the --format
// flag, falling back to the configured default when unset.
func ResolveFormat(flag string, cfg *config.Config) (manifest.Format, error) {
	if flag != "" {
		return manifest.ParseFormat(flag)
	}
	return manifest.ParseFormat(cfg.Manifest)
}

// FormatForPath infers the manifest serialization from a file
// extension. Anything other than .cbor reads as JSON, which also
// covers hand-named .jsonc files.
func FormatForPath(path string) manifest.Format {
	if strings.EqualFold(filepath.Ext(path), ".cbor") {
		return manifest.FormatCBOR
	}
	return manifest.FormatJSON
}

// WriteFile writes data to path, prompting before overwriting an
// existing file unless yes is set. Parent directories are created.
func WriteFile(path string, data []byte, yes bool) error {
	if err := cli.ConfirmOverwrite(path, yes); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// ReadPicture loads a PNG file and normalizes it to NRGBA.
func ReadPicture(path string) (*image.NRGBA, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening image: %w", err)
	}
	defer file.Close()

	img, err := png.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	if nrgba, ok := img.(*image.NRGBA); ok {
		return nrgba, nil
	}
	bounds := img.Bounds()
	nrgba := image.NewNRGBA(bounds)
	draw.Draw(nrgba, bounds, img, bounds.Min, draw.Src)
	return nrgba, nil
}

// EncodePicture renders an image to PNG bytes. Callers get the bytes
// rather than a stream so the same buffer can be hashed for the
// manifest integrity block and written to disk.
func EncodePicture(img *image.NRGBA) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// VerifyDigests recomputes the digest of every file recorded in the
// integrity block, resolving names relative to dir, and reports each
// result on stdout. Returns an ExitError with code 1 if any file is
// missing or mismatched.
func VerifyDigests(dir string, integ *manifest.Integrity) error {
	names := make([]string, 0, len(integ.Digests))
	for name := range integ.Digests {
		names = append(names, name)
	}
	sort.Strings(names)

	failures := 0
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Printf("%s: unreadable (%v)\n", name, err)
			failures++
			continue
		}
		if err := integ.Verify(name, data); err != nil {
			fmt.Printf("%s: MISMATCH (%v)\n", name, err)
			failures++
			continue
		}
		fmt.Printf("%s: ok\n", name)
	}

	if failures > 0 {
		fmt.Printf("%d of %d files failed verification\n", failures, len(names))
		return &cli.ExitError{Code: 1}
	}
	return nil
}
