// Copyright 2026 The NWKit Authors
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"unicode/utf16"

	"github.com/tidwall/jsonc"

	"github.com/nwkit/nwkit/lib/codec"
)

// Format selects the manifest serialization.
type Format string

const (
	// FormatJSON is the default: indented, deterministic,
	// hand-editable JSON.
	FormatJSON Format = "json"
	// FormatCBOR is the compact machine-oriented variant using Core
	// Deterministic Encoding.
	FormatCBOR Format = "cbor"
)

// ParseFormat validates a --format flag value.
func ParseFormat(value string) (Format, error) {
	switch Format(value) {
	case FormatJSON, FormatCBOR:
		return Format(value), nil
	default:
		return "", fmt.Errorf("unknown manifest format %q (want json or cbor)", value)
	}
}

// Extension returns the file extension for the format, with the dot.
func (f Format) Extension() string {
	switch f {
	case FormatCBOR:
		return ".cbor"
	default:
		return ".json"
	}
}

// Options control manifest encoding.
type Options struct {
	Format Format
	// ASCII escapes every non-ASCII character in JSON output as
	// \uXXXX, matching tooling that cannot handle UTF-8 manifests.
	// Ignored for CBOR.
	ASCII bool
}

// Encode serializes v according to opts. JSON output is indented with
// two spaces, ends with a newline, and does not HTML-escape <, >, &.
func Encode(v any, opts Options) ([]byte, error) {
	switch opts.Format {
	case FormatCBOR:
		data, err := codec.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encoding CBOR manifest: %w", err)
		}
		return data, nil
	case FormatJSON, "":
		var buffer bytes.Buffer
		encoder := json.NewEncoder(&buffer)
		encoder.SetEscapeHTML(false)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(v); err != nil {
			return nil, fmt.Errorf("encoding JSON manifest: %w", err)
		}
		data := buffer.Bytes()
		if opts.ASCII {
			data = escapeNonASCII(data)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unknown manifest format %q", opts.Format)
	}
}

// Decode deserializes data into v. JSON input may use JSONC
// extensions: // line comments, /* block comments */, and trailing
// commas.
func Decode(data []byte, format Format, v any) error {
	switch format {
	case FormatCBOR:
		if err := codec.Unmarshal(data, v); err != nil {
			return fmt.Errorf("parsing CBOR manifest: %w", err)
		}
		return nil
	case FormatJSON, "":
		stripped := jsonc.ToJSON(data)
		if err := json.Unmarshal(stripped, v); err != nil {
			return fmt.Errorf("parsing manifest: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown manifest format %q", format)
	}
}

// WriteFile encodes v and writes it to path.
func WriteFile(path string, v any, opts Options) error {
	data, err := Encode(v, opts)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing manifest %s: %w", path, err)
	}
	return nil
}

// ReadFile reads and decodes the manifest at path.
func ReadFile(path string, format Format, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading manifest %s: %w", path, err)
	}
	if err := Decode(data, format, v); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// escapeNonASCII rewrites every character outside 7-bit ASCII as a
// \uXXXX escape (a surrogate pair for characters beyond the BMP).
// Multi-byte UTF-8 sequences in JSON output only occur inside string
// literals, so a byte-level rewrite is safe.
func escapeNonASCII(data []byte) []byte {
	ascii := true
	for _, b := range data {
		if b >= 0x80 {
			ascii = false
			break
		}
	}
	if ascii {
		return data
	}

	var out bytes.Buffer
	out.Grow(len(data))
	for _, r := range string(data) {
		switch {
		case r < 0x80:
			out.WriteByte(byte(r))
		case r <= 0xFFFF:
			fmt.Fprintf(&out, `\u%04x`, r)
		default:
			high, low := utf16.EncodeRune(r)
			fmt.Fprintf(&out, `\u%04x\u%04x`, high, low)
		}
	}
	return out.Bytes()
}
