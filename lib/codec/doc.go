// Copyright 2026 The NWKit Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the standard CBOR encoding configuration.
//
// The converters use two serialization formats with a clear boundary:
//
//   - JSON for hand-editable output: extracted font and archive
//     manifests, message scripts, and CLI --json output.
//   - CBOR for compact machine-oriented output: the --format cbor
//     manifest variant, where determinism and size matter more than
//     editability.
//
// This package provides the shared CBOR encoding and decoding modes so
// that every package encodes identically without duplicating
// configuration. The encoder uses Core Deterministic Encoding (RFC 8949
// §4.2): sorted map keys, smallest integer encoding, no
// indefinite-length items. Same logical data always produces identical
// bytes, so integrity hashes computed over CBOR manifests are stable.
//
// For buffer-oriented operations:
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
// For stream-oriented operations:
//
//	encoder := codec.NewEncoder(w)
//	decoder := codec.NewDecoder(r)
//
// Manifest types carry `json` struct tags only; fxamacker/cbor v2
// reads `json` tags as fallback when `cbor` tags are absent, so a
// single tag controls field naming and omitempty for both formats.
package codec
