// Copyright 2026 The NWKit Authors
// SPDX-License-Identifier: Apache-2.0

// Package sarc reads and writes SARC archives, the NintendoWare
// resource container used across 3DS, WiiU, and Switch titles.
//
// A SARC file has three regions: a SARC header, an SFAT node table
// (one 16-byte node per file, sorted by name hash for the console's
// binary search), and an SFNT name table, followed by the file data.
// Byte order is switched by the header's byte-order mark, the same
// convention the font container uses.
//
// Archives frequently travel compressed. The compression wrappers in
// this package handle the two encodings found in the wild: Yaz0 (the
// classic .szs run-length format) and zstd (.zs, used by newer Switch
// titles). DetectCompression sniffs the leading magic so callers can
// round-trip a file without knowing how it was stored.
package sarc
