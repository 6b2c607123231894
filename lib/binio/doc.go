// Copyright 2026 The NWKit Authors
// SPDX-License-Identifier: Apache-2.0

// Package binio provides byte-order-aware cursors over in-memory binary
// data. Every NintendoWare container handled by nwkit (BFFNT, BCFNT,
// BFLIM, SARC, MSBT) is a sectioned binary file whose endianness is
// selected by a byte-order mark, so both the reader and writer carry an
// explicit [binary.ByteOrder].
//
// The [Reader] uses a sticky error: out-of-range reads return zero
// values and latch the error, which callers check with [Reader.Err]
// after each header. This keeps section decoders linear instead of
// threading an error return through every field.
package binio
