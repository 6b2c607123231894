// Copyright 2026 The NWKit Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework shared by the nwkit
// converter tools (bffnt, bcfnt, bflim, sarc, msbt).
//
// The central type is [Command]: a named subcommand with optional nested
// [Command.Subcommands], a [pflag.FlagSet] factory, and a Run function.
// Each tool assembles its tree in cmd/<tool>/main.go and dispatches via
// [Command.Execute], which handles flag parsing, subcommand routing, and
// structured help output with examples.
//
// When a user types an unknown subcommand or flag, the framework computes
// Levenshtein edit distance against all known names and suggests the
// closest match (threshold: distance <= 3).
//
// [Confirm] implements the interactive overwrite prompt used by every
// tool before clobbering an existing output file.
package cli
