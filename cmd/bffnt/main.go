// Copyright 2026 The NWKit Authors
// SPDX-License-Identifier: Apache-2.0

// The bffnt command converts BFFNT bitmap fonts (FFNT/FFNU containers)
// to editable manifests plus sheet PNGs and back.
package main

import (
	"fmt"
	"os"

	"github.com/nwkit/nwkit/internal/fontcli"
)

func main() {
	if err := run(); err != nil {
		// Commands that print their own output (like verify) return an
		// ExitError with the desired exit code. Don't print a redundant
		// "error:" line for those.
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	return fontcli.Root(fontcli.Bffnt()).Execute(os.Args[1:])
}
