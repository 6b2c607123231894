// Copyright 2026 The NWKit Authors
// SPDX-License-Identifier: Apache-2.0

// The bcfnt command converts BCFNT bitmap fonts (CFNT/CFNU containers)
// to editable manifests plus sheet PNGs and back.
package main

import (
	"fmt"
	"os"

	"github.com/nwkit/nwkit/internal/fontcli"
)

func main() {
	if err := run(); err != nil {
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	return fontcli.Root(fontcli.Bcfnt()).Execute(os.Args[1:])
}
