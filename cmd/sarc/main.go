// Copyright 2026 The NWKit Authors
// SPDX-License-Identifier: Apache-2.0

// The sarc command lists, extracts, and creates SARC archives,
// transparently handling Yaz0 (.szs) and zstd (.zs) outer compression.
package main

import (
	"fmt"
	"os"
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
	return root().Execute(os.Args[1:])
}
