// Copyright 2026 The NWKit Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Confirm asks a y/N question on the terminal and returns true only if
// the user answers "y". An empty answer means no. Any other answer is
// re-prompted.
func Confirm(prompt string) bool {
	return confirm(prompt, os.Stdin, os.Stderr)
}

func confirm(prompt string, in io.Reader, out io.Writer) bool {
	reader := bufio.NewReader(in)
	for {
		fmt.Fprintf(out, "%s (y/N) ", prompt)

		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			// EOF with no input: treat as "no" rather than looping.
			return false
		}

		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y":
			return true
		case "n", "":
			return false
		}
		fmt.Fprintln(out, `Please answer "y" or "n"`)
	}
}

// ConfirmOverwrite checks whether path exists and, if so, asks the user
// before proceeding. With yes set, existing files are overwritten
// without prompting. Returns an error wrapping an [ExitError] when the
// user aborts.
func ConfirmOverwrite(path string, yes bool) error {
	if yes {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	fmt.Fprintf(os.Stderr, "Output file exists: %s\n", path)
	if !Confirm("Overwrite?") {
		fmt.Fprintln(os.Stderr, "Aborted")
		return &ExitError{Code: 1}
	}
	return nil
}
