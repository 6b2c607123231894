// Copyright 2026 The NWKit Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func TestCommand_Execute_DispatchesToSubcommand(t *testing.T) {
	var called string

	root := &Command{
		Name: "bffnt",
		Subcommands: []*Command{
			{
				Name: "extract",
				Run: func(args []string) error {
					called = "extract"
					return nil
				},
			},
			{
				Name: "create",
				Run: func(args []string) error {
					called = "create"
					return nil
				},
			},
		},
	}

	if err := root.Execute([]string{"create"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "create" {
		t.Errorf("dispatched to %q, want %q", called, "create")
	}
}

func TestCommand_Execute_PassesPositionalArgs(t *testing.T) {
	var receivedArgs []string

	root := &Command{
		Name: "sarc",
		Subcommands: []*Command{
			{
				Name: "extract",
				Run: func(args []string) error {
					receivedArgs = args
					return nil
				},
			},
		},
	}

	if err := root.Execute([]string{"extract", "titlebg.szs"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if len(receivedArgs) != 1 || receivedArgs[0] != "titlebg.szs" {
		t.Errorf("args = %v, want [titlebg.szs]", receivedArgs)
	}
}

func TestCommand_Execute_FlagParsing(t *testing.T) {
	var output string
	var target string

	command := &Command{
		Name: "extract",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("extract", pflag.ContinueOnError)
			flagSet.StringVar(&output, "output", ".", "output directory")
			return flagSet
		},
		Run: func(args []string) error {
			if len(args) > 0 {
				target = args[0]
			}
			return nil
		},
	}

	if err := command.Execute([]string{"--output", "out", "normal.bffnt"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if output != "out" {
		t.Errorf("output = %q, want %q", output, "out")
	}
	if target != "normal.bffnt" {
		t.Errorf("target = %q, want %q", target, "normal.bffnt")
	}
}

func TestCommand_Execute_UnknownFlagSuggestion(t *testing.T) {
	command := &Command{
		Name: "create",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("create", pflag.ContinueOnError)
			flagSet.Bool("big-endian", false, "write big-endian output")
			flagSet.String("output", ".", "output directory")
			return flagSet
		},
		Run: func(args []string) error { return nil },
	}

	err := command.Execute([]string{"--big-endain"})
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown flag")
	}
	errStr := err.Error()
	if !strings.Contains(errStr, "did you mean --big-endian") {
		t.Errorf("error = %q, want suggestion for '--big-endian'", errStr)
	}
	if !strings.Contains(errStr, "big-endain") {
		t.Errorf("error = %q, should mention the bad flag", errStr)
	}
	if !strings.Contains(errStr, "--help") {
		t.Errorf("error = %q, should point to --help", errStr)
	}
}

func TestCommand_Execute_UnknownFlagNoSuggestion(t *testing.T) {
	command := &Command{
		Name: "create",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("create", pflag.ContinueOnError)
			flagSet.Bool("ascii", false, "escape non-ASCII runes")
			return flagSet
		},
		Run: func(args []string) error { return nil },
	}

	err := command.Execute([]string{"--zzzzzzzzz"})
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown flag")
	}
	if strings.Contains(err.Error(), "did you mean") {
		t.Errorf("error = %q, should not suggest for distant flag", err.Error())
	}
}

func TestCommand_Execute_UnknownSubcommandSuggestion(t *testing.T) {
	root := &Command{
		Name: "msbt",
		Subcommands: []*Command{
			{Name: "extract"},
			{Name: "create"},
			{Name: "info"},
		},
	}

	err := root.Execute([]string{"exract"})
	if err == nil {
		t.Fatal("Execute() = nil, want error for unknown subcommand")
	}
	if !strings.Contains(err.Error(), "did you mean \"extract\"") {
		t.Errorf("error = %q, want suggestion for 'extract'", err.Error())
	}
}

func TestCommand_Execute_HelpFlag(t *testing.T) {
	for _, helpArg := range []string{"-h", "--help", "help"} {
		t.Run(helpArg, func(t *testing.T) {
			root := &Command{
				Name:    "bflim",
				Summary: "BFLIM layout image converter",
				Subcommands: []*Command{
					{Name: "extract", Summary: "Extract a BFLIM to PNG"},
				},
			}

			if err := root.Execute([]string{helpArg}); err != nil {
				t.Errorf("Execute(%q) error: %v", helpArg, err)
			}
		})
	}
}

func TestCommand_Execute_NoArgsShowsHelp(t *testing.T) {
	root := &Command{
		Name: "bffnt",
		Subcommands: []*Command{
			{Name: "extract", Summary: "Extract a BFFNT into PNG/JSON files"},
		},
	}

	err := root.Execute([]string{})
	if err == nil {
		t.Fatal("Execute() = nil, want error for missing subcommand")
	}
	if !strings.Contains(err.Error(), "subcommand required") {
		t.Errorf("error = %q, want 'subcommand required'", err.Error())
	}
}

func TestCommand_PrintHelp(t *testing.T) {
	command := &Command{
		Name:        "bffnt",
		Description: "BFFNT binary font converter.",
		Subcommands: []*Command{
			{Name: "extract", Summary: "Extract a font into PNG sheets and a JSON manifest"},
			{Name: "create", Summary: "Build a font from extracted files"},
			{Name: "info", Summary: "Print font header information"},
		},
		Examples: []Example{
			{
				Description: "Extract a font",
				Command:     "bffnt extract normal.bffnt",
			},
			{
				Description: "Rebuild it big-endian",
				Command:     "bffnt create --big-endian normal.bffnt",
			},
		},
	}

	var buffer bytes.Buffer
	command.PrintHelp(&buffer)
	output := buffer.String()

	for _, want := range []string{
		"BFFNT binary font converter.",
		"Usage:",
		"bffnt <command> [flags]",
		"Commands:",
		"extract",
		"Extract a font into PNG sheets and a JSON manifest",
		"Examples:",
		"bffnt extract normal.bffnt",
		"Run 'bffnt <command> --help'",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("help output missing %q\n\nFull output:\n%s", want, output)
		}
	}
}

func TestCommand_FullName(t *testing.T) {
	root := &Command{Name: "sarc"}
	extract := &Command{Name: "extract", parent: root}

	if got := root.fullName(); got != "sarc" {
		t.Errorf("root.fullName() = %q, want %q", got, "sarc")
	}
	if got := extract.fullName(); got != "sarc extract" {
		t.Errorf("extract.fullName() = %q, want %q", got, "sarc extract")
	}
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"yes", "y\n", true},
		{"no", "n\n", false},
		{"empty means no", "\n", false},
		{"reprompts until valid", "maybe\ny\n", true},
		{"eof means no", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got := confirm("Overwrite?", strings.NewReader(tt.input), &out)
			if got != tt.want {
				t.Errorf("confirm(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
