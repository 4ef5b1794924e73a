// Copyright 2026 The yamlkit Authors
// SPDX-License-Identifier: Apache-2.0

// The yamlkit tool exposes the stages of the YAML pipeline for
// inspection and debugging: the token stream, the event stream, the
// composed node graph, a JSON rendering, and a reformatter.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "yamlkit: %v\n", err)
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "yamlkit",
		Short: "Inspect and reformat YAML streams",
		Long: `yamlkit reads YAML from a file or stdin and shows what each stage
of the pipeline makes of it: tokens from the scanner, events from the
parser, the composed node graph, a JSON conversion, or the stream
reformatted through the emitter.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		tokensCommand(),
		eventsCommand(),
		nodesCommand(),
		jsonCommand(),
		fmtCommand(),
	)
	return root
}

// openInput opens the file named in args, or stdin when there is no
// argument or it is "-". The returned name labels input positions.
func openInput(args []string) (io.ReadCloser, string, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.NopCloser(os.Stdin), "<stdin>", nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, "", err
	}
	return f, args[0], nil
}

// position renders a mark as "line:column" with both numbers 1-based.
func position(line, column int) string {
	return fmt.Sprintf("%d:%d", line, column+1)
}
