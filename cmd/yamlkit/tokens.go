// Copyright 2026 The yamlkit Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yamlkit/yaml/internal/engine"
)

func tokensCommand() *cobra.Command {
	var comments bool
	cmd := &cobra.Command{
		Use:   "tokens [file]",
		Short: "Print the scanner's token stream",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, name, err := openInput(args)
			if err != nil {
				return err
			}
			defer in.Close()
			return printTokens(cmd.OutOrStdout(), in, name, comments)
		},
	}
	cmd.Flags().BoolVar(&comments, "comments", false, "include comment tokens")
	return cmd
}

func printTokens(w io.Writer, r io.Reader, name string, comments bool) error {
	scanner := engine.NewScanner(engine.NewReader(r, name))
	scanner.CaptureComments(comments)

	var tok engine.Token
	for {
		if err := scanner.Scan(&tok); err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s", position(tok.Start.Line, tok.Start.Column), tok.Kind)
		switch tok.Kind {
		case engine.TokenScalar:
			fmt.Fprintf(w, "\t%s %q", tok.Style, tok.Value)
		case engine.TokenAlias, engine.TokenAnchor, engine.TokenComment:
			fmt.Fprintf(w, "\t%q", tok.Value)
		case engine.TokenTag:
			fmt.Fprintf(w, "\t%q %q", tok.Value, tok.Suffix)
		case engine.TokenTagDirective:
			fmt.Fprintf(w, "\t%s %s", tok.Value, tok.Suffix)
		case engine.TokenVersionDirective:
			fmt.Fprintf(w, "\t%d.%d", tok.Major, tok.Minor)
		}
		fmt.Fprintln(w)
		if tok.Kind == engine.TokenStreamEnd {
			return nil
		}
	}
}
