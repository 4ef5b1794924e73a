// Copyright 2026 The yamlkit Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yamlkit/yaml"
)

func fmtCommand() *cobra.Command {
	var (
		indent        int
		width         int
		compact       bool
		canonical     bool
		explicitStart bool
		explicitEnd   bool
		flow          bool
		unicode       bool
		lineBreak     = lineBreakFlag{value: yaml.LineBreakLN}
	)
	cmd := &cobra.Command{
		Use:   "fmt [file]",
		Short: "Reformat a YAML stream",
		Long: `fmt loads every document in the input and writes it back out through
the emitter, normalizing indentation, quoting, and line breaks.
Anchors, aliases, and explicit tags survive the round trip.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, name, err := openInput(args)
			if err != nil {
				return err
			}
			defer in.Close()
			opts := []yaml.Option{
				yaml.WithSourceName(name),
				yaml.WithIndent(indent),
				yaml.WithLineWidth(width),
				yaml.WithCompactSequenceIndent(compact),
				yaml.WithCanonical(canonical),
				yaml.WithExplicitStart(explicitStart),
				yaml.WithExplicitEnd(explicitEnd),
				yaml.WithFlowDefault(flow),
				yaml.WithUnicode(unicode),
				yaml.WithLineBreak(lineBreak.value),
			}
			return reformat(cmd.OutOrStdout(), in, opts)
		},
	}
	flags := cmd.Flags()
	flags.IntVar(&indent, "indent", 2, "spaces per nesting level (2-9)")
	flags.IntVar(&width, "width", 80, "preferred line width, 0 disables folding")
	flags.BoolVar(&compact, "compact-seq-indent", false, "'- ' counts as indentation")
	flags.BoolVar(&canonical, "canonical", false, "canonical output form")
	flags.BoolVar(&explicitStart, "explicit-start", false, "always write '---'")
	flags.BoolVar(&explicitEnd, "explicit-end", false, "always write '...'")
	flags.BoolVar(&flow, "flow", false, "prefer flow style collections")
	flags.BoolVar(&unicode, "unicode", true, "allow non-ASCII output")
	flags.Var(&lineBreak, "line-break", "line ending: ln, cr, or crln")
	return cmd
}

func reformat(w io.Writer, r io.Reader, opts []yaml.Option) error {
	loader, err := yaml.NewLoader(r, opts...)
	if err != nil {
		return err
	}
	dumper, err := yaml.NewDumper(w, opts...)
	if err != nil {
		return err
	}
	for {
		root, err := loader.Load()
		if err == io.EOF {
			return dumper.Close()
		}
		if err != nil {
			return err
		}
		if err := dumper.Dump(root); err != nil {
			return err
		}
	}
}

// lineBreakFlag is a pflag.Value accepting ln, cr, or crln.
type lineBreakFlag struct {
	value yaml.LineBreak
}

var _ pflag.Value = (*lineBreakFlag)(nil)

func (f *lineBreakFlag) String() string {
	switch f.value {
	case yaml.LineBreakCR:
		return "cr"
	case yaml.LineBreakCRLN:
		return "crln"
	}
	return "ln"
}

func (f *lineBreakFlag) Set(s string) error {
	switch s {
	case "ln":
		f.value = yaml.LineBreakLN
	case "cr":
		f.value = yaml.LineBreakCR
	case "crln":
		f.value = yaml.LineBreakCRLN
	default:
		return fmt.Errorf("line-break must be ln, cr, or crln")
	}
	return nil
}

func (f *lineBreakFlag) Type() string { return "string" }
