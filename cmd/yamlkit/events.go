// Copyright 2026 The yamlkit Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yamlkit/yaml/internal/engine"
)

func eventsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events [file]",
		Short: "Print the parser's event stream",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, name, err := openInput(args)
			if err != nil {
				return err
			}
			defer in.Close()
			return printEvents(cmd.OutOrStdout(), in, name)
		},
	}
	return cmd
}

func printEvents(w io.Writer, r io.Reader, name string) error {
	parser := engine.NewParser(engine.NewScanner(engine.NewReader(r, name)))

	var event engine.Event
	for {
		if err := parser.Parse(&event); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		fmt.Fprintf(w, "%s\t%s", position(event.Start.Line, event.Start.Column), event.Kind)
		if event.Anchor != "" {
			fmt.Fprintf(w, " &%s", event.Anchor)
		}
		if event.Tag != "" {
			fmt.Fprintf(w, " <%s>", event.Tag)
		}
		switch event.Kind {
		case engine.EventScalar:
			fmt.Fprintf(w, " %s %q", event.Style, event.Value)
		case engine.EventSequenceStart, engine.EventMappingStart:
			if event.Flow {
				fmt.Fprint(w, " flow")
			}
		case engine.EventDocumentStart, engine.EventDocumentEnd:
			if event.Explicit {
				fmt.Fprint(w, " explicit")
			}
		}
		fmt.Fprintln(w)
	}
}
