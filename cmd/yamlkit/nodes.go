// Copyright 2026 The yamlkit Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yamlkit/yaml"
)

func nodesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nodes [file]",
		Short: "Print the composed node graph",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, name, err := openInput(args)
			if err != nil {
				return err
			}
			defer in.Close()
			return printNodes(cmd.OutOrStdout(), in, name)
		},
	}
	return cmd
}

func printNodes(w io.Writer, r io.Reader, name string) error {
	loader, err := yaml.NewLoader(r, yaml.WithSourceName(name))
	if err != nil {
		return err
	}
	doc := 0
	for {
		root, err := loader.Load()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		doc++
		fmt.Fprintf(w, "document %d\n", doc)
		printNode(w, root, 1, map[*yaml.Node]bool{})
	}
}

// printNode renders one node per line, indented by depth. Shared nodes
// are printed once; later visits show only the anchor reference, which
// also keeps cyclic graphs finite.
func printNode(w io.Writer, n *yaml.Node, depth int, seen map[*yaml.Node]bool) {
	indent := strings.Repeat("  ", depth)
	if seen[n] {
		fmt.Fprintf(w, "%s*%s\n", indent, n.Anchor)
		return
	}
	seen[n] = true

	fmt.Fprintf(w, "%s%s", indent, n.Kind)
	if n.Anchor != "" {
		fmt.Fprintf(w, " &%s", n.Anchor)
	}
	fmt.Fprintf(w, " %s", n.Tag)
	if n.Kind == yaml.ScalarNode {
		fmt.Fprintf(w, " %q", n.Value)
	}
	fmt.Fprintln(w)
	for _, child := range n.Content {
		printNode(w, child, depth+1, seen)
	}
}
