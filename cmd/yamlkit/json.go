// Copyright 2026 The yamlkit Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yamlkit/yaml"
)

func jsonCommand() *cobra.Command {
	var pretty bool
	cmd := &cobra.Command{
		Use:   "json [file]",
		Short: "Convert YAML documents to JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, name, err := openInput(args)
			if err != nil {
				return err
			}
			defer in.Close()
			return printJSON(cmd.OutOrStdout(), in, name, pretty)
		},
	}
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent the JSON output")
	return cmd
}

func printJSON(w io.Writer, r io.Reader, name string, pretty bool) error {
	loader, err := yaml.NewLoader(r, yaml.WithSourceName(name))
	if err != nil {
		return err
	}
	conv := jsonConverter{}
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	for {
		root, err := loader.Load()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		data, err := conv.FromNode(root)
		if err != nil {
			return err
		}
		if err := enc.Encode(data); err != nil {
			return err
		}
	}
}

// jsonConverter maps node graphs onto the values encoding/json
// understands, resolving scalar text by its tag. It implements
// yaml.Converter.
type jsonConverter struct{}

var _ yaml.Converter = jsonConverter{}

// FromNode converts a node graph to nested maps, slices, and scalar
// values. Cyclic graphs are rejected; JSON has no aliases to express
// them with.
func (c jsonConverter) FromNode(n *yaml.Node) (any, error) {
	return c.fromNode(n, map[*yaml.Node]bool{})
}

func (c jsonConverter) fromNode(n *yaml.Node, active map[*yaml.Node]bool) (any, error) {
	if n == nil {
		return nil, nil
	}
	if active[n] {
		return nil, errors.New("cannot convert a cyclic document to JSON")
	}
	active[n] = true
	defer delete(active, n)

	switch n.Kind {
	case yaml.ScalarNode:
		return scalarValue(n)

	case yaml.SequenceNode:
		seq := make([]any, 0, len(n.Content))
		for _, child := range n.Content {
			v, err := c.fromNode(child, active)
			if err != nil {
				return nil, err
			}
			seq = append(seq, v)
		}
		return seq, nil

	case yaml.MappingNode:
		obj := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			v, err := c.fromNode(n.Content[i+1], active)
			if err != nil {
				return nil, err
			}
			obj[n.Content[i].Value] = v
		}
		return obj, nil
	}
	return nil, fmt.Errorf("cannot convert node of kind %s", n.Kind)
}

// scalarValue turns scalar text into the Go value its tag names.
// Values JSON cannot carry, like .inf and .nan, stay strings.
func scalarValue(n *yaml.Node) (any, error) {
	switch n.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!bool":
		switch strings.ToLower(n.Value) {
		case "y", "yes", "true", "on":
			return true, nil
		}
		return false, nil
	case "!!int":
		if v, ok := parseInt(n.Value); ok {
			return v, nil
		}
	case "!!float":
		if v, ok := parseFloat(n.Value); ok {
			if math.IsInf(v, 0) || math.IsNaN(v) {
				return n.Value, nil
			}
			return v, nil
		}
	}
	return n.Value, nil
}

// parseInt reads a YAML 1.1 integer: decimal, 0x hex, 0b binary,
// leading-zero octal, or base-60 segments, all with "_" separators.
func parseInt(s string) (int64, bool) {
	s = strings.ReplaceAll(s, "_", "")
	if s == "" {
		return 0, false
	}
	sign := int64(1)
	switch s[0] {
	case '-':
		sign = -1
		s = s[1:]
	case '+':
		s = s[1:]
	}
	if strings.Contains(s, ":") {
		var total int64
		for _, part := range strings.Split(s, ":") {
			digits, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				return 0, false
			}
			total = total*60 + digits
		}
		return sign * total, true
	}
	base := 10
	switch {
	case strings.HasPrefix(s, "0b"):
		base, s = 2, s[2:]
	case strings.HasPrefix(s, "0x"):
		base, s = 16, s[2:]
	case len(s) > 1 && s[0] == '0':
		base, s = 8, s[1:]
	}
	v, err := strconv.ParseInt(s, base, 64)
	if err != nil {
		return 0, false
	}
	return sign * v, true
}

// parseFloat reads a YAML 1.1 float, including base-60 segments and
// the .inf and .nan spellings.
func parseFloat(s string) (float64, bool) {
	s = strings.ReplaceAll(s, "_", "")
	switch strings.ToLower(strings.TrimPrefix(s, "+")) {
	case ".inf":
		return math.Inf(1), true
	case "-.inf":
		return math.Inf(-1), true
	case ".nan":
		return math.NaN(), true
	}
	if strings.Contains(s, ":") {
		sign := 1.0
		switch s[0] {
		case '-':
			sign = -1
			s = s[1:]
		case '+':
			s = s[1:]
		}
		var total float64
		for _, part := range strings.Split(s, ":") {
			digits, err := strconv.ParseFloat(part, 64)
			if err != nil {
				return 0, false
			}
			total = total*60 + digits
		}
		return sign * total, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ToNode converts nested maps, slices, and scalars back into a node
// graph. Map keys are sorted so the output is deterministic.
func (c jsonConverter) ToNode(v any) (*yaml.Node, error) {
	switch v := v.(type) {
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	case bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(v)}, nil
	case int64:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(v, 10)}, nil
	case float64:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: strconv.FormatFloat(v, 'g', -1, 64)}, nil
	case string:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}, nil
	case []any:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range v {
			child, err := c.ToNode(item)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, child)
		}
		return node, nil
	case map[string]any:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			child, err := c.ToNode(v[k])
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
				child)
		}
		return node, nil
	}
	return nil, fmt.Errorf("cannot convert value of type %T", v)
}
