// Copyright 2026 The yamlkit Authors
// SPDX-License-Identifier: Apache-2.0

package yaml

// Converter translates between node graphs and application values.
// The package itself performs no typed binding; callers that want to
// map nodes onto structs, maps, or other Go values implement this
// interface on top of Load and Dump. The yamlkit CLI's json mode is
// one such implementation.
type Converter interface {
	// ToNode builds the node graph representing v.
	ToNode(v any) (*Node, error)

	// FromNode builds the application value represented by n.
	FromNode(n *Node) (any, error)
}
