// Copyright 2011-2019 Canonical Ltd
// Copyright 2026 The yamlkit Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import "strings"

// Kind identifies the variant of a Node.
type Kind int8

const (
	// ScalarNode is a leaf carrying text.
	ScalarNode Kind = 1 << iota
	// SequenceNode is an ordered list of nodes.
	SequenceNode
	// MappingNode is an ordered list of key/value node pairs.
	MappingNode
)

func (k Kind) String() string {
	switch k {
	case ScalarNode:
		return "scalar"
	case SequenceNode:
		return "sequence"
	case MappingNode:
		return "mapping"
	}
	return "unknown"
}

// Style is a bit set of presentation hints carried by a Node.
type Style int8

const (
	// TaggedStyle marks a node whose tag was written explicitly in the
	// source (or must be written explicitly on output).
	TaggedStyle Style = 1 << iota
	// SingleQuotedStyle, DoubleQuotedStyle, LiteralStyle and
	// FoldedStyle pin a scalar's output style.
	SingleQuotedStyle
	DoubleQuotedStyle
	LiteralStyle
	FoldedStyle
	// FlowStyle pins a collection to flow syntax.
	FlowStyle
)

// ScalarStyle maps the node style bits to the event-level scalar style.
func (s Style) ScalarStyle() ScalarStyle {
	switch {
	case s&SingleQuotedStyle != 0:
		return ScalarStyleSingleQuoted
	case s&DoubleQuotedStyle != 0:
		return ScalarStyleDoubleQuoted
	case s&LiteralStyle != 0:
		return ScalarStyleLiteral
	case s&FoldedStyle != 0:
		return ScalarStyleFolded
	}
	return ScalarStyleAny
}

// styleFromScalar maps an event scalar style back to node style bits.
func styleFromScalar(s ScalarStyle) Style {
	switch s {
	case ScalarStyleSingleQuoted:
		return SingleQuotedStyle
	case ScalarStyleDoubleQuoted:
		return DoubleQuotedStyle
	case ScalarStyleLiteral:
		return LiteralStyle
	case ScalarStyleFolded:
		return FoldedStyle
	}
	return 0
}

// Node is the intermediate representation shared by load and dump. A
// document composes to exactly one root node. Anchors and aliases are
// represented structurally: an alias in the source becomes a second
// reference to the same *Node, so a node graph may be cyclic. Identity,
// not value equality, is what the anchor machinery tracks.
type Node struct {
	Kind Kind

	// Tag is the resolved tag in short form ("!!str") for the core
	// schema, or the full tag text for custom tags.
	Tag string

	// Value is the scalar text (ScalarNode only).
	Value string

	// Content lists children: items for a sequence, alternating keys
	// and values for a mapping.
	Content []*Node

	// Style carries presentation hints. Zero means "let the emitter
	// choose".
	Style Style

	// Anchor is the label under which the node was anchored in the
	// source. On dump it is a request; the serializer assigns fresh
	// labels to unanchored shared nodes.
	Anchor string

	// Mark is the node's position in the source. Zero for
	// programmatically built nodes.
	Mark Mark
}

// IsZero reports whether the node is entirely unset.
func (n *Node) IsZero() bool {
	return n.Kind == 0 && n.Tag == "" && n.Value == "" && n.Anchor == "" &&
		n.Content == nil && n.Style == 0
}

// ShortTag returns the node's tag in short form, resolving empty tags
// to the default tag for the node kind.
func (n *Node) ShortTag() string {
	if n.Tag != "" {
		return shortTag(n.Tag)
	}
	switch n.Kind {
	case SequenceNode:
		return seqTag
	case MappingNode:
		return mapTag
	}
	return strTag
}

// The core schema tags, in short form.
const (
	nullTag      = "!!null"
	boolTag      = "!!bool"
	strTag       = "!!str"
	intTag       = "!!int"
	floatTag     = "!!float"
	timestampTag = "!!timestamp"
	seqTag       = "!!seq"
	mapTag       = "!!map"
	binaryTag    = "!!binary"
	mergeTag     = "!!merge"
	valueTag     = "!!value"
)

const longTagPrefix = "tag:yaml.org,2002:"

// longTag expands a short core-schema tag ("!!str") to its full form.
func longTag(tag string) string {
	if strings.HasPrefix(tag, "!!") {
		return longTagPrefix + tag[2:]
	}
	return tag
}

// shortTag contracts a full core-schema tag to its short form.
func shortTag(tag string) string {
	if strings.HasPrefix(tag, longTagPrefix) {
		return "!!" + tag[len(longTagPrefix):]
	}
	return tag
}
