// Copyright 2026 The yamlkit Authors
// SPDX-License-Identifier: Apache-2.0

// Composer stage: builds a node graph out of the event stream. Anchored
// nodes are registered before their children are composed, so an alias
// inside a node's own subtree resolves to that same node and produces a
// cyclic graph rather than an error.

package engine

import (
	"fmt"
	"io"
)

// Composer produces one node graph per document.
type Composer struct {
	parser   *Parser
	resolver *Resolver
	maxDepth int

	event   Event
	pending bool
	started bool
	done    bool

	anchors map[string]*Node
	depth   int
}

// NewComposer returns a composer pulling events from parser.
func NewComposer(parser *Parser, opts LoadOptions) *Composer {
	return &Composer{
		parser:   parser,
		resolver: opts.resolver(),
		maxDepth: opts.maxDepth(),
		anchors:  make(map[string]*Node),
	}
}

// Compose returns the root node of the next document, or io.EOF once
// the stream is exhausted. Aliases are resolved to the node they name;
// the same *Node appearing in several places means the input said so.
func (c *Composer) Compose() (*Node, error) {
	if c.done {
		return nil, io.EOF
	}
	if !c.started {
		if err := c.expect(EventStreamStart); err != nil {
			return nil, err
		}
		c.started = true
	}

	kind, err := c.peek()
	if err != nil {
		return nil, err
	}
	if kind == EventStreamEnd {
		c.done = true
		return nil, io.EOF
	}

	// Anchors do not persist across documents.
	clear(c.anchors)
	c.depth = 0

	if err := c.expect(EventDocumentStart); err != nil {
		return nil, err
	}
	root, err := c.composeNode()
	if err != nil {
		return nil, err
	}
	if err := c.expect(EventDocumentEnd); err != nil {
		return nil, err
	}
	return root, nil
}

// peek loads the next event if necessary and returns its kind.
func (c *Composer) peek() (EventKind, error) {
	if c.pending {
		return c.event.Kind, nil
	}
	if err := c.parser.Parse(&c.event); err != nil {
		return EventNone, err
	}
	c.pending = true
	return c.event.Kind, nil
}

// expect consumes the next event and checks its kind.
func (c *Composer) expect(kind EventKind) error {
	got, err := c.peek()
	if err != nil {
		return err
	}
	if got != kind {
		return newComposeError(
			fmt.Sprintf("expected %v event but got %v", kind, got), c.event.Start)
	}
	c.pending = false
	return nil
}

func (c *Composer) composeNode() (*Node, error) {
	kind, err := c.peek()
	if err != nil {
		return nil, err
	}
	switch kind {
	case EventScalar:
		return c.composeScalar()
	case EventAlias:
		return c.composeAlias()
	case EventSequenceStart:
		return c.composeSequence()
	case EventMappingStart:
		return c.composeMapping()
	}
	return nil, newComposeError(
		fmt.Sprintf("unexpected %v event in document content", kind), c.event.Start)
}

// registerAnchor records an anchored node, before its children exist.
func (c *Composer) registerAnchor(n *Node, anchor string, mark Mark) error {
	if anchor == "" {
		return nil
	}
	if _, ok := c.anchors[anchor]; ok {
		return newComposeError(
			fmt.Sprintf("anchor '%s' defined more than once in document", anchor), mark)
	}
	n.Anchor = anchor
	c.anchors[anchor] = n
	return nil
}

// nodeTag derives the node tag and tagged style from an event tag. An
// explicit tag pins the node; the non-specific tag "!" and the absence
// of a tag defer to the resolver.
func (c *Composer) nodeTag(kind Kind, value string, style ScalarStyle) (string, Style) {
	switch {
	case c.event.Tag == "!":
		// The non-specific tag pins the node to its kind's default
		// type, bypassing pattern resolution.
		switch kind {
		case SequenceNode:
			return seqTag, 0
		case MappingNode:
			return mapTag, 0
		}
		return strTag, 0
	case c.event.Tag != "":
		return shortTag(c.event.Tag), TaggedStyle
	}
	return c.resolver.Resolve(kind, value, style), 0
}

func (c *Composer) composeScalar() (*Node, error) {
	style := c.event.Style
	if style == ScalarStyleAny {
		style = ScalarStylePlain
	}
	tag, tagged := c.nodeTag(ScalarNode, c.event.Value, style)
	n := &Node{
		Kind:  ScalarNode,
		Tag:   tag,
		Value: c.event.Value,
		Style: tagged | styleFromScalar(style),
		Mark:  c.event.Start,
	}
	if err := c.registerAnchor(n, c.event.Anchor, c.event.Start); err != nil {
		return nil, err
	}
	return n, c.expect(EventScalar)
}

func (c *Composer) composeAlias() (*Node, error) {
	n, ok := c.anchors[c.event.Anchor]
	if !ok {
		return nil, newComposeError(
			fmt.Sprintf("unknown anchor '%s' referenced", c.event.Anchor), c.event.Start)
	}
	return n, c.expect(EventAlias)
}

func (c *Composer) enter(mark Mark) error {
	c.depth++
	if c.depth > c.maxDepth {
		return newComposeError(
			fmt.Sprintf("document nesting exceeds the allowed depth of %d", c.maxDepth), mark)
	}
	return nil
}

func (c *Composer) composeSequence() (*Node, error) {
	tag, tagged := c.nodeTag(SequenceNode, "", ScalarStyleAny)
	n := &Node{
		Kind: SequenceNode,
		Tag:  tag,
		Mark: c.event.Start,
	}
	if c.event.Flow {
		n.Style |= FlowStyle
	}
	n.Style |= tagged
	if err := c.registerAnchor(n, c.event.Anchor, c.event.Start); err != nil {
		return nil, err
	}
	if err := c.enter(c.event.Start); err != nil {
		return nil, err
	}
	if err := c.expect(EventSequenceStart); err != nil {
		return nil, err
	}
	for {
		kind, err := c.peek()
		if err != nil {
			return nil, err
		}
		if kind == EventSequenceEnd {
			break
		}
		child, err := c.composeNode()
		if err != nil {
			return nil, err
		}
		n.Content = append(n.Content, child)
	}
	c.depth--
	return n, c.expect(EventSequenceEnd)
}

func (c *Composer) composeMapping() (*Node, error) {
	tag, tagged := c.nodeTag(MappingNode, "", ScalarStyleAny)
	n := &Node{
		Kind: MappingNode,
		Tag:  tag,
		Mark: c.event.Start,
	}
	if c.event.Flow {
		n.Style |= FlowStyle
	}
	n.Style |= tagged
	if err := c.registerAnchor(n, c.event.Anchor, c.event.Start); err != nil {
		return nil, err
	}
	if err := c.enter(c.event.Start); err != nil {
		return nil, err
	}
	if err := c.expect(EventMappingStart); err != nil {
		return nil, err
	}
	for {
		kind, err := c.peek()
		if err != nil {
			return nil, err
		}
		if kind == EventMappingEnd {
			break
		}
		key, err := c.composeNode()
		if err != nil {
			return nil, err
		}
		value, err := c.composeNode()
		if err != nil {
			return nil, err
		}
		n.Content = append(n.Content, key, value)
	}
	c.depth--
	return n, c.expect(EventMappingEnd)
}
