// Copyright 2011-2019 Canonical Ltd
// Copyright 2026 The yamlkit Authors
// SPDX-License-Identifier: Apache-2.0

// Serializer stage: walks a node graph and produces events for the
// emitter. A discovery pass over each document counts node references
// by identity; nodes reached more than once get an anchor on first
// emission and an alias afterwards, which also makes cyclic graphs
// serializable.

package engine

import (
	"encoding/base64"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Serializer turns node graphs into YAML text through an Emitter.
type Serializer struct {
	emitter  *Emitter
	opts     DumpOptions
	resolver *Resolver

	started bool
	closed  bool

	refs     map[*Node]int
	anchors  map[*Node]string
	anchorID int
}

// NewSerializer returns a serializer writing documents to dst. A nil
// resolver means the core schema, matching the loading default.
func NewSerializer(dst io.Writer, opts DumpOptions, resolver *Resolver) *Serializer {
	opts.normalize()
	if resolver == nil {
		resolver = coreResolver
	}
	return &Serializer{
		emitter:  NewEmitter(newWriter(dst, opts.LineBreak), opts),
		opts:     opts,
		resolver: resolver,
	}
}

// Serialize writes one document. It may be called repeatedly to build
// a multi-document stream; Close finishes the stream.
func (s *Serializer) Serialize(root *Node) error {
	if s.closed {
		return newEmitError("serialize called after Close")
	}
	if !s.started {
		if err := s.emit(&Event{Kind: EventStreamStart}); err != nil {
			return err
		}
		s.started = true
	}

	err := s.emit(&Event{
		Kind:          EventDocumentStart,
		Explicit:      s.opts.ExplicitStart,
		Version:       s.opts.Version,
		TagDirectives: s.opts.TagDirectives,
	})
	if err != nil {
		return err
	}

	s.refs = make(map[*Node]int)
	s.anchors = make(map[*Node]string)
	s.anchorID = 0
	s.discover(root)

	if err := s.node(root); err != nil {
		return err
	}
	return s.emit(&Event{Kind: EventDocumentEnd, Explicit: s.opts.ExplicitEnd})
}

// Close ends the stream and flushes buffered output.
func (s *Serializer) Close() error {
	if s.closed {
		return nil
	}
	if !s.started {
		if err := s.emit(&Event{Kind: EventStreamStart}); err != nil {
			return err
		}
		s.started = true
	}
	s.closed = true
	return s.emit(&Event{Kind: EventStreamEnd})
}

func (s *Serializer) emit(event *Event) error {
	return s.emitter.Emit(event)
}

// discover counts how many times each node identity is reachable.
// Children are visited on the first arrival only, so the walk
// terminates on cyclic graphs.
func (s *Serializer) discover(n *Node) {
	if n == nil {
		return
	}
	s.refs[n]++
	if s.refs[n] > 1 {
		return
	}
	for _, child := range n.Content {
		s.discover(child)
	}
}

// anchorFor returns the anchor to define on n's first emission, and
// registers it for later aliasing when the node is shared.
func (s *Serializer) anchorFor(n *Node) string {
	anchor := n.Anchor
	if s.refs[n] > 1 {
		if anchor == "" {
			s.anchorID++
			anchor = fmt.Sprintf("id%03d", s.anchorID)
		}
		s.anchors[n] = anchor
	}
	return anchor
}

func (s *Serializer) node(n *Node) error {
	if n == nil || n.IsZero() {
		return s.emit(&Event{
			Kind:     EventScalar,
			Value:    "null",
			Implicit: true,
			Style:    ScalarStylePlain,
		})
	}

	if anchor, ok := s.anchors[n]; ok {
		return s.emit(&Event{Kind: EventAlias, Anchor: anchor})
	}
	anchor := s.anchorFor(n)

	switch n.Kind {
	case ScalarNode:
		return s.scalar(n, anchor)

	case SequenceNode:
		tag := n.ShortTag()
		implicit := tag == seqTag && n.Style&TaggedStyle == 0
		err := s.emit(&Event{
			Kind:     EventSequenceStart,
			Anchor:   anchor,
			Tag:      longTag(tag),
			Implicit: implicit,
			Flow:     n.Style&FlowStyle != 0,
		})
		if err != nil {
			return err
		}
		for _, child := range n.Content {
			if err := s.node(child); err != nil {
				return err
			}
		}
		return s.emit(&Event{Kind: EventSequenceEnd})

	case MappingNode:
		if len(n.Content)%2 != 0 {
			return newEmitError("mapping node has an odd number of content entries")
		}
		tag := n.ShortTag()
		implicit := tag == mapTag && n.Style&TaggedStyle == 0
		err := s.emit(&Event{
			Kind:     EventMappingStart,
			Anchor:   anchor,
			Tag:      longTag(tag),
			Implicit: implicit,
			Flow:     n.Style&FlowStyle != 0,
		})
		if err != nil {
			return err
		}
		for _, child := range n.Content {
			if err := s.node(child); err != nil {
				return err
			}
		}
		return s.emit(&Event{Kind: EventMappingEnd})
	}
	return newEmitError(fmt.Sprintf("cannot serialize node with unknown kind %d", n.Kind))
}

func (s *Serializer) scalar(n *Node, anchor string) error {
	value := n.Value
	tag := n.ShortTag()
	tagged := n.Style&TaggedStyle != 0

	if !utf8.ValidString(value) {
		if tag == binaryTag {
			return newEmitError("explicitly tagged !!binary data must be base64-encoded")
		}
		if tagged {
			return newEmitError(fmt.Sprintf("cannot serialize invalid UTF-8 data as %s", tag))
		}
		// Not representable as a YAML string, so re-tag as binary and
		// encode.
		tag = binaryTag
		tagged = true
		value = base64.StdEncoding.EncodeToString([]byte(value))
	}

	style := n.Style.ScalarStyle()
	if style == ScalarStyleAny || style == ScalarStylePlain {
		style = ScalarStylePlain
		if strings.Contains(value, "\n") {
			style = ScalarStyleLiteral
		}
	}

	var plainImplicit, quotedImplicit bool
	if !tagged {
		plainImplicit = s.resolver.Resolve(ScalarNode, value, ScalarStylePlain) == tag
		quotedImplicit = tag == strTag
		if style == ScalarStylePlain && !plainImplicit && tag == strTag {
			// The plain rendering would re-resolve to another type, so
			// quote to keep the value a string.
			style = ScalarStyleSingleQuoted
		}
	}

	return s.emit(&Event{
		Kind:           EventScalar,
		Anchor:         anchor,
		Tag:            longTag(tag),
		Value:          value,
		Implicit:       plainImplicit,
		QuotedImplicit: quotedImplicit,
		Style:          style,
	})
}
