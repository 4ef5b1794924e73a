// Copyright 2026 The yamlkit Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serialize(t *testing.T, opts DumpOptions, roots ...*Node) string {
	t.Helper()
	var buf bytes.Buffer
	s := NewSerializer(&buf, opts, nil)
	for _, root := range roots {
		require.NoError(t, s.Serialize(root))
	}
	require.NoError(t, s.Close())
	return buf.String()
}

func scalarNode(value string) *Node {
	return &Node{Kind: ScalarNode, Tag: strTag, Value: value}
}

func TestSerializeScalarDocument(t *testing.T) {
	out := serialize(t, DefaultDumpOptions(), scalarNode("hello"))
	assert.Equal(t, "hello\n", out)
}

func TestSerializeMapping(t *testing.T) {
	root := &Node{Kind: MappingNode, Tag: mapTag, Content: []*Node{
		scalarNode("a"), {Kind: ScalarNode, Tag: intTag, Value: "1"},
		scalarNode("b"), {Kind: ScalarNode, Tag: boolTag, Value: "true"},
	}}
	out := serialize(t, DefaultDumpOptions(), root)
	assert.Equal(t, "a: 1\nb: true\n", out)
}

func TestSerializeBlockSequenceInMapping(t *testing.T) {
	root := &Node{Kind: MappingNode, Tag: mapTag, Content: []*Node{
		scalarNode("a"),
		{Kind: SequenceNode, Tag: seqTag, Content: []*Node{
			{Kind: ScalarNode, Tag: intTag, Value: "1"},
			{Kind: ScalarNode, Tag: intTag, Value: "2"},
		}},
	}}

	out := serialize(t, DefaultDumpOptions(), root)
	assert.Equal(t, "a:\n  - 1\n  - 2\n", out)

	compact := DefaultDumpOptions()
	compact.CompactSequenceIndent = true
	out = serialize(t, compact, root)
	assert.Equal(t, "a:\n- 1\n- 2\n", out)
}

func TestSerializeFlowStyles(t *testing.T) {
	root := &Node{Kind: MappingNode, Tag: mapTag, Content: []*Node{
		scalarNode("a"),
		{Kind: SequenceNode, Tag: seqTag, Style: FlowStyle, Content: []*Node{
			{Kind: ScalarNode, Tag: intTag, Value: "1"},
			{Kind: ScalarNode, Tag: intTag, Value: "2"},
		}},
	}}
	out := serialize(t, DefaultDumpOptions(), root)
	assert.Equal(t, "a: [1, 2]\n", out)
}

func TestSerializeStringThatLooksTyped(t *testing.T) {
	// An untagged "123" must not come back as an integer, so the
	// serializer quotes it.
	tests := []struct {
		value string
		want  string
	}{
		{"123", "'123'\n"},
		{"yes", "'yes'\n"},
		{"null", "'null'\n"},
		{"1.5", "'1.5'\n"},
		{"12_345", "12_345\n"},
		{"plain", "plain\n"},
	}
	for _, tt := range tests {
		out := serialize(t, DefaultDumpOptions(), scalarNode(tt.value))
		assert.Equal(t, tt.want, out, "value %q", tt.value)
	}
}

func TestSerializeMultilineUsesLiteral(t *testing.T) {
	out := serialize(t, DefaultDumpOptions(), scalarNode("one\ntwo\n"))
	assert.Equal(t, "|\n  one\n  two\n", out)
}

func TestSerializeNilDocument(t *testing.T) {
	assert.Equal(t, "null\n", serialize(t, DefaultDumpOptions(), nil))
	assert.Equal(t, "null\n", serialize(t, DefaultDumpOptions(), &Node{}))
}

func TestSerializeSharedNodeGetsAnchor(t *testing.T) {
	shared := scalarNode("v")
	root := &Node{Kind: MappingNode, Tag: mapTag, Content: []*Node{
		scalarNode("a"), shared,
		scalarNode("b"), shared,
	}}
	out := serialize(t, DefaultDumpOptions(), root)
	assert.Equal(t, "a: &id001 v\nb: *id001\n", out)
}

func TestSerializeUserAnchorPreserved(t *testing.T) {
	shared := scalarNode("v")
	shared.Anchor = "mine"
	root := &Node{Kind: MappingNode, Tag: mapTag, Content: []*Node{
		scalarNode("a"), shared,
		scalarNode("b"), shared,
	}}
	out := serialize(t, DefaultDumpOptions(), root)
	assert.Equal(t, "a: &mine v\nb: *mine\n", out)
}

func TestSerializeUnsharedAnchorDropped(t *testing.T) {
	// An anchor nothing refers to is noise; the serializer drops it.
	node := scalarNode("v")
	node.Anchor = "unused"
	root := &Node{Kind: MappingNode, Tag: mapTag, Content: []*Node{
		scalarNode("a"), node,
	}}
	out := serialize(t, DefaultDumpOptions(), root)
	assert.Equal(t, "a: v\n", out)
}

func TestSerializeCycle(t *testing.T) {
	root := &Node{Kind: MappingNode, Tag: mapTag}
	root.Content = []*Node{scalarNode("self"), root}

	out := serialize(t, DefaultDumpOptions(), root)
	assert.Equal(t, "&id001\nself: *id001\n", out)
}

func TestSerializeInvalidUTF8AsBinary(t *testing.T) {
	out := serialize(t, DefaultDumpOptions(), &Node{Kind: ScalarNode, Value: "\xff\xfe"})
	assert.Equal(t, "!!binary //4=\n", out)
}

func TestSerializeInvalidUTF8Tagged(t *testing.T) {
	var buf bytes.Buffer
	s := NewSerializer(&buf, DefaultDumpOptions(), nil)

	err := s.Serialize(&Node{Kind: ScalarNode, Tag: binaryTag, Value: "\xff", Style: TaggedStyle})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be base64-encoded")

	err = s.Serialize(&Node{Kind: ScalarNode, Tag: strTag, Value: "\xff", Style: TaggedStyle})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid UTF-8")
}

func TestSerializeExplicitTag(t *testing.T) {
	root := &Node{Kind: ScalarNode, Tag: strTag, Value: "123", Style: TaggedStyle}
	out := serialize(t, DefaultDumpOptions(), root)
	assert.Equal(t, "!!str 123\n", out)
}

func TestSerializeOddMappingContent(t *testing.T) {
	var buf bytes.Buffer
	s := NewSerializer(&buf, DefaultDumpOptions(), nil)
	err := s.Serialize(&Node{Kind: MappingNode, Tag: mapTag, Content: []*Node{scalarNode("a")}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "odd number")
}

func TestSerializeMultipleDocuments(t *testing.T) {
	out := serialize(t, DefaultDumpOptions(), scalarNode("one"), scalarNode("two"))
	assert.Equal(t, "one\n---\ntwo\n", out)
}

func TestSerializeExplicitMarkers(t *testing.T) {
	opts := DefaultDumpOptions()
	opts.ExplicitStart = true
	opts.ExplicitEnd = true
	out := serialize(t, opts, scalarNode("a"))
	assert.Equal(t, "---\na\n...\n", out)
}

func TestSerializeVersionDirective(t *testing.T) {
	opts := DefaultDumpOptions()
	opts.Version = &VersionDirective{Major: 1, Minor: 1}
	out := serialize(t, opts, scalarNode("a"))
	assert.Equal(t, "%YAML 1.1\n---\na\n", out)
}

func TestSerializeRejectsForeignVersion(t *testing.T) {
	opts := DefaultDumpOptions()
	opts.Version = &VersionDirective{Major: 1, Minor: 2}
	var buf bytes.Buffer
	s := NewSerializer(&buf, opts, nil)
	err := s.Serialize(scalarNode("a"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "incompatible %YAML directive")
}

func TestSerializeTagDirectives(t *testing.T) {
	opts := DefaultDumpOptions()
	opts.TagDirectives = []TagDirective{{Handle: "!e!", Prefix: "tag:example.com,2000:"}}
	root := &Node{Kind: ScalarNode, Tag: "tag:example.com,2000:thing", Value: "a", Style: TaggedStyle}

	out := serialize(t, opts, root)
	assert.Equal(t, "%TAG !e! tag:example.com,2000:\n---\n!e!thing a\n", out)
}

func TestSerializeCanonical(t *testing.T) {
	opts := DefaultDumpOptions()
	opts.Canonical = true
	root := &Node{Kind: MappingNode, Tag: mapTag, Content: []*Node{
		scalarNode("a"), {Kind: ScalarNode, Tag: intTag, Value: "1"},
	}}
	out := serialize(t, opts, root)
	assert.Contains(t, out, "---")
	assert.Contains(t, out, "!!map")
	assert.Contains(t, out, "!!str \"a\"")
	assert.Contains(t, out, "!!int \"1\"")
}

func TestSerializeAfterClose(t *testing.T) {
	var buf bytes.Buffer
	s := NewSerializer(&buf, DefaultDumpOptions(), nil)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	err := s.Serialize(scalarNode("a"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after Close")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestSerializeWriteErrorSurfaces(t *testing.T) {
	s := NewSerializer(failingWriter{}, DefaultDumpOptions(), nil)
	err := s.Serialize(scalarNode("hello"))
	if err == nil {
		err = s.Close()
	}
	require.Error(t, err)
	var writeErr *WriteError
	assert.ErrorAs(t, err, &writeErr)
	assert.Contains(t, err.Error(), "disk full")
}

func TestSerializeLineBreaks(t *testing.T) {
	opts := DefaultDumpOptions()
	opts.LineBreak = BreakCRLN
	root := &Node{Kind: MappingNode, Tag: mapTag, Content: []*Node{
		scalarNode("a"), {Kind: ScalarNode, Tag: intTag, Value: "1"},
	}}
	out := serialize(t, opts, root)
	assert.Equal(t, "a: 1\r\n", out)
	assert.False(t, strings.Contains(strings.ReplaceAll(out, "\r\n", ""), "\n"))
}
