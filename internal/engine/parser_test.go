// Copyright 2026 The yamlkit Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestParser(input string) *Parser {
	return NewParser(NewScanner(NewReader(strings.NewReader(input), "test")))
}

// parseAll renders the event stream as kind strings, with scalars and
// aliases carrying their value.
func parseAll(t *testing.T, input string) []string {
	t.Helper()
	p := newTestParser(input)
	var out []string
	var event Event
	for {
		err := p.Parse(&event)
		if err == io.EOF {
			return out
		}
		require.NoError(t, err)
		switch event.Kind {
		case EventScalar:
			out = append(out, "scalar("+event.Value+")")
		case EventAlias:
			out = append(out, "alias("+event.Anchor+")")
		default:
			out = append(out, event.Kind.String())
		}
	}
}

func TestParseBlockMapping(t *testing.T) {
	assert.Equal(t, []string{
		"stream-start",
		"document-start",
		"mapping-start",
		"scalar(a)", "scalar(1)",
		"scalar(b)", "scalar(2)",
		"mapping-end",
		"document-end",
		"stream-end",
	}, parseAll(t, "a: 1\nb: 2\n"))
}

func TestParseNestedCollections(t *testing.T) {
	assert.Equal(t, []string{
		"stream-start",
		"document-start",
		"mapping-start",
		"scalar(a)",
		"sequence-start",
		"scalar(1)",
		"scalar(2)",
		"mapping-start",
		"scalar(b)", "scalar(true)",
		"mapping-end",
		"sequence-end",
		"mapping-end",
		"document-end",
		"stream-end",
	}, parseAll(t, "a: [1, 2, {b: true}]\n"))
}

func TestParseIndentlessSequence(t *testing.T) {
	assert.Equal(t, []string{
		"stream-start",
		"document-start",
		"mapping-start",
		"scalar(key)",
		"sequence-start",
		"scalar(a)",
		"scalar(b)",
		"sequence-end",
		"mapping-end",
		"document-end",
		"stream-end",
	}, parseAll(t, "key:\n- a\n- b\n"))
}

func TestParseEmptyValues(t *testing.T) {
	assert.Equal(t, []string{
		"stream-start",
		"document-start",
		"mapping-start",
		"scalar(a)", "scalar()",
		"scalar(b)", "scalar(1)",
		"mapping-end",
		"document-end",
		"stream-end",
	}, parseAll(t, "a:\nb: 1\n"))
}

func TestParseFlowSinglePairMapping(t *testing.T) {
	// A "key: value" pair directly inside a flow sequence becomes a
	// one-entry mapping.
	assert.Equal(t, []string{
		"stream-start",
		"document-start",
		"sequence-start",
		"mapping-start",
		"scalar(a)", "scalar(1)",
		"mapping-end",
		"sequence-end",
		"document-end",
		"stream-end",
	}, parseAll(t, "[a: 1]\n"))
}

func TestParseMultipleDocuments(t *testing.T) {
	p := newTestParser("---\none\n---\ntwo\n")

	var event Event
	starts := 0
	scalars := []string{}
	for {
		err := p.Parse(&event)
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		switch event.Kind {
		case EventDocumentStart:
			starts++
			assert.True(t, event.Explicit)
		case EventScalar:
			scalars = append(scalars, event.Value)
		}
	}
	assert.Equal(t, 2, starts)
	assert.Equal(t, []string{"one", "two"}, scalars)
}

func TestParseImplicitDocumentStart(t *testing.T) {
	p := newTestParser("a\n")
	var event Event
	require.NoError(t, p.Parse(&event)) // stream start
	require.NoError(t, p.Parse(&event))
	require.Equal(t, EventDocumentStart, event.Kind)
	assert.False(t, event.Explicit)
}

func TestParseAnchorAndAlias(t *testing.T) {
	p := newTestParser("a: &x 1\nb: *x\n")

	var event Event
	var anchored, aliased bool
	for {
		err := p.Parse(&event)
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		switch {
		case event.Kind == EventScalar && event.Anchor == "x":
			anchored = true
			assert.Equal(t, "1", event.Value)
		case event.Kind == EventAlias:
			aliased = true
			assert.Equal(t, "x", event.Anchor)
		}
	}
	assert.True(t, anchored)
	assert.True(t, aliased)
}

func TestParseScalarTags(t *testing.T) {
	tests := []struct {
		input          string
		tag            string
		implicit       bool
		quotedImplicit bool
	}{
		{"plain\n", "", true, false},
		{"'quoted'\n", "", false, true},
		{"! keep\n", "!", true, false},
		{"!!str 1\n", "tag:yaml.org,2002:str", false, false},
		{"!local a\n", "!local", false, false},
		{"!<tag:example.com,2000:x> a\n", "tag:example.com,2000:x", false, false},
	}
	for _, tt := range tests {
		p := newTestParser(tt.input)
		var event Event
		for event.Kind != EventScalar {
			require.NoError(t, p.Parse(&event), "input %q", tt.input)
		}
		assert.Equal(t, tt.tag, event.Tag, "input %q", tt.input)
		assert.Equal(t, tt.implicit, event.Implicit, "input %q", tt.input)
		assert.Equal(t, tt.quotedImplicit, event.QuotedImplicit, "input %q", tt.input)
	}
}

func TestParseTagDirective(t *testing.T) {
	p := newTestParser("%TAG !e! tag:example.com,2000:\n---\n!e!thing a\n")
	var event Event
	for event.Kind != EventScalar {
		require.NoError(t, p.Parse(&event))
	}
	assert.Equal(t, "tag:example.com,2000:thing", event.Tag)
}

func TestParseVersionDirective(t *testing.T) {
	p := newTestParser("%YAML 1.1\n---\na\n")
	var event Event
	require.NoError(t, p.Parse(&event)) // stream start
	require.NoError(t, p.Parse(&event))
	require.Equal(t, EventDocumentStart, event.Kind)
	require.NotNil(t, event.Version)
	assert.Equal(t, int8(1), event.Version.Major)
	assert.Equal(t, int8(1), event.Version.Minor)
}

func parseUntilError(t *testing.T, input string) error {
	t.Helper()
	p := newTestParser(input)
	var event Event
	for {
		err := p.Parse(&event)
		if err == io.EOF {
			t.Fatalf("no error parsing %q", input)
		}
		if err != nil {
			return err
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		problem string
	}{
		{"incompatible version", "%YAML 1.2\n---\na\n", "found incompatible YAML document"},
		{"duplicate yaml directive", "%YAML 1.1\n%YAML 1.1\n---\na\n", "found duplicate %YAML directive"},
		{"duplicate tag directive", "%TAG !e! tag:a\n%TAG !e! tag:b\n---\na\n", "found duplicate %TAG directive"},
		{"undefined tag handle", "!e!x a\n", "found undefined tag handle"},
		{"unclosed flow sequence", "[1, 2\n", "did not find expected ',' or ']'"},
		{"unclosed flow mapping", "{a: 1\n", "did not find expected ',' or '}'"},
		{"bad block mapping", "a: 1\n- b\n", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := parseUntilError(t, tt.input)
			require.Error(t, err)
			if tt.problem != "" {
				assert.Contains(t, err.Error(), tt.problem)
			}
		})
	}
}

func TestParseErrorSnippet(t *testing.T) {
	err := parseUntilError(t, "a: 1\n- b\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "- b")
	assert.Contains(t, err.Error(), "^")
}

func TestParseErrorSticks(t *testing.T) {
	p := newTestParser("[1, 2\n")
	var event Event
	var err error
	for err == nil {
		err = p.Parse(&event)
	}
	assert.Equal(t, err, p.Parse(&event))
}

func TestParseEOFAfterStreamEnd(t *testing.T) {
	p := newTestParser("a\n")
	var event Event
	for {
		require.NoError(t, p.Parse(&event))
		if event.Kind == EventStreamEnd {
			break
		}
	}
	assert.Equal(t, io.EOF, p.Parse(&event))
	assert.Equal(t, io.EOF, p.Parse(&event))
}
