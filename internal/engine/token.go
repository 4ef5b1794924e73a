// Copyright 2026 The yamlkit Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import "fmt"

// TokenKind identifies the kind of a scanner token.
type TokenKind int8

const (
	// TokenNone is the zero token kind.
	TokenNone TokenKind = iota

	TokenStreamStart
	TokenStreamEnd

	TokenVersionDirective
	TokenTagDirective
	TokenDocumentStart
	TokenDocumentEnd

	TokenBlockSequenceStart
	TokenBlockMappingStart
	TokenBlockEnd

	TokenFlowSequenceStart
	TokenFlowSequenceEnd
	TokenFlowMappingStart
	TokenFlowMappingEnd

	TokenBlockEntry
	TokenFlowEntry
	TokenKey
	TokenValue

	TokenAlias
	TokenAnchor
	TokenTag
	TokenScalar
	TokenComment
)

var tokenKindNames = []string{
	TokenNone:               "none",
	TokenStreamStart:        "stream-start",
	TokenStreamEnd:          "stream-end",
	TokenVersionDirective:   "version-directive",
	TokenTagDirective:       "tag-directive",
	TokenDocumentStart:      "document-start",
	TokenDocumentEnd:        "document-end",
	TokenBlockSequenceStart: "block-sequence-start",
	TokenBlockMappingStart:  "block-mapping-start",
	TokenBlockEnd:           "block-end",
	TokenFlowSequenceStart:  "flow-sequence-start",
	TokenFlowSequenceEnd:    "flow-sequence-end",
	TokenFlowMappingStart:   "flow-mapping-start",
	TokenFlowMappingEnd:     "flow-mapping-end",
	TokenBlockEntry:         "block-entry",
	TokenFlowEntry:          "flow-entry",
	TokenKey:                "key",
	TokenValue:              "value",
	TokenAlias:              "alias",
	TokenAnchor:             "anchor",
	TokenTag:                "tag",
	TokenScalar:             "scalar",
	TokenComment:            "comment",
}

func (k TokenKind) String() string {
	if k < 0 || int(k) >= len(tokenKindNames) {
		return fmt.Sprintf("unknown token kind %d", int8(k))
	}
	return tokenKindNames[k]
}

// ScalarStyle identifies the presentation style of a scalar.
type ScalarStyle int8

const (
	// ScalarStyleAny lets the emitter choose.
	ScalarStyleAny ScalarStyle = iota

	ScalarStylePlain
	ScalarStyleSingleQuoted
	ScalarStyleDoubleQuoted
	ScalarStyleLiteral
	ScalarStyleFolded
)

func (s ScalarStyle) String() string {
	switch s {
	case ScalarStylePlain:
		return "plain"
	case ScalarStyleSingleQuoted:
		return "single-quoted"
	case ScalarStyleDoubleQuoted:
		return "double-quoted"
	case ScalarStyleLiteral:
		return "literal"
	case ScalarStyleFolded:
		return "folded"
	}
	return "any"
}

// Quoted reports whether the style marks the scalar as explicitly
// non-plain, which pins its resolved type to !!str.
func (s ScalarStyle) Quoted() bool {
	return s != ScalarStyleAny && s != ScalarStylePlain
}

// Token is one lexical unit of the input stream. The scanner produces
// tokens lazily; the whole token sequence is never materialized.
type Token struct {
	Kind TokenKind

	Start, End Mark

	// Value holds the alias/anchor/scalar text, the tag handle, or
	// the tag directive handle, depending on Kind.
	Value []byte

	// Suffix holds the tag suffix (TokenTag) or the tag directive
	// prefix (TokenTagDirective).
	Suffix []byte

	// Style is set for TokenScalar.
	Style ScalarStyle

	// Major and Minor are set for TokenVersionDirective.
	Major, Minor int8
}
