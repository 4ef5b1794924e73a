// Copyright 2026 The yamlkit Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import "fmt"

// EventKind identifies the kind of a parser or serializer event.
type EventKind int8

const (
	// EventNone is the zero event kind.
	EventNone EventKind = iota

	EventStreamStart
	EventStreamEnd
	EventDocumentStart
	EventDocumentEnd
	EventAlias
	EventScalar
	EventSequenceStart
	EventSequenceEnd
	EventMappingStart
	EventMappingEnd
)

var eventKindNames = []string{
	EventNone:          "none",
	EventStreamStart:   "stream-start",
	EventStreamEnd:     "stream-end",
	EventDocumentStart: "document-start",
	EventDocumentEnd:   "document-end",
	EventAlias:         "alias",
	EventScalar:        "scalar",
	EventSequenceStart: "sequence-start",
	EventSequenceEnd:   "sequence-end",
	EventMappingStart:  "mapping-start",
	EventMappingEnd:    "mapping-end",
}

func (k EventKind) String() string {
	if k < 0 || int(k) >= len(eventKindNames) {
		return fmt.Sprintf("unknown event kind %d", int8(k))
	}
	return eventKindNames[k]
}

// VersionDirective is a %YAML directive.
type VersionDirective struct {
	Major, Minor int8
}

// TagDirective is a %TAG directive mapping a handle to a prefix.
type TagDirective struct {
	Handle string
	Prefix string
}

// The standard tag directives implicitly in force in every document.
var defaultTagDirectives = []TagDirective{
	{Handle: "!", Prefix: "!"},
	{Handle: "!!", Prefix: "tag:yaml.org,2002:"},
}

// Event is one structural unit of a document. Every *-start event has a
// matching *-end event; alias events carry no content of their own.
type Event struct {
	Kind EventKind

	Start, End Mark

	// Version and TagDirectives are set for EventDocumentStart.
	Version       *VersionDirective
	TagDirectives []TagDirective

	// Explicit is set for EventDocumentStart and EventDocumentEnd when
	// the corresponding marker ("---", "...") appeared in or must
	// appear in the text.
	Explicit bool

	// Anchor is set for EventAlias (the referenced name) and for
	// scalar and collection starts that define an anchor.
	Anchor string

	// Tag is set for EventScalar, EventSequenceStart and
	// EventMappingStart. Always in long form.
	Tag string

	// Value is set for EventScalar.
	Value string

	// Style is set for EventScalar.
	Style ScalarStyle

	// Flow is set for collection starts emitted from or destined for
	// flow style.
	Flow bool

	// Implicit reports that the tag may be omitted when the scalar is
	// written in plain style (load: no explicit tag was present and
	// the style was plain). QuotedImplicit is the same for any
	// non-plain style.
	Implicit       bool
	QuotedImplicit bool
}
