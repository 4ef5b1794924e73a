// Copyright 2006-2010 Kirill Simonov
// Copyright 2011-2019 Canonical Ltd
// Copyright 2026 The yamlkit Authors
// SPDX-License-Identifier: Apache-2.0 AND MIT

// Emitter stage: turns the event stream back into text. The state
// machine mirrors the parser's in reverse; scalar styles requested by
// events are downgraded when the value cannot be written in them
// (plain, then single-quoted, then double-quoted as the last resort).

package engine

import (
	"bytes"
	"fmt"
)

type emitterState int8

const (
	emitStreamStart emitterState = iota

	emitFirstDocumentStart
	emitDocumentStart
	emitDocumentContent
	emitDocumentEnd
	emitFlowSequenceFirstItem
	emitFlowSequenceItem
	emitFlowMappingFirstKey
	emitFlowMappingKey
	emitFlowMappingSimpleValue
	emitFlowMappingValue
	emitBlockSequenceFirstItem
	emitBlockSequenceItem
	emitBlockMappingFirstKey
	emitBlockMappingKey
	emitBlockMappingSimpleValue
	emitBlockMappingValue
	emitEnd
)

// Emitter writes events as YAML text.
type Emitter struct {
	w    *Writer
	opts DumpOptions

	state  emitterState
	states []emitterState

	// A few events are held back so collection starts can see whether
	// the collection is empty and keys can be sized.
	events     []Event
	eventsHead int

	indents   []int
	indent    int
	flowLevel int

	tagDirectives []TagDirective

	bestWidth int

	line   int
	column int

	whitespace bool
	indention  bool
	openEnded  bool

	rootContext      bool
	sequenceContext  bool
	mappingContext   bool
	simpleKeyContext bool

	anchorData struct {
		anchor []byte
		alias  bool
	}
	tagData struct {
		handle []byte
		suffix []byte
	}
	scalarData struct {
		value               []byte
		multiline           bool
		flowPlainAllowed    bool
		blockPlainAllowed   bool
		singleQuotedAllowed bool
		blockAllowed        bool
		style               ScalarStyle
	}
}

// NewEmitter returns an emitter writing to dst with the given options.
func NewEmitter(dst *Writer, opts DumpOptions) *Emitter {
	opts.normalize()
	width := opts.Width
	if width >= 0 && width <= opts.Indent*2 {
		width = 80
	}
	if width < 0 {
		width = 1<<31 - 1
	}
	return &Emitter{
		w:         dst,
		opts:      opts,
		bestWidth: width,
		indent:    -1,
	}
}

// Emit takes one event. Output may lag behind by a few events; it is
// complete once the stream-end event has been emitted.
func (e *Emitter) Emit(event *Event) error {
	e.events = append(e.events, *event)
	for !e.needMoreEvents() {
		ev := &e.events[e.eventsHead]
		if err := e.analyzeEvent(ev); err != nil {
			return err
		}
		if err := e.stateMachine(ev); err != nil {
			return err
		}
		e.eventsHead++
		if e.eventsHead == len(e.events) {
			e.events = e.events[:0]
			e.eventsHead = 0
		}
	}
	return e.w.err
}

// needMoreEvents reports whether emission must wait for lookahead:
// one extra event for DOCUMENT-START, two for SEQUENCE-START, and
// three for MAPPING-START.
func (e *Emitter) needMoreEvents() bool {
	if e.eventsHead == len(e.events) {
		return true
	}
	var accumulate int
	switch e.events[e.eventsHead].Kind {
	case EventDocumentStart:
		accumulate = 1
	case EventSequenceStart:
		accumulate = 2
	case EventMappingStart:
		accumulate = 3
	default:
		return false
	}
	if len(e.events)-e.eventsHead > accumulate {
		return false
	}
	var level int
	for i := e.eventsHead; i < len(e.events); i++ {
		switch e.events[i].Kind {
		case EventStreamStart, EventDocumentStart, EventSequenceStart, EventMappingStart:
			level++
		case EventStreamEnd, EventDocumentEnd, EventSequenceEnd, EventMappingEnd:
			level--
		}
		if level == 0 {
			return false
		}
	}
	return true
}

func (e *Emitter) appendTagDirective(value TagDirective, allowDuplicates bool) error {
	for _, d := range e.tagDirectives {
		if d.Handle == value.Handle {
			if allowDuplicates {
				return nil
			}
			return newEmitError("duplicate %TAG directive")
		}
	}
	e.tagDirectives = append(e.tagDirectives, value)
	return nil
}

// increaseIndent pushes a new indentation level. In compact sequence
// mode the "- " indicator counts as part of the indentation.
func (e *Emitter) increaseIndent(flow, indentless, compactSeq bool) {
	e.indents = append(e.indents, e.indent)
	if e.indent < 0 {
		if flow {
			e.indent = e.opts.Indent
		} else {
			e.indent = 0
		}
	} else if !indentless {
		if len(e.states) > 0 && e.states[len(e.states)-1] == emitBlockSequenceItem {
			// The first indent inside a sequence just skips the "- "
			// indicator.
			e.indent += 2
		} else {
			e.indent = e.opts.Indent * ((e.indent + e.opts.Indent) / e.opts.Indent)
			if compactSeq {
				e.indent -= 2
			}
		}
	}
}

func (e *Emitter) decreaseIndent() {
	e.indent = e.indents[len(e.indents)-1]
	e.indents = e.indents[:len(e.indents)-1]
}

func (e *Emitter) popState() {
	e.state = e.states[len(e.states)-1]
	e.states = e.states[:len(e.states)-1]
}

func (e *Emitter) stateMachine(event *Event) error {
	switch e.state {
	case emitStreamStart:
		return e.emitStreamStart(event)
	case emitFirstDocumentStart:
		return e.emitDocumentStart(event, true)
	case emitDocumentStart:
		return e.emitDocumentStart(event, false)
	case emitDocumentContent:
		return e.emitDocumentContent(event)
	case emitDocumentEnd:
		return e.emitDocumentEnd(event)
	case emitFlowSequenceFirstItem:
		return e.emitFlowSequenceItem(event, true)
	case emitFlowSequenceItem:
		return e.emitFlowSequenceItem(event, false)
	case emitFlowMappingFirstKey:
		return e.emitFlowMappingKey(event, true)
	case emitFlowMappingKey:
		return e.emitFlowMappingKey(event, false)
	case emitFlowMappingSimpleValue:
		return e.emitFlowMappingValue(event, true)
	case emitFlowMappingValue:
		return e.emitFlowMappingValue(event, false)
	case emitBlockSequenceFirstItem:
		return e.emitBlockSequenceItem(event, true)
	case emitBlockSequenceItem:
		return e.emitBlockSequenceItem(event, false)
	case emitBlockMappingFirstKey:
		return e.emitBlockMappingKey(event, true)
	case emitBlockMappingKey:
		return e.emitBlockMappingKey(event, false)
	case emitBlockMappingSimpleValue:
		return e.emitBlockMappingValue(event, true)
	case emitBlockMappingValue:
		return e.emitBlockMappingValue(event, false)
	case emitEnd:
		return newEmitError("expected nothing after STREAM-END")
	}
	panic("invalid emitter state")
}

func (e *Emitter) emitStreamStart(event *Event) error {
	if event.Kind != EventStreamStart {
		return newEmitError("expected STREAM-START")
	}
	e.indent = -1
	e.line = 0
	e.column = 0
	e.whitespace = true
	e.indention = true
	e.state = emitFirstDocumentStart
	return nil
}

func (e *Emitter) emitDocumentStart(event *Event, first bool) error {
	switch event.Kind {
	case EventDocumentStart:
		version := event.Version
		if version != nil && (version.Major != 1 || version.Minor != 1) {
			return newEmitError("incompatible %YAML directive")
		}

		directives := event.TagDirectives
		for _, d := range directives {
			if err := e.analyzeTagDirective(d); err != nil {
				return err
			}
			if err := e.appendTagDirective(d, false); err != nil {
				return err
			}
		}
		for _, d := range defaultTagDirectives {
			if err := e.appendTagDirective(d, true); err != nil {
				return err
			}
		}

		implicit := !event.Explicit
		if !first || e.opts.Canonical {
			implicit = false
		}

		if e.openEnded && (version != nil || len(directives) > 0) {
			e.writeIndicator("...", true, false, false)
			e.writeIndent()
		}

		if version != nil {
			implicit = false
			e.writeIndicator("%YAML", true, false, false)
			e.writeIndicator(fmt.Sprintf("%d.%d", version.Major, version.Minor), true, false, false)
			e.writeIndent()
		}

		if len(directives) > 0 {
			implicit = false
			for _, d := range directives {
				e.writeIndicator("%TAG", true, false, false)
				e.writeTagHandle([]byte(d.Handle))
				e.writeTagContent([]byte(d.Prefix), true)
				e.writeIndent()
			}
		}

		if !implicit {
			e.writeIndent()
			e.writeIndicator("---", true, false, false)
			e.writeIndent()
		}

		e.state = emitDocumentContent
		return nil

	case EventStreamEnd:
		if e.openEnded {
			e.writeIndicator("...", true, false, false)
			e.writeIndent()
			e.openEnded = false
		}
		e.state = emitEnd
		return e.w.Flush()
	}
	return newEmitError("expected DOCUMENT-START or STREAM-END")
}

func (e *Emitter) emitDocumentContent(event *Event) error {
	e.states = append(e.states, emitDocumentEnd)
	return e.emitNode(event, true, false, false, false)
}

func (e *Emitter) emitDocumentEnd(event *Event) error {
	if event.Kind != EventDocumentEnd {
		return newEmitError("expected DOCUMENT-END")
	}
	e.writeIndent()
	if event.Explicit {
		e.writeIndicator("...", true, false, false)
		e.writeIndent()
		e.openEnded = false
	}
	e.state = emitDocumentStart
	e.tagDirectives = e.tagDirectives[:0]
	return e.w.Flush()
}

func (e *Emitter) emitFlowSequenceItem(event *Event, first bool) error {
	if first {
		e.writeIndicator("[", true, true, false)
		e.increaseIndent(true, false, false)
		e.flowLevel++
	}

	if event.Kind == EventSequenceEnd {
		if e.opts.Canonical && !first {
			e.writeIndicator(",", false, false, false)
		}
		e.flowLevel--
		e.decreaseIndent()
		if e.column == 0 || e.opts.Canonical && !first {
			e.writeIndent()
		}
		e.writeIndicator("]", false, false, false)
		e.popState()
		return nil
	}

	if !first {
		e.writeIndicator(",", false, false, false)
	}
	if e.column == 0 {
		e.writeIndent()
	}
	if e.opts.Canonical || e.column > e.bestWidth {
		e.writeIndent()
	}
	e.states = append(e.states, emitFlowSequenceItem)
	return e.emitNode(event, false, true, false, false)
}

func (e *Emitter) emitFlowMappingKey(event *Event, first bool) error {
	if first {
		e.writeIndicator("{", true, true, false)
		e.increaseIndent(true, false, false)
		e.flowLevel++
	}

	if event.Kind == EventMappingEnd {
		if e.opts.Canonical && !first {
			e.writeIndicator(",", false, false, false)
		}
		e.flowLevel--
		e.decreaseIndent()
		if e.opts.Canonical && !first {
			e.writeIndent()
		}
		e.writeIndicator("}", false, false, false)
		e.popState()
		return nil
	}

	if !first {
		e.writeIndicator(",", false, false, false)
	}
	if e.column == 0 {
		e.writeIndent()
	}
	if e.opts.Canonical || e.column > e.bestWidth {
		e.writeIndent()
	}

	if !e.opts.Canonical && e.checkSimpleKey() {
		e.states = append(e.states, emitFlowMappingSimpleValue)
		return e.emitNode(event, false, false, true, true)
	}
	e.writeIndicator("?", true, false, false)
	e.states = append(e.states, emitFlowMappingValue)
	return e.emitNode(event, false, false, true, false)
}

func (e *Emitter) emitFlowMappingValue(event *Event, simple bool) error {
	if simple {
		e.writeIndicator(":", false, false, false)
	} else {
		if e.opts.Canonical || e.column > e.bestWidth {
			e.writeIndent()
		}
		e.writeIndicator(":", true, false, false)
	}
	e.states = append(e.states, emitFlowMappingKey)
	return e.emitNode(event, false, false, true, false)
}

func (e *Emitter) emitBlockSequenceItem(event *Event, first bool) error {
	if first {
		// In compact mode the "- " indicator of a sequence nested in a
		// mapping counts as indentation rather than adding a level.
		compact := e.mappingContext && (e.column == 0 || !e.indention) &&
			e.opts.CompactSequenceIndent
		e.increaseIndent(false, false, compact)
	}
	if event.Kind == EventSequenceEnd {
		e.decreaseIndent()
		e.popState()
		return nil
	}
	e.writeIndent()
	e.writeIndicator("-", true, false, true)
	e.states = append(e.states, emitBlockSequenceItem)
	return e.emitNode(event, false, true, false, false)
}

func (e *Emitter) emitBlockMappingKey(event *Event, first bool) error {
	if first {
		e.increaseIndent(false, false, false)
	}
	if event.Kind == EventMappingEnd {
		e.decreaseIndent()
		e.popState()
		return nil
	}
	e.writeIndent()
	if e.checkSimpleKey() {
		e.states = append(e.states, emitBlockMappingSimpleValue)
		if err := e.emitNode(event, false, false, true, true); err != nil {
			return err
		}
		if event.Kind == EventAlias {
			// Keep a space between the alias and the ':' indicator.
			e.put(' ')
		}
		return nil
	}
	e.writeIndicator("?", true, false, true)
	e.states = append(e.states, emitBlockMappingValue)
	return e.emitNode(event, false, false, true, false)
}

func (e *Emitter) emitBlockMappingValue(event *Event, simple bool) error {
	if simple {
		e.writeIndicator(":", false, false, false)
	} else {
		e.writeIndent()
		e.writeIndicator(":", true, false, true)
	}
	e.states = append(e.states, emitBlockMappingKey)
	return e.emitNode(event, false, false, true, false)
}

func (e *Emitter) emitNode(event *Event, root, sequence, mapping, simpleKey bool) error {
	e.rootContext = root
	e.sequenceContext = sequence
	e.mappingContext = mapping
	e.simpleKeyContext = simpleKey

	switch event.Kind {
	case EventAlias:
		return e.emitAlias(event)
	case EventScalar:
		return e.emitScalar(event)
	case EventSequenceStart:
		return e.emitSequenceStart(event)
	case EventMappingStart:
		return e.emitMappingStart(event)
	}
	return newEmitError(fmt.Sprintf(
		"expected SCALAR, SEQUENCE-START, MAPPING-START, or ALIAS, but got %v", event.Kind))
}

func (e *Emitter) emitAlias(event *Event) error {
	e.processAnchor()
	e.popState()
	return nil
}

func (e *Emitter) emitScalar(event *Event) error {
	if err := e.selectScalarStyle(event); err != nil {
		return err
	}
	e.processAnchor()
	e.processTag()
	e.increaseIndent(true, false, false)
	e.processScalar()
	e.decreaseIndent()
	e.popState()
	return nil
}

func (e *Emitter) emitSequenceStart(event *Event) error {
	e.processAnchor()
	e.processTag()
	if e.flowLevel > 0 || e.opts.Canonical || event.Flow || e.opts.FlowDefault ||
		e.checkEmptySequence() {
		e.state = emitFlowSequenceFirstItem
	} else {
		e.state = emitBlockSequenceFirstItem
	}
	return nil
}

func (e *Emitter) emitMappingStart(event *Event) error {
	e.processAnchor()
	e.processTag()
	if e.flowLevel > 0 || e.opts.Canonical || event.Flow || e.opts.FlowDefault ||
		e.checkEmptyMapping() {
		e.state = emitFlowMappingFirstKey
	} else {
		e.state = emitBlockMappingFirstKey
	}
	return nil
}

func (e *Emitter) checkEmptySequence() bool {
	if len(e.events)-e.eventsHead < 2 {
		return false
	}
	return e.events[e.eventsHead].Kind == EventSequenceStart &&
		e.events[e.eventsHead+1].Kind == EventSequenceEnd
}

func (e *Emitter) checkEmptyMapping() bool {
	if len(e.events)-e.eventsHead < 2 {
		return false
	}
	return e.events[e.eventsHead].Kind == EventMappingStart &&
		e.events[e.eventsHead+1].Kind == EventMappingEnd
}

// checkSimpleKey reports whether the next node fits on the key side of
// a ':' indicator: single line and at most 128 characters.
func (e *Emitter) checkSimpleKey() bool {
	length := 0
	switch e.events[e.eventsHead].Kind {
	case EventAlias:
		length += len(e.anchorData.anchor)
	case EventScalar:
		if e.scalarData.multiline {
			return false
		}
		length += len(e.anchorData.anchor) +
			len(e.tagData.handle) +
			len(e.tagData.suffix) +
			len(e.scalarData.value)
	case EventSequenceStart:
		if !e.checkEmptySequence() {
			return false
		}
		length += len(e.anchorData.anchor) + len(e.tagData.handle) + len(e.tagData.suffix)
	case EventMappingStart:
		if !e.checkEmptyMapping() {
			return false
		}
		length += len(e.anchorData.anchor) + len(e.tagData.handle) + len(e.tagData.suffix)
	default:
		return false
	}
	return length <= 128
}

// selectScalarStyle settles the style the scalar will actually be
// written in, downgrading the requested style when the value analysis
// forbids it.
func (e *Emitter) selectScalarStyle(event *Event) error {
	noTag := len(e.tagData.handle) == 0 && len(e.tagData.suffix) == 0
	if noTag && !event.Implicit && !event.QuotedImplicit {
		return newEmitError("neither tag nor implicit flags are specified")
	}

	style := event.Style
	if style == ScalarStyleAny {
		style = ScalarStylePlain
	}
	if e.opts.Canonical {
		style = ScalarStyleDoubleQuoted
	}
	if e.simpleKeyContext && e.scalarData.multiline {
		style = ScalarStyleDoubleQuoted
	}

	if style == ScalarStylePlain {
		if e.flowLevel > 0 && !e.scalarData.flowPlainAllowed ||
			e.flowLevel == 0 && !e.scalarData.blockPlainAllowed {
			style = ScalarStyleSingleQuoted
		}
		if len(e.scalarData.value) == 0 && (e.flowLevel > 0 || e.simpleKeyContext) {
			style = ScalarStyleSingleQuoted
		}
		if noTag && !event.Implicit {
			style = ScalarStyleSingleQuoted
		}
	}
	if style == ScalarStyleSingleQuoted {
		if !e.scalarData.singleQuotedAllowed {
			style = ScalarStyleDoubleQuoted
		}
	}
	if style == ScalarStyleLiteral || style == ScalarStyleFolded {
		if !e.scalarData.blockAllowed || e.flowLevel > 0 || e.simpleKeyContext {
			style = ScalarStyleDoubleQuoted
		}
	}

	if noTag && !event.QuotedImplicit && style != ScalarStylePlain {
		e.tagData.handle = []byte{'!'}
	}
	e.scalarData.style = style
	return nil
}

func (e *Emitter) processAnchor() {
	if e.anchorData.anchor == nil {
		return
	}
	indicator := "&"
	if e.anchorData.alias {
		indicator = "*"
	}
	e.writeIndicator(indicator, true, false, false)
	e.writeAll(e.anchorData.anchor)
	e.whitespace = false
	e.indention = false
}

func (e *Emitter) processTag() {
	if len(e.tagData.handle) == 0 && len(e.tagData.suffix) == 0 {
		return
	}
	if len(e.tagData.handle) > 0 {
		e.writeTagHandle(e.tagData.handle)
		if len(e.tagData.suffix) > 0 {
			e.writeTagContent(e.tagData.suffix, false)
		}
	} else {
		e.writeIndicator("!<", true, false, false)
		e.writeTagContent(e.tagData.suffix, false)
		e.writeIndicator(">", false, false, false)
	}
}

func (e *Emitter) processScalar() {
	switch e.scalarData.style {
	case ScalarStylePlain:
		e.writePlainScalar(e.scalarData.value, !e.simpleKeyContext)
	case ScalarStyleSingleQuoted:
		e.writeSingleQuotedScalar(e.scalarData.value, !e.simpleKeyContext)
	case ScalarStyleDoubleQuoted:
		e.writeDoubleQuotedScalar(e.scalarData.value, !e.simpleKeyContext)
	case ScalarStyleLiteral:
		e.writeLiteralScalar(e.scalarData.value)
	case ScalarStyleFolded:
		e.writeFoldedScalar(e.scalarData.value)
	default:
		panic("unknown scalar style")
	}
}

func (e *Emitter) analyzeTagDirective(d TagDirective) error {
	handle := []byte(d.Handle)
	if len(handle) == 0 {
		return newEmitError("tag handle must not be empty")
	}
	if handle[0] != '!' {
		return newEmitError("tag handle must start with '!'")
	}
	if handle[len(handle)-1] != '!' {
		return newEmitError("tag handle must end with '!'")
	}
	for i := 1; i < len(handle)-1; i += width(handle[i]) {
		if !isAlpha(handle, i) {
			return newEmitError("tag handle must contain alphanumerical characters only")
		}
	}
	if len(d.Prefix) == 0 {
		return newEmitError("tag prefix must not be empty")
	}
	return nil
}

func (e *Emitter) analyzeAnchor(anchor []byte, alias bool) error {
	if len(anchor) == 0 {
		if alias {
			return newEmitError("alias value must not be empty")
		}
		return newEmitError("anchor value must not be empty")
	}
	for i := 0; i < len(anchor); i += width(anchor[i]) {
		if !isAnchorChar(anchor, i) {
			if alias {
				return newEmitError("alias value must contain valid characters only")
			}
			return newEmitError("anchor value must contain valid characters only")
		}
	}
	e.anchorData.anchor = anchor
	e.anchorData.alias = alias
	return nil
}

// analyzeTag splits a tag into a registered handle plus suffix, falling
// back to a verbatim suffix when no directive prefix matches.
func (e *Emitter) analyzeTag(tag []byte) error {
	if len(tag) == 0 {
		return newEmitError("tag value must not be empty")
	}
	for _, d := range e.tagDirectives {
		if bytes.HasPrefix(tag, []byte(d.Prefix)) {
			e.tagData.handle = []byte(d.Handle)
			e.tagData.suffix = tag[len(d.Prefix):]
			return nil
		}
	}
	e.tagData.suffix = tag
	return nil
}

// analyzeScalar works out which styles can represent the value.
func (e *Emitter) analyzeScalar(value []byte) {
	var blockIndicators,
		flowIndicators,
		lineBreaks,
		specialCharacters,
		tabCharacters,

		leadingSpace,
		leadingBreak,
		trailingSpace,
		trailingBreak,
		breakSpace,
		spaceBreak,

		precededByWhitespace,
		followedByWhitespace,
		previousSpace,
		previousBreak bool

	e.scalarData.value = value

	if len(value) == 0 {
		e.scalarData.multiline = false
		e.scalarData.flowPlainAllowed = false
		e.scalarData.blockPlainAllowed = true
		e.scalarData.singleQuotedAllowed = true
		e.scalarData.blockAllowed = false
		return
	}

	if len(value) >= 3 && ((value[0] == '-' && value[1] == '-' && value[2] == '-') ||
		(value[0] == '.' && value[1] == '.' && value[2] == '.')) {
		blockIndicators = true
		flowIndicators = true
	}

	precededByWhitespace = true
	for i, w := 0, 0; i < len(value); i += w {
		w = width(value[i])
		followedByWhitespace = i+w >= len(value) || isBlank(value, i+w)

		if i == 0 {
			switch value[i] {
			case '#', ',', '[', ']', '{', '}', '&', '*', '!', '|', '>', '\'', '"', '%', '@', '`':
				flowIndicators = true
				blockIndicators = true
			case '?', ':':
				flowIndicators = true
				if followedByWhitespace {
					blockIndicators = true
				}
			case '-':
				if followedByWhitespace {
					flowIndicators = true
					blockIndicators = true
				}
			}
		} else {
			switch value[i] {
			case ',', '?', '[', ']', '{', '}':
				flowIndicators = true
			case ':':
				flowIndicators = true
				if followedByWhitespace {
					blockIndicators = true
				}
			case '#':
				if precededByWhitespace {
					flowIndicators = true
					blockIndicators = true
				}
			}
		}

		if value[i] == '\t' {
			tabCharacters = true
		} else if !isPrintable(value, i) || !isASCII(value, i) && !e.opts.Unicode {
			specialCharacters = true
		}
		if isSpace(value, i) {
			if i == 0 {
				leadingSpace = true
			}
			if i+width(value[i]) == len(value) {
				trailingSpace = true
			}
			if previousBreak {
				breakSpace = true
			}
			previousSpace = true
			previousBreak = false
		} else if isBreak(value, i) {
			lineBreaks = true
			if i == 0 {
				leadingBreak = true
			}
			if i+width(value[i]) == len(value) {
				trailingBreak = true
			}
			if previousSpace {
				spaceBreak = true
			}
			previousSpace = false
			previousBreak = true
		} else {
			previousSpace = false
			previousBreak = false
		}

		precededByWhitespace = isBlankOrZero(value, i)
	}

	e.scalarData.multiline = lineBreaks
	e.scalarData.flowPlainAllowed = true
	e.scalarData.blockPlainAllowed = true
	e.scalarData.singleQuotedAllowed = true
	e.scalarData.blockAllowed = true

	if leadingSpace || leadingBreak || trailingSpace || trailingBreak {
		e.scalarData.flowPlainAllowed = false
		e.scalarData.blockPlainAllowed = false
	}
	if trailingSpace {
		e.scalarData.blockAllowed = false
	}
	if breakSpace {
		e.scalarData.flowPlainAllowed = false
		e.scalarData.blockPlainAllowed = false
		e.scalarData.singleQuotedAllowed = false
	}
	if spaceBreak || tabCharacters || specialCharacters {
		e.scalarData.flowPlainAllowed = false
		e.scalarData.blockPlainAllowed = false
		e.scalarData.singleQuotedAllowed = false
	}
	if spaceBreak || specialCharacters {
		e.scalarData.blockAllowed = false
	}
	if lineBreaks {
		e.scalarData.flowPlainAllowed = false
		e.scalarData.blockPlainAllowed = false
	}
	if flowIndicators {
		e.scalarData.flowPlainAllowed = false
	}
	if blockIndicators {
		e.scalarData.blockPlainAllowed = false
	}
}

func (e *Emitter) analyzeEvent(event *Event) error {
	e.anchorData.anchor = nil
	e.tagData.handle = nil
	e.tagData.suffix = nil
	e.scalarData.value = nil

	switch event.Kind {
	case EventAlias:
		return e.analyzeAnchor([]byte(event.Anchor), true)

	case EventScalar:
		if event.Anchor != "" {
			if err := e.analyzeAnchor([]byte(event.Anchor), false); err != nil {
				return err
			}
		}
		if event.Tag != "" && (e.opts.Canonical || !event.Implicit && !event.QuotedImplicit) {
			if err := e.analyzeTag([]byte(event.Tag)); err != nil {
				return err
			}
		}
		e.analyzeScalar([]byte(event.Value))

	case EventSequenceStart, EventMappingStart:
		if event.Anchor != "" {
			if err := e.analyzeAnchor([]byte(event.Anchor), false); err != nil {
				return err
			}
		}
		if event.Tag != "" && (e.opts.Canonical || !event.Implicit) {
			if err := e.analyzeTag([]byte(event.Tag)); err != nil {
				return err
			}
		}
	}
	return nil
}

// Low-level output helpers. The sticky-error Writer lets these write
// unconditionally; errors surface on the next Flush.

func (e *Emitter) put(c byte) {
	e.w.writeByte(c)
	e.column++
}

func (e *Emitter) putBreak() {
	e.w.writeBreak()
	e.column = 0
	e.line++
	e.indention = true
}

// write copies one character from s at *i.
func (e *Emitter) write(s []byte, i *int) {
	w := width(s[*i])
	e.w.writeString(string(s[*i : *i+w]))
	e.column++
	*i += w
}

func (e *Emitter) writeAll(s []byte) {
	for i := 0; i < len(s); {
		e.write(s, &i)
	}
}

// writeBreakAt copies a line break character from s at *i. A '\n'
// becomes the configured terminator; other breaks are kept verbatim.
func (e *Emitter) writeBreakAt(s []byte, i *int) {
	if s[*i] == '\n' {
		e.putBreak()
		*i++
		return
	}
	e.write(s, i)
	e.column = 0
	e.line++
	e.indention = true
}

func (e *Emitter) writeIndent() {
	indent := e.indent
	if indent < 0 {
		indent = 0
	}
	if !e.indention || e.column > indent || (e.column == indent && !e.whitespace) {
		e.putBreak()
	}
	for e.column < indent {
		e.put(' ')
	}
	e.whitespace = true
}

func (e *Emitter) writeIndicator(indicator string, needWhitespace, isWhitespace, isIndention bool) {
	if needWhitespace && !e.whitespace {
		e.put(' ')
	}
	e.w.writeString(indicator)
	e.column += len(indicator)
	e.whitespace = isWhitespace
	e.indention = e.indention && isIndention
	e.openEnded = false
}

func (e *Emitter) writeTagHandle(value []byte) {
	if !e.whitespace {
		e.put(' ')
	}
	e.writeAll(value)
	e.whitespace = false
	e.indention = false
}

func (e *Emitter) writeTagContent(value []byte, needWhitespace bool) {
	if needWhitespace && !e.whitespace {
		e.put(' ')
	}
	for i := 0; i < len(value); {
		var mustWrite bool
		switch value[i] {
		case ';', '/', '?', ':', '@', '&', '=', '+', '$', ',', '_', '.', '~', '*', '\'', '(', ')', '[', ']':
			mustWrite = true
		default:
			mustWrite = isAlpha(value, i)
		}
		if mustWrite {
			e.write(value, &i)
			continue
		}
		w := width(value[i])
		for k := 0; k < w; k++ {
			octet := value[i]
			i++
			e.put('%')
			c := octet >> 4
			if c < 10 {
				c += '0'
			} else {
				c += 'A' - 10
			}
			e.put(c)
			c = octet & 0x0F
			if c < 10 {
				c += '0'
			} else {
				c += 'A' - 10
			}
			e.put(c)
		}
	}
	e.whitespace = false
	e.indention = false
}

func (e *Emitter) writePlainScalar(value []byte, allowBreaks bool) {
	if len(value) > 0 && !e.whitespace {
		e.put(' ')
	}

	spaces := false
	breaks := false
	for i := 0; i < len(value); {
		if isSpace(value, i) {
			if allowBreaks && !spaces && e.column > e.bestWidth && !isSpace(value, i+1) {
				e.writeIndent()
				i += width(value[i])
			} else {
				e.write(value, &i)
			}
			spaces = true
		} else if isBreak(value, i) {
			if !breaks && value[i] == '\n' {
				e.putBreak()
			}
			e.writeBreakAt(value, &i)
			breaks = true
		} else {
			if breaks {
				e.writeIndent()
			}
			e.write(value, &i)
			e.indention = false
			spaces = false
			breaks = false
		}
	}

	if len(value) > 0 {
		e.whitespace = false
	}
	e.indention = false
	if e.rootContext {
		e.openEnded = true
	}
}

func (e *Emitter) writeSingleQuotedScalar(value []byte, allowBreaks bool) {
	e.writeIndicator("'", true, false, false)

	spaces := false
	breaks := false
	for i := 0; i < len(value); {
		if isSpace(value, i) {
			if allowBreaks && !spaces && e.column > e.bestWidth &&
				i > 0 && i < len(value)-1 && !isSpace(value, i+1) {
				e.writeIndent()
				i += width(value[i])
			} else {
				e.write(value, &i)
			}
			spaces = true
		} else if isBreak(value, i) {
			if !breaks && value[i] == '\n' {
				e.putBreak()
			}
			e.writeBreakAt(value, &i)
			breaks = true
		} else {
			if breaks {
				e.writeIndent()
			}
			if value[i] == '\'' {
				e.put('\'')
			}
			e.write(value, &i)
			e.indention = false
			spaces = false
			breaks = false
		}
	}
	e.writeIndicator("'", false, false, false)
	e.whitespace = false
	e.indention = false
}

func (e *Emitter) writeDoubleQuotedScalar(value []byte, allowBreaks bool) {
	e.writeIndicator("\"", true, false, false)

	spaces := false
	for i := 0; i < len(value); {
		if !isPrintable(value, i) || !e.opts.Unicode && !isASCII(value, i) ||
			isBOM(value, i) || isBreak(value, i) ||
			value[i] == '"' || value[i] == '\\' {

			octet := value[i]

			var w int
			var v rune
			switch {
			case octet&0x80 == 0x00:
				w, v = 1, rune(octet&0x7F)
			case octet&0xE0 == 0xC0:
				w, v = 2, rune(octet&0x1F)
			case octet&0xF0 == 0xE0:
				w, v = 3, rune(octet&0x0F)
			case octet&0xF8 == 0xF0:
				w, v = 4, rune(octet&0x07)
			}
			for k := 1; k < w; k++ {
				octet = value[i+k]
				v = (v << 6) + (rune(octet) & 0x3F)
			}
			i += w

			e.put('\\')
			switch v {
			case 0x00:
				e.put('0')
			case 0x07:
				e.put('a')
			case 0x08:
				e.put('b')
			case 0x09:
				e.put('t')
			case 0x0A:
				e.put('n')
			case 0x0B:
				e.put('v')
			case 0x0C:
				e.put('f')
			case 0x0D:
				e.put('r')
			case 0x1B:
				e.put('e')
			case 0x22:
				e.put('"')
			case 0x5C:
				e.put('\\')
			case 0x85:
				e.put('N')
			case 0xA0:
				e.put('_')
			case 0x2028:
				e.put('L')
			case 0x2029:
				e.put('P')
			default:
				if v <= 0xFF {
					e.put('x')
					w = 2
				} else if v <= 0xFFFF {
					e.put('u')
					w = 4
				} else {
					e.put('U')
					w = 8
				}
				for k := (w - 1) * 4; k >= 0; k -= 4 {
					digit := byte((v >> uint(k)) & 0x0F)
					if digit < 10 {
						e.put(digit + '0')
					} else {
						e.put(digit + 'A' - 10)
					}
				}
			}
			spaces = false
		} else if isSpace(value, i) {
			if allowBreaks && !spaces && e.column > e.bestWidth && i > 0 && i < len(value)-1 {
				e.writeIndent()
				if isSpace(value, i+1) {
					e.put('\\')
				}
				i += width(value[i])
			} else {
				e.write(value, &i)
			}
			spaces = true
		} else {
			e.write(value, &i)
			spaces = false
		}
	}
	e.writeIndicator("\"", false, false, false)
	e.whitespace = false
	e.indention = false
}

// writeBlockScalarHints writes the explicit indentation indicator when
// the value starts with whitespace and the chomping indicator implied
// by its trailing breaks.
func (e *Emitter) writeBlockScalarHints(value []byte) {
	if len(value) > 0 && (isSpace(value, 0) || isBreak(value, 0)) {
		e.writeIndicator(string([]byte{'0' + byte(e.opts.Indent)}), false, false, false)
	}

	e.openEnded = false

	var chomp byte
	if len(value) == 0 {
		chomp = '-'
	} else {
		i := len(value) - 1
		for value[i]&0xC0 == 0x80 {
			i--
		}
		if !isBreak(value, i) {
			chomp = '-'
		} else if i == 0 {
			chomp = '+'
			e.openEnded = true
		} else {
			i--
			for value[i]&0xC0 == 0x80 {
				i--
			}
			if isBreak(value, i) {
				chomp = '+'
				e.openEnded = true
			}
		}
	}
	if chomp != 0 {
		e.writeIndicator(string([]byte{chomp}), false, false, false)
	}
}

func (e *Emitter) writeLiteralScalar(value []byte) {
	e.writeIndicator("|", true, false, false)
	e.writeBlockScalarHints(value)
	e.putBreak()
	e.whitespace = true

	breaks := true
	for i := 0; i < len(value); {
		if isBreak(value, i) {
			e.writeBreakAt(value, &i)
			breaks = true
		} else {
			if breaks {
				e.writeIndent()
			}
			e.write(value, &i)
			e.indention = false
			breaks = false
		}
	}
}

func (e *Emitter) writeFoldedScalar(value []byte) {
	e.writeIndicator(">", true, false, false)
	e.writeBlockScalarHints(value)
	e.putBreak()
	e.whitespace = true

	breaks := true
	leadingSpaces := true
	for i := 0; i < len(value); {
		if isBreak(value, i) {
			if !breaks && !leadingSpaces && value[i] == '\n' {
				k := 0
				for isBreak(value, k) {
					k += width(value[k])
				}
				if !isBlankOrZero(value, k) {
					e.putBreak()
				}
			}
			e.writeBreakAt(value, &i)
			breaks = true
		} else {
			if breaks {
				e.writeIndent()
				leadingSpaces = isBlank(value, i)
			}
			if !breaks && isSpace(value, i) && !isSpace(value, i+1) && e.column > e.bestWidth {
				e.writeIndent()
				i += width(value[i])
			} else {
				e.write(value, &i)
			}
			e.indention = false
			breaks = false
		}
	}
}
