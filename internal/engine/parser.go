// Copyright 2006-2010 Kirill Simonov
// Copyright 2011-2019 Canonical Ltd
// Copyright 2026 The yamlkit Authors
// SPDX-License-Identifier: Apache-2.0 AND MIT

// Parser stage: transforms the token stream into an event stream. A
// straightforward recursive-descent (LL(1)) parser over the grammar:
//
// stream               ::= STREAM-START implicit_document? explicit_document* STREAM-END
// implicit_document    ::= block_node DOCUMENT-END*
// explicit_document    ::= DIRECTIVE* DOCUMENT-START block_node? DOCUMENT-END*
// block_node           ::= ALIAS | properties block_content? | block_content
// flow_node            ::= ALIAS | properties flow_content? | flow_content
// properties           ::= TAG ANCHOR? | ANCHOR TAG?
// block_content        ::= block_collection | flow_collection | SCALAR
// flow_content         ::= flow_collection | SCALAR
// block_collection     ::= block_sequence | block_mapping
// flow_collection      ::= flow_sequence | flow_mapping
// block_sequence       ::= BLOCK-SEQUENCE-START (BLOCK-ENTRY block_node?)* BLOCK-END
// indentless_sequence  ::= (BLOCK-ENTRY block_node?)+
// block_mapping        ::= BLOCK-MAPPING-START
//                          ((KEY block_node_or_indentless_sequence?)?
//                          (VALUE block_node_or_indentless_sequence?)?)*
//                          BLOCK-END
// flow_sequence        ::= FLOW-SEQUENCE-START
//                          (flow_sequence_entry FLOW-ENTRY)*
//                          flow_sequence_entry?
//                          FLOW-SEQUENCE-END
// flow_sequence_entry  ::= flow_node | KEY flow_node? (VALUE flow_node?)?
// flow_mapping         ::= FLOW-MAPPING-START
//                          (flow_mapping_entry FLOW-ENTRY)*
//                          flow_mapping_entry?
//                          FLOW-MAPPING-END
// flow_mapping_entry   ::= flow_node | KEY flow_node? (VALUE flow_node?)?

package engine

import "io"

type parserState int8

const (
	parseStreamStart parserState = iota

	parseImplicitDocumentStart
	parseDocumentStart
	parseDocumentContent
	parseDocumentEnd
	parseBlockNode
	parseBlockSequenceFirstEntry
	parseBlockSequenceEntry
	parseIndentlessSequenceEntry
	parseBlockMappingFirstKey
	parseBlockMappingKey
	parseBlockMappingValue
	parseFlowSequenceFirstEntry
	parseFlowSequenceEntry
	parseFlowSequenceEntryMappingKey
	parseFlowSequenceEntryMappingValue
	parseFlowSequenceEntryMappingEnd
	parseFlowMappingFirstKey
	parseFlowMappingKey
	parseFlowMappingValue
	parseFlowMappingEmptyValue
	parseEnd
)

// Parser turns tokens into events.
type Parser struct {
	scanner *Scanner

	state  parserState
	states []parserState
	marks  []Mark

	tagDirectives []TagDirective

	done bool
	err  error
}

// NewParser returns a parser consuming tokens from scanner.
func NewParser(scanner *Scanner) *Parser {
	return &Parser{scanner: scanner}
}

func (p *Parser) parseError(problem string, mark Mark) error {
	return &ParseError{posError{Problem: problem, Mark: mark, Snippet: p.scanner.snippet(mark)}}
}

func (p *Parser) parseErrorContext(context string, contextMark Mark, problem string, mark Mark) error {
	return &ParseError{posError{
		Problem: problem, Mark: mark,
		Context: context, ContextMark: contextMark,
		Snippet: p.scanner.snippet(mark),
	}}
}

// Parse produces the next event. After the stream-end event has been
// delivered it returns io.EOF.
func (p *Parser) Parse(event *Event) error {
	*event = Event{}

	if p.err != nil {
		return p.err
	}
	if p.done || p.state == parseEnd {
		return io.EOF
	}
	if err := p.stateMachine(event); err != nil {
		p.err = err
		return err
	}
	if event.Kind == EventStreamEnd {
		p.done = true
	}
	return nil
}

func (p *Parser) stateMachine(event *Event) error {
	switch p.state {
	case parseStreamStart:
		return p.parseStreamStart(event)
	case parseImplicitDocumentStart:
		return p.parseDocumentStart(event, true)
	case parseDocumentStart:
		return p.parseDocumentStart(event, false)
	case parseDocumentContent:
		return p.parseDocumentContent(event)
	case parseDocumentEnd:
		return p.parseDocumentEnd(event)
	case parseBlockNode:
		return p.parseNode(event, true, false)
	case parseBlockSequenceFirstEntry:
		return p.parseBlockSequenceEntry(event, true)
	case parseBlockSequenceEntry:
		return p.parseBlockSequenceEntry(event, false)
	case parseIndentlessSequenceEntry:
		return p.parseIndentlessSequenceEntry(event)
	case parseBlockMappingFirstKey:
		return p.parseBlockMappingKey(event, true)
	case parseBlockMappingKey:
		return p.parseBlockMappingKey(event, false)
	case parseBlockMappingValue:
		return p.parseBlockMappingValue(event)
	case parseFlowSequenceFirstEntry:
		return p.parseFlowSequenceEntry(event, true)
	case parseFlowSequenceEntry:
		return p.parseFlowSequenceEntry(event, false)
	case parseFlowSequenceEntryMappingKey:
		return p.parseFlowSequenceEntryMappingKey(event)
	case parseFlowSequenceEntryMappingValue:
		return p.parseFlowSequenceEntryMappingValue(event)
	case parseFlowSequenceEntryMappingEnd:
		return p.parseFlowSequenceEntryMappingEnd(event)
	case parseFlowMappingFirstKey:
		return p.parseFlowMappingKey(event, true)
	case parseFlowMappingKey:
		return p.parseFlowMappingKey(event, false)
	case parseFlowMappingValue:
		return p.parseFlowMappingValue(event, false)
	case parseFlowMappingEmptyValue:
		return p.parseFlowMappingValue(event, true)
	}
	panic("invalid parser state")
}

// peekToken returns the next significant token, skipping comments.
func (p *Parser) peekToken() (*Token, error) {
	for {
		tok, err := p.scanner.Peek()
		if err != nil {
			return nil, err
		}
		if tok.Kind != TokenComment {
			return tok, nil
		}
		p.scanner.Skip()
	}
}

func (p *Parser) skipToken() {
	p.scanner.Skip()
}

func (p *Parser) popState() {
	p.state = p.states[len(p.states)-1]
	p.states = p.states[:len(p.states)-1]
}

// stream ::= STREAM-START implicit_document? explicit_document* STREAM-END
func (p *Parser) parseStreamStart(event *Event) error {
	token, err := p.peekToken()
	if err != nil {
		return err
	}
	if token.Kind != TokenStreamStart {
		return p.parseError("did not find expected <stream-start>", token.Start)
	}
	p.state = parseImplicitDocumentStart
	*event = Event{Kind: EventStreamStart, Start: token.Start, End: token.End}
	p.skipToken()
	return nil
}

// implicit_document ::= block_node DOCUMENT-END*
// explicit_document ::= DIRECTIVE* DOCUMENT-START block_node? DOCUMENT-END*
func (p *Parser) parseDocumentStart(event *Event, implicit bool) error {
	token, err := p.peekToken()
	if err != nil {
		return err
	}

	// Extra document end indicators.
	for token.Kind == TokenDocumentEnd {
		p.skipToken()
		if token, err = p.peekToken(); err != nil {
			return err
		}
	}

	switch {
	case implicit && token.Kind != TokenVersionDirective &&
		token.Kind != TokenTagDirective &&
		token.Kind != TokenDocumentStart &&
		token.Kind != TokenStreamEnd:
		// An implicit document.
		if _, _, err := p.processDirectives(); err != nil {
			return err
		}
		p.states = append(p.states, parseDocumentEnd)
		p.state = parseBlockNode

		*event = Event{
			Kind:  EventDocumentStart,
			Start: token.Start, End: token.End,
		}

	case token.Kind != TokenStreamEnd:
		// An explicit document.
		start := token.Start
		version, directives, err := p.processDirectives()
		if err != nil {
			return err
		}
		if token, err = p.peekToken(); err != nil {
			return err
		}
		if token.Kind != TokenDocumentStart {
			return p.parseError("did not find expected <document start>", token.Start)
		}
		p.states = append(p.states, parseDocumentEnd)
		p.state = parseDocumentContent

		*event = Event{
			Kind:  EventDocumentStart,
			Start: start, End: token.End,
			Version:       version,
			TagDirectives: directives,
			Explicit:      true,
		}
		p.skipToken()

	default:
		// The stream end.
		p.state = parseEnd
		*event = Event{Kind: EventStreamEnd, Start: token.Start, End: token.End}
		p.skipToken()
	}
	return nil
}

// explicit_document ::= DIRECTIVE* DOCUMENT-START block_node? DOCUMENT-END*
func (p *Parser) parseDocumentContent(event *Event) error {
	token, err := p.peekToken()
	if err != nil {
		return err
	}
	switch token.Kind {
	case TokenVersionDirective, TokenTagDirective,
		TokenDocumentStart, TokenDocumentEnd, TokenStreamEnd:
		p.popState()
		return p.processEmptyScalar(event, token.Start)
	}
	return p.parseNode(event, true, false)
}

func (p *Parser) parseDocumentEnd(event *Event) error {
	token, err := p.peekToken()
	if err != nil {
		return err
	}

	start := token.Start
	end := token.Start
	explicit := false
	if token.Kind == TokenDocumentEnd {
		end = token.End
		p.skipToken()
		explicit = true
	}

	// Tag directives do not survive across documents.
	p.tagDirectives = p.tagDirectives[:0]

	p.state = parseDocumentStart
	*event = Event{Kind: EventDocumentEnd, Start: start, End: end, Explicit: explicit}
	return nil
}

// processDirectives consumes the directive tokens preceding a document
// and installs the default tag handles.
func (p *Parser) processDirectives() (*VersionDirective, []TagDirective, error) {
	var version *VersionDirective
	var directives []TagDirective

	token, err := p.peekToken()
	if err != nil {
		return nil, nil, err
	}

	for token.Kind == TokenVersionDirective || token.Kind == TokenTagDirective {
		switch token.Kind {
		case TokenVersionDirective:
			if version != nil {
				return nil, nil, p.parseError("found duplicate %YAML directive", token.Start)
			}
			if token.Major != 1 || token.Minor != 1 {
				return nil, nil, p.parseError("found incompatible YAML document", token.Start)
			}
			version = &VersionDirective{Major: token.Major, Minor: token.Minor}
		case TokenTagDirective:
			value := TagDirective{Handle: string(token.Value), Prefix: string(token.Suffix)}
			if err := p.appendTagDirective(value, false, token.Start); err != nil {
				return nil, nil, err
			}
			directives = append(directives, value)
		}

		p.skipToken()
		if token, err = p.peekToken(); err != nil {
			return nil, nil, err
		}
	}

	for _, d := range defaultTagDirectives {
		if err := p.appendTagDirective(d, true, token.Start); err != nil {
			return nil, nil, err
		}
	}
	return version, directives, nil
}

func (p *Parser) appendTagDirective(value TagDirective, allowDuplicates bool, mark Mark) error {
	for _, d := range p.tagDirectives {
		if d.Handle == value.Handle {
			if allowDuplicates {
				return nil
			}
			return p.parseError("found duplicate %TAG directive", mark)
		}
	}
	p.tagDirectives = append(p.tagDirectives, value)
	return nil
}

// parseNode parses an alias, a scalar, or the start of a collection,
// together with its optional anchor and tag properties.
func (p *Parser) parseNode(event *Event, block, indentlessSequence bool) error {
	token, err := p.peekToken()
	if err != nil {
		return err
	}

	if token.Kind == TokenAlias {
		p.popState()
		*event = Event{
			Kind:   EventAlias,
			Start:  token.Start,
			End:    token.End,
			Anchor: string(token.Value),
		}
		p.skipToken()
		return nil
	}

	start := token.Start
	end := token.Start

	var tagToken bool
	var tagHandle, tagSuffix, anchor string
	var tagMark Mark
	switch token.Kind {
	case TokenAnchor:
		anchor = string(token.Value)
		start = token.Start
		end = token.End
		p.skipToken()
		if token, err = p.peekToken(); err != nil {
			return err
		}
		if token.Kind == TokenTag {
			tagToken = true
			tagHandle = string(token.Value)
			tagSuffix = string(token.Suffix)
			tagMark = token.Start
			end = token.End
			p.skipToken()
			if token, err = p.peekToken(); err != nil {
				return err
			}
		}
	case TokenTag:
		tagToken = true
		tagHandle = string(token.Value)
		tagSuffix = string(token.Suffix)
		start = token.Start
		tagMark = token.Start
		end = token.End
		p.skipToken()
		if token, err = p.peekToken(); err != nil {
			return err
		}
		if token.Kind == TokenAnchor {
			anchor = string(token.Value)
			end = token.End
			p.skipToken()
			if token, err = p.peekToken(); err != nil {
				return err
			}
		}
	}

	var tag string
	if tagToken {
		if tagHandle == "" {
			// A verbatim tag.
			tag = tagSuffix
		} else {
			for _, d := range p.tagDirectives {
				if d.Handle == tagHandle {
					tag = d.Prefix + tagSuffix
					break
				}
			}
			if tag == "" {
				return p.parseErrorContext("while parsing a node", start,
					"found undefined tag handle", tagMark)
			}
		}
	}

	implicit := tag == ""
	if indentlessSequence && token.Kind == TokenBlockEntry {
		p.state = parseIndentlessSequenceEntry
		*event = Event{
			Kind:  EventSequenceStart,
			Start: start, End: token.End,
			Anchor: anchor, Tag: tag, Implicit: implicit,
		}
		return nil
	}

	switch {
	case token.Kind == TokenScalar:
		var plainImplicit, quotedImplicit bool
		switch {
		case tag == "" && token.Style == ScalarStylePlain, tag == "!":
			plainImplicit = true
		case tag == "":
			quotedImplicit = true
		}
		p.popState()
		*event = Event{
			Kind:  EventScalar,
			Start: start, End: token.End,
			Anchor: anchor, Tag: tag,
			Value:          string(token.Value),
			Implicit:       plainImplicit,
			QuotedImplicit: quotedImplicit,
			Style:          token.Style,
		}
		p.skipToken()
		return nil

	case token.Kind == TokenFlowSequenceStart:
		p.state = parseFlowSequenceFirstEntry
		*event = Event{
			Kind:  EventSequenceStart,
			Start: start, End: token.End,
			Anchor: anchor, Tag: tag, Implicit: implicit,
			Flow: true,
		}
		return nil

	case token.Kind == TokenFlowMappingStart:
		p.state = parseFlowMappingFirstKey
		*event = Event{
			Kind:  EventMappingStart,
			Start: start, End: token.End,
			Anchor: anchor, Tag: tag, Implicit: implicit,
			Flow: true,
		}
		return nil

	case block && token.Kind == TokenBlockSequenceStart:
		p.state = parseBlockSequenceFirstEntry
		*event = Event{
			Kind:  EventSequenceStart,
			Start: start, End: token.End,
			Anchor: anchor, Tag: tag, Implicit: implicit,
		}
		return nil

	case block && token.Kind == TokenBlockMappingStart:
		p.state = parseBlockMappingFirstKey
		*event = Event{
			Kind:  EventMappingStart,
			Start: start, End: token.End,
			Anchor: anchor, Tag: tag, Implicit: implicit,
		}
		return nil

	case anchor != "" || tag != "":
		// Properties with no content stand for an empty scalar.
		p.popState()
		*event = Event{
			Kind:  EventScalar,
			Start: start, End: end,
			Anchor: anchor, Tag: tag,
			Implicit: implicit,
			Style:    ScalarStylePlain,
		}
		return nil
	}

	context := "while parsing a flow node"
	if block {
		context = "while parsing a block node"
	}
	return p.parseErrorContext(context, start,
		"did not find expected node content", token.Start)
}

// block_sequence ::= BLOCK-SEQUENCE-START (BLOCK-ENTRY block_node?)* BLOCK-END
func (p *Parser) parseBlockSequenceEntry(event *Event, first bool) error {
	if first {
		token, err := p.peekToken()
		if err != nil {
			return err
		}
		p.marks = append(p.marks, token.Start)
		p.skipToken()
	}

	token, err := p.peekToken()
	if err != nil {
		return err
	}

	switch token.Kind {
	case TokenBlockEntry:
		mark := token.End
		p.skipToken()
		if token, err = p.peekToken(); err != nil {
			return err
		}
		if token.Kind != TokenBlockEntry && token.Kind != TokenBlockEnd {
			p.states = append(p.states, parseBlockSequenceEntry)
			return p.parseNode(event, true, false)
		}
		p.state = parseBlockSequenceEntry
		return p.processEmptyScalar(event, mark)

	case TokenBlockEnd:
		p.popState()
		p.marks = p.marks[:len(p.marks)-1]
		*event = Event{Kind: EventSequenceEnd, Start: token.Start, End: token.End}
		p.skipToken()
		return nil
	}

	contextMark := p.marks[len(p.marks)-1]
	p.marks = p.marks[:len(p.marks)-1]
	return p.parseErrorContext("while parsing a block collection", contextMark,
		"did not find expected '-' indicator", token.Start)
}

// indentless_sequence ::= (BLOCK-ENTRY block_node?)+
func (p *Parser) parseIndentlessSequenceEntry(event *Event) error {
	token, err := p.peekToken()
	if err != nil {
		return err
	}

	if token.Kind == TokenBlockEntry {
		mark := token.End
		p.skipToken()
		if token, err = p.peekToken(); err != nil {
			return err
		}
		if token.Kind != TokenBlockEntry &&
			token.Kind != TokenKey &&
			token.Kind != TokenValue &&
			token.Kind != TokenBlockEnd {
			p.states = append(p.states, parseIndentlessSequenceEntry)
			return p.parseNode(event, true, false)
		}
		p.state = parseIndentlessSequenceEntry
		return p.processEmptyScalar(event, mark)
	}

	p.popState()
	*event = Event{Kind: EventSequenceEnd, Start: token.Start, End: token.Start}
	return nil
}

// block_mapping ::= BLOCK-MAPPING-START
//                   ((KEY block_node_or_indentless_sequence?)?
//                   (VALUE block_node_or_indentless_sequence?)?)*
//                   BLOCK-END
func (p *Parser) parseBlockMappingKey(event *Event, first bool) error {
	if first {
		token, err := p.peekToken()
		if err != nil {
			return err
		}
		p.marks = append(p.marks, token.Start)
		p.skipToken()
	}

	token, err := p.peekToken()
	if err != nil {
		return err
	}

	switch token.Kind {
	case TokenKey:
		mark := token.End
		p.skipToken()
		if token, err = p.peekToken(); err != nil {
			return err
		}
		if token.Kind != TokenKey &&
			token.Kind != TokenValue &&
			token.Kind != TokenBlockEnd {
			p.states = append(p.states, parseBlockMappingValue)
			return p.parseNode(event, true, true)
		}
		p.state = parseBlockMappingValue
		return p.processEmptyScalar(event, mark)

	case TokenBlockEnd:
		p.popState()
		p.marks = p.marks[:len(p.marks)-1]
		*event = Event{Kind: EventMappingEnd, Start: token.Start, End: token.End}
		p.skipToken()
		return nil
	}

	contextMark := p.marks[len(p.marks)-1]
	p.marks = p.marks[:len(p.marks)-1]
	return p.parseErrorContext("while parsing a block mapping", contextMark,
		"did not find expected key", token.Start)
}

func (p *Parser) parseBlockMappingValue(event *Event) error {
	token, err := p.peekToken()
	if err != nil {
		return err
	}
	if token.Kind == TokenValue {
		mark := token.End
		p.skipToken()
		if token, err = p.peekToken(); err != nil {
			return err
		}
		if token.Kind != TokenKey &&
			token.Kind != TokenValue &&
			token.Kind != TokenBlockEnd {
			p.states = append(p.states, parseBlockMappingKey)
			return p.parseNode(event, true, true)
		}
		p.state = parseBlockMappingKey
		return p.processEmptyScalar(event, mark)
	}
	p.state = parseBlockMappingKey
	return p.processEmptyScalar(event, token.Start)
}

// flow_sequence ::= FLOW-SEQUENCE-START
//                   (flow_sequence_entry FLOW-ENTRY)*
//                   flow_sequence_entry?
//                   FLOW-SEQUENCE-END
func (p *Parser) parseFlowSequenceEntry(event *Event, first bool) error {
	if first {
		token, err := p.peekToken()
		if err != nil {
			return err
		}
		p.marks = append(p.marks, token.Start)
		p.skipToken()
	}

	token, err := p.peekToken()
	if err != nil {
		return err
	}
	if token.Kind != TokenFlowSequenceEnd {
		if !first {
			if token.Kind != TokenFlowEntry {
				contextMark := p.marks[len(p.marks)-1]
				p.marks = p.marks[:len(p.marks)-1]
				return p.parseErrorContext("while parsing a flow sequence", contextMark,
					"did not find expected ',' or ']'", token.Start)
			}
			p.skipToken()
			if token, err = p.peekToken(); err != nil {
				return err
			}
		}

		if token.Kind == TokenKey {
			// A single-pair mapping in a sequence entry.
			p.state = parseFlowSequenceEntryMappingKey
			*event = Event{
				Kind:  EventMappingStart,
				Start: token.Start, End: token.End,
				Implicit: true, Flow: true,
			}
			p.skipToken()
			return nil
		}
		if token.Kind != TokenFlowSequenceEnd {
			p.states = append(p.states, parseFlowSequenceEntry)
			return p.parseNode(event, false, false)
		}
	}

	p.popState()
	p.marks = p.marks[:len(p.marks)-1]
	*event = Event{Kind: EventSequenceEnd, Start: token.Start, End: token.End}
	p.skipToken()
	return nil
}

func (p *Parser) parseFlowSequenceEntryMappingKey(event *Event) error {
	token, err := p.peekToken()
	if err != nil {
		return err
	}
	if token.Kind != TokenValue &&
		token.Kind != TokenFlowEntry &&
		token.Kind != TokenFlowSequenceEnd {
		p.states = append(p.states, parseFlowSequenceEntryMappingValue)
		return p.parseNode(event, false, false)
	}
	mark := token.End
	p.skipToken()
	p.state = parseFlowSequenceEntryMappingValue
	return p.processEmptyScalar(event, mark)
}

func (p *Parser) parseFlowSequenceEntryMappingValue(event *Event) error {
	token, err := p.peekToken()
	if err != nil {
		return err
	}
	if token.Kind == TokenValue {
		p.skipToken()
		if token, err = p.peekToken(); err != nil {
			return err
		}
		if token.Kind != TokenFlowEntry && token.Kind != TokenFlowSequenceEnd {
			p.states = append(p.states, parseFlowSequenceEntryMappingEnd)
			return p.parseNode(event, false, false)
		}
	}
	p.state = parseFlowSequenceEntryMappingEnd
	return p.processEmptyScalar(event, token.Start)
}

func (p *Parser) parseFlowSequenceEntryMappingEnd(event *Event) error {
	token, err := p.peekToken()
	if err != nil {
		return err
	}
	p.state = parseFlowSequenceEntry
	*event = Event{Kind: EventMappingEnd, Start: token.Start, End: token.Start}
	return nil
}

// flow_mapping ::= FLOW-MAPPING-START
//                  (flow_mapping_entry FLOW-ENTRY)*
//                  flow_mapping_entry?
//                  FLOW-MAPPING-END
func (p *Parser) parseFlowMappingKey(event *Event, first bool) error {
	if first {
		token, err := p.peekToken()
		if err != nil {
			return err
		}
		p.marks = append(p.marks, token.Start)
		p.skipToken()
	}

	token, err := p.peekToken()
	if err != nil {
		return err
	}

	if token.Kind != TokenFlowMappingEnd {
		if !first {
			if token.Kind != TokenFlowEntry {
				contextMark := p.marks[len(p.marks)-1]
				p.marks = p.marks[:len(p.marks)-1]
				return p.parseErrorContext("while parsing a flow mapping", contextMark,
					"did not find expected ',' or '}'", token.Start)
			}
			p.skipToken()
			if token, err = p.peekToken(); err != nil {
				return err
			}
		}

		if token.Kind == TokenKey {
			p.skipToken()
			if token, err = p.peekToken(); err != nil {
				return err
			}
			if token.Kind != TokenValue &&
				token.Kind != TokenFlowEntry &&
				token.Kind != TokenFlowMappingEnd {
				p.states = append(p.states, parseFlowMappingValue)
				return p.parseNode(event, false, false)
			}
			p.state = parseFlowMappingValue
			return p.processEmptyScalar(event, token.Start)
		}
		if token.Kind != TokenFlowMappingEnd {
			p.states = append(p.states, parseFlowMappingEmptyValue)
			return p.parseNode(event, false, false)
		}
	}

	p.popState()
	p.marks = p.marks[:len(p.marks)-1]
	*event = Event{Kind: EventMappingEnd, Start: token.Start, End: token.End}
	p.skipToken()
	return nil
}

func (p *Parser) parseFlowMappingValue(event *Event, empty bool) error {
	token, err := p.peekToken()
	if err != nil {
		return err
	}
	if empty {
		p.state = parseFlowMappingKey
		return p.processEmptyScalar(event, token.Start)
	}
	if token.Kind == TokenValue {
		p.skipToken()
		if token, err = p.peekToken(); err != nil {
			return err
		}
		if token.Kind != TokenFlowEntry && token.Kind != TokenFlowMappingEnd {
			p.states = append(p.states, parseFlowMappingKey)
			return p.parseNode(event, false, false)
		}
	}
	p.state = parseFlowMappingKey
	return p.processEmptyScalar(event, token.Start)
}

// processEmptyScalar produces the event for an omitted node.
func (p *Parser) processEmptyScalar(event *Event, mark Mark) error {
	*event = Event{
		Kind:  EventScalar,
		Start: mark, End: mark,
		Implicit: true,
		Style:    ScalarStylePlain,
	}
	return nil
}
