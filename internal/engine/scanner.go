// Copyright 2006-2010 Kirill Simonov
// Copyright 2011-2019 Canonical Ltd
// Copyright 2026 The yamlkit Authors
// SPDX-License-Identifier: Apache-2.0 AND MIT

package engine

import "bytes"

// Scanner turns the character stream into a token stream. Two parts of
// the job are genuinely tricky and drive most of the state below:
//
// Block collection starts have no explicit indicator. The scanner
// keeps a stack of indentation levels; when a '-', '?', or ':' opens a
// deeper level it inserts BLOCK-SEQUENCE-START or BLOCK-MAPPING-START,
// and when the column drops back it drains BLOCK-END tokens.
//
// Simple keys (keys without a leading '?') are only recognized when
// the following ':' is found, so every position that may start one is
// remembered and the KEY token is inserted retroactively into the
// token queue. A simple key must fit on one line and within 1024
// characters; candidates that outlive either bound go stale.
//
// Tokens are produced lazily: the queue holds only what the parser has
// not consumed plus whatever had to be scanned ahead to settle a
// pending simple key.
type Scanner struct {
	r *Reader

	tokens       []Token
	tokensHead   int
	tokensParsed int
	tail         Token

	started bool
	done    bool
	err     error

	indent  int
	indents []int

	simpleKeys       []simpleKey
	flowLevel        int
	simpleKeyAllowed bool

	captureComments bool
}

// simpleKey is a position that may retroactively become a mapping key.
type simpleKey struct {
	possible    bool
	required    bool
	tokenNumber int
	mark        Mark
}

// NewScanner returns a scanner reading tokens from src.
func NewScanner(r *Reader) *Scanner { return &Scanner{r: r} }

// CaptureComments makes the scanner emit TokenComment tokens instead
// of discarding comment text.
func (s *Scanner) CaptureComments(on bool) { s.captureComments = on }

// snippet renders the source line holding m, when still buffered.
func (s *Scanner) snippet(m Mark) string { return s.r.snippet(m) }

func (s *Scanner) scanError(problem string, mark Mark) error {
	return &ScanError{posError{Problem: problem, Mark: mark, Snippet: s.snippet(mark)}}
}

func (s *Scanner) scanErrorContext(context string, contextMark Mark, problem string, mark Mark) error {
	return &ScanError{posError{
		Problem: problem, Mark: mark,
		Context: context, ContextMark: contextMark,
		Snippet: s.snippet(mark),
	}}
}

// Peek returns the next token without consuming it. The token is valid
// until the next call into the scanner. After the stream end it keeps
// returning the stream-end token.
func (s *Scanner) Peek() (*Token, error) {
	if s.err != nil {
		return nil, s.err
	}
	if err := s.fetchMoreTokens(); err != nil {
		s.err = err
		return nil, err
	}
	if s.tokensHead == len(s.tokens) {
		return &s.tail, nil
	}
	return &s.tokens[s.tokensHead], nil
}

// Skip consumes the token last returned by Peek.
func (s *Scanner) Skip() {
	if s.tokensHead < len(s.tokens) {
		t := s.tokens[s.tokensHead]
		s.tokensHead++
		s.tokensParsed++
		if t.Kind == TokenStreamEnd {
			s.tail = t
		}
	}
}

// Scan copies the next token into tok and consumes it.
func (s *Scanner) Scan(tok *Token) error {
	t, err := s.Peek()
	if err != nil {
		return err
	}
	*tok = *t
	s.Skip()
	return nil
}

// fetchMoreTokens scans until the head of the queue can no longer be
// displaced by a retroactive KEY insertion.
func (s *Scanner) fetchMoreTokens() error {
	for {
		needMore := false
		if s.tokensHead == len(s.tokens) {
			needMore = true
		} else {
			if err := s.staleSimpleKeys(); err != nil {
				return err
			}
			for i := range s.simpleKeys {
				sk := &s.simpleKeys[i]
				if sk.possible && sk.tokenNumber == s.tokensParsed {
					needMore = true
					break
				}
			}
		}
		if !needMore || s.done {
			return nil
		}
		if err := s.fetchNextToken(); err != nil {
			return err
		}
	}
}

// fetchNextToken dispatches on the first character of the next token.
func (s *Scanner) fetchNextToken() error {
	if err := s.r.cache(1); err != nil {
		return err
	}

	if !s.started {
		return s.fetchStreamStart()
	}

	if err := s.scanToNextToken(); err != nil {
		return err
	}

	if err := s.staleSimpleKeys(); err != nil {
		return err
	}

	// Drain block scopes the current column no longer belongs to.
	s.unrollIndent(s.r.mark.Column)

	// Four characters cover the longest indicators ("--- ", "... ").
	if err := s.r.cache(4); err != nil {
		return err
	}

	buf, pos := s.r.buf, s.r.pos

	if isZero(buf, pos) {
		return s.fetchStreamEnd()
	}

	if s.r.mark.Column == 0 && buf[pos] == '%' {
		return s.fetchDirective()
	}

	if s.r.mark.Column == 0 && buf[pos] == '-' && buf[pos+1] == '-' && buf[pos+2] == '-' && isBlankOrZero(buf, pos+3) {
		return s.fetchDocumentIndicator(TokenDocumentStart)
	}

	if s.r.mark.Column == 0 && buf[pos] == '.' && buf[pos+1] == '.' && buf[pos+2] == '.' && isBlankOrZero(buf, pos+3) {
		return s.fetchDocumentIndicator(TokenDocumentEnd)
	}

	switch buf[pos] {
	case '[':
		return s.fetchFlowCollectionStart(TokenFlowSequenceStart)
	case '{':
		return s.fetchFlowCollectionStart(TokenFlowMappingStart)
	case ']':
		return s.fetchFlowCollectionEnd(TokenFlowSequenceEnd)
	case '}':
		return s.fetchFlowCollectionEnd(TokenFlowMappingEnd)
	case ',':
		return s.fetchFlowEntry()
	}

	if buf[pos] == '-' && isBlankOrZero(buf, pos+1) {
		return s.fetchBlockEntry()
	}

	if buf[pos] == '?' && (s.flowLevel > 0 || isBlankOrZero(buf, pos+1)) {
		return s.fetchKey()
	}

	if buf[pos] == ':' && (s.flowLevel > 0 || isBlankOrZero(buf, pos+1)) {
		return s.fetchValue()
	}

	switch buf[pos] {
	case '*':
		return s.fetchAnchor(TokenAlias)
	case '&':
		return s.fetchAnchor(TokenAnchor)
	case '!':
		return s.fetchTag()
	}

	if buf[pos] == '|' && s.flowLevel == 0 {
		return s.fetchBlockScalar(true)
	}
	if buf[pos] == '>' && s.flowLevel == 0 {
		return s.fetchBlockScalar(false)
	}

	if buf[pos] == '\'' {
		return s.fetchFlowScalar(true)
	}
	if buf[pos] == '"' {
		return s.fetchFlowScalar(false)
	}

	// A plain scalar may not start with an indicator, except that '-',
	// '?', and ':' may start one when followed by a non-blank character
	// (for '?' and ':' only in the block context).
	if !(isBlankOrZero(buf, pos) || buf[pos] == '-' ||
		buf[pos] == '?' || buf[pos] == ':' ||
		buf[pos] == ',' || buf[pos] == '[' ||
		buf[pos] == ']' || buf[pos] == '{' ||
		buf[pos] == '}' || buf[pos] == '#' ||
		buf[pos] == '&' || buf[pos] == '*' ||
		buf[pos] == '!' || buf[pos] == '|' ||
		buf[pos] == '>' || buf[pos] == '\'' ||
		buf[pos] == '"' || buf[pos] == '%' ||
		buf[pos] == '@' || buf[pos] == '`') ||
		(buf[pos] == '-' && !isBlank(buf, pos+1)) ||
		(s.flowLevel == 0 &&
			(buf[pos] == '?' || buf[pos] == ':') &&
			!isBlankOrZero(buf, pos+1)) {
		return s.fetchPlainScalar()
	}

	return s.scanErrorContext("while scanning for the next token", s.r.mark,
		"found character that cannot start any token", s.r.mark)
}

// staleSimpleKeys drops key candidates that can no longer be keys: a
// simple key must sit on a single line and span at most 1024
// characters.
func (s *Scanner) staleSimpleKeys() error {
	for i := range s.simpleKeys {
		sk := &s.simpleKeys[i]
		if sk.possible && (sk.mark.Line < s.r.mark.Line || sk.mark.Index+1024 < s.r.mark.Index) {
			if sk.required {
				return s.scanErrorContext("while scanning a simple key", sk.mark,
					"could not find expected ':'", s.r.mark)
			}
			sk.possible = false
		}
	}
	return nil
}

// saveSimpleKey records the current position as a key candidate if one
// is allowed here.
func (s *Scanner) saveSimpleKey() error {
	// A simple key is required when the scanner is in the block
	// context at the exact indentation column.
	required := s.flowLevel == 0 && s.indent == s.r.mark.Column

	if s.simpleKeyAllowed {
		sk := simpleKey{
			possible:    true,
			required:    required,
			tokenNumber: s.tokensParsed + (len(s.tokens) - s.tokensHead),
			mark:        s.r.mark,
		}
		if err := s.removeSimpleKey(); err != nil {
			return err
		}
		s.simpleKeys[len(s.simpleKeys)-1] = sk
	}
	return nil
}

// removeSimpleKey clears the key candidate at the current flow level.
func (s *Scanner) removeSimpleKey() error {
	i := len(s.simpleKeys) - 1
	if s.simpleKeys[i].possible && s.simpleKeys[i].required {
		return s.scanErrorContext("while scanning a simple key", s.simpleKeys[i].mark,
			"could not find expected ':'", s.r.mark)
	}
	s.simpleKeys[i].possible = false
	return nil
}

func (s *Scanner) increaseFlowLevel() {
	s.simpleKeys = append(s.simpleKeys, simpleKey{})
	s.flowLevel++
}

func (s *Scanner) decreaseFlowLevel() {
	if s.flowLevel > 0 {
		s.flowLevel--
		s.simpleKeys = s.simpleKeys[:len(s.simpleKeys)-1]
	}
}

// rollIndent pushes the indentation level and inserts a block start
// token when column opens a deeper block scope. number is the queue
// position for the insertion, or -1 to append.
func (s *Scanner) rollIndent(column, number int, kind TokenKind, mark Mark) {
	if s.flowLevel > 0 {
		return
	}
	if s.indent < column {
		s.indents = append(s.indents, s.indent)
		s.indent = column

		tok := Token{Kind: kind, Start: mark, End: mark}
		if number > -1 {
			number -= s.tokensParsed
		}
		s.insertToken(number, &tok)
	}
}

// unrollIndent pops indentation levels above column, appending a
// BLOCK-END token for each.
func (s *Scanner) unrollIndent(column int) {
	if s.flowLevel > 0 {
		return
	}
	for s.indent > column {
		tok := Token{Kind: TokenBlockEnd, Start: s.r.mark, End: s.r.mark}
		s.insertToken(-1, &tok)

		s.indent = s.indents[len(s.indents)-1]
		s.indents = s.indents[:len(s.indents)-1]
	}
}

// insertToken places tok at the given queue position relative to the
// head, or appends it when pos is -1.
func (s *Scanner) insertToken(pos int, tok *Token) {
	if s.tokensHead > 0 && s.tokensHead == len(s.tokens) {
		s.tokens = s.tokens[:0]
		s.tokensHead = 0
	}
	if pos < 0 {
		s.tokens = append(s.tokens, *tok)
		return
	}
	s.tokens = append(s.tokens, Token{})
	copy(s.tokens[s.tokensHead+pos+1:], s.tokens[s.tokensHead+pos:])
	s.tokens[s.tokensHead+pos] = *tok
}

func (s *Scanner) fetchStreamStart() error {
	s.indent = -1
	s.simpleKeys = append(s.simpleKeys, simpleKey{})
	s.simpleKeyAllowed = true
	s.started = true

	tok := Token{Kind: TokenStreamStart, Start: s.r.mark, End: s.r.mark}
	s.insertToken(-1, &tok)
	return nil
}

func (s *Scanner) fetchStreamEnd() error {
	// Force a new line position.
	if s.r.mark.Column != 0 {
		s.r.mark.Column = 0
		s.r.mark.Line++
	}

	s.unrollIndent(-1)
	if err := s.removeSimpleKey(); err != nil {
		return err
	}
	s.simpleKeyAllowed = false
	s.done = true

	tok := Token{Kind: TokenStreamEnd, Start: s.r.mark, End: s.r.mark}
	s.insertToken(-1, &tok)
	return nil
}

func (s *Scanner) fetchDirective() error {
	s.unrollIndent(-1)
	if err := s.removeSimpleKey(); err != nil {
		return err
	}
	s.simpleKeyAllowed = false

	var tok Token
	if err := s.scanDirective(&tok); err != nil {
		return err
	}
	s.insertToken(-1, &tok)
	return nil
}

func (s *Scanner) fetchDocumentIndicator(kind TokenKind) error {
	s.unrollIndent(-1)
	if err := s.removeSimpleKey(); err != nil {
		return err
	}
	s.simpleKeyAllowed = false

	start := s.r.mark
	s.r.skip()
	s.r.skip()
	s.r.skip()

	tok := Token{Kind: kind, Start: start, End: s.r.mark}
	s.insertToken(-1, &tok)
	return nil
}

func (s *Scanner) fetchFlowCollectionStart(kind TokenKind) error {
	// '[' and '{' may start a simple key.
	if err := s.saveSimpleKey(); err != nil {
		return err
	}
	s.increaseFlowLevel()
	s.simpleKeyAllowed = true

	start := s.r.mark
	s.r.skip()

	tok := Token{Kind: kind, Start: start, End: s.r.mark}
	s.insertToken(-1, &tok)
	return nil
}

func (s *Scanner) fetchFlowCollectionEnd(kind TokenKind) error {
	if err := s.removeSimpleKey(); err != nil {
		return err
	}
	s.decreaseFlowLevel()
	s.simpleKeyAllowed = false

	start := s.r.mark
	s.r.skip()

	tok := Token{Kind: kind, Start: start, End: s.r.mark}
	s.insertToken(-1, &tok)
	return nil
}

func (s *Scanner) fetchFlowEntry() error {
	if err := s.removeSimpleKey(); err != nil {
		return err
	}
	s.simpleKeyAllowed = true

	start := s.r.mark
	s.r.skip()

	tok := Token{Kind: TokenFlowEntry, Start: start, End: s.r.mark}
	s.insertToken(-1, &tok)
	return nil
}

func (s *Scanner) fetchBlockEntry() error {
	if s.flowLevel == 0 {
		if !s.simpleKeyAllowed {
			return s.scanError("block sequence entries are not allowed in this context", s.r.mark)
		}
		s.rollIndent(s.r.mark.Column, -1, TokenBlockSequenceStart, s.r.mark)
	}
	// In the flow context a '-' indicator is left for the parser to
	// reject, since the parser can point at the enclosing collection.

	if err := s.removeSimpleKey(); err != nil {
		return err
	}
	s.simpleKeyAllowed = true

	start := s.r.mark
	s.r.skip()

	tok := Token{Kind: TokenBlockEntry, Start: start, End: s.r.mark}
	s.insertToken(-1, &tok)
	return nil
}

func (s *Scanner) fetchKey() error {
	if s.flowLevel == 0 {
		if !s.simpleKeyAllowed {
			return s.scanError("mapping keys are not allowed in this context", s.r.mark)
		}
		s.rollIndent(s.r.mark.Column, -1, TokenBlockMappingStart, s.r.mark)
	}

	if err := s.removeSimpleKey(); err != nil {
		return err
	}
	s.simpleKeyAllowed = s.flowLevel == 0

	start := s.r.mark
	s.r.skip()

	tok := Token{Kind: TokenKey, Start: start, End: s.r.mark}
	s.insertToken(-1, &tok)
	return nil
}

func (s *Scanner) fetchValue() error {
	sk := &s.simpleKeys[len(s.simpleKeys)-1]

	if sk.possible {
		// The candidate turned out to be a key after all: insert the
		// KEY token where the key started.
		tok := Token{Kind: TokenKey, Start: sk.mark, End: sk.mark}
		s.insertToken(sk.tokenNumber-s.tokensParsed, &tok)

		s.rollIndent(sk.mark.Column, sk.tokenNumber, TokenBlockMappingStart, sk.mark)

		sk.possible = false
		s.simpleKeyAllowed = false
	} else {
		// The ':' follows a complex key.
		if s.flowLevel == 0 {
			if !s.simpleKeyAllowed {
				return s.scanError("mapping values are not allowed in this context", s.r.mark)
			}
			s.rollIndent(s.r.mark.Column, -1, TokenBlockMappingStart, s.r.mark)
		}
		s.simpleKeyAllowed = s.flowLevel == 0
	}

	start := s.r.mark
	s.r.skip()

	tok := Token{Kind: TokenValue, Start: start, End: s.r.mark}
	s.insertToken(-1, &tok)
	return nil
}

func (s *Scanner) fetchAnchor(kind TokenKind) error {
	// An anchor or an alias may be a simple key.
	if err := s.saveSimpleKey(); err != nil {
		return err
	}
	s.simpleKeyAllowed = false

	var tok Token
	if err := s.scanAnchor(&tok, kind); err != nil {
		return err
	}
	s.insertToken(-1, &tok)
	return nil
}

func (s *Scanner) fetchTag() error {
	if err := s.saveSimpleKey(); err != nil {
		return err
	}
	s.simpleKeyAllowed = false

	var tok Token
	if err := s.scanTag(&tok); err != nil {
		return err
	}
	s.insertToken(-1, &tok)
	return nil
}

func (s *Scanner) fetchBlockScalar(literal bool) error {
	if err := s.removeSimpleKey(); err != nil {
		return err
	}
	// A simple key may follow a block scalar.
	s.simpleKeyAllowed = true

	var tok Token
	if err := s.scanBlockScalar(&tok, literal); err != nil {
		return err
	}
	s.insertToken(-1, &tok)
	return nil
}

func (s *Scanner) fetchFlowScalar(single bool) error {
	if err := s.saveSimpleKey(); err != nil {
		return err
	}
	s.simpleKeyAllowed = false

	var tok Token
	if err := s.scanFlowScalar(&tok, single); err != nil {
		return err
	}
	s.insertToken(-1, &tok)
	return nil
}

func (s *Scanner) fetchPlainScalar() error {
	if err := s.saveSimpleKey(); err != nil {
		return err
	}
	s.simpleKeyAllowed = false

	var tok Token
	if err := s.scanPlainScalar(&tok); err != nil {
		return err
	}
	s.insertToken(-1, &tok)
	return nil
}

// scanToNextToken eats whitespace, comments, and line breaks until the
// next token begins.
func (s *Scanner) scanToNextToken() error {
	for {
		if err := s.r.cache(1); err != nil {
			return err
		}
		// A BOM may start a line.
		if s.r.mark.Column == 0 && isBOM(s.r.buf, s.r.pos) {
			s.r.skip()
		}

		// Tabs are allowed in the flow context, and in the block
		// context anywhere a simple key cannot start.
		if err := s.r.cache(1); err != nil {
			return err
		}
		for s.r.buf[s.r.pos] == ' ' ||
			((s.flowLevel > 0 || !s.simpleKeyAllowed) && s.r.buf[s.r.pos] == '\t') {
			s.r.skip()
			if err := s.r.cache(1); err != nil {
				return err
			}
		}

		if s.r.buf[s.r.pos] == '#' {
			if err := s.scanComment(); err != nil {
				return err
			}
		}

		if !isBreak(s.r.buf, s.r.pos) {
			return nil
		}
		if err := s.r.cache(2); err != nil {
			return err
		}
		s.r.skipLine()

		// A new line may start a simple key in the block context.
		if s.flowLevel == 0 {
			s.simpleKeyAllowed = true
		}
	}
}

// scanComment consumes a comment to the end of the line, emitting a
// TokenComment when capture is enabled.
func (s *Scanner) scanComment() error {
	start := s.r.mark
	var text []byte
	for !isBreakOrZero(s.r.buf, s.r.pos) {
		if s.captureComments {
			text = s.r.read(text)
		} else {
			s.r.skip()
		}
		if err := s.r.cache(1); err != nil {
			return err
		}
	}
	if s.captureComments {
		tok := Token{Kind: TokenComment, Start: start, End: s.r.mark, Value: text}
		s.insertToken(-1, &tok)
	}
	return nil
}

// scanDirective scans a %YAML or %TAG directive occupying a whole line.
func (s *Scanner) scanDirective(tok *Token) error {
	start := s.r.mark
	s.r.skip() // '%'

	name, err := s.scanDirectiveName(start)
	if err != nil {
		return err
	}

	switch {
	case bytes.Equal(name, []byte("YAML")):
		major, minor, err := s.scanVersionDirectiveValue(start)
		if err != nil {
			return err
		}
		*tok = Token{
			Kind:  TokenVersionDirective,
			Start: start, End: s.r.mark,
			Major: major, Minor: minor,
		}
	case bytes.Equal(name, []byte("TAG")):
		handle, prefix, err := s.scanTagDirectiveValue(start)
		if err != nil {
			return err
		}
		*tok = Token{
			Kind:  TokenTagDirective,
			Start: start, End: s.r.mark,
			Value: handle, Suffix: prefix,
		}
	default:
		return s.scanErrorContext("while scanning a directive", start,
			"found unknown directive name", s.r.mark)
	}

	// Eat the rest of the line including any comment.
	if err := s.r.cache(1); err != nil {
		return err
	}
	for isBlank(s.r.buf, s.r.pos) {
		s.r.skip()
		if err := s.r.cache(1); err != nil {
			return err
		}
	}
	if s.r.buf[s.r.pos] == '#' {
		for !isBreakOrZero(s.r.buf, s.r.pos) {
			s.r.skip()
			if err := s.r.cache(1); err != nil {
				return err
			}
		}
	}
	if !isBreakOrZero(s.r.buf, s.r.pos) {
		return s.scanErrorContext("while scanning a directive", start,
			"did not find expected comment or line break", s.r.mark)
	}
	if isBreak(s.r.buf, s.r.pos) {
		if err := s.r.cache(2); err != nil {
			return err
		}
		s.r.skipLine()
	}
	return nil
}

func (s *Scanner) scanDirectiveName(start Mark) ([]byte, error) {
	if err := s.r.cache(1); err != nil {
		return nil, err
	}
	var name []byte
	for isAlpha(s.r.buf, s.r.pos) {
		name = s.r.read(name)
		if err := s.r.cache(1); err != nil {
			return nil, err
		}
	}
	if len(name) == 0 {
		return nil, s.scanErrorContext("while scanning a directive", start,
			"could not find expected directive name", s.r.mark)
	}
	if !isBlankOrZero(s.r.buf, s.r.pos) {
		return nil, s.scanErrorContext("while scanning a directive", start,
			"found unexpected non-alphabetical character", s.r.mark)
	}
	return name, nil
}

func (s *Scanner) scanVersionDirectiveValue(start Mark) (major, minor int8, err error) {
	if err := s.r.cache(1); err != nil {
		return 0, 0, err
	}
	for isBlank(s.r.buf, s.r.pos) {
		s.r.skip()
		if err := s.r.cache(1); err != nil {
			return 0, 0, err
		}
	}
	if major, err = s.scanVersionDirectiveNumber(start); err != nil {
		return 0, 0, err
	}
	if s.r.buf[s.r.pos] != '.' {
		return 0, 0, s.scanErrorContext("while scanning a %YAML directive", start,
			"did not find expected digit or '.' character", s.r.mark)
	}
	s.r.skip()
	if minor, err = s.scanVersionDirectiveNumber(start); err != nil {
		return 0, 0, err
	}
	return major, minor, nil
}

const maxVersionNumberLength = 2

func (s *Scanner) scanVersionDirectiveNumber(start Mark) (int8, error) {
	if err := s.r.cache(1); err != nil {
		return 0, err
	}
	var value, length int8
	for isDigit(s.r.buf, s.r.pos) {
		length++
		if length > maxVersionNumberLength {
			return 0, s.scanErrorContext("while scanning a %YAML directive", start,
				"found extremely long version number", s.r.mark)
		}
		value = value*10 + int8(asDigit(s.r.buf, s.r.pos))
		s.r.skip()
		if err := s.r.cache(1); err != nil {
			return 0, err
		}
	}
	if length == 0 {
		return 0, s.scanErrorContext("while scanning a %YAML directive", start,
			"did not find expected version number", s.r.mark)
	}
	return value, nil
}

func (s *Scanner) scanTagDirectiveValue(start Mark) (handle, prefix []byte, err error) {
	if err := s.r.cache(1); err != nil {
		return nil, nil, err
	}
	for isBlank(s.r.buf, s.r.pos) {
		s.r.skip()
		if err := s.r.cache(1); err != nil {
			return nil, nil, err
		}
	}

	if handle, err = s.scanTagHandle(true, start); err != nil {
		return nil, nil, err
	}

	if err := s.r.cache(1); err != nil {
		return nil, nil, err
	}
	if !isBlank(s.r.buf, s.r.pos) {
		return nil, nil, s.scanErrorContext("while scanning a %TAG directive", start,
			"did not find expected whitespace", s.r.mark)
	}
	for isBlank(s.r.buf, s.r.pos) {
		s.r.skip()
		if err := s.r.cache(1); err != nil {
			return nil, nil, err
		}
	}

	if prefix, err = s.scanTagURI(true, true, nil, start); err != nil {
		return nil, nil, err
	}

	if err := s.r.cache(1); err != nil {
		return nil, nil, err
	}
	if !isBlankOrZero(s.r.buf, s.r.pos) {
		return nil, nil, s.scanErrorContext("while scanning a %TAG directive", start,
			"did not find expected whitespace or line break", s.r.mark)
	}
	return handle, prefix, nil
}

func (s *Scanner) scanAnchor(tok *Token, kind TokenKind) error {
	start := s.r.mark
	s.r.skip() // '&' or '*'

	if err := s.r.cache(1); err != nil {
		return err
	}
	var name []byte
	for isAnchorChar(s.r.buf, s.r.pos) {
		name = s.r.read(name)
		if err := s.r.cache(1); err != nil {
			return err
		}
	}
	end := s.r.mark

	// The name must be non-empty and followed by whitespace or one of
	// the characters that may legally follow an anchored node.
	if len(name) == 0 ||
		!(isBlankOrZero(s.r.buf, s.r.pos) || s.r.buf[s.r.pos] == '?' ||
			s.r.buf[s.r.pos] == ':' || s.r.buf[s.r.pos] == ',' ||
			s.r.buf[s.r.pos] == ']' || s.r.buf[s.r.pos] == '}' ||
			s.r.buf[s.r.pos] == '%' || s.r.buf[s.r.pos] == '@' ||
			s.r.buf[s.r.pos] == '`') {
		context := "while scanning an alias"
		if kind == TokenAnchor {
			context = "while scanning an anchor"
		}
		return s.scanErrorContext(context, start,
			"did not find expected alphabetic or numeric character", s.r.mark)
	}

	*tok = Token{Kind: kind, Start: start, End: end, Value: name}
	return nil
}

func (s *Scanner) scanTag(tok *Token) error {
	start := s.r.mark

	if err := s.r.cache(2); err != nil {
		return err
	}

	var handle, suffix []byte
	var err error
	if s.r.buf[s.r.pos+1] == '<' {
		// Verbatim tag: !<uri>. The handle stays empty.
		s.r.skip()
		s.r.skip()

		if suffix, err = s.scanTagURI(false, true, nil, start); err != nil {
			return err
		}
		if s.r.buf[s.r.pos] != '>' {
			return s.scanErrorContext("while scanning a tag", start,
				"did not find the expected '>'", s.r.mark)
		}
		s.r.skip()
	} else {
		// The tag has either the '!suffix' or the '!handle!suffix' form.
		if handle, err = s.scanTagHandle(false, start); err != nil {
			return err
		}
		if handle[0] == '!' && len(handle) > 1 && handle[len(handle)-1] == '!' {
			if suffix, err = s.scanTagURI(false, false, nil, start); err != nil {
				return err
			}
		} else {
			// Not really a handle; rescan as part of the suffix.
			if suffix, err = s.scanTagURI(false, false, handle, start); err != nil {
				return err
			}
			handle = []byte{'!'}
			// The bare '!' tag.
			if len(suffix) == 0 {
				handle, suffix = suffix, handle
			}
		}
	}

	if err := s.r.cache(1); err != nil {
		return err
	}
	if !isBlankOrZero(s.r.buf, s.r.pos) {
		return s.scanErrorContext("while scanning a tag", start,
			"did not find expected whitespace or line break", s.r.mark)
	}

	*tok = Token{Kind: TokenTag, Start: start, End: s.r.mark, Value: handle, Suffix: suffix}
	return nil
}

func (s *Scanner) scanTagHandle(directive bool, start Mark) ([]byte, error) {
	if err := s.r.cache(1); err != nil {
		return nil, err
	}
	if s.r.buf[s.r.pos] != '!' {
		return nil, s.tagError(directive, start, "did not find expected '!'")
	}

	var handle []byte
	handle = s.r.read(handle)

	if err := s.r.cache(1); err != nil {
		return nil, err
	}
	for isAlpha(s.r.buf, s.r.pos) {
		handle = s.r.read(handle)
		if err := s.r.cache(1); err != nil {
			return nil, err
		}
	}

	if s.r.buf[s.r.pos] == '!' {
		handle = s.r.read(handle)
	} else if directive && !bytes.Equal(handle, []byte("!")) {
		// A %TAG directive handle must be closed with '!'. In a tag
		// token the text is simply part of the URI.
		return nil, s.tagError(directive, start, "did not find expected '!'")
	}
	return handle, nil
}

func (s *Scanner) scanTagURI(directive, verbatim bool, head []byte, start Mark) ([]byte, error) {
	var uri []byte
	length := len(head)
	// The leading '!' of a mistaken handle is not part of the URI.
	if length > 0 {
		uri = append(uri, head[1:]...)
	}

	if err := s.r.cache(1); err != nil {
		return nil, err
	}
	for isTagURIChar(s.r.buf, s.r.pos, verbatim) {
		if s.r.buf[s.r.pos] == '%' {
			var err error
			if uri, err = s.scanURIEscapes(directive, start, uri); err != nil {
				return nil, err
			}
		} else {
			uri = s.r.read(uri)
			length++
		}
		if err := s.r.cache(1); err != nil {
			return nil, err
		}
	}

	if length == 0 {
		return nil, s.tagError(directive, start, "did not find expected tag URI")
	}
	return uri, nil
}

// scanURIEscapes decodes a %XX escape run into the bytes of a single
// UTF-8 character.
func (s *Scanner) scanURIEscapes(directive bool, start Mark, uri []byte) ([]byte, error) {
	remaining := 0
	for first := true; first || remaining > 0; first = false {
		if err := s.r.cache(3); err != nil {
			return nil, err
		}
		if !(s.r.buf[s.r.pos] == '%' &&
			isHex(s.r.buf, s.r.pos+1) &&
			isHex(s.r.buf, s.r.pos+2)) {
			return nil, s.tagError(directive, start, "did not find URI escaped octet")
		}
		octet := byte((asHex(s.r.buf, s.r.pos+1) << 4) + asHex(s.r.buf, s.r.pos+2))
		if first {
			remaining = width(octet)
			if remaining == 0 {
				return nil, s.tagError(directive, start, "found an incorrect leading UTF-8 octet")
			}
		} else if octet&0xC0 != 0x80 {
			return nil, s.tagError(directive, start, "found an incorrect trailing UTF-8 octet")
		}
		uri = append(uri, octet)
		s.r.skip()
		s.r.skip()
		s.r.skip()
		remaining--
	}
	return uri, nil
}

func (s *Scanner) tagError(directive bool, start Mark, problem string) error {
	context := "while parsing a tag"
	if directive {
		context = "while parsing a %TAG directive"
	}
	return s.scanErrorContext(context, start, problem, s.r.mark)
}

// scanBlockScalar scans a literal or folded scalar, including the
// header with its optional chomping and indentation indicators.
func (s *Scanner) scanBlockScalar(tok *Token, literal bool) error {
	start := s.r.mark
	s.r.skip() // '|' or '>'

	if err := s.r.cache(1); err != nil {
		return err
	}

	// The chomping and indentation indicators may come in either order.
	var chomping, increment int
	if s.r.buf[s.r.pos] == '+' || s.r.buf[s.r.pos] == '-' {
		if s.r.buf[s.r.pos] == '+' {
			chomping = +1
		} else {
			chomping = -1
		}
		s.r.skip()

		if err := s.r.cache(1); err != nil {
			return err
		}
		if isDigit(s.r.buf, s.r.pos) {
			if s.r.buf[s.r.pos] == '0' {
				return s.scanErrorContext("while scanning a block scalar", start,
					"found an indentation indicator equal to 0", s.r.mark)
			}
			increment = asDigit(s.r.buf, s.r.pos)
			s.r.skip()
		}
	} else if isDigit(s.r.buf, s.r.pos) {
		if s.r.buf[s.r.pos] == '0' {
			return s.scanErrorContext("while scanning a block scalar", start,
				"found an indentation indicator equal to 0", s.r.mark)
		}
		increment = asDigit(s.r.buf, s.r.pos)
		s.r.skip()

		if err := s.r.cache(1); err != nil {
			return err
		}
		if s.r.buf[s.r.pos] == '+' || s.r.buf[s.r.pos] == '-' {
			if s.r.buf[s.r.pos] == '+' {
				chomping = +1
			} else {
				chomping = -1
			}
			s.r.skip()
		}
	}

	// Eat whitespace and an optional comment to the end of the line.
	if err := s.r.cache(1); err != nil {
		return err
	}
	for isBlank(s.r.buf, s.r.pos) {
		s.r.skip()
		if err := s.r.cache(1); err != nil {
			return err
		}
	}
	if s.r.buf[s.r.pos] == '#' {
		for !isBreakOrZero(s.r.buf, s.r.pos) {
			s.r.skip()
			if err := s.r.cache(1); err != nil {
				return err
			}
		}
	}
	if !isBreakOrZero(s.r.buf, s.r.pos) {
		return s.scanErrorContext("while scanning a block scalar", start,
			"did not find expected comment or line break", s.r.mark)
	}
	if isBreak(s.r.buf, s.r.pos) {
		if err := s.r.cache(2); err != nil {
			return err
		}
		s.r.skipLine()
	}

	end := s.r.mark

	// An explicit indentation indicator is relative to the parent
	// block level.
	var indent int
	if increment > 0 {
		if s.indent >= 0 {
			indent = s.indent + increment
		} else {
			indent = increment
		}
	}

	// Scan leading breaks, settling the indentation if it was implicit.
	var value, leadingBreak, trailingBreaks []byte
	var err error
	if trailingBreaks, err = s.scanBlockScalarBreaks(&indent, trailingBreaks, start, &end); err != nil {
		return err
	}

	if err := s.r.cache(1); err != nil {
		return err
	}
	var leadingBlank, trailingBlank bool
	for s.r.mark.Column == indent && !isZero(s.r.buf, s.r.pos) {
		// At the start of a non-empty content line.
		trailingBlank = isBlank(s.r.buf, s.r.pos)

		// Folded style joins lines with a space unless either side of
		// the break is more-indented.
		if !literal && !leadingBlank && !trailingBlank && len(leadingBreak) > 0 && leadingBreak[0] == '\n' {
			if len(trailingBreaks) == 0 {
				value = append(value, ' ')
			}
		} else {
			value = append(value, leadingBreak...)
		}
		leadingBreak = leadingBreak[:0]

		value = append(value, trailingBreaks...)
		trailingBreaks = trailingBreaks[:0]

		leadingBlank = isBlank(s.r.buf, s.r.pos)

		for !isBreakOrZero(s.r.buf, s.r.pos) {
			value = s.r.read(value)
			if err := s.r.cache(1); err != nil {
				return err
			}
		}
		if err := s.r.cache(2); err != nil {
			return err
		}
		leadingBreak = s.r.readLine(leadingBreak)

		if trailingBreaks, err = s.scanBlockScalarBreaks(&indent, trailingBreaks, start, &end); err != nil {
			return err
		}
	}

	// Chomp the tail.
	if chomping != -1 {
		value = append(value, leadingBreak...)
	}
	if chomping == 1 {
		value = append(value, trailingBreaks...)
	}

	style := ScalarStyleLiteral
	if !literal {
		style = ScalarStyleFolded
	}
	*tok = Token{Kind: TokenScalar, Start: start, End: end, Value: value, Style: style}
	return nil
}

// scanBlockScalarBreaks eats indentation and blank lines between block
// scalar content lines, determining the content indentation when the
// header left it implicit.
func (s *Scanner) scanBlockScalarBreaks(indent *int, breaks []byte, start Mark, end *Mark) ([]byte, error) {
	*end = s.r.mark

	maxIndent := 0
	for {
		if err := s.r.cache(1); err != nil {
			return nil, err
		}
		for (*indent == 0 || s.r.mark.Column < *indent) && isSpace(s.r.buf, s.r.pos) {
			s.r.skip()
			if err := s.r.cache(1); err != nil {
				return nil, err
			}
		}
		if s.r.mark.Column > maxIndent {
			maxIndent = s.r.mark.Column
		}

		if (*indent == 0 || s.r.mark.Column < *indent) && isTab(s.r.buf, s.r.pos) {
			return nil, s.scanErrorContext("while scanning a block scalar", start,
				"found a tab character where an indentation space is expected", s.r.mark)
		}

		if !isBreak(s.r.buf, s.r.pos) {
			break
		}
		if err := s.r.cache(2); err != nil {
			return nil, err
		}
		breaks = s.r.readLine(breaks)
		*end = s.r.mark
	}

	if *indent == 0 {
		*indent = maxIndent
		if *indent < s.indent+1 {
			*indent = s.indent + 1
		}
		if *indent < 1 {
			*indent = 1
		}
	}
	return breaks, nil
}

// scanFlowScalar scans a single- or double-quoted scalar.
func (s *Scanner) scanFlowScalar(tok *Token, single bool) error {
	start := s.r.mark
	s.r.skip() // the left quote

	var value, leadingBreak, trailingBreaks, whitespaces []byte
	for {
		// Document indicators terminate a quoted scalar abnormally.
		if err := s.r.cache(4); err != nil {
			return err
		}
		buf, pos := s.r.buf, s.r.pos
		if s.r.mark.Column == 0 &&
			((buf[pos] == '-' && buf[pos+1] == '-' && buf[pos+2] == '-') ||
				(buf[pos] == '.' && buf[pos+1] == '.' && buf[pos+2] == '.')) &&
			isBlankOrZero(buf, pos+3) {
			return s.scanErrorContext("while scanning a quoted scalar", start,
				"found unexpected document indicator", s.r.mark)
		}

		if isZero(buf, pos) {
			return s.scanErrorContext("while scanning a quoted scalar", start,
				"found unexpected end of stream", s.r.mark)
		}

		leadingBlanks := false
		for !isBlankOrZero(s.r.buf, s.r.pos) {
			buf, pos = s.r.buf, s.r.pos
			switch {
			case single && buf[pos] == '\'' && buf[pos+1] == '\'':
				// An escaped single quote.
				value = append(value, '\'')
				s.r.skip()
				s.r.skip()
			case single && buf[pos] == '\'':
				goto closed
			case !single && buf[pos] == '"':
				goto closed
			case !single && buf[pos] == '\\' && isBreak(buf, pos+1):
				// An escaped line break eats the break.
				if err := s.r.cache(3); err != nil {
					return err
				}
				s.r.skip()
				s.r.skipLine()
				leadingBlanks = true
				goto blanks
			case !single && buf[pos] == '\\':
				var err error
				if value, err = s.scanEscape(start, value); err != nil {
					return err
				}
			default:
				value = s.r.read(value)
			}
			if err := s.r.cache(2); err != nil {
				return err
			}
		}

	blanks:
		if err := s.r.cache(1); err != nil {
			return err
		}
		for isBlank(s.r.buf, s.r.pos) || isBreak(s.r.buf, s.r.pos) {
			if isBlank(s.r.buf, s.r.pos) {
				if !leadingBlanks {
					whitespaces = s.r.read(whitespaces)
				} else {
					s.r.skip()
				}
			} else {
				if err := s.r.cache(2); err != nil {
					return err
				}
				if !leadingBlanks {
					whitespaces = whitespaces[:0]
					leadingBreak = s.r.readLine(leadingBreak)
					leadingBlanks = true
				} else {
					trailingBreaks = s.r.readLine(trailingBreaks)
				}
			}
			if err := s.r.cache(1); err != nil {
				return err
			}
		}

		// Join whitespace runs, folding line breaks.
		if leadingBlanks {
			if len(leadingBreak) > 0 && leadingBreak[0] == '\n' {
				if len(trailingBreaks) == 0 {
					value = append(value, ' ')
				} else {
					value = append(value, trailingBreaks...)
				}
			} else {
				value = append(value, leadingBreak...)
				value = append(value, trailingBreaks...)
			}
			leadingBreak = leadingBreak[:0]
			trailingBreaks = trailingBreaks[:0]
		} else {
			value = append(value, whitespaces...)
			whitespaces = whitespaces[:0]
		}
	}

closed:
	s.r.skip() // the right quote

	style := ScalarStyleSingleQuoted
	if !single {
		style = ScalarStyleDoubleQuoted
	}
	*tok = Token{Kind: TokenScalar, Start: start, End: s.r.mark, Value: value, Style: style}
	return nil
}

// scanEscape decodes one backslash escape inside a double-quoted
// scalar and appends the escaped character to value.
func (s *Scanner) scanEscape(start Mark, value []byte) ([]byte, error) {
	codeLength := 0
	switch s.r.buf[s.r.pos+1] {
	case '0':
		value = append(value, 0)
	case 'a':
		value = append(value, '\x07')
	case 'b':
		value = append(value, '\x08')
	case 't', '\t':
		value = append(value, '\x09')
	case 'n':
		value = append(value, '\x0A')
	case 'v':
		value = append(value, '\x0B')
	case 'f':
		value = append(value, '\x0C')
	case 'r':
		value = append(value, '\x0D')
	case 'e':
		value = append(value, '\x1B')
	case ' ':
		value = append(value, '\x20')
	case '"':
		value = append(value, '"')
	case '\'':
		value = append(value, '\'')
	case '\\':
		value = append(value, '\\')
	case 'N': // NEL (#x85)
		value = append(value, '\xC2', '\x85')
	case '_': // NBSP (#xA0)
		value = append(value, '\xC2', '\xA0')
	case 'L': // LS (#x2028)
		value = append(value, '\xE2', '\x80', '\xA8')
	case 'P': // PS (#x2029)
		value = append(value, '\xE2', '\x80', '\xA9')
	case 'x':
		codeLength = 2
	case 'u':
		codeLength = 4
	case 'U':
		codeLength = 8
	default:
		return nil, s.scanErrorContext("while parsing a quoted scalar", start,
			"found unknown escape character", s.r.mark)
	}

	s.r.skip()
	s.r.skip()

	if codeLength > 0 {
		if err := s.r.cache(codeLength); err != nil {
			return nil, err
		}
		var code int
		for k := 0; k < codeLength; k++ {
			if !isHex(s.r.buf, s.r.pos+k) {
				return nil, s.scanErrorContext("while parsing a quoted scalar", start,
					"did not find expected hexadecimal number", s.r.mark)
			}
			code = (code << 4) + asHex(s.r.buf, s.r.pos+k)
		}
		if code >= 0xD800 && code <= 0xDFFF || code > 0x10FFFF {
			return nil, s.scanErrorContext("while parsing a quoted scalar", start,
				"found invalid Unicode character escape code", s.r.mark)
		}
		switch {
		case code <= 0x7F:
			value = append(value, byte(code))
		case code <= 0x7FF:
			value = append(value, byte(0xC0+(code>>6)), byte(0x80+(code&0x3F)))
		case code <= 0xFFFF:
			value = append(value, byte(0xE0+(code>>12)),
				byte(0x80+((code>>6)&0x3F)), byte(0x80+(code&0x3F)))
		default:
			value = append(value, byte(0xF0+(code>>18)),
				byte(0x80+((code>>12)&0x3F)),
				byte(0x80+((code>>6)&0x3F)), byte(0x80+(code&0x3F)))
		}
		for k := 0; k < codeLength; k++ {
			s.r.skip()
		}
	}
	return value, nil
}

// scanPlainScalar scans an unquoted scalar.
func (s *Scanner) scanPlainScalar(tok *Token) error {
	var value, leadingBreak, trailingBreaks, whitespaces []byte
	var leadingBlanks bool
	indent := s.indent + 1

	start := s.r.mark
	end := s.r.mark

	for {
		// A document indicator always terminates the scalar.
		if err := s.r.cache(4); err != nil {
			return err
		}
		buf, pos := s.r.buf, s.r.pos
		if s.r.mark.Column == 0 &&
			((buf[pos] == '-' && buf[pos+1] == '-' && buf[pos+2] == '-') ||
				(buf[pos] == '.' && buf[pos+1] == '.' && buf[pos+2] == '.')) &&
			isBlankOrZero(buf, pos+3) {
			break
		}

		if buf[pos] == '#' {
			break
		}

		for !isBlankOrZero(s.r.buf, s.r.pos) {
			buf, pos = s.r.buf, s.r.pos

			// YAML 1.1 forbids 'x:x' in the flow context.
			if s.flowLevel > 0 && buf[pos] == ':' && !isBlankOrZero(buf, pos+1) {
				return s.scanErrorContext("while scanning a plain scalar", start,
					"found unexpected ':'", s.r.mark)
			}

			// Indicators that end a plain scalar.
			if (buf[pos] == ':' && isBlankOrZero(buf, pos+1)) ||
				(s.flowLevel > 0 &&
					(buf[pos] == ',' || buf[pos] == ':' ||
						buf[pos] == '?' || buf[pos] == '[' ||
						buf[pos] == ']' || buf[pos] == '{' ||
						buf[pos] == '}')) {
				break
			}

			// Flush any pending whitespace or folded breaks.
			if leadingBlanks || len(whitespaces) > 0 {
				if leadingBlanks {
					if leadingBreak[0] == '\n' {
						if len(trailingBreaks) == 0 {
							value = append(value, ' ')
						} else {
							value = append(value, trailingBreaks...)
						}
					} else {
						value = append(value, leadingBreak...)
						value = append(value, trailingBreaks...)
					}
					leadingBreak = leadingBreak[:0]
					trailingBreaks = trailingBreaks[:0]
					leadingBlanks = false
				} else {
					value = append(value, whitespaces...)
					whitespaces = whitespaces[:0]
				}
			}

			value = s.r.read(value)
			end = s.r.mark
			if err := s.r.cache(2); err != nil {
				return err
			}
		}

		if !(isBlank(s.r.buf, s.r.pos) || isBreak(s.r.buf, s.r.pos)) {
			break
		}

		if err := s.r.cache(1); err != nil {
			return err
		}
		for isBlank(s.r.buf, s.r.pos) || isBreak(s.r.buf, s.r.pos) {
			if isBlank(s.r.buf, s.r.pos) {
				// Tabs may not fake the indentation of a continuation
				// line.
				if leadingBlanks && s.r.mark.Column < indent && isTab(s.r.buf, s.r.pos) {
					return s.scanErrorContext("while scanning a plain scalar", start,
						"found a tab character that violates indentation", s.r.mark)
				}
				if !leadingBlanks {
					whitespaces = s.r.read(whitespaces)
				} else {
					s.r.skip()
				}
			} else {
				if err := s.r.cache(2); err != nil {
					return err
				}
				if !leadingBlanks {
					whitespaces = whitespaces[:0]
					leadingBreak = s.r.readLine(leadingBreak)
					leadingBlanks = true
				} else {
					trailingBreaks = s.r.readLine(trailingBreaks)
				}
			}
			if err := s.r.cache(1); err != nil {
				return err
			}
		}

		// A continuation line must be indented past the block level.
		if s.flowLevel == 0 && s.r.mark.Column < indent {
			break
		}
	}

	*tok = Token{Kind: TokenScalar, Start: start, End: end, Value: value, Style: ScalarStylePlain}

	// A multi-line plain scalar ends the line, so a key may follow.
	if leadingBlanks {
		s.simpleKeyAllowed = true
	}
	return nil
}
