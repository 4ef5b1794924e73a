// Copyright 2026 The yamlkit Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Every stage reports failures through its own error type so callers
// can tell where in the pipeline a stream went wrong. All of them embed
// posError, which renders the standard "yaml: <where>: <what>" message
// and optionally a snippet of the offending line.

type posError struct {
	Problem string
	Mark    Mark

	// Context and ContextMark point at an earlier position relevant to
	// the problem (the start of the unclosed collection, the first use
	// of a duplicated anchor, ...). Context is empty when there is none.
	Context     string
	ContextMark Mark

	// Snippet is the offending source line with a caret marker, when
	// the reader could recover it.
	Snippet string
}

func (e *posError) Error() string {
	var b strings.Builder
	b.WriteString("yaml: ")
	if e.Context != "" {
		fmt.Fprintf(&b, "%s at %s; ", e.Context, e.ContextMark)
	}
	if e.Mark.Line != 0 {
		fmt.Fprintf(&b, "%s: ", e.Mark)
	}
	b.WriteString(e.Problem)
	if e.Snippet != "" {
		b.WriteString("\n")
		b.WriteString(e.Snippet)
	}
	return b.String()
}

// Position returns the mark at which the error occurred.
func (e *posError) Position() Mark { return e.Mark }

// ReadError reports malformed input encoding: an unsupported encoding,
// an invalid byte sequence, or a non-printable character.
type ReadError struct{ posError }

// ScanError reports input that cannot be tokenized.
type ScanError struct{ posError }

// ParseError reports a token sequence that violates the grammar.
type ParseError struct{ posError }

// ComposeError reports an event sequence that cannot form a node graph:
// an alias to an unknown anchor, a duplicated anchor, or a document
// nested beyond the depth limit.
type ComposeError struct{ posError }

// EmitError reports an event sequence the emitter cannot render, or a
// scalar value that no available style can carry.
type EmitError struct{ posError }

// WriteError wraps a failure of the destination writer.
type WriteError struct {
	Err error
}

func (e *WriteError) Error() string { return "yaml: write error: " + e.Err.Error() }
func (e *WriteError) Unwrap() error { return e.Err }

func newComposeError(problem string, mark Mark) error {
	return &ComposeError{posError{Problem: problem, Mark: mark}}
}

func newEmitError(problem string) error {
	return &EmitError{posError{Problem: problem}}
}

// caretSnippet renders one source line with a caret under column col.
// Read, scan, and parse errors attach it when the offending line is
// still buffered.
func caretSnippet(line string, col int) string {
	if line == "" {
		return ""
	}
	if n := utf8.RuneCountInString(line); col > n {
		col = n
	}
	if col < 0 {
		col = 0
	}
	return "    " + line + "\n    " + strings.Repeat(" ", col) + "^"
}
