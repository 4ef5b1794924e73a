// Copyright 2026 The yamlkit Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"fmt"
	"strings"
)

// Mark is a position in the input or output stream. It is attached to
// every token, event, node, and error produced by the pipeline.
//
// Line is 1-based once the position is known; Column is 0-based
// internally and rendered 1-based. Index counts runes from the start
// of the stream. A Mark is immutable once handed out.
type Mark struct {
	// Name identifies the source for diagnostics ("<stdin>", a file
	// path, ...). Empty when the caller did not provide one.
	Name string

	Index  int
	Line   int
	Column int
}

func (m Mark) String() string {
	var b strings.Builder
	if m.Name != "" {
		b.WriteString(m.Name)
		b.WriteString(": ")
	}
	if m.Line == 0 {
		b.WriteString("<unknown position>")
		return b.String()
	}
	fmt.Fprintf(&b, "line %d", m.Line)
	if m.Column != 0 {
		fmt.Fprintf(&b, ", column %d", m.Column+1)
	}
	return b.String()
}
