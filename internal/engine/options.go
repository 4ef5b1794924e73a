// Copyright 2026 The yamlkit Authors
// SPDX-License-Identifier: Apache-2.0

package engine

// LineBreak selects the line terminator written between output lines.
type LineBreak int8

const (
	// BreakAny means "use the platform default", which is LF.
	BreakAny LineBreak = iota
	BreakLN
	BreakCR
	BreakCRLN
)

func (b LineBreak) bytes() []byte {
	switch b {
	case BreakCR:
		return []byte{'\r'}
	case BreakCRLN:
		return []byte{'\r', '\n'}
	}
	return []byte{'\n'}
}

// DumpOptions collects the knobs honored by the serializer and emitter.
// The zero value is not usable; call DefaultDumpOptions.
type DumpOptions struct {
	// Indent is the number of spaces per nesting level. Valid values
	// are 2 through 9.
	Indent int

	// Width is the preferred maximum line width. Values below 2*Indent
	// disable folding entirely.
	Width int

	// Canonical forces flow collections, double-quoted scalars, and
	// explicit tags on every node.
	Canonical bool

	// ExplicitStart and ExplicitEnd force "---" and "..." markers on
	// every document.
	ExplicitStart bool
	ExplicitEnd   bool

	// FlowDefault renders collections in flow style unless a node pins
	// block style.
	FlowDefault bool

	// CompactSequenceIndent aligns block sequence dashes with the
	// parent mapping key instead of indenting them one level.
	CompactSequenceIndent bool

	// LineBreak is the output line terminator.
	LineBreak LineBreak

	// Unicode allows non-ASCII characters in the output; when false
	// they are escaped.
	Unicode bool

	// Version, when non-nil, writes a %YAML directive before each
	// document.
	Version *VersionDirective

	// TagDirectives are written before each document, after any
	// version directive.
	TagDirectives []TagDirective
}

// DefaultDumpOptions returns the options Dump uses when the caller
// sets nothing: two-space indent, 80 column width, unicode output.
func DefaultDumpOptions() DumpOptions {
	return DumpOptions{
		Indent:  2,
		Width:   80,
		Unicode: true,
	}
}

// normalize clamps out-of-range values to the nearest valid ones.
func (o *DumpOptions) normalize() {
	if o.Indent < 2 {
		o.Indent = 2
	}
	if o.Indent > 9 {
		o.Indent = 9
	}
	if o.Width == 0 {
		o.Width = 80
	}
}

// LoadOptions collects the knobs honored by the reader, parser, and
// composer.
type LoadOptions struct {
	// SourceName labels marks and error messages ("<stdin>", a file
	// path, ...).
	SourceName string

	// MaxDepth bounds node graph nesting during composition. Zero
	// means the default of 200.
	MaxDepth int

	// Resolver resolves implicit tags. Nil means the core schema.
	Resolver *Resolver
}

const defaultMaxDepth = 200

func (o *LoadOptions) maxDepth() int {
	if o.MaxDepth <= 0 {
		return defaultMaxDepth
	}
	return o.MaxDepth
}

func (o *LoadOptions) resolver() *Resolver {
	if o.Resolver == nil {
		return coreResolver
	}
	return o.Resolver
}
