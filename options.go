// Copyright 2026 The yamlkit Authors
// SPDX-License-Identifier: Apache-2.0

package yaml

import (
	"fmt"

	"github.com/yamlkit/yaml/internal/engine"
)

// settings collects the engine configuration assembled from Options.
type settings struct {
	dump engine.DumpOptions
	load engine.LoadOptions
}

// Option configures YAML loading and dumping operations.
type Option func(*settings) error

func newSettings(opts []Option) (*settings, error) {
	s := &settings{dump: engine.DefaultDumpOptions()}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// WithIndent sets the number of spaces per nesting level when dumping.
// Valid values are 2 through 9.
func WithIndent(indent int) Option {
	return func(s *settings) error {
		if indent < 2 || indent > 9 {
			return fmt.Errorf("yaml: indent must be between 2 and 9 spaces, got %d", indent)
		}
		s.dump.Indent = indent
		return nil
	}
}

// WithLineWidth sets the preferred maximum line width for dumped
// output. Long scalars fold at whitespace boundaries to stay within
// it. Zero or negative disables folding.
func WithLineWidth(width int) Option {
	return func(s *settings) error {
		if width <= 0 {
			width = -1
		}
		s.dump.Width = width
		return nil
	}
}

// WithCompactSequenceIndent makes the sequence indicator "- " count as
// part of the indentation, aligning block sequence dashes with their
// parent mapping key.
func WithCompactSequenceIndent(compact bool) Option {
	return func(s *settings) error {
		s.dump.CompactSequenceIndent = compact
		return nil
	}
}

// WithCanonical forces canonical output: explicit document markers,
// flow collections, double-quoted scalars, and explicit tags on every
// node.
func WithCanonical(canonical bool) Option {
	return func(s *settings) error {
		s.dump.Canonical = canonical
		return nil
	}
}

// WithExplicitStart forces a "---" marker before every dumped
// document.
func WithExplicitStart(explicit bool) Option {
	return func(s *settings) error {
		s.dump.ExplicitStart = explicit
		return nil
	}
}

// WithExplicitEnd forces a "..." marker after every dumped document.
func WithExplicitEnd(explicit bool) Option {
	return func(s *settings) error {
		s.dump.ExplicitEnd = explicit
		return nil
	}
}

// WithUnicode controls whether non-ASCII characters appear verbatim in
// dumped output. When false they are escaped, which in turn forces
// double-quoted style on the values containing them.
func WithUnicode(unicode bool) Option {
	return func(s *settings) error {
		s.dump.Unicode = unicode
		return nil
	}
}

// WithFlowDefault renders collections in flow style ({a: 1}, [1, 2])
// unless a node pins a style itself. The default is block style for
// everything not marked flow.
func WithFlowDefault(flow bool) Option {
	return func(s *settings) error {
		s.dump.FlowDefault = flow
		return nil
	}
}

// WithLineBreak sets the line terminator for dumped output.
func WithLineBreak(lineBreak LineBreak) Option {
	return func(s *settings) error {
		switch lineBreak {
		case LineBreakLN, LineBreakCR, LineBreakCRLN:
		default:
			return fmt.Errorf("yaml: unknown line break style %d", lineBreak)
		}
		s.dump.LineBreak = lineBreak
		return nil
	}
}

// WithVersionDirective writes a %YAML directive before each dumped
// document. Only version 1.1 can be emitted.
func WithVersionDirective(major, minor int) Option {
	return func(s *settings) error {
		if major < 0 || major > 9 || minor < 0 || minor > 9 {
			return fmt.Errorf("yaml: invalid version directive %d.%d", major, minor)
		}
		s.dump.Version = &engine.VersionDirective{Major: int8(major), Minor: int8(minor)}
		return nil
	}
}

// WithTagDirectives writes %TAG directives before each dumped
// document and makes the emitter abbreviate matching tags through
// them.
func WithTagDirectives(directives ...TagDirective) Option {
	return func(s *settings) error {
		s.dump.TagDirectives = append(s.dump.TagDirectives[:0], directives...)
		return nil
	}
}

// WithMaxDepth bounds node nesting during loading. Input nested deeper
// fails with a ComposeError instead of exhausting the stack. The
// default is 200.
func WithMaxDepth(depth int) Option {
	return func(s *settings) error {
		if depth < 1 {
			return fmt.Errorf("yaml: max depth must be positive, got %d", depth)
		}
		s.load.MaxDepth = depth
		return nil
	}
}

// WithResolverRules puts additional implicit-typing rules in front of
// the core schema table. An earlier rule wins over a later one, so the
// given rules override the core ones where their patterns overlap.
func WithResolverRules(rules ...ResolverRule) Option {
	return func(s *settings) error {
		s.load.Resolver = engine.NewResolver(append(rules, engine.CoreRules()...)...)
		return nil
	}
}

// WithSourceName labels input positions in error messages, for example
// with a file name.
func WithSourceName(name string) Option {
	return func(s *settings) error {
		s.load.SourceName = name
		return nil
	}
}
