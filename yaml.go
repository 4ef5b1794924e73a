// Copyright 2026 The yamlkit Authors
// SPDX-License-Identifier: Apache-2.0

// Package yaml reads and writes YAML 1.1 documents as node graphs.
//
// Loading runs a five stage pipeline: a reader decodes the input
// encoding into validated UTF-8, a scanner produces tokens, a parser
// turns tokens into events, a resolver assigns implicit tags, and a
// composer builds the node graph, sharing a single *Node per anchor so
// aliases keep identity and cycles load as cyclic graphs. Dumping runs
// the pipeline backwards: a serializer walks the graph and rediscovers
// shared nodes, and an emitter formats the resulting events as text.
//
// The simple entry points are Load and Dump:
//
//	node, err := yaml.Load([]byte("a: [1, 2]"))
//	...
//	out, err := yaml.Dump(node)
//
// Loader and Dumper stream documents one at a time over an io.Reader
// or io.Writer. Both accept the same Option values.
package yaml

import (
	"bytes"
	"errors"
	"io"

	"github.com/yamlkit/yaml/internal/engine"
)

// Node is one vertex of a document graph. Aliased nodes are shared
// pointers, so graph identity survives a load/dump round trip.
type Node = engine.Node

// Kind discriminates scalars, sequences, and mappings.
type Kind = engine.Kind

// Style is a bit set of presentation hints carried by a Node.
type Style = engine.Style

// Mark is a position in the input, used in error messages.
type Mark = engine.Mark

// TagDirective associates a tag handle with a prefix, as written by a
// %TAG directive.
type TagDirective = engine.TagDirective

// VersionDirective is the version named by a %YAML directive.
type VersionDirective = engine.VersionDirective

// ResolverRule maps a scalar pattern to a tag during implicit typing.
// See WithResolverRules.
type ResolverRule = engine.Rule

// LineBreak selects the line terminator for dumped output.
type LineBreak = engine.LineBreak

const (
	ScalarNode   = engine.ScalarNode
	SequenceNode = engine.SequenceNode
	MappingNode  = engine.MappingNode
)

const (
	TaggedStyle       = engine.TaggedStyle
	SingleQuotedStyle = engine.SingleQuotedStyle
	DoubleQuotedStyle = engine.DoubleQuotedStyle
	LiteralStyle      = engine.LiteralStyle
	FoldedStyle       = engine.FoldedStyle
	FlowStyle         = engine.FlowStyle
)

const (
	LineBreakLN   = engine.BreakLN
	LineBreakCR   = engine.BreakCR
	LineBreakCRLN = engine.BreakCRLN
)

// The pipeline stages report failures through these types. Each one
// carries the position where the problem was found.
type (
	ReadError    = engine.ReadError
	ScanError    = engine.ScanError
	ParseError   = engine.ParseError
	ComposeError = engine.ComposeError
	EmitError    = engine.EmitError
	WriteError   = engine.WriteError
)

// CoreResolverRules returns a copy of the implicit-typing table used by
// default: null, bool, int, float, timestamp, merge, and value, in that
// order, with !!str as the fallback.
func CoreResolverRules() []ResolverRule { return engine.CoreRules() }

// Load reads a single document and returns its root node. It fails if
// the stream holds more than one document; it returns io.EOF if the
// stream holds none.
func Load(in []byte, opts ...Option) (*Node, error) {
	l, err := NewLoader(bytes.NewReader(in), opts...)
	if err != nil {
		return nil, err
	}
	node, err := l.Load()
	if err != nil {
		return nil, err
	}
	switch _, err := l.Load(); err {
	case io.EOF:
		return node, nil
	case nil:
		return nil, errors.New("yaml: expected a single document in the stream")
	default:
		return nil, err
	}
}

// LoadAll reads every document in the stream.
func LoadAll(in []byte, opts ...Option) ([]*Node, error) {
	l, err := NewLoader(bytes.NewReader(in), opts...)
	if err != nil {
		return nil, err
	}
	var nodes []*Node
	for {
		node, err := l.Load()
		if err == io.EOF {
			return nodes, nil
		}
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
}

// Loader reads a stream of YAML documents one at a time.
type Loader struct {
	composer *engine.Composer
}

// NewLoader returns a loader reading documents from r.
func NewLoader(r io.Reader, opts ...Option) (*Loader, error) {
	s, err := newSettings(opts)
	if err != nil {
		return nil, err
	}
	reader := engine.NewReader(r, s.load.SourceName)
	parser := engine.NewParser(engine.NewScanner(reader))
	return &Loader{composer: engine.NewComposer(parser, s.load)}, nil
}

// Load returns the next document's root node, or io.EOF when the
// stream ends. After any other error the loader is unusable; a
// malformed document leaves no reliable boundary to resume from.
func (l *Loader) Load() (*Node, error) {
	return l.composer.Compose()
}

// Dump renders a single document.
func Dump(node *Node, opts ...Option) ([]byte, error) {
	return DumpAll([]*Node{node}, opts...)
}

// DumpAll renders each node as one document of a multi-document
// stream.
func DumpAll(nodes []*Node, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	d, err := NewDumper(&buf, opts...)
	if err != nil {
		return nil, err
	}
	for _, node := range nodes {
		if err := d.Dump(node); err != nil {
			return nil, err
		}
	}
	if err := d.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Dumper writes a stream of YAML documents.
type Dumper struct {
	serializer *engine.Serializer
}

// NewDumper returns a dumper writing documents to w.
func NewDumper(w io.Writer, opts ...Option) (*Dumper, error) {
	s, err := newSettings(opts)
	if err != nil {
		return nil, err
	}
	return &Dumper{serializer: engine.NewSerializer(w, s.dump, s.load.Resolver)}, nil
}

// Dump writes one document. Documents after the first are separated
// with "---" automatically.
func (d *Dumper) Dump(node *Node) error {
	return d.serializer.Serialize(node)
}

// Close ends the stream and flushes buffered output. No documents can
// be written afterwards.
func (d *Dumper) Close() error {
	return d.serializer.Close()
}
