// Copyright 2026 The yamlkit Authors
// SPDX-License-Identifier: Apache-2.0

package yaml_test

import (
	"bytes"
	"io"
	"regexp"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yamlkit/yaml"
)

var ignoreMarks = cmpopts.IgnoreFields(yaml.Node{}, "Mark")

func TestLoadEndToEnd(t *testing.T) {
	root, err := yaml.Load([]byte("a: [1, 2, {b: true}]\n"))
	require.NoError(t, err)

	want := &yaml.Node{
		Kind: yaml.MappingNode,
		Tag:  "!!map",
		Content: []*yaml.Node{
			{Kind: yaml.ScalarNode, Tag: "!!str", Value: "a"},
			{
				Kind:  yaml.SequenceNode,
				Tag:   "!!seq",
				Style: yaml.FlowStyle,
				Content: []*yaml.Node{
					{Kind: yaml.ScalarNode, Tag: "!!int", Value: "1"},
					{Kind: yaml.ScalarNode, Tag: "!!int", Value: "2"},
					{
						Kind:  yaml.MappingNode,
						Tag:   "!!map",
						Style: yaml.FlowStyle,
						Content: []*yaml.Node{
							{Kind: yaml.ScalarNode, Tag: "!!str", Value: "b"},
							{Kind: yaml.ScalarNode, Tag: "!!bool", Value: "true"},
						},
					},
				},
			},
		},
	}
	if diff := cmp.Diff(want, root, ignoreMarks); diff != "" {
		t.Errorf("node graph mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadRejectsMultipleDocuments(t *testing.T) {
	_, err := yaml.Load([]byte("a\n---\nb\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "single document")
}

func TestLoadEmptyInput(t *testing.T) {
	_, err := yaml.Load(nil)
	assert.Equal(t, io.EOF, err)
}

func TestLoadAll(t *testing.T) {
	docs, err := yaml.LoadAll([]byte("one\n---\ntwo\n---\nthree\n"))
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "one", docs[0].Value)
	assert.Equal(t, "three", docs[2].Value)
}

func TestLoaderStream(t *testing.T) {
	l, err := yaml.NewLoader(strings.NewReader("a: 1\n---\nb: 2\n"))
	require.NoError(t, err)

	first, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, "a", first.Content[0].Value)

	second, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, "b", second.Content[0].Value)

	_, err = l.Load()
	assert.Equal(t, io.EOF, err)
}

func TestDumperStream(t *testing.T) {
	var buf bytes.Buffer
	d, err := yaml.NewDumper(&buf)
	require.NoError(t, err)

	require.NoError(t, d.Dump(&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: "one"}))
	require.NoError(t, d.Dump(&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: "two"}))
	require.NoError(t, d.Close())

	assert.Equal(t, "one\n---\ntwo\n", buf.String())
}

func TestRoundTripIdempotence(t *testing.T) {
	inputs := []string{
		"a: 1\nb: two\n",
		"a: [1, 2]\n",
		"a:\n  - x\n  - y\n",
		"a: &x 1\nb: *x\n",
		"a: '123'\n",
		"t: !!str 5\n",
	}
	for _, input := range inputs {
		first, err := yaml.Load([]byte(input))
		require.NoError(t, err, "input %q", input)
		out1, err := yaml.Dump(first)
		require.NoError(t, err, "input %q", input)

		second, err := yaml.Load(out1)
		require.NoError(t, err, "dumped %q", out1)
		out2, err := yaml.Dump(second)
		require.NoError(t, err)

		assert.Equal(t, string(out1), string(out2), "input %q", input)
	}
}

func TestRoundTripPreservesAnchorIdentity(t *testing.T) {
	root, err := yaml.Load([]byte("a: &x {v: 1}\nb: *x\n"))
	require.NoError(t, err)
	require.Same(t, root.Content[1], root.Content[3])

	out, err := yaml.Dump(root)
	require.NoError(t, err)

	reloaded, err := yaml.Load(out)
	require.NoError(t, err)
	assert.Same(t, reloaded.Content[1], reloaded.Content[3])
}

func TestCyclicGraphDumpAndReload(t *testing.T) {
	root, err := yaml.Load([]byte("&top\nself: *top\n"))
	require.NoError(t, err)
	require.Same(t, root, root.Content[1])

	out, err := yaml.Dump(root)
	require.NoError(t, err)

	reloaded, err := yaml.Load(out)
	require.NoError(t, err)
	assert.Same(t, reloaded, reloaded.Content[1])
}

func TestImplicitTypingRespectsQuoting(t *testing.T) {
	root, err := yaml.Load([]byte("a: 123\nb: '123'\nc: yes\nd: 'yes'\n"))
	require.NoError(t, err)

	assert.Equal(t, "!!int", root.Content[1].Tag)
	assert.Equal(t, "!!str", root.Content[3].Tag)
	assert.Equal(t, "!!bool", root.Content[5].Tag)
	assert.Equal(t, "!!str", root.Content[7].Tag)
}

func TestQuotedStringSurvivesRoundTrip(t *testing.T) {
	root, err := yaml.Load([]byte("a: '123'\n"))
	require.NoError(t, err)
	out, err := yaml.Dump(root)
	require.NoError(t, err)

	reloaded, err := yaml.Load(out)
	require.NoError(t, err)
	assert.Equal(t, "!!str", reloaded.Content[1].Tag)
	assert.Equal(t, "123", reloaded.Content[1].Value)
}

func TestIndentationError(t *testing.T) {
	_, err := yaml.Load([]byte("a:\n\t- b\n"), yaml.WithSourceName("bad.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.yaml")
}

func TestDepthGuard(t *testing.T) {
	deep := strings.Repeat("[", 50) + strings.Repeat("]", 50) + "\n"

	_, err := yaml.Load([]byte(deep), yaml.WithMaxDepth(10))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nesting exceeds")

	_, err = yaml.Load([]byte(deep), yaml.WithMaxDepth(100))
	assert.NoError(t, err)
}

func TestOptionValidation(t *testing.T) {
	_, err := yaml.Load([]byte("a\n"), yaml.WithIndent(1))
	assert.Error(t, err)

	_, err = yaml.Load([]byte("a\n"), yaml.WithMaxDepth(0))
	assert.Error(t, err)

	_, err = yaml.Dump(nil, yaml.WithVersionDirective(1, 12))
	assert.Error(t, err)

	_, err = yaml.Dump(nil, yaml.WithLineBreak(yaml.LineBreak(42)))
	assert.Error(t, err)
}

func TestWithIndent(t *testing.T) {
	root, err := yaml.Load([]byte("a:\n  b: 1\n"))
	require.NoError(t, err)

	out, err := yaml.Dump(root, yaml.WithIndent(4))
	require.NoError(t, err)
	assert.Equal(t, "a:\n    b: 1\n", string(out))
}

func TestWithLineWidthFolding(t *testing.T) {
	long := strings.TrimSpace(strings.Repeat("word ", 40))
	root := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map", Content: []*yaml.Node{
		{Kind: yaml.ScalarNode, Tag: "!!str", Value: "key"},
		{Kind: yaml.ScalarNode, Tag: "!!str", Value: long},
	}}

	folded, err := yaml.Dump(root)
	require.NoError(t, err)
	assert.Greater(t, len(strings.Split(strings.TrimSuffix(string(folded), "\n"), "\n")), 1)

	reloaded, err := yaml.Load(folded)
	require.NoError(t, err)
	assert.Equal(t, long, reloaded.Content[1].Value)

	unfolded, err := yaml.Dump(root, yaml.WithLineWidth(0))
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSuffix(string(unfolded), "\n"), "\n"), 1)
}

func TestWithUnicodeEscaping(t *testing.T) {
	root := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: "caf\u00e9"}

	out, err := yaml.Dump(root, yaml.WithUnicode(false))
	require.NoError(t, err)
	for _, b := range out {
		assert.Less(t, b, byte(0x80), "output must be pure ASCII: %q", out)
	}

	reloaded, err := yaml.Load(out)
	require.NoError(t, err)
	assert.Equal(t, "caf\u00e9", reloaded.Value)
}

func TestWithFlowDefault(t *testing.T) {
	root, err := yaml.Load([]byte("a:\n  - 1\n  - 2\n"))
	require.NoError(t, err)

	out, err := yaml.Dump(root, yaml.WithFlowDefault(true))
	require.NoError(t, err)
	assert.Equal(t, "{a: [1, 2]}\n", string(out))
}

func TestWithResolverRules(t *testing.T) {
	rule := yaml.ResolverRule{
		Tag:   "!env",
		First: "$",
		Expr:  regexp.MustCompile(`^\$\{[^}]+\}$`),
	}

	root, err := yaml.Load([]byte("home: ${HOME}\nport: 80\n"), yaml.WithResolverRules(rule))
	require.NoError(t, err)
	assert.Equal(t, "!env", root.Content[1].Tag)
	assert.Equal(t, "!!int", root.Content[3].Tag)
}

func TestUTF16Input(t *testing.T) {
	// "a: 1\n" encoded as UTF-16LE with a BOM.
	input := []byte{0xFF, 0xFE}
	for _, r := range "a: 1\n" {
		input = append(input, byte(r), 0)
	}

	root, err := yaml.Load(input)
	require.NoError(t, err)
	assert.Equal(t, "a", root.Content[0].Value)
	assert.Equal(t, "1", root.Content[1].Value)
}

func TestErrorTypes(t *testing.T) {
	_, err := yaml.Load([]byte("a: *missing\n"))
	var composeErr *yaml.ComposeError
	require.ErrorAs(t, err, &composeErr)

	_, err = yaml.Load([]byte("[1, 2\n"))
	var parseErr *yaml.ParseError
	require.ErrorAs(t, err, &parseErr)

	_, err = yaml.Load([]byte("a:\n\t- b\n"))
	var scanErr *yaml.ScanError
	require.ErrorAs(t, err, &scanErr)
}

func TestDumpAllExplicitMarkers(t *testing.T) {
	docs, err := yaml.LoadAll([]byte("one\n---\ntwo\n"))
	require.NoError(t, err)

	out, err := yaml.DumpAll(docs, yaml.WithExplicitStart(true), yaml.WithExplicitEnd(true))
	require.NoError(t, err)
	assert.Equal(t, "---\none\n...\n---\ntwo\n...\n", string(out))
}
