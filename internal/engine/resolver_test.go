// Copyright 2026 The yamlkit Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveScalars(t *testing.T) {
	tests := []struct {
		value string
		tag   string
	}{
		{"", nullTag},
		{"~", nullTag},
		{"null", nullTag},
		{"Null", nullTag},
		{"NULL", nullTag},

		{"true", boolTag},
		{"False", boolTag},
		{"yes", boolTag},
		{"NO", boolTag},
		{"on", boolTag},
		{"off", boolTag},

		{"0", intTag},
		{"-1", intTag},
		{"+42", intTag},
		{"0b1010", intTag},
		{"0x1F", intTag},
		{"0755", intTag},
		{"1:30:00", intTag},

		{"1.5", floatTag},
		{"-3.14", floatTag},
		{"6.02e+23", floatTag},
		{".inf", floatTag},
		{"-.Inf", floatTag},
		{".nan", floatTag},
		{"1:30.5", floatTag},

		{"2001-12-14", timestampTag},
		{"2001-12-14 21:59:43.10 -5", timestampTag},
		{"2001-12-15T02:59:43.1Z", timestampTag},

		{"<<", mergeTag},
		{"=", valueTag},

		{"hello", strTag},
		{"truely", strTag},
		{"y", strTag},
		{"0x", strTag},
		{"1e3", strTag},
		{"1.2.3", strTag},
		{"-", strTag},
		{"nully", strTag},
		{"12_345", strTag},
		{"0x1_F", strTag},
		{"1_000.5", strTag},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got := coreResolver.Resolve(ScalarNode, tt.value, ScalarStylePlain)
			assert.Equal(t, tt.tag, got, "value %q", tt.value)
		})
	}
}

func TestResolveQuotedIsString(t *testing.T) {
	// Any non-plain style pins the type to a string, no matter what
	// the text looks like.
	for _, style := range []ScalarStyle{
		ScalarStyleSingleQuoted,
		ScalarStyleDoubleQuoted,
		ScalarStyleLiteral,
		ScalarStyleFolded,
	} {
		assert.Equal(t, strTag, coreResolver.Resolve(ScalarNode, "123", style))
		assert.Equal(t, strTag, coreResolver.Resolve(ScalarNode, "null", style))
	}
}

func TestResolveCollections(t *testing.T) {
	assert.Equal(t, seqTag, coreResolver.Resolve(SequenceNode, "", ScalarStyleAny))
	assert.Equal(t, mapTag, coreResolver.Resolve(MappingNode, "", ScalarStyleAny))
}

func TestResolveCustomRulesWinOverCore(t *testing.T) {
	custom := Rule{
		Tag:   "!env",
		First: "$",
		Expr:  regexp.MustCompile(`^\$\{[^}]+\}$`),
	}
	r := NewResolver(append([]Rule{custom}, CoreRules()...)...)

	assert.Equal(t, "!env", r.Resolve(ScalarNode, "${HOME}", ScalarStylePlain))
	// Everything else still resolves through the core table.
	assert.Equal(t, intTag, r.Resolve(ScalarNode, "7", ScalarStylePlain))
	assert.Equal(t, strTag, r.Resolve(ScalarNode, "$HOME", ScalarStylePlain))
}

func TestResolveUnderscoresNeedCustomRule(t *testing.T) {
	// The default table treats underscore digit separators as text; a
	// rule in front of it opts in.
	underscored := Rule{
		Tag:   intTag,
		First: "-+0123456789",
		Expr:  regexp.MustCompile(`^[-+]?[0-9][0-9_]*$`),
	}
	r := NewResolver(append([]Rule{underscored}, CoreRules()...)...)

	assert.Equal(t, intTag, r.Resolve(ScalarNode, "12_345", ScalarStylePlain))
	assert.Equal(t, strTag, coreResolver.Resolve(ScalarNode, "12_345", ScalarStylePlain))
}

func TestResolveRuleOrder(t *testing.T) {
	// With two rules matching the same text, the earlier one wins.
	a := Rule{Tag: "!a", First: "x", Expr: regexp.MustCompile(`^x+$`)}
	b := Rule{Tag: "!b", First: "x", Expr: regexp.MustCompile(`^x+$`)}

	assert.Equal(t, "!a", NewResolver(a, b).Resolve(ScalarNode, "xx", ScalarStylePlain))
	assert.Equal(t, "!b", NewResolver(b, a).Resolve(ScalarNode, "xx", ScalarStylePlain))
}

func TestCoreRulesCopy(t *testing.T) {
	rules := CoreRules()
	require.NotEmpty(t, rules)
	rules[0].Tag = "!mutated"

	// The resolver's own table must be unaffected.
	assert.Equal(t, nullTag, coreResolver.Resolve(ScalarNode, "~", ScalarStylePlain))
}
