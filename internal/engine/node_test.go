// Copyright 2026 The yamlkit Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShortTag(t *testing.T) {
	tests := []struct {
		node *Node
		want string
	}{
		{&Node{Kind: ScalarNode, Tag: "tag:yaml.org,2002:str"}, strTag},
		{&Node{Kind: ScalarNode, Tag: strTag}, strTag},
		{&Node{Kind: ScalarNode, Tag: "!custom"}, "!custom"},
		{&Node{Kind: ScalarNode}, strTag},
		{&Node{Kind: SequenceNode}, seqTag},
		{&Node{Kind: MappingNode}, mapTag},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.node.ShortTag())
	}
}

func TestTagConversion(t *testing.T) {
	assert.Equal(t, "tag:yaml.org,2002:int", longTag("!!int"))
	assert.Equal(t, "!custom", longTag("!custom"))
	assert.Equal(t, "!!int", shortTag("tag:yaml.org,2002:int"))
	assert.Equal(t, "tag:example.com:x", shortTag("tag:example.com:x"))
}

func TestIsZero(t *testing.T) {
	assert.True(t, (&Node{}).IsZero())
	assert.False(t, (&Node{Kind: ScalarNode}).IsZero())
	assert.False(t, (&Node{Value: "x"}).IsZero())
	assert.False(t, (&Node{Anchor: "a"}).IsZero())
}

func TestScalarStyleQuoted(t *testing.T) {
	assert.True(t, ScalarStyleSingleQuoted.Quoted())
	assert.True(t, ScalarStyleDoubleQuoted.Quoted())
	assert.True(t, ScalarStyleLiteral.Quoted())
	assert.True(t, ScalarStyleFolded.Quoted())
	assert.False(t, ScalarStylePlain.Quoted())
	assert.False(t, ScalarStyleAny.Quoted())
}

func TestStyleScalarStyleRoundTrip(t *testing.T) {
	for _, style := range []ScalarStyle{
		ScalarStyleSingleQuoted,
		ScalarStyleDoubleQuoted,
		ScalarStyleLiteral,
		ScalarStyleFolded,
	} {
		assert.Equal(t, style, styleFromScalar(style).ScalarStyle())
	}
	assert.Equal(t, ScalarStyleAny, styleFromScalar(ScalarStylePlain).ScalarStyle())
}
