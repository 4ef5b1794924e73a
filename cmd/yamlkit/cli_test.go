// Copyright 2026 The yamlkit Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCLI executes the root command against a temp file holding input.
func runCLI(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	file := filepath.Join(t.TempDir(), "in.yaml")
	require.NoError(t, os.WriteFile(file, []byte(input), 0o600))

	var out bytes.Buffer
	root := rootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args, file))
	err := root.Execute()
	return out.String(), err
}

func TestTokensCommand(t *testing.T) {
	out, err := runCLI(t, "a: 1\n", "tokens")
	require.NoError(t, err)
	assert.Contains(t, out, "stream-start")
	assert.Contains(t, out, "block-mapping-start")
	assert.Contains(t, out, `scalar	plain "a"`)
	assert.Contains(t, out, `scalar	plain "1"`)
	assert.Contains(t, out, "stream-end")
}

func TestEventsCommand(t *testing.T) {
	out, err := runCLI(t, "a: [1, 2]\n", "events")
	require.NoError(t, err)
	assert.Contains(t, out, "document-start")
	assert.Contains(t, out, "mapping-start")
	assert.Contains(t, out, "sequence-start")
	assert.Contains(t, out, `plain "a"`)
}

func TestNodesCommand(t *testing.T) {
	out, err := runCLI(t, "a: 1\n", "nodes")
	require.NoError(t, err)
	assert.Equal(t, "document 1\n  mapping !!map\n    scalar !!str \"a\"\n    scalar !!int \"1\"\n", out)
}

func TestNodesCommandCycle(t *testing.T) {
	out, err := runCLI(t, "&top\nself: *top\n", "nodes")
	require.NoError(t, err)
	assert.Contains(t, out, "&top")
	assert.Contains(t, out, "*top")
}

func TestJSONCommand(t *testing.T) {
	out, err := runCLI(t, "a: 1\nb: [true, ~]\nc: 'text'\n", "json")
	require.NoError(t, err)
	assert.Equal(t, "{\"a\":1,\"b\":[true,null],\"c\":\"text\"}\n", out)
}

func TestJSONCommandPretty(t *testing.T) {
	out, err := runCLI(t, "a: 1\n", "json", "--pretty")
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": 1\n}\n", out)
}

func TestJSONCommandMultiDoc(t *testing.T) {
	out, err := runCLI(t, "---\n1\n---\n2\n", "json")
	require.NoError(t, err)
	assert.Equal(t, "1\n2\n", out)
}

func TestJSONCommandRejectsCycle(t *testing.T) {
	_, err := runCLI(t, "&a\nself: *a\n", "json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cyclic")
}

func TestFmtCommand(t *testing.T) {
	out, err := runCLI(t, "a:    1\nb:\n    - x\n", "fmt")
	require.NoError(t, err)
	assert.Equal(t, "a: 1\nb:\n  - x\n", out)
}

func TestFmtCommandFlags(t *testing.T) {
	out, err := runCLI(t, "a:\n  b: 1\n", "fmt", "--indent", "4")
	require.NoError(t, err)
	assert.Equal(t, "a:\n    b: 1\n", out)

	out, err = runCLI(t, "a: 1\n", "fmt", "--explicit-start")
	require.NoError(t, err)
	assert.Equal(t, "---\na: 1\n", out)

	_, err = runCLI(t, "a: 1\n", "fmt", "--line-break", "junk")
	require.Error(t, err)
}

func TestFmtCommandBadInput(t *testing.T) {
	_, err := runCLI(t, "a: [1,\n", "fmt")
	require.Error(t, err)
}

func TestParseIntValues(t *testing.T) {
	tests := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"0", 0, true},
		{"42", 42, true},
		{"-7", -7, true},
		{"+7", 7, true},
		{"12_345", 12345, true},
		{"0x1F", 31, true},
		{"0b101", 5, true},
		{"0755", 493, true},
		{"1:30", 90, true},
		{"1:30:00", 5400, true},
		{"", 0, false},
		{"nope", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseInt(tt.in)
		assert.Equal(t, tt.ok, ok, "input %q", tt.in)
		if tt.ok {
			assert.Equal(t, tt.want, got, "input %q", tt.in)
		}
	}
}

func TestParseFloatValues(t *testing.T) {
	got, ok := parseFloat("1.5")
	require.True(t, ok)
	assert.Equal(t, 1.5, got)

	got, ok = parseFloat("1:30.0")
	require.True(t, ok)
	assert.Equal(t, 90.0, got)

	got, ok = parseFloat("-.inf")
	require.True(t, ok)
	assert.True(t, got < 0)

	_, ok = parseFloat("x")
	assert.False(t, ok)
}
