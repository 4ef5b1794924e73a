// Copyright 2026 The yamlkit Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scanBytes runs the scanner over raw input and returns the scalar
// values seen, or the first error.
func scanBytes(input []byte) ([]string, error) {
	s := NewScanner(NewReader(bytes.NewReader(input), "test"))
	var values []string
	var tok Token
	for {
		if err := s.Scan(&tok); err != nil {
			return values, err
		}
		if tok.Kind == TokenScalar {
			values = append(values, string(tok.Value))
		}
		if tok.Kind == TokenStreamEnd {
			return values, nil
		}
	}
}

func utf16le(s string) []byte {
	out := []byte{0xFF, 0xFE}
	for _, r := range s {
		out = append(out, byte(r), byte(r>>8))
	}
	return out
}

func utf16be(s string) []byte {
	out := []byte{0xFE, 0xFF}
	for _, r := range s {
		out = append(out, byte(r>>8), byte(r))
	}
	return out
}

func TestReaderUTF8(t *testing.T) {
	values, err := scanBytes([]byte("a: 1\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "1"}, values)
}

func TestReaderUTF8BOM(t *testing.T) {
	values, err := scanBytes(append([]byte{0xEF, 0xBB, 0xBF}, "a: 1\n"...))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "1"}, values)
}

func TestReaderUTF16(t *testing.T) {
	values, err := scanBytes(utf16le("key: café\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"key", "café"}, values)

	values, err = scanBytes(utf16be("key: value\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"key", "value"}, values)
}

func TestReaderUTF16WithoutBOM(t *testing.T) {
	// The encoding is inferred from the null-byte pattern of the first
	// character, which must be ASCII.
	input := utf16le("a: 1\n")[2:]
	values, err := scanBytes(input)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "1"}, values)
}

func TestReaderUTF32(t *testing.T) {
	input := []byte{0x00, 0x00, 0xFE, 0xFF}
	for _, r := range "a: 1\n" {
		input = append(input, byte(r>>24), byte(r>>16), byte(r>>8), byte(r))
	}
	values, err := scanBytes(input)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "1"}, values)
}

func TestReaderInvalidUTF8(t *testing.T) {
	_, err := scanBytes([]byte("ok: \xc3(\n"))
	require.Error(t, err)
	var readErr *ReadError
	require.ErrorAs(t, err, &readErr)
	assert.Contains(t, err.Error(), "invalid UTF-8")
}

func TestReaderTruncatedUTF8(t *testing.T) {
	_, err := scanBytes([]byte("ok: \xc3"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UTF-8")
}

func TestReaderErrorSnippet(t *testing.T) {
	// The message carries the offending line with a caret marker.
	_, err := scanBytes([]byte("ok: \xc3(\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ok:")
	assert.Contains(t, err.Error(), "^")
}

func TestReaderRejectsControlCharacters(t *testing.T) {
	_, err := scanBytes([]byte("a: \x07bell\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unacceptable character")
}

func TestReaderLargeInput(t *testing.T) {
	// Exceeds the internal chunk size several times over.
	var sb strings.Builder
	for i := 0; i < 2000; i++ {
		sb.WriteString("key")
		sb.WriteString(string(rune('a' + i%26)))
		sb.WriteString(": some moderately long value text\n")
	}
	values, err := scanBytes([]byte(sb.String()))
	require.NoError(t, err)
	assert.Len(t, values, 4000)
}
