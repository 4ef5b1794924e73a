// Copyright 2006-2010 Kirill Simonov
// Copyright 2011-2019 Canonical Ltd
// Copyright 2026 The yamlkit Authors
// SPDX-License-Identifier: Apache-2.0 AND MIT

// Byte-level character classification over UTF-8 buffers. The scanner
// and emitter index raw bytes and ask these predicates about the rune
// starting at that byte.

package engine

// isAlpha reports whether the character at position i is
// alphanumerical, '_', or '-'.
func isAlpha(b []byte, i int) bool {
	return b[i] >= '0' && b[i] <= '9' ||
		b[i] >= 'A' && b[i] <= 'Z' ||
		b[i] >= 'a' && b[i] <= 'z' ||
		b[i] == '_' || b[i] == '-'
}

// isDigit reports whether the character at position i is a decimal digit.
func isDigit(b []byte, i int) bool {
	return b[i] >= '0' && b[i] <= '9'
}

// asDigit returns the numeric value of the decimal digit at position i.
func asDigit(b []byte, i int) int {
	return int(b[i]) - '0'
}

// isHex reports whether the character at position i is a hex digit.
func isHex(b []byte, i int) bool {
	return b[i] >= '0' && b[i] <= '9' ||
		b[i] >= 'A' && b[i] <= 'F' ||
		b[i] >= 'a' && b[i] <= 'f'
}

// asHex returns the numeric value of the hex digit at position i.
func asHex(b []byte, i int) int {
	switch {
	case b[i] >= 'A' && b[i] <= 'F':
		return int(b[i]) - 'A' + 10
	case b[i] >= 'a' && b[i] <= 'f':
		return int(b[i]) - 'a' + 10
	}
	return int(b[i]) - '0'
}

// isASCII reports whether the character at position i is ASCII.
func isASCII(b []byte, i int) bool {
	return b[i] <= 0x7F
}

// isPrintable reports whether the character at position i is printable
// per the YAML character set (TAB, LF, CR, printable ASCII, NEL, and
// the non-surrogate unicode planes minus FFFE/FFFF).
func isPrintable(b []byte, i int) bool {
	return ((b[i] == 0x0A) || // . == #x0A
		(b[i] >= 0x20 && b[i] <= 0x7E) || // #x20 <= . <= #x7E
		(b[i] == 0xC2 && b[i+1] >= 0xA0) || // #0xA0 <= . <= #xD7FF
		(b[i] > 0xC2 && b[i] < 0xED) ||
		(b[i] == 0xED && b[i+1] < 0xA0) ||
		(b[i] == 0xEE) ||
		(b[i] == 0xEF && // #xE000 <= . <= #xFFFD
			!(b[i+1] == 0xBB && b[i+2] == 0xBF) && // && . != #xFEFF
			!(b[i+1] == 0xBF && (b[i+2] == 0xBE || b[i+2] == 0xBF))))
}

// isZero reports whether the character at position i is NUL.
func isZero(b []byte, i int) bool {
	return b[i] == 0x00
}

// isBOM reports whether the character at position i is a UTF-8 BOM.
func isBOM(b []byte, i int) bool {
	return b[i] == 0xEF && b[i+1] == 0xBB && b[i+2] == 0xBF
}

// isSpace reports whether the character at position i is space.
func isSpace(b []byte, i int) bool {
	return b[i] == ' '
}

// isTab reports whether the character at position i is tab.
func isTab(b []byte, i int) bool {
	return b[i] == '\t'
}

// isBlank reports whether the character at position i is blank (space or tab).
func isBlank(b []byte, i int) bool {
	return b[i] == ' ' || b[i] == '\t'
}

// isBreak reports whether the character at position i is a line break
// (LF, CR, NEL, LS, PS).
func isBreak(b []byte, i int) bool {
	return b[i] == '\r' || // CR (#xD)
		b[i] == '\n' || // LF (#xA)
		b[i] == 0xC2 && b[i+1] == 0x85 || // NEL (#x85)
		b[i] == 0xE2 && b[i+1] == 0x80 && b[i+2] == 0xA8 || // LS (#x2028)
		b[i] == 0xE2 && b[i+1] == 0x80 && b[i+2] == 0xA9 // PS (#x2029)
}

// isCRLF reports whether the characters at position i form CR LF.
func isCRLF(b []byte, i int) bool {
	return b[i] == '\r' && b[i+1] == '\n'
}

// isBreakOrZero reports whether the character at position i is a line
// break or NUL.
func isBreakOrZero(b []byte, i int) bool {
	return isBreak(b, i) || isZero(b, i)
}

// isBlankOrZero reports whether the character at position i is a blank,
// a line break, or NUL.
func isBlankOrZero(b []byte, i int) bool {
	return isBlank(b, i) || isBreakOrZero(b, i)
}

// isFlowIndicator reports whether the character at position i is one of
// the five flow indicators.
func isFlowIndicator(b []byte, i int) bool {
	switch b[i] {
	case ',', '[', ']', '{', '}':
		return true
	}
	return false
}

// isAnchorChar reports whether the character at position i may appear
// in an anchor or alias name: any non-blank, non-NUL character that is
// not a flow indicator.
func isAnchorChar(b []byte, i int) bool {
	return !isBlankOrZero(b, i) && !isFlowIndicator(b, i)
}

// isTagURIChar reports whether the character at position i may appear
// unescaped in a tag. Verbatim tags (!<...>) additionally permit the
// flow indicators.
func isTagURIChar(b []byte, i int, verbatim bool) bool {
	switch b[i] {
	case ';', '/', '?', ':', '@', '&', '=', '+', '$', '_',
		'.', '!', '~', '*', '\'', '(', ')', '%':
		return true
	case ',', '[', ']':
		return verbatim
	}
	return isAlpha(b, i)
}

// width returns the byte width of the UTF-8 rune whose first byte is c.
func width(c byte) int {
	switch {
	case c&0x80 == 0x00:
		return 1
	case c&0xE0 == 0xC0:
		return 2
	case c&0xF0 == 0xE0:
		return 3
	case c&0xF8 == 0xF0:
		return 4
	}
	return 0
}
