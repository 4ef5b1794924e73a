// Copyright 2006-2010 Kirill Simonov
// Copyright 2011-2019 Canonical Ltd
// Copyright 2026 The yamlkit Authors
// SPDX-License-Identifier: Apache-2.0 AND MIT

package engine

import (
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
	"golang.org/x/text/transform"
)

const readChunk = 1024

// Reader turns an arbitrary byte stream into a validated UTF-8 window
// the scanner can index directly. It sniffs the input encoding from the
// first bytes (BOM or null-byte pattern), transcodes UTF-16 and UTF-32
// through x/text, rejects malformed sequences and non-printable
// characters, and keeps the window rune-complete so that byte-level
// lookahead never lands inside a character.
type Reader struct {
	src     io.Reader
	decoded io.Reader
	started bool

	// transcoded is set when the input went through an x/text decoder,
	// in which case a replacement character in the output signals an
	// invalid source sequence rather than literal input.
	transcoded bool

	// buf[pos:] holds unread validated UTF-8 bytes. After EOF the
	// window is NUL padded so lookahead predicates stay in bounds.
	buf    []byte
	pos    int
	unread int // complete runes in buf[pos:], padding excluded

	pending []byte // decoded but not yet validated (may end mid-rune)
	chunk   []byte

	eof bool
	err error

	// mark is the position of buf[pos]; tailMark the position just
	// past the last validated rune, used for read error messages.
	mark     Mark
	tailMark Mark
	tailCR   bool

	// lineStart is the offset in buf of the line mark sits on; prevLine
	// keeps the completed line before it. Both feed error snippets.
	lineStart int
	prevLine  string
}

// NewReader returns a reader decoding src. The name labels positions
// in error messages.
func NewReader(src io.Reader, name string) *Reader {
	return &Reader{
		src:      src,
		mark:     Mark{Name: name, Line: 1},
		tailMark: Mark{Name: name, Line: 1},
	}
}

// cache ensures at least n unread characters are buffered, or the
// stream has ended. After a successful return with unread < n the
// window is NUL padded and r.eof is set.
func (r *Reader) cache(n int) error {
	for r.unread < n {
		if r.err != nil {
			return r.err
		}
		if r.eof {
			return nil
		}
		if err := r.fill(); err != nil {
			r.err = err
			return err
		}
	}
	return nil
}

func (r *Reader) fill() error {
	if !r.started {
		if err := r.start(); err != nil {
			return err
		}
		r.started = true
	}
	if r.pos > readChunk && len(r.buf)-r.pos < r.pos {
		r.buf = append(r.buf[:0], r.buf[r.pos:]...)
		r.lineStart -= r.pos
		if r.lineStart < 0 {
			r.lineStart = 0
		}
		r.pos = 0
	}
	if r.chunk == nil {
		r.chunk = make([]byte, readChunk)
	}
	n, err := r.decoded.Read(r.chunk)
	if n > 0 {
		r.pending = append(r.pending, r.chunk[:n]...)
		if verr := r.validatePending(false); verr != nil {
			return verr
		}
	}
	switch err {
	case nil:
	case io.EOF:
		if verr := r.validatePending(true); verr != nil {
			return verr
		}
		r.eof = true
		r.buf = append(r.buf, 0, 0, 0, 0)
	default:
		return r.readError("input error: " + err.Error())
	}
	return nil
}

// start sniffs the encoding and arranges transcoding to UTF-8.
func (r *Reader) start() error {
	head := make([]byte, 4)
	n, err := io.ReadFull(r.src, head)
	switch err {
	case nil, io.ErrUnexpectedEOF, io.EOF:
	default:
		return r.readError("input error: " + err.Error())
	}
	head = head[:n]

	enc, bom := sniffEncoding(head)
	rest := io.MultiReader(bytes.NewReader(head[bom:]), r.src)
	if enc != nil {
		r.decoded = transform.NewReader(rest, enc.NewDecoder())
		r.transcoded = true
	} else {
		r.decoded = rest
	}
	return nil
}

// sniffEncoding inspects the first bytes of the stream and returns the
// decoder to apply (nil for UTF-8) and the length of the BOM to strip.
// Without a BOM the encoding is inferred from where the null bytes sit
// in the first character, which for YAML must be ASCII.
func sniffEncoding(head []byte) (encoding.Encoding, int) {
	switch {
	case len(head) >= 4 && head[0] == 0x00 && head[1] == 0x00 && head[2] == 0xFE && head[3] == 0xFF:
		return utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM), 4
	case len(head) >= 4 && head[0] == 0xFF && head[1] == 0xFE && head[2] == 0x00 && head[3] == 0x00:
		return utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM), 4
	case len(head) >= 4 && head[0] == 0x00 && head[1] == 0x00 && head[2] == 0x00 && head[3] != 0x00:
		return utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM), 0
	case len(head) >= 4 && head[0] != 0x00 && head[1] == 0x00 && head[2] == 0x00 && head[3] == 0x00:
		return utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM), 0
	case len(head) >= 3 && head[0] == 0xEF && head[1] == 0xBB && head[2] == 0xBF:
		return nil, 3
	case len(head) >= 2 && head[0] == 0xFE && head[1] == 0xFF:
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM), 2
	case len(head) >= 2 && head[0] == 0xFF && head[1] == 0xFE:
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM), 2
	case len(head) >= 2 && head[0] == 0x00 && head[1] != 0x00:
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM), 0
	case len(head) >= 2 && head[0] != 0x00 && head[1] == 0x00:
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM), 0
	}
	return nil, 0
}

// validatePending moves complete, acceptable runes from pending into
// the window. A trailing partial rune is left pending unless the stream
// has ended, in which case it is an error.
func (r *Reader) validatePending(atEOF bool) error {
	p := r.pending
	i := 0
	var problem string
	for i < len(p) {
		c, size := utf8.DecodeRune(p[i:])
		if c == utf8.RuneError && size <= 1 {
			if !atEOF && !utf8.FullRune(p[i:]) {
				break
			}
			problem = "invalid UTF-8 octet sequence"
			break
		}
		if r.transcoded && c == utf8.RuneError {
			problem = "invalid byte sequence in input encoding"
			break
		}
		if !printableRune(c) {
			problem = fmt.Sprintf("unacceptable character %#U", c)
			break
		}
		i += size
		r.unread++
		r.tailMark.Index++
		switch {
		case c == '\n' && r.tailCR:
			// the CR already advanced the line
		case c == '\n' || c == '\r' || c == 0x85 || c == 0x2028 || c == 0x2029:
			r.tailMark.Line++
			r.tailMark.Column = 0
		default:
			r.tailMark.Column++
		}
		r.tailCR = c == '\r'
	}
	if problem == "" && atEOF && i < len(p) {
		problem = "incomplete UTF-8 octet sequence"
	}
	// Keep the validated prefix even on failure so the error snippet
	// can show the offending line.
	r.buf = append(r.buf, p[:i]...)
	r.pending = p[i:]
	if problem != "" {
		return r.readError(problem)
	}
	return nil
}

// printableRune is the rune-level counterpart of isPrintable, applied
// while decoding.
func printableRune(c rune) bool {
	return c == 0x09 || c == 0x0A || c == 0x0D ||
		c >= 0x20 && c <= 0x7E ||
		c == 0x85 ||
		c >= 0xA0 && c <= 0xD7FF ||
		c >= 0xE000 && c <= 0xFFFD && c != 0xFEFF ||
		c >= 0x10000 && c <= 0x10FFFF
}

// skip advances past one non-break character.
func (r *Reader) skip() {
	r.mark.Index++
	r.mark.Column++
	r.unread--
	r.pos += width(r.buf[r.pos])
}

// skipLine advances past one line break. The caller must have cached
// two characters so a CRLF pair is visible as a unit.
func (r *Reader) skipLine() {
	line := string(r.lineText(r.lineStart))
	if isCRLF(r.buf, r.pos) {
		r.mark.Index += 2
		r.mark.Column = 0
		r.mark.Line++
		r.unread -= 2
		r.pos += 2
	} else if isBreak(r.buf, r.pos) {
		r.mark.Index++
		r.mark.Column = 0
		r.mark.Line++
		r.unread--
		r.pos += width(r.buf[r.pos])
	} else {
		return
	}
	r.prevLine = line
	r.lineStart = r.pos
}

// read appends the current character to out and advances past it.
func (r *Reader) read(out []byte) []byte {
	w := width(r.buf[r.pos])
	out = append(out, r.buf[r.pos:r.pos+w]...)
	r.pos += w
	r.mark.Index++
	r.mark.Column++
	r.unread--
	return out
}

// readLine appends a line break to out and advances past the source
// break. CRLF and NEL normalize to LF; LS and PS are preserved.
func (r *Reader) readLine(out []byte) []byte {
	line := string(r.lineText(r.lineStart))
	buf, pos := r.buf, r.pos
	switch {
	case buf[pos] == '\r' && buf[pos+1] == '\n':
		out = append(out, '\n')
		r.pos += 2
		r.mark.Index += 2
		r.unread -= 2
	case buf[pos] == '\r' || buf[pos] == '\n':
		out = append(out, '\n')
		r.pos++
		r.mark.Index++
		r.unread--
	case buf[pos] == 0xC2 && buf[pos+1] == 0x85:
		out = append(out, '\n')
		r.pos += 2
		r.mark.Index++
		r.unread--
	case buf[pos] == 0xE2 && buf[pos+1] == 0x80 && (buf[pos+2] == 0xA8 || buf[pos+2] == 0xA9):
		out = append(out, buf[pos:pos+3]...)
		r.pos += 3
		r.mark.Index++
		r.unread--
	default:
		return out
	}
	r.mark.Column = 0
	r.mark.Line++
	r.prevLine = line
	r.lineStart = r.pos
	return out
}

// lineText returns the validated text of the line starting at offset
// off in the window, up to the next break or the validation frontier.
func (r *Reader) lineText(off int) []byte {
	line := r.buf[off:]
	for i := 0; i < len(line); i++ {
		if line[i] == 0 || line[i] == '\r' || line[i] == '\n' {
			return line[:i]
		}
	}
	return line
}

// snippet renders the source line holding m for an error message. The
// reader only keeps the line it is positioned on and the one before,
// which covers the marks scan and parse errors point at; for anything
// older it returns "".
func (r *Reader) snippet(m Mark) string {
	switch m.Line {
	case r.mark.Line:
		return caretSnippet(string(r.lineText(r.lineStart)), m.Column)
	case r.mark.Line - 1:
		return caretSnippet(r.prevLine, m.Column)
	}
	return ""
}

// tailSnippet renders the line at the validation frontier, as far as it
// has been decoded.
func (r *Reader) tailSnippet() string {
	start := 0
	if i := bytes.LastIndexAny(r.buf, "\r\n"); i >= 0 {
		start = i + 1
	}
	return caretSnippet(string(r.lineText(start)), r.tailMark.Column)
}

func (r *Reader) readError(problem string) error {
	return &ReadError{posError{Problem: problem, Mark: r.tailMark, Snippet: r.tailSnippet()}}
}
