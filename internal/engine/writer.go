// Copyright 2026 The yamlkit Authors
// SPDX-License-Identifier: Apache-2.0

package engine

import "io"

const writeChunk = 4096

// Writer buffers emitter output and translates line breaks to the
// configured terminator. The first error from the destination sticks:
// later writes are dropped and Flush keeps returning it, so the emitter
// can write unconditionally and check once per document.
type Writer struct {
	dst io.Writer
	br  []byte
	buf []byte
	err error
}

func newWriter(dst io.Writer, br LineBreak) *Writer {
	return &Writer{
		dst: dst,
		br:  br.bytes(),
		buf: make([]byte, 0, writeChunk),
	}
}

func (w *Writer) writeByte(c byte) {
	w.buf = append(w.buf, c)
	w.flushIfFull()
}

func (w *Writer) writeString(s string) {
	w.buf = append(w.buf, s...)
	w.flushIfFull()
}

// writeBreak writes the configured line terminator.
func (w *Writer) writeBreak() {
	w.buf = append(w.buf, w.br...)
	w.flushIfFull()
}

func (w *Writer) flushIfFull() {
	if len(w.buf) >= writeChunk {
		w.flush()
	}
}

func (w *Writer) flush() {
	if w.err == nil && len(w.buf) > 0 {
		if _, err := w.dst.Write(w.buf); err != nil {
			w.err = &WriteError{Err: err}
		}
	}
	w.buf = w.buf[:0]
}

// Flush drains the buffer and reports the first destination error.
func (w *Writer) Flush() error {
	w.flush()
	return w.err
}
