// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package teereader

import (
	"bytes"
	"strings"
	"sync"
)

// LineWriter is an io.Writer that accumulates everything written to it and calls
// onLine once per complete line, in the order the lines were written.
// It is safe for concurrent use; the callback is invoked with the writer's lock held,
// so lines are never delivered out of order.
type LineWriter struct {
	mu      sync.Mutex
	full    bytes.Buffer
	partial []byte
	onLine  func(line string)
}

// NewLineWriter creates a LineWriter. onLine may be nil, in which case the
// writer only accumulates.
func NewLineWriter(onLine func(line string)) *LineWriter {
	return &LineWriter{
		onLine: onLine,
	}
}

// Write implements io.Writer. It never returns an error.
func (lw *LineWriter) Write(p []byte) (int, error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()

	lw.full.Write(p)

	data := p
	for {
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			lw.partial = append(lw.partial, data...)
			break
		}

		line := string(append(lw.partial, data[:i]...))
		lw.partial = lw.partial[:0]
		lw.emit(line)
		data = data[i+1:]
	}

	return len(p), nil
}

// Flush delivers any trailing partial line to the callback.
// It should be called once the stream has ended.
func (lw *LineWriter) Flush() {
	lw.mu.Lock()
	defer lw.mu.Unlock()

	if len(lw.partial) == 0 {
		return
	}

	line := string(lw.partial)
	lw.partial = lw.partial[:0]
	lw.emit(line)
}

// emit must be called with the lock held.
func (lw *LineWriter) emit(line string) {
	line = strings.TrimSuffix(line, "\r")

	if lw.onLine != nil {
		lw.onLine(line)
	}
}

// String returns everything written so far.
func (lw *LineWriter) String() string {
	lw.mu.Lock()
	defer lw.mu.Unlock()

	return lw.full.String()
}

// Len returns the number of bytes written so far.
func (lw *LineWriter) Len() int {
	lw.mu.Lock()
	defer lw.mu.Unlock()

	return lw.full.Len()
}

// Partial returns the bytes after the last newline that have not been delivered yet.
func (lw *LineWriter) Partial() string {
	lw.mu.Lock()
	defer lw.mu.Unlock()

	return string(lw.partial)
}
