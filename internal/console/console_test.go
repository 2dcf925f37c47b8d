// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package console

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chunkyWriter records every Write call separately and splits each one in two,
// so that a non-atomic console would visibly tear lines.
type chunkyWriter struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (w *chunkyWriter) Write(p []byte) (int, error) {
	half := len(p) / 2

	w.mu.Lock()
	w.buf.Write(p[:half])
	w.mu.Unlock()

	w.mu.Lock()
	w.buf.Write(p[half:])
	w.mu.Unlock()

	return len(p), nil
}

func TestConsole_WriteLine(t *testing.T) {
	var buf bytes.Buffer

	c := New(&buf, WithColour(false))
	c.WriteLine(2, "hello")

	assert.Equal(t, "[Worker 2] hello\n", buf.String())
}

func TestConsole_WriteLineColour(t *testing.T) {
	var buf bytes.Buffer

	c := New(&buf, WithColour(true))
	c.WriteLine(1, "hello")

	assert.Contains(t, buf.String(), "[Worker 1]\033[0m hello\n")
	assert.True(t, strings.HasPrefix(buf.String(), "\033["))
}

func TestConsole_Banner(t *testing.T) {
	var buf bytes.Buffer

	c := New(&buf, WithColour(false))
	c.Banner("Worker 1 (10.0.0.1) - Build/Error Resolution", "npm run build")

	out := buf.String()
	assert.Contains(t, out, strings.Repeat("=", bannerWidth))
	assert.Contains(t, out, "Worker 1 (10.0.0.1) - Build/Error Resolution\n")
	assert.Contains(t, out, "Command: npm run build\n")
}

func TestConsole_LinesAreAtomic(t *testing.T) {
	w := &chunkyWriter{}
	c := New(w, WithColour(false))

	const (
		workers = 8
		lines   = 200
	)

	var wg sync.WaitGroup

	for id := 1; id <= workers; id++ {
		wg.Add(1)

		go func(id int) {
			defer wg.Done()

			for i := range lines {
				c.WriteLine(id, fmt.Sprintf("line %04d of worker %d", i, id))
			}
		}(id)
	}

	wg.Wait()

	out := strings.Split(strings.TrimSuffix(w.buf.String(), "\n"), "\n")
	require.Len(t, out, workers*lines)

	next := make(map[int]int)

	for _, l := range out {
		var prefixID, i, id int

		_, err := fmt.Sscanf(l, "[Worker %d] line %04d of worker %d", &prefixID, &i, &id)
		require.NoError(t, err, "torn line %q", l)
		assert.Equal(t, prefixID, id, "prefix and body belong to different workers: %q", l)
		assert.Equal(t, next[id], i, "per-worker order must be preserved")
		next[id] = i + 1
	}
}
