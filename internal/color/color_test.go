// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package color

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsColorCapable(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.False(t, isColorCapable(), "Expected color output to be disabled")

	t.Setenv("FORCE_COLOR", "1")
	assert.False(t, isColorCapable(), "Expected color output to be disabled as NO_COLOR is still set")

	t.Setenv("NO_COLOR", "")
	assert.True(t, isColorCapable(), "Expected color output to be enabled as FORCE_COLOR is set and NO_COLOR is unset")
}

func TestColorize(t *testing.T) {
	prev := Enabled()
	t.Cleanup(func() { SetEnabled(prev) })

	SetEnabled(true)
	assert.Equal(t, "\033[1;31mfail\033[0m", Colorize("fail", Bold, FgRed))

	SetEnabled(false)
	assert.Equal(t, "fail", Colorize("fail", Bold, FgRed))
	assert.Equal(t, "\033[0m", ControlString(Reset), "control strings ignore the enabled flag")
}

func TestForWorker(t *testing.T) {
	assert.Equal(t, ForWorker(1), ForWorker(1))
	assert.NotEqual(t, ForWorker(1), ForWorker(2))
	assert.Equal(t, ForWorker(3), ForWorker(-3))

	for id := range 32 {
		c := ForWorker(id)
		assert.NotEqual(t, FgRed, c)
		assert.NotEqual(t, FgGreen, c)
	}
}
