// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) {
	tests := []struct {
		name          string
		setupContext  func() context.Context
		expectDefault bool
	}{
		{
			name: "context with logger",
			setupContext: func() context.Context {
				return New(context.Background(), slog.New(slog.NewTextHandler(os.Stderr, nil)))
			},
		},
		{
			name:          "context without logger",
			setupContext:  context.Background,
			expectDefault: true,
		},
		{
			name: "context with nil logger",
			setupContext: func() context.Context {
				return New(context.Background(), nil)
			},
			expectDefault: true,
		},
		{
			name: "context with wrong type value",
			setupContext: func() context.Context {
				return context.WithValue(context.Background(), loggerKey{}, "not a logger")
			},
			expectDefault: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := Logger(tt.setupContext())
			require.NotNil(t, logger)

			if tt.expectDefault {
				assert.Same(t, DefaultLogger, logger)
			} else {
				assert.NotSame(t, DefaultLogger, logger)
			}
		})
	}
}

func TestLoggingFunctions(t *testing.T) {
	var buf bytes.Buffer

	ctx := New(context.Background(), slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})))

	tests := []struct {
		name     string
		logFunc  func(context.Context, string, ...any)
		message  string
		expected string
	}{
		{name: "info", logFunc: Info, message: "dispatching", expected: "INFO"},
		{name: "debug", logFunc: Debug, message: "command info", expected: "DEBUG"},
		{name: "warn", logFunc: Warn, message: "worker slow", expected: "WARN"},
		{name: "error", logFunc: Error, message: "transport failure", expected: "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.logFunc(ctx, tt.message, "workerID", 1)
			assert.Contains(t, buf.String(), tt.expected)
			assert.Contains(t, buf.String(), tt.message)
			assert.Contains(t, buf.String(), "workerID=1")
		})
	}
}

func TestWith(t *testing.T) {
	var buf bytes.Buffer

	ctx := New(context.Background(), slog.New(slog.NewTextHandler(&buf, nil)))
	ctx = With(ctx, "component", "dispatch")

	Info(ctx, "hello")
	assert.Contains(t, buf.String(), "component=dispatch")
}

func TestNewForTUI(t *testing.T) {
	orig := LevelVar.Level()
	t.Cleanup(func() { LevelVar.Set(orig) })
	LevelVar.Set(slog.LevelInfo)

	var buf bytes.Buffer

	ctx := NewForTUI(context.Background(), &buf)
	Info(ctx, "buffered while the dashboard runs", "workers", 3)

	out := buf.String()
	assert.Contains(t, out, "buffered while the dashboard runs")
	assert.Regexp(t, `"workers":\s*3`, out)
	assert.NotContains(t, out, "\033[", "TUI logger must not emit colour codes")
}

func TestLogLevelFromEnv(t *testing.T) {
	tests := []struct {
		envValue string
		want     slog.Level
	}{
		{envValue: "DEBUG", want: slog.LevelDebug},
		{envValue: "info", want: slog.LevelInfo},
		{envValue: "WARN", want: slog.LevelWarn},
		{envValue: "ERROR", want: slog.LevelError},
		{envValue: "INVALID", want: slog.LevelWarn},
		{envValue: "", want: slog.LevelWarn},
	}

	for _, tt := range tests {
		t.Run(tt.envValue, func(t *testing.T) {
			t.Setenv(LogLevelEnvVar, tt.envValue)
			assert.Equal(t, tt.want, logLevelFromEnv())
		})
	}
}

func TestFromEnv(t *testing.T) {
	tests := []struct {
		value string
		want  *slog.Logger
	}{
		{value: "", want: DefaultLogger},
		{value: "pretty", want: DefaultLogger},
		{value: "json", want: JSONLogger},
		{value: " JSON ", want: JSONLogger},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv(LogFormatEnvVar, tt.value)
			assert.Same(t, tt.want, FromEnv())
		})
	}
}
