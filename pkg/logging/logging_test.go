/*
Copyright © 2025 Kustodian Authors
SPDX-License-Identifier: Apache-2.0
*/

package logging

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
		{"  Error  ", slog.LevelError},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, ParseLevel(tc.input), tc.input)
	}
}

func TestNewStructuredLogger(t *testing.T) {
	t.Parallel()

	logger := NewStructuredLogger("kustodian", "v1.0.0", "debug")
	require.NotNil(t, logger)
	assert.True(t, logger.Enabled(t.Context(), slog.LevelDebug))

	quiet := NewStructuredLogger("kustodian", "v1.0.0", "error")
	assert.False(t, quiet.Enabled(t.Context(), slog.LevelInfo))
}
