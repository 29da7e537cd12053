package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestBuild_Levels(t *testing.T) {
	tests := []struct {
		level, format string
		debug         bool
	}{
		{"debug", "console", true},
		{"warn", "json", false},
		{"not-a-level", "", false},
	}
	for _, tt := range tests {
		l, err := build(tt.level, tt.format)
		require.NoError(t, err, tt.level)
		assert.Equal(t, tt.debug, l.Core().Enabled(zapcore.DebugLevel), tt.level)
		assert.True(t, l.Core().Enabled(zapcore.ErrorLevel), tt.level)
	}

	l, err := build("not-a-level", "")
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel), "unknown level falls back to info")
}

func TestGet_InitializesOnce(t *testing.T) {
	first := Get()
	require.NotNil(t, first)
	require.NoError(t, Init("debug", "console"))
	assert.Same(t, first, Get())
}
