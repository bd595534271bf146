package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestGetBeforeInitIsUsable(t *testing.T) {
	Set(nil)
	require.NotNil(t, Get())
	Get().Info("nothing happens")
}

func TestInitLevels(t *testing.T) {
	cases := map[LogLevel]zapcore.Level{
		DebugLevel:       zapcore.DebugLevel,
		InfoLevel:        zapcore.InfoLevel,
		WarnLevel:        zapcore.WarnLevel,
		ErrorLevel:       zapcore.ErrorLevel,
		LogLevel("loud"): zapcore.InfoLevel,
	}
	for level, want := range cases {
		require.NoError(t, Init(true, level))
		assert.True(t, Get().Core().Enabled(want), "level %s", level)
		if want > zapcore.DebugLevel {
			assert.False(t, Get().Core().Enabled(want-1), "level %s", level)
		}
	}
	Set(nil)
}

func TestSetCapturesEntries(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	Set(zap.New(core))
	defer Set(nil)

	Get().Info("expense created", zap.String("email", "a@b.c"))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "expense created", entry.Message)
	assert.Equal(t, "a@b.c", entry.ContextMap()["email"])
}
