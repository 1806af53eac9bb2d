package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLevels(t *testing.T) {
	for _, tc := range []struct {
		level string
		json  bool
		want  zapcore.Level
	}{
		{"debug", false, zapcore.DebugLevel},
		{"INFO", true, zapcore.InfoLevel},
		{"warn", false, zapcore.WarnLevel},
	} {
		log, err := New(Config{Level: tc.level, JSON: tc.json})
		require.NoError(t, err, tc.level)
		assert.True(t, log.Core().Enabled(tc.want), tc.level)
		assert.False(t, log.Core().Enabled(tc.want-1), tc.level)
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(Config{Level: "loud"})
	assert.Error(t, err)
}
