package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"reseller-ledger-backend/internal/config"
)

func TestNew(t *testing.T) {
	log, err := New(config.LoggerConfig{Level: "warn", Encoding: "console"})
	require.NoError(t, err)

	assert.False(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, log.Core().Enabled(zapcore.WarnLevel))
}

func TestNewUnknownLevel(t *testing.T) {
	log, err := New(config.LoggerConfig{Level: "loud", Development: true})
	require.NoError(t, err)

	assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, log.Core().Enabled(zapcore.DebugLevel))
}
