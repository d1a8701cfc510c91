package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"contractflow/internal/config"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name   string
		cfg    config.LogConfig
		debug  bool
		errMsg string
	}{
		{name: "json info", cfg: config.LogConfig{Level: "info", Format: "json"}},
		{name: "console debug", cfg: config.LogConfig{Level: "debug", Format: "console"}, debug: true},
		{name: "bad level", cfg: config.LogConfig{Level: "chatty", Format: "json"}, errMsg: "invalid log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := NewLogger(&tt.cfg)
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.debug, log.Core().Enabled(zapcore.DebugLevel))
			assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
		})
	}
}
