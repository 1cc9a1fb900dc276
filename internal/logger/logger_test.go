package logger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zcrawl/zcrawl/internal/logger"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  logger.Config
		wantErr error
	}{
		{name: "empty config is valid", config: logger.Config{}},
		{name: "valid level", config: logger.Config{Level: logger.DebugLevel}},
		{name: "valid encoding", config: logger.Config{Encoding: "json"}},
		{name: "bad level", config: logger.Config{Level: "verbose"}, wantErr: logger.ErrInvalidLevel},
		{name: "bad encoding", config: logger.Config{Encoding: "xml"}, wantErr: logger.ErrInvalidEncoding},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestNoOpLoggerChains(t *testing.T) {
	log := logger.NewNoOp()

	chained := log.WithComponent("collector").
		WithCategory("bong_da").
		WithURL("https://znews.vn/bong-da.html").
		WithAttempt(2)

	require.NotNil(t, chained)
	chained.Info("ignored")
	chained.Error("ignored", "key", "value")
}
