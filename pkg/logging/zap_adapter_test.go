package logging

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kevin07696/card-gateways/internal/adapters/ports"
)

func TestZapLoggerAdapter_ConvertsFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewZapLogger(zap.New(core))

	logger.Info("processing purchase",
		ports.String("gateway", "credorax"),
		ports.Int("bytes", 42),
		ports.Duration("elapsed", time.Second),
		ports.Err(errors.New("boom")),
	)
	logger.Debug("debug")
	logger.Warn("warn")
	logger.Error("error")

	require.Equal(t, 4, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "processing purchase", entry.Message)

	ctx := entry.ContextMap()
	assert.Equal(t, "credorax", ctx["gateway"])
	assert.Equal(t, int64(42), ctx["bytes"])
	assert.Equal(t, time.Second, ctx["elapsed"])
	assert.Equal(t, "boom", ctx["error"])

	assert.Equal(t, zapcore.ErrorLevel, logs.All()[3].Level)
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger("debug", true)
	require.NoError(t, err)
	assert.NotNil(t, logger)

	_, err = NewLogger("loud", false)
	assert.Error(t, err)
}

func TestMaskCardNumber(t *testing.T) {
	assert.Equal(t, "411111******1111", MaskCardNumber("4111111111111111"))
	assert.Equal(t, "****", MaskCardNumber("1234"))
}
