package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHelpersSafeBeforeInit(t *testing.T) {
	require.NotNil(t, Log)

	assert.NotPanics(t, func() {
		Debug("debug before init")
		Info("info before init", zap.String("key", "value"))
		Warn("warn before init")
		Error("error before init")
		Sync()
	})

	assert.NotNil(t, GetLogger())
}

func TestInitInstallsLogger(t *testing.T) {
	previous := Log
	defer func() { Log = previous }()

	require.NoError(t, Init("debug", "json", "stdout"))
	assert.NotEqual(t, previous, Log)
	assert.True(t, Log.Core().Enabled(zap.DebugLevel))
}

func TestInitRejectsBadLevel(t *testing.T) {
	err := Init("chatty", "json", "stdout")
	assert.Error(t, err)
}
