package logger_test

import (
	"bytes"
	"log"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/whisperbox/secrets/logger"
)

func TestNewLogLevel(t *testing.T) {
	tcs := []struct {
		val      string
		expected logger.LogLevel
	}{
		{"DEBUG", logger.LogLevelDebug},
		{"INFO", logger.LogLevelInfo},
		{"WARN", logger.LogLevelWarn},
		{"ERROR", logger.LogLevelError},
		{"FATAL", logger.LogLevelFatal},
		{"whoops", logger.LogLevelUnk},
		{"", logger.LogLevelUnk},
	}
	for _, tc := range tcs {
		require.Equal(t, tc.expected, logger.NewLogLevel(tc.val))
	}
}

func TestAppLoggerRespectsLevel(t *testing.T) {
	// Arrange
	b := new(bytes.Buffer)
	l := logger.New(
		logger.WithLogger(log.New(b, "", 0)),
		logger.WithLevel(logger.LogLevelWarn),
	)

	// Act
	l.Debug("quiet", nil)
	l.Info("quiet", nil)

	// Assert
	require.Zero(t, b.Len())

	// Act
	l.Warn("loud", nil)

	// Assert
	require.Contains(t, b.String(), "[WARN]")
	require.Contains(t, b.String(), "'loud'")
}

func TestAppLoggerIncludesContext(t *testing.T) {
	// Arrange
	b := new(bytes.Buffer)
	l := logger.New(
		logger.WithLogger(log.New(b, "", 0)),
		logger.WithLevel(logger.LogLevelInfo),
	)

	// Act
	l.Error("whoops", &logger.LogContext{Data: map[string]interface{}{"key": "val"}})

	// Assert
	require.Contains(t, b.String(), "[ERROR]")
	require.Contains(t, b.String(), "log_context:")
	require.Contains(t, b.String(), "key")
	require.Contains(t, b.String(), "val")
}
