package utils

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLogger(t *testing.T) {
	// 控制台日志
	err := InitLogger(LogLevelNormal, "")
	assert.NoError(t, err)
	assert.Equal(t, logrus.InfoLevel, Log.GetLevel())

	// 文件日志
	logFile := filepath.Join(t.TempDir(), "logs", "test.log")
	err = InitLogger(LogLevelVerbose, logFile)
	assert.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, Log.GetLevel())
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())

	_, err = os.Stat(logFile)
	assert.NoError(t, err)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, logrus.WarnLevel, ParseLevel(LogLevelQuiet))
	assert.Equal(t, logrus.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, logrus.InfoLevel, ParseLevel("n'importe quoi"))
}

func TestLogHelpersWriteToOutput(t *testing.T) {
	require.NoError(t, InitLogger(LogLevelVerbose, ""))

	var buf bytes.Buffer
	SetOutput(&buf)

	Debug("debug %d", 1)
	Info("info")
	Warn("warn %s", "x")
	Error("error")
	WithFields(logrus.Fields{"model": "whisper_large_cpu"}).Info("with fields")

	out := buf.String()
	assert.Contains(t, out, "debug 1")
	assert.Contains(t, out, "warn x")
	assert.Contains(t, out, "model=whisper_large_cpu")
}
