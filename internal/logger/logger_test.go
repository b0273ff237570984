package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitWritesLogFile(t *testing.T) {
	t.Cleanup(func() { Logger = nil })
	dir := t.TempDir()
	require.NoError(t, Init(Config{ConfigDir: dir, Level: "info"}))

	Info("Storage ready", "backend", "sqlite")
	Debug("not written")

	data, err := os.ReadFile(filepath.Join(dir, "logs", "tracklit.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Storage ready")
	assert.NotContains(t, string(data), "not written")
}

func TestInitRejectsUnknownLevel(t *testing.T) {
	t.Cleanup(func() { Logger = nil })
	assert.Error(t, Init(Config{ConfigDir: t.TempDir(), Level: "loud"}))
}

func TestHelpersAreNilSafe(t *testing.T) {
	Logger = nil
	Debug("x")
	Info("x")
	Warn("x")
	Error("x")
}

func TestSetOutput(t *testing.T) {
	t.Cleanup(func() { Logger = nil })
	var buf bytes.Buffer
	SetOutput(&buf, log.WarnLevel)

	Info("quiet")
	Warn("codec anomaly", "table", "habits")
	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "codec anomaly")
}
