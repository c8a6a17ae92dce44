package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/daeldrn/fdashboardtemplate/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "fleet.log")

	l, err := New(config.LogConfig{File: path, Level: "info"}, "release")
	require.NoError(t, err)

	l.Debug("hidden")
	l.Info("fuel operation recorded", zap.Uint("operation_id", 7))
	_ = l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "fuel operation recorded", entry["msg"])
	assert.Equal(t, float64(7), entry["operation_id"])
	assert.Contains(t, entry, "time")
}

func TestNew_Levels(t *testing.T) {
	l, err := New(config.LogConfig{Level: "warn"}, "release")
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))

	l, err = New(config.LogConfig{}, "debug")
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))

	_, err = New(config.LogConfig{Level: "loud"}, "release")
	assert.Error(t, err)
}
