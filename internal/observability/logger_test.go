package observability

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/allbin/flashwriter/internal/config"
)

func TestSetupLoggerFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "run.log")
	logger, err := SetupLogger(config.LogConfig{
		Level:   "info",
		Format:  "json",
		Outputs: []string{path},
	})
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("phase", zap.String("phase", "loading"), zap.Int("baud", 115200))
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "phase", entry["msg"])
	assert.Equal(t, "loading", entry["phase"])
	assert.EqualValues(t, 115200, entry["baud"])
}

func TestSetupLoggerRotation(t *testing.T) {
	dir := t.TempDir()
	rotated := filepath.Join(dir, "flashwriter.log")
	logger, err := SetupLogger(config.LogConfig{
		Level:   "debug",
		Format:  "console",
		Outputs: []string{filepath.Join(dir, "ignored.log")},
		Rotation: config.RotationConfig{
			Enable:   true,
			Filename: rotated,
		},
	})
	require.NoError(t, err)

	logger.Debug("prompt matched", zap.String("expected", ">"))
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(rotated)
	require.NoError(t, err)
	assert.Contains(t, string(data), "prompt matched")
	assert.NoFileExists(t, filepath.Join(dir, "ignored.log"))
}

func TestSetupLoggerInvalidLevel(t *testing.T) {
	_, err := SetupLogger(config.LogConfig{Level: "loud", Outputs: []string{"stderr"}})
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zap.AtomicLevel
	}{
		{"debug", zap.NewAtomicLevelAt(zap.DebugLevel)},
		{"WARNING", zap.NewAtomicLevelAt(zap.WarnLevel)},
		{"", zap.NewAtomicLevelAt(zap.InfoLevel)},
		{"error", zap.NewAtomicLevelAt(zap.ErrorLevel)},
	}

	for _, tt := range tests {
		got, err := parseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want.Level(), got.Level(), tt.in)
	}
}
