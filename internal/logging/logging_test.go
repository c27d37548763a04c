package logging_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/keshon/lvc/internal/logging"
)

func TestCreateLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   logging.Level
		format  logging.Format
		enabled zapcore.Level
		wantErr bool
	}{
		{name: "debug console", level: logging.LevelDebug, format: logging.FormatConsole, enabled: zapcore.DebugLevel},
		{name: "warn structured", level: logging.LevelWarn, format: logging.FormatStructured, enabled: zapcore.WarnLevel},
		{name: "bad level", level: "loud", format: logging.FormatConsole, wantErr: true},
		{name: "bad format", level: logging.LevelInfo, format: "xml", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			logger, err := logging.NewFactory().Create(tc.level, tc.format)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, logger.Core().Enabled(tc.enabled))
			assert.False(t, logger.Core().Enabled(tc.enabled-1))
		})
	}
}

func TestStructuredOutput(t *testing.T) {
	out := filepath.Join(t.TempDir(), "log.jsonl")
	f := &logging.Factory{OutputPaths: []string{out}}

	logger, err := f.Create(logging.LevelInfo, logging.FormatStructured)
	require.NoError(t, err)
	logger.Info("commit created", zap.String("hash", "abc"))
	_ = logger.Sync()

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	line := strings.TrimSpace(string(data))

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &entry))
	assert.Equal(t, "commit created", entry["msg"])
	assert.Equal(t, "abc", entry["hash"])
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, logging.OrNop(nil))
	l := zap.NewExample()
	assert.Same(t, l, logging.OrNop(l))
}
