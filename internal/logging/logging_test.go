package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestOffIsNop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "svls.log")
	log, err := New("off", path)
	require.NoError(t, err)
	log.Error("dropped")
	assert.False(t, log.Core().Enabled(zapcore.ErrorLevel))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "off must not create the log file")
}

func TestLevels(t *testing.T) {
	cases := map[string]zapcore.Level{
		"error": zapcore.ErrorLevel,
		"warn":  zapcore.WarnLevel,
		"info":  zapcore.InfoLevel,
		"debug": zapcore.DebugLevel,
		"trace": zapcore.DebugLevel,
		"INFO":  zapcore.InfoLevel,
	}
	for name, want := range cases {
		t.Run(name, func(t *testing.T) {
			log, err := New(name, filepath.Join(t.TempDir(), "svls.log"))
			require.NoError(t, err)
			defer func() { _ = log.Sync() }()
			assert.True(t, log.Core().Enabled(want))
			if want > zapcore.DebugLevel {
				assert.False(t, log.Core().Enabled(want-1))
			}
		})
	}
}

func TestUnknownLevel(t *testing.T) {
	_, err := New("verbose", filepath.Join(t.TempDir(), "svls.log"))
	require.ErrorIs(t, err, ErrUnknownLevel)
}

func TestWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "svls.log")
	log, err := New("info", path)
	require.NoError(t, err)
	log.Info("server started", zap.String("root", "/work"))
	log.Debug("hidden")
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "server started")
	assert.Contains(t, string(data), `"root": "/work"`)
	assert.NotContains(t, string(data), "hidden")
}
