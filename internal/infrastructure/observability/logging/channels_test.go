package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openFDs(t *testing.T) int {
	t.Helper()
	entries, err := os.ReadDir("/proc/self/fd")
	if err != nil {
		t.Skip("no /proc/self/fd on this platform")
	}
	return len(entries)
}

func TestSetChannelLevelReusesLogFile(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewChanneledLogger(&LoggerConfig{
		OutputToFile: true,
		LogDirectory: dir,
		JSONFormat:   true,
		DefaultLevel: slog.LevelInfo,
	})
	require.NoError(t, err)
	defer logger.Close()

	assert.Len(t, logger.files, len(allChannels))
	cacheFile := logger.files[ChannelCache]
	before := openFDs(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, logger.SetChannelLevel(ChannelCache, slog.LevelDebug))
	}

	assert.Equal(t, before, openFDs(t))
	assert.Len(t, logger.files, len(allChannels))
	assert.Same(t, cacheFile, logger.files[ChannelCache])

	logger.Cache().Debug("after level change")
	data, err := os.ReadFile(filepath.Join(dir, "cache.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "after level change")
}

func TestSetChannelLevel(t *testing.T) {
	logger := NewDiscardLogger()

	require.NoError(t, logger.SetChannelLevel(ChannelSettings, slog.LevelDebug))
	levels := logger.GetChannelLevels()
	assert.Equal(t, "DEBUG", levels["settings"])
	assert.Equal(t, "ERROR", levels["cache"])

	assert.Error(t, logger.SetChannelLevel(Channel("nope"), slog.LevelDebug))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel(" Debug "))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("fatal"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("whatever"))
}
