package app

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, ParseLogLevel("debug"))
	require.Equal(t, slog.LevelWarn, ParseLogLevel("WARN"))
	require.Equal(t, slog.LevelWarn, ParseLogLevel("warning"))
	require.Equal(t, slog.LevelError, ParseLogLevel("error"))
	require.Equal(t, slog.LevelInfo, ParseLogLevel("chatty"))
}

func TestLogFileWriter_TruncatesToNewestLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "chunking.log")
	w, err := newLogFileWriter(path)
	require.NoError(t, err)
	w.maxSize = 100
	w.keepSize = 50
	t.Cleanup(func() { _ = w.Close() })

	for i := range 20 {
		_, err := w.Write([]byte(strings.Repeat("x", 8) + string(rune('a'+i)) + "\n"))
		require.NoError(t, err)
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.LessOrEqual(t, len(data), 100)
	require.True(t, strings.HasSuffix(string(data), "xxxxxxxxt\n"), "newest line is kept")
	require.True(t, strings.HasPrefix(string(data), "xxxxxxxx"), "no partial first line")
}

func TestNewLogger_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chunking.log")
	logger, closer, err := NewLogger(LogSettings{Level: "debug", Path: path})
	require.NoError(t, err)

	logger.Debug("hello", "k", "v")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "msg=hello")
	require.Contains(t, string(data), "k=v")
}
