package log_test

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"aethersort/internal/log"

	zlog "github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureStderr swaps os.Stderr for a pipe around fn and returns what
// was written to it.
func captureStderr(t *testing.T, fn func()) string {
	t.Helper()

	r, w, err := os.Pipe()
	require.NoError(t, err)

	orig := os.Stderr
	os.Stderr = w
	defer func() { os.Stderr = orig }()

	fn()

	require.NoError(t, w.Close())
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(data)
}

func TestSetupCreatesActivityLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "activity.log")

	log.Setup(0, path)
	zlog.Info().Str("source", "/tmp/a.txt").Str("destination", "/tmp/Images/a.txt").Msg("moved")

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	line := string(data)
	assert.Contains(t, line, "moved")
	assert.Contains(t, line, "/tmp/a.txt")
	assert.Contains(t, line, "destination=")
}

func TestActivityLogAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity.log")

	log.Setup(0, path)
	zlog.Info().Msg("first")

	// A second setup must append, not truncate
	log.Setup(0, path)
	zlog.Info().Msg("second")

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Contains(t, string(data), "first")
	assert.Contains(t, string(data), "second")
	assert.Equal(t, 2, strings.Count(string(data), "\n"))
}

func TestConsoleQuietByDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity.log")

	out := captureStderr(t, func() {
		log.Setup(0, path)
		zlog.Info().Msg("routine-move")
		zlog.Warn().Msg("rule-disabled")
	})

	// At verbosity 0 the console only shows warnings; the activity file
	// still records everything.
	assert.NotContains(t, out, "routine-move")
	assert.Contains(t, out, "rule-disabled")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "routine-move")
	assert.Contains(t, string(data), "rule-disabled")
}

func TestConsoleInfoAtVerbosityOne(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity.log")

	out := captureStderr(t, func() {
		log.Setup(1, path)
		zlog.Info().Msg("routine-move")
	})

	assert.Contains(t, out, "routine-move")
}

func TestComponentLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity.log")
	log.Setup(0, path)

	lg := log.With("sorter")
	lg.Info().Msg("hello")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "component=sorter")
}
