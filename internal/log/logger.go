// Package log configures zerolog for AetherSort: leveled console output
// on stderr plus an append-only, human-readable activity log file that
// records every move and every per-file error.
package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultActivityPath returns the default activity log location
// ($XDG_STATE_HOME/aethersort/activity.log).
func DefaultActivityPath() string {
	return filepath.Join(xdg.StateHome, "aethersort", "activity.log")
}

// Setup configures the global logger. Verbosity 0 logs warnings and
// above to the console, 1 adds info, 2 and up adds debug. The activity
// file always receives info-level entries so every action is on record;
// if it cannot be opened, logging continues on the console alone.
func Setup(verbosity int, activityPath string) {
	if verbosity >= 2 {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	consoleWriter := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.Kitchen,
	}
	console := consoleLevelWriter{w: consoleWriter, min: consoleLevel(verbosity)}

	writers := []io.Writer{console}

	file, err := openActivityFile(activityPath)
	if err == nil {
		// Plain timestamped text in the file, one line per action
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        file,
			TimeFormat: "2006-01-02 15:04:05",
			NoColor:    true,
		})
	}

	// MultiLevelWriter keeps WriteLevel visible on the children; a plain
	// io.MultiWriter would reduce the console writer to level-blind Write
	// calls and defeat the verbosity filter.
	log.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Logger()

	if err != nil {
		log.Warn().Err(err).Str("path", activityPath).Msg("activity log unavailable, console only")
	}
}

// With returns a logger tagged with a component name.
func With(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

func consoleLevel(verbosity int) zerolog.Level {
	switch verbosity {
	case 0:
		return zerolog.WarnLevel
	case 1:
		return zerolog.InfoLevel
	default:
		return zerolog.DebugLevel
	}
}

// consoleLevelWriter keeps the console quieter than the activity file.
type consoleLevelWriter struct {
	w   io.Writer
	min zerolog.Level
}

func (c consoleLevelWriter) Write(p []byte) (int, error) {
	return c.w.Write(p)
}

func (c consoleLevelWriter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	if level < c.min {
		return len(p), nil
	}
	return c.w.Write(p)
}

// openActivityFile opens the log file in append mode, creating parent
// directories as needed.
func openActivityFile(path string) (*os.File, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open activity log: %w", err)
	}

	return file, nil
}
