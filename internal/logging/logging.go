package logging

import (
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/rs/zerolog"
)

// New creates a new zerolog logger with console and file output
func New() zerolog.Logger {
	return newLogger(os.Stderr, getLogPath())
}

// NewWithLevel is New filtered at the given level name ("debug", "warn", ...).
// Unknown names fall back to warn so a typo never floods the terminal.
func NewWithLevel(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.WarnLevel
	}
	return New().Level(lvl)
}

func newLogger(console io.Writer, logPath string) zerolog.Logger {
	consoleWriter := zerolog.ConsoleWriter{Out: console, TimeFormat: time.RFC3339}

	// Ensure directory exists
	_ = os.MkdirAll(filepath.Dir(logPath), 0755)

	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		// Console only; a read-only home must not stop a recording
		log := zerolog.New(consoleWriter).With().Timestamp().Caller().Logger()
		log.Warn().Err(err).Str("path", logPath).Msg("Failed to open log file")
		return log
	}

	// Multi-writer: console + file
	multi := zerolog.MultiLevelWriter(consoleWriter, logFile)

	return zerolog.New(multi).With().Timestamp().Caller().Logger()
}

// getLogPath returns platform-specific log file path
func getLogPath() string {
	var base string

	switch runtime.GOOS {
	case "darwin":
		base = os.Getenv("HOME") + "/Library/Logs"
	case "windows":
		base = os.Getenv("LOCALAPPDATA")
	default:
		if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
			base = xdg
		} else {
			base = os.Getenv("HOME") + "/.local/state"
		}
	}

	return filepath.Join(base, "whisper-connector", "whisper-connector.log")
}
