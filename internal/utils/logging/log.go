// Package logging is the program logger.
//
// Call sites use the short leveled printf helpers (I, S, W, E, D, P); output is
// rendered by zerolog to the console and, when configured, appended to a log file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"tasker/internal/domain/consts"

	"github.com/rs/zerolog"
)

// Config holds logger setup options.
type Config struct {
	LogFilePath string
	Console     io.Writer
	NoColor     bool
	Level       int
}

var (
	// Level is the debug verbosity (0-5). D(l, ...) prints when l <= Level.
	Level int

	mu      sync.RWMutex
	zl      = newLogger(os.Stdout, nil, false)
	logFile *os.File
)

// SetupLogging (re)initializes the program logger.
func SetupLogging(cfg Config) error {
	console := cfg.Console
	if console == nil {
		console = os.Stdout
	}

	var f *os.File
	if cfg.LogFilePath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFilePath), consts.PermsArchiveDir); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		var err error
		f, err = os.OpenFile(cfg.LogFilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, consts.PermsLogFile)
		if err != nil {
			return fmt.Errorf("failed to open log file %q: %w", cfg.LogFilePath, err)
		}
	}

	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
	}
	logFile = f
	Level = max(min(cfg.Level, 5), 0)

	var fileWriter io.Writer
	if f != nil {
		fileWriter = f
	}
	zl = newLogger(console, fileWriter, cfg.NoColor)
	return nil
}

// Close flushes and closes the log file, if any.
func Close() error {
	mu.Lock()
	defer mu.Unlock()

	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}

func newLogger(console, file io.Writer, noColor bool) zerolog.Logger {
	cw := zerolog.ConsoleWriter{
		Out:        console,
		TimeFormat: time.DateTime,
		NoColor:    noColor,
	}

	var w io.Writer = cw
	if file != nil {
		w = zerolog.MultiLevelWriter(cw, file)
	}
	return zerolog.New(w).With().Timestamp().Logger()
}

func logger() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := zl
	return &l
}

// I logs an info message.
func I(format string, args ...any) {
	logger().Info().Msgf(format, args...)
}

// S logs a success message.
func S(format string, args ...any) {
	logger().Info().Bool("ok", true).Msgf(format, args...)
}

// W logs a warning.
func W(format string, args ...any) {
	logger().Warn().Msgf(format, args...)
}

// E logs an error along with the calling function.
func E(format string, args ...any) {
	logger().Error().Caller(1).Msgf(format, args...)
}

// D logs a debug message if the debug level is high enough.
func D(l int, format string, args ...any) {
	if l > Level {
		return
	}
	logger().Debug().Int("lvl", l).Caller(1).Msgf(format, args...)
}

// P logs a plain informational line, used for summaries and countdowns.
func P(format string, args ...any) {
	logger().Info().Msgf(format, args...)
}
