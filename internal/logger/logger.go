// Package logger wraps zerolog for use inside a TUI, where stdout and
// stderr belong to the renderer. Everything is written to a log file under
// the user's state directory instead.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

var log = zerolog.Nop()

// Init configures file logging. Must be called before the TUI takes over
// the terminal; before Init every log call is a no-op.
func Init(debug bool) error {
	dir, err := stateDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}

	path := filepath.Join(dir, "weft.log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}

	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	if env := os.Getenv("WEFT_LOG_LEVEL"); env != "" {
		if parsed, err := zerolog.ParseLevel(env); err == nil {
			level = parsed
		}
	}

	zerolog.TimeFieldFormat = time.RFC3339
	log = zerolog.New(f).Level(level).With().Timestamp().Logger()
	return nil
}

// Writer returns an io.Writer that logs each write at debug level. Useful
// for redirecting library output.
func Writer() io.Writer {
	return writerFunc(func(p []byte) (int, error) {
		log.Debug().Msg(string(p))
		return len(p), nil
	})
}

type writerFunc func([]byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }

func stateDir() (string, error) {
	if dir := os.Getenv("WEFT_LOG_DIR"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".local", "state", "weft"), nil
}

// Debug logs a debug message.
func Debug(msg string) { log.Debug().Msg(msg) }

// Debugf logs a formatted debug message.
func Debugf(format string, args ...interface{}) { log.Debug().Msgf(format, args...) }

// Info logs an info message.
func Info(msg string) { log.Info().Msg(msg) }

// Infof logs a formatted info message.
func Infof(format string, args ...interface{}) { log.Info().Msgf(format, args...) }

// Warnf logs a formatted warning.
func Warnf(format string, args ...interface{}) { log.Warn().Msgf(format, args...) }

// Errorf logs a formatted error.
func Errorf(format string, args ...interface{}) { log.Error().Msgf(format, args...) }

// WithError logs an error with context.
func WithError(err error, msg string) { log.Error().Err(err).Msg(msg) }
